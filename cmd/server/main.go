// Package main is the entry point for the Lâm Anh shop API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HuyKhos/lamanh-shop-app/internal/app"
	"github.com/HuyKhos/lamanh-shop-app/internal/config"
	v1 "github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/metrics"
	"github.com/HuyKhos/lamanh-shop-app/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.ParseConfig(cfg.LogLevel, cfg.AppEnv))
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting lamanh-shop server", "env", cfg.AppEnv, "timezone", cfg.BusinessTimezone)

	// --- Storage ---
	backend, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	// --- Metrics ---
	var observers app.Observers
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(nil)
		observers = app.Observers{Movements: m, Payments: m}
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:      log,
		Services:    app.NewServices(backend, observers),
		Store:       backend,
		StorageName: backend.Name,
		Metrics:     m,
		Debug:       cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.AppPort, "storage", backend.Name)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
