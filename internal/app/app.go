// Package app assembles repositories and services for the selected storage backend.
package app

import (
	"context"
	"fmt"

	"github.com/HuyKhos/lamanh-shop-app/internal/config"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/numerator"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/tx"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/import_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/settings"
	v1 "github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1"
	pgnumerator "github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/numerator"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/memory"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres/document_repo"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres/migrations"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres/register_repo"
	"github.com/HuyKhos/lamanh-shop-app/pkg/logger"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Backend holds the repositories of one storage implementation.
type Backend struct {
	Name string

	TxManager tx.Manager
	Products  product.Repository
	Partners  partner.Repository
	Imports   import_receipt.Repository
	Exports   export_receipt.Repository
	Debts     debt.Repository
	Settings  settings.Repository
	Numerator numerator.Generator
	Auditor   documents.Auditor

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks the store is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

// Close releases connections. Safe to call on the memory backend.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open selects PostgreSQL when DATABASE_URL is set and the in-memory store otherwise.
func Open(ctx context.Context, cfg config.Config, log *logger.Logger) (*Backend, error) {
	numCfg := numerator.Config{Location: cfg.Location, PadWidth: 3}

	if cfg.UsesMemoryStore() {
		log.Warn("DATABASE_URL not set, using in-memory storage; data is lost on restart")
		return NewMemoryBackend(memory.NewStore(), numCfg), nil
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Infow("database connection established", "max_conns", poolCfg.MaxConns)

	if cfg.MigrateOnStart {
		if err := migrations.Up(ctx, pool.Pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	txm := postgres.NewTxManager(pool, cfg.TxStatementTimeout)
	auditor, err := postgres.NewAuditService(txm)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Backend{
		Name:      StoragePostgres,
		TxManager: txm,
		Products:  catalog_repo.NewProductRepo(txm),
		Partners:  catalog_repo.NewPartnerRepo(txm),
		Imports:   document_repo.NewImportReceiptRepo(txm),
		Exports:   document_repo.NewExportReceiptRepo(txm),
		Debts:     register_repo.NewDebtRepo(txm),
		Settings:  postgres.NewSettingsRepo(txm),
		Numerator: pgnumerator.New(txm, numCfg),
		Auditor:   auditor,
		ping:      pool.Ping,
		close: func() {
			pool.LogStats(context.Background())
			pool.Close()
		},
	}, nil
}

// NewMemoryBackend wires the in-memory store.
func NewMemoryBackend(store *memory.Store, numCfg numerator.Config) *Backend {
	return &Backend{
		Name:      StorageMemory,
		TxManager: store,
		Products:  store.Products(),
		Partners:  store.Partners(),
		Imports:   store.Imports(),
		Exports:   store.Exports(),
		Debts:     store.Debts(),
		Settings:  store.Settings(),
		Numerator: memory.NewNumerator(store, numCfg),
		Auditor:   memory.NewAuditor(store),
		ping:      store.Ping,
	}
}

// Observers receives engine and payment outcomes. Nil fields are ignored.
type Observers struct {
	Movements documents.Observer
	Payments  debt.PaymentObserver
}

// NewServices builds the domain services on top of b.
func NewServices(b *Backend, obs Observers) v1.Services {
	return v1.Services{
		Products: product.NewService(b.Products),
		Partners: partner.NewService(b.Partners),
		Imports: import_receipt.NewService(import_receipt.Deps{
			Repo:      b.Imports,
			Products:  b.Products,
			Partners:  b.Partners,
			Debts:     b.Debts,
			Numerator: b.Numerator,
			TxManager: b.TxManager,
			Auditor:   b.Auditor,
			Observer:  obs.Movements,
		}),
		Exports: export_receipt.NewService(export_receipt.Deps{
			Repo:      b.Exports,
			Products:  b.Products,
			Partners:  b.Partners,
			Debts:     b.Debts,
			Numerator: b.Numerator,
			TxManager: b.TxManager,
			Auditor:   b.Auditor,
			Observer:  obs.Movements,
		}),
		Debts:    debt.NewService(b.Debts, b.Partners, b.TxManager, obs.Payments),
		Settings: settings.NewService(b.Settings),
	}
}
