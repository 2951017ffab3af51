// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppPort string
	AppEnv  string

	LogLevel string

	// DatabaseURL selects PostgreSQL storage; empty means in-memory storage.
	DatabaseURL        string
	DBMaxConns         int32
	TxStatementTimeout time.Duration
	MigrateOnStart     bool

	// BusinessTimezone defines the calendar day used for receipt codes.
	BusinessTimezone string
	Location         *time.Location

	MetricsEnabled bool
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// UsesMemoryStore reports whether no database is configured.
func (c Config) UsesMemoryStore() bool {
	return c.DatabaseURL == ""
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("TX_STATEMENT_TIMEOUT", "30s")
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("BUSINESS_TIMEZONE", "Asia/Ho_Chi_Minh")
	v.SetDefault("METRICS_ENABLED", true)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:            v.GetString("APP_PORT"),
		AppEnv:             v.GetString("APP_ENV"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		DBMaxConns:         v.GetInt32("DB_MAX_CONNS"),
		TxStatementTimeout: v.GetDuration("TX_STATEMENT_TIMEOUT"),
		MigrateOnStart:     v.GetBool("MIGRATE_ON_START"),
		BusinessTimezone:   v.GetString("BUSINESS_TIMEZONE"),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
	}

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", cfg.BusinessTimezone, err)
	}
	cfg.Location = loc

	if cfg.AppPort == "" {
		return Config{}, fmt.Errorf("APP_PORT must not be empty")
	}
	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 25
	}

	return cfg, nil
}
