// Package numerator provides the PostgreSQL receipt code generator.
// It implements core/numerator.Generator on the counters table.
package numerator

import (
	"context"
	"fmt"
	"time"

	corenumerator "github.com/HuyKhos/lamanh-shop-app/internal/core/numerator"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
)

// QuerierSource resolves the querier for ctx: the open transaction when
// there is one, the pool otherwise. *postgres.TxManager implements it.
type QuerierSource interface {
	GetQuerier(ctx context.Context) postgres.Querier
}

// Service issues per-day sequential codes.
type Service struct {
	db  QuerierSource
	cfg corenumerator.Config
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator service.
func New(db QuerierSource, cfg corenumerator.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

// nextSQL creates the day's counter at 1 or increments it. Inside a receipt
// transaction the row stays locked until commit and a rollback undoes the step.
const nextSQL = `
	INSERT INTO counters (key, seq) VALUES ($1, 1)
	ON CONFLICT (key) DO UPDATE SET seq = counters.seq + 1
	RETURNING seq`

// previewSQL creates the day's counter at 0 if missing and reads it unchanged.
const previewSQL = `
	INSERT INTO counters (key, seq) VALUES ($1, 0)
	ON CONFLICT (key) DO UPDATE SET seq = counters.seq
	RETURNING seq`

// Next implements numerator.Generator.
func (s *Service) Next(ctx context.Context, m corenumerator.Movement, now time.Time) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	key := s.cfg.CounterKey(m, now)

	var seq int64
	if err := s.db.GetQuerier(ctx).QueryRow(ctx, nextSQL, key).Scan(&seq); err != nil {
		return "", postgres.TranslateError(fmt.Errorf("increment counter %s: %w", key, err))
	}
	return s.cfg.Format(m, now, seq), nil
}

// Preview implements numerator.Generator. The result is advisory: a
// concurrent receipt may take the same number first.
func (s *Service) Preview(ctx context.Context, m corenumerator.Movement, now time.Time) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	key := s.cfg.CounterKey(m, now)

	var seq int64
	if err := s.db.GetQuerier(ctx).QueryRow(ctx, previewSQL, key).Scan(&seq); err != nil {
		return "", postgres.TranslateError(fmt.Errorf("read counter %s: %w", key, err))
	}
	return s.cfg.Format(m, now, seq+1), nil
}
