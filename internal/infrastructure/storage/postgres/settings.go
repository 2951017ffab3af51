package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/settings"
)

// SettingsRepo implements settings.Repository on sys_config.
type SettingsRepo struct {
	txManager *TxManager
}

var _ settings.Repository = (*SettingsRepo)(nil)

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txManager *TxManager) *SettingsRepo {
	return &SettingsRepo{txManager: txManager}
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (*settings.Entry, error) {
	var e settings.Entry
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &e,
		`SELECT key, value, updated_at FROM sys_config WHERE key = $1`, key)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("setting", key)
		}
		return nil, TranslateError(fmt.Errorf("get setting: %w", err))
	}
	return &e, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, e *settings.Entry) error {
	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_config (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		e.Key, e.Value, e.UpdatedAt)
	if err != nil {
		return TranslateError(fmt.Errorf("upsert setting: %w", err))
	}
	return nil
}
