// Package register_repo provides the PostgreSQL debt ledger.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
)

const debtTable = "debt_records"

// DebtRepo implements debt.Repository.
type DebtRepo struct {
	*postgres.BaseRepo[debt.Record]
}

var _ debt.Repository = (*DebtRepo)(nil)

// NewDebtRepo creates a new debt ledger repository.
func NewDebtRepo(txm *postgres.TxManager) *DebtRepo {
	return &DebtRepo{
		BaseRepo: postgres.NewBaseRepo[debt.Record](txm, debtTable, "debt record"),
	}
}

// Create persists r. Remaining and status are derived here, never taken from input.
func (r *DebtRepo) Create(ctx context.Context, rec *debt.Record) error {
	rec.Recompute()
	return r.Insert(ctx, rec)
}

func (r *DebtRepo) Update(ctx context.Context, rec *debt.Record) error {
	rec.Recompute()
	return r.UpdateColumns(ctx, rec.ID, rec, "paid_amount", "remaining", "status", "note", "updated_at")
}

func (r *DebtRepo) List(ctx context.Context, filter debt.ListFilter) (domain.ListResult[*debt.Record], error) {
	return r.BaseRepo.List(ctx, debtListQuery(r.Select(), filter), filter.ListFilter, "created_at DESC", "id DESC")
}

func debtListQuery(q squirrel.SelectBuilder, filter debt.ListFilter) squirrel.SelectBuilder {
	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{"partner_id": *filter.PartnerID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.PartnerType != "" {
		q = q.Where("partner_id IN (SELECT id FROM partners WHERE type = ?)", filter.PartnerType)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"reference_code": pattern},
			squirrel.ILike{"note": pattern},
		})
	}
	return q
}

func (r *DebtRepo) DeleteByReference(ctx context.Context, referenceCode string) error {
	sql, args, err := r.Builder().Delete(debtTable).Where(squirrel.Eq{"reference_code": referenceCode}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(fmt.Errorf("delete debt records: %w", err))
	}
	return nil
}
