package catalog_repo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
)

const partnerTable = "partners"

// partnerUpdateColumns excludes type, current_debt and saved_points.
var partnerUpdateColumns = []string{
	"name", "phone", "address",
	"is_wholesale", "hide_price", "is_active", "updated_at",
}

// PartnerRepo implements partner.Repository.
type PartnerRepo struct {
	*postgres.BaseRepo[partner.Partner]
}

var _ partner.Repository = (*PartnerRepo)(nil)

// NewPartnerRepo creates a new partner repository.
func NewPartnerRepo(txm *postgres.TxManager) *PartnerRepo {
	return &PartnerRepo{
		BaseRepo: postgres.NewBaseRepo[partner.Partner](txm, partnerTable, "partner"),
	}
}

func (r *PartnerRepo) Create(ctx context.Context, p *partner.Partner) error {
	return r.Insert(ctx, p)
}

func (r *PartnerRepo) Update(ctx context.Context, p *partner.Partner, withPoints bool) error {
	return r.UpdateColumns(ctx, p.ID, p, partnerColumns(withPoints)...)
}

func partnerColumns(withPoints bool) []string {
	if !withPoints {
		return partnerUpdateColumns
	}
	return append(slices.Clone(partnerUpdateColumns), "saved_points")
}

func (r *PartnerRepo) FindByPhone(ctx context.Context, phone string) (*partner.Partner, error) {
	return r.Get(ctx, r.Select().Where(squirrel.Eq{"phone": phone}).Limit(1), phone)
}

func (r *PartnerRepo) List(ctx context.Context, filter partner.ListFilter) (domain.ListResult[*partner.Partner], error) {
	return r.BaseRepo.List(ctx, partnerListQuery(r.Select(), filter), filter.ListFilter, "created_at DESC", "id DESC")
}

func partnerListQuery(q squirrel.SelectBuilder, filter partner.ListFilter) squirrel.SelectBuilder {
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}
	return q
}

const applyBalanceSQL = `
	UPDATE partners
	SET current_debt = current_debt + $2,
	    saved_points = saved_points + $3,
	    updated_at = NOW()
	WHERE id = $1
	RETURNING `

func (r *PartnerRepo) ApplyBalance(ctx context.Context, partnerID id.ID, debtDelta types.Money, pointsDelta int64) (*partner.Partner, error) {
	var p partner.Partner
	if err := pgxscan.Get(ctx, r.Querier(ctx), &p, applyBalanceSQL+strings.Join(r.Columns(), ", "), partnerID, debtDelta, pointsDelta); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("partner", partnerID)
		}
		return nil, postgres.TranslateError(fmt.Errorf("apply partner balance: %w", err))
	}
	return &p, nil
}
