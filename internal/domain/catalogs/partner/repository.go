package partner

import (
	"context"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
)

// ListFilter narrows partner listings.
type ListFilter struct {
	domain.ListFilter

	// Type keeps only customers or suppliers; empty means all
	Type Type
}

// Repository defines the interface for Partner persistence.
type Repository interface {
	Create(ctx context.Context, p *Partner) error

	// Update persists profile fields. Saved points are written only when
	// withPoints is set; type and debt never are.
	Update(ctx context.Context, p *Partner, withPoints bool) error

	GetByID(ctx context.Context, id id.ID) (*Partner, error)

	// FindByPhone returns NotFound when no partner has the phone.
	FindByPhone(ctx context.Context, phone string) (*Partner, error)

	// List matches Search against name and phone, case-insensitively.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Partner], error)

	Delete(ctx context.Context, id id.ID) error

	// ApplyBalance atomically adds debtDelta to current debt and pointsDelta to
	// saved points, returning the updated partner. Returns NotFound if absent.
	ApplyBalance(ctx context.Context, id id.ID, debtDelta types.Money, pointsDelta int64) (*Partner, error)
}
