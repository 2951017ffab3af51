package debt

import (
	"context"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
)

// ListFilter narrows ledger listings.
type ListFilter struct {
	domain.ListFilter

	PartnerID   *id.ID
	Status      Status
	PartnerType partner.Type
}

// Repository defines the interface for debt record persistence.
type Repository interface {
	Create(ctx context.Context, r *Record) error

	// Update persists paid amount, remaining, status and note.
	Update(ctx context.Context, r *Record) error

	GetByID(ctx context.Context, id id.ID) (*Record, error)

	// GetForUpdate loads the record and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id id.ID) (*Record, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Record], error)

	// DeleteByReference removes the record of a receipt. Missing rows are not an error.
	DeleteByReference(ctx context.Context, referenceCode string) error
}
