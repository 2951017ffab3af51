package export_receipt

import (
	"context"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
)

// Repository defines persistence for export receipts.
type Repository interface {
	// Create inserts the receipt with its lines. A reused idempotency key
	// yields apperror.CodeDuplicateSubmission.
	Create(ctx context.Context, r *Receipt) error

	// FindByIdempotencyKey returns NotFound when no receipt carries the key.
	FindByIdempotencyKey(ctx context.Context, key string) (*Receipt, error)

	// GetByID loads the receipt with lines.
	GetByID(ctx context.Context, id id.ID) (*Receipt, error)

	// GetForUpdate loads the receipt with lines and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id id.ID) (*Receipt, error)

	List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Receipt], error)

	// UpdateHeader persists note and hide-price flag.
	UpdateHeader(ctx context.Context, r *Receipt) error

	Delete(ctx context.Context, id id.ID) error
}
