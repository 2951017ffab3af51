package product

import (
	"context"
	"errors"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
)

// ErrStockConflict is returned by AdjustStock when the product exists but the
// change would make its stock negative.
var ErrStockConflict = errors.New("stock would become negative")

// ListFilter narrows product listings.
type ListFilter struct {
	domain.ListFilter

	// LowStockOnly keeps products at or below their minimum stock
	LowStockOnly bool
}

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error

	// Update persists descriptive fields and prices. Stock is never written here.
	Update(ctx context.Context, p *Product) error

	GetByID(ctx context.Context, id id.ID) (*Product, error)

	// FindBySKU returns NotFound when no product has the SKU.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Product], error)

	Delete(ctx context.Context, id id.ID) error

	// IsReferenced reports whether any import or export line points at the product.
	IsReferenced(ctx context.Context, id id.ID) (bool, error)

	// AdjustStock atomically adds delta to current stock, only when the result
	// stays non-negative, and returns the updated product.
	// Returns NotFound if the product does not exist and ErrStockConflict if
	// the condition fails.
	AdjustStock(ctx context.Context, id id.ID, delta int64) (*Product, error)
}
