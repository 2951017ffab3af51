// Package product provides the product catalog and its stock counter.
package product

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/entity"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
)

// DefaultMinStock is the alert threshold applied when none is given.
const DefaultMinStock int64 = 10

var hundred = decimal.NewFromInt(100)

// Product is a sellable item with a denormalized stock level.
type Product struct {
	entity.BaseEntity

	// SKU is unique when present
	SKU *string `db:"sku" json:"sku,omitempty"`

	Name string `db:"name" json:"name"`
	Unit string `db:"unit" json:"unit"`

	// ImportPrice is the cost price, ExportPrice the sale price
	ImportPrice types.Money `db:"import_price" json:"import_price"`
	ExportPrice types.Money `db:"export_price" json:"export_price"`

	// DiscountPercent applies to wholesale customers
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`

	// GiftPoints are loyalty points granted per unit sold
	GiftPoints int64 `db:"gift_points" json:"gift_points"`

	// CurrentStock never goes negative; only stock movements change it
	CurrentStock int64 `db:"current_stock" json:"current_stock"`
	MinStock     int64 `db:"min_stock" json:"min_stock"`
}

// NewProduct creates a product with defaults applied.
func NewProduct(name, unit string) *Product {
	return &Product{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Unit:       unit,
		MinStock:   DefaultMinStock,
	}
}

// Normalize trims text fields and turns an empty SKU into nil.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Unit = strings.TrimSpace(p.Unit)
	if p.SKU != nil {
		sku := strings.TrimSpace(*p.SKU)
		if sku == "" {
			p.SKU = nil
		} else {
			p.SKU = &sku
		}
	}
}

// IsLowStock reports whether stock is at or below the alert threshold.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStock
}

// SKUValue returns the SKU or an empty string.
func (p *Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if p.ImportPrice.IsNegative() || p.ExportPrice.IsNegative() {
		return apperror.NewValidation("prices must not be negative").
			WithDetail("field", "price")
	}
	if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(hundred) {
		return apperror.NewValidation("discount percent must be between 0 and 100").
			WithDetail("field", "discount_percent").
			WithDetail("value", p.DiscountPercent.String())
	}
	if p.CurrentStock < 0 {
		return apperror.NewValidation("stock must not be negative").
			WithDetail("field", "current_stock")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock must not be negative").
			WithDetail("field", "min_stock")
	}
	return nil
}
