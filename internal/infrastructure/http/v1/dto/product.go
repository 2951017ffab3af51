package dto

import (
	"github.com/shopspring/decimal"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
)

// ProductListQuery filters the product catalog.
type ProductListQuery struct {
	ListQuery
	LowStock bool `form:"low_stock"`
}

// ToFilter converts the query into a product filter.
func (q ProductListQuery) ToFilter() product.ListFilter {
	return product.ListFilter{
		ListFilter:   q.ListQuery.ToFilter(),
		LowStockOnly: q.LowStock,
	}
}

// CreateProductRequest creates a product. CurrentStock is the opening balance.
type CreateProductRequest struct {
	SKU             *string         `json:"sku"`
	Name            string          `json:"name" binding:"required"`
	Unit            string          `json:"unit"`
	ImportPrice     types.Money     `json:"import_price"`
	ExportPrice     types.Money     `json:"export_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	GiftPoints      int64           `json:"gift_points"`
	CurrentStock    int64           `json:"current_stock"`
	MinStock        *int64          `json:"min_stock"`
}

// ToEntity builds a new product.
func (r CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Name, r.Unit)
	p.SKU = r.SKU
	p.ImportPrice = r.ImportPrice
	p.ExportPrice = r.ExportPrice
	p.DiscountPercent = r.DiscountPercent
	p.GiftPoints = r.GiftPoints
	p.CurrentStock = r.CurrentStock
	if r.MinStock != nil {
		p.MinStock = *r.MinStock
	}
	return p
}

// UpdateProductRequest edits a product. Stock is not editable.
type UpdateProductRequest struct {
	SKU             *string          `json:"sku"`
	Name            *string          `json:"name"`
	Unit            *string          `json:"unit"`
	ImportPrice     *types.Money     `json:"import_price"`
	ExportPrice     *types.Money     `json:"export_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	GiftPoints      *int64           `json:"gift_points"`
	MinStock        *int64           `json:"min_stock"`
}

// ApplyTo copies the present fields onto p.
func (r UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.SKU != nil {
		p.SKU = r.SKU
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.ImportPrice != nil {
		p.ImportPrice = *r.ImportPrice
	}
	if r.ExportPrice != nil {
		p.ExportPrice = *r.ExportPrice
	}
	if r.DiscountPercent != nil {
		p.DiscountPercent = *r.DiscountPercent
	}
	if r.GiftPoints != nil {
		p.GiftPoints = *r.GiftPoints
	}
	if r.MinStock != nil {
		p.MinStock = *r.MinStock
	}
}

// ProductResponse adds the derived low-stock flag.
type ProductResponse struct {
	*product.Product
	LowStock bool `json:"low_stock"`
}

// FromProduct creates a product response.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{Product: p, LowStock: p.IsLowStock()}
}
