// Package import_receipt provides the import receipt (stock-in from a supplier)
// and the transactional engine that applies it to stock and supplier debt.
package import_receipt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/entity"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
)

// Receipt records goods received from a supplier.
type Receipt struct {
	entity.BaseEntity

	Code       string    `db:"code" json:"code"`
	SupplierID id.ID     `db:"supplier_id" json:"supplier_id"`
	Date       time.Time `db:"date" json:"date"`

	TotalQuantity int64       `db:"total_quantity" json:"total_quantity"`
	TotalAmount   types.Money `db:"total_amount" json:"total_amount"`
	Note          string      `db:"note" json:"note"`

	IdempotencyKey string `db:"idempotency_key" json:"idempotency_key"`

	// Table part: received goods
	Lines []Line `db:"-" json:"details"`
}

// Line is one received product with its snapshot at receipt time.
type Line struct {
	ReceiptID id.ID `db:"receipt_id" json:"-"`
	LineNo    int   `db:"line_no" json:"line_no"`

	ProductID   id.ID  `db:"product_id" json:"product_id"`
	SKU         string `db:"sku" json:"sku"`
	Unit        string `db:"unit" json:"unit"`
	ProductName string `db:"product_name" json:"product_name_backup"`

	Quantity    int64       `db:"quantity" json:"quantity"`
	ImportPrice types.Money `db:"import_price" json:"import_price"`
	Total       types.Money `db:"total" json:"total"`
}

// CalcTotal computes quantity × unit cost.
func (l *Line) CalcTotal() {
	l.Total = l.ImportPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// LinesTotal sums line totals.
func (r *Receipt) LinesTotal() types.Money {
	total := types.Zero()
	for _, l := range r.Lines {
		total = total.Add(l.Total)
	}
	return total
}

// LinesQuantity sums line quantities.
func (r *Receipt) LinesQuantity() int64 {
	var qty int64
	for _, l := range r.Lines {
		qty += l.Quantity
	}
	return qty
}

// Validate implements entity.Validatable interface.
func (r *Receipt) Validate(ctx context.Context) error {
	if id.IsNil(r.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplier_id")
	}
	if len(r.Lines) == 0 {
		return apperror.NewValidation("receipt must have at least one line").
			WithDetail("field", "details")
	}
	for i, l := range r.Lines {
		if id.IsNil(l.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("line", i+1)
		}
		if l.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("line", i+1).
				WithDetail("product_id", l.ProductID)
		}
		if l.ImportPrice.IsNegative() {
			return apperror.NewValidation("price must not be negative").
				WithDetail("line", i+1)
		}
	}
	if r.TotalAmount.IsNegative() {
		return apperror.NewValidation("total amount must not be negative").
			WithDetail("field", "total_amount")
	}
	return nil
}
