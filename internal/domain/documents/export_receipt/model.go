// Package export_receipt provides the export receipt (stock-out to a customer)
// and the transactional engine that applies it to stock, debt and loyalty points.
package export_receipt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/entity"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
)

var hundred = decimal.NewFromInt(100)

// Receipt records goods sold to a customer.
type Receipt struct {
	entity.BaseEntity

	Code       string    `db:"code" json:"code"`
	CustomerID id.ID     `db:"customer_id" json:"customer_id"`
	Date       time.Time `db:"date" json:"date"`

	PaymentDueDate *time.Time  `db:"payment_due_date" json:"payment_due_date,omitempty"`
	TotalAmount    types.Money `db:"total_amount" json:"total_amount"`
	Note           string      `db:"note" json:"note"`
	HidePrice      bool        `db:"hide_price" json:"hide_price"`

	// PartnerPointsSnapshot is the customer's point balance right after this receipt.
	PartnerPointsSnapshot int64 `db:"partner_points_snapshot" json:"partner_points_snapshot"`

	IdempotencyKey string `db:"idempotency_key" json:"idempotency_key"`

	// Table part: sold goods
	Lines []Line `db:"-" json:"details"`
}

// Line is one sold product with its snapshot at sale time.
type Line struct {
	ReceiptID id.ID `db:"receipt_id" json:"-"`
	LineNo    int   `db:"line_no" json:"line_no"`

	ProductID   id.ID  `db:"product_id" json:"product_id"`
	SKU         string `db:"sku" json:"sku"`
	Unit        string `db:"unit" json:"unit"`
	ProductName string `db:"product_name" json:"product_name_backup"`

	Quantity    int64           `db:"quantity" json:"quantity"`
	ExportPrice types.Money     `db:"export_price" json:"export_price"`
	Discount    decimal.Decimal `db:"discount" json:"discount"`
	Total       types.Money     `db:"total" json:"total"`

	// GiftPoints is granted per unit; negative values redeem points
	GiftPoints int64 `db:"gift_points" json:"gift_points"`

	// ImportPrice is the unit cost at sale time, for profit reporting
	ImportPrice types.Money `db:"import_price" json:"import_price"`
}

// CalcTotal computes quantity × price × (100 − discount) / 100.
func (l *Line) CalcTotal() {
	gross := l.ExportPrice.Mul(decimal.NewFromInt(l.Quantity))
	l.Total = gross.Mul(hundred.Sub(l.Discount)).Div(hundred).Round(0)
}

// Points returns the loyalty points this line grants.
func (l Line) Points() int64 {
	return l.GiftPoints * l.Quantity
}

// PointsChange sums points over all lines.
func (r *Receipt) PointsChange() int64 {
	var total int64
	for _, l := range r.Lines {
		total += l.Points()
	}
	return total
}

// LinesTotal sums line totals.
func (r *Receipt) LinesTotal() types.Money {
	total := types.Zero()
	for _, l := range r.Lines {
		total = total.Add(l.Total)
	}
	return total
}

// PointsView reconstructs the point movement of this receipt from its snapshot.
type PointsView struct {
	Before int64 `json:"points_before"`
	Added  int64 `json:"points_added"`
	After  int64 `json:"points_after"`
}

// Points returns the before/added/after view anchored at the snapshot.
func (r *Receipt) Points() PointsView {
	added := r.PointsChange()
	return PointsView{
		Before: r.PartnerPointsSnapshot - added,
		Added:  added,
		After:  r.PartnerPointsSnapshot,
	}
}

// Validate implements entity.Validatable interface.
func (r *Receipt) Validate(ctx context.Context) error {
	if id.IsNil(r.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customer_id")
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
		if l.ExportPrice.IsNegative() {
			return apperror.NewValidation("price must not be negative").
				WithDetail("line", i+1)
		}
		if l.Discount.IsNegative() || l.Discount.GreaterThan(hundred) {
			return apperror.NewValidation("discount must be between 0 and 100").
				WithDetail("line", i+1)
		}
	}
	if r.TotalAmount.IsNegative() {
		return apperror.NewValidation("total amount must not be negative").
			WithDetail("field", "total_amount")
	}
	return nil
}
