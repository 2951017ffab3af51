package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/import_receipt"
)

// ReceiptListQuery filters receipts by partner and date range.
type ReceiptListQuery struct {
	ListQuery
	PartnerID string     `form:"partner_id"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// ToFilter converts the query into a receipt filter. A malformed partner id
// is ignored.
func (q ReceiptListQuery) ToFilter() documents.ListFilter {
	f := documents.ListFilter{
		ListFilter: q.ListQuery.ToFilter(),
		From:       q.From,
	}
	if q.To != nil {
		// inclusive end of day
		end := q.To.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	if parsed, err := id.Parse(q.PartnerID); err == nil {
		f.PartnerID = &parsed
	}
	return f
}

// --- Import ---

// ImportLineRequest is one received line.
type ImportLineRequest struct {
	ProductID   id.ID        `json:"product_id"`
	Quantity    int64        `json:"quantity"`
	ImportPrice *types.Money `json:"import_price"`
}

// CreateImportRequest receives goods from a supplier.
type CreateImportRequest struct {
	SupplierID     id.ID               `json:"supplier_id"`
	Details        []ImportLineRequest `json:"details"`
	TotalAmount    *types.Money        `json:"total_amount"`
	TotalQuantity  *int64              `json:"total_quantity"`
	Note           string              `json:"note"`
	Date           *time.Time          `json:"date"`
	IdempotencyKey string              `json:"idempotency_key"`
}

// ToInput converts the request. headerKey is used when the body has no key.
func (r CreateImportRequest) ToInput(headerKey string) import_receipt.CreateInput {
	in := import_receipt.CreateInput{
		SupplierID:     r.SupplierID,
		Lines:          make([]import_receipt.LineInput, len(r.Details)),
		TotalAmount:    r.TotalAmount,
		TotalQuantity:  r.TotalQuantity,
		Note:           r.Note,
		Date:           r.Date,
		IdempotencyKey: firstNonEmpty(r.IdempotencyKey, headerKey),
	}
	for i, d := range r.Details {
		in.Lines[i] = import_receipt.LineInput{
			ProductID:   d.ProductID,
			Quantity:    d.Quantity,
			ImportPrice: d.ImportPrice,
		}
	}
	return in
}

// --- Export ---

// ExportLineRequest is one sold line. Omitted price, discount and points
// default to the catalog values.
type ExportLineRequest struct {
	ProductID   id.ID            `json:"product_id"`
	Quantity    int64            `json:"quantity"`
	ExportPrice *types.Money     `json:"export_price"`
	Discount    *decimal.Decimal `json:"discount"`
	GiftPoints  *int64           `json:"gift_points"`
}

// CreateExportRequest sells goods to a customer.
type CreateExportRequest struct {
	CustomerID     id.ID               `json:"customer_id"`
	Details        []ExportLineRequest `json:"details"`
	TotalAmount    *types.Money        `json:"total_amount"`
	Note           string              `json:"note"`
	HidePrice      bool                `json:"hide_price"`
	Date           *time.Time          `json:"date"`
	PaymentDueDate *time.Time          `json:"payment_due_date"`
	IdempotencyKey string              `json:"idempotency_key"`
}

// ToInput converts the request. headerKey is used when the body has no key.
func (r CreateExportRequest) ToInput(headerKey string) export_receipt.CreateInput {
	in := export_receipt.CreateInput{
		CustomerID:     r.CustomerID,
		Lines:          make([]export_receipt.LineInput, len(r.Details)),
		TotalAmount:    r.TotalAmount,
		Note:           r.Note,
		HidePrice:      r.HidePrice,
		Date:           r.Date,
		PaymentDueDate: r.PaymentDueDate,
		IdempotencyKey: firstNonEmpty(r.IdempotencyKey, headerKey),
	}
	for i, d := range r.Details {
		in.Lines[i] = export_receipt.LineInput{
			ProductID:   d.ProductID,
			Quantity:    d.Quantity,
			ExportPrice: d.ExportPrice,
			Discount:    d.Discount,
			GiftPoints:  d.GiftPoints,
		}
	}
	return in
}

// UpdateExportRequest edits the note and the hide-price flag only.
type UpdateExportRequest struct {
	Note      *string `json:"note"`
	HidePrice *bool   `json:"hide_price"`
}

// ToInput converts the request into the service input.
func (r UpdateExportRequest) ToInput() export_receipt.UpdateInput {
	return export_receipt.UpdateInput{Note: r.Note, HidePrice: r.HidePrice}
}

// ExportResponse adds the reconstructed point movement to a receipt.
type ExportResponse struct {
	*export_receipt.Receipt
	export_receipt.PointsView
}

// FromExport creates an export response.
func FromExport(r *export_receipt.Receipt) ExportResponse {
	return ExportResponse{Receipt: r, PointsView: r.Points()}
}

// CreatedResponse is returned by the create endpoints.
type CreatedResponse[T any] struct {
	Receipt T      `json:"receipt"`
	Message string `json:"message"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
