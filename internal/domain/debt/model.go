// Package debt provides the debt ledger: one record per receipt, settled by payments.
package debt

import (
	"time"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/entity"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
)

// Status reflects how much of a record has been paid.
type Status string

const (
	StatusUnpaid        Status = "unpaid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusPartiallyPaid, StatusPaid:
		return true
	}
	return false
}

// Record tracks the amount owed against one import or export receipt.
type Record struct {
	entity.BaseEntity

	PartnerID id.ID `db:"partner_id" json:"partner_id"`

	// ReferenceCode is the code of the originating receipt
	ReferenceCode string `db:"reference_code" json:"reference_code"`
	ReferenceID   *id.ID `db:"reference_id" json:"reference_id,omitempty"`

	Amount     types.Money `db:"amount" json:"amount"`
	PaidAmount types.Money `db:"paid_amount" json:"paid_amount"`

	// Remaining is always max(0, Amount - PaidAmount)
	Remaining types.Money `db:"remaining" json:"remaining"`
	Status    Status      `db:"status" json:"status"`

	DueDate *time.Time `db:"due_date" json:"due_date,omitempty"`
	Note    string     `db:"note" json:"note"`
}

// NewRecord opens an unpaid record for a freshly created receipt.
func NewRecord(partnerID id.ID, referenceCode string, referenceID id.ID, amount types.Money, dueDate *time.Time) *Record {
	refID := referenceID
	r := &Record{
		BaseEntity:    entity.NewBaseEntity(),
		PartnerID:     partnerID,
		ReferenceCode: referenceCode,
		ReferenceID:   &refID,
		Amount:        amount,
		PaidAmount:    types.Zero(),
		DueDate:       dueDate,
	}
	r.Recompute()
	return r
}

// Recompute derives Remaining and Status from Amount and PaidAmount.
func (r *Record) Recompute() {
	remaining := r.Amount.Sub(r.PaidAmount)
	if remaining.IsNegative() {
		remaining = types.Zero()
	}
	r.Remaining = remaining

	switch {
	case remaining.IsZero():
		r.Status = StatusPaid
	case r.PaidAmount.IsPositive():
		r.Status = StatusPartiallyPaid
	default:
		r.Status = StatusUnpaid
	}
}

// ApplyPayment adds a non-negative payment and recomputes derived fields.
func (r *Record) ApplyPayment(amount types.Money) {
	if amount.IsNegative() {
		amount = types.Zero()
	}
	r.PaidAmount = r.PaidAmount.Add(amount)
	r.Recompute()
	r.Touch()
}
