package dto

import (
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
)

// DebtListQuery filters the ledger.
type DebtListQuery struct {
	ListQuery
	PartnerID   string `form:"partner_id"`
	Status      string `form:"status"`
	PartnerType string `form:"partner_type"`
}

// ToFilter converts the query into a ledger filter.
func (q DebtListQuery) ToFilter() debt.ListFilter {
	f := debt.ListFilter{
		ListFilter:  q.ListQuery.ToFilter(),
		Status:      debt.Status(q.Status),
		PartnerType: partner.Type(q.PartnerType),
	}
	if parsed, err := id.Parse(q.PartnerID); err == nil {
		f.PartnerID = &parsed
	}
	return f
}

// UpdateDebtNoteRequest replaces the note of a record.
type UpdateDebtNoteRequest struct {
	Note string `json:"note"`
}

// PaymentRequest settles part of a record. Invalid amounts become zero.
type PaymentRequest struct {
	Amount types.LenientMoney `json:"amount"`
}

// PaymentResponse echoes the updated record.
type PaymentResponse struct {
	Message string       `json:"message"`
	Data    *debt.Record `json:"data"`
}

// NoteRequest saves the dashboard note.
type NoteRequest struct {
	Note string `json:"note"`
}

// NoteResponse returns the dashboard note.
type NoteResponse struct {
	Success bool   `json:"success,omitempty"`
	Note    string `json:"note"`
}
