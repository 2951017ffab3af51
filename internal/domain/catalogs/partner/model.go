// Package partner provides the trading partner catalog (customers and suppliers)
// with their running debt and loyalty point balances.
package partner

import (
	"context"
	"strings"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/entity"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
)

// Type classifies a partner. It never changes after creation.
type Type string

const (
	TypeCustomer Type = "customer"
	TypeSupplier Type = "supplier"
)

// IsValid reports whether t is a known partner type.
func (t Type) IsValid() bool {
	return t == TypeCustomer || t == TypeSupplier
}

// Partner is a customer or supplier.
type Partner struct {
	entity.BaseEntity

	Name string `db:"name" json:"name"`
	Type Type   `db:"type" json:"type"`

	// Phone is unique when present
	Phone   *string `db:"phone" json:"phone,omitempty"`
	Address string  `db:"address" json:"address"`

	// CurrentDebt accumulates receipt totals minus payments.
	// For customers it is what they owe the shop, for suppliers what the shop owes them.
	CurrentDebt types.Money `db:"current_debt" json:"current_debt"`

	// SavedPoints accumulates loyalty points from exports
	SavedPoints int64 `db:"saved_points" json:"saved_points"`

	IsWholesale bool `db:"is_wholesale" json:"is_wholesale"`
	HidePrice   bool `db:"hide_price" json:"hide_price"`
	IsActive    bool `db:"is_active" json:"is_active"`
}

// NewPartner creates an active partner with zero balances.
func NewPartner(name string, t Type) *Partner {
	return &Partner{
		BaseEntity:  entity.NewBaseEntity(),
		Name:        name,
		Type:        t,
		CurrentDebt: types.Zero(),
		IsActive:    true,
	}
}

// Normalize trims text fields and turns an empty phone into nil.
func (p *Partner) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	if p.Phone != nil {
		phone := strings.TrimSpace(*p.Phone)
		if phone == "" {
			p.Phone = nil
		} else {
			p.Phone = &phone
		}
	}
	if p.Type == "" {
		p.Type = TypeCustomer
	}
}

// PhoneValue returns the phone or an empty string.
func (p *Partner) PhoneValue() string {
	if p.Phone == nil {
		return ""
	}
	return *p.Phone
}

// Validate implements entity.Validatable interface.
func (p *Partner) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("partner name is required").
			WithDetail("field", "name")
	}
	if !p.Type.IsValid() {
		return apperror.NewValidation("invalid partner type").
			WithDetail("field", "type").
			WithDetail("value", string(p.Type))
	}
	if p.SavedPoints < 0 {
		return apperror.NewValidation("saved points cannot be negative").
			WithDetail("field", "saved_points")
	}
	return nil
}
