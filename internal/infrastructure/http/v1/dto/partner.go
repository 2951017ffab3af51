package dto

import (
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
)

// PartnerListQuery filters partners by type and a name/phone keyword.
type PartnerListQuery struct {
	ListQuery
	Type    string `form:"type"`
	Keyword string `form:"keyword"`
}

// ToFilter converts the query into a partner filter. Keyword wins over search.
func (q PartnerListQuery) ToFilter() partner.ListFilter {
	f := partner.ListFilter{
		ListFilter: q.ListQuery.ToFilter(),
		Type:       partner.Type(q.Type),
	}
	if q.Keyword != "" {
		f.Search = q.Keyword
	}
	return f
}

// CreatePartnerRequest creates a customer or supplier.
type CreatePartnerRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type"`
	Phone       *string `json:"phone"`
	Address     string  `json:"address"`
	IsWholesale bool    `json:"is_wholesale"`
	HidePrice   bool    `json:"hide_price"`
}

// ToEntity builds a new partner.
func (r CreatePartnerRequest) ToEntity() *partner.Partner {
	p := partner.NewPartner(r.Name, partner.Type(r.Type))
	p.Phone = r.Phone
	p.Address = r.Address
	p.IsWholesale = r.IsWholesale
	p.HidePrice = r.HidePrice
	return p
}

// UpdatePartnerRequest edits a partner. Type and debt are not editable.
type UpdatePartnerRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	IsWholesale *bool   `json:"is_wholesale"`
	HidePrice   *bool   `json:"hide_price"`
	IsActive    *bool   `json:"is_active"`
	SavedPoints *int64  `json:"saved_points"`
}

// ToInput converts the request into the service input.
func (r UpdatePartnerRequest) ToInput() partner.UpdateInput {
	return partner.UpdateInput{
		Name:        r.Name,
		Phone:       r.Phone,
		Address:     r.Address,
		IsWholesale: r.IsWholesale,
		HidePrice:   r.HidePrice,
		IsActive:    r.IsActive,
		SavedPoints: r.SavedPoints,
	}
}
