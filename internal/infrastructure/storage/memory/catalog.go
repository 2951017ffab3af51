package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// --- Products ---

// ProductRepo implements product.Repository.
type ProductRepo struct {
	store *Store
}

var _ product.Repository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	return r.store.view(ctx, func(st *state) error {
		if p.SKU != nil && skuTaken(st, *p.SKU, p.ID) {
			return apperror.NewDuplicate("product", "sku", *p.SKU)
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	return r.store.view(ctx, func(st *state) error {
		current, ok := st.products[p.ID]
		if !ok {
			return apperror.NewNotFound("product", p.ID)
		}
		if p.SKU != nil && skuTaken(st, *p.SKU, p.ID) {
			return apperror.NewDuplicate("product", "sku", *p.SKU)
		}
		updated := *p
		updated.CurrentStock = current.CurrentStock
		st.products[p.ID] = updated
		return nil
	})
}

func skuTaken(st *state, sku string, exclude id.ID) bool {
	for _, other := range st.products {
		if other.ID != exclude && other.SKU != nil && *other.SKU == sku {
			return true
		}
	}
	return false
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	var out *product.Product
	err := r.store.view(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var out *product.Product
	err := r.store.view(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.SKU != nil && *p.SKU == sku {
				found := p
				out = &found
				return nil
			}
		}
		return apperror.NewNotFound("product", sku)
	})
	return out, err
}

func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) (domain.ListResult[*product.Product], error) {
	var items []*product.Product
	_ = r.store.view(ctx, func(st *state) error {
		for _, p := range st.products {
			if filter.Search != "" && !containsFold(p.Name, filter.Search) && !containsFold(p.SKUValue(), filter.Search) {
				continue
			}
			if filter.LowStockOnly && !p.IsLowStock() {
				continue
			}
			found := p
			items = append(items, &found)
		}
		return nil
	})

	slices.SortFunc(items, func(a, b *product.Product) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return domain.Page(items, filter.ListFilter), nil
}

func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.products[productID]; !ok {
			return apperror.NewNotFound("product", productID)
		}
		delete(st.products, productID)
		return nil
	})
}

func (r *ProductRepo) IsReferenced(ctx context.Context, productID id.ID) (bool, error) {
	used := false
	_ = r.store.view(ctx, func(st *state) error {
		for _, rc := range st.imports {
			for _, l := range rc.Lines {
				if l.ProductID == productID {
					used = true
					return nil
				}
			}
		}
		for _, rc := range st.exports {
			for _, l := range rc.Lines {
				if l.ProductID == productID {
					used = true
					return nil
				}
			}
		}
		return nil
	})
	return used, nil
}

func (r *ProductRepo) AdjustStock(ctx context.Context, productID id.ID, delta int64) (*product.Product, error) {
	var out *product.Product
	err := r.store.view(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID)
		}
		if p.CurrentStock+delta < 0 {
			return product.ErrStockConflict
		}
		p.CurrentStock += delta
		p.UpdatedAt = time.Now().UTC()
		st.products[productID] = p
		out = &p
		return nil
	})
	return out, err
}

// --- Partners ---

// PartnerRepo implements partner.Repository.
type PartnerRepo struct {
	store *Store
}

var _ partner.Repository = (*PartnerRepo)(nil)

func (r *PartnerRepo) Create(ctx context.Context, p *partner.Partner) error {
	return r.store.view(ctx, func(st *state) error {
		if p.Phone != nil && phoneTaken(st, *p.Phone, p.ID) {
			return apperror.NewDuplicate("partner", "phone", *p.Phone)
		}
		st.partners[p.ID] = *p
		return nil
	})
}

func (r *PartnerRepo) Update(ctx context.Context, p *partner.Partner, withPoints bool) error {
	return r.store.view(ctx, func(st *state) error {
		current, ok := st.partners[p.ID]
		if !ok {
			return apperror.NewNotFound("partner", p.ID)
		}
		if p.Phone != nil && phoneTaken(st, *p.Phone, p.ID) {
			return apperror.NewDuplicate("partner", "phone", *p.Phone)
		}
		updated := *p
		updated.Type = current.Type
		updated.CurrentDebt = current.CurrentDebt
		if !withPoints {
			updated.SavedPoints = current.SavedPoints
		}
		st.partners[p.ID] = updated
		return nil
	})
}

func phoneTaken(st *state, phone string, exclude id.ID) bool {
	for _, other := range st.partners {
		if other.ID != exclude && other.Phone != nil && *other.Phone == phone {
			return true
		}
	}
	return false
}

func (r *PartnerRepo) GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error) {
	var out *partner.Partner
	err := r.store.view(ctx, func(st *state) error {
		p, ok := st.partners[partnerID]
		if !ok {
			return apperror.NewNotFound("partner", partnerID)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *PartnerRepo) FindByPhone(ctx context.Context, phone string) (*partner.Partner, error) {
	var out *partner.Partner
	err := r.store.view(ctx, func(st *state) error {
		for _, p := range st.partners {
			if p.Phone != nil && *p.Phone == phone {
				found := p
				out = &found
				return nil
			}
		}
		return apperror.NewNotFound("partner", phone)
	})
	return out, err
}

func (r *PartnerRepo) List(ctx context.Context, filter partner.ListFilter) (domain.ListResult[*partner.Partner], error) {
	var items []*partner.Partner
	_ = r.store.view(ctx, func(st *state) error {
		for _, p := range st.partners {
			if filter.Type != "" && p.Type != filter.Type {
				continue
			}
			if filter.Search != "" && !containsFold(p.Name, filter.Search) && !containsFold(p.PhoneValue(), filter.Search) {
				continue
			}
			found := p
			items = append(items, &found)
		}
		return nil
	})

	slices.SortFunc(items, func(a, b *partner.Partner) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return domain.Page(items, filter.ListFilter), nil
}

func (r *PartnerRepo) Delete(ctx context.Context, partnerID id.ID) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.partners[partnerID]; !ok {
			return apperror.NewNotFound("partner", partnerID)
		}
		delete(st.partners, partnerID)
		return nil
	})
}

func (r *PartnerRepo) ApplyBalance(ctx context.Context, partnerID id.ID, debtDelta types.Money, pointsDelta int64) (*partner.Partner, error) {
	var out *partner.Partner
	err := r.store.view(ctx, func(st *state) error {
		p, ok := st.partners[partnerID]
		if !ok {
			return apperror.NewNotFound("partner", partnerID)
		}
		p.CurrentDebt = p.CurrentDebt.Add(debtDelta)
		p.SavedPoints += pointsDelta
		p.UpdatedAt = time.Now().UTC()
		st.partners[partnerID] = p
		out = &p
		return nil
	})
	return out, err
}
