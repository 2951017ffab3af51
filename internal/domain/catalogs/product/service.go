package product

import (
	"context"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/pkg/logger"
)

// Service provides business logic for the product catalog.
type Service struct {
	repo  Repository
	hooks *domain.HookRegistry[*Product]
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	svc := &Service{
		repo:  repo,
		hooks: domain.NewHookRegistry[*Product](),
	}

	svc.hooks.On(domain.BeforeCreate, svc.checkSKUUnique)
	svc.hooks.On(domain.BeforeUpdate, svc.checkSKUUnique)
	svc.hooks.On(domain.BeforeDelete, svc.checkNotReferenced)

	return svc
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if id.IsNil(p.ID) {
		fresh := NewProduct(p.Name, p.Unit)
		p.BaseEntity = fresh.BaseEntity
	}
	p.Normalize()

	if err := p.Validate(ctx); err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, p); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "sku", p.SKUValue())
	return nil
}

// Update changes descriptive fields and prices. Stock is carried over from storage.
func (s *Service) Update(ctx context.Context, p *Product) error {
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}

	p.Normalize()
	p.CurrentStock = current.CurrentStock
	p.CreatedAt = current.CreatedAt
	p.Touch()

	if err := p.Validate(ctx); err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// GetByID returns a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Product], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// Delete removes a product that no receipt line references.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeDelete, p); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

func (s *Service) checkSKUUnique(ctx context.Context, p *Product) error {
	if p.SKU == nil {
		return nil
	}
	existing, err := s.repo.FindBySKU(ctx, *p.SKU)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != p.ID {
		return apperror.NewDuplicate("product", "sku", *p.SKU)
	}
	return nil
}

func (s *Service) checkNotReferenced(ctx context.Context, p *Product) error {
	used, err := s.repo.IsReferenced(ctx, p.ID)
	if err != nil {
		return err
	}
	if used {
		return apperror.NewConflict("product is used by import or export receipts and cannot be deleted").
			WithDetail("product_id", p.ID)
	}
	return nil
}
