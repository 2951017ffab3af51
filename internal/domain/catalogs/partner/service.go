package partner

import (
	"context"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/pkg/logger"
)

// Service provides business logic for the partner catalog.
type Service struct {
	repo  Repository
	hooks *domain.HookRegistry[*Partner]
}

// NewService creates a new partner service.
func NewService(repo Repository) *Service {
	svc := &Service{
		repo:  repo,
		hooks: domain.NewHookRegistry[*Partner](),
	}

	// Register hooks for entity-specific logic
	svc.hooks.On(domain.BeforeCreate, svc.checkPhoneUnique)
	svc.hooks.On(domain.BeforeUpdate, svc.checkPhoneUnique)

	return svc
}

// Create validates and stores a new partner with zero balances.
func (s *Service) Create(ctx context.Context, p *Partner) error {
	if id.IsNil(p.ID) {
		p.BaseEntity = NewPartner(p.Name, p.Type).BaseEntity
	}
	p.Normalize()
	p.CurrentDebt = types.Zero()
	p.SavedPoints = 0
	p.IsActive = true

	if err := p.Validate(ctx); err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, p); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "partner created", "partner_id", p.ID, "type", p.Type)
	return nil
}

// UpdateInput holds optional partner changes; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Phone       *string
	Address     *string
	IsWholesale *bool
	HidePrice   *bool
	IsActive    *bool
	SavedPoints *int64
}

// Update applies profile changes. Type and debt cannot be changed here.
func (s *Service) Update(ctx context.Context, partnerID id.ID, in UpdateInput) (*Partner, error) {
	p, err := s.repo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		p.Name = *in.Name
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Phone != nil {
		p.Phone = in.Phone
	}
	if in.IsWholesale != nil {
		p.IsWholesale = *in.IsWholesale
	}
	if in.HidePrice != nil {
		p.HidePrice = *in.HidePrice
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.SavedPoints != nil {
		p.SavedPoints = *in.SavedPoints
	}

	p.Normalize()
	p.Touch()

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p, in.SavedPoints != nil); err != nil {
		return nil, err
	}
	if in.SavedPoints == nil {
		// points may have moved since the read above
		return s.repo.GetByID(ctx, partnerID)
	}
	return p, nil
}

// GetByID returns a partner.
func (s *Service) GetByID(ctx context.Context, partnerID id.ID) (*Partner, error) {
	return s.repo.GetByID(ctx, partnerID)
}

// List returns partners matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Partner], error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return domain.ListResult[*Partner]{}, apperror.NewValidation("invalid partner type").
			WithDetail("value", string(filter.Type))
	}
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// Delete removes a partner. Receipts keep their partner reference.
func (s *Service) Delete(ctx context.Context, partnerID id.ID) error {
	if _, err := s.repo.GetByID(ctx, partnerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, partnerID); err != nil {
		return err
	}

	logger.Info(ctx, "partner deleted", "partner_id", partnerID)
	return nil
}

// checkPhoneUnique rejects a phone already used by another partner.
func (s *Service) checkPhoneUnique(ctx context.Context, p *Partner) error {
	if p.Phone == nil {
		return nil
	}
	existing, err := s.repo.FindByPhone(ctx, *p.Phone)
	if err != nil {
		// Not found is OK; other errors must be propagated.
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != p.ID {
		return apperror.NewDuplicate("partner", "phone", *p.Phone)
	}
	return nil
}
