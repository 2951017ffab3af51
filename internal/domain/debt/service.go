package debt

import (
	"context"
	"fmt"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/tx"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/pkg/logger"
)

// PaymentObserver is notified about applied payments.
type PaymentObserver interface {
	PaymentApplied(amount types.Money)
}

// Service provides the debt ledger operations.
type Service struct {
	repo      Repository
	partners  partner.Repository
	txManager tx.Manager
	observer  PaymentObserver
}

// NewService creates a new debt service.
func NewService(repo Repository, partners partner.Repository, txManager tx.Manager, observer PaymentObserver) *Service {
	return &Service{
		repo:      repo,
		partners:  partners,
		txManager: txManager,
		observer:  observer,
	}
}

// List returns ledger records matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Record], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return domain.ListResult[*Record]{}, apperror.NewValidation("invalid debt status").
			WithDetail("value", string(filter.Status))
	}
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// GetByID returns a ledger record.
func (s *Service) GetByID(ctx context.Context, recordID id.ID) (*Record, error) {
	return s.repo.GetByID(ctx, recordID)
}

// UpdateNote replaces the free-text note.
func (s *Service) UpdateNote(ctx context.Context, recordID id.ID, note string) (*Record, error) {
	var result *Record
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, recordID)
		if err != nil {
			return err
		}
		r.Note = note
		r.Touch()
		if err := s.repo.Update(ctx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyPayment settles part of a record and mirrors the payment onto the
// partner's running debt in the same transaction. Negative amounts count as zero.
func (s *Service) ApplyPayment(ctx context.Context, recordID id.ID, amount types.Money) (*Record, error) {
	if amount.IsNegative() {
		amount = types.Zero()
	}

	var result *Record
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, recordID)
		if err != nil {
			return err
		}

		r.ApplyPayment(amount)
		if err := s.repo.Update(ctx, r); err != nil {
			return fmt.Errorf("update debt record: %w", err)
		}

		if amount.IsZero() {
			result = r
			return nil
		}

		if _, err := s.partners.ApplyBalance(ctx, r.PartnerID, amount.Neg(), 0); err != nil {
			if !apperror.IsNotFound(err) {
				return fmt.Errorf("apply payment to partner: %w", err)
			}
			logger.Warn(ctx, "payment applied to record of a deleted partner",
				"debt_id", r.ID, "partner_id", r.PartnerID)
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.observer != nil && amount.IsPositive() {
		s.observer.PaymentApplied(amount)
	}
	logger.Info(ctx, "payment applied",
		"debt_id", result.ID,
		"amount", amount.String(),
		"remaining", result.Remaining.String(),
		"status", result.Status,
	)
	return result, nil
}
