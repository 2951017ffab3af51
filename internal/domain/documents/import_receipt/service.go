package import_receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/entity"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/numerator"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/tx"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/pkg/logger"
)

// Deps bundles the collaborators of the import engine.
type Deps struct {
	Repo      Repository
	Products  product.Repository
	Partners  partner.Repository
	Debts     debt.Repository
	Numerator numerator.Generator
	TxManager tx.Manager

	// Optional
	Auditor  documents.Auditor
	Observer documents.Observer
	Clock    func() time.Time
}

// Service creates and deletes import receipts as single atomic units of work.
type Service struct {
	repo      Repository
	products  product.Repository
	partners  partner.Repository
	debts     debt.Repository
	numerator numerator.Generator
	txManager tx.Manager
	auditor   documents.Auditor
	observer  documents.Observer
	now       func() time.Time
}

// NewService creates a new import receipt service.
func NewService(d Deps) *Service {
	s := &Service{
		repo:      d.Repo,
		products:  d.Products,
		partners:  d.Partners,
		debts:     d.Debts,
		numerator: d.Numerator,
		txManager: d.TxManager,
		auditor:   d.Auditor,
		observer:  d.Observer,
		now:       d.Clock,
	}
	if s.auditor == nil {
		s.auditor = documents.NopAuditor{}
	}
	if s.observer == nil {
		s.observer = documents.NopObserver{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// LineInput is one received line. A nil price falls back to the product's cost price.
type LineInput struct {
	ProductID   id.ID
	Quantity    int64
	ImportPrice *types.Money
}

// CreateInput is a request to receive goods from a supplier.
type CreateInput struct {
	SupplierID     id.ID
	Lines          []LineInput
	TotalAmount    *types.Money // nil means the sum of line totals
	TotalQuantity  *int64       // nil means the sum of line quantities
	Note           string
	Date           *time.Time
	IdempotencyKey string
}

// Create applies a stock-in: increments stock per line, adds the amount to the
// supplier's debt, issues the code and writes the receipt and its debt record.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Receipt, error) {
	r, err := s.prepare(ctx, in)
	if err != nil {
		s.observer.MovementRejected(documents.KindImport, documents.RejectionReason(err))
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.rejectReplay(ctx, r.IdempotencyKey); err != nil {
			return err
		}
		if err := s.requireSupplier(ctx, r.SupplierID); err != nil {
			return err
		}

		for i := range r.Lines {
			line := &r.Lines[i]
			p, err := s.products.AdjustStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			line.SKU = p.SKUValue()
			line.Unit = p.Unit
			line.ProductName = p.Name
			if in.Lines[i].ImportPrice == nil {
				line.ImportPrice = p.ImportPrice
			}
			line.CalcTotal()
		}
		if in.TotalAmount == nil {
			r.TotalAmount = r.LinesTotal()
		}

		if _, err := s.partners.ApplyBalance(ctx, r.SupplierID, r.TotalAmount, 0); err != nil {
			return err
		}

		code, err := s.numerator.Next(ctx, numerator.MovementImport, s.now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		r.Code = code

		if err := s.repo.Create(ctx, r); err != nil {
			return err
		}

		record := debt.NewRecord(r.SupplierID, r.Code, r.ID, r.TotalAmount, nil)
		if err := s.debts.Create(ctx, record); err != nil {
			return fmt.Errorf("create debt record: %w", err)
		}
		return nil
	})
	if err != nil {
		s.observer.MovementRejected(documents.KindImport, documents.RejectionReason(err))
		logger.Warn(ctx, "import rejected",
			"supplier_id", in.SupplierID,
			"idempotency_key", r.IdempotencyKey,
			"reason", documents.RejectionReason(err),
		)
		return nil, err
	}

	s.observer.ReceiptCreated(documents.KindImport)
	logger.Info(ctx, "import receipt created",
		"id", r.ID,
		"code", r.Code,
		"supplier_id", r.SupplierID,
		"total_amount", r.TotalAmount.String(),
	)
	return r, nil
}

// rejectReplay fails with DuplicateSubmission when key already produced a receipt.
func (s *Service) rejectReplay(ctx context.Context, key string) error {
	_, err := s.repo.FindByIdempotencyKey(ctx, key)
	switch {
	case err == nil:
		return apperror.NewDuplicateSubmission(key)
	case apperror.IsNotFound(err):
		return nil
	default:
		return err
	}
}

// requireSupplier rejects imports credited to a missing partner or a customer.
func (s *Service) requireSupplier(ctx context.Context, partnerID id.ID) error {
	p, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return err
	}
	if p.Type != partner.TypeSupplier {
		return apperror.NewValidation("import partner must be a supplier").
			WithDetail("field", "supplier_id").
			WithDetail("type", string(p.Type))
	}
	return nil
}

// prepare builds and validates the receipt before any mutation.
func (s *Service) prepare(ctx context.Context, in CreateInput) (*Receipt, error) {
	key, err := documents.NormalizeIdempotencyKey(in.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	r := &Receipt{
		BaseEntity:     entity.NewBaseEntity(),
		SupplierID:     in.SupplierID,
		Date:           s.now(),
		TotalAmount:    types.Zero(),
		Note:           in.Note,
		IdempotencyKey: key,
		Lines:          make([]Line, len(in.Lines)),
	}
	if in.Date != nil {
		r.Date = *in.Date
	}
	if in.TotalAmount != nil {
		r.TotalAmount = *in.TotalAmount
	}

	for i, li := range in.Lines {
		line := Line{
			ReceiptID:   r.ID,
			LineNo:      i + 1,
			ProductID:   li.ProductID,
			Quantity:    li.Quantity,
			ImportPrice: types.Zero(),
			Total:       types.Zero(),
		}
		if li.ImportPrice != nil {
			line.ImportPrice = *li.ImportPrice
		}
		r.Lines[i] = line
	}

	r.TotalQuantity = r.LinesQuantity()
	if in.TotalQuantity != nil {
		r.TotalQuantity = *in.TotalQuantity
	}

	if err := r.Validate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete reverses a stock-in. Stock is taken back with the same non-negative
// guard as a sale: if part of the received goods was already sold, the delete
// is rejected. Products or suppliers that no longer exist are skipped.
func (s *Service) Delete(ctx context.Context, receiptID id.ID) error {
	var deleted *Receipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}

		for _, line := range r.Lines {
			if err := s.returnStock(ctx, r, line); err != nil {
				return err
			}
		}

		if _, err := s.partners.ApplyBalance(ctx, r.SupplierID, r.TotalAmount.Neg(), 0); err != nil {
			if !apperror.IsNotFound(err) {
				return fmt.Errorf("revert supplier debt: %w", err)
			}
			logger.Warn(ctx, "skip debt revert for deleted supplier",
				"receipt_id", r.ID, "supplier_id", r.SupplierID)
		}

		if err := s.debts.DeleteByReference(ctx, r.Code); err != nil {
			return fmt.Errorf("delete debt record: %w", err)
		}
		if err := s.auditor.RecordDeletion(ctx, documents.KindImport, r.ID, r); err != nil {
			return fmt.Errorf("audit deletion: %w", err)
		}
		if err := s.repo.Delete(ctx, r.ID); err != nil {
			return err
		}

		deleted = r
		return nil
	})
	if err != nil {
		s.observer.MovementRejected(documents.KindImport, documents.RejectionReason(err))
		return err
	}

	s.observer.ReceiptDeleted(documents.KindImport)
	logger.Info(ctx, "import receipt deleted", "id", deleted.ID, "code", deleted.Code)
	return nil
}

func (s *Service) returnStock(ctx context.Context, r *Receipt, line Line) error {
	_, err := s.products.AdjustStock(ctx, line.ProductID, -line.Quantity)
	switch {
	case err == nil:
		return nil
	case apperror.IsNotFound(err):
		logger.Warn(ctx, "skip stock return for deleted product",
			"receipt_id", r.ID, "product_id", line.ProductID)
		return nil
	case errors.Is(err, product.ErrStockConflict):
		current, getErr := s.products.GetByID(ctx, line.ProductID)
		if getErr != nil {
			return getErr
		}
		return apperror.NewInsufficientStock(current.ID.String(), current.Name, line.Quantity, current.CurrentStock)
	default:
		return fmt.Errorf("return stock: %w", err)
	}
}

// GetByID retrieves an import receipt with lines.
func (s *Service) GetByID(ctx context.Context, receiptID id.ID) (*Receipt, error) {
	return s.repo.GetByID(ctx, receiptID)
}

// List returns receipts newest first.
func (s *Service) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Receipt], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// PreviewCode returns the code the next import would likely receive.
func (s *Service) PreviewCode(ctx context.Context) (string, error) {
	return s.numerator.Preview(ctx, numerator.MovementImport, s.now())
}
