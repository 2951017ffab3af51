package export_receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

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

// Deps bundles the collaborators of the export engine.
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

// Service creates and deletes export receipts as single atomic units of work.
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

// NewService creates a new export receipt service.
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

// LineInput is one requested sale line. Nil price, discount and points fall
// back to the product's catalog values.
type LineInput struct {
	ProductID   id.ID
	Quantity    int64
	ExportPrice *types.Money
	Discount    *decimal.Decimal
	GiftPoints  *int64
}

// CreateInput is a request to sell goods to a customer.
type CreateInput struct {
	CustomerID     id.ID
	Lines          []LineInput
	TotalAmount    *types.Money // nil means the sum of line totals
	Note           string
	HidePrice      bool
	Date           *time.Time
	PaymentDueDate *time.Time
	IdempotencyKey string
}

// Create applies a sale: decrements stock line by line, charges the customer,
// grants points, issues the code and writes the receipt and its debt record.
// Any failure rolls back every effect, including the code counter.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Receipt, error) {
	r, err := s.prepare(ctx, in)
	if err != nil {
		s.observer.MovementRejected(documents.KindExport, documents.RejectionReason(err))
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.rejectReplay(ctx, r.IdempotencyKey); err != nil {
			return err
		}
		if err := s.requireCustomer(ctx, r.CustomerID); err != nil {
			return err
		}

		for i := range r.Lines {
			if err := s.takeStock(ctx, &r.Lines[i], in.Lines[i]); err != nil {
				return err
			}
		}
		if in.TotalAmount == nil {
			r.TotalAmount = r.LinesTotal()
		}

		pointsChange := r.PointsChange()
		customer, err := s.partners.ApplyBalance(ctx, r.CustomerID, r.TotalAmount, pointsChange)
		if err != nil {
			return err
		}
		if pointsChange != 0 && customer.SavedPoints < 0 {
			return apperror.NewInsufficientPoints(customer.ID.String(), customer.SavedPoints-pointsChange, pointsChange)
		}
		r.PartnerPointsSnapshot = customer.SavedPoints

		code, err := s.numerator.Next(ctx, numerator.MovementExport, s.now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		r.Code = code

		if err := s.repo.Create(ctx, r); err != nil {
			return err
		}

		record := debt.NewRecord(r.CustomerID, r.Code, r.ID, r.TotalAmount, r.PaymentDueDate)
		if err := s.debts.Create(ctx, record); err != nil {
			return fmt.Errorf("create debt record: %w", err)
		}
		return nil
	})
	if err != nil {
		s.observer.MovementRejected(documents.KindExport, documents.RejectionReason(err))
		logger.Warn(ctx, "export rejected",
			"customer_id", in.CustomerID,
			"idempotency_key", r.IdempotencyKey,
			"reason", documents.RejectionReason(err),
		)
		return nil, err
	}

	s.observer.ReceiptCreated(documents.KindExport)
	logger.Info(ctx, "export receipt created",
		"id", r.ID,
		"code", r.Code,
		"customer_id", r.CustomerID,
		"total_amount", r.TotalAmount.String(),
		"points_snapshot", r.PartnerPointsSnapshot,
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

// requireCustomer rejects sales billed to a missing partner or a supplier.
func (s *Service) requireCustomer(ctx context.Context, partnerID id.ID) error {
	p, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return err
	}
	if p.Type != partner.TypeCustomer {
		return apperror.NewValidation("export partner must be a customer").
			WithDetail("field", "customer_id").
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
		CustomerID:     in.CustomerID,
		Date:           s.now(),
		PaymentDueDate: in.PaymentDueDate,
		TotalAmount:    types.Zero(),
		Note:           in.Note,
		HidePrice:      in.HidePrice,
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
			ExportPrice: types.Zero(),
			Discount:    decimal.Zero,
			Total:       types.Zero(),
			ImportPrice: types.Zero(),
		}
		if li.ExportPrice != nil {
			line.ExportPrice = *li.ExportPrice
		}
		if li.Discount != nil {
			line.Discount = *li.Discount
		}
		r.Lines[i] = line
	}

	if err := r.Validate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// takeStock decrements stock for one line and fills its product snapshot.
func (s *Service) takeStock(ctx context.Context, line *Line, in LineInput) error {
	p, err := s.products.AdjustStock(ctx, line.ProductID, -line.Quantity)
	if err != nil {
		if !errors.Is(err, product.ErrStockConflict) {
			return err
		}
		current, getErr := s.products.GetByID(ctx, line.ProductID)
		if getErr != nil {
			return getErr
		}
		return apperror.NewInsufficientStock(current.ID.String(), current.Name, line.Quantity, current.CurrentStock)
	}

	line.SKU = p.SKUValue()
	line.Unit = p.Unit
	line.ProductName = p.Name
	line.ImportPrice = p.ImportPrice
	if in.ExportPrice == nil {
		line.ExportPrice = p.ExportPrice
	}
	if in.Discount == nil {
		line.Discount = p.DiscountPercent
	}
	if in.GiftPoints != nil {
		line.GiftPoints = *in.GiftPoints
	} else {
		line.GiftPoints = p.GiftPoints
	}
	line.CalcTotal()
	return nil
}

// Delete reverses a sale: restores stock, removes the charge and the granted
// points, deletes the debt record and the receipt. Products or customers that
// no longer exist are skipped.
func (s *Service) Delete(ctx context.Context, receiptID id.ID) error {
	var deleted *Receipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}

		for _, line := range r.Lines {
			if _, err := s.products.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
				if apperror.IsNotFound(err) {
					logger.Warn(ctx, "skip stock restore for deleted product",
						"receipt_id", r.ID, "product_id", line.ProductID)
					continue
				}
				return fmt.Errorf("restore stock: %w", err)
			}
		}

		if _, err := s.partners.ApplyBalance(ctx, r.CustomerID, r.TotalAmount.Neg(), -r.PointsChange()); err != nil {
			if !apperror.IsNotFound(err) {
				return fmt.Errorf("revert customer balance: %w", err)
			}
			logger.Warn(ctx, "skip balance revert for deleted customer",
				"receipt_id", r.ID, "customer_id", r.CustomerID)
		}

		if err := s.debts.DeleteByReference(ctx, r.Code); err != nil {
			return fmt.Errorf("delete debt record: %w", err)
		}
		if err := s.auditor.RecordDeletion(ctx, documents.KindExport, r.ID, r); err != nil {
			return fmt.Errorf("audit deletion: %w", err)
		}
		if err := s.repo.Delete(ctx, r.ID); err != nil {
			return err
		}

		deleted = r
		return nil
	})
	if err != nil {
		s.observer.MovementRejected(documents.KindExport, documents.RejectionReason(err))
		return err
	}

	s.observer.ReceiptDeleted(documents.KindExport)
	logger.Info(ctx, "export receipt deleted", "id", deleted.ID, "code", deleted.Code)
	return nil
}

// GetByID retrieves an export receipt with lines.
func (s *Service) GetByID(ctx context.Context, receiptID id.ID) (*Receipt, error) {
	return s.repo.GetByID(ctx, receiptID)
}

// List returns receipts newest first.
func (s *Service) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*Receipt], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// UpdateInput holds the editable header fields; nil means unchanged.
type UpdateInput struct {
	Note      *string
	HidePrice *bool
}

// Update edits the note and hide-price flag. Lines and amounts are immutable.
func (s *Service) Update(ctx context.Context, receiptID id.ID, in UpdateInput) (*Receipt, error) {
	var result *Receipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.repo.GetForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}
		if in.Note != nil {
			r.Note = *in.Note
		}
		if in.HidePrice != nil {
			r.HidePrice = *in.HidePrice
		}
		r.Touch()
		if err := s.repo.UpdateHeader(ctx, r); err != nil {
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

// PreviewCode returns the code the next export would likely receive.
func (s *Service) PreviewCode(ctx context.Context) (string, error) {
	return s.numerator.Preview(ctx, numerator.MovementExport, s.now())
}
