// Package documents holds contracts shared by the stock movement receipts
// (imports and exports).
package documents

import (
	"context"
	"strings"
	"time"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
)

// Kind names a receipt type in metrics, audit entries and logs.
type Kind string

const (
	KindImport Kind = "import_receipt"
	KindExport Kind = "export_receipt"
)

// maxIdempotencyKeyLength bounds client supplied keys.
const maxIdempotencyKeyLength = 128

// Observer receives engine outcomes. Implemented by the metrics layer.
type Observer interface {
	ReceiptCreated(kind Kind)
	ReceiptDeleted(kind Kind)
	MovementRejected(kind Kind, reason string)
}

// Auditor records snapshots of receipts removed from the system.
// Implementations write inside the caller's transaction.
type Auditor interface {
	RecordDeletion(ctx context.Context, kind Kind, entityID id.ID, snapshot any) error
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) ReceiptCreated(Kind)           {}
func (NopObserver) ReceiptDeleted(Kind)           {}
func (NopObserver) MovementRejected(Kind, string) {}

// NopAuditor discards all entries.
type NopAuditor struct{}

func (NopAuditor) RecordDeletion(context.Context, Kind, id.ID, any) error { return nil }

// ListFilter narrows receipt listings. Results are ordered newest first.
type ListFilter struct {
	domain.ListFilter

	PartnerID *id.ID
	From      *time.Time
	To        *time.Time
}

// NormalizeIdempotencyKey trims the key and checks it is usable.
func NormalizeIdempotencyKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", apperror.NewValidation("idempotency key is required").
			WithDetail("field", "idempotency_key")
	}
	if len(key) > maxIdempotencyKeyLength {
		return "", apperror.NewValidation("idempotency key is too long").
			WithDetail("field", "idempotency_key").
			WithDetail("max_length", maxIdempotencyKeyLength)
	}
	return key, nil
}

// RejectionReason maps an engine error onto a low-cardinality label.
func RejectionReason(err error) string {
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		return "internal"
	}
	switch appErr.Code {
	case apperror.CodeInsufficientStock:
		return "insufficient_stock"
	case apperror.CodeInsufficientPoints:
		return "insufficient_points"
	case apperror.CodeDuplicateSubmission:
		return "duplicate"
	case apperror.CodeNotFound:
		return "not_found"
	case apperror.CodeValidation:
		return "validation"
	default:
		return "internal"
	}
}
