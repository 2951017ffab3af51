package document_repo

import (
	"errors"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
)

func TestReceiptListQuery(t *testing.T) {
	partnerID := id.New()
	from := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).Select("id").From("export_receipts")

	q := receiptListQuery(base, "customer_id", documents.ListFilter{
		ListFilter: domain.ListFilter{Search: "XK-2511"},
		PartnerID:  &partnerID,
		From:       &from,
	})

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM export_receipts WHERE customer_id = $1 AND date >= $2 AND (code ILIKE $3 OR note ILIKE $4)", sql)
	assert.Equal(t, []any{partnerID, from, "%XK-2511%", "%XK-2511%"}, args)
}

func TestLineColumnsCarryReceiptID(t *testing.T) {
	cols := postgres.ExtractDBColumns[export_receipt.Line]()

	assert.Equal(t, "receipt_id", cols[0])
	assert.Contains(t, cols, "product_name")
	assert.Contains(t, cols, "gift_points")
}

func TestDuplicateKey(t *testing.T) {
	err := duplicateKey(apperror.NewDuplicateSubmission(""), "K1")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "K1", appErr.Details["idempotency_key"])

	other := errors.New("boom")
	assert.Equal(t, other, duplicateKey(other, "K1"))
}
