package postgres

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"idempotency key", &pgconn.PgError{Code: "23505", ConstraintName: "export_receipts_idempotency_key_key"}, apperror.CodeDuplicateSubmission},
		{"import idempotency key", &pgconn.PgError{Code: "23505", ConstraintName: "import_receipts_idempotency_key_key"}, apperror.CodeDuplicateSubmission},
		{"sku", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}, apperror.CodeDuplicate},
		{"unknown unique", &pgconn.PgError{Code: "23505", ConstraintName: "whatever"}, apperror.CodeConflict},
		{"stock check", &pgconn.PgError{Code: "23514", ConstraintName: "products_current_stock_check"}, apperror.CodeConflict},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, apperror.CodeTimeout},
		{"no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), apperror.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(fmt.Errorf("insert: %w", tt.err))
			assert.True(t, apperror.HasCode(got, tt.code), "got %v", got)
		})
	}
}

func TestTranslateError_KeepsAppErrorsAndPlainErrors(t *testing.T) {
	appErr := apperror.NewNotFound("product", "x")
	assert.Same(t, appErr, TranslateError(appErr))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, TranslateError(plain))
	assert.Equal(t, http.StatusConflict, apperror.GetHTTPStatus(TranslateError(&pgconn.PgError{Code: "23505"})))
	assert.Nil(t, TranslateError(nil))
}
