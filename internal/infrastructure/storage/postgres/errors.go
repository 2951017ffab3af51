package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
)

// PostgreSQL error codes used by the repositories.
const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgQueryCanceled       = "57014"
)

// uniqueConstraints maps unique constraint names onto the catalog field they guard.
var uniqueConstraints = map[string]struct{ entity, field string }{
	"products_sku_key":         {"product", "sku"},
	"partners_phone_key":       {"partner", "phone"},
	"import_receipts_code_key": {"import receipt", "code"},
	"export_receipts_code_key": {"export receipt", "code"},
}

// TranslateError converts driver errors into application errors so that the
// domain never sees a PostgreSQL error code.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound("record", "").WithCause(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperror.AppError{
			Code:       apperror.CodeTimeout,
			Message:    "Operation timed out",
			HTTPStatus: 504,
			Err:        err,
		}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if strings.HasSuffix(pgErr.ConstraintName, "_idempotency_key_key") {
			return apperror.NewDuplicateSubmission("").WithCause(err)
		}
		if c, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return apperror.NewDuplicate(c.entity, c.field, "").WithCause(err)
		}
		return apperror.NewConflict("record already exists").WithCause(err)
	case pgCheckViolation:
		return apperror.NewConflict("constraint violated: " + pgErr.ConstraintName).WithCause(err)
	case pgForeignKeyViolation:
		return apperror.NewConflict("record is referenced by other data").WithCause(err)
	case pgQueryCanceled:
		return &apperror.AppError{
			Code:       apperror.CodeTimeout,
			Message:    "Statement timed out",
			HTTPStatus: 504,
			Err:        err,
		}
	}
	return err
}
