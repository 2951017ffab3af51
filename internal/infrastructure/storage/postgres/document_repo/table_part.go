// Package document_repo provides PostgreSQL implementations of the import and
// export receipt repositories. A receipt is a header row plus its lines.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
)

// tablePart stores receipt lines of type L.
// Lines are removed by ON DELETE CASCADE together with their header.
type tablePart[L any] struct {
	txm   *postgres.TxManager
	batch *postgres.BatchInserter
	table string
	cols  []string
}

func newTablePart[L any](txm *postgres.TxManager, table string) *tablePart[L] {
	return &tablePart[L]{
		txm:   txm,
		batch: postgres.NewBatchInserter(txm),
		table: table,
		cols:  postgres.ExtractDBColumns[L](),
	}
}

func (t *tablePart[L]) insert(ctx context.Context, lines []L) error {
	rows := make([][]any, len(lines))
	for i := range lines {
		rows[i] = postgres.RowValues(&lines[i], t.cols)
	}
	_, err := t.batch.CopyFromSlice(ctx, t.table, t.cols, rows)
	return err
}

// load returns lines of the given receipts keyed by receipt id, in line order.
func (t *tablePart[L]) load(ctx context.Context, receiptIDs []id.ID, receiptOf func(*L) id.ID) (map[id.ID][]L, error) {
	out := make(map[id.ID][]L, len(receiptIDs))
	if len(receiptIDs) == 0 {
		return out, nil
	}

	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(t.cols...).
		From(t.table).
		Where(squirrel.Eq{"receipt_id": receiptIDs}).
		OrderBy("receipt_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var lines []L
	if err := pgxscan.Select(ctx, t.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, postgres.TranslateError(fmt.Errorf("load %s: %w", t.table, err))
	}
	for i := range lines {
		key := receiptOf(&lines[i])
		out[key] = append(out[key], lines[i])
	}
	return out, nil
}

// receiptListQuery applies the shared receipt filters. partnerColumn is
// customer_id or supplier_id.
func receiptListQuery(q squirrel.SelectBuilder, partnerColumn string, filter documents.ListFilter) squirrel.SelectBuilder {
	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{partnerColumn: *filter.PartnerID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.To})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"note": pattern},
		})
	}
	return q
}

// duplicateKey restores the idempotency key on a duplicate submission error.
func duplicateKey(err error, key string) error {
	if apperror.IsDuplicateSubmission(err) {
		return apperror.NewDuplicateSubmission(key).WithCause(err)
	}
	return err
}

var receiptOrder = []string{"date DESC", "created_at DESC"}
