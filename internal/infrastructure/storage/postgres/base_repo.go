package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
)

// BaseRepo provides the CRUD plumbing shared by the table repositories.
// Columns come from the "db" tags of T.
type BaseRepo[T any] struct {
	txm    *TxManager
	table  string
	entity string
	cols   []string
}

// NewBaseRepo creates a base repository for table.
// entity names the row kind in NotFound errors.
func NewBaseRepo[T any](txm *TxManager, table, entity string) *BaseRepo[T] {
	return &BaseRepo[T]{
		txm:    txm,
		table:  table,
		entity: entity,
		cols:   ExtractDBColumns[T](),
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *BaseRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the transaction in ctx or the pool.
func (r *BaseRepo[T]) Querier(ctx context.Context) Querier {
	return r.txm.GetQuerier(ctx)
}

// Table returns the table name.
func (r *BaseRepo[T]) Table() string { return r.table }

// Columns returns the selected columns.
func (r *BaseRepo[T]) Columns() []string { return r.cols }

// Select starts a SELECT of all columns.
func (r *BaseRepo[T]) Select() squirrel.SelectBuilder {
	return r.Builder().Select(r.cols...).From(r.table)
}

// Insert writes entity using its "db" tags.
func (r *BaseRepo[T]) Insert(ctx context.Context, entity *T) error {
	data := StructToMap(entity)
	values := make(map[string]any, len(r.cols))
	for _, col := range r.cols {
		values[col] = data[col]
	}

	sql, args, err := r.Builder().Insert(r.table).SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return TranslateError(fmt.Errorf("insert %s: %w", r.table, err))
	}
	return nil
}

// UpdateColumns writes only the named columns of entity.
func (r *BaseRepo[T]) UpdateColumns(ctx context.Context, entityID id.ID, entity *T, columns ...string) error {
	data := StructToMap(entity)
	values := make(map[string]any, len(columns))
	for _, col := range columns {
		values[col] = data[col]
	}

	sql, args, err := r.Builder().
		Update(r.table).
		SetMap(values).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return TranslateError(fmt.Errorf("update %s: %w", r.table, err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entity, entityID)
	}
	return nil
}

// Get runs q and scans exactly one row. key is reported in NotFound errors.
func (r *BaseRepo[T]) Get(ctx context.Context, q squirrel.Sqlizer, key any) (*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	dst := new(T)
	if err := pgxscan.Get(ctx, r.Querier(ctx), dst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.entity, key)
		}
		return nil, TranslateError(fmt.Errorf("get %s: %w", r.table, err))
	}
	return dst, nil
}

// GetByID retrieves a row by primary key.
func (r *BaseRepo[T]) GetByID(ctx context.Context, entityID id.ID) (*T, error) {
	return r.Get(ctx, r.Select().Where(squirrel.Eq{"id": entityID}), entityID)
}

// GetForUpdate retrieves a row by primary key and locks it until commit.
func (r *BaseRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (*T, error) {
	return r.Get(ctx, r.Select().Where(squirrel.Eq{"id": entityID}).Suffix("FOR UPDATE"), entityID)
}

// List counts the rows matched by q, then returns one page ordered by orderBy.
func (r *BaseRepo[T]) List(ctx context.Context, q squirrel.SelectBuilder, filter domain.ListFilter, orderBy ...string) (domain.ListResult[*T], error) {
	filter.Normalize()
	result := domain.ListResult[*T]{
		Items:  []*T{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, TranslateError(fmt.Errorf("count %s: %w", r.table, err))
	}

	q = q.OrderBy(orderBy...).Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, TranslateError(fmt.Errorf("list %s: %w", r.table, err))
	}
	return result, nil
}

// Delete removes a row by primary key.
func (r *BaseRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().Delete(r.table).Where(squirrel.Eq{"id": entityID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return TranslateError(fmt.Errorf("delete %s: %w", r.table, err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entity, entityID)
	}
	return nil
}
