// Package catalog_repo provides PostgreSQL implementations of the product and
// partner catalogs.
package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// productUpdateColumns excludes current_stock: only movements change it.
var productUpdateColumns = []string{
	"sku", "name", "unit", "import_price", "export_price",
	"discount_percent", "gift_points", "min_stock", "updated_at",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*postgres.BaseRepo[product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseRepo: postgres.NewBaseRepo[product.Product](txm, productTable, "product"),
	}
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	return r.Insert(ctx, p)
}

func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	return r.UpdateColumns(ctx, p.ID, p, productUpdateColumns...)
}

func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	return r.Get(ctx, r.Select().Where(squirrel.Eq{"sku": sku}).Limit(1), sku)
}

func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) (domain.ListResult[*product.Product], error) {
	return r.BaseRepo.List(ctx, productListQuery(r.Select(), filter), filter.ListFilter, "name ASC", "id ASC")
}

func productListQuery(q squirrel.SelectBuilder, filter product.ListFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}
	if filter.LowStockOnly {
		q = q.Where("current_stock <= min_stock")
	}
	return q
}

func (r *ProductRepo) IsReferenced(ctx context.Context, productID id.ID) (bool, error) {
	sql := `
		SELECT EXISTS (SELECT 1 FROM import_receipt_lines WHERE product_id = $1)
		    OR EXISTS (SELECT 1 FROM export_receipt_lines WHERE product_id = $1)`

	var referenced bool
	if err := r.Querier(ctx).QueryRow(ctx, sql, productID).Scan(&referenced); err != nil {
		return false, postgres.TranslateError(fmt.Errorf("check product references: %w", err))
	}
	return referenced, nil
}

// adjustStockSQL applies delta only while the result stays non-negative.
const adjustStockSQL = `
	UPDATE products
	SET current_stock = current_stock + $2, updated_at = NOW()
	WHERE id = $1 AND current_stock + $2 >= 0
	RETURNING `

func (r *ProductRepo) AdjustStock(ctx context.Context, productID id.ID, delta int64) (*product.Product, error) {
	var p product.Product
	sql := adjustStockSQL + strings.Join(r.Columns(), ", ")
	err := pgxscan.Get(ctx, r.Querier(ctx), &p, sql, productID, delta)
	if err == nil {
		return &p, nil
	}
	if !pgxscan.NotFound(err) {
		return nil, postgres.TranslateError(fmt.Errorf("adjust stock: %w", err))
	}

	// No row updated: either the product is gone or the guard failed.
	if _, getErr := r.GetByID(ctx, productID); getErr != nil {
		return nil, getErr
	}
	return nil, product.ErrStockConflict
}
