package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/import_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
)

// ImportReceiptRepo implements import_receipt.Repository.
type ImportReceiptRepo struct {
	header *postgres.BaseRepo[import_receipt.Receipt]
	lines  *tablePart[import_receipt.Line]
}

var _ import_receipt.Repository = (*ImportReceiptRepo)(nil)

// NewImportReceiptRepo creates a new import receipt repository.
func NewImportReceiptRepo(txm *postgres.TxManager) *ImportReceiptRepo {
	return &ImportReceiptRepo{
		header: postgres.NewBaseRepo[import_receipt.Receipt](txm, "import_receipts", "import receipt"),
		lines:  newTablePart[import_receipt.Line](txm, "import_receipt_lines"),
	}
}

func importLineReceipt(l *import_receipt.Line) id.ID { return l.ReceiptID }

func (r *ImportReceiptRepo) Create(ctx context.Context, rc *import_receipt.Receipt) error {
	if err := r.header.Insert(ctx, rc); err != nil {
		return duplicateKey(err, rc.IdempotencyKey)
	}
	for i := range rc.Lines {
		rc.Lines[i].ReceiptID = rc.ID
	}
	return r.lines.insert(ctx, rc.Lines)
}

func (r *ImportReceiptRepo) withLines(ctx context.Context, rc *import_receipt.Receipt) (*import_receipt.Receipt, error) {
	lines, err := r.lines.load(ctx, []id.ID{rc.ID}, importLineReceipt)
	if err != nil {
		return nil, err
	}
	rc.Lines = lines[rc.ID]
	return rc, nil
}

func (r *ImportReceiptRepo) FindByIdempotencyKey(ctx context.Context, key string) (*import_receipt.Receipt, error) {
	rc, err := r.header.Get(ctx, r.header.Select().Where(squirrel.Eq{"idempotency_key": key}), key)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, rc)
}

func (r *ImportReceiptRepo) GetByID(ctx context.Context, receiptID id.ID) (*import_receipt.Receipt, error) {
	rc, err := r.header.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, rc)
}

func (r *ImportReceiptRepo) GetForUpdate(ctx context.Context, receiptID id.ID) (*import_receipt.Receipt, error) {
	rc, err := r.header.GetForUpdate(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, rc)
}

func (r *ImportReceiptRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*import_receipt.Receipt], error) {
	q := receiptListQuery(r.header.Select(), "supplier_id", filter)
	res, err := r.header.List(ctx, q, filter.ListFilter, receiptOrder...)
	if err != nil {
		return res, err
	}

	ids := make([]id.ID, len(res.Items))
	for i, rc := range res.Items {
		ids[i] = rc.ID
	}
	lines, err := r.lines.load(ctx, ids, importLineReceipt)
	if err != nil {
		return res, err
	}
	for _, rc := range res.Items {
		rc.Lines = lines[rc.ID]
	}
	return res, nil
}

func (r *ImportReceiptRepo) Delete(ctx context.Context, receiptID id.ID) error {
	return r.header.Delete(ctx, receiptID)
}
