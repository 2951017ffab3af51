package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/postgres"
)

// ExportReceiptRepo implements export_receipt.Repository.
type ExportReceiptRepo struct {
	header *postgres.BaseRepo[export_receipt.Receipt]
	lines  *tablePart[export_receipt.Line]
}

var _ export_receipt.Repository = (*ExportReceiptRepo)(nil)

// NewExportReceiptRepo creates a new export receipt repository.
func NewExportReceiptRepo(txm *postgres.TxManager) *ExportReceiptRepo {
	return &ExportReceiptRepo{
		header: postgres.NewBaseRepo[export_receipt.Receipt](txm, "export_receipts", "export receipt"),
		lines:  newTablePart[export_receipt.Line](txm, "export_receipt_lines"),
	}
}

func exportLineReceipt(l *export_receipt.Line) id.ID { return l.ReceiptID }

func (r *ExportReceiptRepo) Create(ctx context.Context, rc *export_receipt.Receipt) error {
	if err := r.header.Insert(ctx, rc); err != nil {
		return duplicateKey(err, rc.IdempotencyKey)
	}
	for i := range rc.Lines {
		rc.Lines[i].ReceiptID = rc.ID
	}
	return r.lines.insert(ctx, rc.Lines)
}

func (r *ExportReceiptRepo) withLines(ctx context.Context, rc *export_receipt.Receipt) (*export_receipt.Receipt, error) {
	lines, err := r.lines.load(ctx, []id.ID{rc.ID}, exportLineReceipt)
	if err != nil {
		return nil, err
	}
	rc.Lines = lines[rc.ID]
	return rc, nil
}

func (r *ExportReceiptRepo) FindByIdempotencyKey(ctx context.Context, key string) (*export_receipt.Receipt, error) {
	rc, err := r.header.Get(ctx, r.header.Select().Where(squirrel.Eq{"idempotency_key": key}), key)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, rc)
}

func (r *ExportReceiptRepo) GetByID(ctx context.Context, receiptID id.ID) (*export_receipt.Receipt, error) {
	rc, err := r.header.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, rc)
}

func (r *ExportReceiptRepo) GetForUpdate(ctx context.Context, receiptID id.ID) (*export_receipt.Receipt, error) {
	rc, err := r.header.GetForUpdate(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, rc)
}

func (r *ExportReceiptRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*export_receipt.Receipt], error) {
	q := receiptListQuery(r.header.Select(), "customer_id", filter)
	res, err := r.header.List(ctx, q, filter.ListFilter, receiptOrder...)
	if err != nil {
		return res, err
	}

	ids := make([]id.ID, len(res.Items))
	for i, rc := range res.Items {
		ids[i] = rc.ID
	}
	lines, err := r.lines.load(ctx, ids, exportLineReceipt)
	if err != nil {
		return res, err
	}
	for _, rc := range res.Items {
		rc.Lines = lines[rc.ID]
	}
	return res, nil
}

func (r *ExportReceiptRepo) UpdateHeader(ctx context.Context, rc *export_receipt.Receipt) error {
	return r.header.UpdateColumns(ctx, rc.ID, rc, "note", "hide_price", "updated_at")
}

func (r *ExportReceiptRepo) Delete(ctx context.Context, receiptID id.ID) error {
	return r.header.Delete(ctx, receiptID)
}
