package memory

import (
	"context"
	"slices"
	"time"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/import_receipt"
)

// --- Debt ledger ---

// DebtRepo implements debt.Repository.
type DebtRepo struct {
	store *Store
}

var _ debt.Repository = (*DebtRepo)(nil)

func (r *DebtRepo) Create(ctx context.Context, rec *debt.Record) error {
	return r.store.view(ctx, func(st *state) error {
		stored := *rec
		stored.Recompute()
		st.debts[rec.ID] = stored
		return nil
	})
}

func (r *DebtRepo) Update(ctx context.Context, rec *debt.Record) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.debts[rec.ID]; !ok {
			return apperror.NewNotFound("debt record", rec.ID)
		}
		stored := *rec
		stored.Recompute()
		st.debts[rec.ID] = stored
		return nil
	})
}

func (r *DebtRepo) GetByID(ctx context.Context, recordID id.ID) (*debt.Record, error) {
	var out *debt.Record
	err := r.store.view(ctx, func(st *state) error {
		rec, ok := st.debts[recordID]
		if !ok {
			return apperror.NewNotFound("debt record", recordID)
		}
		out = &rec
		return nil
	})
	return out, err
}

// GetForUpdate is GetByID: transactions already hold the store lock.
func (r *DebtRepo) GetForUpdate(ctx context.Context, recordID id.ID) (*debt.Record, error) {
	return r.GetByID(ctx, recordID)
}

func (r *DebtRepo) List(ctx context.Context, filter debt.ListFilter) (domain.ListResult[*debt.Record], error) {
	var items []*debt.Record
	_ = r.store.view(ctx, func(st *state) error {
		for _, rec := range st.debts {
			if filter.PartnerID != nil && rec.PartnerID != *filter.PartnerID {
				continue
			}
			if filter.Status != "" && rec.Status != filter.Status {
				continue
			}
			if filter.PartnerType != "" {
				p, ok := st.partners[rec.PartnerID]
				if !ok || p.Type != filter.PartnerType {
					continue
				}
			}
			if filter.Search != "" && !containsFold(rec.ReferenceCode, filter.Search) && !containsFold(rec.Note, filter.Search) {
				continue
			}
			found := rec
			items = append(items, &found)
		}
		return nil
	})

	slices.SortFunc(items, func(a, b *debt.Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return domain.Page(items, filter.ListFilter), nil
}

func (r *DebtRepo) DeleteByReference(ctx context.Context, referenceCode string) error {
	return r.store.view(ctx, func(st *state) error {
		for key, rec := range st.debts {
			if rec.ReferenceCode == referenceCode {
				delete(st.debts, key)
			}
		}
		return nil
	})
}

// --- Receipts ---

func inRange(date time.Time, filter documents.ListFilter) bool {
	if filter.From != nil && date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && date.After(*filter.To) {
		return false
	}
	return true
}

// ImportRepo implements import_receipt.Repository.
type ImportRepo struct {
	store *Store
}

var _ import_receipt.Repository = (*ImportRepo)(nil)

func (r *ImportRepo) Create(ctx context.Context, rc *import_receipt.Receipt) error {
	return r.store.view(ctx, func(st *state) error {
		for _, other := range st.imports {
			if other.IdempotencyKey == rc.IdempotencyKey {
				return apperror.NewDuplicateSubmission(rc.IdempotencyKey)
			}
			if other.Code == rc.Code {
				return apperror.NewDuplicate("import receipt", "code", rc.Code)
			}
		}
		stored := *rc
		stored.Lines = slices.Clone(rc.Lines)
		st.imports[rc.ID] = stored
		return nil
	})
}

func (r *ImportRepo) FindByIdempotencyKey(ctx context.Context, key string) (*import_receipt.Receipt, error) {
	var out *import_receipt.Receipt
	err := r.store.view(ctx, func(st *state) error {
		for _, rc := range st.imports {
			if rc.IdempotencyKey == key {
				rc.Lines = slices.Clone(rc.Lines)
				out = &rc
				return nil
			}
		}
		return apperror.NewNotFound("import receipt", key)
	})
	return out, err
}

func (r *ImportRepo) GetByID(ctx context.Context, receiptID id.ID) (*import_receipt.Receipt, error) {
	var out *import_receipt.Receipt
	err := r.store.view(ctx, func(st *state) error {
		rc, ok := st.imports[receiptID]
		if !ok {
			return apperror.NewNotFound("import receipt", receiptID)
		}
		rc.Lines = slices.Clone(rc.Lines)
		out = &rc
		return nil
	})
	return out, err
}

// GetForUpdate is GetByID: transactions already hold the store lock.
func (r *ImportRepo) GetForUpdate(ctx context.Context, receiptID id.ID) (*import_receipt.Receipt, error) {
	return r.GetByID(ctx, receiptID)
}

func (r *ImportRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*import_receipt.Receipt], error) {
	var items []*import_receipt.Receipt
	_ = r.store.view(ctx, func(st *state) error {
		for _, rc := range st.imports {
			if filter.PartnerID != nil && rc.SupplierID != *filter.PartnerID {
				continue
			}
			if !inRange(rc.Date, filter) {
				continue
			}
			if filter.Search != "" && !containsFold(rc.Code, filter.Search) && !containsFold(rc.Note, filter.Search) {
				continue
			}
			found := rc
			found.Lines = slices.Clone(rc.Lines)
			items = append(items, &found)
		}
		return nil
	})

	slices.SortFunc(items, func(a, b *import_receipt.Receipt) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return domain.Page(items, filter.ListFilter), nil
}

func (r *ImportRepo) Delete(ctx context.Context, receiptID id.ID) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.imports[receiptID]; !ok {
			return apperror.NewNotFound("import receipt", receiptID)
		}
		delete(st.imports, receiptID)
		return nil
	})
}

// ExportRepo implements export_receipt.Repository.
type ExportRepo struct {
	store *Store
}

var _ export_receipt.Repository = (*ExportRepo)(nil)

func (r *ExportRepo) Create(ctx context.Context, rc *export_receipt.Receipt) error {
	return r.store.view(ctx, func(st *state) error {
		for _, other := range st.exports {
			if other.IdempotencyKey == rc.IdempotencyKey {
				return apperror.NewDuplicateSubmission(rc.IdempotencyKey)
			}
			if other.Code == rc.Code {
				return apperror.NewDuplicate("export receipt", "code", rc.Code)
			}
		}
		stored := *rc
		stored.Lines = slices.Clone(rc.Lines)
		st.exports[rc.ID] = stored
		return nil
	})
}

func (r *ExportRepo) FindByIdempotencyKey(ctx context.Context, key string) (*export_receipt.Receipt, error) {
	var out *export_receipt.Receipt
	err := r.store.view(ctx, func(st *state) error {
		for _, rc := range st.exports {
			if rc.IdempotencyKey == key {
				rc.Lines = slices.Clone(rc.Lines)
				out = &rc
				return nil
			}
		}
		return apperror.NewNotFound("export receipt", key)
	})
	return out, err
}

func (r *ExportRepo) GetByID(ctx context.Context, receiptID id.ID) (*export_receipt.Receipt, error) {
	var out *export_receipt.Receipt
	err := r.store.view(ctx, func(st *state) error {
		rc, ok := st.exports[receiptID]
		if !ok {
			return apperror.NewNotFound("export receipt", receiptID)
		}
		rc.Lines = slices.Clone(rc.Lines)
		out = &rc
		return nil
	})
	return out, err
}

// GetForUpdate is GetByID: transactions already hold the store lock.
func (r *ExportRepo) GetForUpdate(ctx context.Context, receiptID id.ID) (*export_receipt.Receipt, error) {
	return r.GetByID(ctx, receiptID)
}

func (r *ExportRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*export_receipt.Receipt], error) {
	var items []*export_receipt.Receipt
	_ = r.store.view(ctx, func(st *state) error {
		for _, rc := range st.exports {
			if filter.PartnerID != nil && rc.CustomerID != *filter.PartnerID {
				continue
			}
			if !inRange(rc.Date, filter) {
				continue
			}
			if filter.Search != "" && !containsFold(rc.Code, filter.Search) && !containsFold(rc.Note, filter.Search) {
				continue
			}
			found := rc
			found.Lines = slices.Clone(rc.Lines)
			items = append(items, &found)
		}
		return nil
	})

	slices.SortFunc(items, func(a, b *export_receipt.Receipt) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return domain.Page(items, filter.ListFilter), nil
}

func (r *ExportRepo) UpdateHeader(ctx context.Context, rc *export_receipt.Receipt) error {
	return r.store.view(ctx, func(st *state) error {
		stored, ok := st.exports[rc.ID]
		if !ok {
			return apperror.NewNotFound("export receipt", rc.ID)
		}
		stored.Note = rc.Note
		stored.HidePrice = rc.HidePrice
		stored.UpdatedAt = rc.UpdatedAt
		st.exports[rc.ID] = stored
		return nil
	})
}

func (r *ExportRepo) Delete(ctx context.Context, receiptID id.ID) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.exports[receiptID]; !ok {
			return apperror.NewNotFound("export receipt", receiptID)
		}
		delete(st.exports, receiptID)
		return nil
	})
}
