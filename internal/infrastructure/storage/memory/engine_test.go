package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/numerator"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/import_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/memory"
)

// 2025-11-29 10:00 in Ho Chi Minh.
var fixedNow = time.Date(2025, 11, 29, 3, 0, 0, 0, time.UTC)

type engine struct {
	store     *memory.Store
	numerator *memory.Numerator
	auditor   *memory.Auditor
	exports   *export_receipt.Service
	imports   *import_receipt.Service
	debts     *debt.Service
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	store := memory.NewStore()
	num := memory.NewNumerator(store, numerator.DefaultConfig())
	auditor := memory.NewAuditor(store)
	clock := func() time.Time { return fixedNow }

	return &engine{
		store:     store,
		numerator: num,
		auditor:   auditor,
		exports: export_receipt.NewService(export_receipt.Deps{
			Repo:      store.Exports(),
			Products:  store.Products(),
			Partners:  store.Partners(),
			Debts:     store.Debts(),
			Numerator: num,
			TxManager: store,
			Auditor:   auditor,
			Clock:     clock,
		}),
		imports: import_receipt.NewService(import_receipt.Deps{
			Repo:      store.Imports(),
			Products:  store.Products(),
			Partners:  store.Partners(),
			Debts:     store.Debts(),
			Numerator: num,
			TxManager: store,
			Auditor:   auditor,
			Clock:     clock,
		}),
		debts: debt.NewService(store.Debts(), store.Partners(), store, nil),
	}
}

func (e *engine) addProduct(t *testing.T, name string, stock, price, points int64) *product.Product {
	t.Helper()
	p := product.NewProduct(name, "hộp")
	p.CurrentStock = stock
	p.ExportPrice = types.NewMoney(price)
	p.ImportPrice = types.NewMoney(price / 2)
	p.GiftPoints = points
	require.NoError(t, e.store.Products().Create(context.Background(), p))
	return p
}

func (e *engine) addPartner(t *testing.T, name string, typ partner.Type, points int64) *partner.Partner {
	t.Helper()
	p := partner.NewPartner(name, typ)
	p.SavedPoints = points
	require.NoError(t, e.store.Partners().Create(context.Background(), p))
	return p
}

func (e *engine) stock(t *testing.T, productID id.ID) int64 {
	t.Helper()
	p, err := e.store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.CurrentStock
}

func (e *engine) partner(t *testing.T, partnerID id.ID) *partner.Partner {
	t.Helper()
	p, err := e.store.Partners().GetByID(context.Background(), partnerID)
	require.NoError(t, err)
	return p
}

func (e *engine) debtRecords(t *testing.T) []*debt.Record {
	t.Helper()
	res, err := e.store.Debts().List(context.Background(), debt.ListFilter{ListFilter: domain.DefaultListFilter()})
	require.NoError(t, err)
	return res.Items
}

func (e *engine) exportCount(t *testing.T) int64 {
	t.Helper()
	res, err := e.store.Exports().List(context.Background(), documents.ListFilter{ListFilter: domain.DefaultListFilter()})
	require.NoError(t, err)
	return res.TotalCount
}

func money(v int64) *types.Money {
	m := types.NewMoney(v)
	return &m
}

func TestExport_SimpleSale(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 2)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	r, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 3}},
		TotalAmount:    money(3000),
		IdempotencyKey: "K1",
	})
	require.NoError(t, err)

	assert.Equal(t, "XK-251129-001", r.Code)
	assert.Equal(t, int64(6), r.PartnerPointsSnapshot)
	assert.Equal(t, export_receipt.PointsView{Before: 0, Added: 6, After: 6}, r.Points())
	assert.Equal(t, "Sữa tươi", r.Lines[0].ProductName)
	assert.True(t, types.NewMoney(3000).Equal(r.Lines[0].Total))

	assert.Equal(t, int64(7), e.stock(t, p.ID))
	customer := e.partner(t, c.ID)
	assert.True(t, types.NewMoney(3000).Equal(customer.CurrentDebt))
	assert.Equal(t, int64(6), customer.SavedPoints)

	records := e.debtRecords(t)
	require.Len(t, records, 1)
	assert.True(t, types.NewMoney(3000).Equal(records[0].Amount))
	assert.True(t, types.NewMoney(3000).Equal(records[0].Remaining))
	assert.Equal(t, debt.StatusUnpaid, records[0].Status)
	assert.Equal(t, r.Code, records[0].ReferenceCode)
	require.NotNil(t, records[0].ReferenceID)
	assert.Equal(t, r.ID, *records[0].ReferenceID)
}

func TestExport_DeleteReversesSale(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 2)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	r, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 3}},
		TotalAmount:    money(3000),
		IdempotencyKey: "K1",
	})
	require.NoError(t, err)

	require.NoError(t, e.exports.Delete(ctx, r.ID))

	assert.Equal(t, int64(10), e.stock(t, p.ID))
	customer := e.partner(t, c.ID)
	assert.True(t, customer.CurrentDebt.IsZero())
	assert.Equal(t, int64(0), customer.SavedPoints)
	assert.Empty(t, e.debtRecords(t))
	assert.Equal(t, int64(0), e.exportCount(t))

	entries := e.auditor.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, documents.KindExport, entries[0].Kind)
	assert.Equal(t, r.ID, entries[0].EntityID)

	_, err = e.exports.GetByID(ctx, r.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(e.exports.Delete(ctx, r.ID)))
}

func TestExport_DuplicateIdempotencyKey(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 2)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	in := export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 3}},
		TotalAmount:    money(3000),
		IdempotencyKey: "K1",
	}
	_, err := e.exports.Create(ctx, in)
	require.NoError(t, err)

	_, err = e.exports.Create(ctx, in)
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicateSubmission(err))

	assert.Equal(t, int64(1), e.exportCount(t))
	assert.Len(t, e.debtRecords(t), 1)
	assert.Equal(t, int64(7), e.stock(t, p.ID))
	assert.True(t, types.NewMoney(3000).Equal(e.partner(t, c.ID).CurrentDebt))
	// the rolled back attempt must not leave a gap
	assert.Equal(t, int64(1), e.numerator.Counter("export_251129"))
}

func TestExport_InsufficientStockLeavesAggregatesUnchanged(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	first := e.addProduct(t, "Bánh quy", 10, 500, 1)
	second := e.addProduct(t, "Nước mắm", 2, 800, 0)
	c := e.addPartner(t, "Anh Minh", partner.TypeCustomer, 4)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID: c.ID,
		Lines: []export_receipt.LineInput{
			{ProductID: first.ID, Quantity: 5},
			{ProductID: second.ID, Quantity: 3},
		},
		IdempotencyKey: "K2",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, "Nước mắm", appErr.Details["product_name"])
	assert.Equal(t, int64(2), appErr.Details["available"])

	assert.Equal(t, int64(10), e.stock(t, first.ID))
	assert.Equal(t, int64(2), e.stock(t, second.ID))
	customer := e.partner(t, c.ID)
	assert.True(t, customer.CurrentDebt.IsZero())
	assert.Equal(t, int64(4), customer.SavedPoints)
	assert.Empty(t, e.debtRecords(t))
	assert.Equal(t, int64(0), e.numerator.Counter("export_251129"))
}

func TestExport_PointsShortfallRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Quà tặng", 10, 0, 0)
	c := e.addPartner(t, "Cô Hoa", partner.TypeCustomer, 5)
	redeem := int64(-4)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 2, GiftPoints: &redeem}},
		IdempotencyKey: "K3",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientPoints, appErr.Code)
	assert.Equal(t, int64(5), appErr.Details["current_points"])
	assert.Equal(t, int64(3), appErr.Details["shortfall"])

	assert.Equal(t, int64(10), e.stock(t, p.ID))
	assert.Equal(t, int64(5), e.partner(t, c.ID).SavedPoints)
	assert.Empty(t, e.debtRecords(t))
}

func TestExport_RedemptionWithinBalance(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Quà tặng", 10, 0, 0)
	c := e.addPartner(t, "Cô Hoa", partner.TypeCustomer, 10)
	redeem := int64(-4)

	r, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 2, GiftPoints: &redeem}},
		IdempotencyKey: "K4",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), r.PartnerPointsSnapshot)
	assert.Equal(t, export_receipt.PointsView{Before: 10, Added: -8, After: 2}, r.Points())
}

func TestExport_LastUnitContention(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Hàng cuối", 1, 1000, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, key := range []string{"race-a", "race-b"} {
		i, key := i, key
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.exports.Create(ctx, export_receipt.CreateInput{
				CustomerID:     c.ID,
				Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
				IdempotencyKey: key,
			})
		}()
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperror.HasCode(err, apperror.CodeInsufficientStock):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, int64(0), e.stock(t, p.ID))
	assert.Equal(t, int64(1), e.numerator.Counter("export_251129"))
}

func TestExport_LineDefaultsFromCatalog(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Dầu ăn", 10, 50000, 3)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)
	require.NoError(t, e.store.Products().Update(ctx, func() *product.Product {
		cp := *p
		cp.DiscountPercent = types.MustMoney("10")
		return &cp
	}()))

	r, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 2}},
		IdempotencyKey: "K5",
	})
	require.NoError(t, err)

	line := r.Lines[0]
	assert.True(t, types.NewMoney(50000).Equal(line.ExportPrice))
	assert.True(t, types.NewMoney(90000).Equal(line.Total))
	assert.Equal(t, int64(3), line.GiftPoints)
	assert.True(t, types.NewMoney(90000).Equal(r.TotalAmount))
}

func TestExport_ValidationBeforeMutation(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{CustomerID: c.ID, IdempotencyKey: "K6"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	p := e.addProduct(t, "Sữa tươi", 10, 1000, 0)
	_, err = e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID: c.ID,
		Lines:      []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Equal(t, int64(10), e.stock(t, p.ID))
}

func TestExport_MissingCustomerAborts(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 0)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     id.New(),
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "K7",
	})
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, int64(10), e.stock(t, p.ID))
}

func TestExport_DeleteSkipsRemovedProduct(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 1)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	r, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 2}},
		IdempotencyKey: "K8",
	})
	require.NoError(t, err)
	require.NoError(t, e.store.Products().Delete(ctx, p.ID))

	require.NoError(t, e.exports.Delete(ctx, r.ID))
	customer := e.partner(t, c.ID)
	assert.True(t, customer.CurrentDebt.IsZero())
	assert.Equal(t, int64(0), customer.SavedPoints)
}

func TestExport_UpdateHeader(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	r, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "K9",
	})
	require.NoError(t, err)

	note := "giao buổi chiều"
	hide := true
	updated, err := e.exports.Update(ctx, r.ID, export_receipt.UpdateInput{Note: &note, HidePrice: &hide})
	require.NoError(t, err)
	assert.Equal(t, note, updated.Note)

	got, err := e.exports.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, note, got.Note)
	assert.True(t, got.HidePrice)
	assert.True(t, r.TotalAmount.Equal(got.TotalAmount))
	assert.Len(t, got.Lines, 1)
}

func TestCodes_SequencePerDay(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 100, 1000, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	preview, err := e.exports.PreviewCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "XK-251129-001", preview)

	for i, key := range []string{"a", "b", "c"} {
		r, err := e.exports.Create(ctx, export_receipt.CreateInput{
			CustomerID:     c.ID,
			Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
			IdempotencyKey: key,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"XK-251129-001", "XK-251129-002", "XK-251129-003"}[i], r.Code)
	}

	preview, err = e.exports.PreviewCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "XK-251129-004", preview)

	importPreview, err := e.imports.PreviewCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NK-251129-001", importPreview)
}

func TestImport_RoundTrip(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Gạo", 5, 20000, 0)
	s := e.addPartner(t, "NCC Hòa Bình", partner.TypeSupplier, 0)

	r, err := e.imports.Create(ctx, import_receipt.CreateInput{
		SupplierID:     s.ID,
		Lines:          []import_receipt.LineInput{{ProductID: p.ID, Quantity: 20, ImportPrice: money(9000)}},
		IdempotencyKey: "I1",
	})
	require.NoError(t, err)

	assert.Equal(t, "NK-251129-001", r.Code)
	assert.Equal(t, int64(20), r.TotalQuantity)
	assert.True(t, types.NewMoney(180000).Equal(r.TotalAmount))
	assert.Equal(t, int64(25), e.stock(t, p.ID))
	assert.True(t, types.NewMoney(180000).Equal(e.partner(t, s.ID).CurrentDebt))

	records := e.debtRecords(t)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].DueDate)

	_, err = e.imports.Create(ctx, import_receipt.CreateInput{
		SupplierID:     s.ID,
		Lines:          []import_receipt.LineInput{{ProductID: p.ID, Quantity: 20}},
		IdempotencyKey: "I1",
	})
	assert.True(t, apperror.IsDuplicateSubmission(err))
	assert.Equal(t, int64(25), e.stock(t, p.ID))

	require.NoError(t, e.imports.Delete(ctx, r.ID))
	assert.Equal(t, int64(5), e.stock(t, p.ID))
	assert.True(t, e.partner(t, s.ID).CurrentDebt.IsZero())
	assert.Empty(t, e.debtRecords(t))
}

func TestImport_DeleteAfterSaleRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Gạo", 0, 20000, 0)
	s := e.addPartner(t, "NCC Hòa Bình", partner.TypeSupplier, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	in, err := e.imports.Create(ctx, import_receipt.CreateInput{
		SupplierID:     s.ID,
		Lines:          []import_receipt.LineInput{{ProductID: p.ID, Quantity: 10}},
		IdempotencyKey: "I2",
	})
	require.NoError(t, err)
	_, err = e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 4}},
		IdempotencyKey: "K10",
	})
	require.NoError(t, err)

	err = e.imports.Delete(ctx, in.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, int64(6), e.stock(t, p.ID))
	assert.Len(t, e.debtRecords(t), 2)
}

func TestImport_UnknownProductAborts(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Gạo", 0, 20000, 0)
	s := e.addPartner(t, "NCC Hòa Bình", partner.TypeSupplier, 0)

	_, err := e.imports.Create(ctx, import_receipt.CreateInput{
		SupplierID: s.ID,
		Lines: []import_receipt.LineInput{
			{ProductID: p.ID, Quantity: 10},
			{ProductID: id.New(), Quantity: 1},
		},
		IdempotencyKey: "I3",
	})
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, int64(0), e.stock(t, p.ID))
	assert.True(t, e.partner(t, s.ID).CurrentDebt.IsZero())
	assert.Equal(t, int64(0), e.numerator.Counter("import_251129"))
}

func TestDebt_PartialThenFullPayment(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 3}},
		TotalAmount:    money(3000),
		IdempotencyKey: "K11",
	})
	require.NoError(t, err)
	recordID := e.debtRecords(t)[0].ID

	rec, err := e.debts.ApplyPayment(ctx, recordID, types.NewMoney(1000))
	require.NoError(t, err)
	assert.True(t, types.NewMoney(1000).Equal(rec.PaidAmount))
	assert.True(t, types.NewMoney(2000).Equal(rec.Remaining))
	assert.Equal(t, debt.StatusPartiallyPaid, rec.Status)
	assert.True(t, types.NewMoney(2000).Equal(e.partner(t, c.ID).CurrentDebt))

	rec, err = e.debts.ApplyPayment(ctx, recordID, types.NewMoney(2000))
	require.NoError(t, err)
	assert.True(t, rec.Remaining.IsZero())
	assert.Equal(t, debt.StatusPaid, rec.Status)
	assert.True(t, e.partner(t, c.ID).CurrentDebt.IsZero())

	stored, err := e.debts.GetByID(ctx, recordID)
	require.NoError(t, err)
	assert.Equal(t, debt.StatusPaid, stored.Status)
}

func TestDebt_ZeroPaymentIsNoop(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "K12",
	})
	require.NoError(t, err)
	recordID := e.debtRecords(t)[0].ID

	rec, err := e.debts.ApplyPayment(ctx, recordID, types.NewMoney(-500))
	require.NoError(t, err)
	assert.True(t, rec.PaidAmount.IsZero())
	assert.Equal(t, debt.StatusUnpaid, rec.Status)
	assert.True(t, types.NewMoney(1000).Equal(e.partner(t, c.ID).CurrentDebt))

	_, err = e.debts.ApplyPayment(ctx, id.New(), types.NewMoney(100))
	assert.True(t, apperror.IsNotFound(err))
}

func TestDebt_ListByPartnerType(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 10, 1000, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)
	s := e.addPartner(t, "NCC Hòa Bình", partner.TypeSupplier, 0)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "K13",
	})
	require.NoError(t, err)
	_, err = e.imports.Create(ctx, import_receipt.CreateInput{
		SupplierID:     s.ID,
		Lines:          []import_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "I4",
	})
	require.NoError(t, err)

	res, err := e.debts.List(ctx, debt.ListFilter{PartnerType: partner.TypeSupplier})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, s.ID, res.Items[0].PartnerID)

	_, err = e.debts.List(ctx, debt.ListFilter{Status: "overdue"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestExport_RetryAfterLastUnitIsDuplicate(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Hàng cuối", 1, 1000, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	in := export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "K20",
	}
	_, err := e.exports.Create(ctx, in)
	require.NoError(t, err)

	_, err = e.exports.Create(ctx, in)
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicateSubmission(err))
	assert.False(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	assert.Equal(t, int64(0), e.stock(t, p.ID))
	assert.Equal(t, int64(1), e.exportCount(t))
}

func TestExport_RetryAfterPointsSpentIsDuplicate(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Quà tặng", 10, 0, 0)
	c := e.addPartner(t, "Cô Hoa", partner.TypeCustomer, 4)
	redeem := int64(-4)

	in := export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1, GiftPoints: &redeem}},
		IdempotencyKey: "K21",
	}
	_, err := e.exports.Create(ctx, in)
	require.NoError(t, err)

	_, err = e.exports.Create(ctx, in)
	assert.True(t, apperror.IsDuplicateSubmission(err))
	assert.Zero(t, e.partner(t, c.ID).SavedPoints)
	assert.Equal(t, int64(9), e.stock(t, p.ID))
}

func TestImport_RetryAfterStockSoldIsDuplicate(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Gạo", 0, 20000, 0)
	s := e.addPartner(t, "NCC Hòa Bình", partner.TypeSupplier, 0)

	in := import_receipt.CreateInput{
		SupplierID:     s.ID,
		Lines:          []import_receipt.LineInput{{ProductID: p.ID, Quantity: 3}},
		IdempotencyKey: "I20",
	}
	_, err := e.imports.Create(ctx, in)
	require.NoError(t, err)

	_, err = e.imports.Create(ctx, in)
	assert.True(t, apperror.IsDuplicateSubmission(err))
	assert.Equal(t, int64(3), e.stock(t, p.ID))
	assert.Equal(t, int64(1), e.numerator.Counter("import_251129"))
}

func TestExport_NegativeBalanceCannotStayNegative(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 5, 1000, 2)
	c := e.addPartner(t, "Anh Tú", partner.TypeCustomer, -10)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "K22",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientPoints, appErr.Code)
	assert.Equal(t, int64(-10), appErr.Details["current_points"])

	assert.Equal(t, int64(5), e.stock(t, p.ID))
	assert.Equal(t, int64(-10), e.partner(t, c.ID).SavedPoints)
	assert.Zero(t, e.exportCount(t))
}

func TestExport_SupplierRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Sữa tươi", 5, 1000, 0)
	s := e.addPartner(t, "NCC Hòa Bình", partner.TypeSupplier, 0)

	_, err := e.exports.Create(ctx, export_receipt.CreateInput{
		CustomerID:     s.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 1}},
		IdempotencyKey: "K23",
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Equal(t, int64(5), e.stock(t, p.ID))
	assert.True(t, e.partner(t, s.ID).CurrentDebt.IsZero())
}

func TestImport_CustomerRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := e.addProduct(t, "Gạo", 0, 20000, 0)
	c := e.addPartner(t, "Chị Lan", partner.TypeCustomer, 0)

	_, err := e.imports.Create(ctx, import_receipt.CreateInput{
		SupplierID:     c.ID,
		Lines:          []import_receipt.LineInput{{ProductID: p.ID, Quantity: 3}},
		IdempotencyKey: "I21",
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Equal(t, int64(0), e.stock(t, p.ID))
	assert.Empty(t, e.debtRecords(t))
}
