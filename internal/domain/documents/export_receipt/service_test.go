package export_receipt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/numerator"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/storage/memory"
)

type recordingObserver struct {
	documents.NopObserver
	rejected []string
}

func (o *recordingObserver) MovementRejected(_ documents.Kind, reason string) {
	o.rejected = append(o.rejected, reason)
}

func TestCreate_CodeFailureRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	p := product.NewProduct("Sữa tươi", "hộp")
	p.CurrentStock = 5
	p.ExportPrice = types.NewMoney(30000)
	p.GiftPoints = 1
	require.NoError(t, store.Products().Create(ctx, p))

	c := partner.NewPartner("Chị Lan", partner.TypeCustomer)
	require.NoError(t, store.Partners().Create(ctx, c))

	observer := &recordingObserver{}
	svc := export_receipt.NewService(export_receipt.Deps{
		Repo:      store.Exports(),
		Products:  store.Products(),
		Partners:  store.Partners(),
		Debts:     store.Debts(),
		TxManager: store,
		Observer:  observer,
		Numerator: &numerator.MockGenerator{
			NextFunc: func(context.Context, numerator.Movement, time.Time) (string, error) {
				return "", errors.New("counter unavailable")
			},
		},
	})

	_, err := svc.Create(ctx, export_receipt.CreateInput{
		CustomerID:     c.ID,
		Lines:          []export_receipt.LineInput{{ProductID: p.ID, Quantity: 2}},
		IdempotencyKey: "k-1",
	})
	require.Error(t, err)
	assert.Equal(t, []string{"internal"}, observer.rejected)

	gotProduct, err := store.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), gotProduct.CurrentStock)

	gotCustomer, err := store.Partners().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, gotCustomer.CurrentDebt.IsZero())
	assert.Zero(t, gotCustomer.SavedPoints)
}

func TestPreviewCode_UsesGenerator(t *testing.T) {
	store := memory.NewStore()
	svc := export_receipt.NewService(export_receipt.Deps{
		Repo:      store.Exports(),
		Products:  store.Products(),
		Partners:  store.Partners(),
		Debts:     store.Debts(),
		TxManager: store,
		Numerator: &numerator.MockGenerator{},
		Clock:     func() time.Time { return time.Date(2025, 11, 29, 3, 0, 0, 0, time.UTC) },
	})

	code, err := svc.PreviewCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "XK-251129-001", code)
}

func TestPoints_ViewFromSnapshot(t *testing.T) {
	r := &export_receipt.Receipt{
		PartnerPointsSnapshot: 7,
		Lines: []export_receipt.Line{
			{Quantity: 3, GiftPoints: 2},
			{Quantity: 1, GiftPoints: -1},
		},
	}

	assert.Equal(t, export_receipt.PointsView{Before: 2, Added: 5, After: 7}, r.Points())
}
