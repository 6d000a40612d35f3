package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kasbookhq/kasbook-backend/internal/testdb"
	pkgdb "github.com/kasbookhq/kasbook-backend/pkg/db"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	db := testdb.Open(t)
	svc, err := NewService(pkgdb.FromGorm(db), NewRepository(db), nil)
	require.NoError(t, err)
	return svc
}

func TestServiceCreateValidates(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateStockInput{Name: " ", Unit: "pcs"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), CreateStockInput{Name: "Gula", Unit: ""})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), CreateStockInput{
		Name:         "Gula",
		Unit:         "kg",
		SellingPrice: decimal.NewFromInt(-1),
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceCreateAndAdjust(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, CreateStockInput{
		Name:         "Gula Pasir",
		Unit:         "kg",
		SellingPrice: decimal.NewFromInt(18_000),
	})
	require.NoError(t, err)
	require.True(t, item.Qty.IsZero())

	mutation, err := svc.Adjust(ctx, AdjustInput{
		StockID: item.ID,
		Qty:     decimal.NewFromInt(25),
		Note:    "opening count",
	})
	require.NoError(t, err)
	require.True(t, mutation.CurrentQty.Equal(decimal.NewFromInt(25)))

	got, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, got.Qty.Equal(decimal.NewFromInt(25)))

	trail, err := svc.ListMutations(ctx, item.ID, nil)
	require.NoError(t, err)
	require.Len(t, trail, 1)

	adjustment := enums.StockMutationTypeAdjustment
	filtered, err := svc.ListMutations(ctx, item.ID, &adjustment)
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	in := enums.StockMutationTypeIn
	filtered, err = svc.ListMutations(ctx, item.ID, &in)
	require.NoError(t, err)
	require.Empty(t, filtered)
}

func TestServiceAdjustMissingStock(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Adjust(context.Background(), AdjustInput{
		StockID: uuid.New(),
		Qty:     decimal.NewFromInt(5),
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
