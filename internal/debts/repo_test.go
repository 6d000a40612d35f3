package debts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kasbookhq/kasbook-backend/internal/testdb"
	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	"github.com/kasbookhq/kasbook-backend/pkg/types"
)

func TestSyncLinkedStatusForOrder(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{
		ID:              uuid.New(),
		InvoiceNumber:   "INV-001",
		TransactionDate: time.Now(),
		GrandTotal:      decimal.NewFromInt(500_000),
		Status:          enums.SettlementStatusPartial,
	}
	require.NoError(t, db.Create(order).Error)

	debt, err := New(uuid.New(), types.OrderRef(order.ID), enums.DebtTypeReceivable, decimal.NewFromInt(300_000), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, debt))

	// pay the debt off entirely; the order must flip to paid
	require.NoError(t, ApplyPayment(debt, decimal.NewFromInt(300_000)))
	require.NoError(t, repo.Save(ctx, debt))
	require.NoError(t, repo.SyncLinkedStatus(ctx, debt))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	require.Equal(t, enums.SettlementStatusPaid, reloaded.Status)
}

func TestSyncLinkedStatusForPurchasePartial(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	purchase := &models.Purchase{
		ID:              uuid.New(),
		TransactionDate: time.Now(),
		GrandTotal:      decimal.NewFromInt(800_000),
		Status:          enums.SettlementStatusUnpaid,
	}
	require.NoError(t, db.Create(purchase).Error)

	debt, err := New(uuid.New(), types.PurchaseRef(purchase.ID), enums.DebtTypePayable, decimal.NewFromInt(800_000), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, debt))

	require.NoError(t, ApplyPayment(debt, decimal.NewFromInt(200_000)))
	require.NoError(t, repo.Save(ctx, debt))
	require.NoError(t, repo.SyncLinkedStatus(ctx, debt))

	var reloaded models.Purchase
	require.NoError(t, db.First(&reloaded, "id = ?", purchase.ID).Error)
	require.Equal(t, enums.SettlementStatusPartial, reloaded.Status)
}

func TestListFilters(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	contactA := uuid.New()
	contactB := uuid.New()

	for _, spec := range []struct {
		contact uuid.UUID
		dtype   enums.DebtType
		amount  int64
	}{
		{contactA, enums.DebtTypeReceivable, 100},
		{contactA, enums.DebtTypePayable, 200},
		{contactB, enums.DebtTypeReceivable, 300},
	} {
		debt, err := New(spec.contact, types.OrderRef(uuid.New()), spec.dtype, decimal.NewFromInt(spec.amount), nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, debt))
	}

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	byContact, err := repo.List(ctx, ListFilter{ContactID: &contactA})
	require.NoError(t, err)
	require.Len(t, byContact, 2)

	receivable := enums.DebtTypeReceivable
	byType, err := repo.List(ctx, ListFilter{Type: &receivable})
	require.NoError(t, err)
	require.Len(t, byType, 2)

	unpaid := enums.SettlementStatusUnpaid
	byBoth, err := repo.List(ctx, ListFilter{ContactID: &contactB, Status: &unpaid})
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	require.True(t, byBoth[0].Amount.Equal(decimal.NewFromInt(300)))
}
