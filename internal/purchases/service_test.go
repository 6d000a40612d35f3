package purchases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/internal/accounts"
	"github.com/kasbookhq/kasbook-backend/internal/debts"
	"github.com/kasbookhq/kasbook-backend/internal/testdb"
	"github.com/kasbookhq/kasbook-backend/internal/transactions"
	pkgdb "github.com/kasbookhq/kasbook-backend/pkg/db"
	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

func newService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	svc, err := NewService(
		pkgdb.FromGorm(db),
		NewRepository(db),
		transactions.NewRepository(db),
		accounts.NewRepository(db),
		debts.NewRepository(db),
		nil,
	)
	require.NoError(t, err)
	return svc, db
}

func seedAccount(t *testing.T, db *gorm.DB, balance int64) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:      uuid.New(),
		Name:    "Kas Toko",
		Balance: decimal.NewFromInt(balance),
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedSupplier(t *testing.T, db *gorm.DB) *models.Contact {
	t.Helper()
	contact := &models.Contact{ID: uuid.New(), Name: "PT Sumber Pangan"}
	require.NoError(t, db.Create(contact).Error)
	return contact
}

func seedStock(t *testing.T, db *gorm.DB, qty, avgCost int64) *models.Stock {
	t.Helper()
	item := &models.Stock{
		ID:           uuid.New(),
		Name:         "Beras 5kg",
		Unit:         "sak",
		Qty:          decimal.NewFromInt(qty),
		AvgCost:      decimal.NewFromInt(avgCost),
		SellingPrice: decimal.NewFromInt(75_000),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestCreatePartiallyPaidPurchaseSpawnsPayable(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 1_000_000)
	supplier := seedSupplier(t, db)

	purchase, err := svc.Create(ctx, CreatePurchaseInput{
		ContactID:  &supplier.ID,
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(300_000),
		Items: []PurchaseItemInput{
			{Name: "Beras 5kg", Qty: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(60_000)},
		},
	})
	require.NoError(t, err)
	require.True(t, purchase.GrandTotal.Equal(decimal.NewFromInt(600_000)))
	require.Equal(t, enums.SettlementStatusPartial, purchase.Status)

	// money left as an expense transaction owned by the purchase
	var account2 models.Account
	require.NoError(t, db.First(&account2, "id = ?", account.ID).Error)
	require.True(t, account2.Balance.Equal(decimal.NewFromInt(700_000)))

	var txn models.Transaction
	require.NoError(t, db.First(&txn, "purchase_id = ?", purchase.ID).Error)
	require.Equal(t, enums.TransactionTypeExpense, txn.Type)

	var debt models.Debt
	require.NoError(t, db.First(&debt, "purchase_id = ?", purchase.ID).Error)
	require.Equal(t, enums.DebtTypePayable, debt.Type)
	require.True(t, debt.Remaining.Equal(decimal.NewFromInt(300_000)))
}

func TestCreateFullyPaidPurchase(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 500_000)

	purchase, err := svc.Create(ctx, CreatePurchaseInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(120_000),
		Items: []PurchaseItemInput{
			{Name: "Minyak 2L", Qty: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(30_000)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, enums.SettlementStatusPaid, purchase.Status)

	var count int64
	require.NoError(t, db.Model(&models.Debt{}).Where("purchase_id = ?", purchase.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateValidations(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)

	_, err := svc.Create(ctx, CreatePurchaseInput{AccountID: account.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// outstanding remainder with no supplier
	_, err = svc.Create(ctx, CreatePurchaseInput{
		AccountID: account.ID,
		Items: []PurchaseItemInput{
			{Name: "Minyak 2L", Qty: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(30_000)},
		},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreatePurchaseInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(999_999),
		Items: []PurchaseItemInput{
			{Name: "Minyak 2L", Qty: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(30_000)},
		},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestConfirmRecordsInMovementsAndRecostsStock(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 1_000_000)
	item := seedStock(t, db, 10, 1000)

	purchase, err := svc.Create(ctx, CreatePurchaseInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(20_000),
		Items: []PurchaseItemInput{
			{StockID: &item.ID, Name: item.Name, Qty: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(2000)},
		},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, ConfirmInput{PurchaseID: purchase.ID})
	require.NoError(t, err)

	var got models.Stock
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.True(t, got.Qty.Equal(decimal.NewFromInt(20)))
	require.True(t, got.AvgCost.Equal(decimal.NewFromInt(1500)), "avg %s", got.AvgCost)

	var mutation models.StockMutation
	require.NoError(t, db.First(&mutation, "purchase_id = ?", purchase.ID).Error)
	require.Equal(t, enums.StockMutationTypeIn, mutation.Type)
	require.True(t, mutation.CurrentAvgCost.Equal(decimal.NewFromInt(1500)))

	_, err = svc.Confirm(ctx, ConfirmInput{PurchaseID: purchase.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestOrderLinkIsPersisted(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)
	orderID := uuid.New()

	purchase, err := svc.Create(ctx, CreatePurchaseInput{
		AccountID:  account.ID,
		OrderID:    &orderID,
		AmountPaid: decimal.NewFromInt(30_000),
		Items: []PurchaseItemInput{
			{Name: "Minyak 2L", Qty: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(30_000)},
		},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, purchase.ID)
	require.NoError(t, err)
	require.NotNil(t, got.OrderID)
	require.Equal(t, orderID, *got.OrderID)
}
