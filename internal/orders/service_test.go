package orders

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

func seedContact(t *testing.T, db *gorm.DB) *models.Contact {
	t.Helper()
	contact := &models.Contact{ID: uuid.New(), Name: "Bu Sari"}
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

func TestCreateFullyPaidOrder(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)

	order, err := svc.Create(ctx, CreateOrderInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(150_000),
		Items: []OrderItemInput{
			{Name: "Beras 5kg", Qty: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(75_000)},
		},
	})
	require.NoError(t, err)
	require.True(t, order.GrandTotal.Equal(decimal.NewFromInt(150_000)))
	require.Equal(t, enums.SettlementStatusPaid, order.Status)
	require.NotEmpty(t, order.InvoiceNumber)

	// money arrived as an income transaction owned by the order
	var account2 models.Account
	require.NoError(t, db.First(&account2, "id = ?", account.ID).Error)
	require.True(t, account2.Balance.Equal(decimal.NewFromInt(150_000)))

	var txn models.Transaction
	require.NoError(t, db.First(&txn, "order_id = ?", order.ID).Error)
	require.Equal(t, enums.TransactionTypeIncome, txn.Type)
	require.True(t, txn.Amount.Equal(decimal.NewFromInt(150_000)))

	// fully paid orders spawn no debt
	var count int64
	require.NoError(t, db.Model(&models.Debt{}).Where("order_id = ?", order.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreatePartiallyPaidOrderSpawnsReceivable(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)
	contact := seedContact(t, db)

	order, err := svc.Create(ctx, CreateOrderInput{
		ContactID:  &contact.ID,
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(100_000),
		Items: []OrderItemInput{
			{Name: "Beras 5kg", Qty: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(75_000)},
			{Name: "Minyak 2L", Qty: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(38_000)},
		},
	})
	require.NoError(t, err)
	require.True(t, order.GrandTotal.Equal(decimal.NewFromInt(264_000)))
	require.Equal(t, enums.SettlementStatusPartial, order.Status)

	var debt models.Debt
	require.NoError(t, db.First(&debt, "order_id = ?", order.ID).Error)
	require.Equal(t, enums.DebtTypeReceivable, debt.Type)
	require.Equal(t, contact.ID, debt.ContactID)
	require.True(t, debt.Amount.Equal(decimal.NewFromInt(164_000)))
	require.True(t, debt.Remaining.Equal(decimal.NewFromInt(164_000)))
	require.Equal(t, enums.SettlementStatusUnpaid, debt.Status)
}

func TestCreateUnpaidOrder(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)
	contact := seedContact(t, db)

	order, err := svc.Create(ctx, CreateOrderInput{
		ContactID: &contact.ID,
		AccountID: account.ID,
		Items: []OrderItemInput{
			{Name: "Gula 1kg", Qty: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(18_000)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, enums.SettlementStatusUnpaid, order.Status)

	// no money moved, no transaction posted
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	require.Zero(t, count)

	var debt models.Debt
	require.NoError(t, db.First(&debt, "order_id = ?", order.ID).Error)
	require.True(t, debt.Amount.Equal(decimal.NewFromInt(180_000)))
}

func TestCreateValidations(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)

	// no items
	_, err := svc.Create(ctx, CreateOrderInput{AccountID: account.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// overpaying the total
	_, err = svc.Create(ctx, CreateOrderInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(999_999),
		Items: []OrderItemInput{
			{Name: "Gula 1kg", Qty: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(18_000)},
		},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// outstanding remainder with nobody to owe it
	_, err = svc.Create(ctx, CreateOrderInput{
		AccountID: account.ID,
		Items: []OrderItemInput{
			{Name: "Gula 1kg", Qty: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(18_000)},
		},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// non-positive qty
	_, err = svc.Create(ctx, CreateOrderInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(18_000),
		Items: []OrderItemInput{
			{Name: "Gula 1kg", Qty: decimal.Zero, UnitPrice: decimal.NewFromInt(18_000)},
		},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestConfirmRecordsOutMovements(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)
	item := seedStock(t, db, 20, 15_000)

	order, err := svc.Create(ctx, CreateOrderInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(375_000),
		Items: []OrderItemInput{
			{StockID: &item.ID, Name: item.Name, Qty: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(75_000)},
		},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, ConfirmInput{OrderID: order.ID})
	require.NoError(t, err)

	var got models.Stock
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.True(t, got.Qty.Equal(decimal.NewFromInt(15)))
	require.True(t, got.AvgCost.Equal(decimal.NewFromInt(15_000)), "selling must not move avg cost")

	var mutation models.StockMutation
	require.NoError(t, db.First(&mutation, "order_id = ?", order.ID).Error)
	require.Equal(t, enums.StockMutationTypeOut, mutation.Type)
	require.True(t, mutation.CurrentQty.Equal(decimal.NewFromInt(15)))

	// second confirmation is refused
	_, err = svc.Confirm(ctx, ConfirmInput{OrderID: order.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestConfirmInsufficientStockRollsBack(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)
	plenty := seedStock(t, db, 100, 1000)
	scarce := seedStock(t, db, 1, 1000)

	order, err := svc.Create(ctx, CreateOrderInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(22_000),
		Items: []OrderItemInput{
			{StockID: &plenty.ID, Name: "plenty", Qty: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(2_000)},
			{StockID: &scarce.ID, Name: "scarce", Qty: decimal.NewFromInt(9), UnitPrice: decimal.NewFromInt(2_000)},
		},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, ConfirmInput{OrderID: order.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))

	// the first line's movement must not survive the rollback
	var got models.Stock
	require.NoError(t, db.First(&got, "id = ?", plenty.ID).Error)
	require.True(t, got.Qty.Equal(decimal.NewFromInt(100)))

	var count int64
	require.NoError(t, db.Model(&models.StockMutation{}).Count(&count).Error)
	require.Zero(t, count)

	// with the override the sale goes through into negative stock
	_, err = svc.Confirm(ctx, ConfirmInput{OrderID: order.ID, AllowNegative: true})
	require.NoError(t, err)
	var drained models.Stock
	require.NoError(t, db.First(&drained, "id = ?", scarce.ID).Error)
	require.True(t, drained.Qty.Equal(decimal.NewFromInt(-8)))
}

func TestListByStatus(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	account := seedAccount(t, db, 0)
	contact := seedContact(t, db)

	_, err := svc.Create(ctx, CreateOrderInput{
		AccountID:  account.ID,
		AmountPaid: decimal.NewFromInt(18_000),
		Items:      []OrderItemInput{{Name: "Gula 1kg", Qty: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(18_000)}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateOrderInput{
		ContactID: &contact.ID,
		AccountID: account.ID,
		Items:     []OrderItemInput{{Name: "Gula 1kg", Qty: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(18_000)}},
	})
	require.NoError(t, err)

	paid := enums.SettlementStatusPaid
	settled, err := svc.List(ctx, ListFilter{Status: &paid})
	require.NoError(t, err)
	require.Len(t, settled, 1)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Len(t, all[0].Items, 1)
}
