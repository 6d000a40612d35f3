package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/internal/testdb"
	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func seedTxn(t *testing.T, db *gorm.DB, txnType enums.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		ID:              uuid.New(),
		AccountID:       uuid.New(),
		Type:            txnType,
		Amount:          decimal.NewFromInt(amount),
		TransactionDate: date,
	}
	require.NoError(t, db.Create(txn).Error)
	return txn
}

func TestDailyCashflow(t *testing.T) {
	db := testdb.Open(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	seedTxn(t, db, enums.TransactionTypeIncome, 500_000, day("2026-03-02"))
	seedTxn(t, db, enums.TransactionTypeExpense, 150_000, day("2026-03-02"))
	seedTxn(t, db, enums.TransactionTypeIncome, 200_000, day("2026-03-04"))
	// outside the window
	seedTxn(t, db, enums.TransactionTypeIncome, 999_999, day("2026-04-01"))

	days, err := svc.DailyCashflow(ctx, day("2026-03-01"), day("2026-04-01"))
	require.NoError(t, err)
	require.Len(t, days, 2)

	require.Equal(t, "2026-03-02", days[0].Date)
	require.True(t, days[0].Income.Equal(decimal.NewFromInt(500_000)))
	require.True(t, days[0].Expense.Equal(decimal.NewFromInt(150_000)))
	require.True(t, days[0].Net.Equal(decimal.NewFromInt(350_000)))

	require.Equal(t, "2026-03-04", days[1].Date)
	require.True(t, days[1].Net.Equal(decimal.NewFromInt(200_000)))
}

func TestDailyCashflowIgnoresDeletedTransactions(t *testing.T) {
	db := testdb.Open(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	txn := seedTxn(t, db, enums.TransactionTypeIncome, 500_000, day("2026-03-02"))
	require.NoError(t, db.Delete(txn).Error)

	days, err := svc.DailyCashflow(context.Background(), day("2026-03-01"), day("2026-04-01"))
	require.NoError(t, err)
	require.Empty(t, days)
}

func TestDailyCashflowEmptyPeriod(t *testing.T) {
	db := testdb.Open(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	_, err = svc.DailyCashflow(context.Background(), day("2026-03-10"), day("2026-03-01"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestProfitLoss(t *testing.T) {
	db := testdb.Open(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	seedTxn(t, db, enums.TransactionTypeIncome, 750_000, day("2026-03-02"))
	seedTxn(t, db, enums.TransactionTypeExpense, 100_000, day("2026-03-03"))

	// an outbound movement of 5 units valued at avg cost 60,000
	mutation := &models.StockMutation{
		ID:             uuid.New(),
		StockID:        uuid.New(),
		Type:           enums.StockMutationTypeOut,
		Qty:            decimal.NewFromInt(5),
		CurrentQty:     decimal.NewFromInt(15),
		CurrentAvgCost: decimal.NewFromInt(60_000),
		CreatedAt:      day("2026-03-02"),
	}
	require.NoError(t, db.Create(mutation).Error)

	report, err := svc.ProfitLoss(ctx, day("2026-03-01"), day("2026-04-01"))
	require.NoError(t, err)
	require.True(t, report.Revenue.Equal(decimal.NewFromInt(750_000)))
	require.True(t, report.Expense.Equal(decimal.NewFromInt(100_000)))
	require.True(t, report.CostOfGoods.Equal(decimal.NewFromInt(300_000)))
	require.True(t, report.GrossProfit.Equal(decimal.NewFromInt(450_000)))
	require.True(t, report.NetCashflow.Equal(decimal.NewFromInt(650_000)))
}

func TestDebtSummary(t *testing.T) {
	db := testdb.Open(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	sari := &models.Contact{ID: uuid.New(), Name: "Bu Sari"}
	supplier := &models.Contact{ID: uuid.New(), Name: "PT Sumber Pangan"}
	require.NoError(t, db.Create(sari).Error)
	require.NoError(t, db.Create(supplier).Error)

	orderID := uuid.New()
	purchaseID := uuid.New()
	due := day("2026-03-15")

	open := &models.Debt{
		ID: uuid.New(), ContactID: sari.ID, OrderID: &orderID,
		Type: enums.DebtTypeReceivable, Amount: decimal.NewFromInt(164_000),
		Remaining: decimal.NewFromInt(100_000), Status: enums.SettlementStatusPartial,
		DueDate: &due,
	}
	payable := &models.Debt{
		ID: uuid.New(), ContactID: supplier.ID, PurchaseID: &purchaseID,
		Type: enums.DebtTypePayable, Amount: decimal.NewFromInt(300_000),
		Remaining: decimal.NewFromInt(300_000), Status: enums.SettlementStatusUnpaid,
	}
	settledID := uuid.New()
	settled := &models.Debt{
		ID: uuid.New(), ContactID: sari.ID, OrderID: &settledID,
		Type: enums.DebtTypeReceivable, Amount: decimal.NewFromInt(50_000),
		Remaining: decimal.Zero, Status: enums.SettlementStatusPaid,
	}
	require.NoError(t, db.Create(open).Error)
	require.NoError(t, db.Create(payable).Error)
	require.NoError(t, db.Create(settled).Error)

	summaries, err := svc.DebtSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	require.Equal(t, "Bu Sari", summaries[0].ContactName)
	require.True(t, summaries[0].OpenReceivable.Equal(decimal.NewFromInt(100_000)))
	require.True(t, summaries[0].OpenPayable.IsZero())
	require.Equal(t, 1, summaries[0].OpenDebtCount)
	require.NotNil(t, summaries[0].EarliestDueDate)

	require.Equal(t, "PT Sumber Pangan", summaries[1].ContactName)
	require.True(t, summaries[1].OpenPayable.Equal(decimal.NewFromInt(300_000)))
}
