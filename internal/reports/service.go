// Package reports builds read-only summaries from the ledger. Reports never
// mutate; they fold over rows the engines already keep consistent. Amounts
// are aggregated in Go so decimal values stay exact on every backend.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Service exposes the reporting queries.
type Service interface {
	DailyCashflow(ctx context.Context, from, to time.Time) ([]CashflowDay, error)
	ProfitLoss(ctx context.Context, from, to time.Time) (*ProfitLossReport, error)
	DebtSummary(ctx context.Context) ([]ContactDebtSummary, error)
}

// CashflowDay is one day's money in and out.
type CashflowDay struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// ProfitLossReport summarizes a period. CostOfGoods is taken from the
// outbound stock mutations in the period, valued at the average cost each
// movement snapshotted.
type ProfitLossReport struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expense     decimal.Decimal `json:"expense"`
	CostOfGoods decimal.Decimal `json:"cost_of_goods"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	NetCashflow decimal.Decimal `json:"net_cashflow"`
}

// ContactDebtSummary is the open position against one contact.
type ContactDebtSummary struct {
	ContactID       uuid.UUID       `json:"contact_id"`
	ContactName     string          `json:"contact_name"`
	OpenReceivable  decimal.Decimal `json:"open_receivable"`
	OpenPayable     decimal.Decimal `json:"open_payable"`
	OpenDebtCount   int             `json:"open_debt_count"`
	EarliestDueDate *time.Time      `json:"earliest_due_date,omitempty"`
}

type service struct {
	db *gorm.DB
}

// NewService wires the reporting service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database required")
	}
	return &service{db: db}, nil
}

const dayFormat = "2006-01-02"

func (s *service) DailyCashflow(ctx context.Context, from, to time.Time) ([]CashflowDay, error) {
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report period is empty")
	}

	txns, err := s.transactionsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*CashflowDay)
	for _, txn := range txns {
		day := txn.TransactionDate.UTC().Format(dayFormat)
		entry, ok := byDay[day]
		if !ok {
			entry = &CashflowDay{Date: day, Income: decimal.Zero, Expense: decimal.Zero}
			byDay[day] = entry
		}
		switch txn.Type {
		case enums.TransactionTypeIncome:
			entry.Income = entry.Income.Add(txn.Amount)
		case enums.TransactionTypeExpense:
			entry.Expense = entry.Expense.Add(txn.Amount)
		}
	}

	days := make([]CashflowDay, 0, len(byDay))
	for _, entry := range byDay {
		entry.Net = entry.Income.Sub(entry.Expense)
		days = append(days, *entry)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

func (s *service) ProfitLoss(ctx context.Context, from, to time.Time) (*ProfitLossReport, error) {
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report period is empty")
	}

	txns, err := s.transactionsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &ProfitLossReport{
		From:        from.UTC().Format(dayFormat),
		To:          to.UTC().Format(dayFormat),
		Revenue:     decimal.Zero,
		Expense:     decimal.Zero,
		CostOfGoods: decimal.Zero,
	}
	for _, txn := range txns {
		switch txn.Type {
		case enums.TransactionTypeIncome:
			report.Revenue = report.Revenue.Add(txn.Amount)
		case enums.TransactionTypeExpense:
			report.Expense = report.Expense.Add(txn.Amount)
		}
	}

	var mutations []models.StockMutation
	err = s.db.WithContext(ctx).
		Where("type = ? AND created_at >= ? AND created_at < ?", enums.StockMutationTypeOut, from, to).
		Find(&mutations).Error
	if err != nil {
		return nil, err
	}
	for _, m := range mutations {
		report.CostOfGoods = report.CostOfGoods.Add(m.Qty.Mul(m.CurrentAvgCost))
	}

	report.GrossProfit = report.Revenue.Sub(report.CostOfGoods)
	report.NetCashflow = report.Revenue.Sub(report.Expense)
	return report, nil
}

func (s *service) DebtSummary(ctx context.Context) ([]ContactDebtSummary, error) {
	var debts []models.Debt
	err := s.db.WithContext(ctx).
		Where("status <> ?", enums.SettlementStatusPaid).
		Find(&debts).Error
	if err != nil {
		return nil, err
	}
	if len(debts) == 0 {
		return []ContactDebtSummary{}, nil
	}

	byContact := make(map[uuid.UUID]*ContactDebtSummary)
	for _, debt := range debts {
		entry, ok := byContact[debt.ContactID]
		if !ok {
			entry = &ContactDebtSummary{
				ContactID:      debt.ContactID,
				OpenReceivable: decimal.Zero,
				OpenPayable:    decimal.Zero,
			}
			byContact[debt.ContactID] = entry
		}
		switch debt.Type {
		case enums.DebtTypeReceivable:
			entry.OpenReceivable = entry.OpenReceivable.Add(debt.Remaining)
		case enums.DebtTypePayable:
			entry.OpenPayable = entry.OpenPayable.Add(debt.Remaining)
		}
		entry.OpenDebtCount++
		if debt.DueDate != nil {
			if entry.EarliestDueDate == nil || debt.DueDate.Before(*entry.EarliestDueDate) {
				due := *debt.DueDate
				entry.EarliestDueDate = &due
			}
		}
	}

	ids := make([]uuid.UUID, 0, len(byContact))
	for id := range byContact {
		ids = append(ids, id)
	}
	var contacts []models.Contact
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&contacts).Error; err != nil {
		return nil, err
	}
	for _, contact := range contacts {
		if entry, ok := byContact[contact.ID]; ok {
			entry.ContactName = contact.Name
		}
	}

	summaries := make([]ContactDebtSummary, 0, len(byContact))
	for _, entry := range byContact {
		summaries = append(summaries, *entry)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ContactName < summaries[j].ContactName })
	return summaries, nil
}

func (s *service) transactionsBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
