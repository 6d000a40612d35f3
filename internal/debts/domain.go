// Package debts tracks outstanding payable/receivable balances spawned by
// unpaid orders and purchases. The mutation rules live in pure functions so
// the payment math is testable without persistence; the repository applies
// them inside the caller's unit of work.
package debts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasbookhq/kasbook-backend/internal/settlement"
	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
	"github.com/kasbookhq/kasbook-backend/pkg/types"
)

// New builds a debt for the unpaid portion of an order or purchase.
// Remaining starts at the full amount; a zero-amount debt is immediately
// settled.
func New(contactID uuid.UUID, ref types.EntityRef, debtType enums.DebtType, amount decimal.Decimal, dueDate *time.Time) (*models.Debt, error) {
	if contactID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debt requires a contact")
	}
	if ref.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debt must be tied to an order or purchase")
	}
	if !debtType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid debt type")
	}
	if amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debt amount must not be negative")
	}

	debt := &models.Debt{
		ID:        uuid.New(),
		ContactID: contactID,
		Type:      debtType,
		Amount:    amount,
		Remaining: amount,
		DueDate:   dueDate,
		Status:    settlement.Derive(amount, amount),
	}
	debt.SetRef(ref)
	return debt, nil
}

// ApplyPayment reduces the remaining balance by the paid amount and rederives
// the status. Paying more than is outstanding is rejected; the caller must
// clamp or split before posting.
func ApplyPayment(debt *models.Debt, paid decimal.Decimal) error {
	if !paid.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if paid.GreaterThan(debt.Remaining) {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment exceeds remaining debt").
			WithDetails(map[string]string{
				"remaining": debt.Remaining.String(),
				"paid":      paid.String(),
			})
	}

	remaining := debt.Remaining.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	debt.Remaining = remaining
	debt.Status = settlement.Derive(debt.Remaining, debt.Amount)
	return nil
}

// ReversePayment restores a previously applied payment, clamping at the
// original amount. Used when a linked transaction is deleted or reduced.
func ReversePayment(debt *models.Debt, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "reversal amount must be positive")
	}

	remaining := debt.Remaining.Add(amount)
	if remaining.GreaterThan(debt.Amount) {
		remaining = debt.Amount
	}
	debt.Remaining = remaining
	debt.Status = settlement.Derive(debt.Remaining, debt.Amount)
	return nil
}

// PaymentType returns the transaction type that settles a debt of the given
// direction: an expense pays down a payable, an income collects a receivable.
func PaymentType(debtType enums.DebtType) enums.TransactionType {
	if debtType == enums.DebtTypePayable {
		return enums.TransactionTypeExpense
	}
	return enums.TransactionTypeIncome
}

// CheckInvariant verifies 0 <= remaining <= amount and that the cached status
// matches the derivation. A failure here means the ledger is corrupt.
func CheckInvariant(debt *models.Debt) error {
	if debt.Remaining.IsNegative() || debt.Remaining.GreaterThan(debt.Amount) {
		return pkgerrors.New(pkgerrors.CodeConsistency, "debt remaining outside [0, amount]").
			WithDetails(map[string]string{
				"amount":    debt.Amount.String(),
				"remaining": debt.Remaining.String(),
			})
	}
	if want := settlement.Derive(debt.Remaining, debt.Amount); debt.Status != want {
		return pkgerrors.New(pkgerrors.CodeConsistency, "debt status disagrees with remaining")
	}
	return nil
}
