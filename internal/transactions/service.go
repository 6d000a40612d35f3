// Package transactions is the reconciliation engine for money movements.
// Every create, edit, delete, and restore runs in one unit of work that
// keeps the account balance and any linked debt consistent with the
// surviving transaction rows. Balance propagation happens here, explicitly,
// never as a persistence side effect.
package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/internal/accounts"
	"github.com/kasbookhq/kasbook-backend/internal/debts"
	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
	"github.com/kasbookhq/kasbook-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service posts and reconciles transactions.
type Service interface {
	Create(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]models.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTransactionInput) (*models.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// CreateTransactionInput carries the fields for posting a new transaction.
// DebtID marks the transaction as a payment against that debt; the debt's
// remaining balance is reduced in the same unit of work.
type CreateTransactionInput struct {
	AccountID       uuid.UUID             `json:"account_id" validate:"required"`
	Type            enums.TransactionType `json:"type" validate:"required"`
	Amount          decimal.Decimal       `json:"amount" validate:"required"`
	Note            string                `json:"note"`
	CategoryID      *uuid.UUID            `json:"category_id"`
	DebtID          *uuid.UUID            `json:"debt_id"`
	TransactionDate time.Time             `json:"transaction_date"`
}

// UpdateTransactionInput edits a posted transaction. Nil fields are left
// unchanged. Account and debt links are immutable; delete and repost to move
// a transaction.
type UpdateTransactionInput struct {
	Type            *enums.TransactionType `json:"type"`
	Amount          *decimal.Decimal       `json:"amount"`
	Note            *string                `json:"note"`
	CategoryID      *uuid.UUID             `json:"category_id"`
	TransactionDate *time.Time             `json:"transaction_date"`
}

type service struct {
	tx       txRunner
	repo     Repository
	accounts accounts.Repository
	debts    debts.Repository
	metrics  *metrics.LedgerMetrics
}

// NewService wires the transaction engine.
func NewService(tx txRunner, repo Repository, accountRepo accounts.Repository, debtRepo debts.Repository, m *metrics.LedgerMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if accountRepo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	if debtRepo == nil {
		return nil, fmt.Errorf("debt repository required")
	}
	return &service{tx: tx, repo: repo, accounts: accountRepo, debts: debtRepo, metrics: m}, nil
}

func (s *service) Create(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error) {
	if input.AccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	date := input.TransactionDate
	if date.IsZero() {
		date = time.Now().UTC()
	}

	txn := &models.Transaction{
		ID:              uuid.New(),
		AccountID:       input.AccountID,
		Type:            input.Type,
		Amount:          input.Amount,
		Note:            input.Note,
		CategoryID:      input.CategoryID,
		DebtID:          input.DebtID,
		TransactionDate: date,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		accountRepo := s.accounts.WithTx(tx)

		if err := repo.Create(ctx, txn); err != nil {
			return err
		}
		if _, err := accountRepo.ApplyDelta(ctx, txn.AccountID, signedAmount(txn)); err != nil {
			return err
		}
		if txn.DebtID != nil {
			if err := s.payDebt(ctx, tx, *txn.DebtID, txn.Amount, txn.Type); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransactionPosted(string(txn.Type))
	if txn.DebtID != nil {
		s.metrics.IncDebtPayment()
	}
	return txn, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Transaction, error) {
	return s.repo.List(ctx, filter)
}

// Update reconciles an edit by reversing the old transaction's effect and
// applying the new one. This covers amount edits and income/expense flips
// with a single rule, and keeps any linked debt in step. A flip is refused
// on debt-linked transactions since it would invert the payment direction.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTransactionInput) (*models.Transaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	if input.Type != nil && !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	var updated *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		accountRepo := s.accounts.WithTx(tx)

		txn, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if input.Type != nil && txn.DebtID != nil && *input.Type != txn.Type {
			return pkgerrors.New(pkgerrors.CodeValidation, "cannot change the type of a debt-linked transaction")
		}

		oldDelta := signedAmount(txn)
		oldAmount := txn.Amount

		if input.Type != nil {
			txn.Type = *input.Type
		}
		if input.Amount != nil {
			txn.Amount = *input.Amount
		}
		if input.Note != nil {
			txn.Note = *input.Note
		}
		if input.CategoryID != nil {
			txn.CategoryID = input.CategoryID
		}
		if input.TransactionDate != nil {
			txn.TransactionDate = *input.TransactionDate
		}

		if _, err := accountRepo.ApplyDelta(ctx, txn.AccountID, signedAmount(txn).Sub(oldDelta)); err != nil {
			return err
		}
		if txn.DebtID != nil && !txn.Amount.Equal(oldAmount) {
			if err := s.repayDebt(ctx, tx, *txn.DebtID, oldAmount, txn.Amount); err != nil {
				return err
			}
		}
		if err := repo.Save(ctx, txn); err != nil {
			return err
		}

		updated = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes the transaction and backs its effect out of the account
// balance and any linked debt. The row survives for audit and restore.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		accountRepo := s.accounts.WithTx(tx)

		txn, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if _, err := accountRepo.ApplyDelta(ctx, txn.AccountID, signedAmount(txn).Neg()); err != nil {
			return err
		}
		if txn.DebtID != nil {
			if err := s.unpayDebt(ctx, tx, *txn.DebtID, txn.Amount); err != nil {
				return err
			}
		}
		return repo.SoftDelete(ctx, txn.ID)
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransactionReversed()
	return nil
}

// Restore brings a soft-deleted transaction back and re-applies its effect.
// If a linked debt can no longer absorb the payment (it was settled by other
// means in the interim) the restore is rejected rather than overpaying.
func (s *service) Restore(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}

	var restored *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		accountRepo := s.accounts.WithTx(tx)

		txn, err := repo.FindDeletedByID(ctx, id)
		if err != nil {
			return err
		}

		if _, err := accountRepo.ApplyDelta(ctx, txn.AccountID, signedAmount(txn)); err != nil {
			return err
		}
		if txn.DebtID != nil {
			if err := s.payDebt(ctx, tx, *txn.DebtID, txn.Amount, txn.Type); err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "restore would overpay the linked debt")
				}
				return err
			}
		}
		if err := repo.Restore(ctx, txn.ID); err != nil {
			return err
		}
		txn.DeletedAt = gorm.DeletedAt{}

		restored = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// payDebt applies a payment against a locked debt and refreshes the linked
// document's settlement status. The transaction type must match the debt's
// direction so a payable is only paid down by an expense and a receivable
// only collected by an income.
func (s *service) payDebt(ctx context.Context, tx *gorm.DB, debtID uuid.UUID, amount decimal.Decimal, txnType enums.TransactionType) error {
	debtRepo := s.debts.WithTx(tx)

	debt, err := debtRepo.FindByIDForUpdate(ctx, debtID)
	if err != nil {
		return err
	}
	if want := debts.PaymentType(debt.Type); txnType != want {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction type does not match debt direction").
			WithDetails(map[string]string{
				"debt_type": string(debt.Type),
				"expected":  string(want),
				"got":       string(txnType),
			})
	}
	if err := debts.ApplyPayment(debt, amount); err != nil {
		return err
	}
	if err := debts.CheckInvariant(debt); err != nil {
		return err
	}
	if err := debtRepo.Save(ctx, debt); err != nil {
		return err
	}
	return debtRepo.SyncLinkedStatus(ctx, debt)
}

// unpayDebt backs a payment out of a locked debt.
func (s *service) unpayDebt(ctx context.Context, tx *gorm.DB, debtID uuid.UUID, amount decimal.Decimal) error {
	debtRepo := s.debts.WithTx(tx)

	debt, err := debtRepo.FindByIDForUpdate(ctx, debtID)
	if err != nil {
		return err
	}
	if err := debts.ReversePayment(debt, amount); err != nil {
		return err
	}
	if err := debts.CheckInvariant(debt); err != nil {
		return err
	}
	if err := debtRepo.Save(ctx, debt); err != nil {
		return err
	}
	return debtRepo.SyncLinkedStatus(ctx, debt)
}

// repayDebt swaps an old payment amount for a new one on a locked debt. The
// reversal and the new payment are validated as one step so an edit cannot
// drive the debt past either bound.
func (s *service) repayDebt(ctx context.Context, tx *gorm.DB, debtID uuid.UUID, oldAmount, newAmount decimal.Decimal) error {
	debtRepo := s.debts.WithTx(tx)

	debt, err := debtRepo.FindByIDForUpdate(ctx, debtID)
	if err != nil {
		return err
	}
	if err := debts.ReversePayment(debt, oldAmount); err != nil {
		return err
	}
	if err := debts.ApplyPayment(debt, newAmount); err != nil {
		return err
	}
	if err := debts.CheckInvariant(debt); err != nil {
		return err
	}
	if err := debtRepo.Save(ctx, debt); err != nil {
		return err
	}
	return debtRepo.SyncLinkedStatus(ctx, debt)
}

func signedAmount(txn *models.Transaction) decimal.Decimal {
	if txn.Type.Sign() < 0 {
		return txn.Amount.Neg()
	}
	return txn.Amount
}
