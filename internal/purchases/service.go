// Package purchases settles supplier documents. Creating a purchase computes
// its grand total from the line items, posts the paid portion as an expense
// transaction, and spawns a payable debt for whatever remains, all in one
// unit of work. Confirming a purchase records the inbound stock movements,
// which is where the weighted-average cost gets updated.
package purchases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/internal/accounts"
	"github.com/kasbookhq/kasbook-backend/internal/debts"
	"github.com/kasbookhq/kasbook-backend/internal/settlement"
	"github.com/kasbookhq/kasbook-backend/internal/stock"
	"github.com/kasbookhq/kasbook-backend/internal/transactions"
	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
	"github.com/kasbookhq/kasbook-backend/pkg/metrics"
	"github.com/kasbookhq/kasbook-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service creates and confirms purchases.
type Service interface {
	Create(ctx context.Context, input CreatePurchaseInput) (*models.Purchase, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	List(ctx context.Context, filter ListFilter) ([]models.Purchase, error)
	Confirm(ctx context.Context, input ConfirmInput) (*models.Purchase, error)
}

// PurchaseItemInput is one supplier line. StockID marks the line as
// stock-tracked; its unit cost feeds the weighted average on confirmation.
type PurchaseItemInput struct {
	StockID  *uuid.UUID      `json:"stock_id"`
	Name     string          `json:"name" validate:"required"`
	Qty      decimal.Decimal `json:"qty" validate:"required"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseInput carries the fields for creating a purchase. AmountPaid
// is what was handed to the supplier up front; the rest becomes a payable
// debt on the contact. OrderID optionally ties the purchase to the sales
// order it restocks, for cost tracing.
type CreatePurchaseInput struct {
	ContactID       *uuid.UUID          `json:"contact_id"`
	AccountID       uuid.UUID           `json:"account_id" validate:"required"`
	OrderID         *uuid.UUID          `json:"order_id"`
	ReferenceNumber string              `json:"reference_number"`
	TransactionDate time.Time           `json:"transaction_date"`
	AmountPaid      decimal.Decimal     `json:"amount_paid"`
	DueDate         *time.Time          `json:"due_date"`
	Items           []PurchaseItemInput `json:"items" validate:"required,min=1"`
}

// ConfirmInput records the stock movements for a purchase's tracked lines.
type ConfirmInput struct {
	PurchaseID uuid.UUID `json:"purchase_id" validate:"required"`
}

type service struct {
	tx           txRunner
	repo         Repository
	transactions transactions.Repository
	accounts     accounts.Repository
	debts        debts.Repository
	metrics      *metrics.LedgerMetrics
}

// NewService wires the purchase settlement service.
func NewService(tx txRunner, repo Repository, txnRepo transactions.Repository, accountRepo accounts.Repository, debtRepo debts.Repository, m *metrics.LedgerMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if txnRepo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if accountRepo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	if debtRepo == nil {
		return nil, fmt.Errorf("debt repository required")
	}
	return &service{
		tx:           tx,
		repo:         repo,
		transactions: txnRepo,
		accounts:     accountRepo,
		debts:        debtRepo,
		metrics:      m,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreatePurchaseInput) (*models.Purchase, error) {
	if input.AccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase requires at least one item")
	}
	if input.AmountPaid.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid must not be negative")
	}

	purchaseID := uuid.New()
	items := make([]models.PurchaseItem, 0, len(input.Items))
	grandTotal := decimal.Zero
	for _, line := range input.Items {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		if !line.Qty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item qty must be positive")
		}
		if line.UnitCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item unit cost must not be negative")
		}
		lineTotal := line.Qty.Mul(line.UnitCost)
		items = append(items, models.PurchaseItem{
			ID:         uuid.New(),
			PurchaseID: purchaseID,
			StockID:    line.StockID,
			Name:       name,
			Qty:        line.Qty,
			UnitCost:   line.UnitCost,
			LineTotal:  lineTotal,
		})
		grandTotal = grandTotal.Add(lineTotal)
	}

	if input.AmountPaid.GreaterThan(grandTotal) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid exceeds purchase total").
			WithDetails(map[string]string{
				"grand_total": grandTotal.String(),
				"amount_paid": input.AmountPaid.String(),
			})
	}
	outstanding := grandTotal.Sub(input.AmountPaid)
	if outstanding.IsPositive() && input.ContactID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partially paid purchase requires a contact for the payable")
	}

	date := input.TransactionDate
	if date.IsZero() {
		date = time.Now().UTC()
	}

	purchase := &models.Purchase{
		ID:              purchaseID,
		ContactID:       input.ContactID,
		OrderID:         input.OrderID,
		ReferenceNumber: strings.TrimSpace(input.ReferenceNumber),
		TransactionDate: date,
		GrandTotal:      grandTotal,
		Status:          settlement.FromPayments(input.AmountPaid, grandTotal),
		Items:           items,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, purchase); err != nil {
			return err
		}
		if input.AmountPaid.IsPositive() {
			txn := &models.Transaction{
				ID:              uuid.New(),
				AccountID:       input.AccountID,
				Type:            enums.TransactionTypeExpense,
				Amount:          input.AmountPaid,
				Note:            "payment to supplier",
				TransactionDate: date,
			}
			txn.SetRef(types.PurchaseRef(purchaseID))
			if err := s.transactions.WithTx(tx).Create(ctx, txn); err != nil {
				return err
			}
			if _, err := s.accounts.WithTx(tx).ApplyDelta(ctx, input.AccountID, input.AmountPaid.Neg()); err != nil {
				return err
			}
		}
		if outstanding.IsPositive() {
			debt, err := debts.New(*input.ContactID, types.PurchaseRef(purchaseID), enums.DebtTypePayable, outstanding, input.DueDate)
			if err != nil {
				return err
			}
			if err := s.debts.WithTx(tx).Create(ctx, debt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.AmountPaid.IsPositive() {
		s.metrics.IncTransactionPosted(string(enums.TransactionTypeExpense))
	}
	return purchase, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Purchase, error) {
	return s.repo.List(ctx, filter)
}

// Confirm records an IN movement for every stock-tracked line at the line's
// unit cost. Confirming twice is rejected; the mutation trail referencing the
// purchase is the marker.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*models.Purchase, error) {
	if input.PurchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}

	var confirmed *models.Purchase
	var movements int
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		purchase, err := repo.FindByID(ctx, input.PurchaseID)
		if err != nil {
			return err
		}
		recorded, err := repo.CountMutations(ctx, purchase.ID)
		if err != nil {
			return err
		}
		if recorded > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "purchase stock already confirmed")
		}

		for _, item := range purchase.Items {
			if item.StockID == nil {
				continue
			}
			_, err := stock.Apply(ctx, tx, stock.MovementInput{
				StockID:  *item.StockID,
				Type:     enums.StockMutationTypeIn,
				Qty:      item.Qty,
				UnitCost: item.UnitCost,
				Ref:      types.PurchaseRef(purchase.ID),
			})
			if err != nil {
				return err
			}
			movements++
		}

		confirmed = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < movements; i++ {
		s.metrics.IncStockMovement(string(enums.StockMutationTypeIn))
	}
	return confirmed, nil
}
