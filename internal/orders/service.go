// Package orders settles sales documents. Creating an order computes its
// grand total from the line items, posts the paid portion as an income
// transaction, and spawns a receivable debt for whatever remains, all in one
// unit of work. Confirming an order records the outbound stock movements for
// its stock-tracked lines.
package orders

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

// Service creates and confirms sales orders.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
	Confirm(ctx context.Context, input ConfirmInput) (*models.Order, error)
}

// OrderItemInput is one sales line. StockID marks the line as stock-tracked.
type OrderItemInput struct {
	StockID   *uuid.UUID      `json:"stock_id"`
	Name      string          `json:"name" validate:"required"`
	Qty       decimal.Decimal `json:"qty" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderInput carries the fields for creating an order. AmountPaid is
// what the buyer hands over up front; the rest becomes a receivable debt on
// the contact.
type CreateOrderInput struct {
	ContactID       *uuid.UUID       `json:"contact_id"`
	AccountID       uuid.UUID        `json:"account_id" validate:"required"`
	InvoiceNumber   string           `json:"invoice_number"`
	TransactionDate time.Time        `json:"transaction_date"`
	AmountPaid      decimal.Decimal  `json:"amount_paid"`
	DueDate         *time.Time       `json:"due_date"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1"`
}

// ConfirmInput records the stock movements for an order's tracked lines.
type ConfirmInput struct {
	OrderID       uuid.UUID `json:"order_id" validate:"required"`
	AllowNegative bool      `json:"allow_negative"`
}

type service struct {
	tx           txRunner
	repo         Repository
	transactions transactions.Repository
	accounts     accounts.Repository
	debts        debts.Repository
	metrics      *metrics.LedgerMetrics
}

// NewService wires the order settlement service.
func NewService(tx txRunner, repo Repository, txnRepo transactions.Repository, accountRepo accounts.Repository, debtRepo debts.Repository, m *metrics.LedgerMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
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

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.AccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if input.AmountPaid.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid must not be negative")
	}

	orderID := uuid.New()
	items := make([]models.OrderItem, 0, len(input.Items))
	grandTotal := decimal.Zero
	for _, line := range input.Items {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		if !line.Qty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item qty must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item unit price must not be negative")
		}
		lineTotal := line.Qty.Mul(line.UnitPrice)
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			StockID:   line.StockID,
			Name:      name,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: lineTotal,
		})
		grandTotal = grandTotal.Add(lineTotal)
	}

	if input.AmountPaid.GreaterThan(grandTotal) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid exceeds order total").
			WithDetails(map[string]string{
				"grand_total": grandTotal.String(),
				"amount_paid": input.AmountPaid.String(),
			})
	}
	outstanding := grandTotal.Sub(input.AmountPaid)
	if outstanding.IsPositive() && input.ContactID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partially paid order requires a contact for the receivable")
	}

	date := input.TransactionDate
	if date.IsZero() {
		date = time.Now().UTC()
	}
	invoice := strings.TrimSpace(input.InvoiceNumber)
	if invoice == "" {
		invoice = generateInvoiceNumber(date)
	}

	order := &models.Order{
		ID:              orderID,
		ContactID:       input.ContactID,
		InvoiceNumber:   invoice,
		TransactionDate: date,
		GrandTotal:      grandTotal,
		Status:          settlement.FromPayments(input.AmountPaid, grandTotal),
		Items:           items,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		if input.AmountPaid.IsPositive() {
			txn := &models.Transaction{
				ID:              uuid.New(),
				AccountID:       input.AccountID,
				Type:            enums.TransactionTypeIncome,
				Amount:          input.AmountPaid,
				Note:            "payment for " + invoice,
				TransactionDate: date,
			}
			txn.SetRef(types.OrderRef(orderID))
			if err := s.transactions.WithTx(tx).Create(ctx, txn); err != nil {
				return err
			}
			if _, err := s.accounts.WithTx(tx).ApplyDelta(ctx, input.AccountID, input.AmountPaid); err != nil {
				return err
			}
		}
		if outstanding.IsPositive() {
			debt, err := debts.New(*input.ContactID, types.OrderRef(orderID), enums.DebtTypeReceivable, outstanding, input.DueDate)
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
		s.metrics.IncTransactionPosted(string(enums.TransactionTypeIncome))
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	return s.repo.List(ctx, filter)
}

// Confirm records an OUT movement for every stock-tracked line. Confirming
// twice is rejected; the mutation trail referencing the order is the marker.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var confirmed *models.Order
	var movements int
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		recorded, err := repo.CountMutations(ctx, order.ID)
		if err != nil {
			return err
		}
		if recorded > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order stock already confirmed")
		}

		for _, item := range order.Items {
			if item.StockID == nil {
				continue
			}
			_, err := stock.Apply(ctx, tx, stock.MovementInput{
				StockID:       *item.StockID,
				Type:          enums.StockMutationTypeOut,
				Qty:           item.Qty,
				Ref:           types.OrderRef(order.ID),
				AllowNegative: input.AllowNegative,
			})
			if err != nil {
				return err
			}
			movements++
		}

		confirmed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < movements; i++ {
		s.metrics.IncStockMovement(string(enums.StockMutationTypeOut))
	}
	return confirmed, nil
}

func generateInvoiceNumber(date time.Time) string {
	return fmt.Sprintf("INV-%s-%s", date.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}
