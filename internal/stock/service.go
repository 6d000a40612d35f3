package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
	"github.com/kasbookhq/kasbook-backend/pkg/metrics"
	"github.com/kasbookhq/kasbook-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the standalone surface for stock: master data plus manual
// adjustments. Order/purchase confirmation posts movements directly through
// Apply inside its own unit of work.
type Service interface {
	Create(ctx context.Context, input CreateStockInput) (*models.Stock, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	List(ctx context.Context) ([]models.Stock, error)
	Adjust(ctx context.Context, input AdjustInput) (*models.StockMutation, error)
	ListMutations(ctx context.Context, stockID uuid.UUID, mutationType *enums.StockMutationType) ([]models.StockMutation, error)
}

// CreateStockInput carries the fields for registering a stock-tracked item.
type CreateStockInput struct {
	Name         string          `json:"name" validate:"required"`
	Unit         string          `json:"unit" validate:"required"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// AdjustInput posts an absolute quantity correction.
type AdjustInput struct {
	StockID       uuid.UUID       `json:"stock_id" validate:"required"`
	Qty           decimal.Decimal `json:"qty"`
	Note          string          `json:"note"`
	AllowNegative bool            `json:"allow_negative"`
}

type service struct {
	tx      txRunner
	repo    Repository
	metrics *metrics.LedgerMetrics
}

// NewService wires a stock service.
func NewService(tx txRunner, repo Repository, m *metrics.LedgerMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	return &service{tx: tx, repo: repo, metrics: m}, nil
}

func (s *service) Create(ctx context.Context, input CreateStockInput) (*models.Stock, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock name required")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock unit required")
	}
	if input.SellingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling price must not be negative")
	}

	item := &models.Stock{
		ID:           uuid.New(),
		Name:         name,
		Unit:         unit,
		Qty:          decimal.Zero,
		AvgCost:      decimal.Zero,
		SellingPrice: input.SellingPrice,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.Stock, error) {
	return s.repo.List(ctx)
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (*models.StockMutation, error) {
	var mutation *models.StockMutation
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		mutation, err = Apply(ctx, tx, MovementInput{
			StockID:       input.StockID,
			Type:          enums.StockMutationTypeAdjustment,
			Qty:           input.Qty,
			Ref:           types.NoRef(),
			Note:          input.Note,
			AllowNegative: input.AllowNegative,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncStockMovement(string(enums.StockMutationTypeAdjustment))
	return mutation, nil
}

func (s *service) ListMutations(ctx context.Context, stockID uuid.UUID, mutationType *enums.StockMutationType) ([]models.StockMutation, error) {
	if stockID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock id required")
	}
	return s.repo.ListMutations(ctx, stockID, mutationType)
}
