package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Repository manages persistence for stock items and their mutation trail.
// Mutations are append-only: there is deliberately no update or delete.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, stock *models.Stock) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	Save(ctx context.Context, stock *models.Stock) error
	List(ctx context.Context) ([]models.Stock, error)
	AppendMutation(ctx context.Context, mutation *models.StockMutation) error
	ListMutations(ctx context.Context, stockID uuid.UUID, mutationType *enums.StockMutationType) ([]models.StockMutation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, stock *models.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	return r.find(ctx, id, false)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	return r.find(ctx, id, true)
}

func (r *repository) find(ctx context.Context, id uuid.UUID, lock bool) (*models.Stock, error) {
	q := r.db.WithContext(ctx)
	if lock && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var stock models.Stock
	if err := q.First(&stock, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock not found")
		}
		return nil, err
	}
	return &stock, nil
}

func (r *repository) Save(ctx context.Context, stock *models.Stock) error {
	return r.db.WithContext(ctx).Model(&models.Stock{}).
		Where("id = ?", stock.ID).
		Updates(map[string]any{
			"qty":      stock.Qty,
			"avg_cost": stock.AvgCost,
		}).Error
}

func (r *repository) List(ctx context.Context) ([]models.Stock, error) {
	var stocks []models.Stock
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *repository) AppendMutation(ctx context.Context, mutation *models.StockMutation) error {
	return r.db.WithContext(ctx).Create(mutation).Error
}

func (r *repository) ListMutations(ctx context.Context, stockID uuid.UUID, mutationType *enums.StockMutationType) ([]models.StockMutation, error) {
	q := r.db.WithContext(ctx).Where("stock_id = ?", stockID)
	if mutationType != nil {
		q = q.Where("type = ?", *mutationType)
	}

	var mutations []models.StockMutation
	if err := q.Order("created_at ASC").Find(&mutations).Error; err != nil {
		return nil, err
	}
	return mutations, nil
}
