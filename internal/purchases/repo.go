package purchases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Repository manages persistence for purchases and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, purchase *models.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error)
	List(ctx context.Context, filter ListFilter) ([]models.Purchase, error)
	CountMutations(ctx context.Context, purchaseID uuid.UUID) (int64, error)
}

// ListFilter narrows purchase listings.
type ListFilter struct {
	ContactID *uuid.UUID
	Status    *enums.SettlementStatus
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a purchase repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create persists the purchase together with its items.
func (r *repository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).Preload("Items").First(&purchase, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Purchase, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if filter.ContactID != nil {
		q = q.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var purchases []models.Purchase
	if err := q.Order("transaction_date DESC, created_at DESC").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// CountMutations reports how many stock mutations already reference the
// purchase. Used to reject a second confirmation.
func (r *repository) CountMutations(ctx context.Context, purchaseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockMutation{}).
		Where("purchase_id = ?", purchaseID).
		Count(&count).Error
	return count, err
}
