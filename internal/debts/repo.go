package debts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kasbookhq/kasbook-backend/internal/settlement"
	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Repository manages persistence for debts and keeps the linked order or
// purchase settlement status in step with the debt's remaining balance.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, debt *models.Debt) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Debt, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Debt, error)
	Save(ctx context.Context, debt *models.Debt) error
	List(ctx context.Context, filter ListFilter) ([]models.Debt, error)
	SyncLinkedStatus(ctx context.Context, debt *models.Debt) error
}

// ListFilter narrows debt listings.
type ListFilter struct {
	ContactID *uuid.UUID
	Type      *enums.DebtType
	Status    *enums.SettlementStatus
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a debt repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, debt *models.Debt) error {
	return r.db.WithContext(ctx).Create(debt).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Debt, error) {
	return r.find(ctx, id, false)
}

// FindByIDForUpdate loads the debt with its row locked for the rest of the
// enclosing transaction.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Debt, error) {
	return r.find(ctx, id, true)
}

func (r *repository) find(ctx context.Context, id uuid.UUID, lock bool) (*models.Debt, error) {
	q := r.db.WithContext(ctx)
	if lock && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var debt models.Debt
	if err := q.First(&debt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "debt not found")
		}
		return nil, err
	}
	return &debt, nil
}

func (r *repository) Save(ctx context.Context, debt *models.Debt) error {
	return r.db.WithContext(ctx).Model(&models.Debt{}).
		Where("id = ?", debt.ID).
		Updates(map[string]any{
			"remaining": debt.Remaining,
			"status":    debt.Status,
		}).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Debt, error) {
	q := r.db.WithContext(ctx)
	if filter.ContactID != nil {
		q = q.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var debts []models.Debt
	if err := q.Order("created_at ASC").Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

// SyncLinkedStatus refreshes the cached settlement status on the order or
// purchase the debt belongs to. The document's outstanding amount is the
// debt's remaining balance, measured against the document grand total.
func (r *repository) SyncLinkedStatus(ctx context.Context, debt *models.Debt) error {
	ref, err := debt.Ref()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConsistency, err, "debt link is ambiguous")
	}
	if ref.IsZero() {
		return pkgerrors.New(pkgerrors.CodeConsistency, "debt has no linked document")
	}

	switch ref.Kind() {
	case enums.EntityKindOrder:
		var order models.Order
		if err := r.db.WithContext(ctx).First(&order, "id = ?", ref.ID()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "linked order not found")
			}
			return err
		}
		status := settlement.Derive(debt.Remaining, order.GrandTotal)
		return r.db.WithContext(ctx).Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", status).Error

	case enums.EntityKindPurchase:
		var purchase models.Purchase
		if err := r.db.WithContext(ctx).First(&purchase, "id = ?", ref.ID()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "linked purchase not found")
			}
			return err
		}
		status := settlement.Derive(debt.Remaining, purchase.GrandTotal)
		return r.db.WithContext(ctx).Model(&models.Purchase{}).
			Where("id = ?", purchase.ID).
			Update("status", status).Error
	}
	return nil
}
