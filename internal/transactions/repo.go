package transactions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
	"github.com/kasbookhq/kasbook-backend/pkg/pagination"
)

// Repository manages persistence for transactions. Deletion is always soft:
// the row keeps its history and can be restored, but a deleted transaction
// no longer contributes to any balance.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindDeletedByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	Save(ctx context.Context, txn *models.Transaction) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]models.Transaction, error)
}

// ListFilter narrows transaction listings. Cursor/Limit page the result by
// (created_at, id) descending; a zero Limit returns everything.
type ListFilter struct {
	AccountID *uuid.UUID
	Type      *enums.TransactionType
	DebtID    *uuid.UUID
	From      *time.Time
	To        *time.Time
	Cursor    *pagination.Cursor
	Limit     int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a transaction repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return r.find(ctx, id, false)
}

// FindByIDForUpdate loads the transaction with its row locked for the rest of
// the enclosing transaction.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return r.find(ctx, id, true)
}

func (r *repository) find(ctx context.Context, id uuid.UUID, lock bool) (*models.Transaction, error) {
	q := r.db.WithContext(ctx)
	if lock && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var txn models.Transaction
	if err := q.First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, err
	}
	return &txn, nil
}

// FindDeletedByID loads a soft-deleted transaction, for restore.
func (r *repository) FindDeletedByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deleted transaction not found")
		}
		return nil, err
	}
	return &txn, nil
}

func (r *repository) Save(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", txn.ID).
		Updates(map[string]any{
			"type":             txn.Type,
			"amount":           txn.Amount,
			"note":             txn.Note,
			"category_id":      txn.CategoryID,
			"transaction_date": txn.TransactionDate,
		}).Error
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id).Error
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx)
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.DebtID != nil {
		q = q.Where("debt_id = ?", *filter.DebtID)
	}
	if filter.From != nil {
		q = q.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("transaction_date < ?", *filter.To)
	}
	if filter.Cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", filter.Cursor.CreatedAt, filter.Cursor.ID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var txns []models.Transaction
	if err := q.Order("created_at DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
