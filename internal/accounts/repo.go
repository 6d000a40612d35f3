package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Repository manages persistence for cash accounts. ApplyDelta is the only
// balance writer in the codebase; everything else reads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	ApplyDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Account, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an account repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// ApplyDelta adds a signed amount to the account balance. The row is locked
// for the rest of the enclosing transaction so concurrent postings cannot
// lose updates. Overdrafts are allowed; cash corrections can go negative.
func (r *repository) ApplyDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Account, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var account models.Account
	if err := q.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, err
	}

	account.Balance = account.Balance.Add(delta)
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("balance", account.Balance).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
