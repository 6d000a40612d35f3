package contacts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Repository manages persistence for contacts and transaction categories.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateContact(ctx context.Context, contact *models.Contact) error
	FindContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	ListContacts(ctx context.Context) ([]models.Contact, error)
	UpdateContact(ctx context.Context, contact *models.Contact) error
	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a master-data repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateContact(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *repository) FindContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
		}
		return nil, err
	}
	return &contact, nil
}

func (r *repository) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *repository) UpdateContact(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Model(&models.Contact{}).
		Where("id = ?", contact.ID).
		Updates(map[string]any{
			"name":    contact.Name,
			"phone":   contact.Phone,
			"email":   contact.Email,
			"address": contact.Address,
		}).Error
}

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
