// Package contacts is master data: the people and suppliers debts hang off,
// and the categories transactions are labeled with. Field validation only;
// nothing here moves money.
package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Service manages contacts and categories.
type Service interface {
	CreateContact(ctx context.Context, input ContactInput) (*models.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	ListContacts(ctx context.Context) ([]models.Contact, error)
	UpdateContact(ctx context.Context, id uuid.UUID, input ContactInput) (*models.Contact, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// ContactInput carries contact fields.
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// CategoryInput carries category fields.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

type service struct {
	repo Repository
}

// NewService wires the master-data service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateContact(ctx context.Context, input ContactInput) (*models.Contact, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact name required")
	}

	contact := &models.Contact{
		ID:      uuid.New(),
		Name:    name,
		Phone:   strings.TrimSpace(input.Phone),
		Email:   strings.TrimSpace(input.Email),
		Address: strings.TrimSpace(input.Address),
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) GetContact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact id required")
	}
	return s.repo.FindContactByID(ctx, id)
}

func (s *service) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return s.repo.ListContacts(ctx)
}

func (s *service) UpdateContact(ctx context.Context, id uuid.UUID, input ContactInput) (*models.Contact, error) {
	contact, err := s.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact name required")
	}
	contact.Name = name
	contact.Phone = strings.TrimSpace(input.Phone)
	contact.Email = strings.TrimSpace(input.Email)
	contact.Address = strings.TrimSpace(input.Address)

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	categoryType, err := enums.ParseTransactionType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category type")
	}

	category := &models.Category{
		ID:   uuid.New(),
		Name: name,
		Type: categoryType,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}
