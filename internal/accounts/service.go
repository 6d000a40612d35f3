package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Service exposes cash account master data. Balance mutation is not offered
// here; balances move only through the transaction engine.
type Service interface {
	Create(ctx context.Context, input CreateAccountInput) (*models.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
}

// CreateAccountInput carries the fields for opening a cash account.
type CreateAccountInput struct {
	Name           string          `json:"name" validate:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type service struct {
	repo Repository
}

// NewService wires an account service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateAccountInput) (*models.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account name required")
	}

	account := &models.Account{
		ID:      uuid.New(),
		Name:    name,
		Balance: input.InitialBalance,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.Account, error) {
	return s.repo.List(ctx)
}
