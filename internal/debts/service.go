package debts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

// Service is the read surface for debts. Payments against a debt go through
// the transaction engine, never through this service.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Debt, error)
	List(ctx context.Context, filter ListFilter) ([]models.Debt, error)
}

type service struct {
	repo Repository
}

// NewService wires a debt service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("debt repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Debt, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debt id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Debt, error) {
	return s.repo.List(ctx, filter)
}
