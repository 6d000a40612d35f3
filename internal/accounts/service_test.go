package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

type stubRepo struct {
	created *models.Account
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) Create(ctx context.Context, account *models.Account) error {
	s.created = account
	return nil
}
func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
}
func (s *stubRepo) List(ctx context.Context) ([]models.Account, error) { return nil, nil }
func (s *stubRepo) ApplyDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Account, error) {
	return nil, nil
}

func TestCreateRequiresName(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateAccountInput{Name: "   "})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateAssignsIDAndTrims(t *testing.T) {
	repo := &stubRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	account, err := svc.Create(context.Background(), CreateAccountInput{
		Name:           "  Bank BCA ",
		InitialBalance: decimal.NewFromInt(1_000_000),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, account.ID)
	require.Equal(t, "Bank BCA", account.Name)
	require.True(t, account.Balance.Equal(decimal.NewFromInt(1_000_000)))
	require.Same(t, account, repo.created)
}

func TestGetRequiresID(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.Nil)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
