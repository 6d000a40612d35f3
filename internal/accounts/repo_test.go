package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kasbookhq/kasbook-backend/internal/testdb"
	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

func TestApplyDelta(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	account := &models.Account{
		ID:      uuid.New(),
		Name:    "Kas Utama",
		Balance: decimal.NewFromInt(1_000_000),
	}
	require.NoError(t, repo.Create(ctx, account))

	updated, err := repo.ApplyDelta(ctx, account.ID, decimal.NewFromInt(250_000))
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.NewFromInt(1_250_000)), "got %s", updated.Balance)

	updated, err = repo.ApplyDelta(ctx, account.ID, decimal.NewFromInt(-250_000))
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.NewFromInt(1_000_000)), "got %s", updated.Balance)

	reloaded, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, reloaded.Balance.Equal(decimal.NewFromInt(1_000_000)), "got %s", reloaded.Balance)
}

func TestApplyDeltaAllowsOverdraft(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	account := &models.Account{ID: uuid.New(), Name: "Petty Cash", Balance: decimal.NewFromInt(100)}
	require.NoError(t, repo.Create(ctx, account))

	updated, err := repo.ApplyDelta(ctx, account.ID, decimal.NewFromInt(-500))
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.NewFromInt(-400)), "got %s", updated.Balance)
}

func TestApplyDeltaMissingAccount(t *testing.T) {
	db := testdb.Open(t)
	repo := NewRepository(db)

	_, err := repo.ApplyDelta(context.Background(), uuid.New(), decimal.NewFromInt(1))
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
