package contacts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kasbookhq/kasbook-backend/internal/testdb"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
)

func newService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(testdb.Open(t)))
	require.NoError(t, err)
	return svc
}

func TestContactLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	contact, err := svc.CreateContact(ctx, ContactInput{
		Name:  "  Bu Sari ",
		Phone: "0812-3456-7890",
	})
	require.NoError(t, err)
	require.Equal(t, "Bu Sari", contact.Name)

	updated, err := svc.UpdateContact(ctx, contact.ID, ContactInput{
		Name:    "Bu Sari",
		Address: "Jl. Melati 12",
	})
	require.NoError(t, err)
	require.Equal(t, "Jl. Melati 12", updated.Address)

	got, err := svc.GetContact(ctx, contact.ID)
	require.NoError(t, err)
	require.Equal(t, "Jl. Melati 12", got.Address)

	all, err := svc.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestContactValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateContact(ctx, ContactInput{Name: "  "})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.UpdateContact(ctx, uuid.New(), ContactInput{Name: "x"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCategories(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Penjualan", Type: "income"})
	require.NoError(t, err)
	require.Equal(t, enums.TransactionTypeIncome, category.Type)

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Lainnya", Type: "transfer"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	all, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
