package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"catalog-service/internal/database"
	"catalog-service/internal/errs"
	"catalog-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewConnection(ctx, &config.DatabaseConfig{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "catalog.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(ctx, db, "sqlite"))
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &database.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &database.User{Username: "alice", PasswordHash: "h1"}))
	err := repo.Create(ctx, &database.User{Username: "alice", PasswordHash: "h2"})
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	p := &database.Product{Name: "Lamp", Description: "Desk lamp", Price: 19.5}
	require.NoError(t, repo.Create(ctx, p))
	assert.Len(t, p.ID, 36)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
	assert.Equal(t, 19.5, got.Price)

	price := 25.0
	updated, err := repo.Update(ctx, p.ID, database.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Price)
	assert.Equal(t, "Lamp", updated.Name, "unset fields are kept")
	assert.Equal(t, "Desk lamp", updated.Description)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProductRepository_MissingID(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))
	name := "x"

	_, err := repo.Update(ctx, "missing", database.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), errs.ErrNotFound)
}

func TestProductRepository_EmptyPatchKeepsRow(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	p := &database.Product{Name: "Lamp", Description: "Desk lamp", Price: 19.5}
	require.NoError(t, repo.Create(ctx, p))
	before, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	got, err := repo.Update(ctx, p.ID, database.ProductPatch{})
	require.NoError(t, err)
	assert.Equal(t, before, got)

	_, err = repo.Update(ctx, "missing", database.ProductPatch{})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestProductRepository_ListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &database.Product{Name: name, Description: "d", Price: 1}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "third", list[2].Name)
}
