package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)
	ctx := context.Background()

	user, err := service.EnsureUser(ctx, Identity{UserID: 7, Email: "carol@example.com", Username: "carol", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "carol", user.Username)

	// second sight refreshes changed fields and keeps the row
	user, err = service.EnsureUser(ctx, Identity{UserID: 7, FirstName: "Carol", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)
	assert.Equal(t, "Carol", user.FirstName)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, int64(1), countRows(t, db, &models.User{}))
}

func TestEnsureUserDefaults(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	user, err := service.EnsureUser(context.Background(), Identity{UserID: 9})
	require.NoError(t, err)
	assert.Equal(t, "user9", user.Username)
	assert.Equal(t, "user9@users.foodgram.local", user.Email)
	assert.Equal(t, "user", user.Role)

	_, err = service.EnsureUser(context.Background(), Identity{})
	requireDomainError(t, err, models.ErrUnauthorized, "")
}

func TestEnsureUserTakenUsername(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	service := NewUserService(db)

	_, err := service.EnsureUser(context.Background(), Identity{UserID: 50, Username: f.alice.Username, Email: "other@example.com"})
	requireDomainError(t, err, models.ErrConflict, "username")
}

func TestListSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	recipes := NewRecipeService(db, storage.NewMemoryStore())
	ledger := NewLedgerService(db)
	users := NewUserService(db)
	ctx := context.Background()

	for _, name := range []string{"Soup", "Stew", "Salad"} {
		in := validInput(f)
		in.Name = name
		_, err := recipes.CreateRecipe(ctx, f.alice.ID, in)
		require.NoError(t, err)
	}
	_, err := ledger.Add(ctx, models.LedgerSubscription, f.bob.ID, f.alice.ID)
	require.NoError(t, err)

	authors, count, err := users.ListSubscriptions(ctx, f.bob.ID, NewPagination(1, 6, 6), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, authors, 1)
	assert.Equal(t, f.alice.ID, authors[0].Author.ID)
	assert.Equal(t, int64(3), authors[0].RecipesCount)
	require.Len(t, authors[0].Recipes, 2)
	assert.Equal(t, "Salad", authors[0].Recipes[0].Name, "newest recipes first")

	all, err := users.GetSubscribedAuthor(ctx, f.alice.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all.Recipes, 3)

	none, count, err := users.ListSubscriptions(ctx, f.alice.ID, NewPagination(1, 6, 6), 0)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, none)
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	users := NewUserService(db)

	page, count, err := users.ListUsers(context.Background(), NewPagination(2, 1, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, page, 1)
	assert.Equal(t, f.bob.ID, page[0].ID)
}
