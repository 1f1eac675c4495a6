package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingListAggregate(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	recipes := NewRecipeService(db, storage.NewMemoryStore())
	ledger := NewLedgerService(db)
	shopping := NewShoppingListService(db)
	ctx := context.Background()

	in := validInput(f)
	in.Name = "First"
	in.Ingredients = []models.IngredientAmountInput{line(f.salt.ID, "5"), line(f.sugar.ID, "3")}
	r1, err := recipes.CreateRecipe(ctx, f.alice.ID, in)
	require.NoError(t, err)

	in = validInput(f)
	in.Name = "Second"
	in.Ingredients = []models.IngredientAmountInput{line(f.salt.ID, "2")}
	r2, err := recipes.CreateRecipe(ctx, f.alice.ID, in)
	require.NoError(t, err)

	// not in the cart, must not count
	in = validInput(f)
	in.Name = "Third"
	in.Ingredients = []models.IngredientAmountInput{line(f.sugar.ID, "100")}
	_, err = recipes.CreateRecipe(ctx, f.alice.ID, in)
	require.NoError(t, err)

	_, err = ledger.Add(ctx, models.LedgerCart, f.bob.ID, r1.ID)
	require.NoError(t, err)
	_, err = ledger.Add(ctx, models.LedgerCart, f.bob.ID, r2.ID)
	require.NoError(t, err)

	items, err := shopping.Aggregate(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingListItem{
		{Name: "Salt", MeasurementUnit: "g", TotalAmount: 7},
		{Name: "Sugar", MeasurementUnit: "g", TotalAmount: 3},
	}, items)

	assert.Equal(t, "1. Salt - 7 g \n2. Sugar - 3 g \n", shopping.Render(items))
}

func TestShoppingListGroupsByNameAndUnit(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	recipes := NewRecipeService(db, storage.NewMemoryStore())
	ledger := NewLedgerService(db)
	shopping := NewShoppingListService(db)
	ctx := context.Background()

	// a second catalog row with the same name and unit collapses into one group
	saltAgain := models.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&saltAgain).Error)
	saltPinch := models.Ingredient{Name: "Salt", MeasurementUnit: "pinch"}
	require.NoError(t, db.Create(&saltPinch).Error)

	in := validInput(f)
	in.Ingredients = []models.IngredientAmountInput{
		line(f.salt.ID, "1"),
		line(saltAgain.ID, "1"),
		line(saltPinch.ID, "2"),
		line(f.flour.ID, "2"),
	}
	r, err := recipes.CreateRecipe(ctx, f.alice.ID, in)
	require.NoError(t, err)
	_, err = ledger.Add(ctx, models.LedgerCart, f.alice.ID, r.ID)
	require.NoError(t, err)

	items, err := shopping.Aggregate(ctx, f.alice.ID)
	require.NoError(t, err)

	// equal totals are ordered by name, then unit
	assert.Equal(t, []ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "kg", TotalAmount: 2},
		{Name: "Salt", MeasurementUnit: "g", TotalAmount: 2},
		{Name: "Salt", MeasurementUnit: "pinch", TotalAmount: 2},
	}, items)
}

func TestShoppingListEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	shopping := NewShoppingListService(db)

	items, err := shopping.Aggregate(context.Background(), f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "", shopping.Render(items))
}
