package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipe(t *testing.T) {
	api := setupAPI(t)

	created := api.createRecipe(t, api.alice, "Pancakes")
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, 20, created.CookingTime)
	require.NotNil(t, created.Author)
	assert.Equal(t, "alice", created.Author.Username)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "breakfast", created.Tags[0].Slug)
	require.Len(t, created.Ingredients, 2)
	assert.Equal(t, models.RecipeIngredientRead{ID: api.salt.ID, Name: "Salt", MeasurementUnit: "g", Amount: 5}, created.Ingredients[0])
	assert.True(t, strings.HasPrefix(created.Image, "/media/recipes/images/"), created.Image)
	assert.False(t, created.IsFavorited)
	assert.Equal(t, 1, api.store.Len())

	w := api.do(t, http.MethodGet, recipePath(created.ID, ""), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[models.RecipeRead](t, w))
}

func TestCreateRecipeRejections(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPost, "/api/recipes/", nil, api.recipeBody("Pancakes"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	noTags := api.recipeBody("Pancakes")
	noTags["tags"] = []uint{}
	w = api.do(t, http.MethodPost, "/api/recipes/", &api.alice, noTags)
	require.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decode[models.APIError](t, w)
	assert.Equal(t, models.ErrValidationFailed, apiErr.Code)
	assert.Equal(t, "tags", apiErr.Details["field"])

	api.createRecipe(t, api.alice, "Pancakes")
	w = api.do(t, http.MethodPost, "/api/recipes/", &api.alice, api.recipeBody("Pancakes"))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "name", decode[models.APIError](t, w).Details["field"])

	w = api.do(t, http.MethodPost, "/api/recipes/", &api.alice, "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRecipeNotFound(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodGet, "/api/recipes/999/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/recipes/abc/", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRecipeOwnership(t *testing.T) {
	api := setupAPI(t)
	created := api.createRecipe(t, api.alice, "Pancakes")

	body := api.recipeBody("Better pancakes")
	body["tags"] = []uint{api.lunch.ID}
	body["image"] = ""

	w := api.do(t, http.MethodPatch, recipePath(created.ID, ""), &api.bob, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPatch, recipePath(created.ID, ""), nil, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPatch, recipePath(created.ID, ""), &api.alice, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.RecipeRead](t, w)
	assert.Equal(t, "Better pancakes", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "lunch", updated.Tags[0].Slug)
	assert.Equal(t, created.Image, updated.Image)
}

func TestDeleteRecipe(t *testing.T) {
	api := setupAPI(t)
	created := api.createRecipe(t, api.alice, "Pancakes")

	w := api.do(t, http.MethodDelete, recipePath(created.ID, ""), &api.bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodDelete, recipePath(created.ID, ""), &api.alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, api.store.Len())

	w = api.do(t, http.MethodGet, recipePath(created.ID, ""), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteLifecycle(t *testing.T) {
	api := setupAPI(t)
	created := api.createRecipe(t, api.alice, "Pancakes")

	w := api.do(t, http.MethodPost, recipePath(created.ID, "favorite/"), nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, recipePath(created.ID, "favorite/"), &api.bob, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	short := decode[models.RecipeShort](t, w)
	assert.Equal(t, models.RecipeShort{ID: created.ID, Name: "Pancakes", Image: created.Image, CookingTime: 20}, short)

	w = api.do(t, http.MethodPost, recipePath(created.ID, "favorite/"), &api.bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodGet, recipePath(created.ID, ""), &api.bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	read := decode[models.RecipeRead](t, w)
	assert.True(t, read.IsFavorited)
	assert.False(t, read.IsInShoppingCart)

	w = api.do(t, http.MethodGet, recipePath(created.ID, ""), nil, nil)
	assert.False(t, decode[models.RecipeRead](t, w).IsFavorited)

	w = api.do(t, http.MethodDelete, recipePath(created.ID, "favorite/"), &api.bob, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodDelete, recipePath(created.ID, "favorite/"), &api.bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, recipePath(999, "favorite/"), &api.bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	api := setupAPI(t)
	first := api.createRecipe(t, api.alice, "Pancakes")
	second := api.createRecipe(t, api.alice, "Waffles")

	for _, id := range []uint{first.ID, second.ID} {
		w := api.do(t, http.MethodPost, recipePath(id, "shopping_cart/"), &api.bob, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", &api.bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=shoplist.txt", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1. Salt - 10 g \n2. Sugar - 4 g \n", w.Body.String())

	w = api.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", &api.alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListRecipesPaginationAndFilters(t *testing.T) {
	api := setupAPI(t)
	for _, name := range []string{"Pancakes", "Waffles", "Omelette"} {
		api.createRecipe(t, api.alice, name)
	}
	bobs := api.createRecipe(t, api.bob, "Toast")

	w := api.do(t, http.MethodGet, "/api/recipes/?limit=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[models.Page[models.RecipeRead]](t, w)
	assert.Equal(t, int64(4), first.Count)
	require.Len(t, first.Results, 2)
	assert.Equal(t, "Toast", first.Results[0].Name, "newest first")
	require.NotNil(t, first.Next)
	assert.Equal(t, "http://example.com/api/recipes/?limit=2&page=2", *first.Next)
	assert.Nil(t, first.Previous)

	w = api.do(t, http.MethodGet, "/api/recipes/?limit=2&page=2", nil, nil)
	second := decode[models.Page[models.RecipeRead]](t, w)
	require.Len(t, second.Results, 2)
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.Equal(t, "http://example.com/api/recipes/?limit=2", *second.Previous)

	w = api.do(t, http.MethodGet, "/api/recipes/?author=2", nil, nil)
	byAuthor := decode[models.Page[models.RecipeRead]](t, w)
	assert.Equal(t, int64(1), byAuthor.Count)

	w = api.do(t, http.MethodPost, recipePath(bobs.ID, "favorite/"), &api.alice, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodGet, "/api/recipes/?is_favorited=1", &api.alice, nil)
	favorited := decode[models.Page[models.RecipeRead]](t, w)
	require.Len(t, favorited.Results, 1)
	assert.Equal(t, bobs.ID, favorited.Results[0].ID)
	assert.True(t, favorited.Results[0].IsFavorited)

	// anonymous callers get the flag ignored
	w = api.do(t, http.MethodGet, "/api/recipes/?is_favorited=1", nil, nil)
	assert.Equal(t, int64(4), decode[models.Page[models.RecipeRead]](t, w).Count)

	w = api.do(t, http.MethodGet, "/api/recipes/?tags=lunch&tags=dinner", nil, nil)
	assert.Zero(t, decode[models.Page[models.RecipeRead]](t, w).Count)

	w = api.do(t, http.MethodGet, "/api/recipes/?page=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusForKind(t *testing.T) {
	testCases := []struct {
		kind string
		want int
	}{
		{models.ErrValidationFailed, http.StatusBadRequest},
		{models.ErrConflict, http.StatusConflict},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrUnauthorized, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrInternalServer, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range testCases {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForKind(tt.kind))
		})
	}
}
