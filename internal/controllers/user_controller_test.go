package controllers

import (
	"net/http"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMe(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodGet, "/api/users/me/", &api.alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.UserRead](t, w)
	assert.Equal(t, models.UserRead{Email: "alice@example.com", ID: 1, Username: "alice"}, me)

	w = api.do(t, http.MethodGet, "/api/users/me/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	api := setupAPI(t)
	for _, name := range []string{"Pancakes", "Waffles", "Omelette"} {
		api.createRecipe(t, api.alice, name)
	}

	w := api.do(t, http.MethodPost, userPath(api.alice.ID, "subscribe/?recipes_limit=2"), &api.bob, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode[models.SubscriptionRead](t, w)
	assert.Equal(t, "alice", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(3), sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, "Omelette", sub.Recipes[0].Name)

	w = api.do(t, http.MethodPost, userPath(api.alice.ID, "subscribe/"), &api.bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodGet, userPath(api.alice.ID, ""), &api.bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.UserRead](t, w).IsSubscribed)

	w = api.do(t, http.MethodGet, userPath(api.alice.ID, ""), nil, nil)
	assert.False(t, decode[models.UserRead](t, w).IsSubscribed)

	w = api.do(t, http.MethodGet, "/api/users/subscriptions/?recipes_limit=1", &api.bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.Page[models.SubscriptionRead]](t, w)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.Len(t, page.Results[0].Recipes, 1)

	w = api.do(t, http.MethodGet, "/api/recipes/", &api.bob, nil)
	recipes := decode[models.Page[models.RecipeRead]](t, w)
	require.NotEmpty(t, recipes.Results)
	assert.True(t, recipes.Results[0].Author.IsSubscribed)

	w = api.do(t, http.MethodDelete, userPath(api.alice.ID, "subscribe/"), &api.bob, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodDelete, userPath(api.alice.ID, "subscribe/"), &api.bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeRejections(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPost, userPath(api.bob.ID, "subscribe/"), &api.bob, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "author", decode[models.APIError](t, w).Details["field"])

	w = api.do(t, http.MethodPost, userPath(999, "subscribe/"), &api.bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, userPath(api.alice.ID, "subscribe/"), nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, "/api/users/subscriptions/?recipes_limit=-1", &api.bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodGet, "/api/users/?limit=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.Page[models.UserRead]](t, w)
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "alice", page.Results[0].Username)
	assert.NotNil(t, page.Next)
}
