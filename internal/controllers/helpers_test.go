package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testSecret = []byte("test-jwt-secret-key-32-characters")

// 1x1 transparent PNG
const testImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	store  *storage.MemoryStore

	alice, bob, admin models.User
	salt, sugar       models.Ingredient
	breakfast, lunch  models.Tag
}

func setupAPI(t *testing.T) *testAPI {
	gin.SetMode(gin.TestMode)

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	api := &testAPI{
		db:        db,
		store:     storage.NewMemoryStore(),
		alice:     models.User{ID: 1, Email: "alice@example.com", Username: "alice", Role: "user"},
		bob:       models.User{ID: 2, Email: "bob@example.com", Username: "bob", Role: "user"},
		admin:     models.User{ID: 3, Email: "root@example.com", Username: "root", Role: "admin"},
		salt:      models.Ingredient{Name: "Salt", MeasurementUnit: "g"},
		sugar:     models.Ingredient{Name: "Sugar", MeasurementUnit: "g"},
		breakfast: models.Tag{Name: "Breakfast", Color: models.TagColorOrange, Slug: "breakfast"},
		lunch:     models.Tag{Name: "Lunch", Color: models.TagColorGreen, Slug: "lunch"},
	}
	for _, row := range []interface{}{&api.alice, &api.bob, &api.admin, &api.salt, &api.sugar, &api.breakfast, &api.lunch} {
		require.NoError(t, db.Create(row).Error)
	}

	users := services.NewUserService(db)
	recipes := services.NewRecipeService(db, api.store)
	ledger := services.NewLedgerService(db)

	api.router = gin.New()
	RegisterRoutes(api.router, Router{
		Recipes:  NewRecipeController(recipes, ledger, services.NewShoppingListService(db), 6),
		Users:    NewUserController(users, ledger, recipes, 6),
		Catalog:  NewCatalogController(services.NewIngredientService(db), services.NewTagService(db)),
		Identity: middleware.OptionalAuth(testSecret, users),
	})
	return api
}

func (a *testAPI) token(t *testing.T, user models.User) string {
	claims := jwt.MapClaims{
		"uid":      strconv.FormatUint(uint64(user.ID), 10),
		"role":     user.Role,
		"email":    user.Email,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

// do sends body as JSON; user nil means an anonymous request
func (a *testAPI) do(t *testing.T, method, path string, user *models.User, body interface{}) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+a.token(t, *user))
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *testAPI) recipeBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Mix everything.",
		"cooking_time": 20,
		"tags":         []uint{a.breakfast.ID},
		"ingredients": []map[string]interface{}{
			{"id": a.salt.ID, "amount": 5},
			{"id": a.sugar.ID, "amount": "2"},
		},
		"image": testImage,
	}
}

func (a *testAPI) createRecipe(t *testing.T, author models.User, name string) models.RecipeRead {
	w := a.do(t, http.MethodPost, "/api/recipes/", &author, a.recipeBody(name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.RecipeRead](t, w)
}

func recipePath(id uint, suffix string) string {
	return "/api/recipes/" + strconv.FormatUint(uint64(id), 10) + "/" + suffix
}

func userPath(id uint, suffix string) string {
	return "/api/users/" + strconv.FormatUint(uint64(id), 10) + "/" + suffix
}
