package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret-key-32-characters")

func signToken(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"uid":      "12",
		"role":     "user",
		"email":    "dave@example.com",
		"username": "dave",
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
}

func setupRouter(t *testing.T) (*gin.Engine, services.UserService) {
	gin.SetMode(gin.TestMode)

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	users := services.NewUserService(db)

	whoami := func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "authenticated": ok})
	}

	router := gin.New()
	optional := router.Group("/optional", OptionalAuth(testSecret, users))
	optional.GET("", whoami)
	optional.POST("", RequireUser(), whoami)

	required := router.Group("/required", RequireAuth(testSecret, users))
	required.GET("", whoami)
	required.GET("/admin", RequireRole("admin"), whoami)

	return router, users
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOptionalAuthAnonymous(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/optional", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])

	w = doRequest(router, http.MethodPost, "/optional", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthProvisionsUser(t *testing.T) {
	router, users := setupRouter(t)
	token := signToken(t, validClaims(), testSecret)

	w := doRequest(router, http.MethodGet, "/optional", token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, float64(12), body["id"])

	user, err := users.GetUserByID(t.Context(), 12)
	require.NoError(t, err)
	assert.Equal(t, "dave", user.Username)
}

func TestRequireAuthRejects(t *testing.T) {
	router, _ := setupRouter(t)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noUID := validClaims()
	delete(noUID, "uid")

	badRole := validClaims()
	badRole["role"] = "superuser"

	testCases := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"wrong secret", signToken(t, validClaims(), []byte("another-secret"))},
		{"expired", signToken(t, expired, testSecret)},
		{"missing uid", signToken(t, noUID, testSecret)},
		{"unknown role", signToken(t, badRole, testSecret)},
		{"garbage", "not-a-jwt"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/required", tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var apiErr models.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Equal(t, models.ErrUnauthorized, apiErr.Code)
		})
	}
}

func TestInvalidTokenRejectedOnOptionalRoutes(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/optional", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/required/admin", signToken(t, validClaims(), testSecret))
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := validClaims()
	admin["role"] = "admin"
	w = doRequest(router, http.MethodGet, "/required/admin", signToken(t, admin, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractUserID(t *testing.T) {
	testCases := []struct {
		name    string
		claims  jwt.MapClaims
		want    uint
		wantErr bool
	}{
		{"numeric string", jwt.MapClaims{"uid": "42"}, 42, false},
		{"json number", jwt.MapClaims{"uid": float64(7)}, 7, false},
		{"negative number", jwt.MapClaims{"uid": float64(-1)}, 0, true},
		{"non numeric", jwt.MapClaims{"uid": "abc"}, 0, true},
		{"missing", jwt.MapClaims{}, 0, true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractUserID(tt.claims)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
