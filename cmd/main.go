package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/franciscosanchezn/gin-foodgram-api/docs" // Register swagger docs
	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/controllers"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var configuration *config.Config

// @title Foodgram API
// @version 1.0
// @description Recipes, ingredients, favorites, subscriptions and shopping lists
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider's JWT.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	db := setupDatabase(configuration)

	// Recipe images live in S3 or on the local disk
	store, err := storage.NewBlobStore(context.Background(), configuration)
	checkPanicErr(err)

	router := setupRouter(db, store)

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
		gin.SetMode(gin.ReleaseMode)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf)
	return conf
}

// setupDatabase connects, migrates the schema and seeds the catalogs
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.NewDatabaseConfig(conf))
	checkPanicErr(err)

	checkPanicErr(database.Migrate(db))
	checkPanicErr(database.Seed(db, conf.SeedFile))
	return db
}

// setupRouter wires services and controllers into a gin router
func setupRouter(db *gorm.DB, store storage.BlobStore) *gin.Engine {
	router := gin.Default()
	router.Use(metrics.Middleware())

	users := services.NewUserService(db)
	recipes := services.NewRecipeService(db, store)
	ledger := services.NewLedgerService(db)

	controllers.RegisterRoutes(router, controllers.Router{
		Recipes:  controllers.NewRecipeController(recipes, ledger, services.NewShoppingListService(db), configuration.PageSize),
		Users:    controllers.NewUserController(users, ledger, recipes, configuration.PageSize),
		Catalog:  controllers.NewCatalogController(services.NewIngredientService(db), services.NewTagService(db)),
		Identity: middleware.OptionalAuth([]byte(configuration.JWTSecret), users),
	})

	// Serve uploaded images when they are stored on disk
	if local, ok := store.(*storage.LocalStore); ok {
		router.Static(local.PublicPath(), local.Dir())
	}

	router.GET("/health", healthCheckHandler)
	router.GET("/metrics", metrics.Handler())

	if configuration.Environment == "development" {
		router.GET("/test-token", generateTestTokenHandler)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}

// generateTestTokenHandler signs a token shaped like the identity provider's
// so the API can be exercised locally. Only mounted in development.
// @Summary Development token
// @Tags health
// @Produce json
// @Param uid query int false "User ID" default(1)
// @Param role query string false "Role" Enums(user, admin)
// @Success 200 {object} map[string]interface{}
// @Router /test-token [get]
func generateTestTokenHandler(c *gin.Context) {
	claims := jwt.MapClaims{
		"uid":  c.DefaultQuery("uid", "1"),
		"role": c.DefaultQuery("role", "user"),
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(configuration.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      tokenString,
		"type":       "Bearer",
		"expires_in": 86400, // 24 hours in seconds
	})
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-foodgram-api",
	})
}
