package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// Issues a token shaped like the identity provider's and provisions the
// matching user, so a fresh database can be exercised with curl.
func main() {
	// Parse command line flags
	uid := flag.Uint("uid", 1, "User ID carried in the uid claim")
	role := flag.String("role", "admin", "User role (admin or user)")
	username := flag.String("username", "", "Username claim (defaults to user<uid>)")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.InitDatabase(database.NewDatabaseConfig(conf))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	identity := services.Identity{UserID: *uid, Username: *username, Role: *role}
	user, err := services.NewUserService(db).EnsureUser(context.Background(), identity)
	if err != nil {
		log.Fatal("Failed to provision user:", err)
	}

	claims := jwt.MapClaims{
		"uid":      strconv.FormatUint(uint64(user.ID), 10),
		"role":     *role,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(*ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(conf.JWTSecret))
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}

	fmt.Printf("✓ Development token issued for %s (ID: %d, Role: %s)\n", user.Username, user.ID, *role)
	fmt.Println(token)
	fmt.Println("\nUse it for testing:")
	fmt.Printf("curl http://localhost:%d/api/users/me/ \\\n", conf.Port)
	fmt.Printf("  -H 'Authorization: Bearer %s'\n", token)
}
