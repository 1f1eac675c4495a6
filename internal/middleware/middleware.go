package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// Context keys set by the identity middleware
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextUser     = "user"
)

// IdentityAuth validates bearer JWTs issued by the external identity provider
// and mirrors the caller into the users table.
// With required=false a request without Authorization header passes through
// as anonymous; a header that is present but invalid is always rejected.
func IdentityAuth(jwtSecret []byte, users services.UserService, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RFC 6750: Extract Bearer token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				respondWithAuthError(c, http.StatusUnauthorized, "Authentication credentials were not provided")
				return
			}
			c.Next()
			return
		}

		// Validate Bearer scheme format
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondWithAuthError(c, http.StatusUnauthorized,
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			respondWithAuthError(c, http.StatusUnauthorized, "Bearer token is empty")
			return
		}

		claims, err := parseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			respondWithAuthError(c, http.StatusUnauthorized, err.Error())
			return
		}

		identity, err := identityFromClaims(claims)
		if err != nil {
			respondWithAuthError(c, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := users.EnsureUser(c.Request.Context(), identity)
		if err != nil {
			de := models.AsDomainError(err)
			log.WithError(err).WithField("user_id", identity.UserID).Error("Failed to provision user")
			status := http.StatusInternalServerError
			if de.Kind == models.ErrConflict {
				status = http.StatusConflict
			}
			c.AbortWithStatusJSON(status, de.ToAPIError())
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, identity.Role)
		c.Set(ContextUser, user)

		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is sent
func OptionalAuth(jwtSecret []byte, users services.UserService) gin.HandlerFunc {
	return IdentityAuth(jwtSecret, users, false)
}

// RequireAuth rejects anonymous callers with 401
func RequireAuth(jwtSecret []byte, users services.UserService) gin.HandlerFunc {
	return IdentityAuth(jwtSecret, users, true)
}

// RequireUser rejects anonymous callers on routes that already passed
// OptionalAuth.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			respondWithAuthError(c, http.StatusUnauthorized, "Authentication credentials were not provided")
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, false for anonymous callers
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentUser returns the authenticated user row, nil for anonymous callers
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(ContextUser)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func respondWithAuthError(c *gin.Context, status int, description string) {
	code := models.ErrUnauthorized
	if status == http.StatusForbidden {
		code = models.ErrForbidden
	}
	c.AbortWithStatusJSON(status, models.NewAPIError(code, description))
}

// parseJWTToken validates and parses a JWT token using HMAC signing method
// Returns the claims if valid, error otherwise
func parseJWTToken(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method to prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	return claims, nil
}

// parseAndValidateJWT parses the JWT and performs strict validation
func parseAndValidateJWT(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	claims, err := parseJWTToken(tokenString, jwtSecret)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil && exp.Before(now) {
		return nil, fmt.Errorf("token has expired")
	}

	nbf, err := claims.GetNotBefore()
	if err != nil {
		return nil, fmt.Errorf("invalid nbf claim: %w", err)
	}
	if nbf != nil && nbf.After(now) {
		return nil, fmt.Errorf("token not yet valid")
	}

	// iat in the future means a skewed or forged issuer
	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil && iat.After(now) {
		return nil, fmt.Errorf("token issued in the future")
	}

	return claims, nil
}

// identityFromClaims maps the provider's claims onto services.Identity.
// uid and role are mandatory; profile claims are optional.
func identityFromClaims(claims jwt.MapClaims) (services.Identity, error) {
	userID, err := extractUserID(claims)
	if err != nil {
		return services.Identity{}, err
	}
	if userID == 0 {
		return services.Identity{}, fmt.Errorf("invalid user identifier: cannot be zero")
	}

	role, err := extractRole(claims)
	if err != nil {
		return services.Identity{}, err
	}

	identity := services.Identity{UserID: userID, Role: role}
	identity.Email, _ = claims["email"].(string)
	identity.Username, _ = claims["username"].(string)
	identity.FirstName, _ = claims["first_name"].(string)
	identity.LastName, _ = claims["last_name"].(string)
	return identity, nil
}

// extractUserID reads the "uid" claim, accepting a numeric string or a JSON number
func extractUserID(claims jwt.MapClaims) (uint, error) {
	if uid, ok := claims["uid"].(string); ok && uid != "" {
		parsedID, err := strconv.ParseUint(uid, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid uid claim format: must be a numeric string, got: %s", uid)
		}
		return uint(parsedID), nil
	}

	// JSON numbers are parsed as float64
	if uid, ok := claims["uid"].(float64); ok {
		if uid <= 0 {
			return 0, fmt.Errorf("invalid uid claim: must be positive, got: %f", uid)
		}
		return uint(uid), nil
	}

	return 0, fmt.Errorf("token missing required 'uid' claim. This token is not valid for this API")
}

// extractRole extracts and validates the role from JWT claims
// All tokens must have an explicit role claim - no defaults are provided
func extractRole(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("token missing required 'role' claim. Tokens must explicitly specify user roles")
	}

	allowedRoles := map[string]bool{
		"admin": true,
		"user":  true,
	}

	if !allowedRoles[role] {
		return "", fmt.Errorf("invalid role '%s'. Allowed roles: admin, user", role)
	}

	return role, nil
}
