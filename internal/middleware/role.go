package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the user has the required role.
// It must run after RequireAuth.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			respondWithAuthError(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		role, exists := c.Get(ContextUserRole)
		if !exists {
			respondWithAuthError(c, http.StatusForbidden, "User role not found in token")
			return
		}

		userRole, ok := role.(string)
		if !ok {
			respondWithAuthError(c, http.StatusForbidden, "Invalid role format")
			return
		}

		if userRole != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions", map[string]interface{}{
				"required_role": requiredRole,
				"user_role":     userRole,
				"user_id":       userID,
			}))
			return
		}

		c.Next()
	}
}
