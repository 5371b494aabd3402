package middleware

import (
	"net/http"
	"strings"

	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// TokenValidator resolves a bearer token into the calling actor
type TokenValidator interface {
	ValidateAccessToken(token string) (service.Actor, error)
}

// AuthMiddleware validates JWT access token from Authorization header
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		actor, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, actor.UserID)
		c.Set(ContextRole, actor.Role)

		c.Next()
	}
}

// RequireRoles rejects authenticated callers whose role is not listed
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if !lo.Contains(roles, role.(string)) {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied for role "+role.(string))
			c.Abort()
			return
		}

		c.Next()
	}
}

// Actor returns the authenticated caller stored by AuthMiddleware
func Actor(c *gin.Context) service.Actor {
	return service.Actor{
		UserID: c.GetString(ContextUserID),
		Role:   c.GetString(ContextRole),
	}
}
