package middleware

import (
	"net/http"
	"strings"
	"todo-backend/internal/config"
	"todo-backend/internal/domain/user"
	"todo-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserIDKey holds the authenticated principal's id in the gin context.
	ContextUserIDKey = "userID"
	// ContextEmailKey holds the authenticated principal's email.
	ContextEmailKey = "email"
	// ContextTokenKey holds the raw bearer token the request presented.
	ContextTokenKey = "bearerToken"
)

// AuthMiddleware authenticates requests by validating the presented JWT and
// checking the persisted bearer token row is still active. Revoked and
// expired tokens are rejected even when the signature is valid.
func AuthMiddleware(cfg *config.Config, tokens user.BearerTokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		token := parts[1]

		claims, err := utils.ValidateToken(token, cfg.JWT.Secret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		record, err := tokens.GetByToken(c.Request.Context(), token)
		if err != nil || !record.IsActive() {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Set(ContextTokenKey, token)

		c.Next()
	}
}
