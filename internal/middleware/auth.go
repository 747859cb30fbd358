package middleware

import (
	"strings"

	"shop_backend/internal/appErrors"
	"shop_backend/internal/auth"
	"shop_backend/internal/logger"
	"shop_backend/internal/models"
	"shop_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// AuthMiddleware verifies the bearer token and resolves the current
// user. On any failure the request is aborted with 401 and never
// reaches the downstream handler. The user is refetched from the store
// so accounts deleted after token issuance are rejected.
func AuthMiddleware(tokens *auth.TokenService, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			appErrors.HandleError(c, appErrors.ErrUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			// Expired and tampered tokens look the same from outside.
			appErrors.HandleError(c, appErrors.ErrUnauthorized)
			return
		}

		user, err := userRepo.FindByEmail(claims.Email)
		if err != nil {
			appErrors.HandleError(c, appErrors.ErrUnauthorized)
			return
		}

		c.Set(currentUserKey, user)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.Email))
		c.Next()
	}
}

// AdminMiddleware gates admin routes. It relies on AuthMiddleware
// having attached the user; no I/O happens here.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.UserRoleAdmin {
			appErrors.HandleError(c, appErrors.ErrAdminOnly)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}

	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}
