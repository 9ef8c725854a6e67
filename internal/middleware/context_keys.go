package middleware

import (
	"context"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID in the request context.
const userIDKey = contextKey("userID")

// userKey holds the sanitized authenticated user.
const userKey = contextKey("user")

// WithUser stores the authenticated user and its ID in ctx.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	ctx = context.WithValue(ctx, userIDKey, user.UserID)
	return context.WithValue(ctx, userKey, user)
}

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetUserFromContext retrieves the sanitized authenticated user.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	user, ok := c.Request.Context().Value(userKey).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
