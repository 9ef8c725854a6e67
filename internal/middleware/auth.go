package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Cookie names shared by the auth handlers and this middleware.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// AuthMiddleware creates a Gin middleware handler that validates the access
// token (cookie or bearer header) and loads the sanitized user into the request context.
func AuthMiddleware(tokenSvc portssvc.TokenSvcFacade, users portssvc.UserReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := GetLoggerFromCtx(ctx)

		tokenString, ok := accessTokenFromRequest(c)
		if !ok {
			logger.Warn("Access token missing")
			abortUnauthorized(c, "Unauthorized request")
			return
		}

		userID, err := tokenSvc.VerifyAccessToken(ctx, tokenString)
		if err != nil {
			logger.Warn("Invalid access token", slog.String("error", err.Error()))
			msg := "Invalid access token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Access token has expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		user, err := users.GetProfileByID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Access token refers to unknown user", slog.String("user_id", userID))
				abortUnauthorized(c, "Invalid access token")
				return
			}
			logger.Error("Failed to load user for access token", slog.String("user_id", userID), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewAPIErrorResponse(http.StatusInternalServerError, "Internal server error", nil))
			return
		}

		enrichedLogger := logger.With(slog.String("user_id", user.UserID))
		ctx = WithLogger(WithUser(ctx, user), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func accessTokenFromRequest(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewAPIErrorResponse(http.StatusUnauthorized, msg, nil))
}
