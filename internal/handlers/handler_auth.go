package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/dto"
	"github.com/SscSPs/vidtube_backend/internal/middleware"
	"github.com/SscSPs/vidtube_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles registration and session endpoints.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	userService portssvc.UserRegistrationSvc
	cfg         *config.Config
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(as portssvc.AuthSvcFacade, us portssvc.UserRegistrationSvc, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: as,
		userService: us,
		cfg:         cfg,
	}
}

// registerAuthRoutes sets up the public session routes and logout.
// authLimiter may be nil to disable rate limiting.
func registerAuthRoutes(users *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer, authLimiter *limiter.Limiter, requireAuth gin.HandlerFunc) {
	h := newAuthHandler(services.Auth, services.User, cfg)

	limited := []gin.HandlerFunc{}
	if authLimiter != nil {
		limited = append(limited, middleware.RateLimit(authLimiter))
	}

	users.POST("/register", append(limited, limitBody(2*cfg.MaxUploadBytes+multipartOverhead), h.register)...)
	users.POST("/login", append(limited, h.login)...)
	users.POST("/refresh-token", append(limited, h.refreshToken)...)
	users.POST("/logout", requireAuth, h.logout)
}

// register godoc
// @Summary Register a new user
// @Description Creates an account from a multipart form with an avatar and an optional cover image.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param fullName formData string true "Full name"
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIErrorResponse
// @Failure 409 {object} dto.APIErrorResponse "Username or email taken"
// @Failure 500 {object} dto.APIErrorResponse
// @Router /users/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, badRequest("Invalid registration form", err))
		return
	}

	avatar, closeAvatar, err := formMedia(c, "avatar", h.cfg.MaxUploadBytes)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeAvatar()

	cover, closeCover, err := formMedia(c, "coverImage", h.cfg.MaxUploadBytes)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeCover()

	user, err := h.userService.Register(c.Request.Context(), req, avatar, cover)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, dto.ToUserResponse(user), "User registered successfully")
}

// login godoc
// @Summary User login
// @Description Authenticates by username or email and sets the session cookies.
// @Tags users
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.APIErrorResponse
// @Failure 401 {object} dto.APIErrorResponse
// @Failure 404 {object} dto.APIErrorResponse
// @Failure 500 {object} dto.APIErrorResponse
// @Router /users/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("Invalid request body", err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, result.AccessToken, result.RefreshToken)
	respondOK(c, http.StatusOK, dto.LoginResponse{
		User:         dto.ToUserResponse(&result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "User logged in successfully")
}

// refreshToken godoc
// @Summary Refresh the session
// @Description Exchanges the refresh token (cookie or body) for a new token pair.
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} dto.APIResponse{data=dto.TokenPairResponse}
// @Failure 401 {object} dto.APIErrorResponse
// @Failure 500 {object} dto.APIErrorResponse
// @Router /users/refresh-token [post]
func (h *authHandler) refreshToken(c *gin.Context) {
	token, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || token == "" {
		var req dto.RefreshTokenRequest
		// An empty body is the same as a missing token.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Unreadable refresh body", slog.String("error", err.Error()))
		}
		token = req.RefreshToken
	}

	pair, err := h.authService.RefreshTokens(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, pair.AccessToken, pair.RefreshToken)
	respondOK(c, http.StatusOK, dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

// logout godoc
// @Summary Log out
// @Description Invalidates the stored refresh token and clears the session cookies.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIErrorResponse
// @Failure 500 {object} dto.APIErrorResponse
// @Security BearerAuth
// @Router /users/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, unauthorized())
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	h.clearSessionCookies(c)
	respondOK(c, http.StatusOK, nil, "User logged out")
}

func (h *authHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken, int(h.cfg.AccessTokenExpiryDuration.Seconds()), "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, refreshToken, int(h.cfg.RefreshTokenExpiryDuration.Seconds()), "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
}

func (h *authHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
}
