package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/dto"
	"github.com/SscSPs/vidtube_backend/internal/middleware"
	"github.com/SscSPs/vidtube_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// userHandler handles the account endpoints of the logged-in user.
type userHandler struct {
	userService    portssvc.UserSvcFacade
	maxUploadBytes int64
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade, cfg *config.Config) *userHandler {
	return &userHandler{
		userService:    us,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// registerUserRoutes registers all routes that require an authenticated user.
func registerUserRoutes(rg *gin.RouterGroup, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService, cfg)
	uploadLimit := limitBody(cfg.MaxUploadBytes + multipartOverhead)

	rg.GET("/current-user", h.getCurrentUser)
	rg.POST("/change-password", h.changePassword)
	rg.PATCH("/update-account", h.updateAccount)
	rg.PATCH("/avatar", uploadLimit, h.updateAvatar)
	rg.PATCH("/cover-image", uploadLimit, h.updateCoverImage)
}

// getCurrentUser godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.APIErrorResponse
// @Security BearerAuth
// @Router /users/current-user [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, unauthorized())
		return
	}
	respondOK(c, http.StatusOK, dto.ToUserResponse(user), "Current user fetched successfully")
}

// changePassword godoc
// @Summary Change password
// @Description Verifies the old password and stores the new one. Sessions stay valid.
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIErrorResponse
// @Failure 401 {object} dto.APIErrorResponse
// @Security BearerAuth
// @Router /users/change-password [post]
func (h *userHandler) changePassword(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, unauthorized())
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("Invalid request body", err))
		return
	}

	if err := h.userService.ChangeCurrentPassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, nil, "Password changed successfully")
}

// updateAccount godoc
// @Summary Update account details
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.UpdateAccountRequest true "Full name and email"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIErrorResponse
// @Failure 409 {object} dto.APIErrorResponse "Email taken"
// @Security BearerAuth
// @Router /users/update-account [patch]
func (h *userHandler) updateAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, unauthorized())
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("Invalid request body", err))
		return
	}

	user, err := h.userService.UpdateAccountDetails(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToUserResponse(user), "Account details updated successfully")
}

// updateAvatar godoc
// @Summary Replace the avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIErrorResponse
// @Security BearerAuth
// @Router /users/avatar [patch]
func (h *userHandler) updateAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, unauthorized())
		return
	}

	file, closeFile, err := formMedia(c, "avatar", h.maxUploadBytes)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFile()

	user, err := h.userService.UpdateAvatar(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToUserResponse(user), "Avatar image updated successfully")
}

// updateCoverImage godoc
// @Summary Replace the cover image
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIErrorResponse
// @Security BearerAuth
// @Router /users/cover-image [patch]
func (h *userHandler) updateCoverImage(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, unauthorized())
		return
	}

	file, closeFile, err := formMedia(c, "coverImage", h.maxUploadBytes)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFile()

	user, err := h.userService.UpdateCoverImage(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, dto.ToUserResponse(user), "Cover image updated successfully")
}
