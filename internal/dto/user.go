package dto

import (
	"time"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
)

// RegisterRequest carries the text fields of the multipart registration form.
// Validation happens once, inside the registration flow.
type RegisterRequest struct {
	FullName string `form:"fullName" json:"fullName" validate:"required,min=3,max=50"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Username string `form:"username" json:"username" validate:"required,min=3,max=30"`
	Password string `form:"password" json:"password" validate:"required,max=72,password_policy"`
}

// ChangePasswordRequest is the body of the change-password endpoint.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,max=72,password_policy"`
}

// UpdateAccountRequest is the body of the update-account endpoint.
type UpdateAccountRequest struct {
	FullName string `json:"fullName" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

// UserResponse is the sanitized user representation. It deliberately has no
// password or refresh token field.
type UserResponse struct {
	UserID       string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	WatchHistory []string  `json:"watchHistory"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ToUserResponse converts a domain.User to its sanitized response DTO.
func ToUserResponse(user *domain.User) UserResponse {
	history := user.WatchHistory
	if history == nil {
		history = []string{}
	}
	return UserResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		WatchHistory: history,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
