package services

import (
	"context"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	"github.com/SscSPs/vidtube_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetProfileByID retrieves the sanitized user by ID.
	GetProfileByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserRegistrationSvc defines account creation.
type UserRegistrationSvc interface {
	// Register validates the form, uploads the images and creates the user.
	// cover may be nil.
	Register(ctx context.Context, req dto.RegisterRequest, avatar, cover *domain.MediaFile) (*domain.User, error)
}

// UserAccountSvc defines the mutations a logged-in user performs on their own account.
type UserAccountSvc interface {
	ChangeCurrentPassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error
	UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID string, file *domain.MediaFile) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID string, file *domain.MediaFile) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserRegistrationSvc
	UserAccountSvc
}
