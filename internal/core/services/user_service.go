package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/dto"
	"github.com/SscSPs/vidtube_backend/internal/metrics"
	"github.com/SscSPs/vidtube_backend/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	mediaKindAvatar = "avatar"
	mediaKindCover  = "cover_image"
)

var errEmptyUpload = errors.New("media store returned no url")

// userService implements UserSvcFacade.
type userService struct {
	BaseService
	userRepo   portsrepo.UserRepositoryFacade
	media      portssvc.MediaStore
	validate   *validator.Validate
	bcryptCost int
}

// UserServiceOption is a functional option for configuring the user service
type UserServiceOption func(*userService)

// WithBcryptCost sets the cost used when hashing new passwords.
func WithBcryptCost(cost int) UserServiceOption {
	return func(s *userService) {
		s.bcryptCost = cost
	}
}

// WithValidator replaces the default request validator.
func WithValidator(v *validator.Validate) UserServiceOption {
	return func(s *userService) {
		s.validate = v
	}
}

// NewUserService creates a new user service with the provided options
func NewUserService(userRepo portsrepo.UserRepositoryFacade, media portssvc.MediaStore, options ...UserServiceOption) portssvc.UserSvcFacade {
	svc := &userService{
		userRepo:   userRepo,
		media:      media,
		bcryptCost: bcrypt.DefaultCost,
	}

	for _, option := range options {
		option(svc)
	}
	if svc.validate == nil {
		svc.validate = utils.NewValidator()
	}

	return svc
}

// prepareForSave hashes a pending password. It runs before every write that
// carries a password, and is a no-op when the password was not modified.
func (s *userService) prepareForSave(user *domain.User) error {
	plain, modified := user.PendingPassword()
	if !modified {
		return nil
	}
	hash, err := utils.HashPasswordWithCost(plain, s.bcryptCost)
	if err != nil {
		return err
	}
	user.ApplyPasswordHash(hash)
	return nil
}

// GetProfileByID returns the sanitized profile of a user.
func (s *userService) GetProfileByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found").WithCause(err)
		}
		return nil, s.internalError(ctx, err, "Failed to fetch user", slog.String("user_id", userID))
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Register creates a new account after checking required fields, the field
// rules, uniqueness and the uploaded images, in that order. Nothing is stored
// when any step fails.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest, avatar, cover *domain.MediaFile) (*domain.User, error) {
	if isBlank(req.FullName, req.Email, req.Username, req.Password) {
		metrics.Registrations.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		return nil, apperrors.NewBadRequestError("All fields are required!")
	}

	normalized := dto.RegisterRequest{
		FullName: strings.TrimSpace(req.FullName),
		Email:    domain.NormalizeEmail(req.Email),
		Username: domain.NormalizeUsername(req.Username),
		Password: req.Password,
	}
	if err := s.validate.StructCtx(ctx, normalized); err != nil {
		metrics.Registrations.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		return nil, apperrors.NewValidationError("Validation failed", utils.ValidationMessages(err))
	}

	_, err := s.userRepo.FindUserByUsernameOrEmail(ctx, normalized.Username, normalized.Email)
	switch {
	case err == nil:
		metrics.Registrations.WithLabelValues(metrics.OutcomeConflict).Inc()
		return nil, apperrors.NewConflictError("User with this email or username already exists")
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, s.internalError(ctx, err, "Failed to check existing users")
	}

	if avatar == nil {
		metrics.Registrations.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		return nil, apperrors.NewBadRequestError("Avatar is required")
	}
	avatarURL, err := s.upload(ctx, mediaKindAvatar, *avatar)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Failed to upload avatar").WithCause(err)
	}

	var coverURL string
	if cover != nil {
		coverURL, err = s.upload(ctx, mediaKindCover, *cover)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Failed to upload cover image").WithCause(err)
		}
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     normalized.Username,
		Email:        normalized.Email,
		FullName:     normalized.FullName,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		WatchHistory: []string{},
	}
	user.SetPassword(normalized.Password)
	if err := s.prepareForSave(&user); err != nil {
		return nil, s.internalError(ctx, err, "Failed to hash password")
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			metrics.Registrations.WithLabelValues(metrics.OutcomeConflict).Inc()
			return nil, apperrors.NewConflictError("User with this email or username already exists").WithCause(err)
		}
		return nil, s.internalError(ctx, err, "Failed to create user")
	}

	created, err := s.userRepo.FindProfileByID(ctx, user.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to re-fetch registered user", slog.String("user_id", user.UserID))
		return nil, apperrors.NewInternalServerError("Something went wrong while registering the user").WithCause(err)
	}

	metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID), slog.String("username", user.Username))
	sanitized := created.Sanitized()
	return &sanitized, nil
}

// ChangeCurrentPassword verifies the old password and stores a hash of the new one.
// Existing sessions are left untouched.
func (s *userService) ChangeCurrentPassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	if isBlank(req.OldPassword, req.NewPassword) {
		return apperrors.NewBadRequestError("Old password and new password are required")
	}
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return apperrors.NewValidationError("Validation failed", utils.ValidationMessages(err))
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("User not found").WithCause(err)
		}
		return s.internalError(ctx, err, "Failed to fetch user", slog.String("user_id", userID))
	}

	valid, err := utils.VerifyPassword(req.OldPassword, user.PasswordHash)
	if err != nil {
		s.LogWarn(ctx, "Old password verification failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return apperrors.NewUnauthorizedError("Invalid old password").WithCause(err)
	}
	if !valid {
		return apperrors.NewUnauthorizedError("Invalid old password")
	}

	user.SetPassword(req.NewPassword)
	if err := s.prepareForSave(user); err != nil {
		return s.internalError(ctx, err, "Failed to hash password", slog.String("user_id", userID))
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, user.PasswordHash); err != nil {
		return s.writeError(ctx, err, "Failed to update password", userID)
	}

	s.LogInfo(ctx, "Password changed", slog.String("user_id", userID))
	return nil
}

// UpdateAccountDetails replaces the full name and email of the user.
func (s *userService) UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error) {
	if isBlank(req.FullName, req.Email) {
		return nil, apperrors.NewBadRequestError("All fields are required")
	}
	normalized := dto.UpdateAccountRequest{
		FullName: strings.TrimSpace(req.FullName),
		Email:    domain.NormalizeEmail(req.Email),
	}
	if err := s.validate.StructCtx(ctx, normalized); err != nil {
		return nil, apperrors.NewValidationError("Validation failed", utils.ValidationMessages(err))
	}

	if err := s.userRepo.UpdateAccountDetails(ctx, userID, normalized.FullName, normalized.Email); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Email is already in use").WithCause(err)
		}
		return nil, s.writeError(ctx, err, "Failed to update account details", userID)
	}

	return s.GetProfileByID(ctx, userID)
}

// UpdateAvatar uploads a new avatar and stores its URL.
func (s *userService) UpdateAvatar(ctx context.Context, userID string, file *domain.MediaFile) (*domain.User, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("Avatar file is missing")
	}
	url, err := s.upload(ctx, mediaKindAvatar, *file)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Error while uploading avatar").WithCause(err)
	}
	if err := s.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, s.writeError(ctx, err, "Failed to update avatar", userID)
	}
	return s.GetProfileByID(ctx, userID)
}

// UpdateCoverImage uploads a new cover image and stores its URL.
func (s *userService) UpdateCoverImage(ctx context.Context, userID string, file *domain.MediaFile) (*domain.User, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("Cover image file is missing")
	}
	url, err := s.upload(ctx, mediaKindCover, *file)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Error while uploading cover image").WithCause(err)
	}
	if err := s.userRepo.UpdateCoverImage(ctx, userID, url); err != nil {
		return nil, s.writeError(ctx, err, "Failed to update cover image", userID)
	}
	return s.GetProfileByID(ctx, userID)
}

// upload sends the file to the media store. An empty URL counts as a failure.
func (s *userService) upload(ctx context.Context, kind string, file domain.MediaFile) (string, error) {
	res, err := s.media.Upload(ctx, file)
	if err == nil && (res == nil || res.URL == "") {
		err = errEmptyUpload
	}
	if err != nil {
		metrics.MediaUploads.WithLabelValues(kind, metrics.OutcomeFailure).Inc()
		s.LogError(ctx, err, "Media upload failed", slog.String("kind", kind), slog.String("filename", file.Filename))
		return "", err
	}
	metrics.MediaUploads.WithLabelValues(kind, metrics.OutcomeSuccess).Inc()
	return res.URL, nil
}

func (s *userService) writeError(ctx context.Context, err error, msg string, userID string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("User not found").WithCause(err)
	}
	return s.internalError(ctx, err, msg, slog.String("user_id", userID))
}

// isBlank reports whether any value is empty after trimming.
func isBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
