package repositories

import (
	"context"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
)

// UserReader defines read operations for user data.
// Every finder returns apperrors.ErrNotFound when no record matches.
type UserReader interface {
	// FindUserByID retrieves the full record, including credential and session fields.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindProfileByID retrieves the record without the password hash and refresh token.
	FindProfileByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername matches the stored username exactly.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmail matches the stored (lower-cased) email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsernameOrEmail returns any record owning either value.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
}

// UserWriter defines write operations for user data. Unique violations on
// username or email are reported as apperrors.ErrDuplicate.
type UserWriter interface {
	// CreateUser persists a new user. PasswordHash must already be set.
	CreateUser(ctx context.Context, user domain.User) error

	// UpdatePassword replaces the stored hash.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error

	// UpdateAccountDetails updates full name and email.
	UpdateAccountDetails(ctx context.Context, userID string, fullName, email string) error

	// UpdateAvatar stores a new avatar URL.
	UpdateAvatar(ctx context.Context, userID string, url string) error

	// UpdateCoverImage stores a new cover image URL.
	UpdateCoverImage(ctx context.Context, userID string, url string) error
}

// UserSessionStore manages the single refresh token slot of a user.
type UserSessionStore interface {
	// UpdateRefreshToken overwrites the stored refresh token unconditionally.
	UpdateRefreshToken(ctx context.Context, userID string, refreshToken string) error

	// RotateRefreshToken replaces the stored token only if it still equals
	// expected. It reports false when the token was already replaced.
	RotateRefreshToken(ctx context.Context, userID string, expected string, next string) (bool, error)

	// ClearRefreshToken removes the stored refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserSessionStore
}
