package services

import (
	"context"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	"github.com/SscSPs/vidtube_backend/internal/dto"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken signs a short-lived access token for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, error)
	// GenerateRefreshToken signs a long-lived refresh token for the user.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, error)
	// IssueTokenPair issues both tokens and stores the refresh token on the user,
	// overwriting any previous one.
	IssueTokenPair(ctx context.Context, userID string) (*domain.TokenPair, error)
	// RotateTokenPair issues both tokens, replacing the stored refresh token only
	// if it still equals presented.
	RotateTokenPair(ctx context.Context, user *domain.User, presented string) (*domain.TokenPair, error)
	// VerifyAccessToken checks an access token and returns the user ID it was issued for.
	VerifyAccessToken(ctx context.Context, token string) (string, error)
	// VerifyRefreshToken checks a refresh token and returns the user ID it was issued for.
	VerifyRefreshToken(ctx context.Context, token string) (string, error)
}

// AuthSvcFacade defines login, session refresh and logout.
type AuthSvcFacade interface {
	// Login verifies credentials and returns the sanitized user with a fresh token pair.
	Login(ctx context.Context, req dto.LoginRequest) (*domain.LoginResult, error)
	// RefreshTokens exchanges the current refresh token for a new pair.
	RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Logout clears the stored refresh token of the user.
	Logout(ctx context.Context, userID string) error
}
