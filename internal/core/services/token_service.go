package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/platform/config"
	"github.com/SscSPs/vidtube_backend/internal/utils"
)

const (
	msgTokenGeneration   = "Something went wrong while generating refresh and access token"
	msgRefreshTokenReuse = "Refresh token is expired or used"
)

// tokenService implements the TokenSvcFacade for signing, verifying and
// persisting access and refresh tokens.
type tokenService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, error) {
	return utils.GenerateAccessToken(user, s.cfg.AccessTokenSecret, s.cfg.AccessTokenExpiryDuration, s.cfg.JWTIssuer)
}

// GenerateRefreshToken creates a new JWT refresh token for the given user.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	return utils.GenerateRefreshToken(user.UserID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiryDuration, s.cfg.JWTIssuer)
}

func (s *tokenService) newPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// IssueTokenPair fetches the user, signs both tokens and overwrites the stored
// refresh token. Every failure here is an internal error.
func (s *tokenService) IssueTokenPair(ctx context.Context, userID string) (*domain.TokenPair, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, s.tokenError(ctx, err, userID)
	}

	pair, err := s.newPair(ctx, user)
	if err != nil {
		return nil, s.tokenError(ctx, err, userID)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, pair.RefreshToken); err != nil {
		return nil, s.tokenError(ctx, err, userID)
	}

	return pair, nil
}

// RotateTokenPair signs a new pair and swaps the stored refresh token only if it
// still equals presented, so two concurrent refreshes cannot both succeed.
func (s *tokenService) RotateTokenPair(ctx context.Context, user *domain.User, presented string) (*domain.TokenPair, error) {
	pair, err := s.newPair(ctx, user)
	if err != nil {
		return nil, s.tokenError(ctx, err, user.UserID)
	}

	swapped, err := s.userRepo.RotateRefreshToken(ctx, user.UserID, presented, pair.RefreshToken)
	if err != nil {
		return nil, s.tokenError(ctx, err, user.UserID)
	}
	if !swapped {
		s.LogWarn(ctx, "Refresh token was replaced concurrently", slog.String("user_id", user.UserID))
		return nil, apperrors.NewUnauthorizedError(msgRefreshTokenReuse)
	}

	return pair, nil
}

// VerifyAccessToken validates the token with the access secret.
func (s *tokenService) VerifyAccessToken(ctx context.Context, token string) (string, error) {
	claims, err := utils.ParseAccessToken(token, s.cfg.AccessTokenSecret)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// VerifyRefreshToken validates the token with the refresh secret.
func (s *tokenService) VerifyRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := utils.ParseRefreshToken(token, s.cfg.RefreshTokenSecret)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *tokenService) tokenError(ctx context.Context, err error, userID string) error {
	s.LogError(ctx, err, "Failed to issue token pair", slog.String("user_id", userID))
	return apperrors.NewInternalServerError(msgTokenGeneration).WithCause(err)
}
