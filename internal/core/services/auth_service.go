package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/dto"
	"github.com/SscSPs/vidtube_backend/internal/metrics"
	"github.com/SscSPs/vidtube_backend/internal/utils"
)

const (
	msgIdentifierRequired = "Username or email is required."
	msgUserDoesNotExist   = "User does not exist..."
	msgIncorrectPassword  = "User password is incorrect."
	msgUnauthorized       = "unauthorized request"
	msgInvalidRefresh     = "Invalid refresh token"
)

// authService implements AuthSvcFacade on top of the user repository and the
// token service.
type authService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	tokens   portssvc.TokenSvcFacade
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, tokens portssvc.TokenSvcFacade) portssvc.AuthSvcFacade {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login authenticates by username or email and issues a new token pair.
// A verifier failure is reported exactly like a wrong password.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*domain.LoginResult, error) {
	identifier, ok := domain.ResolveIdentifier(req.Username, req.Email)
	if !ok {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		return nil, apperrors.NewBadRequestError(msgIdentifierRequired)
	}

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeUserNotFound).Inc()
			return nil, apperrors.NewNotFoundError(msgUserDoesNotExist)
		}
		return nil, s.internalError(ctx, err, "Something went wrong while logging in")
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeVerifyError).Inc()
		s.LogError(ctx, err, "Password verification failed",
			slog.String("user_id", user.UserID),
			slog.String("reason", metrics.OutcomeVerifyError))
		return nil, apperrors.NewUnauthorizedError(msgIncorrectPassword).WithCause(err)
	}
	if !valid {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeWrongPassword).Inc()
		s.LogWarn(ctx, "Login with wrong password", slog.String("user_id", user.UserID))
		return nil, apperrors.NewUnauthorizedError(msgIncorrectPassword)
	}

	pair, err := s.tokens.IssueTokenPair(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	profile, err := s.userRepo.FindProfileByID(ctx, user.UserID)
	if err != nil {
		return nil, s.internalError(ctx, err, "Something went wrong while logging in")
	}

	metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return &domain.LoginResult{User: profile.Sanitized(), TokenPair: *pair}, nil
}

func (s *authService) findByIdentifier(ctx context.Context, id domain.Identifier) (*domain.User, error) {
	if id.Kind == domain.IdentifierEmail {
		return s.userRepo.FindUserByEmail(ctx, id.Value)
	}
	return s.userRepo.FindUserByUsername(ctx, id.Value)
}

// RefreshTokens exchanges a valid, currently stored refresh token for a new pair.
func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		return nil, apperrors.NewUnauthorizedError(msgUnauthorized)
	}

	userID, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeInvalidToken).Inc()
		return nil, apperrors.NewUnauthorizedError(msgInvalidRefresh + ": " + err.Error()).WithCause(err)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeUserNotFound).Inc()
			return nil, apperrors.NewUnauthorizedError(msgInvalidRefresh)
		}
		return nil, s.internalError(ctx, err, "Something went wrong while refreshing the session")
	}

	if !user.HasRefreshToken(refreshToken) {
		metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeTokenReused).Inc()
		s.LogWarn(ctx, "Stale refresh token presented", slog.String("user_id", user.UserID))
		return nil, apperrors.NewUnauthorizedError(msgRefreshTokenReuse)
	}

	pair, err := s.tokens.RotateTokenPair(ctx, user, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeTokenReused).Inc()
		}
		return nil, err
	}

	metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return pair, nil
}

// Logout invalidates the stored refresh token. Access tokens stay valid until
// they expire.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("User not found").WithCause(err)
		}
		return s.internalError(ctx, err, "Something went wrong while logging out", slog.String("user_id", userID))
	}
	s.LogInfo(ctx, "User logged out", slog.String("user_id", userID))
	return nil
}
