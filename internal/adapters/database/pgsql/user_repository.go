package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE postgres reports for unique index conflicts.
const uniqueViolation = "23505"

const (
	userColumns = `user_id, username, email, full_name, avatar, cover_image, watch_history,
		password_hash, refresh_token, created_at, updated_at`
	profileColumns = `user_id, username, email, full_name, avatar, cover_image, watch_history,
		created_at, updated_at`
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// userRow mirrors a row of the users table.
type userRow struct {
	UserID       string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	WatchHistory []string
	PasswordHash string
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m userRow) toDomain() *domain.User {
	history := m.WatchHistory
	if history == nil {
		history = []string{}
	}
	return &domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Email:        m.Email,
		FullName:     m.FullName,
		Avatar:       m.Avatar,
		CoverImage:   m.CoverImage,
		WatchHistory: history,
		PasswordHash: m.PasswordHash,
		RefreshToken: m.RefreshToken,
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, args ...any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1;`
	var m userRow
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.FullName,
		&m.Avatar,
		&m.CoverImage,
		&m.WatchHistory,
		&m.PasswordHash,
		&m.RefreshToken,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := r.findOne(ctx, `user_id = $1`, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, err
}

// FindProfileByID never reads the password hash or the refresh token.
func (r *PgxUserRepository) FindProfileByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE user_id = $1;`
	var m userRow
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.FullName,
		&m.Avatar,
		&m.CoverImage,
		&m.WatchHistory,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile by ID %s: %w", userID, err)
	}
	return m.toDomain(), nil
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `username = $1`, username)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *PgxUserRepository) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return r.findOne(ctx, `username = $1 OR email = $2`, username, email)
}

func (r *PgxUserRepository) CreateUser(ctx context.Context, user domain.User) error {
	if user.PasswordHash == "" {
		return fmt.Errorf("refusing to store user %s without a password hash", user.UserID)
	}
	history := user.WatchHistory
	if history == nil {
		history = []string{}
	}
	query := `
        INSERT INTO users (user_id, username, email, full_name, avatar, cover_image, watch_history, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.db.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.Email,
		user.FullName,
		user.Avatar,
		user.CoverImage,
		history,
		user.PasswordHash,
	)
	if err != nil {
		return mapWriteError(err, "failed to create user")
	}
	return nil
}

// updateByID runs an update touching updated_at and reports ErrNotFound when no row matched.
func (r *PgxUserRepository) updateByID(ctx context.Context, set string, userID string, args ...any) error {
	query := `UPDATE users SET ` + set + `, updated_at = NOW() WHERE user_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, append([]any{userID}, args...)...)
	if err != nil {
		return mapWriteError(err, "failed to update user "+userID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	if passwordHash == "" {
		return fmt.Errorf("refusing to store an empty password hash for user %s", userID)
	}
	return r.updateByID(ctx, `password_hash = $2`, userID, passwordHash)
}

func (r *PgxUserRepository) UpdateAccountDetails(ctx context.Context, userID string, fullName, email string) error {
	return r.updateByID(ctx, `full_name = $2, email = $3`, userID, fullName, email)
}

func (r *PgxUserRepository) UpdateAvatar(ctx context.Context, userID string, url string) error {
	return r.updateByID(ctx, `avatar = $2`, userID, url)
}

func (r *PgxUserRepository) UpdateCoverImage(ctx context.Context, userID string, url string) error {
	return r.updateByID(ctx, `cover_image = $2`, userID, url)
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	return r.updateByID(ctx, `refresh_token = $2`, userID, refreshToken)
}

// RotateRefreshToken is a single conditional update, so of two concurrent
// callers presenting the same token only one can win.
func (r *PgxUserRepository) RotateRefreshToken(ctx context.Context, userID string, expected string, next string) (bool, error) {
	query := `
        UPDATE users
        SET refresh_token = $3, updated_at = NOW()
        WHERE user_id = $1 AND refresh_token = $2;
    `
	cmdTag, err := r.db.Exec(ctx, query, userID, expected, next)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token for user %s: %w", userID, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	return r.updateByID(ctx, `refresh_token = NULL`, userID)
}

func mapWriteError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %s", msg, apperrors.ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
