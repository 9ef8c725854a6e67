//go:build integration

package pgsql_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/vidtube_backend/internal/adapters/database/pgsql"
	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	"github.com/SscSPs/vidtube_backend/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type UserRepositoryIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	repo      portsrepo.UserRepositoryFacade
	closePool func()
}

func TestUserRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(UserRepositoryIntegrationSuite))
}

func (s *UserRepositoryIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.T().Skipf("Skipping integration test, docker unavailable: %v", r)
			}
		}()
		var err error
		s.container, err = postgres.Run(s.ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("vidtube"),
			postgres.WithUsername("vidtube"),
			postgres.WithPassword("vidtube"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		s.Require().NoError(err, "failed to start postgres container")
	}()

	connStr, err := s.container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(database.RunMigrations(connStr, "file://../../../../migrations", logger))
	// A second run is a no-op.
	s.Require().NoError(database.RunMigrations(connStr, "file://../../../../migrations", logger))

	pool, err := database.NewPgxPool(s.ctx, connStr, true)
	s.Require().NoError(err)
	s.closePool = func() { database.ClosePgxPool(pool) }
	s.repo = pgsql.NewRepositoryProvider(pool).UserRepo
}

func (s *UserRepositoryIntegrationSuite) TearDownSuite() {
	if s.closePool != nil {
		s.closePool()
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(s.ctx))
	}
}

func (s *UserRepositoryIntegrationSuite) newUser(username string) domain.User {
	return domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		Avatar:       "https://cdn.test/" + username + ".png",
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuuE1xP0l7yQ2m3n4o5p6q7r8s9t0u1v2w",
	}
}

func (s *UserRepositoryIntegrationSuite) create(username string) domain.User {
	u := s.newUser(username)
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))
	return u
}

func (s *UserRepositoryIntegrationSuite) TestCreateAndFind() {
	u := s.create("alice")

	byID, err := s.repo.FindUserByID(s.ctx, u.UserID)
	s.Require().NoError(err)
	s.Equal(u.Email, byID.Email)
	s.Equal(u.PasswordHash, byID.PasswordHash)
	s.Nil(byID.RefreshToken)
	s.Empty(byID.CoverImage)
	s.Equal([]string{}, byID.WatchHistory)
	s.False(byID.CreatedAt.IsZero())

	byName, err := s.repo.FindUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(u.UserID, byName.UserID)

	byEmail, err := s.repo.FindUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(u.UserID, byEmail.UserID)

	either, err := s.repo.FindUserByUsernameOrEmail(s.ctx, "nobody", "alice@example.com")
	s.Require().NoError(err)
	s.Equal(u.UserID, either.UserID)
}

func (s *UserRepositoryIntegrationSuite) TestProfileOmitsSecrets() {
	u := s.create("bob")
	s.Require().NoError(s.repo.UpdateRefreshToken(s.ctx, u.UserID, "tok-1"))

	profile, err := s.repo.FindProfileByID(s.ctx, u.UserID)
	s.Require().NoError(err)
	s.Empty(profile.PasswordHash)
	s.Nil(profile.RefreshToken)
	s.Equal("bob", profile.Username)
}

func (s *UserRepositoryIntegrationSuite) TestNotFound() {
	_, err := s.repo.FindUserByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.repo.FindProfileByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, apperrors.ErrNotFound)

	err = s.repo.UpdateAvatar(s.ctx, uuid.NewString(), "https://cdn.test/x.png")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *UserRepositoryIntegrationSuite) TestDuplicates() {
	u := s.create("carol")

	dupName := s.newUser("carol")
	dupName.Email = "other@example.com"
	s.ErrorIs(s.repo.CreateUser(s.ctx, dupName), apperrors.ErrDuplicate)

	dupEmail := s.newUser("carol2")
	dupEmail.Email = u.Email
	s.ErrorIs(s.repo.CreateUser(s.ctx, dupEmail), apperrors.ErrDuplicate)

	other := s.create("dave")
	err := s.repo.UpdateAccountDetails(s.ctx, other.UserID, "Dave", u.Email)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *UserRepositoryIntegrationSuite) TestCreateRequiresHash() {
	u := s.newUser("erin")
	u.PasswordHash = ""
	s.Error(s.repo.CreateUser(s.ctx, u))
}

func (s *UserRepositoryIntegrationSuite) TestUpdates() {
	u := s.create("frank")
	before, err := s.repo.FindUserByID(s.ctx, u.UserID)
	s.Require().NoError(err)

	s.Require().NoError(s.repo.UpdateAccountDetails(s.ctx, u.UserID, "Frank Ocean", "frank@new.example.com"))
	s.Require().NoError(s.repo.UpdateAvatar(s.ctx, u.UserID, "https://cdn.test/a2.png"))
	s.Require().NoError(s.repo.UpdateCoverImage(s.ctx, u.UserID, "https://cdn.test/c2.png"))
	s.Require().NoError(s.repo.UpdatePassword(s.ctx, u.UserID, "$2a$04$newhash"))

	after, err := s.repo.FindUserByID(s.ctx, u.UserID)
	s.Require().NoError(err)
	s.Equal("Frank Ocean", after.FullName)
	s.Equal("frank@new.example.com", after.Email)
	s.Equal("https://cdn.test/a2.png", after.Avatar)
	s.Equal("https://cdn.test/c2.png", after.CoverImage)
	s.Equal("$2a$04$newhash", after.PasswordHash)
	s.False(after.UpdatedAt.Before(before.UpdatedAt))
}

func (s *UserRepositoryIntegrationSuite) TestRefreshTokenLifecycle() {
	u := s.create("grace")

	s.Require().NoError(s.repo.UpdateRefreshToken(s.ctx, u.UserID, "tok-1"))

	swapped, err := s.repo.RotateRefreshToken(s.ctx, u.UserID, "tok-1", "tok-2")
	s.Require().NoError(err)
	s.True(swapped)

	swapped, err = s.repo.RotateRefreshToken(s.ctx, u.UserID, "tok-1", "tok-3")
	s.Require().NoError(err)
	s.False(swapped, "a replaced token must not rotate again")

	stored, err := s.repo.FindUserByID(s.ctx, u.UserID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.RefreshToken)
	s.Equal("tok-2", *stored.RefreshToken)

	s.Require().NoError(s.repo.ClearRefreshToken(s.ctx, u.UserID))
	cleared, err := s.repo.FindUserByID(s.ctx, u.UserID)
	s.Require().NoError(err)
	s.Nil(cleared.RefreshToken)

	swapped, err = s.repo.RotateRefreshToken(s.ctx, u.UserID, "tok-2", "tok-4")
	s.Require().NoError(err)
	s.False(swapped)

	s.ErrorIs(s.repo.ClearRefreshToken(s.ctx, uuid.NewString()), apperrors.ErrNotFound)
}
