// Package memstore provides an in-memory user repository for tests. It keeps
// the unique username and email constraints and the compare-and-swap refresh
// token rotation of the postgres repository.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
)

// UserStore is a concurrency-safe UserRepositoryFacade. The Err fields, when
// set, are returned by the matching method instead of touching the data.
type UserStore struct {
	mu    sync.Mutex
	users map[string]domain.User

	FindProfileErr        error
	CreateErr             error
	UpdateRefreshTokenErr error
}

var _ portsrepo.UserRepositoryFacade = (*UserStore)(nil)

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

// Get returns a copy of the stored record, including credential fields.
func (s *UserStore) Get(userID string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return clone(u), ok
}

// Put stores a record as-is.
func (s *UserStore) Put(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = clone(user)
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *UserStore) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.UserID == userID })
}

func (s *UserStore) FindProfileByID(ctx context.Context, userID string) (*domain.User, error) {
	if s.FindProfileErr != nil {
		return nil, s.FindProfileErr
	}
	u, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := u.Sanitized()
	return &profile, nil
}

func (s *UserStore) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Username == username })
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Email == email })
}

func (s *UserStore) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Username == username || u.Email == email })
}

func (s *UserStore) CreateUser(ctx context.Context, user domain.User) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserID == user.UserID || u.Username == user.Username || u.Email == user.Email {
			return apperrors.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.UserID] = clone(user)
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return s.update(userID, func(u *domain.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
}

func (s *UserStore) UpdateAccountDetails(ctx context.Context, userID string, fullName, email string) error {
	return s.update(userID, func(u *domain.User) error {
		for id, other := range s.users {
			if id != userID && other.Email == email {
				return apperrors.ErrDuplicate
			}
		}
		u.FullName, u.Email = fullName, email
		return nil
	})
}

func (s *UserStore) UpdateAvatar(ctx context.Context, userID string, url string) error {
	return s.update(userID, func(u *domain.User) error {
		u.Avatar = url
		return nil
	})
}

func (s *UserStore) UpdateCoverImage(ctx context.Context, userID string, url string) error {
	return s.update(userID, func(u *domain.User) error {
		u.CoverImage = url
		return nil
	})
}

func (s *UserStore) UpdateRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	if s.UpdateRefreshTokenErr != nil {
		return s.UpdateRefreshTokenErr
	}
	return s.update(userID, func(u *domain.User) error {
		u.RefreshToken = &refreshToken
		return nil
	})
}

func (s *UserStore) RotateRefreshToken(ctx context.Context, userID string, expected string, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != expected {
		return false, nil
	}
	u.RefreshToken = &next
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	return true, nil
}

func (s *UserStore) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.update(userID, func(u *domain.User) error {
		u.RefreshToken = nil
		return nil
	})
}

func (s *UserStore) find(match func(domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			found := clone(u)
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *UserStore) update(userID string, apply func(*domain.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := apply(&u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	return nil
}

func clone(u domain.User) domain.User {
	if u.WatchHistory != nil {
		u.WatchHistory = append([]string(nil), u.WatchHistory...)
	}
	if u.RefreshToken != nil {
		token := *u.RefreshToken
		u.RefreshToken = &token
	}
	return u
}
