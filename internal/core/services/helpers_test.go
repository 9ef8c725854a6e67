package services_test

import (
	"context"
	"strings"
	"time"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/core/services"
	"github.com/SscSPs/vidtube_backend/internal/dto"
	"github.com/SscSPs/vidtube_backend/internal/platform/config"
	"github.com/SscSPs/vidtube_backend/internal/testing/memstore"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Str0ng!Pass"

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:          "test-access-secret",
		AccessTokenExpiryDuration:  15 * time.Minute,
		RefreshTokenSecret:         "test-refresh-secret",
		RefreshTokenExpiryDuration: 24 * time.Hour,
		JWTIssuer:                  "vidtube-test",
		BcryptCost:                 bcrypt.MinCost,
	}
}

// testEnv wires the real services over the in-memory stores.
type testEnv struct {
	cfg   *config.Config
	users *memstore.UserStore
	media *memstore.MediaStore
	svc   *portssvc.ServiceContainer
}

func newTestEnv() *testEnv {
	cfg := testConfig()
	users := memstore.NewUserStore()
	media := memstore.NewMediaStore()
	return &testEnv{
		cfg:   cfg,
		users: users,
		media: media,
		svc:   services.NewServiceContainer(cfg, portsrepo.RepositoryProvider{UserRepo: users}, media),
	}
}

func avatarFile() *domain.MediaFile {
	return &domain.MediaFile{Filename: "avatar.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

func coverFile() *domain.MediaFile {
	return &domain.MediaFile{Filename: "cover.jpg", ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("jpeg")}
}

func registerRequest(username, email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		FullName: "Ana Lima",
		Email:    email,
		Username: username,
		Password: testPassword,
	}
}

func (e *testEnv) register(username, email string) *domain.User {
	user, err := e.svc.User.Register(context.Background(), registerRequest(username, email), avatarFile(), nil)
	if err != nil {
		panic(err)
	}
	return user
}
