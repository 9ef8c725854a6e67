package services

import (
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, media portssvc.MediaStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Token = NewTokenService(cfg, repos.UserRepo)
	container.Auth = NewAuthService(repos.UserRepo, container.Token)
	container.User = NewUserService(
		repos.UserRepo,
		media,
		WithBcryptCost(cfg.BcryptCost),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TokenSvcFacade = (*tokenService)(nil)
	_ portssvc.AuthSvcFacade  = (*authService)(nil)
	_ portssvc.UserSvcFacade  = (*userService)(nil)
)
