package pgsql

import (
	portsrepo "github.com/SscSPs/vidtube_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo: userRepo,
	}
}
