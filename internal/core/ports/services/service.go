package services

import (
	"context"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
)

// MediaStore stores uploaded bytes and returns a public URL.
// A nil result or an empty URL is treated as a failed upload by callers.
type MediaStore interface {
	Upload(ctx context.Context, file domain.MediaFile) (*domain.UploadResult, error)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	User  UserSvcFacade
	Auth  AuthSvcFacade
	Token TokenSvcFacade
}
