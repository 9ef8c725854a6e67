package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
)

// LocalStore writes media below a directory that the router serves statically.
type LocalStore struct {
	dir           string
	publicBaseURL string
	now           func() time.Time
}

var _ portssvc.MediaStore = (*LocalStore)(nil)

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, publicBaseURL: publicBaseURL, now: time.Now}, nil
}

// Dir returns the root directory of stored files.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Upload copies the body into a new file. A partially written file is removed.
func (s *LocalStore) Upload(ctx context.Context, file domain.MediaFile) (*domain.UploadResult, error) {
	if file.Body == nil {
		return nil, errors.New("media file has no body")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := storageKey(s.now(), file.Filename)
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}
	if _, err := io.Copy(f, file.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("failed to close media file: %w", err)
	}

	return &domain.UploadResult{URL: publicURL(s.publicBaseURL, key), Key: key}, nil
}
