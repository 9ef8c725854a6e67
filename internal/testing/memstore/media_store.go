package memstore

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
)

// MediaStore records uploads in memory and hands out sequential URLs.
type MediaStore struct {
	mu      sync.Mutex
	Uploads map[string][]byte

	// Err, when set, fails every upload. EmptyURL makes uploads succeed with
	// an empty URL.
	Err      error
	EmptyURL bool
}

var _ portssvc.MediaStore = (*MediaStore)(nil)

// NewMediaStore returns an empty media store.
func NewMediaStore() *MediaStore {
	return &MediaStore{Uploads: make(map[string][]byte)}
}

func (m *MediaStore) Upload(ctx context.Context, file domain.MediaFile) (*domain.UploadResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("media/%d-%s", len(m.Uploads)+1, file.Filename)
	m.Uploads[key] = data
	if m.EmptyURL {
		return &domain.UploadResult{Key: key}, nil
	}
	return &domain.UploadResult{URL: "https://cdn.test/" + key, Key: key}, nil
}

// Count returns the number of stored uploads.
func (m *MediaStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploads)
}
