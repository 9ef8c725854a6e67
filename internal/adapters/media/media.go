// Package media implements the MediaStore port: S3 compatible object storage
// for deployments and a local directory for development.
package media

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// storageKey returns a date-partitioned random key that keeps the original
// file extension, e.g. "media/2024/5/17/<uuid>.png".
func storageKey(now time.Time, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("media/%d/%d/%d/%v%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}

// publicURL joins the configured base URL and an object key.
func publicURL(baseURL, key string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}
