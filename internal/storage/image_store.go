package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/errors"
)

// URLPrefix is the route uploaded images are served from.
const URLPrefix = "/static/images"

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ImageStore persists uploaded product images.
type ImageStore interface {
	// Save writes the upload and returns the stored filename.
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	// URL returns the absolute URL of a stored filename.
	URL(filename string) string
}

// LocalImageStore keeps images in a directory on local disk.
type LocalImageStore struct {
	dir     string
	baseURL string
}

// Ensure LocalImageStore implements ImageStore
var _ ImageStore = (*LocalImageStore)(nil)

// NewLocalImageStore creates the directory if needed.
func NewLocalImageStore(dir, baseURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory images are written to.
func (s *LocalImageStore) Dir() string {
	return s.dir
}

// Save stores content under a fresh name keeping the original extension.
// Only jpg, jpeg and png are accepted.
func (s *LocalImageStore) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", errors.Validation("Images only!")
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close image: %w", err)
	}
	return name, nil
}

// URL returns the public URL of filename.
func (s *LocalImageStore) URL(filename string) string {
	return s.baseURL + URLPrefix + "/" + filename
}
