package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"focus-backend/internal/shared/storage/object"
	"focus-backend/internal/shared/util"
)

// Store implements AssetStore using the local filesystem. Files are expected
// to be served under publicURL by the HTTP layer.
type Store struct {
	baseDir   string
	publicURL string
}

// New creates a new local asset store rooted at baseDir.
func New(baseDir, publicURL string) *Store {
	return &Store{baseDir: baseDir, publicURL: strings.TrimRight(publicURL, "/")}
}

// Dir returns the root directory served for public URLs.
func (s *Store) Dir() string {
	return s.baseDir
}

// Upload writes the binary under a random prefix and returns its public URL.
func (s *Store) Upload(ctx context.Context, b object.Binary) (object.Asset, error) {
	if b.Reader == nil {
		return object.Asset{}, fmt.Errorf("binary reader is nil")
	}
	key, err := util.ObjectKey("", b.FileName)
	if err != nil {
		return object.Asset{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.Asset{}, err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return object.Asset{}, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.Asset{}, fmt.Errorf("open file: %w", err)
	}
	if _, err := io.Copy(f, b.Reader); err != nil {
		_ = f.Close()
		_ = os.Remove(fullPath)
		return object.Asset{}, fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(fullPath)
		return object.Asset{}, fmt.Errorf("close file: %w", err)
	}

	return object.Asset{URL: s.publicURL + "/" + key, Handle: key}, nil
}

// Delete removes the file for handle. Missing files are not an error.
func (s *Store) Delete(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := path.Clean(strings.TrimSpace(handle))
	if clean == "." || strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return object.ErrInvalidHandle
	}
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(clean))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

var _ object.AssetStore = (*Store)(nil)
