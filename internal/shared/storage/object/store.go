package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidHandle is returned when a delete handle cannot belong to the store.
var ErrInvalidHandle = errors.New("invalid asset handle")

// Binary is an upload payload. Reader is consumed once.
type Binary struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Asset is the result of a successful upload.
type Asset struct {
	// URL is the public retrieval URL.
	URL string
	// Handle is the opaque identifier required to delete the asset later.
	Handle string
}

// AssetStore durably stores binaries on a remote host and deletes them by handle.
// Upload failures must never leave the caller assuming partial success.
type AssetStore interface {
	Upload(ctx context.Context, b Binary) (Asset, error)
	Delete(ctx context.Context, handle string) error
}
