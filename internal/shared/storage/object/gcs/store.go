package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"focus-backend/internal/shared/storage/object"
	"focus-backend/internal/shared/util"
)

const (
	uploadTimeout = 10 * time.Minute
	deleteTimeout = 30 * time.Second
)

// Options configures a GCS-backed asset store.
type Options struct {
	Bucket    string
	Prefix    string
	CDNDomain string
}

// Store implements AssetStore using Google Cloud Storage.
type Store struct {
	client    *storage.Client
	bucket    string
	prefix    string
	cdnDomain string
}

// New creates a GCS store using credentials from GOOGLE_APPLICATION_CREDENTIALS(_JSON)
// or the default credential chain.
func New(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	clientOpts := append(clientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Store{
		client:    client,
		bucket:    opts.Bucket,
		prefix:    strings.Trim(strings.TrimSpace(opts.Prefix), "/"),
		cdnDomain: strings.TrimSpace(opts.CDNDomain),
	}, nil
}

// Upload streams the binary into the bucket. The object name is the handle.
func (s *Store) Upload(ctx context.Context, b object.Binary) (object.Asset, error) {
	if b.Reader == nil {
		return object.Asset{}, fmt.Errorf("binary reader is nil")
	}
	key, err := util.ObjectKey(s.prefix, b.FileName)
	if err != nil {
		return object.Asset{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if b.ContentType != "" {
		w.ContentType = b.ContentType
	}
	if _, err := io.Copy(w, b.Reader); err != nil {
		_ = w.Close()
		return object.Asset{}, fmt.Errorf("write gcs object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return object.Asset{}, fmt.Errorf("close gcs writer %q: %w", key, err)
	}
	return object.Asset{URL: PublicURL(s.bucket, s.cdnDomain, key), Handle: key}, nil
}

// Delete removes the object named handle. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, handle string) error {
	key := strings.TrimLeft(strings.TrimSpace(handle), "/")
	if key == "" {
		return object.ErrInvalidHandle
	}
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("delete gcs object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// PublicURL returns the retrieval URL for key, preferring the CDN domain.
func PublicURL(bucket, cdnDomain, key string) string {
	key = strings.TrimLeft(key, "/")
	if cdnDomain != "" {
		domain := strings.TrimRight(cdnDomain, "/")
		if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
			domain = "https://" + domain
		}
		return domain + "/" + key
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

var _ object.AssetStore = (*Store)(nil)
