package cloudinary

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"focus-backend/internal/shared/storage/object"
)

const defaultResourceType = "image"

// uploaderAPI is the subset of the Cloudinary upload API used by Store.
type uploaderAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Options holds Cloudinary credentials and upload placement.
type Options struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Store implements AssetStore on Cloudinary. Handles have the form
// "<resource_type>:<public_id>" because destroy needs the resource type.
type Store struct {
	api    uploaderAPI
	folder string
}

// New configures a Cloudinary client once; the store is safe for concurrent use.
func New(opts Options) (*Store, error) {
	if opts.CloudName == "" || opts.APIKey == "" || opts.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are required")
	}
	cld, err := cloudinary.NewFromParams(opts.CloudName, opts.APIKey, opts.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Store{api: &cld.Upload, folder: strings.Trim(opts.Folder, "/")}, nil
}

// Upload sends the binary with resource_type=auto so videos and images share a path.
func (s *Store) Upload(ctx context.Context, b object.Binary) (object.Asset, error) {
	if b.Reader == nil {
		return object.Asset{}, fmt.Errorf("binary reader is nil")
	}
	res, err := s.api.Upload(ctx, b.Reader, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return object.Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return object.Asset{}, fmt.Errorf("cloudinary upload: no result returned")
	}
	if res.Error.Message != "" {
		return object.Asset{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" || res.PublicID == "" {
		return object.Asset{}, fmt.Errorf("cloudinary upload: incomplete result")
	}
	return object.Asset{URL: res.SecureURL, Handle: encodeHandle(res.ResourceType, res.PublicID)}, nil
}

// Delete destroys the asset referenced by handle. Already-missing assets are fine.
func (s *Store) Delete(ctx context.Context, handle string) error {
	resourceType, publicID := decodeHandle(handle)
	if publicID == "" {
		return object.ErrInvalidHandle
	}
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if res == nil {
		return nil
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, res.Error.Message)
	}
	switch res.Result {
	case "", "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary destroy %s: result %q", publicID, res.Result)
	}
}

func encodeHandle(resourceType, publicID string) string {
	if resourceType == "" {
		resourceType = defaultResourceType
	}
	return resourceType + ":" + publicID
}

// decodeHandle accepts bare public ids too, which are treated as images.
func decodeHandle(handle string) (resourceType, publicID string) {
	handle = strings.TrimSpace(handle)
	if rt, id, ok := strings.Cut(handle, ":"); ok {
		switch rt {
		case "image", "video", "raw":
			return rt, id
		}
	}
	return defaultResourceType, handle
}

var _ object.AssetStore = (*Store)(nil)
