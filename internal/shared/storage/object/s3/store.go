package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"focus-backend/internal/shared/storage/object"
	"focus-backend/internal/shared/util"
)

// api is the subset of the S3 client used by Store.
type api interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configures an S3-backed asset store.
type Options struct {
	Region string
	Bucket string
	Prefix string
	// PublicBaseURL overrides the virtual-hosted bucket URL (e.g. a CDN).
	PublicBaseURL string
	KMSKeyID      string
}

// Store implements AssetStore using Amazon S3.
type Store struct {
	client   api
	bucket   string
	prefix   string
	baseURL  string
	kmsKeyID string
}

// New creates a new S3-backed asset store.
func New(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newStore(s3.NewFromConfig(cfg), cfg.Region, opts), nil
}

func newStore(client api, region string, opts Options) *Store {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/")
	if baseURL == "" {
		if region == "" {
			region = "us-east-1"
		}
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, region)
	}
	return &Store{
		client:   client,
		bucket:   opts.Bucket,
		prefix:   normalizePrefix(opts.Prefix),
		baseURL:  baseURL,
		kmsKeyID: strings.TrimSpace(opts.KMSKeyID),
	}
}

// Upload puts the binary under the configured prefix. The object key is the handle.
func (s *Store) Upload(ctx context.Context, b object.Binary) (object.Asset, error) {
	if b.Reader == nil {
		return object.Asset{}, fmt.Errorf("binary reader is nil")
	}
	key, err := util.ObjectKey(s.prefix, b.FileName)
	if err != nil {
		return object.Asset{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.Asset{}, err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   b.Reader,
	}
	if b.ContentType != "" {
		input.ContentType = aws.String(b.ContentType)
	}
	if b.Size > 0 {
		input.ContentLength = aws.Int64(b.Size)
	}
	if s.kmsKeyID != "" {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.kmsKeyID)
	} else {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return object.Asset{}, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return object.Asset{URL: s.publicURL(key), Handle: key}, nil
}

// Delete removes the object stored under handle.
func (s *Store) Delete(ctx context.Context, handle string) error {
	key := strings.TrimLeft(strings.TrimSpace(handle), "/")
	if key == "" {
		return object.ErrInvalidHandle
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil
		}
		return fmt.Errorf("s3 delete object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *Store) publicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + strings.Join(segments, "/")
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

var _ object.AssetStore = (*Store)(nil)
