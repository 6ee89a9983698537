package upload

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/campusgrid/cms-core/internal/config"
)

// Store persists an uploaded object and returns its public URL.
type Store interface {
	Put(ctx context.Context, key string, payload []byte, contentType string) (string, error)
}

// LocalStore writes under dir; files are served from /static.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, publicBaseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *LocalStore) Put(_ context.Context, key string, payload []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/static/" + key, nil
}

// S3Store puts objects into a bucket of any S3 compatible service.
type S3Store struct {
	client       *s3.Client
	bucket       string
	prefix       string
	endpoint     string
	customDomain string
	pathStyle    bool
	region       string
}

func NewS3Store(opts appcfg.S3Options) (*S3Store, error) {
	if opts.Bucket == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket, access_key_id and secret_access_key are required")
	}
	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}
	// Custom endpoints (minio, r2) almost always need path style addressing.
	pathStyle := opts.PathStyle || opts.Endpoint != ""
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = pathStyle
	})
	return &S3Store{
		client:       client,
		bucket:       opts.Bucket,
		prefix:       opts.Prefix,
		endpoint:     opts.Endpoint,
		customDomain: opts.CustomDomain,
		pathStyle:    pathStyle,
		region:       opts.Region,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	objectKey := key
	if s.prefix != "" {
		objectKey = s.prefix + "/" + key
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(payload))),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", objectKey, err)
	}
	return s.publicURL(objectKey), nil
}

func (s *S3Store) publicURL(objectKey string) string {
	switch {
	case s.customDomain != "":
		return s.customDomain + "/" + objectKey
	case s.endpoint != "" && s.pathStyle:
		return s.endpoint + "/" + s.bucket + "/" + objectKey
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, objectKey)
	}
}

// NewStore picks the store configured under storage.driver.
func NewStore(cfg *appcfg.AppConfig) (Store, error) {
	switch cfg.Storage.Driver {
	case appcfg.StorageS3:
		return NewS3Store(cfg.Storage.S3)
	case appcfg.StorageLocal, "":
		return NewLocalStore(cfg.StaticDir(), cfg.Storage.PublicBaseURL), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
