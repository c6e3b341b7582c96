package images

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"devevent/internal/domain"
)

// Config holds configuration for creating an image store.
type Config struct {
	Provider      string
	Bucket        string
	Region        string
	Endpoint      string // optional; if set enables a custom endpoint (e.g. MinIO)
	PathStyle     bool
	PublicBaseURL string // optional; overrides the derived public URL prefix
}

// NewStore creates an image store from config. Provider "s3" uploads to an
// S3-compatible bucket; "noop" or unknown returns placeholder URLs.
func NewStore(ctx context.Context, cfg Config) (domain.ImageStore, error) {
	switch cfg.Provider {
	case "s3":
		return newS3Store(ctx, cfg)
	case "noop":
		return &noopStore{}, nil
	default:
		log.Printf("[IMAGES] Unknown image provider %q, using noop", cfg.Provider)
		return &noopStore{}, nil
	}
}

// s3Store uploads event artwork to a single S3 bucket. Keys map to object
// keys directly; objects are publicly readable through the bucket policy or
// a CDN fronting PublicBaseURL.
type s3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func newS3Store(ctx context.Context, cfg Config) (*s3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}
	return &s3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: baseURL,
	}, nil
}

func (s *s3Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
}

// noopStore returns a placeholder URL without storing anything. Useful for
// local development without bucket access.
type noopStore struct{}

func (n *noopStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	log.Println("[IMAGES] Image would be uploaded (noop)", "key", key)
	return "https://images.invalid/" + key, nil
}
