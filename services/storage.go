package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

// FileStorage stores profile photos and CVs by key and resolves public URLs.
type FileStorage interface {
	Put(ctx context.Context, folder, filename, contentType string, body io.ReadSeeker, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage keeps uploads in one bucket. Public access is granted by bucket policy.
type S3Storage struct {
	client  s3API
	bucket  string
	baseURL string
}

func NewS3Storage(ctx context.Context, region, bucket, baseURL string) (*S3Storage, error) {
	if bucket == "" {
		return nil, errs.NewConfigMissingError("S3_BUCKET")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Storage{client: s3.NewFromConfig(cfg), bucket: bucket, baseURL: baseURL}, nil
}

// Put uploads body under folder/{yyyy}/{mm}/{uuid}{ext} and returns the key.
// The SDK signs the payload, so body must be seekable and size exact.
func (s *S3Storage) Put(ctx context.Context, folder, filename, contentType string, body io.ReadSeeker, size int64) (string, error) {
	now := time.Now().UTC()
	key := fmt.Sprintf("%s/%d/%02d/%s%s", folder, now.Year(), now.Month(), uuid.New().String(), strings.ToLower(filepath.Ext(filename)))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("max-age=86400"),
		Metadata: map[string]string{
			"original-filename": filepath.Base(filename),
			"upload-timestamp":  now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", errs.NewStorageError("upload "+filename, err)
	}
	return key, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewStorageError("delete "+key, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSuffix(s.baseURL, "/") + "/" + strings.TrimPrefix(key, "/")
}
