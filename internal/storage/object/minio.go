package object

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/koinonia-app/koinonia-api/internal/config"
	"github.com/koinonia-app/koinonia-api/internal/logger"
)

// MinioUploader stores uploads in a MinIO (or any S3-compatible) bucket.
type MinioUploader struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinioUploader connects to the configured endpoint and ensures the
// bucket exists.
func NewMinioUploader(ctx context.Context, cfg *config.Config) (*MinioUploader, error) {
	log := logger.Service("uploads")

	client, err := minio.New(cfg.Upload.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Upload.AccessKey, cfg.Upload.SecretKey, ""),
		Secure: cfg.Upload.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Upload.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Upload.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Upload.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Upload.Bucket, err)
		}
		log.Info("Created upload bucket", "bucket", cfg.Upload.Bucket)
	}

	publicBaseURL := cfg.Upload.PublicBaseURL
	if publicBaseURL == "" {
		scheme := "http"
		if cfg.Upload.UseSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Upload.Endpoint, cfg.Upload.Bucket)
	}

	return &MinioUploader{
		client:        client,
		bucket:        cfg.Upload.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

// Upload stores the file and returns its public URL.
func (u *MinioUploader) Upload(ctx context.Context, reader io.Reader, size int64, contentType, originalName string) (string, error) {
	name, err := ObjectName(contentType, originalName)
	if err != nil {
		return "", err
	}

	_, err = u.client.PutObject(ctx, u.bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", name, err)
	}

	logger.Service("uploads").Debug("Stored object", "name", name, "size", size)
	return fmt.Sprintf("%s/%s", u.publicBaseURL, name), nil
}
