package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"ocragent/internal/config"
)

// minioStore implements BlobStore on an S3-compatible backend (MinIO, AWS
// S3, etc.). One object per blob name, in a single bucket. Safe for
// concurrent use by multiple goroutines.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates an S3-compatible blob store. It validates connectivity
// and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (BlobStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioStore{client: cli, bucket: cfg.Bucket}, nil
}

func (m *minioStore) Put(ctx context.Context, name string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	return err
}

// Delete removes the object. RemoveObject on a missing key is a no-op on
// S3-compatible backends, which matches the idempotent delete contract.
func (m *minioStore) Delete(ctx context.Context, name string) error {
	return m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
}
