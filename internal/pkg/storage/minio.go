package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures the MinIO driver.
type MinIOOptions struct {
	Bucket       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	UseSSL       bool
}

// MinIO stores objects in MinIO.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO constructs a MinIO driver.
func NewMinIO(opts MinIOOptions) (*MinIO, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: minio new client: %w", err)
	}

	return &MinIO{client: client, bucket: opts.Bucket}, nil
}

// Put uploads r to key.
func (m *MinIO) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	if err := validatePut(m.bucket, key); err != nil {
		return ObjectInfo{}, err
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, r, opts.Size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: minio put %s: %w", key, err)
	}

	return ObjectInfo{
		Bucket:    info.Bucket,
		Key:       info.Key,
		Size:      info.Size,
		ETag:      info.ETag,
		UpdatedAt: info.LastModified,
	}, nil
}

// Close implements io.Closer.
func (*MinIO) Close() error {
	return nil
}
