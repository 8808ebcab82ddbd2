package storage

import (
	"context"
	"errors"
	"testing"
)

func TestNewFromDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		driver string
		opts   FactoryOptions
		want   error
	}{
		{name: "unknown", driver: "ftp", want: ErrUnknownDriver},
		{name: "s3 without bucket", driver: "S3", want: ErrBucketRequired},
		{name: "gcs without bucket", driver: "gcs", want: ErrBucketRequired},
		{name: "minio without bucket", driver: " minio ", want: ErrBucketRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewFromDriver(context.Background(), tt.driver, tt.opts); !errors.Is(err, tt.want) {
				t.Fatalf("NewFromDriver() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMinIO_PutValidatesKey(t *testing.T) {
	t.Parallel()

	m, err := NewMinIO(MinIOOptions{Bucket: "archive", Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	if err != nil {
		t.Fatalf("NewMinIO() error = %v", err)
	}

	if _, err := m.Put(context.Background(), "", nil, PutOptions{}); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("Put(empty key) error = %v", err)
	}
}
