// Package storage uploads objects to S3, Google Cloud Storage or MinIO.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrBucketRequired is returned when no bucket is configured.
	ErrBucketRequired = errors.New("storage: bucket is required")
	// ErrKeyRequired is returned when the object key is empty.
	ErrKeyRequired = errors.New("storage: key is required")
)

// Storage writes objects into a single bucket.
type Storage interface {
	io.Closer

	// Put stores the content of r under key.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
}

// PutOptions configures upload behavior.
type PutOptions struct {
	// Size is the content length, or -1 when unknown.
	Size int64
	// ContentType is the MIME type for the object.
	ContentType string
	// Metadata includes custom key/value metadata.
	Metadata map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket    string
	Key       string
	Size      int64
	ETag      string
	UpdatedAt time.Time
}

func validatePut(bucket, key string) error {
	if bucket == "" {
		return ErrBucketRequired
	}
	if key == "" {
		return ErrKeyRequired
	}
	return nil
}
