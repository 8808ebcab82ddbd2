package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSOptions configures the Google Cloud Storage driver.
type GCSOptions struct {
	Bucket        string
	ClientOptions []option.ClientOption
}

// GCS stores objects in Google Cloud Storage.
type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS constructs a GCS driver using application default credentials
// unless ClientOptions say otherwise.
func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	client, err := gcs.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: gcs new client: %w", err)
	}

	return &GCS{client: client, bucket: opts.Bucket}, nil
}

// Put streams r to key.
func (g *GCS) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	if err := validatePut(g.bucket, key); err != nil {
		return ObjectInfo{}, err
	}

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	if len(opts.Metadata) > 0 {
		w.Metadata = opts.Metadata
	}

	n, err := io.Copy(w, r)
	if cerr := w.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: gcs put %s: %w", key, err)
	}

	attrs := w.Attrs()
	info := ObjectInfo{Bucket: g.bucket, Key: key, Size: n}
	if attrs != nil {
		info.ETag = attrs.Etag
		info.UpdatedAt = attrs.Updated
	}
	return info, nil
}

// Close closes the client.
func (g *GCS) Close() error {
	return g.client.Close()
}
