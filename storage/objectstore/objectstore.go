// Package objectstore reads and writes blobs by path on a local directory,
// an S3 or GCS bucket or a plain HTTP server.
package objectstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/iotaledger/iota-trust/config"
)

// DefaultConnectionLimit bounds concurrent requests when the configuration
// does not.
const DefaultConnectionLimit = 20

// ErrNotFound is returned by Get when nothing is stored under the path.
var ErrNotFound = errors.New("object not found")

// ObjectStore is a flat namespace of blobs addressed by slash separated
// paths.
type ObjectStore interface {
	// Get returns the blob at path or ErrNotFound.
	Get(ctx context.Context, path string) ([]byte, error)
	// Put stores data at path, replacing any previous blob.
	Put(ctx context.Context, path string, data []byte) error
	// String describes the store for logs.
	String() string
}

// New returns the backend selected by cfg.
func New(ctx context.Context, cfg *config.ObjectStoreConfig) (ObjectStore, error) {
	if cfg == nil {
		return nil, errors.New("no object store configured")
	}
	if err := cfg.ValidateBasic(); err != nil {
		return nil, err
	}

	switch cfg.ObjectStore {
	case config.ObjectStoreFile:
		return NewFileStore(cfg.Directory)
	case config.ObjectStoreS3:
		return NewS3Store(ctx, S3Options{
			Bucket:             cfg.Bucket,
			Endpoint:           cfg.AWSEndpoint,
			Region:             cfg.AWSRegion,
			VirtualHostedStyle: cfg.AWSVirtualHostedStyleRequest,
			Anonymous:          cfg.NoSignRequest,
		})
	case config.ObjectStoreGCS:
		return NewGCSStore(ctx, cfg.Bucket, cfg.GoogleServiceAccount, cfg.NoSignRequest)
	case config.ObjectStoreHTTP:
		return NewHTTPStore(cfg.URL, ConnectionLimit(cfg))
	default:
		return nil, fmt.Errorf("unknown object store %q", cfg.ObjectStore)
	}
}

// ConnectionLimit returns the number of concurrent requests allowed against
// the store configured by cfg.
func ConnectionLimit(cfg *config.ObjectStoreConfig) int {
	if cfg == nil || cfg.ConnectionLimit <= 0 {
		return DefaultConnectionLimit
	}
	return cfg.ConnectionLimit
}
