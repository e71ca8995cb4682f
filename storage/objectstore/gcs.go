package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps blobs as objects of a Google Cloud Storage bucket.
type GCSStore struct {
	bucket *storage.BucketHandle
	name   string
}

var _ ObjectStore = (*GCSStore)(nil)

// NewGCSStore opens bucket. serviceAccount is a key file; when empty the
// default credentials are used, or none at all when anonymous is set.
func NewGCSStore(ctx context.Context, bucket, serviceAccount string, anonymous bool) (*GCSStore, error) {
	var opts []option.ClientOption
	switch {
	case anonymous:
		opts = append(opts, option.WithoutAuthentication())
	case serviceAccount != "":
		opts = append(opts, option.WithCredentialsFile(serviceAccount))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}
	return &GCSStore{bucket: client.Bucket(bucket), name: bucket}, nil
}

func (s *GCSStore) String() string {
	return "gs://" + s.name
}

func (s *GCSStore) Get(ctx context.Context, path string) ([]byte, error) {
	r, err := s.bucket.Object(path).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting gs://%s/%s: %w", s.name, path, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStore) Put(ctx context.Context, path string, data []byte) error {
	w := s.bucket.Object(path).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("putting gs://%s/%s: %w", s.name, path, err)
	}
	return w.Close()
}
