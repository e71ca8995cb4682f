package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPStore reads blobs with GET <base url>/<path>. It is read-only.
type HTTPStore struct {
	baseURL *url.URL
	client  *http.Client
}

var _ ObjectStore = (*HTTPStore)(nil)

// ErrReadOnly is returned by Put on stores that cannot be written.
var ErrReadOnly = errors.New("object store is read-only")

// NewHTTPStore returns a store reading below baseURL with at most limit
// connections per host.
func NewHTTPStore(baseURL string, limit int) (*HTTPStore, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid object store url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q in object store url", u.Scheme)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = limit
	transport.MaxIdleConnsPerHost = limit
	return &HTTPStore{
		baseURL: u,
		client:  &http.Client{Transport: transport, Timeout: time.Minute},
	}, nil
}

func (s *HTTPStore) String() string {
	return s.baseURL.String()
}

func (s *HTTPStore) Get(ctx context.Context, path string) ([]byte, error) {
	u := s.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %v: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("fetching %v: unexpected status %s", u, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (s *HTTPStore) Put(context.Context, string, []byte) error {
	return ErrReadOnly
}
