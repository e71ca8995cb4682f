package objectstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota-trust/config"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(ctx, "summaries/1.sum")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "summaries/1.sum", []byte("one")))
	bz, err := store.Get(ctx, "summaries/1.sum")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), bz)

	// overwrite
	require.NoError(t, store.Put(ctx, "summaries/1.sum", []byte("uno")))
	bz, err = store.Get(ctx, "/summaries/1.sum")
	require.NoError(t, err)
	assert.Equal(t, []byte("uno"), bz)

	// paths can't escape the root
	require.NoError(t, store.Put(ctx, "../../escape", []byte("x")))
	bz, err = store.Get(ctx, "escape")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), bz)

	assert.Error(t, store.Put(ctx, "/", []byte("x")))
}

func TestHTTPStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/archive/MANIFEST":
			_, _ = w.Write([]byte("manifest"))
		case "/archive/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	store, err := NewHTTPStore(srv.URL+"/archive", 2)
	require.NoError(t, err)

	bz, err := store.Get(ctx, "MANIFEST")
	require.NoError(t, err)
	assert.Equal(t, []byte("manifest"), bz)

	_, err = store.Get(ctx, "summaries/1.sum")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Put(ctx, "MANIFEST", nil), ErrReadOnly)

	_, err = NewHTTPStore("ftp://example.com", 1)
	assert.Error(t, err)
}

// fakeS3 serves path style requests for a single bucket.
type fakeS3 struct {
	mtx     sync.Mutex
	bucket  string
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/"+f.bucket+"/")
	switch r.Method {
	case http.MethodGet:
		bz, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		_, _ = w.Write(bz)
	case http.MethodPut:
		bz, _ := io.ReadAll(r.Body)
		f.objects[key] = bz
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{bucket: "checkpoints", objects: map[string][]byte{"7.chk": []byte("seven")}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	ctx := context.Background()
	store, err := New(ctx, &config.ObjectStoreConfig{
		ObjectStore:   config.ObjectStoreS3,
		Bucket:        "checkpoints",
		AWSEndpoint:   srv.URL,
		NoSignRequest: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "s3://checkpoints", store.String())

	bz, err := store.Get(ctx, "7.chk")
	require.NoError(t, err)
	assert.Equal(t, []byte("seven"), bz)

	_, err = store.Get(ctx, "8.chk")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "8.chk", []byte("eight")))
	bz, err = store.Get(ctx, "8.chk")
	require.NoError(t, err)
	assert.Equal(t, []byte("eight"), bz)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, &config.ObjectStoreConfig{ObjectStore: config.ObjectStoreFile, Directory: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = New(ctx, &config.ObjectStoreConfig{ObjectStore: config.ObjectStoreHTTP, URL: "https://archive.example"})
	require.NoError(t, err)
	assert.IsType(t, &HTTPStore{}, store)
	assert.Equal(t, "https://archive.example/", store.String())

	_, err = New(ctx, &config.ObjectStoreConfig{ObjectStore: "azure"})
	assert.Error(t, err)

	_, err = New(ctx, nil)
	assert.Error(t, err)
}

func TestConnectionLimit(t *testing.T) {
	assert.Equal(t, DefaultConnectionLimit, ConnectionLimit(nil))
	assert.Equal(t, DefaultConnectionLimit, ConnectionLimit(&config.ObjectStoreConfig{}))
	assert.Equal(t, 5, ConnectionLimit(&config.ObjectStoreConfig{ConnectionLimit: 5}))
}
