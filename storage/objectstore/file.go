package objectstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tmos "github.com/iotaledger/iota-trust/libs/os"
)

// FileStore keeps blobs as files below a root directory.
type FileStore struct {
	root string
}

var _ ObjectStore = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := tmos.EnsureDir(abs, 0700); err != nil {
		return nil, err
	}
	return &FileStore{root: abs}, nil
}

func (s *FileStore) String() string {
	return "file://" + s.root
}

func (s *FileStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return filepath.Join(s.root, strings.TrimPrefix(clean, string(filepath.Separator))), nil
}

func (s *FileStore) Get(_ context.Context, path string) ([]byte, error) {
	p, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	bz, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return bz, err
}

func (s *FileStore) Put(_ context.Context, path string, data []byte) error {
	p, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := tmos.EnsureDir(filepath.Dir(p), 0700); err != nil {
		return err
	}
	return tmos.WriteFileAtomic(p, data, 0644)
}
