package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/matzehuels/furnidraw/pkg/errors"
)

// LocalStore writes objects below a root directory, using the key as the
// relative path.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// Root returns the absolute storage directory.
func (s *LocalStore) Root() string { return s.root }

// Put implements [Store]. The file is written to a temporary name and
// renamed, so readers never see a partial object.
func (s *LocalStore) Put(ctx context.Context, obj Object) (Location, error) {
	if err := validate(obj); err != nil {
		return Location{}, err
	}
	p := s.path(obj.Key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return Location{}, err
	}
	tmp := p + ".part"
	if err := os.WriteFile(tmp, obj.Data, 0644); err != nil {
		return Location{}, err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return Location{}, err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return Location{Backend: "local", Key: obj.Key, URL: u.String(), Size: len(obj.Data)}, nil
}

// Get implements [Store].
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := errors.ValidateStorageKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, notFound(key)
	}
	return data, err
}

// Close does nothing for local storage.
func (s *LocalStore) Close() error { return nil }

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

var _ Store = (*LocalStore)(nil)
