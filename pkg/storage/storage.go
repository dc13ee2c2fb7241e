// Package storage persists exported drawings.
//
// A [Store] receives the serialized bytes of one export and returns a
// [Location] the caller can hand to a user. The export runner falls back to
// writing into its local output directory when the configured store fails.
//
// Backends:
//
//   - [LocalStore] writes below a directory (the default)
//   - [MongoStore] keeps files in GridFS and records each export in a
//     metadata collection
//   - [RedisStore] keeps short-lived blobs with an expiry
//
// [Open] picks the backend from a DSN, and [Retrying] adds exponential
// backoff for transient failures.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/furnidraw/pkg/cache"
	"github.com/matzehuels/furnidraw/pkg/errors"
)

// KeyPrefix is the namespace of export object keys.
const KeyPrefix = "exports"

// Object is one file to persist.
type Object struct {
	// Key is the storage key; see [NewKey].
	Key         string
	Filename    string
	ContentType string
	Data        []byte
	// Metadata is stored alongside the object where the backend supports it.
	Metadata map[string]string
}

// Location is where a stored object can be retrieved from.
type Location struct {
	Backend string `json:"backend"`
	Key     string `json:"key"`
	// URL is a backend-specific address (a file:// URL for local storage).
	URL  string `json:"url,omitempty"`
	Size int    `json:"size"`
}

// Store persists export artifacts. Get returns [cache.ErrNotFound] for
// unknown keys. Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, obj Object) (Location, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// NewKey returns a fresh object key for filename:
// exports/{uuid}/{filename}.
func NewKey(filename string) string {
	return path.Join(KeyPrefix, uuid.NewString(), filename)
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "dxf":
		return "application/dxf"
	case "pdf":
		return "application/pdf"
	case "svg", "slotmap":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func validate(obj Object) error {
	if err := errors.ValidateStorageKey(obj.Key); err != nil {
		return err
	}
	if len(obj.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "refusing to store empty object %q", obj.Key)
	}
	return nil
}

// Retrying retries the Put and Get calls of a store with a backoff. Only
// errors the backend marks with [cache.Retryable] are retried.
type Retrying struct {
	Store
	Backoff cache.Backoff
}

// NewRetrying wraps s with [cache.DefaultBackoff].
func NewRetrying(s Store) *Retrying {
	return &Retrying{Store: s, Backoff: cache.DefaultBackoff}
}

// Put implements [Store].
func (r *Retrying) Put(ctx context.Context, obj Object) (Location, error) {
	var loc Location
	err := r.Backoff.Do(ctx, func() error {
		var err error
		loc, err = r.Store.Put(ctx, obj)
		return err
	})
	return loc, err
}

// Get implements [Store].
func (r *Retrying) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.Backoff.Do(ctx, func() error {
		var err error
		data, err = r.Store.Get(ctx, key)
		return err
	})
	return data, err
}

// Open returns the store named by dsn:
//
//	/var/lib/furnidraw, file:///var/lib/furnidraw  -> LocalStore
//	mongodb://host/db, mongodb+srv://...            -> MongoStore
//	redis://host:6379/0                             -> RedisStore
//
// Remote stores are wrapped in [Retrying].
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "storage dsn is empty")
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		s, err := NewMongoStore(ctx, dsn, "")
		if err != nil {
			return nil, err
		}
		return NewRetrying(s), nil
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		s, err := NewRedisStore(ctx, dsn, DefaultRedisTTL)
		if err != nil {
			return nil, err
		}
		return NewRetrying(s), nil
	case strings.HasPrefix(dsn, "file://"):
		return NewLocalStore(strings.TrimPrefix(dsn, "file://"))
	case strings.Contains(dsn, "://"):
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported storage scheme in %q", dsn)
	default:
		return NewLocalStore(dsn)
	}
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", cache.ErrNotFound, key)
}
