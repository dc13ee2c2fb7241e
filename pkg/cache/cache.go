// Package cache stores intermediate export results between runs.
//
// The export runner caches extracted drawing documents (keyed by a hash of
// the space, modules and view) and serialized artifacts (keyed by the
// document hash and the output format). Backends implement [Cache]:
//
//   - [FileCache] for the CLI, under the user cache directory
//   - [RedisCache] for the HTTP service
//   - [NullCache] when caching is disabled
//
// Keys are built by a [Keyer] so that services can namespace them with
// [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cache entries.
const (
	// TTLDocument is how long extracted documents are kept. Extraction is
	// deterministic, so entries only expire to bound disk usage.
	TTLDocument = 7 * 24 * time.Hour

	// TTLArtifact is how long serialized artifacts are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
