package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/furnidraw/pkg/cache"
	ferrors "github.com/matzehuels/furnidraw/pkg/errors"
)

// DefaultRedisTTL is how long exports stay retrievable from Redis.
const DefaultRedisTTL = 24 * time.Hour

// RedisStore keeps export blobs in Redis under their object key, with the
// object metadata in a companion hash. Both expire together.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to url. A ttl of zero uses DefaultRedisTTL.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", cache.ErrUnavailable, err)
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Put implements [Store].
func (s *RedisStore) Put(ctx context.Context, obj Object) (Location, error) {
	if err := validate(obj); err != nil {
		return Location{}, err
	}
	meta := map[string]any{
		"filename":     obj.Filename,
		"content_type": obj.ContentType,
		"size":         len(obj.Data),
	}
	for k, v := range obj.Metadata {
		meta[k] = v
	}

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, obj.Key, obj.Data, s.ttl)
		p.HSet(ctx, metaKey(obj.Key), meta)
		p.Expire(ctx, metaKey(obj.Key), s.ttl)
		return nil
	})
	if err != nil {
		return Location{}, cache.Retryable(fmt.Errorf("redis put: %w", err))
	}
	return Location{Backend: "redis", Key: obj.Key, Size: len(obj.Data)}, nil
}

// Get implements [Store].
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ferrors.ValidateStorageKey(key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("redis get: %w", err))
	}
	return data, nil
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func metaKey(key string) string { return key + ":meta" }

var _ Store = (*RedisStore)(nil)
