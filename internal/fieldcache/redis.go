package fieldcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
)

// RedisStore mirrors field metadata in Redis keyed by entity class name.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to the given Redis URL (redis://...).
func NewRedisStore(dsn, prefix string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("fieldcache: parse redis url: %w", err)
	}
	if prefix == "" {
		prefix = "crud:fields:"
	}
	return &RedisStore{client: redis.NewClient(opt), prefix: prefix, ttl: ttl}, nil
}

// Get returns the cached metadata, or (nil, nil) on miss.
func (s *RedisStore) Get(ctx context.Context, className string) (*fieldmeta.FieldMap, error) {
	b, err := s.client.Get(ctx, s.prefix+className).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	fields := fieldmeta.NewFieldMap()
	if err := json.Unmarshal(b, fields); err != nil {
		return nil, fmt.Errorf("fieldcache: decode %s: %w", className, err)
	}
	return fields, nil
}

// Set stores the metadata under the class-name key with the store TTL.
func (s *RedisStore) Set(ctx context.Context, className string, fields *fieldmeta.FieldMap) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+className, b, s.ttl).Err()
}

// Close releases the underlying connection.
func (s *RedisStore) Close() error { return s.client.Close() }
