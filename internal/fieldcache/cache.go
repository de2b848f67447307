// Package fieldcache caches entity field metadata per class name. Entries
// expire after a TTL and can optionally be mirrored in Redis so restarts and
// sibling instances skip the upstream fetch.
package fieldcache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
	"github.com/gencrud-dev/gencrud/internal/metrics"
)

// Loader fetches metadata from the backend.
type Loader func(ctx context.Context, className string) (*fieldmeta.FieldMap, error)

type cacheEntry struct {
	fields  *fieldmeta.FieldMap
	fetched time.Time
}

// Cache is a TTL cache of field metadata keyed by entity class name.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	loader Loader
	ttl    time.Duration
	remote *RedisStore
	log    *zap.SugaredLogger
}

// Option configures a Cache.
type Option func(*Cache)

// WithRemote mirrors entries in a Redis store.
func WithRemote(r *RedisStore) Option {
	return func(c *Cache) { c.remote = r }
}

// New returns a Cache. ttl <= 0 disables expiry.
func New(loader Loader, ttl time.Duration, log *zap.Logger, opts ...Option) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cache{
		entries: map[string]cacheEntry{},
		loader:  loader,
		ttl:     ttl,
		log:     log.Sugar(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fields returns the metadata for className, loading on miss or expiry.
func (c *Cache) Fields(ctx context.Context, className string) (*fieldmeta.FieldMap, error) {
	c.mu.RLock()
	e, ok := c.entries[className]
	c.mu.RUnlock()
	if ok && !c.expired(e) {
		metrics.MetadataCacheHits.Inc()
		return e.fields, nil
	}
	metrics.MetadataCacheMisses.Inc()

	if c.remote != nil {
		if fields, err := c.remote.Get(ctx, className); err == nil && fields != nil {
			c.store(className, fields)
			return fields, nil
		}
	}

	fields, err := c.loader(ctx, className)
	if err != nil {
		// serve stale on load failure rather than blanking the table
		if ok {
			c.log.Warnw("metadata reload failed, serving stale", "class", className, "err", err)
			return e.fields, nil
		}
		return nil, err
	}
	c.store(className, fields)
	if c.remote != nil {
		if err := c.remote.Set(ctx, className, fields); err != nil {
			c.log.Warnw("metadata remote store", "class", className, "err", err)
		}
	}
	return fields, nil
}

// Invalidate drops the entry for className.
func (c *Cache) Invalidate(className string) {
	c.mu.Lock()
	delete(c.entries, className)
	c.mu.Unlock()
}

// Warm preloads metadata for the given class names. Individual failures are
// logged and skipped.
func (c *Cache) Warm(ctx context.Context, classNames ...string) {
	for _, name := range classNames {
		if _, err := c.Fields(ctx, name); err != nil {
			c.log.Warnw("metadata warmup", "class", name, "err", err)
		}
	}
}

func (c *Cache) store(className string, fields *fieldmeta.FieldMap) {
	c.mu.Lock()
	c.entries[className] = cacheEntry{fields: fields, fetched: time.Now()}
	c.mu.Unlock()
}

func (c *Cache) expired(e cacheEntry) bool {
	return c.ttl > 0 && time.Since(e.fetched) > c.ttl
}
