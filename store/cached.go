package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrCacheMiss is returned by a Cache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the small key/value surface the cached collection needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipes_cache_requests_total",
		Help: "Cached collection listings by result",
	},
	[]string{"collection", "result"},
)

// Cached wraps a Collection and keeps the result of All in a Cache. Writes
// made through the wrapper invalidate the cached listing. Cache failures are
// logged and fall through to the underlying collection.
//
// A listing read before a write must not be stored after that write's
// invalidation, so every invalidation bumps gen and a fill is dropped when
// gen moved while the listing was being read.
type Cached[T any] struct {
	Collection[T]
	cache Cache
	ttl   time.Duration

	mu  sync.Mutex
	gen uint64
}

func NewCached[T any](c Collection[T], cache Cache, ttl time.Duration) *Cached[T] {
	return &Cached[T]{Collection: c, cache: cache, ttl: ttl}
}

func (c *Cached[T]) key() string {
	return "recipesplusplus:" + c.Name() + ":all"
}

func (c *Cached[T]) All(ctx context.Context) ([]T, error) {
	if data, err := c.cache.Get(ctx, c.key()); err == nil {
		var records []T
		if err := json.Unmarshal(data, &records); err == nil && len(records) > 0 {
			cacheRequests.WithLabelValues(c.Name(), "hit").Inc()
			return records, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("cache read failed", "collection", c.Name(), "error", err)
	}
	cacheRequests.WithLabelValues(c.Name(), "miss").Inc()

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	records, err := c.Collection.All(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(records)
	if err != nil {
		return records, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		cacheRequests.WithLabelValues(c.Name(), "stale").Inc()
		return records, nil
	}
	if err := c.cache.Set(ctx, c.key(), data, c.ttl); err != nil {
		slog.Warn("cache write failed", "collection", c.Name(), "error", err)
	}
	return records, nil
}

func (c *Cached[T]) Insert(ctx context.Context, record T) error {
	defer c.invalidate(ctx)
	return c.Collection.Insert(ctx, record)
}

func (c *Cached[T]) Update(ctx context.Context, id int, fields map[string]any) error {
	defer c.invalidate(ctx)
	return c.Collection.Update(ctx, id, fields)
}

func (c *Cached[T]) Delete(ctx context.Context, id int) error {
	defer c.invalidate(ctx)
	return c.Collection.Delete(ctx, id)
}

func (c *Cached[T]) invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if err := c.cache.Delete(ctx, c.key()); err != nil {
		slog.Warn("cache invalidation failed", "collection", c.Name(), "error", err)
	}
}
