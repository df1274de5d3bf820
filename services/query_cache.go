package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Query keys shared by the dashboard, the JSON API and the invalidation points
const (
	QueryKeyBatches        = "batches"
	QueryKeyDashboardStats = "dashboard-stats"
)

// QueryCache keeps recent query results by key and coalesces concurrent loads of
// the same key into one call. Only successful results are stored.
type QueryCache struct {
	entries *expirable.LRU[string, any]
	group   singleflight.Group
	ttl     time.Duration

	mu          sync.Mutex
	generations map[string]uint64 // bumped by Invalidate
}

// NewQueryCache creates a cache holding up to size entries for ttl each.
// A zero ttl disables storing but still deduplicates in-flight loads.
func NewQueryCache(size int, ttl time.Duration) *QueryCache {
	if size <= 0 {
		size = 64
	}
	return &QueryCache{
		entries:     expirable.NewLRU[string, any](size, nil, ttl),
		ttl:         ttl,
		generations: make(map[string]uint64),
	}
}

// Fetch returns the cached value for key or loads it with fn
func (q *QueryCache) Fetch(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	if q.ttl > 0 {
		if v, ok := q.entries.Get(key); ok {
			return v, nil
		}
	}

	// The load outlives any single caller so one cancelled request does not fail the others
	loadCtx := context.WithoutCancel(ctx)
	ch := q.group.DoChan(key, func() (any, error) {
		gen := q.generation(key)
		v, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		q.store(key, gen, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Invalidate drops the given keys so the next Fetch reloads them. Loads
// already in flight still answer their callers but are not stored.
func (q *QueryCache) Invalidate(keys ...string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, key := range keys {
		q.generations[key]++
		q.entries.Remove(key)
		q.group.Forget(key)
	}
}

func (q *QueryCache) generation(key string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.generations[key]
}

// store caches v unless key was invalidated after its load started
func (q *QueryCache) store(key string, gen uint64, v any) {
	if q.ttl <= 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.generations[key] != gen {
		return
	}
	q.entries.Add(key, v)
}

// Purge drops every cached entry
func (q *QueryCache) Purge() {
	q.entries.Purge()
}

// CachedQuery is the typed form of QueryCache.Fetch
func CachedQuery[T any](ctx context.Context, q *QueryCache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := q.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %q cached a %T", key, v)
	}
	return typed, nil
}
