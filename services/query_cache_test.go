package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryCache_StoresSuccesses(t *testing.T) {
	q := NewQueryCache(8, time.Minute)
	ctx := context.Background()
	var calls int32

	load := func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	v, err := CachedQuery(ctx, q, "k", load)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = CachedQuery(ctx, q, "k", load)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	q.Invalidate("k")
	v, _ = CachedQuery(ctx, q, "k", load)
	assert.Equal(t, 2, v)

	q.Purge()
	v, _ = CachedQuery(ctx, q, "k", load)
	assert.Equal(t, 3, v)
}

func TestQueryCache_DoesNotStoreErrors(t *testing.T) {
	q := NewQueryCache(8, time.Minute)
	ctx := context.Background()
	fail := true

	load := func(ctx context.Context) (string, error) {
		if fail {
			return "", errors.New("backend down")
		}
		return "ok", nil
	}

	_, err := CachedQuery(ctx, q, "k", load)
	assert.Error(t, err)

	fail = false
	v, err := CachedQuery(ctx, q, "k", load)
	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestQueryCache_ZeroTTLAlwaysReloads(t *testing.T) {
	q := NewQueryCache(0, 0)
	ctx := context.Background()
	var calls int32

	load := func(ctx context.Context) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	CachedQuery(ctx, q, "k", load)
	CachedQuery(ctx, q, "k", load)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestQueryCache_CoalescesConcurrentLoads(t *testing.T) {
	q := NewQueryCache(8, time.Minute)
	ctx := context.Background()
	var calls int32
	release := make(chan struct{})

	load := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = CachedQuery(ctx, q, "k", load)
		}(i)
	}

	// Give the goroutines time to join the in-flight load
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []int{42, 42, 42, 42, 42}, results)
}

func TestQueryCache_CallerCancellation(t *testing.T) {
	q := NewQueryCache(8, time.Minute)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CachedQuery(ctx, q, "slow", func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueryCache_TypeMismatch(t *testing.T) {
	q := NewQueryCache(8, time.Minute)
	ctx := context.Background()

	_, err := CachedQuery(ctx, q, "k", func(ctx context.Context) (int, error) { return 1, nil })
	assert.NoError(t, err)

	_, err = CachedQuery(ctx, q, "k", func(ctx context.Context) (string, error) { return "x", nil })
	assert.Error(t, err)
}

func TestQueryCache_InvalidateDuringLoad(t *testing.T) {
	q := NewQueryCache(8, time.Minute)
	ctx := context.Background()

	var mu sync.Mutex
	current := "old"
	started := make(chan struct{})
	release := make(chan struct{})
	var blockOnce sync.Once

	load := func(ctx context.Context) (string, error) {
		mu.Lock()
		v := current
		mu.Unlock()
		blockOnce.Do(func() {
			close(started)
			<-release
		})
		return v, nil
	}

	first := make(chan string, 1)
	go func() {
		v, _ := CachedQuery(ctx, q, QueryKeyBatches, load)
		first <- v
	}()
	<-started

	// A write lands while the first load is still running
	mu.Lock()
	current = "new"
	mu.Unlock()
	q.Invalidate(QueryKeyBatches)
	close(release)

	assert.Equal(t, "old", <-first)

	v, err := CachedQuery(ctx, q, QueryKeyBatches, load)
	assert.NoError(t, err)
	assert.Equal(t, "new", v)
}
