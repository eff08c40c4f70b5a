package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/mioding/catalog-search/internal/testing"
)

const ttl = 300 * time.Second

func newTestCache(clock Clock) (*TTLCache[string], *Memory[string]) {
	store := NewMemory[string]()
	return New[string]("test", store, ttl, Options{Clock: clock}), store
}

func TestGetPutAndExpiry(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(time.Unix(1_700_000_000, 0))
	c, _ := newTestCache(clock)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Put(ctx, "k", "v1")
	v, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	// Exactly TTL old is still live; expiry needs now - created > TTL.
	clock.Advance(ttl)
	_, ok = c.Get(ctx, "k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	assert.Equal(t, Stats{Hits: 2, Misses: 2}, c.Stats())
}

func TestPutReplacesWholeEntry(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(time.Unix(0, 0))
	c, _ := newTestCache(clock)

	c.Put(ctx, "k", "old")
	first, ok := c.GetEntry(ctx, "k")
	require.True(t, ok)

	clock.Advance(time.Minute)
	c.Put(ctx, "k", "new")
	second, ok := c.GetEntry(ctx, "k")
	require.True(t, ok)

	assert.Equal(t, "old", first.Value, "earlier entry is untouched")
	assert.Equal(t, "new", second.Value)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(time.Unix(0, 0))
	c, _ := newTestCache(clock)

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "computed", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute(ctx, "k", compute)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)
	}
	assert.Equal(t, 1, calls)

	clock.Advance(ttl + time.Second)
	_, err := c.GetOrCompute(ctx, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	_, err = c.GetOrCompute(ctx, "other", func(context.Context) (string, error) {
		return "", errors.New("boom")
	})
	assert.Error(t, err)
	_, ok := c.Get(ctx, "other")
	assert.False(t, ok, "failed computations are not cached")
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(time.Unix(0, 0))
	c, store := newTestCache(clock)

	c.Put(ctx, "old", "a")
	clock.Advance(ttl / 2)
	c.Put(ctx, "fresh", "b")
	clock.Advance(ttl/2 + time.Second)

	assert.Equal(t, 1, c.Sweep(ctx))
	assert.Equal(t, 1, store.Len())
	_, ok := c.Get(ctx, "fresh")
	assert.True(t, ok)
	assert.EqualValues(t, 1, c.Stats().Evictions)
}

func TestSweepCancelledIsNotAnError(t *testing.T) {
	store := NewMemory[string]()
	now := time.Unix(0, 0)
	require.NoError(t, store.Save(context.Background(), "k", &Entry[string]{Value: "v", CreatedAt: now}, ttl))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := store.Sweep(ctx, now.Add(2*ttl), ttl)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, store.Len(), "a cancelled sweep evicts nothing")
}

func TestSweepKeepsConcurrentFreshWrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemory[string]()
	now := time.Unix(0, 0)

	stale := &Entry[string]{Value: "stale", CreatedAt: now}
	require.NoError(t, store.Save(ctx, "k", stale, ttl))

	// A fresh entry replaces the stale one before the sweep reaches it.
	fresh := &Entry[string]{Value: "fresh", CreatedAt: now.Add(ttl + time.Second)}
	require.NoError(t, store.Save(ctx, "k", fresh, ttl))

	n, err := store.Sweep(ctx, now.Add(ttl+time.Second), ttl)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(testutil.NewFakeClock(time.Unix(0, 0)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Put(ctx, "shared", "v")
				c.Get(ctx, "shared")
				c.Sweep(ctx)
			}
		}(i)
	}
	wg.Wait()

	v, ok := c.Get(ctx, "shared")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestStartStop(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFakeClock(time.Unix(0, 0))
	store := NewMemory[string]()
	c := New[string]("sweeper", store, 10*time.Millisecond, Options{Clock: clock})

	c.Put(ctx, "k", "v")
	clock.Advance(time.Second)

	c.Start(ctx)
	c.Start(ctx) // second start is a no-op
	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	c.Stop()
	c.Stop() // idempotent

	assert.GreaterOrEqual(t, c.Stats().Evictions, int64(1))
}

func TestStopOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c, _ := newTestCache(SystemClock{})
	c.Start(ctx)
	cancel()
	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) (*Entry[string], error) {
	return nil, errors.New("unreachable")
}
func (failingStore) Save(context.Context, string, *Entry[string], time.Duration) error {
	return errors.New("unreachable")
}
func (failingStore) Sweep(context.Context, time.Time, time.Duration) (int, error) {
	return 0, errors.New("unreachable")
}
func (failingStore) Close() error { return nil }

func TestStoreErrorsNeverReachCallers(t *testing.T) {
	ctx := context.Background()
	c := New[string]("failing", failingStore{}, ttl, Options{})

	c.Put(ctx, "k", "v")
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, c.Sweep(ctx))

	v, err := c.GetOrCompute(ctx, "k", func(context.Context) (string, error) { return "computed", nil })
	require.NoError(t, err)
	assert.Equal(t, "computed", v)
	assert.EqualValues(t, 2, c.Stats().Misses)
}
