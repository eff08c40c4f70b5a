// Package cache provides the TTL caches for facet tables and attribute values.
//
// A TTLCache owns expiry checks, statistics and the background sweeper; the
// Store behind it only keeps entries. Entries are replaced whole and never
// mutated, so concurrent readers always see a complete value.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Entry wraps a cached value with its creation time.
type Entry[V any] struct {
	Value     V         `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the entry is older than ttl at now.
func (e *Entry[V]) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) > ttl
}

// Store keeps entries for a TTLCache.
type Store[V any] interface {
	// Load returns the entry for key. A missing key is (nil, nil).
	Load(ctx context.Context, key string) (*Entry[V], error)
	// Save replaces the entry for key.
	Save(ctx context.Context, key string, entry *Entry[V], ttl time.Duration) error
	// Sweep evicts entries expired at now and returns how many were removed.
	Sweep(ctx context.Context, now time.Time, ttl time.Duration) (int, error)
	Close() error
}

// Stats counts cache outcomes since creation.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Options configures a TTLCache. Zero values select SystemClock and a no-op logger.
type Options struct {
	Clock  Clock
	Logger *zerolog.Logger
}

// TTLCache is a process-wide cache with time-based expiry.
// Errors from the store never reach callers: a failed read is a miss and a
// failed write is logged and dropped.
type TTLCache[V any] struct {
	name   string
	store  Store[V]
	ttl    time.Duration
	clock  Clock
	logger zerolog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a cache named name over store.
func New[V any](name string, store Store[V], ttl time.Duration, opts Options) *TTLCache[V] {
	c := &TTLCache[V]{
		name:   name,
		store:  store,
		ttl:    ttl,
		clock:  opts.Clock,
		logger: zerolog.Nop(),
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if opts.Logger != nil {
		c.logger = opts.Logger.With().Str("component", "cache").Str("cache", name).Logger()
	}
	return c
}

// TTL returns the configured time to live.
func (c *TTLCache[V]) TTL() time.Duration { return c.ttl }

// GetEntry returns the live entry for key.
func (c *TTLCache[V]) GetEntry(ctx context.Context, key string) (*Entry[V], bool) {
	entry, err := c.store.Load(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		c.misses.Add(1)
		return nil, false
	}
	if entry == nil || entry.Expired(c.clock.Now(), c.ttl) {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry, true
}

// Get returns the live value for key.
func (c *TTLCache[V]) Get(ctx context.Context, key string) (V, bool) {
	entry, ok := c.GetEntry(ctx, key)
	if !ok {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// Put stores value under key, replacing any previous entry.
func (c *TTLCache[V]) Put(ctx context.Context, key string, value V) {
	entry := &Entry[V]{Value: value, CreatedAt: c.clock.Now()}
	if err := c.store.Save(ctx, key, entry, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// GetOrCompute returns the cached value for key or computes and stores it.
// Two callers racing on the same key may both compute; the last write wins.
func (c *TTLCache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Put(ctx, key, v)
	return v, nil
}

// Sweep evicts expired entries once.
func (c *TTLCache[V]) Sweep(ctx context.Context) int {
	n, err := c.store.Sweep(ctx, c.clock.Now(), c.ttl)
	if err != nil && ctx.Err() == nil {
		c.logger.Warn().Err(err).Msg("Cache sweep failed")
	}
	if n > 0 {
		c.evictions.Add(int64(n))
		c.logger.Debug().Int("evicted", n).Msg("Cache sweep")
	}
	return n
}

// Start launches the background sweeper, ticking every TTL until ctx is
// cancelled or Stop is called. Calling Start twice is a no-op.
func (c *TTLCache[V]) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil || c.ttl <= 0 {
		return
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.sweepLoop(ctx, c.done)
}

func (c *TTLCache[V]) sweepLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Stop cancels the sweeper and waits for it to exit.
func (c *TTLCache[V]) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Close stops the sweeper and closes the store.
func (c *TTLCache[V]) Close() error {
	c.Stop()
	return c.store.Close()
}

// Stats returns a snapshot of the counters.
func (c *TTLCache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
