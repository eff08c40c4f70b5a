package cache

import (
	"context"
	"sync"
	"time"
)

// Memory keeps entries in a sync.Map. Saves swap the entry pointer atomically
// and the sweep only deletes the exact entry it judged expired, so a fresh
// write racing with the sweep always survives.
type Memory[V any] struct {
	entries sync.Map // string -> *Entry[V]
}

// NewMemory creates an empty in-process store.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{}
}

func (m *Memory[V]) Load(_ context.Context, key string) (*Entry[V], error) {
	v, ok := m.entries.Load(key)
	if !ok {
		return nil, nil
	}
	return v.(*Entry[V]), nil
}

func (m *Memory[V]) Save(_ context.Context, key string, entry *Entry[V], _ time.Duration) error {
	m.entries.Store(key, entry)
	return nil
}

func (m *Memory[V]) Sweep(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	evicted := 0
	m.entries.Range(func(key, value any) bool {
		if ctx.Err() != nil {
			return false
		}
		entry := value.(*Entry[V])
		if entry.Expired(now, ttl) && m.entries.CompareAndDelete(key, entry) {
			evicted++
		}
		return true
	})
	// Cancellation stops the sweep early and is not reported.
	return evicted, nil
}

// Len counts stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (m *Memory[V]) Close() error { return nil }
