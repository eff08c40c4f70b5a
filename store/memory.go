// Package store provides ProductStore adapters over an in-memory slice,
// a bleve index, and SQL databases.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mioding/catalog-search/model"
)

// Memory evaluates predicates directly against a product snapshot.
type Memory struct {
	mu       sync.RWMutex
	products []model.Product
}

// NewMemory creates a store over a copy of products, ordered by id.
func NewMemory(products []model.Product) *Memory {
	m := &Memory{}
	m.Replace(products)
	return m
}

// Replace swaps the snapshot atomically.
func (m *Memory) Replace(products []model.Product) {
	snapshot := make([]model.Product, len(products))
	copy(snapshot, products)
	sort.SliceStable(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })

	m.mu.Lock()
	m.products = snapshot
	m.mu.Unlock()
}

// Load replaces the snapshot with products.
func (m *Memory) Load(ctx context.Context, products []model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Replace(products)
	return nil
}

func (m *Memory) Count(ctx context.Context, pred model.Predicate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for i := range m.products {
		if pred.Eval(m.products[i]) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Find(ctx context.Context, pred model.Predicate, offset, limit int) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Product{}
	skipped := 0
	for i := range m.products {
		if !pred.Eval(m.products[i]) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, m.products[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) DistinctValues(ctx context.Context, field model.Field) ([]model.ValueCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	counts := make(map[string]int)
	for i := range m.products {
		if v := m.products[i].Value(field); v != "" {
			counts[v]++
		}
	}
	m.mu.RUnlock()
	return sortValueCounts(counts), nil
}

func (m *Memory) Close() error { return nil }

// sortValueCounts orders by count descending, then value ascending.
func sortValueCounts(counts map[string]int) []model.ValueCount {
	out := make([]model.ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, model.ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
