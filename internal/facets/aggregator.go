// Package facets computes per-attribute value counts over a matched product set.
package facets

import (
	"context"
	"encoding/hex"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/mioding/catalog-search/internal/cache"
	"github.com/mioding/catalog-search/internal/errors"
	"github.com/mioding/catalog-search/model"
)

// Digest identifies a product set by content: xxhash64 over the sorted,
// NUL-separated product ids. Order of the input does not matter.
func Digest(products []model.Product) string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	sort.Strings(ids)

	h := xxhash.New()
	for _, id := range ids {
		_, _ = h.WriteString(id)
		_, _ = h.Write([]byte{0})
	}
	var sum [8]byte
	return hex.EncodeToString(h.Sum(sum[:0]))
}

// Aggregator counts facet values, caching results by Digest.
type Aggregator struct {
	cache  *cache.TTLCache[model.Facets]
	logger zerolog.Logger
	value  func(model.Product, model.Field) string
}

// NewAggregator creates an Aggregator. A nil cache disables caching.
func NewAggregator(c *cache.TTLCache[model.Facets], logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		cache:  c,
		logger: logger.With().Str("component", "facets").Logger(),
		value:  model.Product.Value,
	}
}

// Aggregate returns label -> value -> count for products. The returned map
// may be shared with other callers through the cache and must not be modified.
func (a *Aggregator) Aggregate(ctx context.Context, products []model.Product) model.Facets {
	if a.cache == nil {
		return a.compute(products)
	}
	facets, _ := a.cache.GetOrCompute(ctx, "facets:"+Digest(products), func(context.Context) (model.Facets, error) {
		return a.compute(products), nil
	})
	return facets
}

func (a *Aggregator) compute(products []model.Product) model.Facets {
	facets := make(model.Facets, len(model.FacetAttributes))
	for i := range products {
		a.countProduct(facets, &products[i])
	}
	return facets
}

// countProduct adds one product's values. A failure skips only this product.
func (a *Aggregator) countProduct(facets model.Facets, p *model.Product) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn().Err(errors.NewComputationError(p.ID, r)).Msg("Skipping product in facet aggregation")
		}
	}()

	// Count into a scratch table first so a failure leaves no partial contribution.
	local := make(map[string]string, len(model.FacetAttributes))
	for _, attr := range model.FacetAttributes {
		if v := a.value(*p, attr.Field); v != "" {
			local[attr.Label] = v
		}
	}
	for label, v := range local {
		values, ok := facets[label]
		if !ok {
			values = make(map[string]int)
			facets[label] = values
		}
		values[v]++
	}
}
