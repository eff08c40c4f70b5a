package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	bleve "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/mioding/catalog-search/model"
)

const (
	exactSuffix = "_exact"
	batchSize   = 1000
)

// Bleve serves predicates from an in-memory bleve index. Every text column is
// indexed twice as a single keyword term: lower-cased under its own name for
// Contains, verbatim under "<name>_exact" for Equals. Empty values are not indexed.
type Bleve struct {
	mu       sync.RWMutex
	index    bleve.Index
	products map[string]model.Product
}

// NewBleve builds the index from products.
func NewBleve(products []model.Product) (*Bleve, error) {
	b := &Bleve{}
	if err := b.Load(context.Background(), products); err != nil {
		return nil, err
	}
	return b, nil
}

func buildIndexMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	kw := bleve.NewTextFieldMapping()
	kw.Analyzer = keyword.Name
	kw.Store = false
	kw.Index = true
	kw.IncludeInAll = false

	for _, f := range model.TextFields {
		doc.AddFieldMappingsAt(string(f), kw)
		doc.AddFieldMappingsAt(string(f)+exactSuffix, kw)
	}
	m.DefaultMapping = doc
	return m
}

func document(p model.Product) map[string]interface{} {
	doc := make(map[string]interface{}, 2*len(model.TextFields))
	for _, f := range model.TextFields {
		v := p.Value(f)
		if v == "" {
			continue
		}
		doc[string(f)] = strings.ToLower(v)
		doc[string(f)+exactSuffix] = v
	}
	return doc
}

// Load builds a fresh index from products and swaps it in. The previous index is closed.
func (b *Bleve) Load(ctx context.Context, products []model.Product) error {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return err
	}

	byID := make(map[string]model.Product, len(products))
	batch := idx.NewBatch()
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			_ = idx.Close()
			return err
		}
		if err := batch.Index(p.ID, document(p)); err != nil {
			_ = idx.Close()
			return err
		}
		byID[p.ID] = p
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				_ = idx.Close()
				return err
			}
			batch = idx.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			_ = idx.Close()
			return err
		}
	}

	b.mu.Lock()
	old := b.index
	b.index, b.products = idx, byID
	b.mu.Unlock()

	if old != nil {
		return old.Close()
	}
	return nil
}

// toQuery translates a predicate into a bleve query with the same semantics as Predicate.Eval.
func toQuery(p model.Predicate) (query.Query, error) {
	switch p.Op {
	case model.OpMatchAll:
		return bleve.NewMatchAllQuery(), nil
	case model.OpMatchNone:
		return bleve.NewMatchNoneQuery(), nil
	case model.OpContains:
		if p.Value == "" {
			return bleve.NewMatchAllQuery(), nil
		}
		q := bleve.NewRegexpQuery(".*" + regexp.QuoteMeta(strings.ToLower(p.Value)) + ".*")
		q.SetField(string(p.Field))
		return q, nil
	case model.OpEquals:
		if p.Value == "" {
			// Empty values are never indexed: match documents lacking the field.
			present := bleve.NewRegexpQuery(".+")
			present.SetField(string(p.Field) + exactSuffix)
			q := bleve.NewBooleanQuery()
			q.AddMust(bleve.NewMatchAllQuery())
			q.AddMustNot(present)
			return q, nil
		}
		q := bleve.NewTermQuery(p.Value)
		q.SetField(string(p.Field) + exactSuffix)
		return q, nil
	case model.OpAnd, model.OpOr:
		children := make([]query.Query, 0, len(p.Children))
		for _, c := range p.Children {
			q, err := toQuery(c)
			if err != nil {
				return nil, err
			}
			children = append(children, q)
		}
		if p.Op == model.OpAnd {
			return bleve.NewConjunctionQuery(children...), nil
		}
		return bleve.NewDisjunctionQuery(children...), nil
	}
	return nil, fmt.Errorf("unsupported predicate op %d", p.Op)
}

func (b *Bleve) Count(ctx context.Context, pred model.Predicate) (int, error) {
	q, err := toQuery(pred)
	if err != nil {
		return 0, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(q, 0, 0, false)
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return 0, err
	}
	return int(res.Total), nil
}

func (b *Bleve) Find(ctx context.Context, pred model.Predicate, offset, limit int) ([]model.Product, error) {
	q, err := toQuery(pred)
	if err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if limit <= 0 {
		n, err := b.index.DocCount()
		if err != nil {
			return nil, err
		}
		limit = int(n)
	}
	if offset < 0 {
		offset = 0
	}
	out := []model.Product{}
	if limit == 0 {
		return out, nil
	}

	req := bleve.NewSearchRequestOptions(q, limit, offset, false)
	req.SortBy([]string{"_id"})
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	for _, hit := range res.Hits {
		if p, ok := b.products[hit.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (b *Bleve) DistinctValues(ctx context.Context, field model.Field) ([]model.ValueCount, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n, err := b.index.DocCount()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []model.ValueCount{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), 0, 0, false)
	req.AddFacet("values", bleve.NewFacetRequest(string(field)+exactSuffix, int(n)))
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	if facet, ok := res.Facets["values"]; ok && facet.Terms != nil {
		for _, term := range facet.Terms.Terms() {
			counts[term.Term] = term.Count
		}
	}
	return sortValueCounts(counts), nil
}

func (b *Bleve) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index.Close()
}
