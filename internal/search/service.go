// Package search runs catalog searches: planning, retrieval, ranking, facets and formatting.
package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mioding/catalog-search/internal/cache"
	"github.com/mioding/catalog-search/internal/errors"
	"github.com/mioding/catalog-search/internal/facets"
	"github.com/mioding/catalog-search/internal/fuzzy"
	"github.com/mioding/catalog-search/internal/query"
	"github.com/mioding/catalog-search/internal/textnorm"
	"github.com/mioding/catalog-search/model"
	"github.com/mioding/catalog-search/services"
)

const (
	DefaultPageSize    = 20
	DefaultMaxPageSize = 100
)

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	MaxPageSize int
	// AttributeCache holds distinct attribute values. Nil disables caching.
	AttributeCache *cache.TTLCache[[]model.AttributeValue]
	Logger         zerolog.Logger
}

// Service implements services.Searcher over a ProductStore.
type Service struct {
	store       services.ProductStore
	planner     *query.Planner
	matcher     *fuzzy.Matcher
	phonetic    services.Transliterator
	aggregator  *facets.Aggregator
	attrCache   *cache.TTLCache[[]model.AttributeValue]
	maxPageSize int
	logger      zerolog.Logger
	now         func() time.Time
}

// NewService creates a new search Service.
func NewService(
	store services.ProductStore,
	planner *query.Planner,
	matcher *fuzzy.Matcher,
	phonetic services.Transliterator,
	aggregator *facets.Aggregator,
	opts Options,
) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("product store cannot be nil")
	}
	if planner == nil || matcher == nil || phonetic == nil || aggregator == nil {
		return nil, fmt.Errorf("planner, matcher, phonetic indexer and aggregator are required")
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = DefaultMaxPageSize
	}
	return &Service{
		store:       store,
		planner:     planner,
		matcher:     matcher,
		phonetic:    phonetic,
		aggregator:  aggregator,
		attrCache:   opts.AttributeCache,
		maxPageSize: opts.MaxPageSize,
		logger:      opts.Logger.With().Str("component", "search").Logger(),
		now:         time.Now,
	}, nil
}

// Search validates req, retrieves one page of matches and the facets of the full match set.
func (s *Service) Search(ctx context.Context, req model.SearchRequest) (model.SearchResult, error) {
	start := s.now()

	if err := s.validate(&req); err != nil {
		return model.SearchResult{}, err
	}

	pred := s.planner.Plan(req)
	offset := (req.Page - 1) * req.PageSize

	// Count and page share pred so total agrees with the page contents.
	var (
		total int
		page  []model.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.Count(gctx, pred)
		if err != nil {
			return errors.NewRetrievalError("count", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		products, err := s.store.Find(gctx, pred, offset, req.PageSize)
		if err != nil {
			return errors.NewRetrievalError("find", err)
		}
		page = products
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.SearchResult{}, err
	}

	available := model.Facets{}
	if len(page) > 0 {
		all, err := s.store.Find(ctx, pred, 0, 0)
		if err != nil {
			return model.SearchResult{}, errors.NewRetrievalError("find all", err)
		}
		available = s.aggregator.Aggregate(ctx, all)
		page = s.rankedPage(req.Query, all, offset, req.PageSize, page)
	}

	result := model.SearchResult{
		Items:            s.format(page),
		Meta:             Paginate(total, req.Page, req.PageSize),
		AvailableFilters: available,
		QueryID:          uuid.New().String(),
	}
	result.Took = s.now().Sub(start).Milliseconds()

	s.logger.Debug().
		Str("query", req.Query).
		Str("query_id", result.QueryID).
		Int("total", total).
		Int("page", req.Page).
		Int64("took_ms", result.Took).
		Msg("Search completed")
	return result, nil
}

func (s *Service) validate(req *model.SearchRequest) error {
	if req.Page < 1 {
		return errors.NewValidationError("page", "must be greater than or equal to 1")
	}
	if req.PageSize < 1 {
		return errors.NewValidationError("page_size", "must be greater than or equal to 1")
	}
	if req.PageSize > s.maxPageSize {
		req.PageSize = s.maxPageSize
	}
	return nil
}

// Paginate computes page metadata. TotalPages is ceil(total/pageSize).
func Paginate(total, page, pageSize int) model.PageMeta {
	meta := model.PageMeta{Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}

// rankedPage orders the full match set by the strongest strategy matching the
// query and cuts the requested window from it. The sort is stable so equally
// ranked items keep their id order. Without a query the store page is kept.
func (s *Service) rankedPage(q string, all []model.Product, offset, pageSize int, page []model.Product) []model.Product {
	if q == "" || len(all) < 2 {
		return page
	}
	strength := make(map[string]fuzzy.Strategy, len(all))
	for _, p := range all {
		strength[p.ID] = s.matcher.Best(q, p.Name, p.ProductName)
	}
	ranked := make([]model.Product, len(all))
	copy(ranked, all)
	sort.SliceStable(ranked, func(i, j int) bool {
		return strength[ranked[i].ID] < strength[ranked[j].ID]
	})

	if offset >= len(ranked) {
		return page
	}
	end := offset + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[offset:end]
}

func (s *Service) format(page []model.Product) []model.FormattedProduct {
	items := make([]model.FormattedProduct, 0, len(page))
	for i := range page {
		if item, ok := s.formatProduct(&page[i]); ok {
			items = append(items, item)
		}
	}
	return items
}

// formatProduct exposes only non-empty attributes. A failure drops this item only.
func (s *Service) formatProduct(p *model.Product) (item model.FormattedProduct, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Err(errors.NewComputationError(p.ID, r)).Msg("Skipping product in result formatting")
			ok = false
		}
	}()

	attrs := make(map[string][]string)
	for _, a := range model.DisplayAttributes {
		if v := p.Value(a.Field); v != "" {
			attrs[a.Label] = []string{v}
		}
	}
	return model.FormattedProduct{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Attributes:  attrs,
	}, true
}

// AttributeValues lists the distinct values of an attribute, optionally fuzzy-filtered by q.
func (s *Service) AttributeValues(ctx context.Context, attribute, q string) ([]model.AttributeValue, error) {
	field, ok := model.FieldForAttribute(attribute)
	if !ok {
		return nil, errors.NewAttributeNotFoundError(attribute)
	}

	load := func(ctx context.Context) ([]model.AttributeValue, error) {
		counts, err := s.store.DistinctValues(ctx, field)
		if err != nil {
			return nil, errors.NewRetrievalError("distinct values", err)
		}
		values := make([]model.AttributeValue, len(counts))
		for i, c := range counts {
			values[i] = model.AttributeValue{
				Value:      c.Value,
				Count:      c.Count,
				Phonetic:   s.phonetic.Full(c.Value),
				Normalized: textnorm.Normalize(c.Value),
			}
		}
		return values, nil
	}

	var (
		values []model.AttributeValue
		err    error
	)
	if s.attrCache != nil {
		values, err = s.attrCache.GetOrCompute(ctx, "attrs:"+string(field), load)
	} else {
		values, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}

	if q == "" {
		return values, nil
	}
	filtered := make([]model.AttributeValue, 0, len(values))
	for _, v := range values {
		if s.matcher.Matches(v.Value, q) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}
