package services

import (
	"context"

	"github.com/mioding/catalog-search/model"
)

// ProductStore executes predicates against the product catalog.
// Implementations must order results by product id so that paging is stable.
type ProductStore interface {
	// Count returns the number of products matching pred.
	Count(ctx context.Context, pred model.Predicate) (int, error)
	// Find returns matching products starting at offset. A limit <= 0 returns every match.
	Find(ctx context.Context, pred model.Predicate, offset, limit int) ([]model.Product, error)
	// DistinctValues returns the non-empty values of field with their counts,
	// ordered by count descending then value ascending.
	DistinctValues(ctx context.Context, field model.Field) ([]model.ValueCount, error)
	Close() error
}

// CatalogLoader replaces or merges the products a store serves.
type CatalogLoader interface {
	Load(ctx context.Context, products []model.Product) error
}

// Segmenter splits text into word tokens.
type Segmenter interface {
	Segment(text string) []string
}

// Transliterator renders text phonetically.
type Transliterator interface {
	// Full concatenates the full syllable of every character.
	Full(text string) string
	// Initials concatenates the first letter of every syllable.
	Initials(text string) string
}

// Searcher is the search surface consumed by the HTTP layer and the dialog engine.
type Searcher interface {
	Search(ctx context.Context, req model.SearchRequest) (model.SearchResult, error)
	AttributeValues(ctx context.Context, attribute, query string) ([]model.AttributeValue, error)
}

// AnalyticsManager records search events and reports on them.
type AnalyticsManager interface {
	TrackSearchEvent(event model.SearchEvent) error
	GetDashboardData() (model.AnalyticsDashboard, error)
}
