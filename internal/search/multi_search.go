package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mioding/catalog-search/internal/errors"
	"github.com/mioding/catalog-search/model"
)

// NamedRequest is one entry of a multi-search.
type NamedRequest struct {
	Name    string              `json:"name"`
	Request model.SearchRequest `json:"request"`
}

// MultiSearchResult holds the result of every named request.
type MultiSearchResult struct {
	Results          map[string]model.SearchResult `json:"results"`
	TotalQueries     int                           `json:"total_queries"`
	ProcessingTimeMs float64                       `json:"processing_time_ms"`
}

// MultiSearch executes multiple named searches in parallel. The first failure cancels the rest.
func (s *Service) MultiSearch(ctx context.Context, requests []NamedRequest) (*MultiSearchResult, error) {
	start := time.Now()

	if len(requests) == 0 {
		return nil, errors.NewValidationError("queries", "at least one query is required")
	}
	seen := make(map[string]bool, len(requests))
	for _, nr := range requests {
		if nr.Name == "" {
			return nil, errors.NewValidationError("queries", "each query must have a non-empty name")
		}
		if seen[nr.Name] {
			return nil, errors.NewValidationError("queries", fmt.Sprintf("duplicate query name '%s'", nr.Name))
		}
		seen[nr.Name] = true
	}

	results := make([]model.SearchResult, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	for i, nr := range requests {
		g.Go(func() error {
			res, err := s.Search(gctx, nr.Request)
			if err != nil {
				return fmt.Errorf("error executing query '%s': %w", nr.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byName := make(map[string]model.SearchResult, len(requests))
	for i, nr := range requests {
		byName[nr.Name] = results[i]
	}
	return &MultiSearchResult{
		Results:          byName,
		TotalQueries:     len(requests),
		ProcessingTimeMs: float64(time.Since(start).Nanoseconds()) / 1e6,
	}, nil
}
