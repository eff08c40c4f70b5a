package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/mioding/catalog-search/internal/errors"
	"github.com/mioding/catalog-search/model"
	"github.com/mioding/catalog-search/store"
)

// ReloadCatalogAsync reads the catalog file at path and loads it into the store
// in the background. Memory and bleve stores replace their contents; SQL stores upsert.
func (e *Engine) ReloadCatalogAsync(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = e.cfg.Store.SeedFile
	}
	if path == "" {
		return "", errors.NewValidationError("path", "catalog path is required when no seed file is configured")
	}

	jobID := e.Jobs.CreateJob(model.JobTypeReloadCatalog, map[string]string{
		"operation": "reload_catalog",
		"path":      path,
	})

	err := e.Jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeReloadCatalogJob(ctx, path, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start reload catalog job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeReloadCatalogJob(ctx context.Context, path, jobID string) error {
	e.Jobs.UpdateJobProgress(jobID, 0, 2, "Reading catalog file")
	products, err := store.LoadCatalog(path)
	if err != nil {
		return err
	}

	e.Jobs.UpdateJobProgress(jobID, 1, 2, fmt.Sprintf("Loading %d products", len(products)))
	if err := e.loader.Load(ctx, products); err != nil {
		return fmt.Errorf("failed to load catalog into store: %w", err)
	}

	e.Jobs.UpdateJobProgress(jobID, 2, 2, fmt.Sprintf("Loaded %d products", len(products)))
	e.logger.Info().Str("path", path).Int("products", len(products)).Msg("Catalog reloaded")
	return nil
}

// WarmAttributesAsync computes the distinct value list of every display
// attribute in the background so the first attribute lookups hit the cache.
func (e *Engine) WarmAttributesAsync() (string, error) {
	jobID := e.Jobs.CreateJob(model.JobTypeWarmAttributes, map[string]string{
		"operation": "warm_attributes",
	})

	err := e.Jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeWarmAttributesJob(ctx, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start warm attributes job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeWarmAttributesJob(ctx context.Context, jobID string) error {
	total := len(model.DisplayAttributes)
	for i, attr := range model.DisplayAttributes {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Jobs.UpdateJobProgress(jobID, i, total, "Warming "+string(attr.Field))
		if _, err := e.Search.AttributeValues(ctx, string(attr.Field), ""); err != nil {
			return fmt.Errorf("failed to warm attribute %s: %w", attr.Field, err)
		}
	}
	e.Jobs.UpdateJobProgress(jobID, total, total, fmt.Sprintf("Warmed %d attributes", total))
	return nil
}
