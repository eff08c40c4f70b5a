// Package engine wires the catalog components together from an AppConfig:
// store, caches, query planner, search, dialog, analytics and background jobs.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mioding/catalog-search/config"
	"github.com/mioding/catalog-search/internal/analytics"
	"github.com/mioding/catalog-search/internal/cache"
	"github.com/mioding/catalog-search/internal/dialog"
	"github.com/mioding/catalog-search/internal/facets"
	"github.com/mioding/catalog-search/internal/fuzzy"
	"github.com/mioding/catalog-search/internal/jobs"
	"github.com/mioding/catalog-search/internal/phonetic"
	"github.com/mioding/catalog-search/internal/query"
	"github.com/mioding/catalog-search/internal/search"
	"github.com/mioding/catalog-search/internal/tokenizer"
	"github.com/mioding/catalog-search/model"
	"github.com/mioding/catalog-search/services"
	"github.com/mioding/catalog-search/store"
)

const maxJobWorkers = 2

// Store drivers.
const (
	DriverMemory = "memory"
	DriverBleve  = "bleve"
)

// Cache drivers.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Engine owns every long-lived component of the service.
type Engine struct {
	cfg    config.AppConfig
	logger zerolog.Logger

	Store     services.ProductStore
	Search    *search.Service
	Dialog    *dialog.Engine
	Analytics *analytics.Service
	Jobs      *jobs.Manager

	loader     services.CatalogLoader
	facetCache *cache.TTLCache[model.Facets]
	attrCache  *cache.TTLCache[[]model.AttributeValue]
	redis      *redis.Client

	closeOnce sync.Once
}

// New builds an Engine from cfg. The returned engine owns its store and caches;
// call Close to release them.
func New(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger) (*Engine, error) {
	e := &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "engine").Logger(),
	}

	seg, err := tokenizer.New(cfg.Search.Segmenter, cfg.Search.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("failed to create segmenter: %w", err)
	}
	translit := phonetic.New()
	matcher := fuzzy.NewMatcher(translit, seg)
	planner := query.NewPlanner(seg, cfg.Search.BrandRules)

	if err := e.openStore(ctx); err != nil {
		return nil, err
	}
	if err := e.openCaches(ctx); err != nil {
		_ = e.Store.Close()
		return nil, err
	}

	svc, err := search.NewService(e.Store, planner, matcher, translit,
		facets.NewAggregator(e.facetCache, logger),
		search.Options{
			MaxPageSize:    cfg.Search.MaxPageSize,
			AttributeCache: e.attrCache,
			Logger:         logger,
		})
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}
	e.Search = svc
	e.Dialog = dialog.NewEngine(svc, cfg.Search.KnownBrands, logger)
	e.Analytics = analytics.NewService()
	e.Jobs = jobs.NewManager(maxJobWorkers, logger)

	e.logger.Info().
		Str("store", cfg.Store.Driver).
		Str("cache", cfg.Cache.Driver).
		Str("segmenter", cfg.Search.Segmenter).
		Msg("Engine initialised")
	return e, nil
}

func (e *Engine) openStore(ctx context.Context) error {
	var seed []model.Product
	if path := e.cfg.Store.SeedFile; path != "" {
		products, err := store.LoadCatalog(path)
		if err != nil {
			return fmt.Errorf("failed to load seed catalog: %w", err)
		}
		seed = products
	}

	switch e.cfg.Store.Driver {
	case DriverMemory, "":
		s := store.NewMemory(seed)
		e.Store, e.loader = s, s
	case DriverBleve:
		s, err := store.NewBleve(seed)
		if err != nil {
			return fmt.Errorf("failed to build bleve index: %w", err)
		}
		e.Store, e.loader = s, s
	case store.DriverSQLite, store.DriverPostgres:
		s, err := store.NewSQL(ctx, e.cfg.Store.Driver, e.cfg.Store.DSN)
		if err != nil {
			return err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close()
			return err
		}
		if len(seed) > 0 {
			if err := s.Insert(ctx, seed); err != nil {
				_ = s.Close()
				return fmt.Errorf("failed to seed %s store: %w", e.cfg.Store.Driver, err)
			}
		}
		e.Store, e.loader = s, s
	default:
		return fmt.Errorf("unknown store driver %q", e.cfg.Store.Driver)
	}

	e.logger.Info().Str("driver", e.cfg.Store.Driver).Int("seeded", len(seed)).Msg("Product store ready")
	return nil
}

func (e *Engine) openCaches(ctx context.Context) error {
	opts := cache.Options{Logger: &e.logger}
	ttl := e.cfg.Cache.TTL

	switch e.cfg.Cache.Driver {
	case CacheMemory, "":
		e.facetCache = cache.New[model.Facets]("facets", cache.NewMemory[model.Facets](), ttl, opts)
		e.attrCache = cache.New[[]model.AttributeValue]("attrs", cache.NewMemory[[]model.AttributeValue](), ttl, opts)
	case CacheRedis:
		rc := e.cfg.Cache.Redis
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
			Prefix:   rc.Prefix,
		})
		if err != nil {
			return err
		}
		e.redis = client
		e.facetCache = cache.New[model.Facets]("facets", cache.NewRedis[model.Facets](client, rc.Prefix, "facets"), ttl, opts)
		e.attrCache = cache.New[[]model.AttributeValue]("attrs", cache.NewRedis[[]model.AttributeValue](client, rc.Prefix, "attrs"), ttl, opts)
	default:
		return fmt.Errorf("unknown cache driver %q", e.cfg.Cache.Driver)
	}
	return nil
}

// Start launches the cache sweepers and the job manager. They stop when ctx
// is cancelled or Close is called.
func (e *Engine) Start(ctx context.Context) {
	e.facetCache.Start(ctx)
	e.attrCache.Start(ctx)
	e.Jobs.Start()
}

// Close stops background work and releases the caches and the store.
func (e *Engine) Close() error {
	var errs []error
	e.closeOnce.Do(func() {
		if e.Jobs != nil {
			e.Jobs.Stop()
		}
		if e.facetCache != nil {
			e.facetCache.Stop()
			errs = append(errs, e.facetCache.Close())
		}
		if e.attrCache != nil {
			e.attrCache.Stop()
			errs = append(errs, e.attrCache.Close())
		}
		if e.redis != nil {
			errs = append(errs, e.redis.Close())
		}
		if e.Store != nil {
			errs = append(errs, e.Store.Close())
		}
		e.logger.Info().Msg("Engine closed")
	})
	return stderrors.Join(errs...)
}

// Health reports whether the store and, when configured, redis answer.
type Health struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Cache    string `json:"cache"`
	Products int    `json:"products"`
}

// Health probes the store and the cache backend.
func (e *Engine) Health(ctx context.Context) (Health, error) {
	h := Health{Status: "ok", Store: e.cfg.Store.Driver, Cache: e.cfg.Cache.Driver}
	if h.Store == "" {
		h.Store = DriverMemory
	}
	if h.Cache == "" {
		h.Cache = CacheMemory
	}

	n, err := e.Store.Count(ctx, model.MatchAll())
	if err != nil {
		h.Status = "degraded"
		return h, fmt.Errorf("store unavailable: %w", err)
	}
	h.Products = n

	if e.redis != nil {
		if err := e.redis.Ping(ctx).Err(); err != nil {
			h.Status = "degraded"
			return h, fmt.Errorf("redis unavailable: %w", err)
		}
	}
	return h, nil
}
