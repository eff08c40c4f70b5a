package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mioding/catalog-search/internal/engine"
	"github.com/mioding/catalog-search/internal/logging"
	"github.com/mioding/catalog-search/services"
)

// API holds dependencies for API handlers, primarily the catalog engine.
type API struct {
	engine          *engine.Engine
	analytics       services.AnalyticsManager
	defaultPageSize int
	logger          zerolog.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(eng *engine.Engine, defaultPageSize int, logger zerolog.Logger) *API {
	if defaultPageSize < 1 {
		defaultPageSize = 20
	}
	return &API{
		engine:          eng,
		analytics:       eng.Analytics,
		defaultPageSize: defaultPageSize,
		logger:          logger.With().Str("component", "api").Logger(),
	}
}

// SetupRoutes defines all the API routes of the catalog service.
func SetupRoutes(router *gin.Engine, api *API) {
	// Health check route
	router.GET("/health", api.HealthCheckHandler)

	// Analytics route
	router.GET("/analytics", api.GetAnalyticsHandler)

	// Product search routes
	productRoutes := router.Group("/products")
	{
		productRoutes.POST("/search", api.SearchHandler)
		productRoutes.POST("/multi-search", api.MultiSearchHandler)
		productRoutes.GET("/attributes/:attribute", api.AttributeValuesHandler)
	}

	// Dialog route
	router.POST("/dialog", api.DialogHandler)

	// Catalog maintenance routes, run as background jobs
	catalogRoutes := router.Group("/catalog")
	{
		catalogRoutes.POST("/reload", api.ReloadCatalogHandler)
		catalogRoutes.POST("/warm", api.WarmAttributesHandler)
	}

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", api.ListJobsHandler)
		jobRoutes.GET("/metrics", api.GetJobMetricsHandler)
		jobRoutes.GET("/:jobId", api.GetJobHandler)
	}
}

// requestLogger returns the API logger tagged with the request ID.
func (api *API) requestLogger(c *gin.Context) zerolog.Logger {
	return logging.FromContext(c.Request.Context(), api.logger)
}
