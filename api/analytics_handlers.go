package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	dashboard, err := api.analytics.GetDashboardData()
	if err != nil {
		SendInternalError(c, "retrieve analytics data", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// HealthCheckHandler probes the product store and the cache backend.
func (api *API) HealthCheckHandler(c *gin.Context) {
	health, err := api.engine.Health(c.Request.Context())
	if err != nil {
		logger := api.requestLogger(c)
		logger.Warn().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    health.Status,
			"service":   "catalog-search",
			"error":     err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    health.Status,
		"service":   "catalog-search",
		"store":     health.Store,
		"cache":     health.Cache,
		"products":  health.Products,
		"timestamp": time.Now().UTC(),
	})
}
