package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mioding/catalog-search/internal/errors"
)

// ReloadCatalogRequest names the catalog file to load. An empty path reloads the configured seed file.
type ReloadCatalogRequest struct {
	Path string `json:"path"`
}

// ReloadCatalogHandler starts a catalog reload job.
func (api *API) ReloadCatalogHandler(c *gin.Context) {
	var req ReloadCatalogRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			SendBindError(c, err)
			return
		}
	}

	jobID, err := api.engine.ReloadCatalogAsync(req.Path)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			SendServiceError(c, "reload catalog", err)
			return
		}
		SendJobExecutionError(c, "reload catalog", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Catalog reload started",
		"job_id":  jobID,
	})
}

// WarmAttributesHandler starts an attribute cache warm-up job.
func (api *API) WarmAttributesHandler(c *gin.Context) {
	jobID, err := api.engine.WarmAttributesAsync()
	if err != nil {
		SendJobExecutionError(c, "warm attributes", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Attribute warm-up started",
		"job_id":  jobID,
	})
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.engine.Jobs.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, newest first, optionally filtered by ?status=.
func (api *API) ListJobsHandler(c *gin.Context) {
	status, result := ValidateJobStatus(c.Query("status"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobs := api.engine.Jobs.ListJobs(status)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":          api.engine.Jobs.GetMetrics(),
		"success_rate":     api.engine.Jobs.GetJobSuccessRate(),
		"current_workload": api.engine.Jobs.GetCurrentWorkload(),
	})
}
