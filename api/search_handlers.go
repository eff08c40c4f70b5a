package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mioding/catalog-search/internal/analytics"
	"github.com/mioding/catalog-search/internal/search"
	"github.com/mioding/catalog-search/model"
)

// SearchRequest is the JSON body of a product search. Absent paging fields take defaults.
type SearchRequest struct {
	Query    string              `json:"query"`
	Page     *int                `json:"page,omitempty"`
	PageSize *int                `json:"page_size,omitempty"`
	Filters  map[string][]string `json:"filters,omitempty"`
}

// SearchResponse wraps a search result in the success envelope.
type SearchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	model.SearchResult
}

// MultiSearchRequest represents the JSON request for multi-search
type MultiSearchRequest struct {
	Queries []NamedSearchRequest `json:"queries"`
}

// NamedSearchRequest represents a single named search query in the request
type NamedSearchRequest struct {
	Name string `json:"name"`
	SearchRequest
}

// AttributeValuesResponse lists the distinct values of one attribute.
type AttributeValuesResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    []model.AttributeValue `json:"data"`
}

// DialogRequest is one conversational turn.
type DialogRequest struct {
	Text string `json:"text"`
}

// SearchHandler handles POST /products/search.
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()

	var body SearchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		SendBindError(c, err)
		return
	}

	req, result := ValidateSearchRequest(body, api.defaultPageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	res, err := api.engine.Search.Search(c.Request.Context(), req)
	if err != nil {
		SendServiceError(c, "search", err)
		return
	}

	api.trackSearch(c, model.SearchEvent{
		Query:        req.Query,
		SearchType:   analytics.ClassifyRequest(req),
		ResponseTime: time.Since(startTime),
		ResultCount:  res.Meta.Total,
	})

	c.JSON(http.StatusOK, SearchResponse{Success: true, Message: "ok", SearchResult: res})
}

// MultiSearchHandler handles POST /products/multi-search.
func (api *API) MultiSearchHandler(c *gin.Context) {
	startTime := time.Now()

	var body MultiSearchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		SendBindError(c, err)
		return
	}

	result := &ValidationResult{Valid: true}
	if len(body.Queries) == 0 {
		result.AddError("queries", "At least one query is required")
	}
	queryNames := make(map[string]bool, len(body.Queries))
	requests := make([]search.NamedRequest, 0, len(body.Queries))
	for _, q := range body.Queries {
		if q.Name == "" {
			result.AddError("queries", "All queries must have a non-empty name")
			continue
		}
		if queryNames[q.Name] {
			result.AddError("queries", "Query names must be unique: '"+q.Name+"' appears multiple times")
			continue
		}
		queryNames[q.Name] = true

		req, r := ValidateSearchRequest(q.SearchRequest, api.defaultPageSize)
		for _, e := range r.Errors {
			result.AddError("queries["+q.Name+"]."+e.Field, e.Message)
		}
		requests = append(requests, search.NamedRequest{Name: q.Name, Request: req})
	}
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	res, err := api.engine.Search.MultiSearch(c.Request.Context(), requests)
	if err != nil {
		SendServiceError(c, "multi-search", err)
		return
	}

	elapsed := time.Since(startTime)
	for _, nr := range requests {
		api.trackSearch(c, model.SearchEvent{
			Query:        nr.Request.Query,
			SearchType:   analytics.ClassifyRequest(nr.Request),
			ResponseTime: elapsed,
			ResultCount:  res.Results[nr.Name].Meta.Total,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ok",
		"data":    res,
	})
}

// AttributeValuesHandler handles GET /products/attributes/:attribute?query=.
func (api *API) AttributeValuesHandler(c *gin.Context) {
	attribute := c.Param("attribute")
	if result := ValidateAttributeName(attribute); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	values, err := api.engine.Search.AttributeValues(c.Request.Context(), attribute, c.Query("query"))
	if err != nil {
		SendServiceError(c, "attribute lookup", err)
		return
	}

	c.JSON(http.StatusOK, AttributeValuesResponse{Success: true, Message: "ok", Data: values})
}

// DialogHandler handles POST /dialog.
func (api *API) DialogHandler(c *gin.Context) {
	startTime := time.Now()

	var body DialogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		SendBindError(c, err)
		return
	}
	if result := ValidateDialogRequest(body); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	reply, err := api.engine.Dialog.Respond(c.Request.Context(), body.Text)
	if err != nil {
		SendServiceError(c, "dialog", err)
		return
	}

	api.trackSearch(c, model.SearchEvent{
		Query:        body.Text,
		SearchType:   model.SearchTypeDialog,
		ResponseTime: time.Since(startTime),
		ResultCount:  reply.Total,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "ok",
		"data":    reply,
	})
}

// trackSearch records an analytics event. Failures are logged, never returned.
func (api *API) trackSearch(c *gin.Context, event model.SearchEvent) {
	if err := api.analytics.TrackSearchEvent(event); err != nil {
		logger := api.requestLogger(c)
		logger.Warn().Err(err).Msg("Failed to track search event")
	}
}
