// Package api exposes catalog search, attribute lookup, dialog, analytics and
// job endpoints over HTTP with gin.
package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mioding/catalog-search/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidatePagination applies defaults to absent paging fields and rejects non-positive ones.
// Oversized page sizes pass through; the search service clamps them.
func ValidatePagination(page, pageSize *int, defaultPageSize int) (int, int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	p, size := 1, defaultPageSize
	if page != nil {
		p = *page
	}
	if pageSize != nil {
		size = *pageSize
	}

	if p < 1 {
		result.AddError("page", "Page number must be greater than 0")
	}
	if size < 1 {
		result.AddError("page_size", "Page size must be greater than 0")
	}

	return p, size, result
}

// CleanFilters drops blank values and labels left without a value. Such filters
// are ignored rather than rejected, the same way unknown labels are.
func CleanFilters(filters map[string][]string) map[string][]string {
	if len(filters) == 0 {
		return nil
	}
	cleaned := make(map[string][]string, len(filters))
	for label, values := range filters {
		if strings.TrimSpace(label) == "" {
			continue
		}
		kept := make([]string, 0, len(values))
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			cleaned[label] = kept
		}
	}
	return cleaned
}

// ValidateSearchRequest turns an API search body into a service request.
func ValidateSearchRequest(req SearchRequest, defaultPageSize int) (model.SearchRequest, *ValidationResult) {
	page, size, result := ValidatePagination(req.Page, req.PageSize, defaultPageSize)

	return model.SearchRequest{
		Query:    req.Query,
		Page:     page,
		PageSize: size,
		Filters:  CleanFilters(req.Filters),
	}, result
}

// ValidateAttributeName validates the attribute path parameter
func ValidateAttributeName(attribute string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(attribute) == "" {
		result.AddError("attribute", "Attribute name is required")
		return result
	}

	if strings.TrimSpace(attribute) != attribute {
		result.AddError("attribute", "Attribute name cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateDialogRequest validates the text of a dialog turn
func ValidateDialogRequest(req DialogRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(req.Text) == "" {
		result.AddError("text", "Text is required and cannot be empty")
	}

	return result
}

// ValidateJobStatus parses an optional status filter.
func ValidateJobStatus(status string) (*model.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	if status == "" {
		return nil, result
	}

	s := model.JobStatus(status)
	switch s {
	case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
		model.JobStatusFailed, model.JobStatusCancelled:
		return &s, result
	}
	result.AddError("status", "Unknown job status '"+status+"'")
	return nil, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
