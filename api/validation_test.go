package api

import (
	"reflect"
	"testing"

	"github.com/mioding/catalog-search/model"
)

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	if result.Valid {
		t.Error("Expected Valid to be false after adding error")
	}

	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(result.Errors))
	}

	if result.Errors[0].Field != "field1" {
		t.Errorf("Expected field 'field1', got '%s'", result.Errors[0].Field)
	}

	if result.Errors[0].Message != "error message" {
		t.Errorf("Expected message 'error message', got '%s'", result.Errors[0].Message)
	}
}

func TestValidationResult_HasErrors(t *testing.T) {
	result := &ValidationResult{Valid: true}

	if result.HasErrors() {
		t.Error("Expected HasErrors to be false for empty result")
	}

	result.AddError("field", "message")

	if !result.HasErrors() {
		t.Error("Expected HasErrors to be true after adding error")
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name             string
		page             *int
		pageSize         *int
		expectedPage     int
		expectedPageSize int
		expectedErrors   []string
	}{
		{
			name:             "absent values take defaults",
			expectedPage:     1,
			expectedPageSize: 20,
		},
		{
			name:             "explicit values kept",
			page:             intPtr(3),
			pageSize:         intPtr(5),
			expectedPage:     3,
			expectedPageSize: 5,
		},
		{
			name:             "oversized page size passes through",
			page:             intPtr(1),
			pageSize:         intPtr(500),
			expectedPage:     1,
			expectedPageSize: 500,
		},
		{
			name:             "zero page",
			page:             intPtr(0),
			expectedPage:     0,
			expectedPageSize: 20,
			expectedErrors:   []string{"page"},
		},
		{
			name:             "negative values",
			page:             intPtr(-1),
			pageSize:         intPtr(0),
			expectedPage:     -1,
			expectedPageSize: 0,
			expectedErrors:   []string{"page", "page_size"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize, result := ValidatePagination(tt.page, tt.pageSize, 20)

			if page != tt.expectedPage {
				t.Errorf("Expected page %d, got %d", tt.expectedPage, page)
			}
			if pageSize != tt.expectedPageSize {
				t.Errorf("Expected page size %d, got %d", tt.expectedPageSize, pageSize)
			}
			if len(result.Errors) != len(tt.expectedErrors) {
				t.Fatalf("Expected %d errors, got %d: %+v", len(tt.expectedErrors), len(result.Errors), result.Errors)
			}
			for i, field := range tt.expectedErrors {
				if result.Errors[i].Field != field {
					t.Errorf("Expected error on %s, got %s", field, result.Errors[i].Field)
				}
			}
		})
	}
}

func TestCleanFilters(t *testing.T) {
	tests := []struct {
		name     string
		filters  map[string][]string
		expected map[string][]string
	}{
		{"nil filters", nil, nil},
		{"valid filter", map[string][]string{model.LabelBrand: {"联塑", "伟星"}}, map[string][]string{model.LabelBrand: {"联塑", "伟星"}}},
		{"unknown label is kept for the planner to ignore", map[string][]string{"口味": {"甜"}}, map[string][]string{"口味": {"甜"}}},
		{"blank label dropped", map[string][]string{" ": {"联塑"}}, map[string][]string{}},
		{"no values dropped", map[string][]string{model.LabelBrand: {}}, map[string][]string{}},
		{"blank values dropped", map[string][]string{model.LabelBrand: {"", "  ", "伟星"}}, map[string][]string{model.LabelBrand: {"伟星"}}},
		{"only blank values dropped", map[string][]string{model.LabelBrand: {"", "  "}, model.LabelColor: {"白色"}}, map[string][]string{model.LabelColor: {"白色"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanFilters(tt.filters)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestValidateSearchRequest(t *testing.T) {
	req, result := ValidateSearchRequest(SearchRequest{
		Query:   "pvc 50",
		Filters: map[string][]string{model.LabelColor: {"白色"}},
	}, 20)

	if result.HasErrors() {
		t.Fatalf("Expected no errors, got %+v", result.Errors)
	}
	if req.Query != "pvc 50" || req.Page != 1 || req.PageSize != 20 {
		t.Errorf("Unexpected request %+v", req)
	}
	if len(req.Filters[model.LabelColor]) != 1 {
		t.Errorf("Expected filters to be carried over, got %v", req.Filters)
	}

	req, result = ValidateSearchRequest(SearchRequest{
		Filters: map[string][]string{model.LabelColor: {}, model.LabelBrand: {" "}},
	}, 20)
	if result.HasErrors() {
		t.Errorf("Expected empty filters to be ignored, got %+v", result.Errors)
	}
	if len(req.Filters) != 0 {
		t.Errorf("Expected empty filters to be dropped, got %v", req.Filters)
	}

	_, result = ValidateSearchRequest(SearchRequest{Page: intPtr(0)}, 20)
	if len(result.Errors) != 1 {
		t.Errorf("Expected a paging error, got %+v", result.Errors)
	}
}

func TestValidateAttributeName(t *testing.T) {
	tests := []struct {
		name        string
		attribute   string
		expectError bool
	}{
		{"field name", "brand", false},
		{"display label", model.LabelBrand, false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"surrounding whitespace", " brand ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAttributeName(tt.attribute)
			if result.HasErrors() != tt.expectError {
				t.Errorf("Expected error=%v, got %+v", tt.expectError, result.Errors)
			}
		})
	}
}

func TestValidateDialogRequest(t *testing.T) {
	if result := ValidateDialogRequest(DialogRequest{Text: "联塑 dn110"}); result.HasErrors() {
		t.Errorf("Expected no errors, got %+v", result.Errors)
	}
	if result := ValidateDialogRequest(DialogRequest{Text: " \t"}); !result.HasErrors() {
		t.Error("Expected blank text to be rejected")
	}
}

func TestValidateJobStatus(t *testing.T) {
	status, result := ValidateJobStatus("")
	if status != nil || result.HasErrors() {
		t.Errorf("Expected no filter for empty status, got %v %+v", status, result.Errors)
	}

	status, result = ValidateJobStatus("running")
	if result.HasErrors() || status == nil || *status != model.JobStatusRunning {
		t.Errorf("Expected running status, got %v %+v", status, result.Errors)
	}

	if _, result = ValidateJobStatus("sleeping"); !result.HasErrors() {
		t.Error("Expected unknown status to be rejected")
	}
}
