package model

// SearchRequest is one search: free text, 1-based page, page size and label filters.
// Values within a filter label are OR-combined, labels are AND-combined.
type SearchRequest struct {
	Query    string              `json:"query"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Filters  map[string][]string `json:"filters,omitempty"`
}

// Facets maps an attribute label to observed value counts within a result set.
type Facets map[string]map[string]int

// FormattedProduct is the client-facing view of a product.
// Attributes holds only non-empty attributes, each as a one-element list.
type FormattedProduct struct {
	ID          string              `json:"id"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Price       *string             `json:"price"`
	Attributes  map[string][]string `json:"attributes"`
}

// PageMeta carries the pagination arithmetic of a result.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// SearchResult is the outcome of a search.
type SearchResult struct {
	Items            []FormattedProduct `json:"data"`
	Meta             PageMeta           `json:"meta"`
	AvailableFilters Facets             `json:"available_filters"`
	QueryID          string             `json:"query_id"`
	Took             int64              `json:"took"` // milliseconds
}

// AttributeValue is a distinct attribute value with its derived forms.
type AttributeValue struct {
	Value      string `json:"value"`
	Count      int    `json:"count"`
	Phonetic   string `json:"phonetic"`
	Normalized string `json:"normalized"`
}
