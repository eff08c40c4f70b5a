package model

import "time"

// Search types recorded with each event
const (
	SearchTypeFreeText = "free_text"
	SearchTypeFiltered = "filtered"
	SearchTypeBrowse   = "browse"
	SearchTypeDialog   = "dialog"
)

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	Query        string        `json:"query"`
	SearchType   string        `json:"search_type"`
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for a search term
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms   int `json:"bucket_0_25ms"`
	Bucket25To50ms  int `json:"bucket_25_50ms"`
	Bucket50To100ms int `json:"bucket_50_100ms"`
	Bucket100msPlus int `json:"bucket_100ms_plus"`
}

// SearchTypeStats counts events per search type
type SearchTypeStats struct {
	FreeText int `json:"free_text"`
	Filtered int `json:"filtered"`
	Browse   int `json:"browse"`
	Dialog   int `json:"dialog"`
}

// SearchPerformanceHourly represents hourly search performance data
type SearchPerformanceHourly struct {
	Hour            int   `json:"hour"`
	SearchCount     int   `json:"search_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	TotalSearches      int     `json:"total_searches"`
	ZeroResultSearches int     `json:"zero_result_searches"`
	ZeroResultRate     float64 `json:"zero_result_rate"`
	AvgResponseTime    int64   `json:"avg_response_time"` // in milliseconds

	SearchPerformance24h     []SearchPerformanceHourly `json:"search_performance_24h"`
	PopularSearches          []PopularSearch           `json:"popular_searches"`
	ZeroResultQueries        []PopularSearch           `json:"zero_result_queries"`
	ResponseTimeDistribution ResponseTimeDistribution  `json:"response_time_distribution"`
	SearchTypes              SearchTypeStats           `json:"search_types"`
}
