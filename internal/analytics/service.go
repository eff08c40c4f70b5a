package analytics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mioding/catalog-search/model"
)

const (
	maxEventsToKeep = 10000 // Keep last 10k events for performance
	topQueries      = 10
)

// Service implements analytics tracking and reporting over an in-memory event log.
type Service struct {
	mutex  sync.RWMutex
	events []model.SearchEvent
	now    func() time.Time
}

// NewService creates a new analytics service
func NewService() *Service {
	return &Service{
		events: make([]model.SearchEvent, 0),
		now:    time.Now,
	}
}

// TrackSearchEvent records a new search event. A zero Timestamp is set to now.
func (s *Service) TrackSearchEvent(event model.SearchEvent) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = append(s.events[:0:0], s.events[len(s.events)-maxEventsToKeep:]...)
	}
	return nil
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	events := make([]model.SearchEvent, len(s.events))
	copy(events, s.events)
	s.mutex.RUnlock()

	last24h := filterEventsByTime(events, s.now().Add(-24*time.Hour))

	zero := make([]model.SearchEvent, 0)
	for _, e := range events {
		if e.ResultCount == 0 {
			zero = append(zero, e)
		}
	}

	dashboard := model.AnalyticsDashboard{
		TotalSearches:            len(events),
		ZeroResultSearches:       len(zero),
		AvgResponseTime:          calculateAvgResponseTime(events),
		SearchPerformance24h:     getHourlyPerformance(last24h),
		PopularSearches:          getPopularSearches(events),
		ZeroResultQueries:        getPopularSearches(zero),
		ResponseTimeDistribution: getResponseTimeDistribution(events),
		SearchTypes:              getSearchTypeStats(events),
	}
	if len(events) > 0 {
		dashboard.ZeroResultRate = float64(len(zero)) / float64(len(events)) * 100
	}
	return dashboard, nil
}

// filterEventsByTime returns events after the given time
func filterEventsByTime(events []model.SearchEvent, after time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// getHourlyPerformance buckets events by hour of day
func getHourlyPerformance(events []model.SearchEvent) []model.SearchPerformanceHourly {
	hourlyData := make(map[int][]model.SearchEvent)
	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.SearchPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		events := hourlyData[hour]
		performance = append(performance, model.SearchPerformanceHourly{
			Hour:            hour,
			SearchCount:     len(events),
			AvgResponseTime: calculateAvgResponseTime(events),
		})
	}
	return performance
}

// getPopularSearches returns the most frequent non-blank queries, ties broken by query.
func getPopularSearches(events []model.SearchEvent) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if q := strings.TrimSpace(event.Query); q != "" {
			queryCounts[q]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > topQueries {
		popular = popular[:topQueries]
	}
	return popular
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}
	return dist
}

// getSearchTypeStats returns statistics for different search types
func getSearchTypeStats(events []model.SearchEvent) model.SearchTypeStats {
	stats := model.SearchTypeStats{}
	for _, event := range events {
		switch event.SearchType {
		case model.SearchTypeFreeText:
			stats.FreeText++
		case model.SearchTypeFiltered:
			stats.Filtered++
		case model.SearchTypeBrowse:
			stats.Browse++
		case model.SearchTypeDialog:
			stats.Dialog++
		}
	}
	return stats
}

// ClassifyRequest names the search type of a request.
func ClassifyRequest(req model.SearchRequest) string {
	switch {
	case len(req.Filters) > 0:
		return model.SearchTypeFiltered
	case strings.TrimSpace(req.Query) != "":
		return model.SearchTypeFreeText
	}
	return model.SearchTypeBrowse
}
