package jobs

import (
	"sync"
	"time"

	"github.com/mioding/catalog-search/model"
)

// maxSamples bounds the execution times kept per job type.
const maxSamples = 100

// TypeMetrics summarises one job type.
type TypeMetrics struct {
	Created              int64         `json:"created"`
	Completed            int64         `json:"completed"`
	Failed               int64         `json:"failed"`
	AverageExecutionTime time.Duration `json:"average_execution_time_ns"`
}

// JobMetricsData is a point-in-time copy of JobMetrics.
type JobMetricsData struct {
	JobsCreated          int64                         `json:"jobs_created"`
	JobsCompleted        int64                         `json:"jobs_completed"`
	JobsFailed           int64                         `json:"jobs_failed"`
	AverageExecutionTime time.Duration                 `json:"average_execution_time_ns"`
	SuccessRate          float64                       `json:"success_rate"`
	ActiveJobs           int64                         `json:"active_jobs"`
	JobsByType           map[model.JobType]TypeMetrics `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64     `json:"jobs_by_status"`
	LastUpdated          time.Time                     `json:"last_updated"`
}

// JobMetrics tracks counters and execution times for job operations
type JobMetrics struct {
	mu          sync.RWMutex
	created     map[model.JobType]int64
	completed   map[model.JobType]int64
	failed      map[model.JobType]int64
	byStatus    map[model.JobStatus]int64
	samples     map[model.JobType][]time.Duration
	totalTime   time.Duration
	lastUpdated time.Time
}

// NewJobMetrics creates a new metrics collector
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		created:     make(map[model.JobType]int64),
		completed:   make(map[model.JobType]int64),
		failed:      make(map[model.JobType]int64),
		byStatus:    make(map[model.JobStatus]int64),
		samples:     make(map[model.JobType][]time.Duration),
		lastUpdated: time.Now(),
	}
}

// RecordJobCreated counts a new pending job
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created[jobType]++
	m.byStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordJobStatusChange moves one job between status counters
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" && m.byStatus[oldStatus] > 0 {
		m.byStatus[oldStatus]--
	}
	m.byStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordJobCompleted records successful job completion
func (m *JobMetrics) RecordJobCompleted(jobType model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.completed[jobType]++
	m.totalTime += executionTime

	samples := append(m.samples[jobType], executionTime)
	if len(samples) > maxSamples {
		samples = samples[len(samples)-maxSamples:]
	}
	m.samples[jobType] = samples
	m.lastUpdated = time.Now()
}

// RecordJobFailed records job failure
func (m *JobMetrics) RecordJobFailed(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failed[jobType]++
	m.lastUpdated = time.Now()
}

// GetMetrics returns a copy of the current metrics
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := JobMetricsData{
		JobsByType:   make(map[model.JobType]TypeMetrics, len(m.created)),
		JobsByStatus: make(map[model.JobStatus]int64, len(m.byStatus)),
		SuccessRate:  m.successRate(),
		ActiveJobs:   m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning],
		LastUpdated:  m.lastUpdated,
	}
	for t, n := range m.created {
		data.JobsCreated += n
		data.JobsCompleted += m.completed[t]
		data.JobsFailed += m.failed[t]
		data.JobsByType[t] = TypeMetrics{
			Created:              n,
			Completed:            m.completed[t],
			Failed:               m.failed[t],
			AverageExecutionTime: average(m.samples[t]),
		}
	}
	if data.JobsCompleted > 0 {
		data.AverageExecutionTime = m.totalTime / time.Duration(data.JobsCompleted)
	}
	for s, n := range m.byStatus {
		data.JobsByStatus[s] = n
	}
	return data
}

// GetAverageExecutionTimeByType averages the recent execution times of a job type
func (m *JobMetrics) GetAverageExecutionTimeByType(jobType model.JobType) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return average(m.samples[jobType])
}

// GetSuccessRate returns the success rate (0.0 to 1.0)
func (m *JobMetrics) GetSuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.successRate()
}

func (m *JobMetrics) successRate() float64 {
	var completed, failed int64
	for _, n := range m.completed {
		completed += n
	}
	for _, n := range m.failed {
		failed += n
	}
	if completed+failed == 0 {
		return 1.0 // No jobs yet, assume 100% success
	}
	return float64(completed) / float64(completed+failed)
}

// GetCurrentWorkload returns the number of pending or running jobs
func (m *JobMetrics) GetCurrentWorkload() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning]
}

func average(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return total / time.Duration(len(samples))
}
