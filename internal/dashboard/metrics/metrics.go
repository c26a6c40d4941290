package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the dashboard module.
type Metrics struct {
	// Query latencies by view (priority, summary)
	QueryLatency *prometheus.HistogramVec

	// Classified entry statuses served to clients
	StatusServed *prometheus.CounterVec

	// Summary cache effectiveness
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates a Metrics instance with all dashboard metrics registered.
func New() *Metrics {
	return &Metrics{
		QueryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certtrack_dashboard_query_duration_seconds",
			Help:    "Duration of dashboard queries by view",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"view"}),

		StatusServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certtrack_dashboard_status_served_total",
			Help: "Total classified requirement entries served by status",
		}, []string{"status"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certtrack_dashboard_summary_cache_hits_total",
			Help: "Total summary cache hits",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certtrack_dashboard_summary_cache_misses_total",
			Help: "Total summary cache misses",
		}),
	}
}

// ObserveQueryLatency records the duration of a dashboard query.
func (m *Metrics) ObserveQueryLatency(view string, d time.Duration) {
	if m != nil {
		m.QueryLatency.WithLabelValues(view).Observe(d.Seconds())
	}
}

// IncrementStatusServed records one served entry with the given status.
func (m *Metrics) IncrementStatusServed(status string) {
	if m != nil {
		m.StatusServed.WithLabelValues(status).Inc()
	}
}

// RecordCacheHit records a summary cache hit.
func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// RecordCacheMiss records a summary cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}
