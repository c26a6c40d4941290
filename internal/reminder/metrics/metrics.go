package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the reminder scanner.
type Metrics struct {
	// Completed scan cycles
	Scans prometheus.Counter

	// Status transitions applied, by resulting status
	Transitions *prometheus.CounterVec

	// Event delivery outcomes
	EventsPublished prometheus.Counter
	PublishFailures prometheus.Counter
}

// New creates a Metrics instance with all reminder metrics registered.
func New() *Metrics {
	return &Metrics{
		Scans: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certtrack_reminder_scans_total",
			Help: "Total completed reminder scan cycles",
		}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certtrack_reminder_transitions_total",
			Help: "Total requirement status transitions applied by the scanner",
		}, []string{"to_status"}),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certtrack_reminder_events_published_total",
			Help: "Total reminder events published",
		}),

		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certtrack_reminder_publish_failures_total",
			Help: "Total reminder event publish failures",
		}),
	}
}

// IncrementScans records one completed scan cycle.
func (m *Metrics) IncrementScans() {
	if m != nil {
		m.Scans.Inc()
	}
}

// IncrementTransitions records one applied status transition.
func (m *Metrics) IncrementTransitions(toStatus string) {
	if m != nil {
		m.Transitions.WithLabelValues(toStatus).Inc()
	}
}

// IncrementEventsPublished records one published event.
func (m *Metrics) IncrementEventsPublished() {
	if m != nil {
		m.EventsPublished.Inc()
	}
}

// IncrementPublishFailures records one failed publish.
func (m *Metrics) IncrementPublishFailures() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}
