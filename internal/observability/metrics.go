package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	recruiterRequestsTotal  *prometheus.CounterVec
	recruiterLatencySeconds *prometheus.HistogramVec
	recruiterErrorsTotal    *prometheus.CounterVec
	feedConnectionsActive   prometheus.Gauge
	feedEventsPublished     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for recruiter observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		recruiterRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recruiter_requests_total",
			Help: "Total number of recruiter API requests served.",
		}, []string{"method", "route", "status"})

		recruiterLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recruiter_latency_seconds",
			Help:    "Latency distribution for recruiter API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		recruiterErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recruiter_errors_total",
			Help: "Total number of error responses returned by recruiter endpoints.",
		}, []string{"method", "route", "status"})

		feedConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "proctor_feed_connections_active",
			Help: "Number of websocket clients currently subscribed to the proctor feed.",
		})

		feedEventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proctor_feed_events_published_total",
			Help: "Total number of proctoring events fanned out to the live feed.",
		}, []string{"event_type"})

		prometheus.MustRegister(
			recruiterRequestsTotal,
			recruiterLatencySeconds,
			recruiterErrorsTotal,
			feedConnectionsActive,
			feedEventsPublished,
		)
	})
}

// RecruiterRequests exposes the counter for recruiter requests.
func RecruiterRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return recruiterRequestsTotal
}

// RecruiterLatency exposes the latency histogram for recruiter requests.
func RecruiterLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return recruiterLatencySeconds
}

// RecruiterErrors exposes the counter for recruiter error responses.
func RecruiterErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return recruiterErrorsTotal
}

// FeedConnections exposes the gauge tracking live proctor feed subscribers.
func FeedConnections() prometheus.Gauge {
	RegisterMetrics()
	return feedConnectionsActive
}

// FeedEvents exposes the counter for published proctor feed events.
func FeedEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return feedEventsPublished
}
