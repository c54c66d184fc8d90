// Package telemetry exposes Prometheus metrics for the reader service.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	SyncRuns            *prometheus.CounterVec
	SyncDuration        prometheus.Histogram
	ArticlesIngested    *prometheus.CounterVec
	TranslationRequests *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New registers the service metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SyncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "levelreader_sync_runs_total",
			Help: "Feed sync runs by outcome.",
		}, []string{"status"}),
		SyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "levelreader_sync_duration_seconds",
			Help:    "Duration of feed sync runs.",
			Buckets: prometheus.DefBuckets,
		}),
		ArticlesIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "levelreader_articles_ingested_total",
			Help: "Articles processed during ingestion by result.",
		}, []string{"result"}),
		TranslationRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "levelreader_translation_requests_total",
			Help: "Translation attempts by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "levelreader_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "levelreader_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Ingestion result labels.
const (
	ResultCreated   = "created"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
	StatusOK        = "ok"
	StatusError     = "error"
)

// ObserveSync records one sync run.
func (m *Metrics) ObserveSync(status string, duration time.Duration) {
	m.SyncRuns.WithLabelValues(status).Inc()
	m.SyncDuration.Observe(duration.Seconds())
}
