// internal/monitoring/metrics.go
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configuration for metrics
type MetricsConfig struct {
	Namespace       string
	Subsystem       string
	EnableGoMetrics bool
}

// MetricsManager manages Prometheus metrics for the extraction engine.
// All methods are safe to call on a nil receiver, which records nothing.
type MetricsManager struct {
	registry *prometheus.Registry

	cacheLookups     *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	fetchErrors      *prometheus.CounterVec
	extractionErrors *prometheus.CounterVec
	extractionTime   *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

// NewMetricsManager creates a metrics manager backed by its own registry.
func NewMetricsManager(config MetricsConfig) *MetricsManager {
	if config.Namespace == "" {
		config.Namespace = "scrapecache"
	}
	if config.Subsystem == "" {
		config.Subsystem = "engine"
	}

	reg := prometheus.NewRegistry()
	if config.EnableGoMetrics {
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)

	mm := &MetricsManager{registry: reg}

	mm.cacheLookups = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by resource type and provenance",
		},
		[]string{"resource", "provenance"},
	)

	mm.fetchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "fetch_duration_seconds",
			Help:      "Upstream document fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	mm.fetchErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "fetch_errors_total",
			Help:      "Failed upstream fetches",
		},
		[]string{"resource"},
	)

	mm.extractionErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "extraction_errors_total",
			Help:      "Pipeline failures by resource type and error kind",
		},
		[]string{"resource", "kind"},
	)

	mm.extractionTime = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "extraction_duration_seconds",
			Help:      "Parse and extract duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"resource"},
	)

	mm.httpRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served by route and status code",
		},
		[]string{"route", "status_code"},
	)

	return mm
}

// RecordCacheLookup counts a cache lookup outcome.
func (mm *MetricsManager) RecordCacheLookup(resource, provenance string) {
	if mm == nil {
		return
	}
	mm.cacheLookups.WithLabelValues(resource, provenance).Inc()
}

// RecordFetch observes one upstream fetch.
func (mm *MetricsManager) RecordFetch(resource string, duration time.Duration, err error) {
	if mm == nil {
		return
	}
	mm.fetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
	if err != nil {
		mm.fetchErrors.WithLabelValues(resource).Inc()
	}
}

// RecordExtractionTime observes one parse+extract pass.
func (mm *MetricsManager) RecordExtractionTime(resource string, duration time.Duration) {
	if mm == nil {
		return
	}
	mm.extractionTime.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordFailure counts a failed pipeline run.
func (mm *MetricsManager) RecordFailure(resource, kind string) {
	if mm == nil {
		return
	}
	mm.extractionErrors.WithLabelValues(resource, kind).Inc()
}

// RecordHTTPRequest counts a served HTTP request.
func (mm *MetricsManager) RecordHTTPRequest(route, statusCode string) {
	if mm == nil {
		return
	}
	mm.httpRequests.WithLabelValues(route, statusCode).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (mm *MetricsManager) Registry() *prometheus.Registry {
	if mm == nil {
		return nil
	}
	return mm.registry
}

// MetricsHandler returns the exposition handler for this manager's registry.
func (mm *MetricsManager) MetricsHandler() http.Handler {
	if mm == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(mm.registry, promhttp.HandlerOpts{})
}
