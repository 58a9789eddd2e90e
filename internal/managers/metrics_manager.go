package managers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMgr records the service metrics and exposes them for scraping.
type MetricsMgr interface {
	ObserveRequest(method, path string, status int, duration time.Duration)
	RecordAuthAttempt(action, outcome string)
	RecordLikeToggle(liked bool)
	RecordCatalogLookup(hit bool)
	Handler() http.Handler
}

// MetricsManager owns a prometheus registry with the HTTP and domain metrics.
type MetricsManager struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authAttemptsTotal   *prometheus.CounterVec
	likeTogglesTotal    *prometheus.CounterVec
	catalogLookupsTotal *prometheus.CounterVec
}

// NewMetricsManager creates and registers all metrics on the given registry.
func NewMetricsManager(registry *prometheus.Registry) MetricsMgr {
	m := &MetricsManager{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codeatlas_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codeatlas_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		authAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codeatlas_auth_attempts_total",
				Help: "Registration and login attempts by outcome",
			},
			[]string{"action", "outcome"},
		),
		likeTogglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codeatlas_comment_like_toggles_total",
				Help: "Comment like toggles by resulting action",
			},
			[]string{"action"},
		),
		catalogLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codeatlas_catalog_cache_lookups_total",
				Help: "Language catalog cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.authAttemptsTotal,
		m.likeTogglesTotal,
		m.catalogLookupsTotal,
	)

	return m
}

func (m *MetricsManager) ObserveRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *MetricsManager) RecordAuthAttempt(action, outcome string) {
	m.authAttemptsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *MetricsManager) RecordLikeToggle(liked bool) {
	action := "unlike"
	if liked {
		action = "like"
	}
	m.likeTogglesTotal.WithLabelValues(action).Inc()
}

func (m *MetricsManager) RecordCatalogLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.catalogLookupsTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
