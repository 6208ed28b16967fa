package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of the dashboard core.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	CachePatches     *prometheus.CounterVec
	CacheFetches     *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
}

// New registers collectors on a dedicated registry so tests can build as many as they like.
func New(service string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ownerdesk",
			Subsystem: service,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the booking API.",
		}, []string{"operation", "outcome"}),
		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ownerdesk",
			Subsystem: service,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests sent to the booking API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		CachePatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ownerdesk",
			Subsystem: service,
			Name:      "cache_patches_total",
			Help:      "Cache patches by result.",
		}, []string{"result"}),
		CacheFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ownerdesk",
			Subsystem: service,
			Name:      "cache_fetches_total",
			Help:      "Cache reads by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ownerdesk",
			Subsystem: service,
			Name:      "http_requests_total",
			Help:      "Dashboard API requests.",
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		m.UpstreamRequests,
		m.UpstreamLatency,
		m.CachePatches,
		m.CacheFetches,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The helpers below accept a nil receiver so collaborators can run without metrics.

func (m *Metrics) ObserveUpstream(operation, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Metrics) CachePatch(result string) {
	if m == nil {
		return
	}
	m.CachePatches.WithLabelValues(result).Inc()
}

func (m *Metrics) CacheFetch(result string) {
	if m == nil {
		return
	}
	m.CacheFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) HTTPRequest(route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, status).Inc()
}
