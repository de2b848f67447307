package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crud_api_requests_total",
			Help: "Number of console API requests",
		},
		[]string{"method", "path", "status"},
	)
	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crud_api_latency_seconds",
			Help:    "Console API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crud_upstream_errors_total",
			Help: "Failed operations against the backend entity API",
		},
		[]string{"entity", "action"},
	)
	MetadataCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crud_metadata_cache_hits_total",
			Help: "Field metadata cache hits",
		},
	)
	MetadataCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crud_metadata_cache_misses_total",
			Help: "Field metadata cache misses",
		},
	)
	EventsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crud_events_emitted_total",
			Help: "CRUD events handed to the dispatcher",
		},
		[]string{"name"},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequests,
		APILatency,
		UpstreamErrors,
		MetadataCacheHits,
		MetadataCacheMisses,
		EventsEmitted,
	)
}
