// Package metrics holds the prometheus collectors shared by the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_cache_hits_total",
		Help: "Cache lookups served from the cache store.",
	}, []string{"namespace"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_cache_misses_total",
		Help: "Cache lookups that fell through to the data source.",
	}, []string{"namespace"})

	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_cache_errors_total",
		Help: "Cache store failures swallowed by the cache layer.",
	}, []string{"namespace", "op"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geo_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	SnapshotReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_snapshot_reloads_total",
		Help: "In-memory hierarchy snapshot reloads by result.",
	}, []string{"result"})
)
