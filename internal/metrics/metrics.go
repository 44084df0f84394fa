// Package metrics registers the gateway's Prometheus collectors and exposes
// the scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts handled HTTP requests by route and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dicomweb",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by route and status code.",
	}, []string{"route", "status"})

	// FindsTotal counts protocol-engine find invocations by level and outcome.
	FindsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dicomweb",
		Name:      "finds_total",
		Help:      "Protocol engine find calls, by query level and outcome.",
	}, []string{"level", "outcome"})

	// CacheEventsTotal counts transcode cache hits and misses.
	CacheEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dicomweb",
		Name:      "cache_events_total",
		Help:      "Transcode cache lookups, by result.",
	}, []string{"result"})

	// TranscodeDuration observes engine transcode latency in seconds.
	TranscodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dicomweb",
		Name:      "transcode_duration_seconds",
		Help:      "Wall time of engine transcode operations.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
