// Package metrics exposes the service's Prometheus collectors. Collectors
// register with the default registry on first use.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mindfulmedia"

var routeLabels = []string{"method", "route", "status"}

// Metrics groups the collectors by concern.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec
	InFlight        *prometheus.GaugeVec
	RateLimited     *prometheus.CounterVec

	CacheLookups *prometheus.CounterVec
	CacheErrors  *prometheus.CounterVec

	Engagement      *prometheus.CounterVec
	AccessDecisions *prometheus.CounterVec
	ErrorResponses  *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

func counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

// Initialize registers the collectors once and returns them.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			Requests: counter("http", "requests_total", "Requests served.", routeLabels...),
			RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Request latency.",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			}, routeLabels),
			ResponseSize: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "response_size_bytes",
				Help:      "Response body size.",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 7),
			}, routeLabels),
			InFlight: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "in_flight_requests",
				Help:      "Requests currently being served.",
			}, []string{"method", "route"}),
			RateLimited: counter("http", "rate_limited_total", "Write requests rejected by the limiter.", "route"),

			CacheLookups: counter("cache", "lookups_total", "Count cache reads by result (hit or miss).", "cache", "result"),
			CacheErrors:  counter("cache", "errors_total", "Cache operations that failed and fell back to the database.", "cache", "operation"),

			Engagement:      counter("engagement", "actions_total", "Engagement state changes by action and result.", "action", "result"),
			AccessDecisions: counter("access", "decisions_total", "Gate decisions by target kind and outcome.", "kind", "outcome"),
			ErrorResponses:  counter("http", "error_responses_total", "Error responses by code.", "code", "route"),
		}
	})
	return instance
}

// Get returns the collectors, registering them on first use.
func Get() *Metrics {
	return Initialize()
}

func RecordCacheHit(cache string) {
	Get().CacheLookups.WithLabelValues(cache, "hit").Inc()
}

func RecordCacheMiss(cache string) {
	Get().CacheLookups.WithLabelValues(cache, "miss").Inc()
}

// RecordCacheError counts a failed "get", "set" or "delete".
func RecordCacheError(cache, operation string) {
	Get().CacheErrors.WithLabelValues(cache, operation).Inc()
}

// RecordEngagement counts a state change, e.g. ("like", "liked").
func RecordEngagement(action, result string) {
	Get().Engagement.WithLabelValues(action, result).Inc()
}

// RecordAccessDecision counts a gate outcome, e.g. ("media", "password").
func RecordAccessDecision(kind, outcome string) {
	Get().AccessDecisions.WithLabelValues(kind, outcome).Inc()
}

func RecordError(code, route string) {
	Get().ErrorResponses.WithLabelValues(code, route).Inc()
}

func RecordRateLimited(route string) {
	Get().RateLimited.WithLabelValues(route).Inc()
}
