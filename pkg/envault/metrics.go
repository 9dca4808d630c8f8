package envault

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal      *prometheus.CounterVec
	requestErrorsTotal *prometheus.CounterVec
	cacheHitsTotal     prometheus.Counter
	cacheMissesTotal   prometheus.Counter

	// metricsOnce ensures metrics are only registered once.
	metricsOnce sync.Once

	// metricsRegistered indicates if metrics have been registered.
	metricsRegistered bool
)

// InitMetrics registers the client's Prometheus metrics with the default
// registry. Call it once at startup if metrics are wanted; without it every
// recording function is a no-op.
func InitMetrics() {
	metricsOnce.Do(func() {
		requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "envault_client_requests_total",
			Help: "Total number of API requests issued by the client",
		}, []string{"method"})
		requestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "envault_client_request_errors_total",
			Help: "Total number of API requests that failed, by status code",
		}, []string{"status"})
		cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "envault_client_export_cache_hits_total",
			Help: "Total number of secret exports served from the cache",
		})
		cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "envault_client_export_cache_misses_total",
			Help: "Total number of secret exports that required a network fetch",
		})
		metricsRegistered = true
	})
}

func recordRequest(method string) {
	if metricsRegistered && requestsTotal != nil {
		requestsTotal.WithLabelValues(method).Inc()
	}
}

func recordRequestError(status int) {
	if metricsRegistered && requestErrorsTotal != nil {
		requestErrorsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}

func recordCacheHit() {
	if metricsRegistered && cacheHitsTotal != nil {
		cacheHitsTotal.Inc()
	}
}

func recordCacheMiss() {
	if metricsRegistered && cacheMissesTotal != nil {
		cacheMissesTotal.Inc()
	}
}
