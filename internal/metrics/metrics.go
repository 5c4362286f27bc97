// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request and provider call metrics.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	providerCalls   *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weatherd_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		}, []string{"route", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weatherd_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weatherd_provider_calls_total",
			Help: "Outbound provider calls by provider and outcome",
		}, []string{"provider", "outcome"}),
	}

	c.registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.providerCalls,
	)

	return c
}

// RecordRequest records one handled HTTP request.
func (c *Collector) RecordRequest(route string, statusCode int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordProviderCall records an outbound geolocation or weather call.
func (c *Collector) RecordProviderCall(provider, outcome string) {
	c.providerCalls.WithLabelValues(provider, outcome).Inc()
}

// Handler returns the exposition endpoint handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
