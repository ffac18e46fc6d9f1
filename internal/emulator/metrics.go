package emulator

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the emulator.
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	LatencyHistogram *prometheus.HistogramVec
	RejectedRequests *prometheus.CounterVec
	registry         *prometheus.Registry
}

// NewMetrics builds a fresh registry per server so tests never collide on
// duplicate registration.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballast_requests_total",
				Help: "Total number of properties requests",
			},
			[]string{"service", "method", "status"},
		),
		LatencyHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ballast_request_duration_seconds",
				Help:    "Properties request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method"},
		),
		RejectedRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballast_rejected_requests_total",
				Help: "Requests rejected by service policy, by error code",
			},
			[]string{"code"},
		),
		registry: registry,
	}

	registry.MustRegister(m.RequestCounter)
	registry.MustRegister(m.LatencyHistogram)
	registry.MustRegister(m.RejectedRequests)

	return m
}

// IncrementRequest counts a finished request.
func (m *Metrics) IncrementRequest(service, method string, status int) {
	m.RequestCounter.WithLabelValues(service, method, fmt.Sprintf("%d", status)).Inc()
}

// RecordLatency records request latency.
func (m *Metrics) RecordLatency(service, method string, seconds float64) {
	m.LatencyHistogram.WithLabelValues(service, method).Observe(seconds)
}

// IncrementRejected counts a policy rejection by error code.
func (m *Metrics) IncrementRejected(code string) {
	m.RejectedRequests.WithLabelValues(code).Inc()
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
