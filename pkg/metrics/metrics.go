package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Set bundles the Prometheus collectors for the console client: backend
// request accounting plus mutation outcomes per screen.
type Set struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	mutationTotal   *prometheus.CounterVec
	rollbackTotal   *prometheus.CounterVec
}

// NewSet registers the console collectors on a private registry.
func NewSet() *Set {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_request_duration_seconds",
		Help:    "Duration of backend requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "outcome"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_requests_total",
		Help: "Total number of backend requests",
	}, []string{"resource", "outcome"})

	mutationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_mutations_total",
		Help: "Total number of optimistic mutations by settle outcome",
	}, []string{"screen", "outcome"})

	rollbackTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_rollbacks_total",
		Help: "Total number of optimistic rollbacks",
	}, []string{"screen"})

	registry.MustRegister(requestDuration, requestTotal, mutationTotal, rollbackTotal)

	return &Set{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		mutationTotal:   mutationTotal,
		rollbackTotal:   rollbackTotal,
	}
}

// Registry exposes the underlying registry for scrape wiring.
func (s *Set) Registry() *prometheus.Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

// RecordRequest accounts one backend round trip.
func (s *Set) RecordRequest(resource, outcome string, duration time.Duration) {
	if s == nil {
		return
	}
	s.requestTotal.WithLabelValues(resource, outcome).Inc()
	s.requestDuration.WithLabelValues(resource, outcome).Observe(duration.Seconds())
}

// RecordMutation accounts a settled mutation. Outcome is "applied" or
// "rolled_back".
func (s *Set) RecordMutation(screen, outcome string) {
	if s == nil {
		return
	}
	s.mutationTotal.WithLabelValues(screen, outcome).Inc()
	if outcome == "rolled_back" {
		s.rollbackTotal.WithLabelValues(screen).Inc()
	}
}
