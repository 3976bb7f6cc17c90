// Package metrics holds the Prometheus collectors of hostconf.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all hostconf metrics.
type Registry struct {
	// Apply cycle metrics
	ApplyTotal    *prometheus.CounterVec
	ApplyDuration *prometheus.HistogramVec
	ApplyNoop     *prometheus.CounterVec

	// Syntax checker metrics
	SyntaxChecks *prometheus.CounterVec

	// Service control metrics
	ServiceActions *prometheus.CounterVec
	ServiceUp      *prometheus.GaugeVec

	// External process metrics
	ProcessRuns     *prometheus.CounterVec
	ProcessTimeouts *prometheus.CounterVec

	// API metrics
	APIRequests *prometheus.CounterVec
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.ApplyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostconf_apply_total",
		Help: "Apply cycles by service kind and terminal state",
	}, []string{"kind", "state"})

	r.ApplyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hostconf_apply_duration_seconds",
		Help:    "Duration of apply cycles",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"kind"})

	r.ApplyNoop = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostconf_apply_noop_total",
		Help: "Apply cycles whose generated files matched the live files",
	}, []string{"kind"})

	r.SyntaxChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostconf_syntax_checks_total",
		Help: "Syntax checker invocations by result",
	}, []string{"kind", "result"})

	r.ServiceActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostconf_service_actions_total",
		Help: "Service control actions by result",
	}, []string{"kind", "action", "result"})

	r.ServiceUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hostconf_service_up",
		Help: "Whether the managed daemon was running at the last status query",
	}, []string{"kind"})

	r.ProcessRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostconf_process_runs_total",
		Help: "External processes started",
	}, []string{"command"})

	r.ProcessTimeouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostconf_process_timeouts_total",
		Help: "External processes killed after exceeding their timeout",
	}, []string{"command"})

	r.APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostconf_api_requests_total",
		Help: "API requests by route pattern and status code",
	}, []string{"route", "method", "code"})

	return r
}
