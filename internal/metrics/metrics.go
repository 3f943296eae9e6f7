// Package metrics defines the Prometheus collectors of the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "homegym"

// Manager holds every collector. Use NewManager or NewTestManager to create one.
type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterGenerations        *prometheus.CounterVec
	CounterStaleGenerations   prometheus.Counter
	CounterCommittedWorkouts  prometheus.Counter

	// gauges
	GaugeFeedSubscribers *prometheus.GaugeVec

	// histograms
	HistogramRequestDuration    *prometheus.HistogramVec
	HistogramGenerationDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with the Go build info, runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct // defaults.
	)
	return reg
}

// NewTestManager returns a manager registered to a fresh registry.
func NewTestManager() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(reg), reg
}

// NewManager creates the collectors and registers them to reg.
func NewManager(reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of handled requests",
		}, []string{"method", "status"}),
		CounterHandleRequestPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "The total number of recovered handler panics",
		}),
		CounterGenerations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coach",
			Name:      "generations_total",
			Help:      "The total number of generative-text calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		CounterStaleGenerations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coach",
			Name:      "stale_generations_total",
			Help:      "The total number of generated plans dropped because a newer request superseded them",
		}),
		CounterCommittedWorkouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workout",
			Name:      "committed_total",
			Help:      "The total number of committed workouts",
		}),
		GaugeFeedSubscribers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "subscribers",
			Help:      "Current number of open change-feed streams",
		}, []string{"collection"}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "status"}),
		HistogramGenerationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "coach",
			Name:      "generation_duration_seconds",
			Help:      "Histogram of generative-text call durations in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"operation"}),
	}
}
