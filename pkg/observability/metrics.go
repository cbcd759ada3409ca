package observability

import (
	"net/http"

	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by machine hooks.
type Metrics struct {
	Loads       prometheus.Counter
	Transitions *prometheus.CounterVec
	Halts       prometheus.Counter
	RunSteps    prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	reg.MustRegister(m.Loads, m.Transitions, m.Halts, m.RunSteps)
	m.gatherer = reg
	return m
}

// NewMetricsWith registers the collectors on reg.
func NewMetricsWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.Loads, m.Transitions, m.Halts, m.RunSteps)
	m.gatherer = gatherer
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caesartm_tape_loads_total",
			Help: "Total number of tapes loaded",
		}),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caesartm_transitions_total",
				Help: "Total number of transitions applied, by resulting state and move",
			},
			[]string{"state", "move"},
		),
		Halts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caesartm_halts_total",
			Help: "Total number of runs that reached the halted state",
		}),
		RunSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "caesartm_run_steps",
			Help:    "Transitions per completed run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 13),
		}),
	}
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(*domain.LoadEvent) {
			m.Loads.Inc()
		},
		OnStep: func(e *domain.StepEvent) {
			m.Transitions.WithLabelValues(string(e.Action.Next), e.Action.Move.String()).Inc()
		},
		OnHalt: func(e *domain.HaltEvent) {
			m.Halts.Inc()
			m.RunSteps.Observe(float64(e.Steps))
		},
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
