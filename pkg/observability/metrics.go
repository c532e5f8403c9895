package observability

import (
	"context"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of mealy_runs_total.
const (
	OutcomeOK    = "ok"
	OutcomeStuck = "stuck"
)

// Metrics holds the engine collectors.
type Metrics struct {
	Runs        *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Steps       *prometheus.HistogramVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealy_runs_total",
				Help: "Total number of lines run, by outcome",
			},
			[]string{"table", "outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealy_transitions_total",
				Help: "Total number of transitions taken",
			},
			[]string{"table", "from", "to"},
		),
		Steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealy_run_steps",
				Help:    "Number of symbols consumed per run",
				Buckets: prometheus.ExponentialBuckets(1, 2, 9),
			},
			[]string{"table"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealy_run_duration_seconds",
				Help:    "Duration of runs",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"table"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.Transitions, m.Steps, m.Duration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.Transitions.WithLabelValues(e.Table, string(e.From), string(e.To)).Inc()
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			outcome := OutcomeOK
			if e.Err != nil {
				outcome = OutcomeStuck
			}
			m.Runs.WithLabelValues(e.Table, outcome).Inc()
			m.Steps.WithLabelValues(e.Table).Observe(float64(e.Steps))
			m.Duration.WithLabelValues(e.Table).Observe(e.Elapsed.Seconds())
		},
	}
}
