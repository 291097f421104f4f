// Package metrics exposes Prometheus instruments for the flow pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline instruments. Register once per process.
type Metrics struct {
	FlowRuns         prometheus.Counter
	FlowDuration     prometheus.Summary
	PostsGenerated   prometheus.Counter
	CopyFallbacks    prometheus.Counter
	ProviderFailures *prometheus.CounterVec
}

// New registers the instruments on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FlowRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "contentcal_flow_runs_total",
			Help: "Monthly flow executions.",
		}),
		FlowDuration: factory.NewSummary(prometheus.SummaryOpts{
			Name:       "contentcal_flow_duration_seconds",
			Help:       "Wall time of one monthly flow execution.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		PostsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "contentcal_posts_generated_total",
			Help: "Posts assembled across all flow runs.",
		}),
		CopyFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "contentcal_copy_fallbacks_total",
			Help: "Post slots that degraded to stub copy.",
		}),
		ProviderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contentcal_provider_failures_total",
			Help: "Collaborator calls that failed and were degraded.",
		}, []string{"provider"}),
	}
}

// ObserveProviderFailure records a degraded collaborator call. Nil-safe so
// the flow can run without metrics wired.
func (m *Metrics) ObserveProviderFailure(provider string) {
	if m == nil {
		return
	}
	m.ProviderFailures.WithLabelValues(provider).Inc()
}

// ObserveRun records one completed flow execution.
func (m *Metrics) ObserveRun(seconds float64, posts int) {
	if m == nil {
		return
	}
	m.FlowRuns.Inc()
	m.FlowDuration.Observe(seconds)
	m.PostsGenerated.Add(float64(posts))
}

// ObserveCopyFallback records one stub-copy degradation.
func (m *Metrics) ObserveCopyFallback() {
	if m == nil {
		return
	}
	m.CopyFallbacks.Inc()
}
