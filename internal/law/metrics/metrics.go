package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for law aggregation.
type Metrics struct {
	// Rules processed per aggregation pass by outcome status
	RulesTotal *prometheus.CounterVec

	// Distinct actions resolved per pass
	ActionsPerPass prometheus.Histogram

	AggregateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all law metrics registered.
func New() *Metrics {
	return &Metrics{
		RulesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "casebook_law_rules_total",
			Help: "Rules seen by the law aggregator by outcome status",
		}, []string{"status"}), // status: "included", "duplicate", "skipped"

		ActionsPerPass: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "casebook_law_actions_per_pass",
			Help:    "Distinct actions resolved in one aggregation pass",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),

		AggregateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "casebook_law_aggregate_duration_seconds",
			Help:    "Duration of a full aggregation pass including action resolution",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) IncrementRule(status string) {
	if m != nil {
		m.RulesTotal.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) ObserveActions(n int) {
	if m != nil {
		m.ActionsPerPass.Observe(float64(n))
	}
}

func (m *Metrics) ObserveAggregate(d time.Duration) {
	if m != nil {
		m.AggregateLatency.Observe(d.Seconds())
	}
}
