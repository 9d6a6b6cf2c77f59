package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for upstream record sources.
type Metrics struct {
	FetchLatency *prometheus.HistogramVec
	FetchErrors  *prometheus.CounterVec
	BreakerOpen  *prometheus.GaugeVec
}

// New creates and registers record source metrics.
func New() *Metrics {
	return &Metrics{
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "casebook_source_fetch_duration_seconds",
			Help:    "Duration of upstream record fetches by source and entity",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source", "entity"}),

		FetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "casebook_source_fetch_errors_total",
			Help: "Upstream record fetch failures by source, entity and error code",
		}, []string{"source", "entity", "code"}),

		BreakerOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "casebook_source_circuit_open",
			Help: "1 while the circuit breaker in front of a source is open",
		}, []string{"source"}),
	}
}

func (m *Metrics) ObserveFetch(source, entity string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(source, entity).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementFetchError(source, entity, code string) {
	if m != nil {
		m.FetchErrors.WithLabelValues(source, entity, code).Inc()
	}
}

func (m *Metrics) SetBreakerOpen(source string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.BreakerOpen.WithLabelValues(source).Set(v)
}
