package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for action resolution.
type Metrics struct {
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	SharedFetches prometheus.Counter
	FetchLatency  prometheus.Histogram
}

// New creates and registers action resolution metrics.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casebook_action_cache_hits_total",
			Help: "Action lookups served from the cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casebook_action_cache_misses_total",
			Help: "Action lookups that required an upstream fetch",
		}),
		SharedFetches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "casebook_action_shared_fetches_total",
			Help: "Action lookups that joined an in-flight upstream fetch",
		}),
		FetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "casebook_action_fetch_duration_seconds",
			Help:    "Duration of upstream action fetches",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncrementHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) IncrementMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) IncrementShared() {
	if m != nil {
		m.SharedFetches.Inc()
	}
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	if m != nil {
		m.FetchLatency.Observe(d.Seconds())
	}
}
