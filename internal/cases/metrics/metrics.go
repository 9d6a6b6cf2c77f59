package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for case assembly.
type Metrics struct {
	CasesTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		CasesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "casebook_cases_assembled_total",
			Help: "Case records seen by the assembler by outcome status",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncrementCase(status string) {
	if m != nil {
		m.CasesTotal.WithLabelValues(status).Inc()
	}
}
