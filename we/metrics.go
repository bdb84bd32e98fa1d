package we

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records invocation counts and latencies per entry point and outcome.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "we_contract_invocations_total",
				Help: "Total contract invocations by entry point and outcome",
			},
			[]string{"contract", "entry_point", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "we_contract_invocation_duration_seconds",
				Help:    "Contract invocation latency including load and commit",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"contract", "entry_point"},
		),
	}

	registerer.MustRegister(m.invocations, m.duration)

	return m
}

func (m *Metrics) Observe(contract string, entry EntryPoint, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = string(ErrorKind(err))
	}

	m.invocations.WithLabelValues(contract, entry.String(), outcome).Inc()
	m.duration.WithLabelValues(contract, entry.String()).Observe(elapsed.Seconds())
}
