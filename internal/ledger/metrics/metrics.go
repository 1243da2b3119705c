package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TransfersSubmitted *prometheus.CounterVec
	TransferDuration   prometheus.Histogram
	BalanceQueries     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		TransfersSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocert_ledger_transfers_total",
			Help: "Total number of ledger transfers submitted, by network",
		}, []string{"network"}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vocert_ledger_transfer_duration_seconds",
			Help:    "Duration of ledger transfer submissions",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		BalanceQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vocert_ledger_balance_queries_total",
			Help: "Total number of wallet balance queries",
		}),
	}
}

func (m *Metrics) ObserveTransfer(net string, start time.Time) {
	m.TransfersSubmitted.WithLabelValues(net).Inc()
	m.TransferDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementBalanceQueries() {
	m.BalanceQueries.Inc()
}
