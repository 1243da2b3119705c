package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CredentialsIssued prometheus.Counter
	ProofsGenerated   prometheus.Counter
	Verifications     *prometheus.CounterVec
	VerifyDuration    prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		CredentialsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vocert_credentials_issued_total",
			Help: "Total number of credentials issued",
		}),
		ProofsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vocert_proofs_generated_total",
			Help: "Total number of disclosure proofs generated",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vocert_verifications_total",
			Help: "Total number of verification attempts, by outcome",
		}, []string{"outcome"}),
		VerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vocert_verify_duration_seconds",
			Help:    "Duration of the verification flow including ledger fees",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncrementIssued() {
	m.CredentialsIssued.Inc()
}

func (m *Metrics) IncrementProofs() {
	m.ProofsGenerated.Inc()
}

func (m *Metrics) ObserveVerification(outcome string, start time.Time) {
	m.Verifications.WithLabelValues(outcome).Inc()
	m.VerifyDuration.Observe(time.Since(start).Seconds())
}
