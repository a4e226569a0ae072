package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MarketplaceMetrics records operation outcomes and persistence latency.
type MarketplaceMetrics struct {
	operations      *prometheus.CounterVec
	persistDuration *prometheus.HistogramVec
	persistFailures *prometheus.CounterVec
}

// NewMarketplaceMetrics registers the marketplace metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewMarketplaceMetrics(reg prometheus.Registerer) *MarketplaceMetrics {
	if reg == nil {
		return &MarketplaceMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locallink_operations_total",
		Help: "Marketplace operations by name and outcome.",
	}, []string{"op", "outcome"})
	persistDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "locallink_persist_duration_seconds",
		Help:    "Time spent mirroring a collection to the blob store.",
		Buckets: prometheus.DefBuckets,
	}, []string{"key"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locallink_persist_failures_total",
		Help: "Blob store writes that failed.",
	}, []string{"key"})
	reg.MustRegister(operations, persistDuration, persistFailures)
	return &MarketplaceMetrics{
		operations:      operations,
		persistDuration: persistDuration,
		persistFailures: persistFailures,
	}
}

// ObserveOperation counts one marketplace operation.
func (m *MarketplaceMetrics) ObserveOperation(op string, err error) {
	if m == nil || m.operations == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.operations.WithLabelValues(normalizeLabel(op), outcome).Inc()
}

// ObservePersist records one blob write.
func (m *MarketplaceMetrics) ObservePersist(key string, duration time.Duration, err error) {
	if m == nil || m.persistDuration == nil {
		return
	}
	key = normalizeLabel(key)
	m.persistDuration.WithLabelValues(key).Observe(duration.Seconds())
	if err != nil {
		m.persistFailures.WithLabelValues(key).Inc()
	}
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
