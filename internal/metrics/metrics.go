package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "edumark"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	requests  *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	sideStore *prometheus.CounterVec
}

func New(r prometheus.Registerer) *Metrics {
	f := promauto.With(r)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests answered, by variant, envelope status and outcome.",
		}, []string{"variant", "status", "outcome"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "fallback_responses_total",
			Help:      "Canned responses served, by variant and keyword group.",
		}, []string{"variant", "group"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "inference_duration_seconds",
			Help:      "Time spent waiting on the inference backend.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"variant", "outcome"}),
		sideStore: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "side_store_errors_total",
			Help:      "Failures of optional stores that did not affect the response.",
		}, []string{"store"}),
	}
}

func (m *Metrics) ObserveRequest(variant, status, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(variant, status, outcome).Inc()
}

func (m *Metrics) ObserveFallback(variant, group string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(variant, group).Inc()
}

func (m *Metrics) ObserveInference(variant, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(variant, outcome).Observe(d.Seconds())
}

func (m *Metrics) SideStoreError(store string) {
	if m == nil {
		return
	}
	m.sideStore.WithLabelValues(store).Inc()
}
