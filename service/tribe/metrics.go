package tribe

import (
	"sync"
	"time"

	"github.com/pandodao/rewardtribe/core"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	registry    *metrics
)

func gatewayMetrics() *metrics {
	metricsOnce.Do(func() {
		registry = &metrics{
			calls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "tribe",
				Subsystem: "gateway",
				Name:      "calls_total",
				Help:      "Contract calls segmented by method, call type and outcome.",
			}, []string{"method", "type", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "tribe",
				Subsystem: "gateway",
				Name:      "call_duration_seconds",
				Help:      "Latency of contract calls, including confirmation waits for writes.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			}, []string{"method", "type"}),
		}
		prometheus.MustRegister(registry.calls, registry.latency)
	})

	return registry
}

func (m *metrics) observe(method, typ string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(core.KindOf(err))
	}

	m.calls.WithLabelValues(method, typ, outcome).Inc()
	m.latency.WithLabelValues(method, typ).Observe(time.Since(start).Seconds())
}
