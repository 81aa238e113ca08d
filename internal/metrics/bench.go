package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bench Metrics
//
// These metrics track repeated probes issued by the bench command.

var (
	// BenchLatency tracks end-to-end latency of one probe fetch.
	BenchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quickget_bench_latency_seconds",
			Help:    "Latency of bench probe fetches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
	)

	// BenchSamples counts probe fetches.
	// Labels: result (success, error)
	BenchSamples = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickget_bench_samples_total",
			Help: "Total number of bench probes by result",
		},
		[]string{"result"},
	)
)

// RecordBenchSample records one probe.
func RecordBenchSample(latency time.Duration, ok bool) {
	if !ok {
		BenchSamples.WithLabelValues("error").Inc()
		return
	}
	BenchSamples.WithLabelValues("success").Inc()
	BenchLatency.Observe(latency.Seconds())
}
