package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	ferrors "github.com/zulfikawr/quickget/internal/errors"
)

// Fetch Metrics
//
// These metrics track single-request fetches: how the request reached the
// server, how long each stage took and how much buffer work the response
// needed. Use them to see whether Fast Open is actually saving a round trip.

// Stage labels for FetchDuration.
const (
	StageSend       = "send"
	StageReceive    = "receive"
	StageDecompress = "decompress"
)

// Path labels for ConnectAttempts.
const (
	PathFastOpen     = "fast_open"
	PathConnect      = "connect"
	PathConnectAsync = "connect_async"
)

// Buffer labels for BufferGrowths.
const (
	BufferReceive = "receive"
	BufferInflate = "inflate"
)

var (
	// FetchesTotal counts finished fetches.
	// Labels: outcome ("success" or an error kind such as "ConnectFailed")
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickget_fetches_total",
			Help: "Total number of fetches by outcome",
		},
		[]string{"outcome"},
	)

	// FetchDuration tracks time spent per stage.
	// Labels: stage (send, receive, decompress)
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickget_fetch_duration_seconds",
			Help:    "Fetch stage duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16), // 0.5ms to ~16s
		},
		[]string{"stage"},
	)

	// ConnectAttempts counts connection attempts per path.
	// Labels: path (fast_open, connect, connect_async), result (success, error)
	ConnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickget_connect_attempts_total",
			Help: "Total number of connection attempts by path and result",
		},
		[]string{"path", "result"},
	)

	// ResponseSize tracks raw response sizes (headers + body) as received.
	ResponseSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quickget_response_size_bytes",
			Help:    "Received response size in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 2, 16), // 64B to ~2MB
		},
	)

	// BufferGrowths counts reallocations of receive and inflate buffers.
	// Labels: buffer (receive, inflate)
	BufferGrowths = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickget_buffer_growths_total",
			Help: "Total number of buffer reallocations",
		},
		[]string{"buffer"},
	)

	// DecompressedSize tracks decompressed body sizes.
	DecompressedSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quickget_decompressed_size_bytes",
			Help:    "Decompressed body size in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 2, 16),
		},
	)

	// CompressionRatio tracks decompressed/compressed size per gzip body.
	CompressionRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quickget_compression_ratio",
			Help:    "Ratio of decompressed to compressed body size",
			Buckets: []float64{1, 1.5, 2, 3, 4, 5, 7.5, 10, 20, 50},
		},
	)
)

// RecordOutcome counts a finished fetch by its error kind.
func RecordOutcome(err error) {
	if err == nil {
		FetchesTotal.WithLabelValues("success").Inc()
		return
	}
	kind := ferrors.KindOf(err)
	if kind == 0 {
		FetchesTotal.WithLabelValues("unknown").Inc()
		return
	}
	FetchesTotal.WithLabelValues(kind.String()).Inc()
}

// RecordConnect counts one connection attempt on path.
func RecordConnect(path string, ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	ConnectAttempts.WithLabelValues(path, result).Inc()
}

// ObserveStage records how long a fetch stage took.
func ObserveStage(stage string, d time.Duration) {
	FetchDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordGrowth counts n reallocations of buffer.
func RecordGrowth(buffer string, n int) {
	if n <= 0 {
		return
	}
	BufferGrowths.WithLabelValues(buffer).Add(float64(n))
}

// RecordDecompression records sizes of one inflated body.
func RecordDecompression(compressed, decompressed int) {
	DecompressedSize.Observe(float64(decompressed))
	if compressed > 0 {
		CompressionRatio.Observe(float64(decompressed) / float64(compressed))
	}
}
