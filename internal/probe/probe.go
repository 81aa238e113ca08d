// Package probe measures fetch latency against one endpoint by issuing a
// paced series of requests.
package probe

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/zulfikawr/quickget/internal/fetch"
	"github.com/zulfikawr/quickget/internal/logging"
	"github.com/zulfikawr/quickget/internal/metrics"
)

// Default bench parameters
const (
	DefaultCount = 5
	DefaultRate  = 2 // fetches per second
)

// Result contains the results of a bench run
type Result struct {
	Samples   int
	Failures  int
	Min       time.Duration
	Avg       time.Duration
	Max       time.Duration
	Bytes     int // body bytes of the last successful fetch
	Quality   string
	LastError error
}

// Getter is the fetch operation a Bench drives.
type Getter interface {
	Get(ctx context.Context, host, path, headers string) (*fetch.Response, error)
}

// Bench issues Count sequential fetches of Path on Host.
type Bench struct {
	Client Getter
	Host   string
	Path   string
	// Headers is an extra CRLF-terminated header block sent with every fetch.
	Headers string
	Count   int
	// Rate is fetches per second; zero means unpaced.
	Rate float64
}

// Run executes the bench. It stops early only when ctx is cancelled.
func (b *Bench) Run(ctx context.Context) (*Result, error) {
	count := b.Count
	if count <= 0 {
		count = DefaultCount
	}

	limit := rate.Inf
	if b.Rate > 0 {
		limit = rate.Limit(b.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	result := &Result{}
	var total time.Duration

	for i := 0; i < count; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("bench interrupted: %w", err)
		}

		start := time.Now()
		resp, err := b.Client.Get(ctx, b.Host, b.Path, b.Headers)
		latency := time.Since(start)
		metrics.RecordBenchSample(latency, err == nil)

		if err != nil {
			logging.Debugf("bench fetch %d/%d failed after %v: %v", i+1, count, latency, err)
			result.Failures++
			result.LastError = err
			continue
		}

		result.Samples++
		result.Bytes = len(resp.Body())
		total += latency
		if result.Min == 0 || latency < result.Min {
			result.Min = latency
		}
		if latency > result.Max {
			result.Max = latency
		}
	}

	if result.Samples > 0 {
		result.Avg = total / time.Duration(result.Samples)
	}
	result.Quality = DetermineQuality(result.Avg, result.Failures)
	return result, nil
}

// DetermineQuality grades a run by average latency. Any failure caps the
// grade at Fair; a run without successes is Poor.
func DetermineQuality(avg time.Duration, failures int) string {
	var quality string
	switch {
	case avg <= 0:
		return "Poor"
	case avg < 20*time.Millisecond:
		quality = "Excellent"
	case avg < 50*time.Millisecond:
		quality = "Very Good"
	case avg < 100*time.Millisecond:
		quality = "Good"
	case avg < 200*time.Millisecond:
		quality = "Fair"
	default:
		return "Poor"
	}
	if failures > 0 {
		return "Fair"
	}
	return quality
}
