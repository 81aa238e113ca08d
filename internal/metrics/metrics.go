// Package metrics provides Prometheus metrics for quickget fetches.
//
// The metrics package is organized into logical modules:
//
//   - fetch.go: fetch outcomes, stage latency, connect paths, buffer growth
//     and decompression ratios
//   - bench.go: repeated probe latency collected by the bench command
//
// Usage Examples:
//
// Recording a fetch:
//
//	start := time.Now()
//	resp, err := client.Get(ctx, host, path, headers)
//	metrics.ObserveStage(metrics.StageReceive, time.Since(start))
//	metrics.RecordOutcome(err)
//
// Recording which connect path carried the request:
//
//	metrics.RecordConnect(metrics.PathFastOpen, err == nil)
//
// All metrics are registered with the default Prometheus registry and can be
// dumped with Dump (quickget get --metrics).
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Dump writes every metric of the default registry in text exposition format.
func Dump(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
