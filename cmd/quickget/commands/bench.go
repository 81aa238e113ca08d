package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zulfikawr/quickget/cmd/quickget/ui"
	"github.com/zulfikawr/quickget/internal/config"
	"github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/fetch"
	"github.com/zulfikawr/quickget/internal/metrics"
	"github.com/zulfikawr/quickget/internal/probe"
	iui "github.com/zulfikawr/quickget/internal/ui"
)

// Bench executes the bench command
func Bench(args []string) error {
	args = setupVerbosity(args)

	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.ConfigError("Failed to load configuration", err)
	}

	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	fs.Usage = benchHelp
	ff := registerFetchFlags(fs, cfg)
	count := fs.Int("count", cfg.BenchCount, "number of fetches")
	fs.IntVar(count, "n", cfg.BenchCount, "")
	rate := fs.Float64("rate", cfg.BenchRate, "fetches per second (0 = unpaced)")
	showMetrics := fs.Bool("metrics", false, "dump fetch metrics to stderr")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if fs.NArg() < 1 {
		benchHelp()
		return errors.UsageError("bench requires a host")
	}
	if *count <= 0 {
		return errors.UsageError("--count must be positive")
	}

	host, targetPort, path := splitTarget(fs.Arg(0))
	if fs.NArg() > 1 {
		path = fs.Arg(1)
	}
	if err := ff.apply(cfg, targetPort); err != nil {
		return err
	}
	warnBackend(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("%sBenchmarking %s:%d%s (%d fetches)...%s\n\n",
		ui.C.Cyan, host, cfg.Port, path, *count, ui.C.Reset)

	b := &probe.Bench{
		Client:  fetch.FromConfig(cfg),
		Host:    host,
		Path:    path,
		Headers: ff.headers.block(),
		Count:   *count,
		Rate:    *rate,
	}
	result, err := b.Run(ctx)
	if *showMetrics {
		defer func() { _ = metrics.Dump(os.Stderr) }()
	}
	if err != nil {
		return err
	}

	displayResults(result)

	if result.Samples == 0 && result.LastError != nil {
		return result.LastError
	}
	return nil
}

func displayResults(result *probe.Result) {
	const scale = float64(200 * time.Millisecond)

	fmt.Printf("%sMin:%s   %-10s %s\n", ui.C.Bold, ui.C.Reset,
		iui.FormatLatency(result.Min), coloredBar(float64(result.Min), scale))
	fmt.Printf("%sAvg:%s   %-10s %s\n", ui.C.Bold, ui.C.Reset,
		iui.FormatLatency(result.Avg), coloredBar(float64(result.Avg), scale))
	fmt.Printf("%sMax:%s   %-10s %s\n\n", ui.C.Bold, ui.C.Reset,
		iui.FormatLatency(result.Max), coloredBar(float64(result.Max), scale))

	fmt.Printf("%s✓ Samples:%s %d ok, %d failed   %s%s%s\n",
		ui.C.Bold, ui.C.Reset, result.Samples, result.Failures,
		getQualityColor(result.Quality), result.Quality, ui.C.Reset)
	if result.Bytes > 0 {
		fmt.Printf("  Body size: %s\n", iui.FormatBytes(int64(result.Bytes)))
	}
	if result.LastError != nil {
		fmt.Printf("  %sLast error:%s %v\n", ui.C.Red, ui.C.Reset, result.LastError)
	}
}

func coloredBar(value, max float64) string {
	return ui.C.Green + iui.Bar(value, max, 20) + ui.C.Reset
}

func getQualityColor(quality string) string {
	switch quality {
	case "Excellent":
		return ui.C.Green
	case "Very Good":
		return ui.C.Cyan
	case "Good", "Fair":
		return ui.C.Yellow
	default:
		return ui.C.Red
	}
}

func benchHelp() {
	fmt.Fprintf(os.Stderr, `%sUsage:%s quickget bench [options] <host[:port][/path]> [path]

%sDescription:%s
  Fetch the same resource repeatedly and report latency.
  Each fetch is a fresh connection, so this measures the full path:
  resolution, Fast Open or connect, receive and decompression.

%sOptions:%s
  -n, --count <n>      Number of fetches (default: 5)
  --rate <r>           Fetches per second, 0 for unpaced (default: 2)
  --metrics            Dump Prometheus metrics to stderr
  All 'quickget get' connection flags are accepted as well.
  -h, --help           Show this help message

%sExamples:%s
  quickget bench example.com
  quickget bench -n 20 --rate 5 ipinfo.io /json
  quickget bench --no-fastopen --single-thread 192.168.1.10:8080

%sOutput:%s
  The command displays:
  - Minimum, average and maximum latency
  - Number of successful and failed fetches
  - Connection quality rating
`,
		ui.C.Bold, ui.C.Reset,
		ui.C.Bold, ui.C.Reset,
		ui.C.Bold, ui.C.Reset,
		ui.C.Bold, ui.C.Reset,
		ui.C.Bold, ui.C.Reset)
}
