package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zulfikawr/quickget/cmd/quickget/ui"
	"github.com/zulfikawr/quickget/internal/config"
	"github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/fetch"
	"github.com/zulfikawr/quickget/internal/logging"
	"github.com/zulfikawr/quickget/internal/metrics"
	iui "github.com/zulfikawr/quickget/internal/ui"
)

// fetchFlags are the connection flags shared by get and bench
type fetchFlags struct {
	ipv6         *bool
	timeout      *time.Duration
	noCompress   *bool
	noFastOpen   *bool
	singleThread *bool
	port         *int
	headers      headerList
}

func registerFetchFlags(fs *flag.FlagSet, cfg *config.Config) *fetchFlags {
	f := &fetchFlags{}
	f.ipv6 = fs.Bool("6", cfg.IPv6, "resolve and connect over IPv6")
	f.timeout = fs.Duration("timeout", cfg.Timeout(), "connect, join and receive timeout (0 = none)")
	f.noCompress = fs.Bool("no-compress", !cfg.Compression, "do not negotiate gzip")
	f.noFastOpen = fs.Bool("no-fastopen", !cfg.FastOpen, "skip the TCP Fast Open attempt")
	f.singleThread = fs.Bool("single-thread", !cfg.Multithreading, "connect on the calling goroutine")
	f.port = fs.Int("port", 0, "port to connect to (default from target or config)")
	fs.Var(&f.headers, "H", "extra header line (repeatable)")
	fs.Var(&f.headers, "header", "")
	return f
}

// apply copies parsed flag values into cfg; targetPort wins over the config port
// and --port wins over both. -H lines are sent per request, not stored
func (f *fetchFlags) apply(cfg *config.Config, targetPort int) error {
	cfg.IPv6 = *f.ipv6
	if *f.timeout < 0 {
		return errors.UsageError("--timeout must not be negative")
	}
	cfg.TimeoutMs = uint32(f.timeout.Milliseconds())
	cfg.Compression = !*f.noCompress
	cfg.FastOpen = !*f.noFastOpen
	cfg.Multithreading = !*f.singleThread
	if targetPort > 0 {
		cfg.Port = targetPort
	}
	if *f.port > 0 {
		cfg.Port = *f.port
	}
	if err := cfg.Validate(); err != nil {
		return errors.UsageError(err.Error())
	}
	return nil
}

// Get executes the get command
func Get(args []string) error {
	args = setupVerbosity(args)

	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.ConfigError("Failed to load configuration", err)
	}

	fs := flag.NewFlagSet("get", flag.ExitOnError)
	fs.Usage = getHelp
	ff := registerFetchFlags(fs, cfg)
	include := fs.Bool("include", false, "print response headers")
	fs.BoolVar(include, "i", false, "")
	output := fs.String("output", "", "write body to file")
	fs.StringVar(output, "o", "", "")
	showMetrics := fs.Bool("metrics", false, "dump fetch metrics to stderr")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if fs.NArg() < 1 {
		getHelp()
		return errors.UsageError("get requires a host")
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

	client := fetch.FromConfig(cfg)
	logging.Info("Fetching", zap.String("host", host), zap.Int("port", cfg.Port), zap.String("path", path))

	start := time.Now()
	resp, err := client.Get(ctx, host, path, ff.headers.block())
	elapsed := time.Since(start)
	if *showMetrics {
		defer func() { _ = metrics.Dump(os.Stderr) }()
	}
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if *include {
		if _, err := out.Write(resp.Raw); err != nil {
			return err
		}
	} else if _, err := out.Write(resp.Body()); err != nil {
		return err
	}

	if logging.Enabled(zapcore.InfoLevel) || *output != "" {
		printSummary(resp, elapsed, *output)
	}
	return nil
}

func printSummary(resp *fetch.Response, elapsed time.Duration, output string) {
	fmt.Fprintf(os.Stderr, "%s%s%s  %s in %s",
		ui.C.Green, resp.StatusLine, ui.C.Reset,
		iui.FormatBytes(int64(len(resp.Body()))),
		iui.FormatLatency(elapsed))
	if resp.Decompressed {
		fmt.Fprintf(os.Stderr, " %s(gzip)%s", ui.C.Dim, ui.C.Reset)
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, " -> %s", output)
	}
	fmt.Fprintln(os.Stderr)
}

func getHelp() {
	fmt.Println(ui.C.Bold + ui.C.Green + "quickget get" + ui.C.Reset + " - Fetch one resource with a single GET")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Usage:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget get" + ui.C.Reset + " [flags] <host[:port][/path]> [path]")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Description:" + ui.C.Reset)
	fmt.Println("  Send one HTTP/1.1 GET over plain TCP with as few round trips as possible.")
	fmt.Println("  The request rides in the SYN with TCP Fast Open when the kernel allows it.")
	fmt.Println("  Only an 'HTTP/1.1 200 OK' response is accepted; gzip bodies are inflated.")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Flags:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Yellow + "-6" + ui.C.Reset + "                use IPv6")
	fmt.Println("  " + ui.C.Yellow + "--timeout" + ui.C.Reset + "         connect/receive timeout (default: 5s, 0 = none)")
	fmt.Println("  " + ui.C.Yellow + "--port" + ui.C.Reset + "            port to connect to (default: 80)")
	fmt.Println("  " + ui.C.Yellow + "-H, --header" + ui.C.Reset + "      extra header line, repeatable")
	fmt.Println("  " + ui.C.Yellow + "--no-compress" + ui.C.Reset + "     do not send Accept-Encoding: gzip")
	fmt.Println("  " + ui.C.Yellow + "--no-fastopen" + ui.C.Reset + "     skip TCP Fast Open")
	fmt.Println("  " + ui.C.Yellow + "--single-thread" + ui.C.Reset + "   do not connect on a background task")
	fmt.Println("  " + ui.C.Yellow + "-i, --include" + ui.C.Reset + "     print response headers")
	fmt.Println("  " + ui.C.Yellow + "-o, --output" + ui.C.Reset + "      write body to a file")
	fmt.Println("  " + ui.C.Yellow + "--metrics" + ui.C.Reset + "         dump Prometheus metrics to stderr")
	fmt.Println("  " + ui.C.Yellow + "-v, --verbose" + ui.C.Reset + "     verbose logging (-v -v for debug)")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Examples:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget get" + ui.C.Reset + " ipinfo.io /json                 " + ui.C.Dim + "# Fetch a JSON document" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget get" + ui.C.Reset + " -i example.com                  " + ui.C.Dim + "# Show headers too" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget get" + ui.C.Reset + " -H 'Accept: text/plain' host/x  " + ui.C.Dim + "# Add a header" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget get" + ui.C.Reset + " --timeout 500ms -6 host         " + ui.C.Dim + "# IPv6, short timeout" + ui.C.Reset)
}
