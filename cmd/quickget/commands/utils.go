package commands

import (
	"net"
	"strconv"
	"strings"

	"github.com/zulfikawr/quickget/internal/config"
	"github.com/zulfikawr/quickget/internal/decompress"
	"github.com/zulfikawr/quickget/internal/logging"
)

// countVerbosity counts how many -v or --verbose flags are in args
// Returns: verbosity level (0, 1, 2, 3+), filtered args without -v/--verbose
func countVerbosity(args []string) (int, []string) {
	verbosity := 0
	filtered := make([]string, 0, len(args))

	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			verbosity++
		} else {
			filtered = append(filtered, arg)
		}
	}

	return verbosity, filtered
}

// setupVerbosity strips -v flags from args and applies the log level
func setupVerbosity(args []string) []string {
	verbosity, filtered := countVerbosity(args)
	logging.SetLevel(verbosity)
	return filtered
}

// warnBackend tells the user when compression is on but the configured
// backend cannot be loaded; fetches then go out without Accept-Encoding
func warnBackend(cfg *config.Config) {
	if !cfg.Compression || cfg.DecompressBackend == decompress.BackendNone {
		return
	}
	if _, err := decompress.Load(cfg.DecompressBackend); err != nil {
		logging.Warnf("compression disabled: %v", err)
	}
}

// headerList collects repeated -H flags
type headerList []string

func (h *headerList) String() string {
	return strings.Join(*h, ", ")
}

func (h *headerList) Set(v string) error {
	*h = append(*h, v)
	return nil
}

// block renders the collected headers as CRLF-terminated lines
func (h headerList) block() string {
	var sb strings.Builder
	for _, line := range h {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	return sb.String()
}

// splitTarget accepts "host", "host/path", "host:port/path" and
// "http://host/path" and returns host, port (0 if absent) and path
func splitTarget(target string) (host string, port int, path string) {
	target = strings.TrimPrefix(target, "http://")
	path = "/"
	if i := strings.IndexByte(target, '/'); i >= 0 {
		target, path = target[:i], target[i:]
	}
	host = target
	if h, p, err := net.SplitHostPort(target); err == nil {
		if n, err := strconv.Atoi(p); err == nil && n > 0 && n <= 65535 {
			host, port = h, n
		}
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return host, port, path
}
