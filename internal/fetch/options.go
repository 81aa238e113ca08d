package fetch

import (
	"time"

	"github.com/zulfikawr/quickget/internal/config"
	"github.com/zulfikawr/quickget/internal/decompress"
	"github.com/zulfikawr/quickget/internal/resolver"
	"github.com/zulfikawr/quickget/internal/response"
)

// Options is the request-scoped configuration. It is fixed once a session
// has been created.
type Options struct {
	IPv6           bool
	Timeout        time.Duration
	Multithreading bool
	Compression    bool
	FastOpen       bool
	Backend        string
	Port           int
	BufferSize     int
	Headers        string
}

// Option configures a Client.
type Option func(*Options)

// DefaultOptions mirrors config.DefaultConfig.
func DefaultOptions() Options {
	return Options{
		Timeout:        5 * time.Second,
		Multithreading: true,
		Compression:    true,
		FastOpen:       true,
		Backend:        decompress.BackendKlauspost,
		Port:           resolver.DefaultPort,
		BufferSize:     response.DefaultBufferSize,
	}
}

// WithIPv6 selects the IPv6 address family.
func WithIPv6(enabled bool) Option {
	return func(o *Options) { o.IPv6 = enabled }
}

// WithTimeout bounds connect, join and every receive. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithMultithreading runs the classic connect on a background task.
func WithMultithreading(enabled bool) Option {
	return func(o *Options) { o.Multithreading = enabled }
}

// WithCompression negotiates gzip when a decompression backend is available.
func WithCompression(enabled bool) Option {
	return func(o *Options) { o.Compression = enabled }
}

// WithFastOpen enables the TCP Fast Open attempt.
func WithFastOpen(enabled bool) Option {
	return func(o *Options) { o.FastOpen = enabled }
}

// WithBackend picks the decompression backend by name.
func WithBackend(name string) Option {
	return func(o *Options) { o.Backend = name }
}

// WithPort overrides the numeric port, 80 by default.
func WithPort(port int) Option {
	return func(o *Options) { o.Port = port }
}

// WithBufferSize sets the initial receive buffer capacity.
func WithBufferSize(n int) Option {
	return func(o *Options) { o.BufferSize = n }
}

// WithHeaders sets extra CRLF-terminated header lines sent with every request.
func WithHeaders(block string) Option {
	return func(o *Options) { o.Headers = block }
}

// OptionsFromConfig converts a loaded configuration.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithIPv6(cfg.IPv6),
		WithTimeout(cfg.Timeout()),
		WithMultithreading(cfg.Multithreading),
		WithCompression(cfg.Compression),
		WithFastOpen(cfg.FastOpen),
		WithBackend(cfg.DecompressBackend),
		WithPort(cfg.Port),
		WithBufferSize(cfg.ReceiveBufferSize),
		WithHeaders(cfg.HeaderBlock()),
	}
}
