// Package fetch issues one latency-optimised GET per session.
//
// Send builds the request, resolves the host and puts the request on the
// wire, possibly leaving a background connect running. Receive collects the
// response, validates it and inflates a gzip body. Get does both.
package fetch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zulfikawr/quickget/internal/config"
	"github.com/zulfikawr/quickget/internal/decompress"
	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/logging"
	"github.com/zulfikawr/quickget/internal/metrics"
	"github.com/zulfikawr/quickget/internal/netconn"
	"github.com/zulfikawr/quickget/internal/request"
	"github.com/zulfikawr/quickget/internal/resolver"
)

// Client creates fetch sessions. It is safe for concurrent use; each
// session it returns is not.
type Client struct {
	opts     Options
	resolver *resolver.Resolver
}

// NewClient returns a Client with DefaultOptions modified by opts.
func NewClient(opts ...Option) *Client {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		opts:     o,
		resolver: &resolver.Resolver{Port: o.Port},
	}
}

// FromConfig returns a Client configured from cfg.
func FromConfig(cfg *config.Config) *Client {
	return NewClient(OptionsFromConfig(cfg)...)
}

// Options returns the client's effective options.
func (c *Client) Options() Options {
	return c.opts
}

// SetLookup replaces the DNS lookup used for host resolution.
func (c *Client) SetLookup(l resolver.Lookup) {
	c.resolver.Lookup = l
}

// Get sends a request for path on host and waits for the response.
// headers is appended to the client's configured header lines.
func (c *Client) Get(ctx context.Context, host, path, headers string) (*Response, error) {
	s, err := c.Send(ctx, host, path, headers)
	if err != nil {
		return nil, err
	}
	return s.Receive()
}

// Send starts a fetch. On success the request has been handed to the
// kernel, or a background task is delivering it.
func (c *Client) Send(ctx context.Context, host, path, headers string) (*Session, error) {
	start := time.Now()
	id := uuid.NewString()
	log := logging.Session(id)

	s := &Session{
		ID:         id,
		Host:       host,
		timeout:    c.opts.Timeout,
		bufferSize: c.opts.BufferSize,
		log:        log,
	}

	s.compression = c.opts.Compression
	if s.compression {
		capability, err := decompress.Load(c.opts.Backend)
		if err != nil {
			log.Debug("Decompression unavailable, disabling compression", zap.Error(err))
			s.compression = false
		} else {
			s.capability = capability
		}
	}

	path = request.NormalizePath(path)
	req := request.Build(request.HostField(host), path, c.opts.Headers+headers, s.compression)
	log.Debug("Built HTTP request",
		zap.String("host", host),
		zap.String("path", path),
		zap.Bool("compression", s.compression),
		zap.Int("bytes", len(req)))

	family := resolver.IPv4
	if c.opts.IPv6 {
		family = resolver.IPv6
	}
	addr, err := c.resolver.Resolve(ctx, host, family)
	if err != nil {
		metrics.RecordOutcome(err)
		return nil, err
	}

	sock, err := netconn.Open(family, log)
	if err != nil {
		err = ferrors.New(ferrors.SocketCreateFailed, err)
		metrics.RecordOutcome(err)
		return nil, err
	}

	task, err := netconn.Establish(sock, addr, req, netconn.Options{
		FastOpen:       c.opts.FastOpen,
		Multithreading: c.opts.Multithreading,
		Timeout:        c.opts.Timeout,
	})
	if err != nil {
		sock.Close()
		metrics.RecordOutcome(err)
		return nil, err
	}

	s.sock = sock
	s.task = task
	metrics.ObserveStage(metrics.StageSend, time.Since(start))
	return s, nil
}
