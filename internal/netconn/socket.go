// Package netconn owns the raw TCP socket of a fetch session.
//
// It creates and tunes the descriptor, tries to ship the request inside the
// SYN with TCP Fast Open, falls back to a classic connect followed by a
// single send, and can run that fallback on a background task whose join is
// bounded by a timeout. All calls are plain blocking syscalls; the only
// cancellation is the socket timeout configured up front.
package netconn

import (
	"errors"
	"time"

	"go.uber.org/zap"

	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/logging"
	"github.com/zulfikawr/quickget/internal/resolver"
)

const invalidFD = -1

// receiveBufferHint is the SO_RCVBUF size requested before receiving.
const receiveBufferHint = 64 * 1024

// fastOpenQueueLen is the TCP_FASTOPEN option value.
const fastOpenQueueLen = 5

var errFastOpenUnsupported = errors.New("TCP Fast Open not supported")

// Socket is an exclusively owned TCP descriptor.
// A Socket is not safe for concurrent use; ownership moves between the
// caller and a Task, never shared.
type Socket struct {
	fd      int
	family  resolver.Family
	timeout time.Duration
	// pending holds request bytes a Fast Open send did not hand to the
	// kernel. They are written once the connection completes.
	pending []byte
	log     *zap.Logger
}

// Open creates a stream socket for family. The returned socket is blocking.
func Open(family resolver.Family, log *zap.Logger) (*Socket, error) {
	if log == nil {
		log = logging.GetLogger()
	}
	fd, err := sysSocket(family)
	if err != nil {
		log.Debug("socket() failed", zap.Error(err))
		return nil, err
	}
	log.Debug("Socket creation successful", zap.Int("fd", fd))
	return &Socket{fd: fd, family: family, log: log}, nil
}

// Valid reports whether the socket still holds an open descriptor.
func (s *Socket) Valid() bool {
	return s != nil && s.fd != invalidFD
}

// FD returns the descriptor, or -1 once closed.
func (s *Socket) FD() int {
	if s == nil {
		return invalidFD
	}
	return s.fd
}

// HasPending reports whether request bytes still wait for the connection.
func (s *Socket) HasPending() bool {
	return len(s.pending) > 0
}

// Close releases the descriptor. Closing an invalid socket is a no-op.
func (s *Socket) Close() error {
	if !s.Valid() {
		return nil
	}
	s.log.Debug("Closing socket", zap.Int("fd", s.fd))
	err := sysClose(s.fd)
	s.fd = invalidFD
	s.pending = nil
	return err
}

// Tune applies best-effort latency options: no Nagle, quick ACKs and, when
// timeout > 0, a connect-phase timeout with whatever facility the platform
// offers. Failures are logged and ignored.
func (s *Socket) Tune(timeout time.Duration) {
	s.timeout = timeout
	sysTune(s.fd, timeout, s.log)
}

// ConfigureReceive sets SO_RCVTIMEO (when timeout > 0) and a 64 KiB
// SO_RCVBUF hint. Failures are logged and ignored.
func (s *Socket) ConfigureReceive(timeout time.Duration) {
	sysConfigureReceive(s.fd, timeout, receiveBufferHint, s.log)
}

// Read reads into p, retrying interrupted calls.
func (s *Socket) Read(p []byte) (int, error) {
	return sysRead(s.fd, p)
}

// Flush completes a pending Fast Open: it waits for the handshake and
// writes the bytes the kernel did not take with the SYN. A failed handshake
// is a ConnectFailed, a failed write a SendFailed.
func (s *Socket) Flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := sysAwaitConnect(s.fd, s.timeout); err != nil {
		s.log.Debug("Fast Open handshake failed", zap.Error(err))
		return ferrors.New(ferrors.ConnectFailed, err)
	}
	s.log.Debug("Fast Open connection established, sending remaining request bytes",
		zap.Int("bytes", len(s.pending)))
	if err := sysWriteAll(s.fd, s.pending); err != nil {
		return ferrors.New(ferrors.SendFailed, err)
	}
	s.pending = nil
	return nil
}
