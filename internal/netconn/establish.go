package netconn

import (
	"time"

	"go.uber.org/zap"

	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/metrics"
	"github.com/zulfikawr/quickget/internal/resolver"
)

// Options controls how a connection is established.
type Options struct {
	FastOpen       bool
	Multithreading bool
	Timeout        time.Duration
}

// classicConnect is Path B. Tests replace it to stall the background task.
var classicConnect = connectAndSend

// Establish delivers req to addr over sock.
//
// It first tries to carry req in the SYN with TCP Fast Open. When that is
// not possible it connects and sends the classic way, inline or, with
// Multithreading set, on a returned Task the caller must Join before
// receiving. A nil Task with a nil error means the request is on its way.
//
// On a Path B failure the socket is closed and the error is ConnectFailed
// or SendFailed. A failed Fast Open attempt never closes the socket.
func Establish(sock *Socket, addr *resolver.Address, req []byte, opts Options) (*Task, error) {
	log := sock.log.With(zap.Stringer("addr", addr))

	sock.Tune(opts.Timeout)

	if opts.FastOpen {
		n, pending, err := sysFastOpen(sock.fd, req, addr, log)
		if err == nil {
			metrics.RecordConnect(metrics.PathFastOpen, true)
			if pending {
				sock.pending = append([]byte(nil), req[n:]...)
				log.Debug("TCP Fast Open in progress", zap.Int("sent", n), zap.Int("pending", len(sock.pending)))
			} else {
				log.Debug("TCP Fast Open succeeded", zap.Int("sent", n))
			}
			return nil, nil
		}
		metrics.RecordConnect(metrics.PathFastOpen, false)
		log.Debug("TCP Fast Open failed, falling back to connect", zap.Error(err))
	}

	if opts.Multithreading {
		log.Debug("Starting connect task")
		return Go(sock, func(s *Socket) error {
			err := classicConnect(s, addr, req)
			metrics.RecordConnect(metrics.PathConnectAsync, err == nil)
			return err
		}), nil
	}

	err := classicConnect(sock, addr, req)
	metrics.RecordConnect(metrics.PathConnect, err == nil)
	return nil, err
}

// connectAndSend connects synchronously and sends req in one call.
func connectAndSend(s *Socket, addr *resolver.Address, req []byte) error {
	s.log.Debug("Attempting connect()", zap.Stringer("addr", addr))
	if err := sysConnect(s.fd, addr, s.timeout); err != nil {
		s.log.Debug("connect() failed", zap.Error(err))
		s.Close()
		return ferrors.Newf(ferrors.ConnectFailed, err, "connect to %s failed", addr)
	}

	s.log.Debug("Sending request", zap.Int("bytes", len(req)))
	if err := sysWriteAll(s.fd, req); err != nil {
		s.log.Debug("send() failed", zap.Error(err))
		s.Close()
		return ferrors.New(ferrors.SendFailed, err)
	}
	return nil
}
