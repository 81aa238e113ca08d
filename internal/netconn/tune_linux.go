//go:build linux

package netconn

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/zulfikawr/quickget/internal/resolver"
)

func sysTune(fd int, timeout time.Duration, log *zap.Logger) {
	// Disable Nagle's algorithm so the small request is not held back
	setsockoptLogged(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1, "TCP_NODELAY", log)
	setsockoptLogged(fd, unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1, "TCP_QUICKACK", log)

	if timeout > 0 {
		// Linux has neither TCP_CONNECTIONTIMEOUT nor TCP_KEEPINIT
		ms := int(timeout / time.Millisecond)
		setsockoptLogged(fd, unix.IPPROTO_TCP, unix.TCP_USER_TIMEOUT, ms, "TCP_USER_TIMEOUT", log)
	}
}

// sysFastOpen sends p with the SYN. The socket is switched to non-blocking
// for the call and restored afterwards whatever the outcome.
//
// It returns the number of bytes the kernel accepted. pending is true when
// the handshake is still in flight (EINPROGRESS/EAGAIN, or a partial
// accept); the caller must flush p[n:] once connected.
func sysFastOpen(fd int, p []byte, addr *resolver.Address, log *zap.Logger) (n int, pending bool, err error) {
	sa, err := sockaddr(addr)
	if err != nil {
		return 0, false, err
	}

	setsockoptLogged(fd, unix.IPPROTO_TCP, unix.TCP_FASTOPEN, fastOpenQueueLen, "TCP_FASTOPEN", log)

	if err := unix.SetNonblock(fd, true); err != nil {
		log.Debug("Failed to set non-blocking mode", zap.Error(err))
	}
	defer func() {
		if err := unix.SetNonblock(fd, false); err != nil {
			log.Debug("Failed to restore blocking mode", zap.Error(err))
		}
	}()

	log.Debug("Using sendmsg() + MSG_FASTOPEN", zap.Int("bytes", len(p)))
	for {
		n, err = unix.SendmsgN(fd, p, nil, sa, unix.MSG_FASTOPEN)
		if err != unix.EINTR {
			break
		}
	}
	switch err {
	case nil:
		return n, n < len(p), nil
	case unix.EINPROGRESS, unix.EAGAIN:
		return 0, true, nil
	default:
		return 0, false, err
	}
}
