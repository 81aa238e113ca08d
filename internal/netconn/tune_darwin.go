//go:build darwin

package netconn

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/zulfikawr/quickget/internal/resolver"
)

func sysTune(fd int, timeout time.Duration, log *zap.Logger) {
	setsockoptLogged(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1, "TCP_NODELAY", log)

	if timeout > 0 {
		sec := int(timeout / time.Second)
		if sec == 0 {
			sec = 1
		}
		setsockoptLogged(fd, unix.IPPROTO_TCP, unix.TCP_CONNECTIONTIMEOUT, sec, "TCP_CONNECTIONTIMEOUT", log)
	}
}

// sysFastOpen is unavailable: darwin only offers Fast Open through connectx(2).
func sysFastOpen(fd int, p []byte, addr *resolver.Address, log *zap.Logger) (int, bool, error) {
	return 0, false, errFastOpenUnsupported
}
