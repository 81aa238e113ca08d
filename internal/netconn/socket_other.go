//go:build !unix

package netconn

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/zulfikawr/quickget/internal/resolver"
)

var errRawSocketsUnsupported = errors.New("raw sockets are not supported on this platform")

func sysSocket(resolver.Family) (int, error) {
	return invalidFD, errRawSocketsUnsupported
}

func sysClose(int) error { return nil }

func sysRead(int, []byte) (int, error) { return 0, errRawSocketsUnsupported }

func sysWriteAll(int, []byte) error { return errRawSocketsUnsupported }

func sysConnect(int, *resolver.Address, time.Duration) error { return errRawSocketsUnsupported }

func sysAwaitConnect(int, time.Duration) error { return errRawSocketsUnsupported }

func sysConfigureReceive(int, time.Duration, int, *zap.Logger) {}

func sysTune(int, time.Duration, *zap.Logger) {}

func sysFastOpen(int, []byte, *resolver.Address, *zap.Logger) (int, bool, error) {
	return 0, false, errFastOpenUnsupported
}
