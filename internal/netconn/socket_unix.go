//go:build unix

package netconn

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/zulfikawr/quickget/internal/resolver"
)

func sysSocket(family resolver.Family) (int, error) {
	domain := unix.AF_INET
	if family == resolver.IPv6 {
		domain = unix.AF_INET6
	}
	fd, err := unix.Socket(domain, unix.SOCK_STREAM, 0)
	if err != nil {
		return invalidFD, err
	}
	unix.CloseOnExec(fd)
	return fd, nil
}

func sysClose(fd int) error {
	return unix.Close(fd)
}

func sysRead(fd int, p []byte) (int, error) {
	for {
		n, err := unix.Read(fd, p)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

// sysWriteAll sends p in as few write calls as the kernel allows; a small
// request goes out in one call.
func sysWriteAll(fd int, p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// sysConnect connects synchronously. An interrupted or in-progress connect
// is finished by polling for writability.
func sysConnect(fd int, addr *resolver.Address, timeout time.Duration) error {
	sa, err := sockaddr(addr)
	if err != nil {
		return err
	}
	err = unix.Connect(fd, sa)
	switch err {
	case nil:
		return nil
	case unix.EINTR, unix.EINPROGRESS, unix.EALREADY:
		return sysAwaitConnect(fd, timeout)
	default:
		return err
	}
}

// sysAwaitConnect waits until a pending connect on fd has completed and
// returns its outcome. timeout <= 0 waits without bound.
func sysAwaitConnect(fd int, timeout time.Duration) error {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
	wait := -1
	if timeout > 0 {
		wait = int(timeout / time.Millisecond)
	}
	for {
		n, err := unix.Poll(fds, wait)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return unix.ETIMEDOUT
		}
		break
	}
	soErr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if soErr != 0 {
		return unix.Errno(soErr)
	}
	return nil
}

func sysConfigureReceive(fd int, timeout time.Duration, rcvbuf int, log *zap.Logger) {
	if timeout > 0 {
		tv := unix.NsecToTimeval(timeout.Nanoseconds())
		log.Debug("Setting receive timeout", zap.Duration("timeout", timeout))
		if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
			log.Debug("Failed to set SO_RCVTIMEO", zap.Error(err))
		}
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, rcvbuf); err != nil {
		log.Debug("Failed to set SO_RCVBUF", zap.Error(err))
	}
}

func sockaddr(addr *resolver.Address) (unix.Sockaddr, error) {
	if addr.Family == resolver.IPv4 {
		ip4 := addr.IP.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("%s is not an IPv4 address", addr.IP)
		}
		sa := &unix.SockaddrInet4{Port: addr.Port}
		copy(sa.Addr[:], ip4)
		return sa, nil
	}
	ip16 := addr.IP.To16()
	if ip16 == nil {
		return nil, fmt.Errorf("%s is not an IPv6 address", addr.IP)
	}
	sa := &unix.SockaddrInet6{Port: addr.Port}
	copy(sa.Addr[:], ip16)
	return sa, nil
}

// setsockoptLogged applies one integer option, logging instead of failing.
func setsockoptLogged(fd, level, opt, value int, name string, log *zap.Logger) {
	if err := unix.SetsockoptInt(fd, level, opt, value); err != nil {
		log.Debug("Failed to set "+name, zap.Error(err))
		return
	}
	log.Debug("Set "+name, zap.Int("value", value))
}
