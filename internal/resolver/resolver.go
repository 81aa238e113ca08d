package resolver

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"

	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/logging"
)

// DefaultPort is the plain HTTP port every lookup is bound to.
const DefaultPort = 80

// Family selects the address family to resolve for.
type Family int

const (
	IPv4 Family = iota
	IPv6
)

func (f Family) network() string {
	if f == IPv6 {
		return "ip6"
	}
	return "ip4"
}

func (f Family) String() string {
	if f == IPv6 {
		return "IPv6"
	}
	return "IPv4"
}

// Address is the single endpoint a session connects to.
type Address struct {
	IP     net.IP
	Port   int
	Family Family
}

func (a *Address) String() string {
	return net.JoinHostPort(a.IP.String(), fmt.Sprint(a.Port))
}

// Lookup is the subset of *net.Resolver used here.
type Lookup interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Resolver turns a host name into one connectable address.
// The port is always numeric so no service-name lookup happens.
type Resolver struct {
	Lookup Lookup
	Port   int
}

// New returns a Resolver backed by net.DefaultResolver on port 80.
func New() *Resolver {
	return &Resolver{Lookup: net.DefaultResolver, Port: DefaultPort}
}

// Resolve returns the first address of the requested family for host.
// Remaining candidates are ignored; there is no retry across them.
func (r *Resolver) Resolve(ctx context.Context, host string, family Family) (*Address, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver
	}
	port := r.Port
	if port == 0 {
		port = DefaultPort
	}

	logging.Debug("Resolving address", zap.String("host", host), zap.Stringer("family", family))

	ips, err := lookup.LookupIP(ctx, family.network(), host)
	if err != nil {
		logging.Debug("Address resolution failed", zap.String("host", host), zap.Error(err))
		return nil, ferrors.Newf(ferrors.ResolutionFailed, err, "cannot resolve %s (%s)", host, family)
	}
	if len(ips) == 0 {
		return nil, ferrors.Newf(ferrors.ResolutionFailed, nil, "no %s address for %s", family, host)
	}

	addr := &Address{IP: ips[0], Port: port, Family: family}
	logging.Debug("Address resolution successful",
		zap.String("host", host),
		zap.Stringer("addr", addr),
		zap.Int("candidates", len(ips)))
	return addr, nil
}
