package decompress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"

	ferrors "github.com/zulfikawr/quickget/internal/errors"
)

// Backend names accepted by Load.
const (
	BackendKlauspost = "klauspost"
	BackendNone      = "none"
)

// Status is the outcome of one inflate step.
type Status int

const (
	// StatusStreamEnd means the whole stream has been inflated.
	StatusStreamEnd Status = iota
	// StatusBufferFull means the output window filled before the stream ended.
	StatusBufferFull
)

// Inflater is one streaming inflate context: Init once, Step until
// StatusStreamEnd, End always.
type Inflater interface {
	Init(src []byte) error
	Step(dst []byte) (n int, status Status, err error)
	End() error
}

// Capability creates inflate contexts for one backend.
type Capability struct {
	name string
	open func() Inflater
}

// Name returns the backend name.
func (c *Capability) Name() string { return c.name }

// NewInflater returns a fresh, uninitialised context.
func (c *Capability) NewInflater() Inflater { return c.open() }

// NewCapability wraps a custom inflater constructor.
func NewCapability(name string, open func() Inflater) *Capability {
	return &Capability{name: name, open: open}
}

type loadResult struct {
	capability *Capability
	err        error
}

var (
	loadMu sync.Mutex
	loaded = map[string]loadResult{}
)

// Load returns the process-wide capability for backend, binding it on first
// use. The result, success or not, is cached for the life of the process.
// An unknown or disabled backend yields CapabilityUnavailable.
func Load(backend string) (*Capability, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if r, ok := loaded[backend]; ok {
		return r.capability, r.err
	}

	var r loadResult
	switch backend {
	case BackendKlauspost, "":
		r.capability = NewCapability(BackendKlauspost, func() Inflater { return &gzipInflater{} })
	case BackendNone:
		r.err = ferrors.Newf(ferrors.CapabilityUnavailable, nil, "decompression disabled by configuration")
	default:
		r.err = ferrors.Newf(ferrors.CapabilityUnavailable, fmt.Errorf("unknown backend %q", backend),
			"decompression backend %q is not available", backend)
	}
	loaded[backend] = r
	return r.capability, r.err
}

// gzipInflater runs klauspost's gzip reader over an in-memory stream.
//
// The reader rejects a stream whose trailing ISIZE does not match the
// inflated length. ISIZE is advisory here, so the error is ignored when the
// trailing CRC-32 still matches what was produced.
type gzipInflater struct {
	r       *gzip.Reader
	crc     uint32
	wantCRC uint32
}

func (g *gzipInflater) Init(src []byte) error {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return err
	}
	r.Multistream(false)
	g.r = r
	g.crc = 0
	if len(src) >= 8 {
		g.wantCRC = binary.LittleEndian.Uint32(src[len(src)-8:])
	}
	return nil
}

func (g *gzipInflater) Step(dst []byte) (int, Status, error) {
	if g.r == nil {
		return 0, StatusStreamEnd, fmt.Errorf("inflater not initialised")
	}
	n := 0
	for n < len(dst) {
		m, err := g.r.Read(dst[n:])
		g.crc = crc32.Update(g.crc, crc32.IEEETable, dst[n:n+m])
		n += m
		switch {
		case err == nil:
		case err == io.EOF:
			return n, StatusStreamEnd, nil
		case err == gzip.ErrChecksum && g.crc == g.wantCRC:
			return n, StatusStreamEnd, nil
		default:
			return n, StatusStreamEnd, err
		}
	}
	return n, StatusBufferFull, nil
}

func (g *gzipInflater) End() error {
	if g.r == nil {
		return nil
	}
	err := g.r.Close()
	g.r = nil
	return err
}
