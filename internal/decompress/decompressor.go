// Package decompress inflates gzip response bodies and rewrites the header
// block to describe the inflated body.
package decompress

import (
	"bytes"
	"encoding/binary"
	"strconv"

	"go.uber.org/zap"

	"github.com/zulfikawr/quickget/internal/buffer"
	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/logging"
	"github.com/zulfikawr/quickget/internal/metrics"
	"github.com/zulfikawr/quickget/internal/response"
)

const (
	// sizeHintMargin absorbs slack on top of the trailer size hint.
	sizeHintMargin = 64
	// fallbackRatio sizes the output when the trailer hint is unusable.
	fallbackRatio = 5
	// minTrailerPayload is the smallest body whose trailer is trusted.
	minTrailerPayload = 18
	// minGrowth keeps tiny buffers from growing a byte at a time.
	minGrowth = 64
	// maxDeflateRatio is the largest expansion deflate can encode; a trailer
	// claiming more is not trusted for pre-allocation.
	maxDeflateRatio = 1032
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	gzipMarker  = []byte("\ncontent-encoding: gzip")
	headerBreak = []byte("\r\n\r\n")
)

// Decompressor inflates gzip bodies with an injected capability.
type Decompressor struct {
	capability *Capability
	log        *zap.Logger
}

// New returns a Decompressor bound to capability.
func New(capability *Capability, log *zap.Logger) *Decompressor {
	if log == nil {
		log = logging.GetLogger()
	}
	return &Decompressor{capability: capability, log: log}
}

// IsGzipEncoded reports whether the header block head, which must end
// before the blank line, declares Content-Encoding: gzip. Only the header
// is searched, never the body.
func IsGzipEncoded(head []byte) bool {
	return bytes.Contains(bytes.ToLower(head), gzipMarker)
}

// SizeHint predicts the inflated size of a gzip payload.
func SizeHint(payload []byte) int {
	if len(payload) > minTrailerPayload {
		isize := binary.LittleEndian.Uint32(payload[len(payload)-4:])
		if isize > 0 {
			return int(min(uint64(isize), uint64(len(payload))*maxDeflateRatio)) + sizeHintMargin
		}
	}
	return len(payload) * fallbackRatio
}

// Apply inflates res in place when its header declares gzip. It reports
// whether the body was replaced. A response without the marker, or with an
// empty body, is left untouched.
func (d *Decompressor) Apply(res *response.Result) (bool, error) {
	raw := res.Buf.Bytes()
	head := raw[:res.HeaderLen]

	if !IsGzipEncoded(head) {
		d.log.Debug("No gzip compressed content detected, skipping decompression")
		return false, nil
	}

	payload := raw[res.BodyOffset():]
	if len(payload) == 0 {
		d.log.Debug("Compressed content size is 0, skipping decompression")
		return false, nil
	}
	if !bytes.HasPrefix(payload, gzipMagic) {
		return false, ferrors.New(ferrors.NotGzip, nil)
	}

	body, err := d.Inflate(payload)
	if err != nil {
		return false, err
	}

	out := rewriteHeader(head, body.Len())
	headerLen := out.Len() - len(headerBreak)
	out.Write(body.Bytes())

	metrics.RecordDecompression(len(payload), body.Len())
	d.log.Debug("Decompressed response body",
		zap.Int("compressed", len(payload)),
		zap.Int("decompressed", body.Len()))

	res.Buf = out
	res.HeaderLen = headerLen
	res.ContentLength = uint64(body.Len())
	return true, nil
}

// Inflate decompresses a whole gzip payload. The output buffer starts at
// SizeHint and grows by half its length whenever the inflater runs out of
// room, so a wrong hint only costs reallocations.
func (d *Decompressor) Inflate(payload []byte) (*buffer.Buffer, error) {
	out := buffer.New(SizeHint(payload))
	d.log.Debug("Created decompression buffer", zap.Int("capacity", out.Cap()))

	inf := d.capability.NewInflater()
	if err := inf.Init(payload); err != nil {
		return nil, ferrors.New(ferrors.DecompressFailed, err)
	}
	defer inf.End()

	for {
		if out.Free() == 0 {
			out.EnsureFree(max(out.Len()/2, minGrowth))
		}
		n, status, err := inf.Step(out.Tail())
		out.Commit(n)
		if err != nil {
			return nil, ferrors.New(ferrors.DecompressFailed, err)
		}
		if status == StatusStreamEnd {
			break
		}
		// Buffer full may be reported with room left; the window must widen
		d.log.Debug("Output buffer insufficient, extending", zap.Int("length", out.Len()))
		out.EnsureFree(out.Free() + max(out.Len()/2, minGrowth))
	}

	metrics.RecordGrowth(metrics.BufferInflate, out.Grows())
	return out, nil
}

// rewriteHeader copies head line by line, dropping Content-Encoding and
// replacing Content-Length with size. The result ends with the blank line.
func rewriteHeader(head []byte, size int) *buffer.Buffer {
	out := buffer.New(len(head) + len(headerBreak) + size + sizeHintMargin)

	for _, line := range bytes.Split(head, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		switch {
		case hasPrefixFold(line, "Content-Encoding:"):
			continue
		case hasPrefixFold(line, "Content-Length:"):
			out.WriteString("Content-Length: " + strconv.Itoa(size) + "\r\n")
			continue
		}
		out.Write(line)
		out.WriteString("\r\n")
	}
	out.WriteString("\r\n")
	return out
}

func hasPrefixFold(line []byte, prefix string) bool {
	return len(line) >= len(prefix) && bytes.EqualFold(line[:len(prefix)], []byte(prefix))
}
