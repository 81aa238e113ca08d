// Package response receives and validates the reply to a single request.
package response

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zulfikawr/quickget/internal/buffer"
	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/logging"
	"github.com/zulfikawr/quickget/internal/metrics"
	"github.com/zulfikawr/quickget/internal/netconn"
)

// StatusOK is the only status line accepted as success.
const StatusOK = "HTTP/1.1 200 OK\r\n"

// DefaultBufferSize is the initial receive buffer capacity.
const DefaultBufferSize = 4096

// contentLengthMargin is added to the declared body length when pre-growing.
const contentLengthMargin = 16

// maxPreGrow bounds the declared length the buffer is grown for. Larger
// values are not pre-allocated and end in LengthMismatch.
const maxPreGrow = min(uint64(math.MaxUint32), uint64(math.MaxInt-contentLengthMargin))

var headerEnd = []byte("\r\n\r\n")

// Options controls a receive.
type Options struct {
	Timeout    time.Duration
	BufferSize int
	Logger     *zap.Logger
}

// Result is a validated raw response.
type Result struct {
	Buf *buffer.Buffer
	// HeaderLen is the offset of the "\r\n\r\n" boundary.
	HeaderLen     int
	ContentLength uint64
}

// BodyOffset returns the index of the first body byte.
func (r *Result) BodyOffset() int {
	return r.HeaderLen + len(headerEnd)
}

// Receive waits for the send side to finish and reads the whole response.
//
// If task is non-nil it is joined first, bounded by Timeout; a timeout
// returns JoinTimeout without touching sock. The socket is closed on every
// other path.
func Receive(sock *netconn.Socket, task *netconn.Task, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.GetLogger()
	}

	if task != nil {
		log.Debug("Connection task is running, waiting for it to complete", zap.Duration("timeout", opts.Timeout))
		if err := task.Join(opts.Timeout); err != nil {
			log.Debug("Connection task join timed out")
			return nil, err
		}
		if err := task.Err(); err != nil {
			log.Debug("Connection task failed", zap.Error(err))
			sock.Close()
			return nil, err
		}
	}

	if !sock.Valid() {
		log.Debug("Invalid socket, HTTP request might have failed")
		return nil, ferrors.New(ferrors.PriorSendFailed, nil)
	}
	defer sock.Close()

	if err := sock.Flush(); err != nil {
		return nil, err
	}

	sock.ConfigureReceive(opts.Timeout)

	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := buffer.New(size)

	res := &Result{Buf: buf, HeaderLen: -1}
	reads := 0
	for buf.Free() > 0 {
		reads++
		n, err := sock.Read(buf.Tail())
		if n <= 0 || err != nil {
			if err != nil {
				log.Debug("Reception failed", zap.Error(err), zap.Int("total", buf.Len()))
			} else {
				log.Debug("Connection closed", zap.Int("total", buf.Len()))
			}
			break
		}
		buf.Commit(n)

		if res.HeaderLen < 0 {
			if idx := buf.Index(headerEnd); idx >= 0 {
				res.HeaderLen = idx
				log.Debug("Found HTTP header end marker", zap.Int("position", idx))
				if cl, ok := ContentLength(buf.Bytes()[:idx]); ok && cl > 0 {
					res.ContentLength = cl
					if cl <= maxPreGrow {
						log.Debug("Detected Content-Length, pre-allocating buffer", zap.Uint64("length", cl))
						buf.EnsureFree(int(cl) + contentLengthMargin)
					} else {
						log.Debug("Content-Length too large to pre-allocate", zap.Uint64("length", cl))
					}
				}
			}
		}
	}
	log.Debug("Data reception finished", zap.Int("reads", reads), zap.Int("bytes", buf.Len()))
	metrics.RecordGrowth(metrics.BufferReceive, buf.Grows())

	if err := validate(res); err != nil {
		log.Debug("Invalid response", zap.Error(err))
		return nil, err
	}

	metrics.ResponseSize.Observe(float64(buf.Len()))
	return res, nil
}

func validate(res *Result) error {
	buf := res.Buf
	if buf.Len() == 0 {
		return ferrors.New(ferrors.EmptyResponse, nil)
	}
	if res.HeaderLen < 0 {
		return ferrors.New(ferrors.NoHeaderBoundary, nil)
	}
	if res.ContentLength > 0 {
		body := uint64(buf.Len() - res.BodyOffset())
		if body != res.ContentLength {
			return ferrors.Newf(ferrors.LengthMismatch, nil,
				"content length mismatch: received %d body bytes, expected %d", body, res.ContentLength)
		}
	}
	if !buf.HasPrefix(StatusOK) {
		return ferrors.Newf(ferrors.InvalidResponse, nil, "invalid response: %q", statusLine(buf.Bytes()))
	}
	return nil
}

// statusLine returns the first line of p, cut to 40 bytes.
func statusLine(p []byte) string {
	if i := bytes.IndexByte(p, '\n'); i >= 0 {
		p = p[:i]
	}
	if len(p) > 40 {
		p = p[:40]
	}
	return strings.TrimRight(string(p), "\r")
}

// ContentLength extracts a Content-Length value from a header block.
// Only leading digits are used, so "12abc" yields 12.
func ContentLength(head []byte) (uint64, bool) {
	v, ok := HeaderValue(head, "Content-Length")
	if !ok {
		return 0, false
	}
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseUint(v[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HeaderValue returns the trimmed value of the first header field called
// name in head, compared case-insensitively. The status line is skipped.
func HeaderValue(head []byte, name string) (string, bool) {
	lines := strings.Split(string(head), "\n")
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(line[:colon]), name) {
			return strings.TrimSpace(line[colon+1:]), true
		}
	}
	return "", false
}
