package decompress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zulfikawr/quickget/internal/buffer"
	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/response"
)

func gzipBytes(t *testing.T, p []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	_, err := w.Write(p)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return b.Bytes()
}

func setISIZE(p []byte, v uint32) []byte {
	out := append([]byte(nil), p...)
	binary.LittleEndian.PutUint32(out[len(out)-4:], v)
	return out
}

func newDecompressor(t *testing.T) *Decompressor {
	t.Helper()
	c, err := Load(BackendKlauspost)
	require.NoError(t, err)
	return New(c, zap.NewNop())
}

func resultFor(raw []byte) *response.Result {
	return &response.Result{
		Buf:       buffer.From(raw),
		HeaderLen: bytes.Index(raw, []byte("\r\n\r\n")),
	}
}

func TestInflateRoundTrip(t *testing.T) {
	plain := []byte(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200))
	d := newDecompressor(t)

	out, err := d.Inflate(gzipBytes(t, plain))
	require.NoError(t, err)
	assert.Equal(t, plain, out.Bytes())
	assert.Equal(t, 0, out.Grows(), "correct trailer hint needs no growth")
}

func TestInflateWithBadSizeTrailer(t *testing.T) {
	plain := bytes.Repeat([]byte("a"), 100_000)
	compressed := gzipBytes(t, plain)
	d := newDecompressor(t)

	tests := []struct {
		name  string
		isize uint32
	}{
		{"zeroed", 0},
		{"too small", 10},
		{"too large", 1 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := d.Inflate(setISIZE(compressed, tt.isize))
			require.NoError(t, err)
			assert.Equal(t, len(plain), out.Len())
			assert.True(t, bytes.Equal(plain, out.Bytes()))
		})
	}
}

func TestInflateGrowthLoop(t *testing.T) {
	plain := bytes.Repeat([]byte("z"), 1<<20)
	compressed := setISIZE(gzipBytes(t, plain), 0)
	require.Less(t, len(compressed)*fallbackRatio, len(plain))

	out, err := newDecompressor(t).Inflate(compressed)
	require.NoError(t, err)
	assert.Equal(t, plain, out.Bytes())
	assert.Greater(t, out.Grows(), 1)
}

func TestInflateCorruptChecksum(t *testing.T) {
	compressed := gzipBytes(t, []byte("hello, hello, hello, hello"))
	compressed[len(compressed)-8] ^= 0xff

	_, err := newDecompressor(t).Inflate(compressed)
	assert.ErrorIs(t, err, ferrors.DecompressFailed)
}

func TestInflateTruncated(t *testing.T) {
	compressed := gzipBytes(t, bytes.Repeat([]byte("abc"), 1000))

	_, err := newDecompressor(t).Inflate(compressed[:len(compressed)/2])
	assert.ErrorIs(t, err, ferrors.DecompressFailed)
}

func TestApplyRewritesHeader(t *testing.T) {
	plain := []byte("<html>hello world</html>")
	body := gzipBytes(t, plain)
	raw := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/html\r\ncontent-encoding: gzip\r\nContent-Length: %d\r\nServer: test\r\n\r\n%s", len(body), body)
	res := resultFor([]byte(raw))

	done, err := newDecompressor(t).Apply(res)
	require.NoError(t, err)
	assert.True(t, done)

	want := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: %d\r\nServer: test\r\n\r\n%s", len(plain), plain)
	assert.Equal(t, want, string(res.Buf.Bytes()))
	assert.Equal(t, uint64(len(plain)), res.ContentLength)
	assert.Equal(t, string(plain), string(res.Buf.Bytes()[res.BodyOffset():]))
}

func TestApplyIgnoresMarkerInBody(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 24\r\n\r\n\nContent-Encoding: gzip\n")
	res := resultFor(raw)

	done, err := newDecompressor(t).Apply(res)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, raw, res.Buf.Bytes())
}

func TestApplyNotGzip(t *testing.T) {
	res := resultFor([]byte("HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\n\r\nplain text"))

	_, err := newDecompressor(t).Apply(res)
	assert.ErrorIs(t, err, ferrors.NotGzip)
}

func TestApplyEmptyBody(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\n\r\n")
	res := resultFor(raw)

	done, err := newDecompressor(t).Apply(res)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, raw, res.Buf.Bytes())
}

func TestSizeHint(t *testing.T) {
	small := []byte{0x1f, 0x8b, 1, 2, 3, 4, 5, 6, 7, 8}
	assert.Equal(t, len(small)*fallbackRatio, SizeHint(small))

	payload := make([]byte, 40)
	binary.LittleEndian.PutUint32(payload[36:], 1000)
	assert.Equal(t, 1000+sizeHintMargin, SizeHint(payload))

	binary.LittleEndian.PutUint32(payload[36:], 0)
	assert.Equal(t, 40*fallbackRatio, SizeHint(payload))
}

func TestSizeHintClampsForgedTrailer(t *testing.T) {
	payload := make([]byte, 19)
	payload[0], payload[1] = 0x1f, 0x8b
	binary.LittleEndian.PutUint32(payload[15:], 0xffffffff)
	assert.Equal(t, 19*maxDeflateRatio+sizeHintMargin, SizeHint(payload))
}

func TestIsGzipEncoded(t *testing.T) {
	assert.True(t, IsGzipEncoded([]byte("HTTP/1.1 200 OK\r\nCONTENT-ENCODING: GZIP")))
	assert.False(t, IsGzipEncoded([]byte("HTTP/1.1 200 OK\r\nContent-Encoding: br")))
	assert.False(t, IsGzipEncoded([]byte("Content-Encoding: gzip")), "marker must follow a line break")
}

func TestLoad(t *testing.T) {
	a, err := Load(BackendKlauspost)
	require.NoError(t, err)
	b, err := Load(BackendKlauspost)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, BackendKlauspost, a.Name())

	_, err = Load(BackendNone)
	assert.ErrorIs(t, err, ferrors.CapabilityUnavailable)

	_, err = Load("zlib-ng")
	assert.ErrorIs(t, err, ferrors.CapabilityUnavailable)
}

type stubInflater struct {
	chunks [][]byte
	ended  bool
}

func (s *stubInflater) Init([]byte) error { return nil }

func (s *stubInflater) Step(dst []byte) (int, Status, error) {
	n := 0
	for len(s.chunks) > 0 {
		c := s.chunks[0]
		m := copy(dst[n:], c)
		n += m
		if m < len(c) {
			s.chunks[0] = c[m:]
			return n, StatusBufferFull, nil
		}
		s.chunks = s.chunks[1:]
	}
	return n, StatusStreamEnd, nil
}

func (s *stubInflater) End() error {
	s.ended = true
	return nil
}

func TestInflateWithInjectedCapability(t *testing.T) {
	stub := &stubInflater{chunks: [][]byte{bytes.Repeat([]byte("x"), 500), []byte("end")}}
	d := New(NewCapability("stub", func() Inflater { return stub }), zap.NewNop())

	// 10 bytes: 5x hint is 50, far below the 503 produced
	out, err := d.Inflate([]byte{0x1f, 0x8b, 0, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 503, out.Len())
	assert.True(t, stub.ended)
	assert.Greater(t, out.Grows(), 0)
}

// lazyInflater reports buffer full, producing nothing, until it is handed a
// window of at least need bytes.
type lazyInflater struct {
	need  int
	out   []byte
	steps int
}

func (l *lazyInflater) Init([]byte) error { return nil }

func (l *lazyInflater) Step(dst []byte) (int, Status, error) {
	l.steps++
	if l.steps > 1000 {
		return 0, StatusStreamEnd, errors.New("output window never widened")
	}
	if len(dst) < l.need {
		return 0, StatusBufferFull, nil
	}
	return copy(dst, l.out), StatusStreamEnd, nil
}

func (l *lazyInflater) End() error { return nil }

func TestInflateWidensWindowOnBufferFull(t *testing.T) {
	lazy := &lazyInflater{need: 64, out: []byte("inflated")}
	d := New(NewCapability("lazy", func() Inflater { return lazy }), zap.NewNop())

	// 6 bytes: 5x hint gives a 30 byte window
	out, err := d.Inflate([]byte{0x1f, 0x8b, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "inflated", string(out.Bytes()))
	assert.Equal(t, 2, lazy.steps)
}
