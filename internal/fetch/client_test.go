//go:build unix

package fetch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zulfikawr/quickget/internal/config"
	ferrors "github.com/zulfikawr/quickget/internal/errors"
)

// testServer answers every connection with reply and records the request
// heads it saw.
type testServer struct {
	ln       net.Listener
	requests chan string
}

func newTestServer(t *testing.T, reply func(req string) string) *testServer {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	ts := &testServer{ln: ln, requests: make(chan string, 16)}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				_ = c.SetDeadline(time.Now().Add(5 * time.Second))
				r := bufio.NewReader(c)
				var sb strings.Builder
				for {
					line, err := r.ReadString('\n')
					sb.WriteString(line)
					if err != nil || line == "\r\n" {
						break
					}
				}
				req := sb.String()
				ts.requests <- req
				_, _ = c.Write([]byte(reply(req)))
			}(conn)
		}
	}()
	return ts
}

func (ts *testServer) port() int {
	return ts.ln.Addr().(*net.TCPAddr).Port
}

func (ts *testServer) lastRequest(t *testing.T) string {
	t.Helper()
	select {
	case r := <-ts.requests:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no request received")
		return ""
	}
}

func static(reply string) func(string) string {
	return func(string) string { return reply }
}

func gzipped(t *testing.T, p []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	_, err := w.Write(p)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return b.Bytes()
}

// modes covers every connection path.
var modes = []struct {
	name string
	opts []Option
}{
	{"fast open", []Option{WithFastOpen(true), WithMultithreading(false)}},
	{"inline", []Option{WithFastOpen(false), WithMultithreading(false)}},
	{"async", []Option{WithFastOpen(false), WithMultithreading(true)}},
}

func newClient(port int, opts ...Option) *Client {
	base := []Option{WithPort(port), WithTimeout(2 * time.Second)}
	return NewClient(append(base, opts...)...)
}

func TestGetPlain(t *testing.T) {
	ts := newTestServer(t, static("HTTP/1.1 200 OK\r\nContent-Length: 5\r\nContent-Type: text/plain\r\n\r\nhello"))

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			c := newClient(ts.port(), append(m.opts, WithCompression(false))...)
			resp, err := c.Get(context.Background(), "127.0.0.1", "/plain", "X-Trace: 1\r\n")
			require.NoError(t, err)

			assert.Equal(t, "hello", string(resp.Body()))
			assert.Equal(t, "HTTP/1.1 200 OK", resp.StatusLine)
			assert.Equal(t, "text/plain", resp.Header("content-type"))
			assert.False(t, resp.Decompressed)

			req := ts.lastRequest(t)
			assert.True(t, strings.HasPrefix(req, "GET /plain HTTP/1.1\nHost: 127.0.0.1\r\n"))
			assert.Contains(t, req, "X-Trace: 1\r\n")
			assert.NotContains(t, req, "Accept-Encoding")
		})
	}
}

func TestGetGzip(t *testing.T) {
	plain := []byte(strings.Repeat("{\"status\":\"ok\"}\n", 500))
	body := gzipped(t, plain)
	reply := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\nContent-Length: %d\r\n\r\n%s", len(body), body)
	ts := newTestServer(t, func(req string) string {
		if !strings.Contains(req, "Accept-Encoding: gzip\r\n") {
			return "HTTP/1.1 406 Not Acceptable\r\n\r\n"
		}
		return reply
	})

	c := newClient(ts.port(), WithCompression(true))
	resp, err := c.Get(context.Background(), "127.0.0.1", "/data.json", "")
	require.NoError(t, err)

	assert.True(t, resp.Decompressed)
	assert.Equal(t, plain, resp.Body())
	assert.Equal(t, fmt.Sprint(len(plain)), resp.Header("Content-Length"))
	assert.Empty(t, resp.Header("Content-Encoding"))
}

func TestGzipBodyWithoutNegotiationIsKept(t *testing.T) {
	body := gzipped(t, []byte("payload"))
	reply := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\nContent-Length: %d\r\n\r\n%s", len(body), body)
	ts := newTestServer(t, static(reply))

	c := newClient(ts.port(), WithCompression(true), WithBackend("none"))
	resp, err := c.Get(context.Background(), "127.0.0.1", "/", "")
	require.NoError(t, err)

	assert.False(t, resp.Decompressed)
	assert.Equal(t, body, resp.Body())
	assert.NotContains(t, ts.lastRequest(t), "Accept-Encoding")
}

func TestGetNotGzip(t *testing.T) {
	ts := newTestServer(t, static("HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\nContent-Length: 4\r\n\r\nnope"))

	_, err := newClient(ts.port()).Get(context.Background(), "127.0.0.1", "/", "")
	assert.ErrorIs(t, err, ferrors.NotGzip)
}

func TestGetRefused(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			c := newClient(port, m.opts...)
			done := make(chan error, 1)
			go func() {
				_, err := c.Get(context.Background(), "127.0.0.1", "/", "")
				done <- err
			}()

			select {
			case err := <-done:
				assert.ErrorIs(t, err, ferrors.ConnectFailed)
			case <-time.After(5 * time.Second):
				t.Fatal("fetch against a refusing port hung")
			}
		})
	}
}

func TestReceiveIsSingleUse(t *testing.T) {
	ts := newTestServer(t, static("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"))
	c := newClient(ts.port())

	s, err := c.Send(context.Background(), "127.0.0.1", "/", "")
	require.NoError(t, err)

	_, err = s.Receive()
	require.NoError(t, err)

	_, err = s.Receive()
	assert.ErrorIs(t, err, ferrors.PriorSendFailed)
}

func TestGetInvalidStatus(t *testing.T) {
	ts := newTestServer(t, static("HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n"))

	_, err := newClient(ts.port()).Get(context.Background(), "127.0.0.1", "/missing", "")
	assert.ErrorIs(t, err, ferrors.InvalidResponse)
}

func TestGetIPv6LiteralHostField(t *testing.T) {
	ln, err := net.Listen("tcp6", "[::1]:0")
	if err != nil {
		t.Skipf("IPv6 loopback unavailable: %v", err)
	}
	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		line, _ := r.ReadString('\n')
		host, _ := r.ReadString('\n')
		for {
			l, err := r.ReadString('\n')
			if err != nil || l == "\r\n" {
				break
			}
		}
		got <- line + host
		_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"))
	}()
	t.Cleanup(func() { ln.Close() })

	port := ln.Addr().(*net.TCPAddr).Port
	c := newClient(port, WithIPv6(true), WithCompression(false))
	resp, err := c.Get(context.Background(), "::1", "/", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body()))
	assert.Equal(t, "GET / HTTP/1.1\nHost: [::1]\r\n", <-got)
}

type failingLookup struct{}

func (failingLookup) LookupIP(context.Context, string, string) ([]net.IP, error) {
	return nil, errors.New("no such host")
}

func TestSendResolutionFailed(t *testing.T) {
	c := newClient(80)
	c.SetLookup(failingLookup{})

	_, err := c.Send(context.Background(), "invalid.example", "/", "")
	assert.ErrorIs(t, err, ferrors.ResolutionFailed)
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IPv6 = true
	cfg.TimeoutMs = 250
	cfg.Port = 8080
	cfg.Headers = []string{"User-Agent: test", "Accept: */*"}

	o := FromConfig(cfg).Options()
	assert.True(t, o.IPv6)
	assert.Equal(t, 250*time.Millisecond, o.Timeout)
	assert.Equal(t, 8080, o.Port)
	assert.Equal(t, "User-Agent: test\r\nAccept: */*\r\n", o.Headers)
	assert.Equal(t, cfg.DecompressBackend, o.Backend)
}

func TestResponseAccessors(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nA: 1\r\nB: two\r\n\r\nbody")
	r := &Response{Raw: raw, HeaderLen: bytes.Index(raw, []byte("\r\n\r\n"))}

	assert.Equal(t, []string{"A: 1", "B: two"}, r.Headers())
	assert.Equal(t, "two", r.Header("b"))
	assert.Equal(t, "", r.Header("missing"))
	assert.Equal(t, "body", string(r.Body()))
}
