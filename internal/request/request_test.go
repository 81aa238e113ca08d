package request

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLiteral(t *testing.T) {
	got := string(Build("example.com", "/v1/ip", "User-Agent: qg\r\n", true))
	want := "GET /v1/ip HTTP/1.1\nHost: example.com\r\n" +
		"Connection: close\r\n" +
		"Accept-Encoding: gzip\r\n" +
		"User-Agent: qg\r\n" +
		"\r\n"
	assert.Equal(t, want, got)
}

func TestBuildWithoutCompression(t *testing.T) {
	got := string(Build("h", "/", "", false))
	assert.Equal(t, "GET / HTTP/1.1\nHost: h\r\nConnection: close\r\n\r\n", got)
	assert.NotContains(t, got, "Accept-Encoding")
}

func TestBuildInvariants(t *testing.T) {
	hosts := []string{"a", "example.org", "127.0.0.1", "[::1]"}
	paths := []string{"/", "/x?y=z", "/a/b/c"}
	headers := []string{"", "X-A: 1\r\n", "X-A: 1\r\nX-B: 2\r\n", "Accept: */*\r\n"}

	for _, h := range hosts {
		for _, p := range paths {
			for _, hd := range headers {
				for _, gz := range []bool{true, false} {
					req := string(Build(h, p, hd, gz))

					assert.True(t, strings.HasSuffix(req, "\r\n\r\n"), "request must end with a blank line: %q", req)
					assert.Equal(t, 1, strings.Count(req, "Host:"), "exactly one Host field: %q", req)
					assert.Equal(t, 1, strings.Count(req, "Connection: close\r\n"))
					assert.Equal(t, gz, strings.Contains(req, "Accept-Encoding: gzip\r\n"))
				}
			}
		}
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", NormalizePath(""))
	assert.Equal(t, "/weather", NormalizePath("weather"))
	assert.Equal(t, "/ip?format=json", NormalizePath("/ip?format=json"))
}

func TestHostField(t *testing.T) {
	assert.Equal(t, "example.com", HostField("example.com"))
	assert.Equal(t, "127.0.0.1", HostField("127.0.0.1"))
	assert.Equal(t, "[::1]", HostField("::1"))
	assert.Equal(t, "[2001:db8::1]", HostField("[2001:db8::1]"))
	assert.Equal(t, "[::ffff:10.0.0.1]", HostField("::ffff:10.0.0.1"))
}
