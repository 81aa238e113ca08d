package request

import (
	"net"
	"strings"
)

// Build composes the literal GET request for host and path.
//
// The request line ends in a bare "\n"; every header line ends in "\r\n" and
// the block is closed by an empty "\r\n" line. headers is copied verbatim and
// must already be CRLF-terminated lines. Connection: close is always sent so
// the response ends when the server closes the socket.
func Build(host, path, headers string, compression bool) []byte {
	var sb strings.Builder
	sb.Grow(64 + len(host) + len(path) + len(headers))

	sb.WriteString("GET ")
	sb.WriteString(path)
	sb.WriteString(" HTTP/1.1\nHost: ")
	sb.WriteString(host)
	sb.WriteString("\r\n")
	sb.WriteString("Connection: close\r\n")
	if compression {
		sb.WriteString("Accept-Encoding: gzip\r\n")
	}
	sb.WriteString(headers)
	sb.WriteString("\r\n")

	return []byte(sb.String())
}

// NormalizePath makes sure the request target is non-empty and absolute.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// HostField formats host for the Host header: IPv6 literals are bracketed,
// names and IPv4 literals pass through.
func HostField(host string) string {
	if strings.HasPrefix(host, "[") {
		return host
	}
	if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		return "[" + host + "]"
	}
	return host
}
