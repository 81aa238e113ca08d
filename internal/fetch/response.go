package fetch

import (
	"strings"

	"github.com/zulfikawr/quickget/internal/response"
)

// Response is a complete, validated HTTP response.
type Response struct {
	// Raw holds the header block, the blank line and the body.
	Raw []byte
	// HeaderLen is the offset of the "\r\n\r\n" boundary in Raw.
	HeaderLen    int
	StatusLine   string
	Decompressed bool
}

func newResponse(res *response.Result, decompressed bool) *Response {
	raw := res.Buf.Bytes()
	status := string(raw[:res.HeaderLen])
	if i := strings.Index(status, "\r\n"); i >= 0 {
		status = status[:i]
	}
	return &Response{
		Raw:          raw,
		HeaderLen:    res.HeaderLen,
		StatusLine:   status,
		Decompressed: decompressed,
	}
}

// Head returns the status line and header fields without the blank line.
func (r *Response) Head() []byte {
	return r.Raw[:r.HeaderLen]
}

// Body returns the bytes after the header boundary.
func (r *Response) Body() []byte {
	return r.Raw[r.HeaderLen+4:]
}

// Header returns the value of the named field, case-insensitively, or "".
func (r *Response) Header(name string) string {
	v, _ := response.HeaderValue(r.Head(), name)
	return v
}

// Headers returns the header field lines in order.
func (r *Response) Headers() []string {
	lines := strings.Split(string(r.Head()), "\r\n")
	if len(lines) <= 1 {
		return nil
	}
	return lines[1:]
}
