package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	b := New(16)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 16, b.Cap())
	assert.Equal(t, 16, b.Free())

	b = New(-1)
	assert.Equal(t, 0, b.Cap())
	assert.GreaterOrEqual(t, b.Free(), 0)
}

func TestCommitTail(t *testing.T) {
	b := New(8)
	n := copy(b.Tail(), "abc")
	b.Commit(n)

	assert.Equal(t, "abc", string(b.Bytes()))
	assert.Equal(t, 5, b.Free())
	assert.Len(t, b.Tail(), 5)
	assert.Panics(t, func() { b.Commit(6) })
	assert.Panics(t, func() { b.Commit(-1) })
}

func TestEnsureFreeGuaranteesSpace(t *testing.T) {
	for _, start := range []int{0, 1, 7, 64} {
		for _, want := range []int{0, 1, 9, 100, 4096} {
			b := New(start)
			_, _ = b.WriteString("hello")
			before := string(b.Bytes())

			b.EnsureFree(want)

			require.GreaterOrEqual(t, b.Free(), want, "start=%d want=%d", start, want)
			require.GreaterOrEqual(t, b.Cap(), 0)
			assert.Equal(t, before, string(b.Bytes()), "contents must survive growth")
		}
	}
}

func TestEnsureFreeNoopWhenRoomy(t *testing.T) {
	b := New(32)
	assert.False(t, b.EnsureFree(32))
	assert.Equal(t, 0, b.Grows())
	assert.True(t, b.EnsureFree(33))
	assert.Equal(t, 1, b.Grows())
}

func TestWriteAndSearch(t *testing.T) {
	b := New(2)
	_, _ = b.WriteString("HTTP/1.1 200 OK\r\n\r\nbody")
	_, _ = b.Write([]byte("!"))

	assert.True(t, b.HasPrefix("HTTP/1.1 200 OK\r\n"))
	assert.False(t, b.HasPrefix("HTTP/1.0"))
	assert.Equal(t, 15, b.Index([]byte("\r\n\r\n")))
	assert.Equal(t, -1, b.Index([]byte("missing")))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\nbody!", string(b.Bytes()))
}

func TestFromWrapsSlice(t *testing.T) {
	b := From([]byte("xyz"))
	assert.Equal(t, 3, b.Len())
	b.EnsureFree(10)
	assert.Equal(t, "xyz", string(b.Bytes()))
}
