// Package buffer provides the growable byte buffer shared by the response
// receiver and the decompressor.
//
// A Buffer tracks a logical length (len of the backing slice) and an
// allocated capacity (cap of the backing slice). Reads land in the free tail
// and are committed afterwards, so a receive loop never copies through an
// intermediate slice. The buffer only grows; it never shrinks while in use.
package buffer

import "bytes"

// Buffer is a growable byte sequence with explicit free space.
type Buffer struct {
	data  []byte
	grows int
}

// New returns an empty buffer with at least capacity bytes allocated.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, 0, capacity)}
}

// From wraps p as a buffer whose logical length is len(p).
func From(p []byte) *Buffer {
	return &Buffer{data: p}
}

// Len returns the logical length.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the allocated capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Free returns the number of bytes that can be committed without growing.
func (b *Buffer) Free() int { return cap(b.data) - len(b.data) }

// Grows reports how many reallocations EnsureFree has performed.
func (b *Buffer) Grows() int { return b.grows }

// Bytes returns the logical contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Tail returns the free region after the logical end.
func (b *Buffer) Tail() []byte {
	return b.data[len(b.data):cap(b.data)]
}

// Commit extends the logical length by n bytes already written into Tail.
func (b *Buffer) Commit(n int) {
	if n < 0 || n > b.Free() {
		panic("buffer: commit out of range")
	}
	b.data = b.data[:len(b.data)+n]
}

// EnsureFree grows the allocation so that Free() >= n, preserving contents.
// It reports whether a reallocation happened.
func (b *Buffer) EnsureFree(n int) bool {
	if n <= b.Free() {
		return false
	}
	grown := make([]byte, len(b.data), len(b.data)+n)
	copy(grown, b.data)
	b.data = grown
	b.grows++
	return true
}

// Write appends p, growing as needed. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.EnsureFree(len(p))
	b.data = append(b.data, p...)
	return len(p), nil
}

// WriteString appends s, growing as needed.
func (b *Buffer) WriteString(s string) (int, error) {
	b.EnsureFree(len(s))
	b.data = append(b.data, s...)
	return len(s), nil
}

// HasPrefix reports whether the contents start with prefix.
func (b *Buffer) HasPrefix(prefix string) bool {
	return bytes.HasPrefix(b.data, []byte(prefix))
}

// Index returns the offset of sep in the contents, or -1.
func (b *Buffer) Index(sep []byte) int {
	return bytes.Index(b.data, sep)
}
