package gdem0154f51h

import "io"

// Source gives random access to the bytes of a caller-owned bitmap.
//
// The driver only reads from a Source and never keeps it past the call.
type Source interface {
	// Len returns the number of bytes available.
	Len() int
	// ByteAt returns the byte at offset i, 0 <= i < Len().
	ByteAt(i int) byte
}

// Bytes is a Source backed by memory.
type Bytes []byte

// Len implements Source.
func (b Bytes) Len() int { return len(b) }

// ByteAt implements Source.
func (b Bytes) ByteAt(i int) byte { return b[i] }

// ReaderAt returns a Source reading size bytes from r, typically read-only
// storage such as an embedded asset or a mapped file.
//
// Bytes that cannot be read are returned as 0xFF.
func ReaderAt(r io.ReaderAt, size int) Source {
	return &readerAt{r: r, size: size}
}

type readerAt struct {
	r    io.ReaderAt
	size int
	b    [1]byte
}

func (s *readerAt) Len() int { return s.size }

func (s *readerAt) ByteAt(i int) byte {
	if n, _ := s.r.ReadAt(s.b[:], int64(i)); n != 1 {
		return 0xFF
	}
	return s.b[0]
}

// empty reports whether s has nothing to draw.
func empty(s Source) bool {
	return s == nil || s.Len() == 0
}
