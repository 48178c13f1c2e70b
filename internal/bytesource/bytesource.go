// Package bytesource provides a random-access cursor over a fixed-length
// byte buffer, the abstraction the plist reader is built on (spec.md §4.2).
// Host byte-order conversion and file I/O are kept out of this package; it
// only tracks position and hands back exact-length slices.
package bytesource

import "fmt"

// Source is a cursor over an in-memory byte buffer. The zero value is not
// usable; construct one with New. A Source is not safe for concurrent use
// and, like the reader built on top of it, is meant to be owned by a single
// parse for its whole lifetime (spec.md §5).
type Source struct {
	data []byte
	pos  int
}

// New wraps buf in a Source positioned at offset 0. The Source does not
// copy buf; callers must not mutate it while the Source is in use.
func New(buf []byte) *Source {
	return &Source{data: buf}
}

// Len reports the total length of the underlying buffer.
func (s *Source) Len() int { return len(s.data) }

// Position reports the current cursor offset.
func (s *Source) Position() int { return s.pos }

// Seek moves the cursor to an absolute offset. It is a fatal error
// (reported, never silently clamped) to seek outside [0, Len()].
func (s *Source) Seek(absolute int) error {
	if absolute < 0 || absolute > len(s.data) {
		return fmt.Errorf("bytesource: seek %d out of range [0, %d]", absolute, len(s.data))
	}
	s.pos = absolute
	return nil
}

// ReadExact returns the next n bytes and advances the cursor past them.
// Reading past the end of the buffer is fatal, per spec.md §4.2 and §7 —
// it always indicates a truncated or corrupted file whose remainder cannot
// be interpreted.
func (s *Source) ReadExact(n int) ([]byte, error) {
	if n < 0 || s.pos+n > len(s.data) {
		return nil, fmt.Errorf("bytesource: read %d bytes at %d exceeds length %d", n, s.pos, len(s.data))
	}
	b := s.data[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

// PeekByte returns the byte at the cursor without advancing it.
func (s *Source) PeekByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, fmt.Errorf("bytesource: peek at %d exceeds length %d", s.pos, len(s.data))
	}
	return s.data[s.pos], nil
}
