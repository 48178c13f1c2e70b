// Package endian converts fixed-width integers and IEEE-754 floats between
// big-endian wire form (as used throughout the bplist format) and host
// form. All operations are pure and infallible given correctly-sized input.
package endian

import (
	"encoding/binary"
	"math"
)

// Uint64From reads up to 8 big-endian bytes and zero-extends them to a
// uint64. This is the decoder's single most-used primitive: every
// variable-width integer field (object sizes, UIDs, object references) is
// read through it. Longer inputs are truncated to their low 8 bytes.
func Uint64From(b []byte) uint64 {
	var v uint64
	n := len(b)
	if n > 8 {
		b = b[n-8:]
		n = 8
	}
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// Int64From reads a big-endian two's-complement signed integer of the given
// byte width (1, 2, 4, or 8) and sign-extends it to int64. Width-8 data is
// reinterpreted as int64 directly; narrower widths are sign-extended from
// their top bit, even though the format does not produce negative values at
// those widths (see spec.md §4.3).
func Int64From(b []byte) int64 {
	u := Uint64From(b)
	width := len(b)
	if width >= 8 {
		return int64(u)
	}
	shift := uint(64 - 8*width)
	return int64(u<<shift) >> shift
}

// Float32ToHost converts 4 big-endian bytes to their IEEE-754 float32 value,
// widened to float64 for storage in the value model.
func Float32ToHost(b []byte) float64 {
	return float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
}

// Float64ToHost converts 8 big-endian bytes to their IEEE-754 float64 value.
func Float64ToHost(b []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// PutUint16, PutUint32, and PutUint64 swap host values to big-endian wire
// form. They exist for symmetry with the read side and for round-trip
// testing (testable property 4); this decoder never writes a plist itself.
func PutUint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func PutUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func PutUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func PutFloat32(v float32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
	return b
}

func PutFloat64(v float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return b
}

// Int128 is the pair representation declared by the format for a
// hypothetical 128-bit integer object (high signed 64 bits, low unsigned 64
// bits). The format never actually produces one in practice, and the
// decoder intentionally does not attempt to materialise it (spec.md §4.1,
// §7, §9 open question 4); the type and its swap routine exist so the data
// model can name the shape without implementing the decode path.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Int128From splits a 16-byte big-endian buffer into its high (signed) and
// low (unsigned) 64-bit halves, the same way a wire-format 128-bit integer
// object would be laid out if the format ever defined a decode path for it.
func Int128From(b []byte) Int128 {
	return Int128{Hi: Int64From(b[:8]), Lo: Uint64From(b[8:])}
}
