package endian

import (
	"math"
	"testing"
)

func TestUint64FromRoundTrip(t *testing.T) {
	tests := []uint64{0, 1, 300, 0xFF, 0xFFFF, 0xFFFFFFFF, math.MaxUint64}
	for _, v := range tests {
		got := Uint64From(PutUint64(v))
		if got != v {
			t.Errorf("Uint64From(PutUint64(%d)) = %d, want %d", v, got, v)
		}
	}
}

func TestUint64FromNarrowWidths(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint64
	}{
		{"1 byte", []byte{0xFF}, 0xFF},
		{"2 bytes", []byte{0x01, 0x2C}, 300},
		{"4 bytes", []byte{0x00, 0x00, 0x01, 0x00}, 256},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Uint64From(tc.in); got != tc.want {
				t.Errorf("Uint64From(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestInt64FromSignExtends(t *testing.T) {
	// An 8-byte width is the only one the format uses for negative values
	// (spec.md §4.3 integer promotion note).
	b := PutUint64(math.MaxUint64) // all ones: -1 in two's complement
	if got := Int64From(b); got != -1 {
		t.Errorf("Int64From(-1 encoded) = %d, want -1", got)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	want32 := float32(3.5)
	if got := Float32ToHost(PutFloat32(want32)); got != float64(want32) {
		t.Errorf("Float32ToHost round trip = %v, want %v", got, want32)
	}
	want64 := 2.718281828
	if got := Float64ToHost(PutFloat64(want64)); got != want64 {
		t.Errorf("Float64ToHost round trip = %v, want %v", got, want64)
	}
}

func TestInt128From(t *testing.T) {
	buf := append(PutUint64(1), PutUint64(2)...)
	got := Int128From(buf)
	want := Int128{Hi: 1, Lo: 2}
	if got != want {
		t.Errorf("Int128From(%v) = %+v, want %+v", buf, got, want)
	}
}
