// Copyright 2020 Michael J. Fromberger. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bplist

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildTrailer assembles the fixed 32-byte trailer. Only the last 26 bytes
// are significant (spec.md §4.4); the first 6 are left zero.
func buildTrailer(offsetIntSize, objRefSize byte, numObjects, topObjectIndex, offsetTableStart uint64) []byte {
	t := make([]byte, 32)
	t[6] = offsetIntSize
	t[7] = objRefSize
	putU64 := func(off int, v uint64) {
		for i := 7; i >= 0; i-- {
			t[off+i] = byte(v)
			v >>= 8
		}
	}
	putU64(8, numObjects)
	putU64(16, topObjectIndex)
	putU64(24, offsetTableStart)
	return t
}

// TestS1EmptyString matches spec.md §8 scenario S1.
func TestS1EmptyString(t *testing.T) {
	data := []byte("bplist00")
	data = append(data, 0x50) // ASCII string, length 0, at offset 8
	data = append(data, 0x08) // offset table: 1 entry, value 8
	data = append(data, buildTrailer(1, 1, 1, 0, 9)...)

	r := NewReader()
	if err := r.InitializeWithBytes(data); err != nil {
		t.Fatalf("InitializeWithBytes: %v", err)
	}
	if !r.IsValid() {
		t.Fatal("IsValid() = false, want true")
	}
	want := &Value{Kind: KindAsciiString, Ascii: ""}
	if diff := cmp.Diff(want, r.PlistRoot); diff != "" {
		t.Errorf("PlistRoot mismatch (-want +got):\n%s", diff)
	}
}

// TestS2SingleInteger matches spec.md §8 scenario S2.
func TestS2SingleInteger(t *testing.T) {
	data := []byte("bplist00")
	data = append(data, 0x11, 0x01, 0x2C) // int, width 2, value 300
	data = append(data, 0x08)             // offset table: value 8
	data = append(data, buildTrailer(1, 1, 1, 0, 11)...)

	r := NewReader()
	if err := r.InitializeWithBytes(data); err != nil {
		t.Fatalf("InitializeWithBytes: %v", err)
	}
	want := &Value{Kind: KindInt, Int: 300}
	if diff := cmp.Diff(want, r.PlistRoot); diff != "" {
		t.Errorf("PlistRoot mismatch (-want +got):\n%s", diff)
	}
}

// TestS3ArrayOfBools matches spec.md §8 scenario S3.
func TestS3ArrayOfBools(t *testing.T) {
	data := []byte("bplist00")
	data = append(data, 0x09)             // true, offset 8
	data = append(data, 0x08)             // false, offset 9
	data = append(data, 0xA2, 0x00, 0x01) // array of 2, refs {0,1}, offset 10
	data = append(data, 0x08, 0x09, 0x0A) // offset table
	data = append(data, buildTrailer(1, 1, 3, 2, 13)...)

	r := NewReader()
	if err := r.InitializeWithBytes(data); err != nil {
		t.Fatalf("InitializeWithBytes: %v", err)
	}
	want := &Value{Kind: KindArray, Array: []*Value{
		{Kind: KindBool, Bool: true},
		{Kind: KindBool, Bool: false},
	}}
	if diff := cmp.Diff(want, r.PlistRoot); diff != "" {
		t.Errorf("PlistRoot mismatch (-want +got):\n%s", diff)
	}
}

// TestS4DictWithStringKey matches spec.md §8 scenario S4.
func TestS4DictWithStringKey(t *testing.T) {
	data := []byte("bplist00")
	data = append(data, 0x51, 'k')        // ASCII "k", offset 8
	data = append(data, 0x10, 0x07)       // int 7, offset 10
	data = append(data, 0xD1, 0x00, 0x01) // dict of 1, key ref 0, val ref 1, offset 12
	data = append(data, 0x08, 0x0A, 0x0C) // offset table
	data = append(data, buildTrailer(1, 1, 3, 2, 15)...)

	r := NewReader()
	if err := r.InitializeWithBytes(data); err != nil {
		t.Fatalf("InitializeWithBytes: %v", err)
	}
	want := &Value{Kind: KindDict, Dict: []DictEntry{
		{Key: &Value{Kind: KindAsciiString, Ascii: "k"}, Value: &Value{Kind: KindInt, Int: 7}},
	}}
	if diff := cmp.Diff(want, r.PlistRoot); diff != "" {
		t.Errorf("PlistRoot mismatch (-want +got):\n%s", diff)
	}
}

// TestS5IllFormedHeader matches spec.md §8 scenario S5.
func TestS5IllFormedHeader(t *testing.T) {
	data := make([]byte, 40)
	copy(data, []byte("ZZZZZZ00"))

	r := NewReader()
	err := r.InitializeWithBytes(data)
	if err == nil {
		t.Fatal("InitializeWithBytes: want error, got nil")
	}
	if !errors.Is(err, ErrNotValidPlist) {
		t.Errorf("InitializeWithBytes error = %v, want wrapping ErrNotValidPlist", err)
	}
	if r.IsValid() {
		t.Error("IsValid() = true, want false")
	}
}

// TestHeaderGateExhaustive covers testable property 1: every input whose
// first 6 bytes are not "bplist" is rejected with ErrNotValidPlist.
func TestHeaderGateExhaustive(t *testing.T) {
	bad := [][]byte{
		append([]byte("xplist00"), make([]byte, 40)...),
		append([]byte("BPLIST00"), make([]byte, 40)...),
		make([]byte, 48), // all zero bytes
	}
	for i, data := range bad {
		r := NewReader()
		if err := r.InitializeWithBytes(data); !errors.Is(err, ErrNotValidPlist) {
			t.Errorf("case %d: error = %v, want ErrNotValidPlist", i, err)
		}
		if r.IsValid() {
			t.Errorf("case %d: IsValid() = true, want false", i)
		}
	}
}

// TestCountCoverage checks testable property 2: the number of raw entries
// decoded equals the trailer's numObjects, using the S3 fixture.
func TestCountCoverage(t *testing.T) {
	data := []byte("bplist00")
	data = append(data, 0x09, 0x08, 0xA2, 0x00, 0x01)
	data = append(data, 0x08, 0x09, 0x0A)
	data = append(data, buildTrailer(1, 1, 3, 2, 13)...)

	r := NewReader()
	if err := r.InitializeWithBytes(data); err != nil {
		t.Fatalf("InitializeWithBytes: %v", err)
	}
	if got := len(r.entries); got != 3 {
		t.Errorf("len(entries) = %d, want 3", got)
	}
}

// TestMarkerDeterminism checks testable property 5: decoding the same
// bytes twice yields structurally equal value trees.
func TestMarkerDeterminism(t *testing.T) {
	data := []byte("bplist00")
	data = append(data, 0x51, 'k', 0x10, 0x07, 0xD1, 0x00, 0x01)
	data = append(data, 0x08, 0x0A, 0x0C)
	data = append(data, buildTrailer(1, 1, 3, 2, 15)...)

	r1, r2 := NewReader(), NewReader()
	if err := r1.InitializeWithBytes(data); err != nil {
		t.Fatalf("first parse: %v", err)
	}
	if err := r2.InitializeWithBytes(data); err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if diff := cmp.Diff(r1.PlistRoot, r2.PlistRoot); diff != "" {
		t.Errorf("two parses of the same bytes differ (-first +second):\n%s", diff)
	}
}

// TestUIDPreservation checks testable property 6: a Uid entry materialises
// to KindUid carrying the unsigned integer encoded, across several byte
// widths.
func TestUIDPreservation(t *testing.T) {
	tests := []struct {
		name   string
		marker byte
		body   []byte
		want   uint64
	}{
		{"1 byte", 0x80, []byte{0x05}, 5},
		{"2 bytes", 0x81, []byte{0x01, 0x00}, 256},
		{"8 bytes", 0x87, []byte{0, 0, 0, 0, 0, 0, 0x01, 0x00}, 256},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := []byte("bplist00")
			data = append(data, tc.marker)
			data = append(data, tc.body...)
			offsetTableStart := uint64(8 + 1 + len(tc.body))
			data = append(data, 0x08) // offset table: 1 entry, value 8
			data = append(data, buildTrailer(1, 1, 1, 0, offsetTableStart)...)

			r := NewReader()
			if err := r.InitializeWithBytes(data); err != nil {
				t.Fatalf("InitializeWithBytes: %v", err)
			}
			if r.PlistRoot.Kind != KindUid {
				t.Fatalf("Kind = %v, want KindUid", r.PlistRoot.Kind)
			}
			if r.PlistRoot.Uid != tc.want {
				t.Errorf("Uid = %d, want %d", r.PlistRoot.Uid, tc.want)
			}
		})
	}
}
