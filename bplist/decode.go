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
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/dgrfl/bplistarchive/internal/bytesource"
	"github.com/dgrfl/bplistarchive/internal/endian"
)

// decodeMarker reads one object marker and its payload from src and returns
// the resulting RawEntry. refSize is the trailer's objRefSize, needed to
// decode Array/Set/Dict reference lists (spec.md §4.3).
func decodeMarker(src *bytesource.Source, refSize int) (RawEntry, error) {
	tag, err := src.ReadExact(1)
	if err != nil {
		return RawEntry{}, err
	}
	hi := tag[0] >> 4
	lo := tag[0] & 0x0F

	switch hi {
	case 0x0:
		switch lo {
		case 0x0:
			return RawEntry{Kind: RawNull}, nil
		case 0x8:
			return RawEntry{Kind: RawBoolFalse}, nil
		case 0x9:
			return RawEntry{Kind: RawBoolTrue}, nil
		case 0xF:
			return RawEntry{Kind: RawFill}, nil
		default:
			return RawEntry{}, fmt.Errorf("marker %#02x: %w", tag[0], ErrUnknownObjectType)
		}

	case 0x1:
		width := 1 << lo
		if width > 8 {
			return RawEntry{}, fmt.Errorf("int width %d bytes: %w", width, ErrUnknownObjectType)
		}
		b, err := src.ReadExact(width)
		if err != nil {
			return RawEntry{}, err
		}
		// Widths < 8 are unsigned in practice; width 8 is a two's
		// complement signed 64-bit value. Casting the zero-extended
		// bit pattern to int64 handles both uniformly (spec.md §4.3).
		return RawEntry{Kind: RawInt, Int: int64(endian.Uint64From(b))}, nil

	case 0x2:
		width := 1 << lo
		if width != 4 && width != 8 {
			return RawEntry{}, fmt.Errorf("real width %d bytes: %w", width, ErrIllegalRealLength)
		}
		b, err := src.ReadExact(width)
		if err != nil {
			return RawEntry{}, err
		}
		if width == 4 {
			return RawEntry{Kind: RawReal, Real: endian.Float32ToHost(b)}, nil
		}
		return RawEntry{Kind: RawReal, Real: endian.Float64ToHost(b)}, nil

	case 0x3:
		if lo != 0x3 {
			return RawEntry{}, fmt.Errorf("date marker %#02x: %w", tag[0], ErrUnknownObjectType)
		}
		b, err := src.ReadExact(8)
		if err != nil {
			return RawEntry{}, err
		}
		return RawEntry{Kind: RawDate, Date: endian.Float64ToHost(b)}, nil

	case 0x4:
		n, err := readCountOrF(src, lo)
		if err != nil {
			return RawEntry{}, err
		}
		b, err := src.ReadExact(n)
		if err != nil {
			return RawEntry{}, err
		}
		return RawEntry{Kind: RawData, Bytes: append([]byte(nil), b...)}, nil

	case 0x5:
		n, err := readCountOrF(src, lo)
		if err != nil {
			return RawEntry{}, err
		}
		b, err := src.ReadExact(n)
		if err != nil {
			return RawEntry{}, err
		}
		return RawEntry{Kind: RawAsciiString, Ascii: string(b)}, nil

	case 0x6:
		n, err := readCountOrF(src, lo)
		if err != nil {
			return RawEntry{}, err
		}
		b, err := src.ReadExact(n * 2)
		if err != nil {
			return RawEntry{}, err
		}
		units := make([]uint16, n)
		for i := 0; i < n; i++ {
			units[i] = binary.BigEndian.Uint16(b[i*2:])
		}
		return RawEntry{Kind: RawUnicodeString, Unicode: utf16.Decode(units)}, nil

	case 0x7:
		return RawEntry{}, fmt.Errorf("marker %#02x: %w", tag[0], ErrUnknownObjectType)

	case 0x8:
		width := int(lo) + 1
		b, err := src.ReadExact(width)
		if err != nil {
			return RawEntry{}, err
		}
		return RawEntry{Kind: RawUid, Uid: endian.Uint64From(b)}, nil

	case 0x9:
		return RawEntry{}, fmt.Errorf("marker %#02x: %w", tag[0], ErrUnknownObjectType)

	case 0xA, 0xC:
		n, err := readCountOrF(src, lo)
		if err != nil {
			return RawEntry{}, err
		}
		refs, err := readRefs(src, n, refSize)
		if err != nil {
			return RawEntry{}, err
		}
		kind := RawArray
		if hi == 0xC {
			kind = RawSet
		}
		return RawEntry{Kind: kind, Refs: refs}, nil

	case 0xB:
		return RawEntry{}, fmt.Errorf("marker %#02x: %w", tag[0], ErrUnknownObjectType)

	case 0xD:
		n, err := readCountOrF(src, lo)
		if err != nil {
			return RawEntry{}, err
		}
		keyRefs, err := readRefs(src, n, refSize)
		if err != nil {
			return RawEntry{}, err
		}
		valRefs, err := readRefs(src, n, refSize)
		if err != nil {
			return RawEntry{}, err
		}
		return RawEntry{Kind: RawDict, KeyRefs: keyRefs, ValRefs: valRefs}, nil

	default: // 0xE, 0xF
		return RawEntry{}, fmt.Errorf("marker %#02x: %w", tag[0], ErrUnknownObjectType)
	}
}

// readCountOrF implements the "count-or-F" rule (spec.md §4.3): if lowNibble
// < 15 it is the count directly; if it is 15, the next marker byte's low
// nibble k selects a 2^k-byte big-endian integer count that follows. A
// sub-marker that is not an int marker (high nibble 0x1) of at most 8 bytes
// is malformed and reported as ErrUnknownObjectType.
func readCountOrF(src *bytesource.Source, lowNibble byte) (int, error) {
	if lowNibble < 0xF {
		return int(lowNibble), nil
	}
	sub, err := src.ReadExact(1)
	if err != nil {
		return 0, err
	}
	if sub[0]>>4 != 0x1 || sub[0]&0x0F > 3 {
		return 0, fmt.Errorf("count sub-marker %#02x: %w", sub[0], ErrUnknownObjectType)
	}
	width := 1 << (sub[0] & 0x0F)
	b, err := src.ReadExact(width)
	if err != nil {
		return 0, err
	}
	return int(endian.Uint64From(b)), nil
}

// readRefs reads n big-endian object references, each refSize bytes wide.
func readRefs(src *bytesource.Source, n, refSize int) ([]int, error) {
	refs := make([]int, n)
	for i := 0; i < n; i++ {
		b, err := src.ReadExact(refSize)
		if err != nil {
			return nil, err
		}
		refs[i] = int(endian.Uint64From(b))
	}
	return refs, nil
}
