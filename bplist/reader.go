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
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dgrfl/bplistarchive/internal/bytesource"
	"github.com/dgrfl/bplistarchive/internal/endian"
)

const (
	headerLength  = 8
	trailerLength = 32
	magic         = "bplist"
)

// Reader parses a binary property list file into a typed value tree
// (spec.md §4.4). The zero value is invalid; call InitializeWithFile or
// InitializeWithBytes before using PlistRoot.
type Reader struct {
	valid        bool
	headerBuffer [headerLength]byte

	// PlistRoot is the materialised value tree rooted at the trailer's
	// top-object index. It is nil until a successful Initialize* call.
	PlistRoot *Value

	entries []RawEntry
}

// NewReader constructs an uninitialized Reader, equivalent to the format's
// "default" constructor (spec.md §6.2). Call InitializeWithFile or
// InitializeWithBytes before using it.
func NewReader() *Reader { return &Reader{} }

// IsValid reports whether the most recent Initialize* call succeeded.
// Callers must check this before dereferencing PlistRoot (spec.md §6.2).
func (r *Reader) IsValid() bool { return r.valid }

// HeaderBuffer returns the first 8 bytes of the file (magic + version),
// captured during InitializeWithFile/InitializeWithBytes regardless of
// whether the rest of the parse succeeds validly (spec.md §6.2).
func (r *Reader) HeaderBuffer() [headerLength]byte { return r.headerBuffer }

// InitializeWithFile opens the file at path, parses it as a binary plist,
// and materialises PlistRoot. The file handle is released on every return
// path (spec.md §4.2, §9). On any error, IsValid reports false and
// PlistRoot must not be dereferenced.
func (r *Reader) InitializeWithFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrCouldNotOpenFile)
	}
	return r.InitializeWithBytes(data)
}

// InitializeWithBytes parses data as a binary plist in memory. It is the
// core of InitializeWithFile, split out so callers that already have the
// bytes (e.g. from an embedded archive, or a test fixture) need not touch
// the filesystem.
func (r *Reader) InitializeWithBytes(data []byte) error {
	r.valid = false
	r.PlistRoot = nil
	r.entries = nil

	r.headerBuffer = [headerLength]byte{}
	copy(r.headerBuffer[:], data)
	if len(data) < headerLength+trailerLength {
		return fmt.Errorf("file too short (%d bytes): %w", len(data), ErrNotValidPlist)
	}
	if !bytes.HasPrefix(data, []byte(magic)) {
		return fmt.Errorf("header %q: %w", data[:6], ErrNotValidPlist)
	}

	t := parseTrailer(data[len(data)-trailerLength:])
	if t.objRefSize > 8 {
		return fmt.Errorf("objRefSize %d: %w", t.objRefSize, ErrUnknownObjectType)
	}

	src := bytesource.New(data)
	if err := src.Seek(headerLength); err != nil {
		return fmt.Errorf("%v: %w", err, ErrNotValidPlist)
	}

	var entries []RawEntry
	for src.Position() < t.offsetTableStart {
		e, err := decodeMarker(src, t.objRefSize)
		if err != nil {
			if errors.Is(err, ErrUnknownObjectType) || errors.Is(err, ErrIllegalRealLength) {
				return err
			}
			// A byte-source underflow means a truncated or corrupted file.
			return fmt.Errorf("%v: %w", err, ErrNotValidPlist)
		}
		entries = append(entries, e)
	}
	if len(entries) != t.numObjects {
		return fmt.Errorf("decoded %d objects, trailer says %d: %w", len(entries), t.numObjects, ErrNotValidPlist)
	}
	r.entries = entries

	root, err := r.materialize(t.topObjectIndex, nil)
	if err != nil {
		return err
	}
	r.PlistRoot = root
	r.valid = true
	return nil
}

// trailer is the parsed form of the fixed 32-byte trailer (spec.md §4.4).
// offsetIntSize is retained only because the format defines it; entries
// are located by sequential scan, not offset-table lookup, so it plays no
// role in materialisation.
type trailer struct {
	offsetIntSize    int
	objRefSize       int
	numObjects       int
	topObjectIndex   int
	offsetTableStart int
}

// parseTrailer unpacks the trailer. Precondition: len(data) == 32.
func parseTrailer(data []byte) trailer {
	return trailer{
		offsetIntSize:    int(data[6]),
		objRefSize:       int(data[7]),
		numObjects:       int(endian.Uint64From(data[8:16])),
		topObjectIndex:   int(endian.Uint64From(data[16:24])),
		offsetTableStart: int(endian.Uint64From(data[24:32])),
	}
}

// materialize resolves a Value from entries[idx], recursively expanding
// Array/Dict children. It does not memoise (spec.md §3.2): UIDs are left
// as opaque Value.Uid leaves rather than followed, so the result is always
// acyclic regardless of what the original object graph looked like.
// visiting tracks the recursion path purely to give a clear error instead
// of a stack overflow if a file nests an Array/Dict inside itself directly
// by raw index (which the format does not do through UIDs, but a
// corrupted file's Array/Set/Dict Refs could).
func (r *Reader) materialize(idx int, visiting map[int]bool) (*Value, error) {
	if idx < 0 || idx >= len(r.entries) {
		return nil, fmt.Errorf("object index %d out of range [0, %d): %w", idx, len(r.entries), ErrNotValidPlist)
	}
	if visiting[idx] {
		return nil, fmt.Errorf("object index %d: self-referential container: %w", idx, ErrNotValidPlist)
	}
	e := r.entries[idx]

	switch e.Kind {
	case RawNull:
		return &Value{Kind: KindNull}, nil
	case RawBoolFalse:
		return &Value{Kind: KindBool, Bool: false}, nil
	case RawBoolTrue:
		return &Value{Kind: KindBool, Bool: true}, nil
	case RawFill:
		return &Value{Kind: KindNull}, nil
	case RawInt:
		return &Value{Kind: KindInt, Int: e.Int}, nil
	case RawReal:
		return &Value{Kind: KindDouble, Double: e.Real}, nil
	case RawDate:
		return &Value{Kind: KindDate, Double: e.Date}, nil
	case RawData:
		return &Value{Kind: KindData, Data: e.Bytes}, nil
	case RawAsciiString:
		return &Value{Kind: KindAsciiString, Ascii: e.Ascii}, nil
	case RawUnicodeString:
		return &Value{Kind: KindUnicodeString, Unicode: e.Unicode}, nil
	case RawUid:
		return &Value{Kind: KindUid, Uid: e.Uid}, nil
	case RawArray, RawSet:
		sub := markVisiting(visiting, idx)
		children := make([]*Value, len(e.Refs))
		for i, ref := range e.Refs {
			child, err := r.materialize(ref, sub)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		kind := KindArray
		if e.Kind == RawSet {
			kind = KindSet
		}
		return &Value{Kind: kind, Array: children}, nil
	case RawDict:
		sub := markVisiting(visiting, idx)
		pairs := make([]DictEntry, len(e.KeyRefs))
		for i := range e.KeyRefs {
			k, err := r.materialize(e.KeyRefs[i], sub)
			if err != nil {
				return nil, err
			}
			v, err := r.materialize(e.ValRefs[i], sub)
			if err != nil {
				return nil, err
			}
			pairs[i] = DictEntry{Key: k, Value: v}
		}
		return &Value{Kind: KindDict, Dict: pairs}, nil
	}
	return nil, fmt.Errorf("raw entry %d has unrecognised kind: %w", idx, ErrUnknownObjectType)
}

func markVisiting(visiting map[int]bool, idx int) map[int]bool {
	sub := make(map[int]bool, len(visiting)+1)
	for k := range visiting {
		sub[k] = true
	}
	sub[idx] = true
	return sub
}
