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

// Package bplist decodes Apple-style binary property list files (bplist00)
// into a typed value tree.
package bplist

import "fmt"

// Kind discriminates the variants of a materialised Value (spec.md §3.2).
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindDate
	KindData
	KindAsciiString
	KindUnicodeString
	KindUid
	KindArray
	KindSet
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindDate:
		return "date"
	case KindData:
		return "data"
	case KindAsciiString:
		return "string"
	case KindUnicodeString:
		return "unicode"
	case KindUid:
		return "uid"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindDict:
		return "dict"
	}
	return "unknown"
}

// DictEntry is one ordered (key, value) pair of a Dict value. Keys are
// typically AsciiString but the format does not restrict them (spec.md
// §3.2), so Key is a full Value.
type DictEntry struct {
	Key   *Value
	Value *Value
}

// Value is the materialised tree node produced by a Reader. It is a tagged
// variant rather than a base/subclass hierarchy (spec.md §9): exactly the
// fields relevant to Kind are populated, the rest are left zero. Each Value
// exclusively owns its Array/Dict children; the tree is acyclic, because
// UID references are left as opaque Uid leaves rather than followed
// (spec.md §3.2, §9).
type Value struct {
	Kind Kind

	Bool    bool
	Int     int64
	Double  float64 // also holds Date's seconds-since-epoch
	Data    []byte
	Ascii   string
	Unicode []rune
	Uid     uint64

	// Array holds the ordered elements of both KindArray and KindSet.
	// Sets preserve insertion order and may contain duplicates at this
	// representation layer (spec.md §3.2); de-duplication, if wanted, is
	// a concern for a caller, not this decoder.
	Array []*Value

	Dict []DictEntry
}

// String renders a Value as a short, non-recursive description of its
// scalar payload. Fprint uses it for scalar nodes (containers it recurses
// into structurally); it is also convenient in error messages and %v
// formatting.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindDouble:
		return fmt.Sprintf("%g", v.Double)
	case KindDate:
		return fmt.Sprintf("date(%g)", v.Double)
	case KindData:
		return fmt.Sprintf("data(%d bytes)", len(v.Data))
	case KindAsciiString:
		return v.Ascii
	case KindUnicodeString:
		return string(v.Unicode)
	case KindUid:
		return fmt.Sprintf("uid(%d)", v.Uid)
	case KindArray:
		return fmt.Sprintf("array(%d)", len(v.Array))
	case KindSet:
		return fmt.Sprintf("set(%d)", len(v.Array))
	case KindDict:
		return fmt.Sprintf("dict(%d)", len(v.Dict))
	}
	return "?"
}

// ValueForStringKey scans a Dict's ordered key-value pairs and returns the
// value whose key is an AsciiString equal to name (spec.md §4.5). It
// reports ok=false if dict is not a Dict or no such key is present. When a
// key is duplicated (spec.md §9 open question 3), the first occurrence
// wins, matching ordinary sequential scan order.
func ValueForStringKey(dict *Value, name string) (v *Value, ok bool) {
	if dict == nil || dict.Kind != KindDict {
		return nil, false
	}
	for _, e := range dict.Dict {
		if e.Key != nil && e.Key.Kind == KindAsciiString && e.Key.Ascii == name {
			return e.Value, true
		}
	}
	return nil, false
}
