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

// RawKind enumerates the object kinds the marker decoder produces, one per
// marker byte family (spec.md §3.1). It is a superset of Kind: Fill has no
// materialised Value counterpart (it never appears as a reachable object,
// only as padding some writers emit) but is still a distinct raw entry
// kind.
type RawKind int

const (
	RawNull RawKind = iota
	RawBoolFalse
	RawBoolTrue
	RawFill
	RawInt
	RawReal
	RawDate
	RawData
	RawAsciiString
	RawUnicodeString
	RawUid
	RawArray
	RawSet
	RawDict
)

// RawEntry is one decoded object from the object table, in declaration
// order (spec.md §3.1). Exactly one payload field is meaningful per Kind;
// Refs/KeyRefs/ValRefs hold indices into the same raw entry table, not yet
// resolved to Values.
type RawEntry struct {
	Kind RawKind

	Int     int64
	Real    float64
	Date    float64
	Bytes   []byte
	Ascii   string
	Unicode []rune
	Uid     uint64

	// Refs holds element references for RawArray/RawSet.
	Refs []int

	// KeyRefs and ValRefs hold, respectively, the key and value
	// references for RawDict, in the order spec.md §4.3 describes: all
	// key references first, then all value references, index-aligned.
	KeyRefs []int
	ValRefs []int
}
