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

import "errors"

// The reader's error taxonomy (spec.md §4.4, §7). InitializeWithFile and
// InitializeWithBytes always return one of these (wrapped with context via
// fmt.Errorf's %w, never a bare unrelated error), or nil on success.
// Callers that want to distinguish cases should use errors.Is.
var (
	// ErrCouldNotOpenFile means the path was not accessible. Recoverable
	// by the caller (spec.md §7).
	ErrCouldNotOpenFile = errors.New("bplist: could not open file")

	// ErrNotValidPlist means the first 6 bytes did not match the
	// "bplist" magic. Fatal for this input.
	ErrNotValidPlist = errors.New("bplist: not a valid plist file")

	// ErrUnknownObjectType covers an unused/reserved marker nibble, an
	// unimplemented 128-bit integer, or a malformed count-or-F
	// sub-marker.
	ErrUnknownObjectType = errors.New("bplist: unknown object type")

	// ErrIllegalRealLength means a 0x2 marker declared a width that is
	// neither 4 nor 8 bytes.
	ErrIllegalRealLength = errors.New("bplist: illegal real length")
)
