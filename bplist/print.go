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
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// DefaultIndent is the number of spaces Traverse uses per nesting
// level when none is specified (spec.md §4.7).
const DefaultIndent = 4

// Traverse writes r.PlistRoot as an indented structural dump to w, using
// DefaultIndent spaces per level. It is a lossy rendering meant for human
// inspection, not a round-trippable encoding (spec.md §6.4).
func (r *Reader) Traverse(w io.Writer) error {
	if !r.valid {
		return fmt.Errorf("bplist: Traverse called on an invalid reader")
	}
	return Fprint(w, r.PlistRoot, DefaultIndent)
}

// Fprint writes an indented textual rendering of v to w, increasing indent
// by indentWidth spaces per nesting level (spec.md §4.7). Atoms print their
// stringified value; Data prints a hex dump; Unicode prints its decoded
// characters; containers print a type tag and element count before
// recursing into their children.
func Fprint(w io.Writer, v *Value, indentWidth int) error {
	return fprintNode(w, v, 0, indentWidth)
}

func fprintNode(w io.Writer, v *Value, depth, indentWidth int) error {
	pad := strings.Repeat(" ", depth*indentWidth)
	if v == nil {
		_, err := fmt.Fprintf(w, "%snull\n", pad)
		return err
	}
	switch v.Kind {
	case KindArray, KindSet:
		if _, err := fmt.Fprintf(w, "%s<%s size=%d>\n", pad, v.Kind, len(v.Array)); err != nil {
			return err
		}
		for _, child := range v.Array {
			if err := fprintNode(w, child, depth+1, indentWidth); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s</%s>\n", pad, v.Kind)
		return err

	case KindDict:
		if _, err := fmt.Fprintf(w, "%s<dict size=%d>\n", pad, len(v.Dict)); err != nil {
			return err
		}
		for _, e := range v.Dict {
			if err := fprintNode(w, e.Key, depth+1, indentWidth); err != nil {
				return err
			}
			if err := fprintNode(w, e.Value, depth+1, indentWidth); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s</dict>\n", pad)
		return err

	case KindData:
		_, err := fmt.Fprintf(w, "%sdata=%s\n", pad, hex.EncodeToString(v.Data))
		return err

	case KindUnicodeString:
		_, err := fmt.Fprintf(w, "%sunicode=%s\n", pad, string(v.Unicode))
		return err

	default:
		_, err := fmt.Fprintf(w, "%s%s=%s\n", pad, v.Kind, v.String())
		return err
	}
}
