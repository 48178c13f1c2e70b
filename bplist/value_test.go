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

import "testing"

func TestValueForStringKey(t *testing.T) {
	dict := &Value{Kind: KindDict, Dict: []DictEntry{
		{Key: &Value{Kind: KindAsciiString, Ascii: "name"}, Value: &Value{Kind: KindAsciiString, Ascii: "Greeter"}},
		{Key: &Value{Kind: KindAsciiString, Ascii: "count"}, Value: &Value{Kind: KindInt, Int: 3}},
	}}

	if v, ok := ValueForStringKey(dict, "name"); !ok || v.Ascii != "Greeter" {
		t.Errorf("ValueForStringKey(dict, %q) = %v, %v; want Greeter, true", "name", v, ok)
	}
	if _, ok := ValueForStringKey(dict, "missing"); ok {
		t.Error("ValueForStringKey(dict, \"missing\") = ok, want not found")
	}
	if _, ok := ValueForStringKey(&Value{Kind: KindInt, Int: 1}, "name"); ok {
		t.Error("ValueForStringKey on a non-Dict value should not be found")
	}
}

func TestValueForStringKeyFirstDuplicateWins(t *testing.T) {
	dict := &Value{Kind: KindDict, Dict: []DictEntry{
		{Key: &Value{Kind: KindAsciiString, Ascii: "k"}, Value: &Value{Kind: KindInt, Int: 1}},
		{Key: &Value{Kind: KindAsciiString, Ascii: "k"}, Value: &Value{Kind: KindInt, Int: 2}},
	}}
	v, ok := ValueForStringKey(dict, "k")
	if !ok || v.Int != 1 {
		t.Errorf("ValueForStringKey with duplicate keys = %v, %v; want 1, true", v, ok)
	}
}
