// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package funcutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestMergeKeepsFirst(t *testing.T) {
	a := map[string]int{"x": 1, "y": 2}
	Merge(a, map[string]int{"y": 5, "z": 3}, func(x int, _ int) int { return x })
	if want := map[string]int{"x": 1, "y": 2, "z": 3}; !reflect.DeepEqual(a, want) {
		t.Errorf("got %v, want %v", a, want)
	}
}

func TestMapAndContains(t *testing.T) {
	upper := Map([]string{"bc", "bcpqc"}, strings.ToUpper)
	if !Contains(upper, "BCPQC") || Contains(upper, "bc") {
		t.Errorf("unexpected mapped slice %v", upper)
	}
	a := []int{1, 2}
	MapInPlace(a, func(x int) int { return x * 2 })
	if a[0] != 2 || a[1] != 4 {
		t.Errorf("MapInPlace should update the slice, got %v", a)
	}
}

func TestOptional(t *testing.T) {
	s := Some("BouncyCastle-JCA")
	n := None[string]()
	if !s.IsSome() || s.Value() != "BouncyCastle-JCA" || s.ValueOr("x") != "BouncyCastle-JCA" {
		t.Errorf("some value not returned")
	}
	if !n.IsNone() || n.ValueOr("x") != "x" {
		t.Errorf("none should return the default value")
	}
	if !OptionalEqual(n, None[string]()) || OptionalEqual(s, n) || !OptionalEqual(s, Some("BouncyCastle-JCA")) {
		t.Errorf("OptionalEqual is wrong")
	}
}
