// Copyright 2024 Google LLC
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

package axtype

import "testing"

func TestPrecedenceTotal(t *testing.T) {
	kinds := []Kind{Bool, Int16, Int32, Int64, Float32, Float64}
	for _, a := range kinds {
		for _, b := range kinds {
			got, err := Precedence(a, b)
			if err != nil {
				t.Fatalf("Precedence(%s, %s): %v", a, b, err)
			}
			if got != a && got != b {
				t.Errorf("Precedence(%s, %s) = %s, want one of %s or %s", a, b, got, a, b)
			}
			rev, err := Precedence(b, a)
			if err != nil {
				t.Fatalf("Precedence(%s, %s): %v", b, a, err)
			}
			if rev != got {
				t.Errorf("Precedence not symmetric: (%s,%s)=%s but (%s,%s)=%s", a, b, got, b, a, rev)
			}
		}
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	cases := []struct {
		a, b, want Kind
	}{
		{Bool, Int16, Int16},
		{Int16, Int32, Int32},
		{Int32, Int64, Int64},
		{Int64, Float32, Float32},
		{Float32, Float64, Float64},
		{Float64, Int16, Float64},
	}
	for _, c := range cases {
		got, err := Precedence(c.a, c.b)
		if err != nil {
			t.Fatalf("Precedence(%s, %s): %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Errorf("Precedence(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestPrecedenceRejectsNonScalar(t *testing.T) {
	if _, err := Precedence(String, Int32); err == nil {
		t.Errorf("Precedence(string, i32) should fail")
	}
}
