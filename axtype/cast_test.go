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

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoolCoerceNaN(t *testing.T) {
	if BoolCoerce(Float(Float64, math.NaN())) {
		t.Errorf("NaN should coerce to false")
	}
	if BoolCoerce(Float(Float64, 0)) {
		t.Errorf("0.0 should coerce to false")
	}
	if !BoolCoerce(Float(Float64, 1.5)) {
		t.Errorf("1.5 should coerce to true")
	}
	if !BoolCoerce(Int(Int32, -1)) {
		t.Errorf("-1 should coerce to true")
	}
}

func TestArithmeticCastNarrowing(t *testing.T) {
	v, err := ArithmeticCast(Float(Float64, 6.5), Int32)
	if err != nil {
		t.Fatalf("ArithmeticCast: %v", err)
	}
	if v.AsInt64() != 6 {
		t.Errorf("got %d, want 6", v.AsInt64())
	}
	if !IsNarrowing(Float64, Int32) {
		t.Errorf("float64->i32 should be narrowing")
	}
	if IsNarrowing(Int32, Int64) {
		t.Errorf("i32->i64 should not be narrowing")
	}
}

func TestRoundTripPack(t *testing.T) {
	x, y, z := Float(Float32, 1), Float(Float32, 2), Float(Float32, 3)
	packed, err := ArrayPack(x, y, z)
	if err != nil {
		t.Fatalf("ArrayPack: %v", err)
	}
	got, err := ArrayUnpack(packed)
	if err != nil {
		t.Fatalf("ArrayUnpack: %v", err)
	}
	want := []Value{x, y, z}
	if !cmp.Equal(got, want) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestArrayCastIdentityPointer(t *testing.T) {
	arr, err := ArrayPack(Int(Int32, 1), Int(Int32, 2))
	if err != nil {
		t.Fatalf("ArrayPack: %v", err)
	}
	same, err := ArrayCast(arr, Int32)
	if err != nil {
		t.Fatalf("ArrayCast: %v", err)
	}
	if &same.Elems[0] != &arr.Elems[0] {
		t.Errorf("ArrayCast to the same element kind should return the original backing array")
	}
}

func TestArrayPackCastPromotesToCommonKind(t *testing.T) {
	v, err := ArrayPackCast(Int(Int32, 1), Float(Float32, 2.5))
	if err != nil {
		t.Fatalf("ArrayPackCast: %v", err)
	}
	if v.Typ.Elem != Float32 {
		t.Errorf("got elem kind %s, want f32", v.Typ.Elem)
	}
}
