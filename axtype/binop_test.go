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
)

func TestBinaryOpFloatComparisonNaN(t *testing.T) {
	nan := Float(Float64, math.NaN())
	one := Float(Float64, 1)
	for _, op := range []Op{Lt, Gt, Eq} {
		r, err := BinaryOp(nan, one, op)
		if err != nil {
			t.Fatalf("BinaryOp: %v", err)
		}
		if r.Value.B {
			t.Errorf("NaN comparison with op %d should be false", op)
		}
	}
	r, err := BinaryOp(nan, one, Ne)
	if err != nil {
		t.Fatalf("BinaryOp: %v", err)
	}
	if !r.Value.B {
		t.Errorf("NaN != 1.0 should be true")
	}
}

func TestBinaryOpBitwiseOnFloatWarnsAndCasts(t *testing.T) {
	r, err := BinaryOp(Float(Float64, 6), Float(Float64, 3), BitAnd)
	if err != nil {
		t.Fatalf("BinaryOp: %v", err)
	}
	if r.Warning == "" {
		t.Errorf("expected a warning for bitwise op on float operands")
	}
	if r.Value.Typ.Elem != Int64 || r.Value.I != 2 {
		t.Errorf("got %+v, want i64(2)", r.Value)
	}
}

func TestBinaryOpLogicalOnFloatFails(t *testing.T) {
	_, err := BinaryOp(Float(Float64, 1), Float(Float64, 0), LogicalAnd)
	if err == nil {
		t.Fatalf("expected BinaryOperationError for && on floats")
	}
	if _, ok := err.(*BinaryOperationError); !ok {
		t.Errorf("got %T, want *BinaryOperationError", err)
	}
}

func TestBinaryOpSignedIntDivision(t *testing.T) {
	r, err := BinaryOp(Int(Int32, -7), Int(Int32, 2), Div)
	if err != nil {
		t.Fatalf("BinaryOp: %v", err)
	}
	if r.Value.I != -3 {
		t.Errorf("got %d, want -3 (truncating signed division)", r.Value.I)
	}
}
