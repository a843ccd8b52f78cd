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
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// maxRank returns whichever of a, b ranks higher, ties going to a.
func maxRank[T constraints.Ordered](a, b T) T {
	if a >= b {
		return a
	}
	return b
}

// TypeError reports a type-system violation: a non-scalar where a
// scalar was required, or an impossible conversion.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return e.Message }

func typeErrorf(format string, args ...any) error {
	return errors.WithStack(&TypeError{Message: errors.Errorf(format, args...).Error()})
}

// Precedence returns the promoted kind of a mixed-type binary
// operation between a and b, per the total order bool < i16 < i32 <
// i64 < f32 < f64.
func Precedence(a, b Kind) (Kind, error) {
	pa, ok := precedenceOrder[a]
	if !ok {
		return Invalid, typeErrorf("%s is not a scalar type", a)
	}
	pb, ok := precedenceOrder[b]
	if !ok {
		return Invalid, typeErrorf("%s is not a scalar type", b)
	}
	if maxRank(pa, pb) == pa {
		return a, nil
	}
	return b, nil
}

// PrecedenceType promotes two possibly-array types elementwise. Arrays
// must have matching length; the promoted element kind follows
// Precedence.
func PrecedenceType(a, b Type) (Type, error) {
	if a.IsString() || b.IsString() {
		return Type{}, typeErrorf("string type does not support arithmetic promotion")
	}
	if a.Length != b.Length {
		return Type{}, typeErrorf("cannot promote mismatched array lengths %d and %d", a.Length, b.Length)
	}
	elem, err := Precedence(a.Elem, b.Elem)
	if err != nil {
		return Type{}, err
	}
	return Type{Elem: elem, Length: a.Length}, nil
}
