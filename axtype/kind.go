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

// Package axtype defines the AX type system: scalar kinds, their
// precedence order for implicit promotion, fixed-length array and
// matrix types, and the arithmetic conversion and binary-operator
// rules that the code generator lowers onto.
package axtype

import "fmt"

// Kind enumerates the scalar AX kinds plus the composite shapes
// built from them. Every AX type maps to exactly one IR type.
type Kind int

const (
	Invalid Kind = iota
	Bool
	Int16
	Int32
	Int64
	Float32
	Float64
	String
)

// precedenceOrder is the total order bool < i16 < i32 < i64 < f32 <
// f64. String is not scalar and never appears here.
var precedenceOrder = map[Kind]int{
	Bool:    0,
	Int16:   1,
	Int32:   2,
	Int64:   3,
	Float32: 4,
	Float64: 5,
}

// IsScalar reports whether k is one of the arithmetic scalar kinds
// that participate in precedence and implicit conversion.
func (k Kind) IsScalar() bool {
	_, ok := precedenceOrder[k]
	return ok
}

// IsInteger reports whether k is one of the integer scalar kinds.
func (k Kind) IsInteger() bool {
	switch k {
	case Bool, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsFloat reports whether k is one of the floating-point scalar kinds.
func (k Kind) IsFloat() bool {
	return k == Float32 || k == Float64
}

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Bool:
		return "bool"
	case Int16:
		return "i16"
	case Int32:
		return "i32"
	case Int64:
		return "i64"
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	case String:
		return "string"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is a fully resolved AX type: a scalar kind, or a fixed-length
// array/matrix of a scalar element kind.
type Type struct {
	Elem   Kind
	Length int // 0 for scalars and strings; 3 or 4 for vectors; 16 for a 4x4 matrix.
}

// Scalar returns the AX type for a bare scalar kind.
func Scalar(k Kind) Type { return Type{Elem: k} }

// Array returns the AX type for a fixed-length array of scalar
// element type elem.
func Array(elem Kind, length int) Type { return Type{Elem: elem, Length: length} }

// Mat4 returns the AX type for a 4x4 matrix of f32.
func Mat4() Type { return Type{Elem: Float32, Length: 16} }

// IsScalar reports whether t has no array dimension and is not a
// string.
func (t Type) IsScalar() bool { return t.Length == 0 && t.Elem != String }

// IsArray reports whether t is a fixed-length array (including Mat4).
func (t Type) IsArray() bool { return t.Length > 0 }

// IsString reports whether t is the opaque string type.
func (t Type) IsString() bool { return t.Elem == String }

func (t Type) String() string {
	if t.Length == 0 {
		return t.Elem.String()
	}
	if t.Length == 16 {
		return "mat4<f32>"
	}
	return fmt.Sprintf("%s[%d]", t.Elem, t.Length)
}

// Equal reports whether t and o describe the same AX type.
func (t Type) Equal(o Type) bool { return t.Elem == o.Elem && t.Length == o.Length }
