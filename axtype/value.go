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

// Value is a runtime AX value produced while lowering and evaluating
// a kernel. Scalars use the numeric field selected by Typ.Elem (a
// bool built by BoolValue also mirrors B into I as 0 or 1); arrays
// populate Elems; strings populate Str.
//
// This stands in for the typed IR value that a native JIT backend
// would carry in an SSA register; see internal/jit for how Values
// flow through generated kernel code.
type Value struct {
	Typ   Type
	B     bool
	I     int64 // holds i16/i32/i64, sign-extended
	F     float64
	Str   string
	Elems []Value
}

// BoolValue constructs a bool scalar value. I is set to 1 for true so
// that readers of the integer field (BoolCoerce, AsFloat64) see 0/1.
func BoolValue(b bool) Value {
	v := Value{Typ: Scalar(Bool), B: b}
	if b {
		v.I = 1
	}
	return v
}

// Int constructs an integer scalar value of the given kind.
func Int(k Kind, v int64) Value { return Value{Typ: Scalar(k), I: truncate(k, v)} }

// Float constructs a floating point scalar value of the given kind.
func Float(k Kind, v float64) Value {
	if k == Float32 {
		v = float64(float32(v))
	}
	return Value{Typ: Scalar(k), F: v}
}

// StringValue constructs a string value.
func StringValue(s string) Value { return Value{Typ: Scalar(String), Str: s} }

func truncate(k Kind, v int64) int64 {
	switch k {
	case Bool:
		if v != 0 {
			return 1
		}
		return 0
	case Int16:
		return int64(int16(v))
	case Int32:
		return int64(int32(v))
	default:
		return v
	}
}

// AsFloat64 returns the value as a float64, assuming v is a scalar
// numeric kind (bool counts as 0/1).
func (v Value) AsFloat64() float64 {
	if v.Typ.Elem.IsFloat() {
		return v.F
	}
	return float64(v.I)
}

// AsInt64 returns the value as an int64, assuming v is a scalar
// numeric kind (float truncates toward zero).
func (v Value) AsInt64() int64 {
	if v.Typ.Elem.IsFloat() {
		return int64(v.F)
	}
	return v.I
}
