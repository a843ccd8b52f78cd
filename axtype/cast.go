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

// ArithmeticCast converts v to the target scalar kind, selecting one
// of FP-extend/truncate, signed-int-extend/truncate, int<->FP, or
// bool<->FP. Narrowing is permitted without warning and matches C
// truncation semantics; callers that need a narrowing warning must
// detect it themselves via IsNarrowing before calling ArithmeticCast.
func ArithmeticCast(v Value, target Kind) (Value, error) {
	if !target.IsScalar() || !v.Typ.Elem.IsScalar() {
		return Value{}, typeErrorf("arithmetic cast requires scalar types, got %s -> %s", v.Typ, target)
	}
	if v.Typ.Elem == target {
		return v, nil
	}
	switch {
	case target == Bool:
		return BoolValue(BoolCoerce(v)), nil
	case target.IsFloat():
		return Float(target, v.AsFloat64()), nil
	default: // target is integer (i16/i32/i64)
		if v.Typ.Elem.IsFloat() {
			return Int(target, int64(v.F)), nil
		}
		return Int(target, v.I), nil
	}
}

// IsNarrowing reports whether converting from src to target loses
// information: a smaller integer width, or any float->int conversion.
// Used by the compiler driver to emit a narrowing-conversion warning
// without changing ArithmeticCast's semantics.
func IsNarrowing(src, target Kind) bool {
	if src.IsFloat() && target.IsInteger() {
		return true
	}
	if src.IsInteger() && target.IsInteger() {
		return precedenceOrder[src] > precedenceOrder[target]
	}
	if src.IsFloat() && target.IsFloat() {
		return precedenceOrder[src] > precedenceOrder[target]
	}
	return false
}

// BoolCoerce converts v to bool: for floating point, compare != 0.0
// with ordered semantics (NaN becomes false); for integers, compare
// != 0.
func BoolCoerce(v Value) bool {
	if v.Typ.Elem.IsFloat() {
		f := v.F
		return f == f && f != 0.0 // f == f excludes NaN
	}
	return v.I != 0
}

// ArrayCast casts every element of an array value to targetElem. If
// the array's element type already equals targetElem the input is
// returned unchanged.
func ArrayCast(v Value, targetElem Kind) (Value, error) {
	if !v.Typ.IsArray() {
		return Value{}, typeErrorf("ArrayCast requires an array value, got %s", v.Typ)
	}
	if v.Typ.Elem == targetElem {
		return v, nil
	}
	out := Value{Typ: Array(targetElem, v.Typ.Length), Elems: make([]Value, len(v.Elems))}
	for i, e := range v.Elems {
		c, err := ArithmeticCast(e, targetElem)
		if err != nil {
			return Value{}, err
		}
		out.Elems[i] = c
	}
	return out, nil
}

// ArrayPack builds a fixed-length array value from scalars that all
// already share a common element kind.
func ArrayPack(values ...Value) (Value, error) {
	if len(values) == 0 {
		return Value{}, typeErrorf("array_pack requires at least one element")
	}
	elem := values[0].Typ.Elem
	for _, v := range values[1:] {
		if v.Typ.Elem != elem {
			return Value{}, typeErrorf("array_pack requires matching element types, got %s and %s", elem, v.Typ.Elem)
		}
	}
	return Value{Typ: Array(elem, len(values)), Elems: append([]Value(nil), values...)}, nil
}

// ArrayPackCast promotes every argument to the highest-precedence
// common scalar kind before packing.
func ArrayPackCast(values ...Value) (Value, error) {
	if len(values) == 0 {
		return Value{}, typeErrorf("array_pack_cast requires at least one element")
	}
	common := values[0].Typ.Elem
	for _, v := range values[1:] {
		p, err := Precedence(common, v.Typ.Elem)
		if err != nil {
			return Value{}, err
		}
		common = p
	}
	cast := make([]Value, len(values))
	for i, v := range values {
		c, err := ArithmeticCast(v, common)
		if err != nil {
			return Value{}, err
		}
		cast[i] = c
	}
	return ArrayPack(cast...)
}

// ArrayUnpack destructures a fixed-length array value into its
// elements. Round-trips bitwise with ArrayPack.
func ArrayUnpack(v Value) ([]Value, error) {
	if !v.Typ.IsArray() {
		return nil, typeErrorf("array_unpack requires an array value, got %s", v.Typ)
	}
	return append([]Value(nil), v.Elems...), nil
}
