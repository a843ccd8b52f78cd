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

package codegen

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vdbax/ax/axtype"
)

// inlineBuiltins implements the built-in signatures function.Builtins
// marks AlwaysInline: vector and matrix arithmetic computed directly
// in the lowered IR rather than through a resolved external symbol.
var inlineBuiltins = map[string]func(args []axtype.Value) (axtype.Value, error){
	"length":    inlineLength,
	"dot":       inlineDot,
	"cross":     inlineCross,
	"normalize": inlineNormalize,
	"identity3": inlineIdentity3,
	"mmul":      inlineMMul,
	"transform": inlineTransform,
}

func vecf(v axtype.Value, i int) float64 { return v.Elems[i].F }

func vec3Value(x, y, z float64) axtype.Value {
	return axtype.Value{
		Typ:   axtype.Array(axtype.Float32, 3),
		Elems: []axtype.Value{axtype.Float(axtype.Float32, x), axtype.Float(axtype.Float32, y), axtype.Float(axtype.Float32, z)},
	}
}

func inlineLength(args []axtype.Value) (axtype.Value, error) {
	v := args[0]
	x, y, z := vecf(v, 0), vecf(v, 1), vecf(v, 2)
	return axtype.Float(axtype.Float32, math.Sqrt(x*x+y*y+z*z)), nil
}

func inlineDot(args []axtype.Value) (axtype.Value, error) {
	a, b := args[0], args[1]
	sum := 0.0
	for i := 0; i < 3; i++ {
		sum += vecf(a, i) * vecf(b, i)
	}
	return axtype.Float(axtype.Float32, sum), nil
}

func inlineCross(args []axtype.Value) (axtype.Value, error) {
	a, b := args[0], args[1]
	ax, ay, az := vecf(a, 0), vecf(a, 1), vecf(a, 2)
	bx, by, bz := vecf(b, 0), vecf(b, 1), vecf(b, 2)
	return vec3Value(ay*bz-az*by, az*bx-ax*bz, ax*by-ay*bx), nil
}

func inlineNormalize(args []axtype.Value) (axtype.Value, error) {
	v := args[0]
	x, y, z := vecf(v, 0), vecf(v, 1), vecf(v, 2)
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return v, nil
	}
	return vec3Value(x/l, y/l, z/l), nil
}

func inlineIdentity3(args []axtype.Value) (axtype.Value, error) {
	elems := make([]axtype.Value, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v := 0.0
			if r == c {
				v = 1.0
			}
			elems[r*4+c] = axtype.Float(axtype.Float32, v)
		}
	}
	return axtype.Value{Typ: axtype.Mat4(), Elems: elems}, nil
}

func inlineMMul(args []axtype.Value) (axtype.Value, error) {
	a, b := args[0], args[1]
	if len(a.Elems) != 16 || len(b.Elems) != 16 {
		return axtype.Value{}, errors.Errorf("mmul requires two mat4 operands")
	}
	out := make([]axtype.Value, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += a.Elems[r*4+k].F * b.Elems[k*4+c].F
			}
			out[r*4+c] = axtype.Float(axtype.Float32, sum)
		}
	}
	return axtype.Value{Typ: axtype.Mat4(), Elems: out}, nil
}

// inlineTransform applies a row-major affine 4x4 matrix to a
// 3-vector, treating it as the homogeneous point (x, y, z, 1).
func inlineTransform(args []axtype.Value) (axtype.Value, error) {
	m, v := args[0], args[1]
	hv := [4]float64{vecf(v, 0), vecf(v, 1), vecf(v, 2), 1}
	var out [3]float64
	for r := 0; r < 3; r++ {
		sum := 0.0
		for k := 0; k < 4; k++ {
			sum += m.Elems[r*4+k].F * hv[k]
		}
		out[r] = sum
	}
	return vec3Value(out[0], out[1], out[2]), nil
}
