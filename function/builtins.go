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

package function

import "github.com/vdbax/ax/axtype"

func f32() axtype.Type { return axtype.Scalar(axtype.Float32) }
func f64() axtype.Type { return axtype.Scalar(axtype.Float64) }
func i32() axtype.Type { return axtype.Scalar(axtype.Int32) }
func i64() axtype.Type { return axtype.Scalar(axtype.Int64) }
func boolT() axtype.Type { return axtype.Scalar(axtype.Bool) }
func vec3() axtype.Type { return axtype.Array(axtype.Float32, 3) }
func mat4() axtype.Type { return axtype.Mat4() }
func strT() axtype.Type { return axtype.Scalar(axtype.String) }

func param(t axtype.Type) ParamMode    { return ParamMode{Type: t} }
func ptrParam(t axtype.Type) ParamMode { return ParamMode{Type: t, ByPointer: true} }

func extern(symbol string, ret axtype.Type, params ...ParamMode) Signature {
	return Signature{Return: ret, Params: params, External: true, Symbol: symbol}
}

func inline(ret axtype.Type, params ...ParamMode) Signature {
	return Signature{Return: ret, Params: params, Attrs: AlwaysInline}
}

// Builtins returns the fully-populated, ready-to-share registry of
// built-in functions. The registry is built once and is safe to share
// across concurrent compilations: nothing mutates it after
// construction.
func Builtins() *Registry {
	r := NewRegistry()

	// Elementary math — each overloaded over f32/f64, resolving to a
	// native libm-style external symbol at JIT link time.
	for _, name := range []string{"sin", "cos", "tan", "sqrt", "abs", "floor", "ceil", "exp", "log"} {
		r.Define(name, extern("ax.math."+name+".f32", f32(), param(f32())))
		r.Define(name, extern("ax.math."+name+".f64", f64(), param(f64())))
	}
	r.Define("abs", extern("ax.math.abs.i32", i32(), param(i32())))
	r.Define("abs", extern("ax.math.abs.i64", i64(), param(i64())))
	r.Define("pow", extern("ax.math.pow.f32", f32(), param(f32()), param(f32())))
	r.Define("pow", extern("ax.math.pow.f64", f64(), param(f64()), param(f64())))

	// Random: deterministic given the seed.
	r.Define("rand", extern("ax.math.rand.seeded", f64(), param(f64())))
	r.Define("rand", extern("ax.math.rand.unseeded", f64()))

	// Vector ops — computed directly in the lowered IR (inline), no
	// external symbol required.
	r.Define("length", inline(f32(), param(vec3())))
	r.Define("dot", inline(f32(), param(vec3()), param(vec3())))
	r.Define("cross", inline(vec3(), param(vec3()), param(vec3())))
	r.Define("normalize", inline(vec3(), param(vec3())))

	// Matrix construction and multiply — inline elementwise lowering.
	r.Define("identity3", inline(mat4()))
	r.Define("mmul", inline(mat4(), param(mat4()), param(mat4())))
	r.Define("transform", inline(vec3(), param(mat4()), param(vec3())))

	// Point-group membership predicates. These read or mutate the
	// per-leaf group bitset handed to the kernel in group_handles[],
	// so they must be externals.
	r.Define("ingroup", extern("ax.point.ingroup", boolT(), param(strT())))
	r.Define("addtogroup", extern("ax.point.addtogroup", boolT(), param(strT())))
	r.Define("removefromgroup", extern("ax.point.removefromgroup", boolT(), param(strT())))

	// Channel/volume and point-attribute access helpers used by code
	// the generators emit for explicit indexed access (as opposed to
	// the @name sugar, which the generators lower directly).
	r.Define("getvoxel", extern("ax.volume.getvoxel.f32", f32(), param(strT()), param(i32()), param(i32()), param(i32())))
	r.Define("getattr", extern("ax.point.getattr.f32", f32(), param(strT())))
	r.Define("setattr", extern("ax.point.setattr.f32", boolT(), param(strT()), param(f32())))

	// Voxel-space / world-space coordinate conversions — depend on the
	// grid transform passed to the kernel, so they are externals.
	r.Define("voxeltoworld", extern("ax.coord.voxeltoworld", vec3(), param(vec3())))
	r.Define("worldtovoxel", extern("ax.coord.worldtovoxel", vec3(), param(vec3())))

	return r
}
