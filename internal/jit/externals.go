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

package jit

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/vdbax/ax/axtype"
)

// DefaultExternals returns the native-code symbol table a host
// program links the compiled module against at JIT-add time. These
// stand in for the native libm/runtime symbols a real LLVM backend
// would resolve through its symbol-lookup callback.
func DefaultExternals() map[string]External {
	return map[string]External{
		"ax.math.sin.f32":  unaryFloatExternal(axtype.Float32, math.Sin),
		"ax.math.sin.f64":  unaryFloatExternal(axtype.Float64, math.Sin),
		"ax.math.cos.f32":  unaryFloatExternal(axtype.Float32, math.Cos),
		"ax.math.cos.f64":  unaryFloatExternal(axtype.Float64, math.Cos),
		"ax.math.tan.f32":  unaryFloatExternal(axtype.Float32, math.Tan),
		"ax.math.tan.f64":  unaryFloatExternal(axtype.Float64, math.Tan),
		"ax.math.sqrt.f32": unaryFloatExternal(axtype.Float32, math.Sqrt),
		"ax.math.sqrt.f64": unaryFloatExternal(axtype.Float64, math.Sqrt),
		"ax.math.abs.f32":  unaryFloatExternal(axtype.Float32, math.Abs),
		"ax.math.abs.f64":  unaryFloatExternal(axtype.Float64, math.Abs),
		"ax.math.floor.f32": unaryFloatExternal(axtype.Float32, math.Floor),
		"ax.math.floor.f64": unaryFloatExternal(axtype.Float64, math.Floor),
		"ax.math.ceil.f32":  unaryFloatExternal(axtype.Float32, math.Ceil),
		"ax.math.ceil.f64":  unaryFloatExternal(axtype.Float64, math.Ceil),
		"ax.math.exp.f32":   unaryFloatExternal(axtype.Float32, math.Exp),
		"ax.math.exp.f64":   unaryFloatExternal(axtype.Float64, math.Exp),
		"ax.math.log.f32":   unaryFloatExternal(axtype.Float32, math.Log),
		"ax.math.log.f64":   unaryFloatExternal(axtype.Float64, math.Log),
		"ax.math.abs.i32": func(_ *Frame, args []axtype.Value) (axtype.Value, error) {
			v := args[0].I
			if v < 0 {
				v = -v
			}
			return axtype.Int(axtype.Int32, v), nil
		},
		"ax.math.abs.i64": func(_ *Frame, args []axtype.Value) (axtype.Value, error) {
			v := args[0].I
			if v < 0 {
				v = -v
			}
			return axtype.Int(axtype.Int64, v), nil
		},
		"ax.math.pow.f32": func(_ *Frame, args []axtype.Value) (axtype.Value, error) {
			return axtype.Float(axtype.Float32, math.Pow(args[0].F, args[1].F)), nil
		},
		"ax.math.pow.f64": func(_ *Frame, args []axtype.Value) (axtype.Value, error) {
			return axtype.Float(axtype.Float64, math.Pow(args[0].F, args[1].F)), nil
		},
		// rand is deterministic given the seed: each call constructs
		// a fresh source from the seed rather than advancing shared
		// state, so re-running a kernel on identical input reproduces
		// identical output.
		"ax.math.rand.seeded": func(_ *Frame, args []axtype.Value) (axtype.Value, error) {
			src := rand.New(rand.NewSource(int64(math.Float64bits(args[0].F))))
			return axtype.Float(axtype.Float64, src.Float64()), nil
		},
		"ax.math.rand.unseeded": func(f *Frame, _ []axtype.Value) (axtype.Value, error) {
			seed := int64(f.PointIndex) + int64(f.VoxelCoord[0])<<16 + int64(f.VoxelCoord[1])<<32 + int64(f.VoxelCoord[2])<<48
			src := rand.New(rand.NewSource(seed))
			return axtype.Float(axtype.Float64, src.Float64()), nil
		},
		"ax.point.ingroup": func(f *Frame, args []axtype.Value) (axtype.Value, error) {
			if f.Group == nil {
				return axtype.Value{}, errors.Errorf("ingroup called outside a point kernel")
			}
			return axtype.BoolValue(f.Group.InGroup(args[0].Str)), nil
		},
		"ax.point.addtogroup": func(f *Frame, args []axtype.Value) (axtype.Value, error) {
			if f.Group == nil {
				return axtype.Value{}, errors.Errorf("addtogroup called outside a point kernel")
			}
			f.Group.AddToGroup(args[0].Str)
			return axtype.BoolValue(true), nil
		},
		"ax.point.removefromgroup": func(f *Frame, args []axtype.Value) (axtype.Value, error) {
			if f.Group == nil {
				return axtype.Value{}, errors.Errorf("removefromgroup called outside a point kernel")
			}
			f.Group.RemoveFromGroup(args[0].Str)
			return axtype.BoolValue(true), nil
		},
		"ax.point.getattr.f32": func(f *Frame, args []axtype.Value) (axtype.Value, error) {
			return getNamedAttr(f, args[0].Str)
		},
		"ax.point.setattr.f32": func(f *Frame, args []axtype.Value) (axtype.Value, error) {
			idx, ok := f.AttrIndex[args[0].Str]
			if !ok {
				return axtype.Value{}, errors.Errorf("unknown attribute %q", args[0].Str)
			}
			f.Attrs[idx].Set(args[1])
			return axtype.BoolValue(true), nil
		},
		// getvoxel reads the named attribute at the frame's current
		// voxel; it does not support cross-grid or offset access since
		// the kernel ABI only ever exposes the acting grid's own
		// attribute pointers.
		"ax.volume.getvoxel.f32": func(f *Frame, args []axtype.Value) (axtype.Value, error) {
			return getNamedAttr(f, args[0].Str)
		},
		"ax.coord.voxeltoworld": func(f *Frame, args []axtype.Value) (axtype.Value, error) {
			if f.Transform == nil {
				return axtype.Value{}, errors.Errorf("voxeltoworld called without a bound transform")
			}
			return f.Transform.IndexToWorld(args[0]), nil
		},
		"ax.coord.worldtovoxel": func(f *Frame, args []axtype.Value) (axtype.Value, error) {
			if f.Transform == nil {
				return axtype.Value{}, errors.Errorf("worldtovoxel called without a bound transform")
			}
			return f.Transform.WorldToIndex(args[0]), nil
		},
	}
}

func getNamedAttr(f *Frame, name string) (axtype.Value, error) {
	idx, ok := f.AttrIndex[name]
	if !ok {
		return axtype.Value{}, errors.Errorf("unknown attribute %q", name)
	}
	return f.Attrs[idx].Get(), nil
}

func unaryFloatExternal(kind axtype.Kind, fn func(float64) float64) External {
	return func(_ *Frame, args []axtype.Value) (axtype.Value, error) {
		return axtype.Float(kind, fn(args[0].AsFloat64())), nil
	}
}
