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

// Package exec binds a compiled codegen/volume or codegen/point
// program to an actual grid and runs it: per-leaf invocation, with
// leaves dispatched in parallel.
package exec

import "github.com/vdbax/ax/axtype"

// AffineTransform is a uniform-voxel-size affine index<->world
// mapping, the simplified analogue of an OpenVDB grid's Transform.
type AffineTransform struct {
	VoxelSize float64
	Origin    [3]float64
}

// IndexToWorld implements jit.Transform.
func (t AffineTransform) IndexToWorld(v axtype.Value) axtype.Value {
	out := make([]axtype.Value, 3)
	for i := 0; i < 3; i++ {
		world := v.Elems[i].AsFloat64()*t.VoxelSize + t.Origin[i]
		out[i] = axtype.Float(axtype.Float32, world)
	}
	return axtype.Value{Typ: axtype.Array(axtype.Float32, 3), Elems: out}
}

// WorldToIndex implements jit.Transform.
func (t AffineTransform) WorldToIndex(v axtype.Value) axtype.Value {
	out := make([]axtype.Value, 3)
	for i := 0; i < 3; i++ {
		idx := (v.Elems[i].AsFloat64() - t.Origin[i]) / t.VoxelSize
		out[i] = axtype.Float(axtype.Float32, idx)
	}
	return axtype.Value{Typ: axtype.Array(axtype.Float32, 3), Elems: out}
}
