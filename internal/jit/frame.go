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

import "github.com/vdbax/ax/axtype"

// AttrSlot is the per-invocation binding of one registered attribute
// to its backing storage: a voxel offset into a leaf's typed array
// for a volume kernel, or a per-point handle for a point kernel. The
// code generators fetch the base pointer/offset once per voxel or
// handle once per point and hand back an AttrSlot; the lowered
// expression code never knows which target it is running under.
type AttrSlot interface {
	Get() axtype.Value
	Set(axtype.Value)
}

// Transform converts between voxel-index space and world space, as
// consulted by the voxeltoworld/worldtovoxel built-ins. The concrete
// implementation is supplied by exec, which owns the grid metadata;
// jit only depends on this narrow interface to avoid an import cycle
// with exec.
type Transform interface {
	IndexToWorld(axtype.Value) axtype.Value
	WorldToIndex(axtype.Value) axtype.Value
}

// GroupHandles exposes the point-kernel group bitset operations
// (ingroup / addtogroup / removefromgroup), resolved per point
// against the leaf's group_handles[].
type GroupHandles interface {
	InGroup(name string) bool
	AddToGroup(name string)
	RemoveFromGroup(name string)
}

// AuxData accumulates point-kernel leaf-local data (new strings, new
// groups) produced by the kernel invocations of one leaf, merged into
// the executable's report once every leaf has finished.
type AuxData struct {
	NewStrings []string
	NewGroups  []string
}

// Frame is the per-invocation execution context a compiled Entry
// runs against: one Frame per active voxel for a volume kernel, or
// one per point for a point kernel. VoxelCoord belongs to the volume
// side, PointIndex/Group/Aux to the point side, and
// Locals/Attrs/CustomData/Module are shared by both.
type Frame struct {
	Locals    []axtype.Value
	Attrs     []AttrSlot
	AttrIndex map[string]int

	VoxelCoord [3]int32
	Transform  Transform

	PointIndex uint64
	Group      GroupHandles
	Aux        *AuxData

	CustomData any
	Module     *Module

	// returned/broke/continued implement non-local control flow:
	// return jumps to the function epilogue, break/continue jump to
	// the loop's exit/step blocks. The generated statement closures
	// check these after every nested statement.
	returned, broke, continued bool
}

// NewFrame returns a Frame with nLocals zero-initialized local slots.
func NewFrame(nLocals int, attrs []AttrSlot, attrIndex map[string]int, custom any, mod *Module) *Frame {
	return &Frame{Locals: make([]axtype.Value, nLocals), Attrs: attrs, AttrIndex: attrIndex, CustomData: custom, Module: mod}
}

func (f *Frame) Return()         { f.returned = true }
func (f *Frame) Break()          { f.broke = true }
func (f *Frame) Continue()       { f.continued = true }
func (f *Frame) Returned() bool  { return f.returned }
func (f *Frame) Broke() bool     { return f.broke }
func (f *Frame) Continued() bool { return f.continued }

// ClearLoopSignals resets break/continue at the top of a loop body so
// a signal from one iteration does not leak into the next
// (Return must survive, since it terminates the whole kernel).
func (f *Frame) ClearLoopSignals() {
	f.broke = false
	f.continued = false
}
