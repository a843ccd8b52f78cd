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

package exec

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vdbax/ax/axtype"
	"github.com/vdbax/ax/codegen/volume"
	"github.com/vdbax/ax/internal/jit"
)

// VolumeExecutable binds a compiled volume program to a concrete set
// of external symbols and runs it against a VolumeGrid. It owns the
// jit.Module for its lifetime.
type VolumeExecutable struct {
	program *volume.Program
}

// NewVolumeExecutable resolves program's external symbols against
// jit.DefaultExternals plus any caller-supplied overrides, then
// returns an Executable ready to run.
func NewVolumeExecutable(program *volume.Program, extra map[string]jit.External) (*VolumeExecutable, error) {
	symbols := jit.DefaultExternals()
	for k, v := range extra {
		symbols[k] = v
	}
	if err := program.Module.Resolve(symbols); err != nil {
		return nil, err
	}
	return &VolumeExecutable{program: program}, nil
}

// Execute runs the kernel once per active voxel of grid. Leaves run
// concurrently; within a leaf, voxels run in index order, the
// cheapest order to implement since nothing downstream depends on
// voxel-to-voxel ordering. Execute returns the first error any
// leaf's invocation produced, after every leaf has finished (errgroup
// cancels sibling leaves' context but does not abort work already in
// flight).
func (e *VolumeExecutable) Execute(ctx context.Context, grid *VolumeGrid) error {
	leaves := grid.Leaves()
	g, _ := errgroup.WithContext(ctx)
	for _, leaf := range leaves {
		leaf := leaf
		g.Go(func() error { return e.executeLeaf(grid, leaf) })
	}
	return g.Wait()
}

func (e *VolumeExecutable) executeLeaf(grid *VolumeGrid, leaf *Leaf) error {
	attrs := e.program.Attrs.Attributes()
	arrs := make([][]axtype.Value, len(attrs))
	attrIndex := make(map[string]int, len(attrs))
	for i, a := range attrs {
		bg, ok := grid.Background[a.Name]
		if !ok {
			bg = zeroValue(a.Type)
		}
		arrs[i] = leaf.attrArray(a.Name, bg)
		attrIndex[a.Name] = i
	}
	for idx := 0; idx < VoxelsPerLeaf; idx++ {
		if !leaf.Active[idx] {
			continue
		}
		slots := make([]jit.AttrSlot, len(attrs))
		for i := range attrs {
			slots[i] = &arraySlot{arr: arrs[i], idx: idx}
		}
		frame := jit.NewFrame(e.program.NumLocals, slots, attrIndex, nil, e.program.Module)
		frame.Transform = grid.Transform
		frame.VoxelCoord = coordFromIndex(leaf.Origin, idx)
		if err := e.program.Module.Entry(frame); err != nil {
			return err
		}
	}
	return nil
}

func coordFromIndex(origin Coord, idx int) Coord {
	lz := idx % LeafDim
	rem := idx / LeafDim
	ly := rem % LeafDim
	lx := rem / LeafDim
	return Coord{origin[0] + int32(lx), origin[1] + int32(ly), origin[2] + int32(lz)}
}
