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
	"github.com/vdbax/ax/codegen/point"
	"github.com/vdbax/ax/internal/jit"
)

// PointExecutable binds a compiled point program to a concrete set of
// external symbols and runs it against a PointGrid.
type PointExecutable struct {
	program *point.Program
}

// NewPointExecutable resolves program's external symbols the same way
// NewVolumeExecutable does.
func NewPointExecutable(program *point.Program, extra map[string]jit.External) (*PointExecutable, error) {
	symbols := jit.DefaultExternals()
	for k, v := range extra {
		symbols[k] = v
	}
	if err := program.Module.Resolve(symbols); err != nil {
		return nil, err
	}
	return &PointExecutable{program: program}, nil
}

// Report summarizes the leaf-local data a run of Execute accumulated
// across all leaves — new string values and new point groups a kernel
// introduced. Each leaf collects its own entries while it runs, and
// Execute merges them serially, in leaf order, once every leaf has
// finished; group bitsets are written into each leaf during its pass.
type Report struct {
	NewStrings []string
	NewGroups  []string
}

// Execute runs the kernel once per point of grid. Leaves run
// concurrently; points within a leaf run in index order, matching
// VolumeExecutable's choice for voxels within a leaf.
func (e *PointExecutable) Execute(ctx context.Context, grid *PointGrid) (*Report, error) {
	g, _ := errgroup.WithContext(ctx)
	auxes := make([]jit.AuxData, len(grid.Leaves))
	for i, leaf := range grid.Leaves {
		i, leaf := i, leaf
		g.Go(func() error {
			aux, err := e.executeLeaf(grid, leaf)
			if err != nil {
				return err
			}
			auxes[i] = aux
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report := &Report{}
	for _, aux := range auxes {
		report.NewStrings = append(report.NewStrings, aux.NewStrings...)
		report.NewGroups = append(report.NewGroups, aux.NewGroups...)
	}
	return report, nil
}

func (e *PointExecutable) executeLeaf(grid *PointGrid, leaf *PointLeaf) (jit.AuxData, error) {
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
	var aux jit.AuxData
	for idx := 0; idx < leaf.Count; idx++ {
		slots := make([]jit.AttrSlot, len(attrs))
		for i := range attrs {
			slots[i] = &arraySlot{arr: arrs[i], idx: idx}
		}
		frame := jit.NewFrame(e.program.NumLocals, slots, attrIndex, nil, e.program.Module)
		frame.PointIndex = uint64(idx)
		frame.Aux = &aux
		frame.Group = &pointGroupHandle{leaf: leaf, idx: idx, aux: &aux}
		if err := e.program.Module.Entry(frame); err != nil {
			return aux, err
		}
	}
	return aux, nil
}

// pointGroupHandle implements jit.GroupHandles against one point's
// membership bits across a leaf's group bitsets. A group referenced
// for the first time by AddToGroup is created leaf-locally
// and recorded on aux, so the caller can report which new groups a
// kernel introduced.
type pointGroupHandle struct {
	leaf *PointLeaf
	idx  int
	aux  *jit.AuxData
}

func (h *pointGroupHandle) InGroup(name string) bool {
	bs, ok := h.leaf.Groups[name]
	if !ok {
		return false
	}
	return bs[h.idx]
}

func (h *pointGroupHandle) AddToGroup(name string) {
	if _, ok := h.leaf.Groups[name]; !ok {
		h.aux.NewGroups = append(h.aux.NewGroups, name)
	}
	h.leaf.groupBitset(name)[h.idx] = true
}

func (h *pointGroupHandle) RemoveFromGroup(name string) {
	bs, ok := h.leaf.Groups[name]
	if !ok {
		return
	}
	bs[h.idx] = false
}
