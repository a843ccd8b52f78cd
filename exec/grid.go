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

import "github.com/vdbax/ax/axtype"

// LeafDim is the edge length, in voxels, of one leaf node — the unit
// of parallel dispatch: work is partitioned by leaf, leaves run
// concurrently, and voxels within a leaf run in an unspecified order.
// 8 matches OpenVDB's default LeafNode dimension.
const LeafDim = 8

// VoxelsPerLeaf is the number of voxels in one leaf.
const VoxelsPerLeaf = LeafDim * LeafDim * LeafDim

// Coord is a voxel-space integer coordinate.
type Coord [3]int32

// leafOrigin floors c to its containing leaf's origin.
func leafOrigin(c Coord) Coord {
	var o Coord
	for i := 0; i < 3; i++ {
		o[i] = floorDiv(c[i], LeafDim) * LeafDim
	}
	return o
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// voxelIndex returns c's flat index within its leaf, in x-major order.
func voxelIndex(c, origin Coord) int {
	lx := int(c[0] - origin[0])
	ly := int(c[1] - origin[1])
	lz := int(c[2] - origin[2])
	return (lx*LeafDim+ly)*LeafDim + lz
}

// Leaf is one dense LeafDim^3 block of voxel data, one of possibly
// many sparse blocks making up a VolumeGrid. Attrs holds one dense
// array per referenced attribute name, allocated lazily the first
// time a kernel touches that attribute in this leaf.
type Leaf struct {
	Origin Coord
	Active [VoxelsPerLeaf]bool
	Attrs  map[string][]axtype.Value
}

func newLeaf(origin Coord) *Leaf {
	return &Leaf{Origin: origin, Attrs: map[string][]axtype.Value{}}
}

func (l *Leaf) attrArray(name string, background axtype.Value) []axtype.Value {
	arr, ok := l.Attrs[name]
	if !ok {
		arr = make([]axtype.Value, VoxelsPerLeaf)
		for i := range arr {
			arr[i] = background
		}
		l.Attrs[name] = arr
	}
	return arr
}

// VolumeGrid is a sparse collection of leaves plus, per attribute
// name, a background value used to fill voxels a kernel has not yet
// written: channels default to the grid's background value outside
// any written leaf.
type VolumeGrid struct {
	Transform  AffineTransform
	Background map[string]axtype.Value
	leaves     map[Coord]*Leaf
	order      []Coord
}

// NewVolumeGrid returns an empty grid with the given transform.
func NewVolumeGrid(transform AffineTransform) *VolumeGrid {
	return &VolumeGrid{Transform: transform, Background: map[string]axtype.Value{}, leaves: map[Coord]*Leaf{}}
}

// Activate marks c active, allocating its leaf if necessary, and
// returns the leaf. A kernel only runs against active voxels.
func (g *VolumeGrid) Activate(c Coord) *Leaf {
	origin := leafOrigin(c)
	l, ok := g.leaves[origin]
	if !ok {
		l = newLeaf(origin)
		g.leaves[origin] = l
		g.order = append(g.order, origin)
	}
	l.Active[voxelIndex(c, origin)] = true
	return l
}

// Leaves returns every allocated leaf in the order leaves were first
// activated, so iteration order is reproducible across runs even
// though no ordering guarantee between leaves is otherwise promised.
func (g *VolumeGrid) Leaves() []*Leaf {
	out := make([]*Leaf, len(g.order))
	for i, o := range g.order {
		out[i] = g.leaves[o]
	}
	return out
}

// SetValue writes an attribute value at a voxel coordinate, allocating
// storage for that attribute in the voxel's leaf if needed.
func (g *VolumeGrid) SetValue(name string, c Coord, v axtype.Value) {
	l := g.Activate(c)
	bg := g.Background[name]
	arr := l.attrArray(name, bg)
	arr[voxelIndex(c, l.Origin)] = v
}

// Value reads an attribute value at a voxel coordinate, returning the
// grid's background value if the voxel's leaf has never been touched
// for that attribute.
func (g *VolumeGrid) Value(name string, c Coord) axtype.Value {
	origin := leafOrigin(c)
	l, ok := g.leaves[origin]
	if !ok {
		return g.Background[name]
	}
	arr, ok := l.Attrs[name]
	if !ok {
		return g.Background[name]
	}
	return arr[voxelIndex(c, origin)]
}
