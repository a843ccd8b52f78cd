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

// Package axtest provides the grid-comparison helper integration
// tests use to assert a kernel produced the expected output: compare
// two grids' topology and, within a numeric tolerance, their per-
// voxel values, reporting every mismatched voxel rather than failing
// at the first one.
package axtest

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vdbax/ax/axtype"
	"github.com/vdbax/ax/exec"
)

// Diagnostic accumulates every mismatch CompareGrids finds, instead of
// stopping at the first one.
type Diagnostic struct {
	TopologyMismatches []exec.Coord
	ValueMismatches    []ValueMismatch
}

// ValueMismatch is one voxel or point whose value differed by more
// than the comparison's tolerance.
type ValueMismatch struct {
	Attribute string
	Coord     exec.Coord
	Point     int
	Got, Want axtype.Value
}

// Valid reports whether the comparison found no mismatches.
func (d *Diagnostic) Valid() bool {
	return d != nil && len(d.TopologyMismatches) == 0 && len(d.ValueMismatches) == 0
}

func (d *Diagnostic) String() string {
	if d.Valid() {
		return "grids match"
	}
	var b strings.Builder
	if len(d.TopologyMismatches) > 0 {
		fmt.Fprintf(&b, "%d active-topology mismatches (first: %v)\n", len(d.TopologyMismatches), d.TopologyMismatches[0])
	}
	for _, m := range d.ValueMismatches {
		if m.Attribute != "" {
			fmt.Fprintf(&b, "attribute %q at %v: got %v want %v\n", m.Attribute, m.Coord, m.Got, m.Want)
		} else {
			fmt.Fprintf(&b, "point %d: got %v want %v\n", m.Point, m.Got, m.Want)
		}
	}
	return b.String()
}

// CompareGrids compares two volume grids' active topology and, for
// each of the given attribute names, their per-voxel values within
// tolerance. Values are compared with NaN-safe ordered semantics to
// match axtype.BinaryOp's own comparison rules.
func CompareGrids(got, want *exec.VolumeGrid, attrNames []string, tolerance float64) *Diagnostic {
	diag := &Diagnostic{}
	gotCoords := activeCoords(got)
	wantCoords := activeCoords(want)
	for c := range union(gotCoords, wantCoords) {
		if gotCoords[c] != wantCoords[c] {
			diag.TopologyMismatches = append(diag.TopologyMismatches, c)
		}
	}
	sortCoords(diag.TopologyMismatches)
	for c := range wantCoords {
		if !gotCoords[c] {
			continue
		}
		for _, name := range attrNames {
			gv := got.Value(name, c)
			wv := want.Value(name, c)
			if !valuesClose(gv, wv, tolerance) {
				diag.ValueMismatches = append(diag.ValueMismatches, ValueMismatch{Attribute: name, Coord: c, Got: gv, Want: wv})
			}
		}
	}
	return diag
}

// ComparePointAttributes compares two point grids attribute-by-
// attribute and point-by-point, assuming they describe the same
// number of points in the same leaf/index layout (spec's point
// kernels never reorder or resize the point set).
func ComparePointAttributes(got, want *exec.PointGrid, attrNames []string, tolerance float64) *Diagnostic {
	diag := &Diagnostic{}
	if len(got.Leaves) != len(want.Leaves) {
		diag.ValueMismatches = append(diag.ValueMismatches, ValueMismatch{Point: -1})
		return diag
	}
	pointOffset := 0
	for li := range want.Leaves {
		gl, wl := got.Leaves[li], want.Leaves[li]
		for i := 0; i < wl.Count && i < gl.Count; i++ {
			for _, name := range attrNames {
				gv := gl.Attrs[name]
				wv := wl.Attrs[name]
				if gv == nil || wv == nil {
					continue
				}
				if !valuesClose(gv[i], wv[i], tolerance) {
					diag.ValueMismatches = append(diag.ValueMismatches, ValueMismatch{
						Attribute: name, Point: pointOffset + i, Got: gv[i], Want: wv[i],
					})
				}
			}
		}
		pointOffset += wl.Count
	}
	return diag
}

func activeCoords(g *exec.VolumeGrid) map[exec.Coord]bool {
	out := map[exec.Coord]bool{}
	for _, leaf := range g.Leaves() {
		for idx := 0; idx < exec.VoxelsPerLeaf; idx++ {
			if leaf.Active[idx] {
				out[coordOf(leaf, idx)] = true
			}
		}
	}
	return out
}

func coordOf(leaf *exec.Leaf, idx int) exec.Coord {
	lz := idx % exec.LeafDim
	rem := idx / exec.LeafDim
	ly := rem % exec.LeafDim
	lx := rem / exec.LeafDim
	return exec.Coord{leaf.Origin[0] + int32(lx), leaf.Origin[1] + int32(ly), leaf.Origin[2] + int32(lz)}
}

func union(a, b map[exec.Coord]bool) map[exec.Coord]bool {
	out := map[exec.Coord]bool{}
	for c := range a {
		out[c] = true
	}
	for c := range b {
		out[c] = true
	}
	return out
}

func sortCoords(cs []exec.Coord) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})
}

// valuesClose compares two values within tolerance, descending into
// array elements; strings and bools compare exactly.
func valuesClose(a, b axtype.Value, tolerance float64) bool {
	if a.Typ.IsArray() {
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !valuesClose(a.Elems[i], b.Elems[i], tolerance) {
				return false
			}
		}
		return true
	}
	if a.Typ.IsString() {
		return a.Str == b.Str
	}
	if a.Typ.Elem == axtype.Bool {
		return a.B == b.B
	}
	if a.Typ.Elem.IsFloat() {
		return math.Abs(a.F-b.F) <= tolerance
	}
	return a.I == b.I
}
