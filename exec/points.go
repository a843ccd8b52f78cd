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

// PointLeaf is one leaf's worth of points — the point-target analogue
// of Leaf, grouped the way OpenVDB Points groups points by their
// containing leaf for per-leaf parallel dispatch.
type PointLeaf struct {
	Count  int
	Attrs  map[string][]axtype.Value
	Groups map[string][]bool
}

func newPointLeaf(count int) *PointLeaf {
	return &PointLeaf{Count: count, Attrs: map[string][]axtype.Value{}, Groups: map[string][]bool{}}
}

func (l *PointLeaf) attrArray(name string, background axtype.Value) []axtype.Value {
	arr, ok := l.Attrs[name]
	if !ok {
		arr = make([]axtype.Value, l.Count)
		for i := range arr {
			arr[i] = background
		}
		l.Attrs[name] = arr
	}
	return arr
}

func (l *PointLeaf) groupBitset(name string) []bool {
	bs, ok := l.Groups[name]
	if !ok {
		bs = make([]bool, l.Count)
		l.Groups[name] = bs
	}
	return bs
}

// PointGrid is a sparse collection of point leaves plus, per
// attribute name, the background value used to seed a leaf's array
// the first time a kernel touches that attribute.
type PointGrid struct {
	Background map[string]axtype.Value
	Leaves     []*PointLeaf
}

// NewPointGrid returns an empty point grid.
func NewPointGrid() *PointGrid {
	return &PointGrid{Background: map[string]axtype.Value{}}
}

// AddLeaf appends a new leaf of count points and returns it, ready for
// the caller to populate with SetValue/AddToGroup calls.
func (g *PointGrid) AddLeaf(count int) *PointLeaf {
	l := newPointLeaf(count)
	g.Leaves = append(g.Leaves, l)
	return l
}

// SetValue writes attribute name for point index i within leaf l.
func (g *PointGrid) SetValue(l *PointLeaf, name string, i int, v axtype.Value) {
	bg, ok := g.Background[name]
	if !ok {
		bg = v
	}
	l.attrArray(name, bg)[i] = v
}
