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

// arraySlot is the jit.AttrSlot implementation shared by the volume
// and point executables: one attribute's backing array plus the
// index of the voxel or point currently bound to it.
type arraySlot struct {
	arr []axtype.Value
	idx int
}

func (s *arraySlot) Get() axtype.Value  { return s.arr[s.idx] }
func (s *arraySlot) Set(v axtype.Value) { s.arr[s.idx] = v }

// zeroValue returns the zero value of t, used as an attribute's
// implicit background/default when the caller hasn't supplied one.
func zeroValue(t axtype.Type) axtype.Value {
	if t.IsString() {
		return axtype.StringValue("")
	}
	if t.IsArray() {
		elems := make([]axtype.Value, t.Length)
		for i := range elems {
			elems[i] = zeroValue(axtype.Scalar(t.Elem))
		}
		return axtype.Value{Typ: t, Elems: elems}
	}
	if t.Elem.IsFloat() {
		return axtype.Float(t.Elem, 0)
	}
	if t.Elem == axtype.Bool {
		return axtype.BoolValue(false)
	}
	return axtype.Int(t.Elem, 0)
}
