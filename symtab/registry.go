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

package symtab

import (
	"github.com/pkg/errors"

	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/axtype"
	"github.com/vdbax/ax/base/ordered"
)

// Attribute describes one `(name, type, access_flags)` entry of the
// attribute registry.
type Attribute struct {
	Name   string
	Type   axtype.Type
	Access ast.AttrAccess
	// Index is the attribute's position in stable registration order;
	// the volume/point generators use it to index attribute_ptrs[] or
	// attribute_handles[].
	Index int
}

// Registry is the per-compilation-unit, frozen-at-codegen set of
// attributes a kernel references. It uses an ordered.Map so that
// Attributes() preserves first-reference order, which the
// volume/point generators rely on for stable attribute indexing.
type Registry struct {
	attrs  *ordered.Map[string, *Attribute]
	frozen bool
}

// NewRegistry returns an empty, unfrozen attribute registry.
func NewRegistry() *Registry {
	return &Registry{attrs: ordered.NewMap[string, *Attribute]()}
}

// Reference records that name was used with the given type and access
// pattern, merging with any prior reference under the same name.
// Two references to the same name with incompatible types is a
// compile error.
func (r *Registry) Reference(name string, typ axtype.Type, access ast.AttrAccess) (*Attribute, error) {
	if r.frozen {
		return nil, errors.Errorf("attribute registry is frozen: cannot reference %q", name)
	}
	if existing, ok := r.attrs.Load(name); ok {
		if !existing.Type.Equal(typ) {
			return nil, errors.Errorf("attribute %q previously inferred as %s, now used as %s", name, existing.Type, typ)
		}
		existing.Access = existing.Access.Merge(access)
		return existing, nil
	}
	attr := &Attribute{Name: name, Type: typ, Access: access, Index: r.attrs.Size()}
	r.attrs.Store(name, attr)
	return attr, nil
}

// Lookup returns the attribute previously registered under name.
func (r *Registry) Lookup(name string) (*Attribute, bool) {
	return r.attrs.Load(name)
}

// Freeze prevents further References; codegen begins only once frozen.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }

// Attributes returns every registered attribute in stable
// registration order.
func (r *Registry) Attributes() []*Attribute {
	out := make([]*Attribute, 0, r.attrs.Size())
	for attr := range r.attrs.Values() {
		out = append(out, attr)
	}
	return out
}
