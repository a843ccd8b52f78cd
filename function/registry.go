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

package function

import (
	"github.com/pkg/errors"

	"github.com/vdbax/ax/axtype"
	"github.com/vdbax/ax/base/ordered"
)

// Registry is the catalogue of built-in function groups: built once
// at process start and thereafter treated as read-only behind a
// shared handle.
type Registry struct {
	groups *ordered.Map[string, *Group]
}

// NewRegistry returns an empty, mutable registry. Call Builtins() for
// the fully-populated, ready-to-share registry; NewRegistry is
// exposed mainly so tests can register a handful of fixture groups.
func NewRegistry() *Registry {
	return &Registry{groups: ordered.NewMap[string, *Group]()}
}

// Define adds sig as the next overload of name, assigning it the next
// Declared index within that group automatically.
func (r *Registry) Define(name string, sig Signature) {
	group, ok := r.groups.Load(name)
	if !ok {
		group = &Group{Name: name}
		r.groups.Store(name, group)
	}
	sig.Declared = len(group.Signatures)
	group.Signatures = append(group.Signatures, sig)
}

// Lookup returns the function group registered under name.
func (r *Registry) Lookup(name string) (*Group, bool) {
	return r.groups.Load(name)
}

// Resolve finds and scores the best-matching signature for a call to
// name with the given argument types.
func (r *Registry) Resolve(name string, args []axtype.Type) (Signature, error) {
	group, ok := r.groups.Load(name)
	if !ok {
		return Signature{}, errors.Errorf("no built-in function named %q", name)
	}
	return Resolve(group, args)
}

// Groups returns every registered group, in registration order.
func (r *Registry) Groups() []*Group {
	out := make([]*Group, 0, r.groups.Size())
	for g := range r.groups.Values() {
		out = append(out, g)
	}
	return out
}
