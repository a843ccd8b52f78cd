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

// Package symtab implements the block-scoped symbol table and the
// attribute registry: a stack of scopes mapping identifier to (type,
// storage slot), and a separate flat registry for `@name` attribute
// references built during a pre-pass.
package symtab

import (
	"github.com/pkg/errors"

	"github.com/vdbax/ax/axtype"
)

// Slot identifies where a local's value lives once lowered; the code
// generator interprets it (e.g. as a stack-allocation index). symtab
// only hands out unique, monotonically increasing slots per
// compilation.
type Slot int

// Symbol is the (type, storage-location) pair a scope maps a name to.
type Symbol struct {
	Name string
	Type axtype.Type
	Slot Slot
}

type scope struct {
	vars map[string]Symbol
}

// Table is a block-scoped stack of scopes, rebuilt fresh for every
// compilation.
type Table struct {
	scopes  []*scope
	nextSlot Slot
}

// New returns a symbol table with a single top-level scope pushed.
func New() *Table {
	t := &Table{}
	t.Push()
	return t
}

// Push opens a new scope, entered on block entry.
func (t *Table) Push() {
	t.scopes = append(t.scopes, &scope{vars: map[string]Symbol{}})
}

// Pop closes the innermost scope, on block exit.
func (t *Table) Pop() {
	if len(t.scopes) == 0 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Declare adds name to the innermost scope. It is an error to redeclare
// a name already present in that exact scope.
func (t *Table) Declare(name string, typ axtype.Type) (Symbol, error) {
	if len(t.scopes) == 0 {
		return Symbol{}, errors.Errorf("symtab: Declare called with no open scope")
	}
	innermost := t.scopes[len(t.scopes)-1]
	if _, in := innermost.vars[name]; in {
		return Symbol{}, errors.Errorf("local %q is already declared in this scope", name)
	}
	sym := Symbol{Name: name, Type: typ, Slot: t.nextSlot}
	t.nextSlot++
	innermost.vars[name] = sym
	return sym, nil
}

// Lookup searches scopes from innermost to outermost.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].vars[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Depth returns the number of scopes currently open; used by tests to
// assert that every Push is matched by a Pop.
func (t *Table) Depth() int { return len(t.scopes) }

// SlotCount returns the number of locals declared across the whole
// table's lifetime, i.e. the size a Frame's Locals slice must have to
// hold every declaration's slot.
func (t *Table) SlotCount() int { return int(t.nextSlot) }
