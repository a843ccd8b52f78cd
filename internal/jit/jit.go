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

// Package jit implements the black-box "native code-generation
// backend" boundary: build_module(ir) -> module and resolve(module,
// symbol) -> function pointer. A real implementation would compile
// through a vendor JIT/IR library such as LLVM; this one compiles the
// code generator's output to a tree of Go closures instead, keeping
// the same architecture — parse -> AST -> IR module -> JIT-linked
// code -> per-leaf invocation — while the backend's internals differ
// from a native-code implementation.
package jit

import (
	"github.com/pkg/errors"

	"github.com/vdbax/ax/axtype"
)

// JitError reports a failure inside the IR backend: an unresolved
// external symbol, or (in a real native backend) a module
// verification failure.
type JitError struct {
	Message string
}

func (e *JitError) Error() string { return e.Message }

// Entry is the compiled kernel entry function produced by a code
// generator: it runs the kernel body against one Frame (one voxel, or
// one point).
type Entry func(frame *Frame) error

// External is a native-linked helper function resolved by symbol name
// at module-add time. It receives already-evaluated argument values
// and returns a single result value.
type External func(frame *Frame, args []axtype.Value) (axtype.Value, error)

// Module is the JIT-owned artifact produced by build_module: the
// compiled entry function plus the set of external symbols the
// entry function references. It is owned by the Executable until the
// Executable is destroyed.
type Module struct {
	Entry     Entry
	externals map[string]External
	required  map[string]bool
}

// BuildModule is the "build_module(ir_description) -> module"
// operation. Declared lists every external symbol the entry function
// calls; linking happens in Resolve.
func BuildModule(entry Entry, declared []string) *Module {
	required := make(map[string]bool, len(declared))
	for _, d := range declared {
		required[d] = true
	}
	return &Module{Entry: entry, required: required}
}

// Resolve is the "resolve(module, symbol_name) -> function pointer"
// operation: it links the module's declared externals against a
// symbol table (normally the host-process registry from
// DefaultExternals, extended with any externals the caller supplied).
// Resolve fails with a JitError if any
// declared external has no matching symbol — the equivalent of a
// link-time "undefined symbol" error from a real JIT.
func (m *Module) Resolve(symbols map[string]External) error {
	m.externals = make(map[string]External, len(m.required))
	var missing []string
	for name := range m.required {
		fn, ok := symbols[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		m.externals[name] = fn
	}
	if len(missing) > 0 {
		return &JitError{Message: errors.Errorf("unresolved external symbol(s): %v", missing).Error()}
	}
	return nil
}

// CallExternal invokes a previously resolved external by name. Code
// generated for a FunctionCall to an External signature calls this at
// Frame-evaluation time, standing in for a direct native call through
// a resolved function pointer.
func (m *Module) CallExternal(frame *Frame, symbol string, args []axtype.Value) (axtype.Value, error) {
	fn, ok := m.externals[symbol]
	if !ok {
		return axtype.Value{}, &JitError{Message: "call to unresolved external " + symbol}
	}
	return fn(frame, args)
}
