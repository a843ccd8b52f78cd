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

// Package volume generates the volume-target kernel: a compiled
// entry function invoked once per active voxel, with attributes
// bound to per-leaf typed voxel buffers and `@name` reads/writes
// addressed by voxel coordinate.
package volume

import (
	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/codegen"
	"github.com/vdbax/ax/function"
	"github.com/vdbax/ax/internal/jit"
	"github.com/vdbax/ax/symtab"
)

// Program is a compiled volume kernel: a JIT module plus the frozen
// attribute registry describing every `@name` reference the kernel
// makes, in stable declaration order.
type Program struct {
	Module    *jit.Module
	Attrs     *symtab.Registry
	NumLocals int
}

// Compile resolves and lowers body for the volume target. funcs is
// the shared built-in function catalogue; a fresh attribute registry
// is created, filled during type resolution and frozen before lowering
// begins.
func Compile(body *ast.Block, funcs *function.Registry, allowImplicitFloatToInt bool) (*Program, *codegen.Diagnostics, error) {
	attrs := symtab.NewRegistry()
	result, diags, err := codegen.Generate(body, attrs, funcs, allowImplicitFloatToInt)
	if err != nil {
		return nil, diags, err
	}
	attrs.Freeze()
	mod := jit.BuildModule(jit.Entry(result.Body), result.ExternalSymbols)
	return &Program{Module: mod, Attrs: attrs, NumLocals: result.NumLocals}, diags, nil
}
