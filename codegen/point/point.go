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

// Package point generates the point-target kernel: a compiled entry
// function invoked once per point, with attributes bound to
// per-point attribute handles and group membership exposed through
// the leaf's group bitset.
package point

import (
	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/codegen"
	"github.com/vdbax/ax/function"
	"github.com/vdbax/ax/internal/jit"
	"github.com/vdbax/ax/symtab"
)

// Program is a compiled point kernel, structurally identical to
// codegen/volume's Program — the two targets share every lowering
// rule and differ only in how the executable binds
// AttrSlot/Transform/Group against a grid (see exec).
type Program struct {
	Module    *jit.Module
	Attrs     *symtab.Registry
	NumLocals int
}

// Compile resolves and lowers body for the point target.
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
