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

package codegen

import (
	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/function"
	"github.com/vdbax/ax/symtab"
)

// NewGenerator returns a Generator sharing the attribute registry and
// function catalogue a Resolver already ran a type-resolution pass
// against. The target packages (codegen/volume, codegen/point) reach
// it through Generate and add their own entry-function framing.
func NewGenerator(attrs *symtab.Registry, funcs *function.Registry) *Generator {
	return &Generator{Attrs: attrs, Funcs: funcs}
}

// Result is the output of lowering one kernel body: the entry
// statement function plus the number of local slots the caller must
// size a Frame's Locals to.
type Result struct {
	Body      StmtFn
	NumLocals int
	// ExternalSymbols lists every external function symbol the body
	// calls, for jit.BuildModule's declared-symbols argument.
	ExternalSymbols []string
}

// Generate resolves and lowers one kernel body in a single call,
// returning the closures a target generator wraps into a jit.Entry.
// allowImplicitFloatToInt mirrors compiler.Options.AllowImplicitFloatToInt.
func Generate(body *ast.Block, attrs *symtab.Registry, funcs *function.Registry, allowImplicitFloatToInt bool) (*Result, *Diagnostics, error) {
	resolver := NewResolver(attrs, funcs)
	resolver.AllowImplicitFloatToInt = allowImplicitFloatToInt
	resolver.ResolveBlock(body)
	if err := resolver.Diagnostics.Err(); err != nil {
		return nil, resolver.Diagnostics, err
	}
	attrs.Freeze()
	gen := NewGenerator(attrs, funcs)
	stmtFn, err := gen.LowerBlock(body)
	if err != nil {
		return nil, resolver.Diagnostics, err
	}
	syms := collectExternalSymbols(body)
	return &Result{Body: stmtFn, NumLocals: resolver.Symbols.SlotCount(), ExternalSymbols: syms}, resolver.Diagnostics, nil
}

// collectExternalSymbols walks the already-resolved AST collecting
// the Symbol of every FunctionCall that resolved to an external
// signature, so the caller can pass a complete declared-symbols list
// to jit.BuildModule.
func collectExternalSymbols(n ast.Node) []string {
	var syms []string
	seen := map[string]bool{}
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if call, ok := n.(*ast.FunctionCall); ok {
			if sig, ok := call.Resolved.(function.Signature); ok && sig.External && !seen[sig.Symbol] {
				seen[sig.Symbol] = true
				syms = append(syms, sig.Symbol)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(n)
	return syms
}
