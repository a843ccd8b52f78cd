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

package compiler

import (
	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/codegen"
	"github.com/vdbax/ax/codegen/point"
	"github.com/vdbax/ax/codegen/volume"
	"github.com/vdbax/ax/function"
)

// Result is the output of a successful Compile: the program for
// whichever target Options.Target selected, plus any warnings the
// pass produced (narrowing conversions, implicit bitwise float casts)
// that did not get promoted into an error.
type Result struct {
	Target   Target
	Volume   *volume.Program
	Point    *point.Program
	Warnings []codegen.Warning
}

// Compile runs type resolution and code generation against body for
// the target opts.Target selects. funcs is the built-in function
// catalogue; pass function.Builtins() unless the caller has a reason
// to restrict or extend it (e.g. tests register a small fixture
// registry).
func Compile(body *ast.Block, funcs *function.Registry, opts Options) (*Result, error) {
	if funcs == nil {
		funcs = function.Builtins()
	}
	switch opts.Target {
	case PointTarget:
		prog, diags, err := point.Compile(body, funcs, opts.AllowImplicitFloatToInt)
		if err != nil {
			return nil, compileError(diags, err)
		}
		if opts.WarnAsError {
			diags.PromoteWarnings()
			if err := diags.Err(); err != nil {
				return nil, compileError(diags, err)
			}
		}
		return &Result{Target: PointTarget, Point: prog, Warnings: diags.Warnings}, nil
	default:
		prog, diags, err := volume.Compile(body, funcs, opts.AllowImplicitFloatToInt)
		if err != nil {
			return nil, compileError(diags, err)
		}
		if opts.WarnAsError {
			diags.PromoteWarnings()
			if err := diags.Err(); err != nil {
				return nil, compileError(diags, err)
			}
		}
		return &Result{Target: VolumeTarget, Volume: prog, Warnings: diags.Warnings}, nil
	}
}
