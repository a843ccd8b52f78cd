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

// Package codegen lowers a type-resolved AX AST into the IR closures
// the internal/jit backend runs. It is shared by the volume and point
// target generators in codegen/volume and codegen/point.
package codegen

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/vdbax/ax/ast"
)

// Warning is one non-fatal diagnostic: an implicit float->int cast
// due to a bitwise op, or a narrowing conversion. Dead code and
// unused locals are not reported.
type Warning struct {
	Message string
	Pos     ast.Pos
}

// Diagnostics accumulates the errors and warnings produced while
// resolving types and lowering one compilation unit, so the whole
// pass can run to completion and report everything at once rather
// than failing at the first problem.
type Diagnostics struct {
	err      error
	Warnings []Warning
}

// Errorf appends a formatted error to the diagnostics.
func (d *Diagnostics) Errorf(format string, args ...any) {
	d.err = multierr.Append(d.err, errors.Errorf(format, args...))
}

// Error appends err to the diagnostics if non-nil.
func (d *Diagnostics) Error(err error) {
	if err == nil {
		return
	}
	d.err = multierr.Append(d.err, err)
}

// Warnf appends a warning at pos.
func (d *Diagnostics) Warnf(pos ast.Pos, format string, args ...any) {
	d.Warnings = append(d.Warnings, Warning{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// Err returns the combined error, or nil if nothing failed.
func (d *Diagnostics) Err() error { return d.err }

// PromoteWarnings turns every accumulated warning into an error, for
// compiler.Options.WarnAsError.
func (d *Diagnostics) PromoteWarnings() {
	for _, w := range d.Warnings {
		d.Errorf("%s", w.Message)
	}
	d.Warnings = nil
}
