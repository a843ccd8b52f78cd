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
	"fmt"
	"strings"

	"github.com/vdbax/ax/codegen"
)

// CompileError is the structured compile failure: the underlying
// type-resolution/codegen error plus every warning the pass
// accumulated before failing (some of which may themselves be the
// promoted cause, under WarnAsError).
type CompileError struct {
	Err      error
	Warnings []codegen.Warning
}

func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ax: compile failed: %v", e.Err)
	for _, w := range e.Warnings {
		fmt.Fprintf(&b, "\n  warning at %d:%d: %s", w.Pos.Line, w.Pos.Column, w.Message)
	}
	return b.String()
}

func (e *CompileError) Unwrap() error { return e.Err }

func compileError(diags *codegen.Diagnostics, err error) *CompileError {
	ce := &CompileError{Err: err}
	if diags != nil {
		ce.Warnings = diags.Warnings
	}
	return ce
}
