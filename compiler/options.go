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

// Package compiler implements the top-level Compile driver: it runs
// type resolution and code generation against one target, producing
// either a compiled program or a structured CompileError.
package compiler

import "github.com/vdbax/ax/internal/jit"

// Target selects which of the two code generators — volume or point —
// a kernel body compiles against.
type Target int

const (
	VolumeTarget Target = iota
	PointTarget
)

func (t Target) String() string {
	if t == PointTarget {
		return "point"
	}
	return "volume"
}

// Options configures one compilation.
type Options struct {
	Target Target

	// WarnAsError promotes every warning (narrowing conversions,
	// implicit float->int casts through a bitwise operator) into a
	// compile error.
	WarnAsError bool

	// AllowImplicitFloatToInt relaxes the default assignment rule: by
	// default, assigning a floating-point expression to an
	// integer-typed local or attribute without cast<>(...) is a
	// compile error; setting this allows it through (with the usual
	// narrowing warning, promoted to an error if WarnAsError is also
	// set).
	AllowImplicitFloatToInt bool

	// ExternalSymbols is not read by Compile. Extra externals take
	// effect only when passed to exec.NewVolumeExecutable or
	// exec.NewPointExecutable, which add them to jit.DefaultExternals.
	ExternalSymbols map[string]jit.External

	// CustomData is not read by Compile and reaches no Frame: the
	// executables build every Frame with a nil CustomData.
	CustomData any
}
