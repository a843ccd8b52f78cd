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

// Package function implements the built-in function catalogue and
// overload resolution: function groups keyed by name, each holding
// one or more typed signatures, with a cost-vector scoring algorithm
// that picks the best matching signature for a call site.
package function

import "github.com/vdbax/ax/axtype"

// Attribute is a bitset of per-parameter properties a signature can
// declare.
type Attribute int

const (
	Readonly Attribute = 1 << iota
	Noalias
	AlwaysInline
	// Pass-by-address is not an Attribute: it is recorded per
	// parameter in ParamMode.ByPointer.
)

// ParamMode says how one parameter of a Signature is passed.
type ParamMode struct {
	Type      axtype.Type
	ByPointer bool
}

// Signature is one overload of a function group: a return type, an
// ordered parameter list and a set of attributes.
type Signature struct {
	Return axtype.Type
	Params []ParamMode
	Attrs  Attribute
	// External marks that this signature resolves to a native-linked
	// symbol at JIT link time rather than being defined inline in IR.
	External bool
	// Symbol is the externally-linked name when External is true.
	Symbol string
	// Declared is this signature's declaration order within its group.
	// Resolve breaks a cost tie in favour of the signature declared
	// first, in group.Signatures order.
	Declared int
}

func (s Signature) hasAttr(a Attribute) bool { return s.Attrs&a != 0 }

// Group is a function name plus its non-empty list of signatures.
type Group struct {
	Name       string
	Signatures []Signature
}
