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

// Package ast defines the AX abstract syntax tree: the discriminated
// node hierarchy the parser produces, plus the type-resolved form the
// code generator consumes.
package ast

import "github.com/vdbax/ax/axtype"

// Pos is a source position, used to build the {line, column} fields
// of a compile error or warning.
type Pos struct {
	Line, Column int
}

// Node is the common interface every AST node satisfies. Position is
// used for error reporting; Children supports a generic walker: a
// tagged-variant match with recursion handled by default.
type Node interface {
	Position() Pos
	Children() []Node
}

// Expr is any AST node that produces a value. Its resolved type is
// filled in by the single type-resolution pass; it is axtype.Type{}
// (the zero value) until that pass runs.
type Expr interface {
	Node
	Type() axtype.Type
	SetType(axtype.Type)
}

// base implements Node.Position and a zero-node Children default; it
// is embedded by leaf expressions that have no child expressions.
type base struct {
	Pos Pos
}

func (b base) Position() Pos     { return b.Pos }
func (b base) Children() []Node  { return nil }

// typedBase implements Expr's type bookkeeping; embedded by every
// expression node.
type typedBase struct {
	base
	typ axtype.Type
}

func (t *typedBase) Type() axtype.Type     { return t.typ }
func (t *typedBase) SetType(ty axtype.Type) { t.typ = ty }

// AssignOp enumerates the compound-assignment operators.
type AssignOp int

const (
	PlainAssign AssignOp = iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
)

// AttrAccess is the access pattern an attribute is used with within
// one compilation unit, tracked by the attribute registry.
type AttrAccess int

const (
	Read AttrAccess = iota
	Write
	ReadWrite
)

func (a AttrAccess) Merge(o AttrAccess) AttrAccess {
	if a == o {
		return a
	}
	return ReadWrite
}

// LiteralKind tags the lexical kind of a Literal node.
type LiteralKind int

const (
	BoolLit LiteralKind = iota
	IntLit
	FloatLit
	StringLit
)

// Literal is a constant of lexical kind Kind with raw source text
// Raw; the parser is responsible for producing syntactically valid
// Raw text, type resolution assigns the literal's AX type.
type Literal struct {
	typedBase
	Kind LiteralKind
	Raw  string
}

func NewLiteral(pos Pos, kind LiteralKind, raw string) *Literal {
	return &Literal{typedBase: typedBase{base: base{Pos: pos}}, Kind: kind, Raw: raw}
}

// AttributeValue is a `@name` reference, optionally prefixed with an
// explicit type tag (`f@`, `i@`, `v@`, `s@`, `mat4@`, ...). TypeTag is
// "" when the reference used the bare `@name` form, which defaults to
// f32.
type AttributeValue struct {
	typedBase
	Name    string
	TypeTag string
}

func NewAttributeValue(pos Pos, name, typeTag string) *AttributeValue {
	return &AttributeValue{typedBase: typedBase{base: base{Pos: pos}}, Name: name, TypeTag: typeTag}
}

// LocalValue is a reference to a local variable or kernel parameter.
// Slot is filled in by the type-resolution pass from the symbol table
// entry the name resolved to.
type LocalValue struct {
	typedBase
	Name string
	Slot int
}

func NewLocalValue(pos Pos, name string) *LocalValue {
	return &LocalValue{typedBase: typedBase{base: base{Pos: pos}}, Name: name}
}

// Cast is an explicit `cast<type>(expr)` conversion.
type Cast struct {
	typedBase
	Target axtype.Type
	X      Expr
}

func NewCast(pos Pos, target axtype.Type, x Expr) *Cast {
	return &Cast{typedBase: typedBase{base: base{Pos: pos}}, Target: target, X: x}
}
func (c *Cast) Children() []Node { return []Node{c.X} }

// UnaryOp is a unary `-`, `!` or `~` applied to X.
type UnaryOp struct {
	typedBase
	Op axtype.UnaryOperator
	X  Expr
}

func NewUnaryOp(pos Pos, op axtype.UnaryOperator, x Expr) *UnaryOp {
	return &UnaryOp{typedBase: typedBase{base: base{Pos: pos}}, Op: op, X: x}
}
func (u *UnaryOp) Children() []Node { return []Node{u.X} }

// BinaryOp is a binary arithmetic, comparison, logical or bitwise
// operator over LHS and RHS.
type BinaryOp struct {
	typedBase
	Op       axtype.Op
	LHS, RHS Expr
}

func NewBinaryOp(pos Pos, op axtype.Op, lhs, rhs Expr) *BinaryOp {
	return &BinaryOp{typedBase: typedBase{base: base{Pos: pos}}, Op: op, LHS: lhs, RHS: rhs}
}
func (b *BinaryOp) Children() []Node { return []Node{b.LHS, b.RHS} }

// Crement is `++`/`--`, pre- or post-fix, applied to an lvalue.
type Crement struct {
	typedBase
	Target Expr
	Pre    bool
	Inc    bool
}

func NewCrement(pos Pos, target Expr, pre, inc bool) *Crement {
	return &Crement{typedBase: typedBase{base: base{Pos: pos}}, Target: target, Pre: pre, Inc: inc}
}
func (c *Crement) Children() []Node { return []Node{c.Target} }

// FunctionCall is a call to a built-in function; no user-defined
// functions exist.
type FunctionCall struct {
	typedBase
	Name string
	Args []Expr
	// Resolved is filled in by the function registry once overload
	// resolution has picked a signature.
	Resolved any
}

func NewFunctionCall(pos Pos, name string, args []Expr) *FunctionCall {
	return &FunctionCall{typedBase: typedBase{base: base{Pos: pos}}, Name: name, Args: args}
}
func (f *FunctionCall) Children() []Node {
	out := make([]Node, len(f.Args))
	for i, a := range f.Args {
		out[i] = a
	}
	return out
}

// VectorPack builds a length-3 or length-4 array literal `{x, y, z}`.
type VectorPack struct {
	typedBase
	Elems []Expr
}

func NewVectorPack(pos Pos, elems []Expr) *VectorPack {
	return &VectorPack{typedBase: typedBase{base: base{Pos: pos}}, Elems: elems}
}
func (v *VectorPack) Children() []Node {
	out := make([]Node, len(v.Elems))
	for i, e := range v.Elems {
		out[i] = e
	}
	return out
}

// VectorUnpack reads element Index of an array-typed expression X.
// Index is resolved at compile time.
type VectorUnpack struct {
	typedBase
	X     Expr
	Index int
}

func NewVectorUnpack(pos Pos, x Expr, index int) *VectorUnpack {
	return &VectorUnpack{typedBase: typedBase{base: base{Pos: pos}}, X: x, Index: index}
}
func (v *VectorUnpack) Children() []Node { return []Node{v.X} }
