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

package ast

import "github.com/vdbax/ax/axtype"

// Stmt is any AST node that is executed for effect rather than
// evaluated for a value.
type Stmt interface {
	Node
}

// Block is a sequence of statements executed in source order.
// Entering a Block pushes a symbol-table scope; leaving it pops that
// scope.
type Block struct {
	base
	Stmts []Stmt
}

func NewBlock(pos Pos, stmts []Stmt) *Block { return &Block{base: base{Pos: pos}, Stmts: stmts} }
func (b *Block) Children() []Node {
	out := make([]Node, len(b.Stmts))
	for i, s := range b.Stmts {
		out[i] = s
	}
	return out
}

// DeclareLocal introduces a new local of the declared type, with an
// optional initializer. Locals default to zero of their declared
// type when Init is nil.
type DeclareLocal struct {
	base
	Type axtype.Type
	Name string
	Init Expr
	// Slot is filled in by the type-resolution pass.
	Slot int
}

func NewDeclareLocal(pos Pos, typ axtype.Type, name string, init Expr) *DeclareLocal {
	return &DeclareLocal{base: base{Pos: pos}, Type: typ, Name: name, Init: init}
}
func (d *DeclareLocal) Children() []Node {
	if d.Init == nil {
		return nil
	}
	return []Node{d.Init}
}

// Assign is `target op= rhs`, where op is PlainAssign for plain `=`.
// Compound operators are rewritten by the code generator into
// `target = target op rhs` with one evaluation of the target address;
// the AST keeps the original operator so the printer and type checker
// can report it faithfully.
type Assign struct {
	base
	Target Expr
	Op     AssignOp
	RHS    Expr
}

func NewAssign(pos Pos, target Expr, op AssignOp, rhs Expr) *Assign {
	return &Assign{base: base{Pos: pos}, Target: target, Op: op, RHS: rhs}
}
func (a *Assign) Children() []Node { return []Node{a.Target, a.RHS} }

// ExprStmt wraps an expression evaluated for its side effect (a bare
// function call or a crement statement).
type ExprStmt struct {
	base
	X Expr
}

func NewExprStmt(pos Pos, x Expr) *ExprStmt { return &ExprStmt{base: base{Pos: pos}, X: x} }
func (e *ExprStmt) Children() []Node        { return []Node{e.X} }

// Conditional is an `if (cond) then [else else_]`.
type Conditional struct {
	base
	Cond       Expr
	Then, Else *Block
}

func NewConditional(pos Pos, cond Expr, then, els *Block) *Conditional {
	return &Conditional{base: base{Pos: pos}, Cond: cond, Then: then, Else: els}
}
func (c *Conditional) Children() []Node {
	nodes := []Node{c.Cond, c.Then}
	if c.Else != nil {
		nodes = append(nodes, c.Else)
	}
	return nodes
}

// LoopKind distinguishes the three loop forms the generator lowers:
// while/do-while use a three-block pattern, for uses four.
type LoopKind int

const (
	WhileLoop LoopKind = iota
	DoWhileLoop
	ForLoop
)

// Loop covers while, do-while and for. Init and Step are nil unless
// Kind is ForLoop.
type Loop struct {
	base
	Kind LoopKind
	Init Stmt
	Cond Expr
	Step Stmt
	Body *Block
}

func NewLoop(pos Pos, kind LoopKind, init Stmt, cond Expr, step Stmt, body *Block) *Loop {
	return &Loop{base: base{Pos: pos}, Kind: kind, Init: init, Cond: cond, Step: step, Body: body}
}
func (l *Loop) Children() []Node {
	var nodes []Node
	if l.Init != nil {
		nodes = append(nodes, l.Init)
	}
	nodes = append(nodes, l.Cond, l.Body)
	if l.Step != nil {
		nodes = append(nodes, l.Step)
	}
	return nodes
}

// KeywordKind enumerates the bare control keywords.
type KeywordKind int

const (
	ReturnKeyword KeywordKind = iota
	BreakKeyword
	ContinueKeyword
)

// Keyword is a bare `return;`, `break;` or `continue;` statement.
type Keyword struct {
	base
	Kind KeywordKind
}

func NewKeyword(pos Pos, kind KeywordKind) *Keyword { return &Keyword{base: base{Pos: pos}, Kind: kind} }
