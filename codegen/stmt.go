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
	"github.com/pkg/errors"

	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/axtype"
	"github.com/vdbax/ax/internal/jit"
)

// StmtFn is the lowered form of an AST statement. It returns early
// (without running any later statement in its enclosing block) once
// the Frame carries a return/break/continue signal; the caller is
// responsible for checking those signals between statements.
type StmtFn func(f *jit.Frame) error

// LowerBlock lowers a sequence of statements, stopping as soon as one
// leaves a return/break/continue signal set on the Frame.
func (g *Generator) LowerBlock(b *ast.Block) (StmtFn, error) {
	fns := make([]StmtFn, len(b.Stmts))
	for i, s := range b.Stmts {
		fn, err := g.LowerStmt(s)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	return func(f *jit.Frame) error {
		for _, fn := range fns {
			if err := fn(f); err != nil {
				return err
			}
			if f.Returned() || f.Broke() || f.Continued() {
				return nil
			}
		}
		return nil
	}, nil
}

// LowerStmt lowers one statement node.
func (g *Generator) LowerStmt(s ast.Stmt) (StmtFn, error) {
	switch v := s.(type) {
	case *ast.Block:
		return g.LowerBlock(v)
	case *ast.DeclareLocal:
		return g.lowerDeclareLocal(v)
	case *ast.Assign:
		return g.lowerAssign(v)
	case *ast.ExprStmt:
		x, err := g.LowerExpr(v.X)
		if err != nil {
			return nil, err
		}
		return func(f *jit.Frame) error { _, err := x(f); return err }, nil
	case *ast.Conditional:
		return g.lowerConditional(v)
	case *ast.Loop:
		return g.lowerLoop(v)
	case *ast.Keyword:
		return g.lowerKeyword(v)
	}
	return nil, errors.Errorf("codegen: unhandled statement type %T", s)
}

func (g *Generator) lowerDeclareLocal(d *ast.DeclareLocal) (StmtFn, error) {
	slot := d.Slot
	zero := zeroValue(d.Type)
	if d.Init == nil {
		return func(f *jit.Frame) error { f.Locals[slot] = zero; return nil }, nil
	}
	init, err := g.LowerExpr(d.Init)
	if err != nil {
		return nil, err
	}
	target := d.Type
	return func(f *jit.Frame) error {
		v, err := init(f)
		if err != nil {
			return err
		}
		cv, err := convertAssign(v, target)
		if err != nil {
			return err
		}
		f.Locals[slot] = cv
		return nil
	}, nil
}

// zeroValue returns the zero value of t, used when a declared local
// has no initializer.
func zeroValue(t axtype.Type) axtype.Value {
	if t.IsString() {
		return axtype.StringValue("")
	}
	if t.IsArray() {
		elems := make([]axtype.Value, t.Length)
		for i := range elems {
			elems[i] = zeroValue(axtype.Scalar(t.Elem))
		}
		return axtype.Value{Typ: t, Elems: elems}
	}
	if t.Elem.IsFloat() {
		return axtype.Float(t.Elem, 0)
	}
	if t.Elem == axtype.Bool {
		return axtype.BoolValue(false)
	}
	return axtype.Int(t.Elem, 0)
}

// convertAssign converts v to target the way an assignment does:
// elementwise ArithmeticCast/ArrayCast, narrowing permitted. The
// Resolver already rejected outright type-incompatible assignments
// during type resolution, so this never fails for AST the Resolver
// accepted.
func convertAssign(v axtype.Value, target axtype.Type) (axtype.Value, error) {
	if v.Typ.Equal(target) {
		return v, nil
	}
	if target.IsArray() {
		return axtype.ArrayCast(v, target.Elem)
	}
	return axtype.ArithmeticCast(v, target.Elem)
}

func (g *Generator) lowerAssign(a *ast.Assign) (StmtFn, error) {
	lv, err := g.lowerLValue(a.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := g.LowerExpr(a.RHS)
	if err != nil {
		return nil, err
	}
	op := assignBinaryOp(a.Op)
	target := a.Target.Type()
	if a.Op == ast.PlainAssign {
		return func(f *jit.Frame) error {
			v, err := rhs(f)
			if err != nil {
				return err
			}
			cv, err := convertAssign(v, target)
			if err != nil {
				return err
			}
			return lv.Set(f, cv)
		}, nil
	}
	// Compound assignment evaluates the target address once, then
	// reads, combines and writes back.
	return func(f *jit.Frame) error {
		cur, err := lv.Get(f)
		if err != nil {
			return err
		}
		rv, err := rhs(f)
		if err != nil {
			return err
		}
		operandType, err := axtype.PrecedenceType(a.Target.Type(), a.RHS.Type())
		if err != nil {
			return err
		}
		var result axtype.Value
		if cur.Typ.IsArray() || rv.Typ.IsArray() {
			result, err = elementwiseBinaryOp(cur, rv, op, operandType.Elem)
			if err != nil {
				return err
			}
		} else {
			lc, err := axtype.ArithmeticCast(cur, operandType.Elem)
			if err != nil {
				return err
			}
			rc, err := axtype.ArithmeticCast(rv, operandType.Elem)
			if err != nil {
				return err
			}
			res, err := axtype.BinaryOp(lc, rc, op)
			if err != nil {
				return err
			}
			result = res.Value
		}
		cv, err := convertAssign(result, target)
		if err != nil {
			return err
		}
		return lv.Set(f, cv)
	}, nil
}

func assignBinaryOp(op ast.AssignOp) axtype.Op {
	switch op {
	case ast.AddAssign:
		return axtype.Add
	case ast.SubAssign:
		return axtype.Sub
	case ast.MulAssign:
		return axtype.Mul
	case ast.DivAssign:
		return axtype.Div
	}
	return axtype.Add
}

func (g *Generator) lowerConditional(c *ast.Conditional) (StmtFn, error) {
	cond, err := g.LowerExpr(c.Cond)
	if err != nil {
		return nil, err
	}
	then, err := g.LowerBlock(c.Then)
	if err != nil {
		return nil, err
	}
	var els StmtFn
	if c.Else != nil {
		els, err = g.LowerBlock(c.Else)
		if err != nil {
			return nil, err
		}
	}
	return func(f *jit.Frame) error {
		cv, err := cond(f)
		if err != nil {
			return err
		}
		if axtype.BoolCoerce(cv) {
			return then(f)
		}
		if els != nil {
			return els(f)
		}
		return nil
	}, nil
}

// lowerLoop lowers while, do-while and for forms onto one shared loop
// driver: while/do-while use a three-block pattern (init, cond, body),
// for uses four (init, cond, body, step). break/continue are cleared
// at the top of every iteration so a signal never leaks past the loop
// it was raised in.
func (g *Generator) lowerLoop(l *ast.Loop) (StmtFn, error) {
	var init StmtFn
	var err error
	if l.Init != nil {
		init, err = g.LowerStmt(l.Init)
		if err != nil {
			return nil, err
		}
	}
	cond, err := g.LowerExpr(l.Cond)
	if err != nil {
		return nil, err
	}
	body, err := g.LowerBlock(l.Body)
	if err != nil {
		return nil, err
	}
	var step StmtFn
	if l.Step != nil {
		step, err = g.LowerStmt(l.Step)
		if err != nil {
			return nil, err
		}
	}
	kind := l.Kind
	return func(f *jit.Frame) error {
		if init != nil {
			if err := init(f); err != nil {
				return err
			}
		}
		first := kind == ast.DoWhileLoop
		for {
			if !first {
				cv, err := cond(f)
				if err != nil {
					return err
				}
				if !axtype.BoolCoerce(cv) {
					break
				}
			}
			first = false
			f.ClearLoopSignals()
			if err := body(f); err != nil {
				return err
			}
			if f.Returned() {
				return nil
			}
			broke := f.Broke()
			f.ClearLoopSignals()
			if broke {
				break
			}
			if step != nil {
				if err := step(f); err != nil {
					return err
				}
			}
			if kind == ast.DoWhileLoop {
				cv, err := cond(f)
				if err != nil {
					return err
				}
				if !axtype.BoolCoerce(cv) {
					break
				}
				first = true
			}
		}
		return nil
	}, nil
}

func (g *Generator) lowerKeyword(k *ast.Keyword) (StmtFn, error) {
	switch k.Kind {
	case ast.ReturnKeyword:
		return func(f *jit.Frame) error { f.Return(); return nil }, nil
	case ast.BreakKeyword:
		return func(f *jit.Frame) error { f.Break(); return nil }, nil
	case ast.ContinueKeyword:
		return func(f *jit.Frame) error { f.Continue(); return nil }, nil
	}
	return nil, errors.Errorf("codegen: unhandled keyword kind %v", k.Kind)
}
