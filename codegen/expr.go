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
	"github.com/vdbax/ax/function"
	"github.com/vdbax/ax/internal/jit"
	"github.com/vdbax/ax/symtab"
)

// ExprFn is the lowered form of an AST expression: a closure that
// evaluates it against one Frame.
type ExprFn func(f *jit.Frame) (axtype.Value, error)

// LValue is the lowered form of an assignable expression: paired
// get/set closures over one Frame. Compound assignment lowers as a
// single evaluation of the address followed by one Get and one Set.
type LValue struct {
	Get func(f *jit.Frame) (axtype.Value, error)
	Set func(f *jit.Frame, v axtype.Value) error
}

// Generator lowers a type-resolved AST into ExprFn/StmtFn closures.
// The volume and point target packages use it through Generate and
// add their own entry-function logic; exec binds the attributes.
type Generator struct {
	Attrs *symtab.Registry
	Funcs *function.Registry
}

// LowerExpr lowers one type-resolved expression node.
func (g *Generator) LowerExpr(e ast.Expr) (ExprFn, error) {
	switch v := e.(type) {
	case *ast.Literal:
		val, err := literalValue(v)
		if err != nil {
			return nil, err
		}
		return func(*jit.Frame) (axtype.Value, error) { return val, nil }, nil
	case *ast.AttributeValue:
		return g.lowerAttributeRead(v)
	case *ast.LocalValue:
		slot := v.Slot
		return func(f *jit.Frame) (axtype.Value, error) { return f.Locals[slot], nil }, nil
	case *ast.Cast:
		return g.lowerCast(v)
	case *ast.UnaryOp:
		return g.lowerUnaryOp(v)
	case *ast.BinaryOp:
		return g.lowerBinaryOp(v)
	case *ast.Crement:
		return g.lowerCrement(v)
	case *ast.FunctionCall:
		return g.lowerFunctionCall(v)
	case *ast.VectorPack:
		return g.lowerVectorPack(v)
	case *ast.VectorUnpack:
		return g.lowerVectorUnpack(v)
	}
	return nil, errors.Errorf("codegen: unhandled expression type %T", e)
}

func (g *Generator) lowerAttributeRead(v *ast.AttributeValue) (ExprFn, error) {
	attr, ok := g.Attrs.Lookup(v.Name)
	if !ok {
		return nil, errors.Errorf("attribute %q was not registered before codegen", v.Name)
	}
	idx := attr.Index
	return func(f *jit.Frame) (axtype.Value, error) { return f.Attrs[idx].Get(), nil }, nil
}

func (g *Generator) lowerCast(v *ast.Cast) (ExprFn, error) {
	x, err := g.LowerExpr(v.X)
	if err != nil {
		return nil, err
	}
	target := v.Target
	return func(f *jit.Frame) (axtype.Value, error) {
		xv, err := x(f)
		if err != nil {
			return axtype.Value{}, err
		}
		if target.IsArray() {
			return axtype.ArrayCast(xv, target.Elem)
		}
		return axtype.ArithmeticCast(xv, target.Elem)
	}, nil
}

func (g *Generator) lowerUnaryOp(v *ast.UnaryOp) (ExprFn, error) {
	x, err := g.LowerExpr(v.X)
	if err != nil {
		return nil, err
	}
	op := v.Op
	return func(f *jit.Frame) (axtype.Value, error) {
		xv, err := x(f)
		if err != nil {
			return axtype.Value{}, err
		}
		switch op {
		case axtype.Not:
			return axtype.BoolValue(!axtype.BoolCoerce(xv)), nil
		case axtype.Neg:
			if xv.Typ.Elem.IsFloat() {
				return axtype.Float(xv.Typ.Elem, -xv.F), nil
			}
			return axtype.Int(xv.Typ.Elem, -xv.I), nil
		case axtype.BitNot:
			return axtype.Int(xv.Typ.Elem, ^xv.I), nil
		}
		return axtype.Value{}, errors.Errorf("codegen: unhandled unary operator %v", op)
	}, nil
}

// lowerBinaryOp short-circuits && and ||: the RHS is not evaluated
// when the result is already determined by the LHS.
func (g *Generator) lowerBinaryOp(v *ast.BinaryOp) (ExprFn, error) {
	lhs, err := g.LowerExpr(v.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := g.LowerExpr(v.RHS)
	if err != nil {
		return nil, err
	}
	op := v.Op
	operandType, err := axtype.PrecedenceType(v.LHS.Type(), v.RHS.Type())
	if err != nil {
		return nil, err
	}
	if op == axtype.LogicalAnd || op == axtype.LogicalOr {
		return func(f *jit.Frame) (axtype.Value, error) {
			lv, err := lhs(f)
			if err != nil {
				return axtype.Value{}, err
			}
			l := axtype.BoolCoerce(lv)
			if op == axtype.LogicalAnd && !l {
				return axtype.BoolValue(false), nil
			}
			if op == axtype.LogicalOr && l {
				return axtype.BoolValue(true), nil
			}
			rv, err := rhs(f)
			if err != nil {
				return axtype.Value{}, err
			}
			return axtype.BoolValue(axtype.BoolCoerce(rv)), nil
		}, nil
	}
	return func(f *jit.Frame) (axtype.Value, error) {
		lv, err := lhs(f)
		if err != nil {
			return axtype.Value{}, err
		}
		rv, err := rhs(f)
		if err != nil {
			return axtype.Value{}, err
		}
		commonElem := operandType.Elem
		if lv.Typ.IsArray() || rv.Typ.IsArray() {
			return elementwiseBinaryOp(lv, rv, op, commonElem)
		}
		lc, err := axtype.ArithmeticCast(lv, commonElem)
		if err != nil {
			return axtype.Value{}, err
		}
		rc, err := axtype.ArithmeticCast(rv, commonElem)
		if err != nil {
			return axtype.Value{}, err
		}
		res, err := axtype.BinaryOp(lc, rc, op)
		if err != nil {
			return axtype.Value{}, err
		}
		return res.Value, nil
	}, nil
}

func elementwiseBinaryOp(lv, rv axtype.Value, op axtype.Op, commonElem axtype.Kind) (axtype.Value, error) {
	length := lv.Typ.Length
	if rv.Typ.Length > length {
		length = rv.Typ.Length
	}
	out := make([]axtype.Value, length)
	for i := 0; i < length; i++ {
		l := elementOrScalar(lv, i)
		r := elementOrScalar(rv, i)
		lc, err := axtype.ArithmeticCast(l, commonElem)
		if err != nil {
			return axtype.Value{}, err
		}
		rc, err := axtype.ArithmeticCast(r, commonElem)
		if err != nil {
			return axtype.Value{}, err
		}
		res, err := axtype.BinaryOp(lc, rc, op)
		if err != nil {
			return axtype.Value{}, err
		}
		out[i] = res.Value
	}
	return axtype.Value{Typ: axtype.Array(commonElem, length), Elems: out}, nil
}

func elementOrScalar(v axtype.Value, i int) axtype.Value {
	if v.Typ.IsArray() {
		return v.Elems[i]
	}
	return v
}

func (g *Generator) lowerCrement(v *ast.Crement) (ExprFn, error) {
	lv, err := g.lowerLValue(v.Target)
	if err != nil {
		return nil, err
	}
	inc := v.Inc
	pre := v.Pre
	return func(f *jit.Frame) (axtype.Value, error) {
		cur, err := lv.Get(f)
		if err != nil {
			return axtype.Value{}, err
		}
		delta := int64(1)
		if !inc {
			delta = -1
		}
		var next axtype.Value
		if cur.Typ.Elem.IsFloat() {
			next = axtype.Float(cur.Typ.Elem, cur.F+float64(delta))
		} else {
			next = axtype.Int(cur.Typ.Elem, cur.I+delta)
		}
		if err := lv.Set(f, next); err != nil {
			return axtype.Value{}, err
		}
		if pre {
			return next, nil
		}
		return cur, nil
	}, nil
}

func (g *Generator) lowerFunctionCall(v *ast.FunctionCall) (ExprFn, error) {
	sig, ok := v.Resolved.(function.Signature)
	if !ok {
		return nil, errors.Errorf("function call %q was not resolved before codegen", v.Name)
	}
	argFns := make([]ExprFn, len(v.Args))
	for i, a := range v.Args {
		fn, err := g.LowerExpr(a)
		if err != nil {
			return nil, err
		}
		argFns[i] = fn
	}
	if sig.External {
		symbol := sig.Symbol
		return func(f *jit.Frame) (axtype.Value, error) {
			args, err := evalArgs(f, argFns, sig)
			if err != nil {
				return axtype.Value{}, err
			}
			return f.Module.CallExternal(f, symbol, args)
		}, nil
	}
	impl, ok := inlineBuiltins[v.Name]
	if !ok {
		return nil, errors.Errorf("no inline implementation registered for built-in %q", v.Name)
	}
	return func(f *jit.Frame) (axtype.Value, error) {
		args, err := evalArgs(f, argFns, sig)
		if err != nil {
			return axtype.Value{}, err
		}
		return impl(args)
	}, nil
}

func evalArgs(f *jit.Frame, fns []ExprFn, sig function.Signature) ([]axtype.Value, error) {
	args := make([]axtype.Value, len(fns))
	for i, fn := range fns {
		v, err := fn(f)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (g *Generator) lowerVectorPack(v *ast.VectorPack) (ExprFn, error) {
	elemFns := make([]ExprFn, len(v.Elems))
	for i, e := range v.Elems {
		fn, err := g.LowerExpr(e)
		if err != nil {
			return nil, err
		}
		elemFns[i] = fn
	}
	return func(f *jit.Frame) (axtype.Value, error) {
		vals := make([]axtype.Value, len(elemFns))
		for i, fn := range elemFns {
			val, err := fn(f)
			if err != nil {
				return axtype.Value{}, err
			}
			vals[i] = val
		}
		return axtype.ArrayPackCast(vals...)
	}, nil
}

func (g *Generator) lowerVectorUnpack(v *ast.VectorUnpack) (ExprFn, error) {
	x, err := g.LowerExpr(v.X)
	if err != nil {
		return nil, err
	}
	idx := v.Index
	return func(f *jit.Frame) (axtype.Value, error) {
		xv, err := x(f)
		if err != nil {
			return axtype.Value{}, err
		}
		return xv.Elems[idx], nil
	}, nil
}

// lowerLValue lowers an assignable expression to a get/set pair.
func (g *Generator) lowerLValue(e ast.Expr) (LValue, error) {
	switch v := e.(type) {
	case *ast.AttributeValue:
		attr, ok := g.Attrs.Lookup(v.Name)
		if !ok {
			return LValue{}, errors.Errorf("attribute %q was not registered before codegen", v.Name)
		}
		idx := attr.Index
		return LValue{
			Get: func(f *jit.Frame) (axtype.Value, error) { return f.Attrs[idx].Get(), nil },
			Set: func(f *jit.Frame, val axtype.Value) error { f.Attrs[idx].Set(val); return nil },
		}, nil
	case *ast.LocalValue:
		slot := v.Slot
		return LValue{
			Get: func(f *jit.Frame) (axtype.Value, error) { return f.Locals[slot], nil },
			Set: func(f *jit.Frame, val axtype.Value) error { f.Locals[slot] = val; return nil },
		}, nil
	case *ast.VectorUnpack:
		parent, err := g.lowerLValue(v.X)
		if err != nil {
			return LValue{}, errors.Errorf("cannot assign to a component of a non-assignable vector expression: %v", err)
		}
		idx := v.Index
		return LValue{
			Get: func(f *jit.Frame) (axtype.Value, error) {
				arr, err := parent.Get(f)
				if err != nil {
					return axtype.Value{}, err
				}
				return arr.Elems[idx], nil
			},
			Set: func(f *jit.Frame, val axtype.Value) error {
				arr, err := parent.Get(f)
				if err != nil {
					return err
				}
				arr.Elems = append([]axtype.Value(nil), arr.Elems...)
				arr.Elems[idx] = val
				return parent.Set(f, arr)
			},
		}, nil
	}
	return LValue{}, errors.Errorf("codegen: %T is not an assignable expression", e)
}
