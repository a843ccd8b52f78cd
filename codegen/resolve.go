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
	"strconv"
	"strings"

	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/axtype"
	"github.com/vdbax/ax/function"
	"github.com/vdbax/ax/symtab"
)

// Resolver runs the single type-resolution pass: it annotates every
// expression node with its resolved AX type, and along the way
// populates the attribute registry and the symbol table.
type Resolver struct {
	Symbols     *symtab.Table
	Attrs       *symtab.Registry
	Funcs       *function.Registry
	Diagnostics *Diagnostics

	// AllowImplicitFloatToInt relaxes the assignability check below so
	// that a floating -> integer assignment narrows instead of
	// requiring an explicit cast<>(...). False by default.
	AllowImplicitFloatToInt bool
}

// NewResolver returns a resolver with a fresh symbol table; the
// symbol table is rebuilt per compilation.
func NewResolver(attrs *symtab.Registry, funcs *function.Registry) *Resolver {
	return &Resolver{Symbols: symtab.New(), Attrs: attrs, Funcs: funcs, Diagnostics: &Diagnostics{}}
}

// ResolveBlock runs the type-resolution pass over a whole kernel body.
// Calling ResolveBlock twice against freshly reset state (a new
// Resolver) yields the same annotations, since the pass is a pure
// function of the AST and the function registry.
func (r *Resolver) ResolveBlock(b *ast.Block) {
	r.resolveBlock(b)
}

func (r *Resolver) resolveBlock(b *ast.Block) {
	r.Symbols.Push()
	defer r.Symbols.Pop()
	for _, s := range b.Stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.Block:
		r.resolveBlock(v)
	case *ast.DeclareLocal:
		r.resolveDeclareLocal(v)
	case *ast.Assign:
		r.resolveAssign(v)
	case *ast.ExprStmt:
		r.resolveExpr(v.X)
	case *ast.Conditional:
		r.resolveExpr(v.Cond)
		r.requireBoolCoercible(v.Cond)
		r.resolveBlock(v.Then)
		if v.Else != nil {
			r.resolveBlock(v.Else)
		}
	case *ast.Loop:
		r.Symbols.Push()
		defer r.Symbols.Pop()
		if v.Init != nil {
			r.resolveStmt(v.Init)
		}
		r.resolveExpr(v.Cond)
		r.requireBoolCoercible(v.Cond)
		r.resolveBlock(v.Body)
		if v.Step != nil {
			r.resolveStmt(v.Step)
		}
	case *ast.Keyword:
		// No children to resolve.
	default:
		r.Diagnostics.Errorf("internal error: unhandled statement type %T", s)
	}
}

func (r *Resolver) requireBoolCoercible(e ast.Expr) {
	if !e.Type().IsScalar() {
		r.Diagnostics.Errorf("condition must be a scalar, got %s", e.Type())
	}
}

func (r *Resolver) resolveDeclareLocal(d *ast.DeclareLocal) {
	if d.Init != nil {
		r.resolveExpr(d.Init)
		r.checkAssignable(d.Init, d.Type)
	}
	sym, err := r.Symbols.Declare(d.Name, d.Type)
	if err != nil {
		r.Diagnostics.Error(err)
		return
	}
	d.Slot = int(sym.Slot)
}

func (r *Resolver) resolveAssign(a *ast.Assign) {
	r.resolveExpr(a.Target)
	r.resolveExpr(a.RHS)
	r.markAttrAccess(a.Target, ast.Write)
	target := a.Target.Type()
	rhs := a.RHS.Type()
	if a.Op != ast.PlainAssign {
		// Compound assignment requires the underlying binary op be
		// valid for (target, rhs); the code generator rewrites this as
		// target = target op rhs.
		if _, err := axtype.Precedence(target.Elem, rhs.Elem); err != nil {
			r.Diagnostics.Error(err)
		}
	}
	r.checkAssignable(a.RHS, target)
}

// checkAssignable checks that the RHS type is implicitly convertible
// to the LHS type: floating -> integer requires an explicit
// cast<>(...) unless the caller opted into AllowImplicitFloatToInt,
// all other arithmetic conversions are implicit (and may warn if
// narrowing).
func (r *Resolver) checkAssignable(rhs ast.Expr, target axtype.Type) {
	rt := rhs.Type()
	if rt.Equal(target) {
		return
	}
	if rt.IsString() != target.IsString() {
		r.Diagnostics.Errorf("cannot assign %s to %s", rt, target)
		return
	}
	if rt.IsString() {
		return
	}
	if rt.Length != target.Length {
		r.Diagnostics.Errorf("cannot assign array of length %d to array of length %d", rt.Length, target.Length)
		return
	}
	if rt.Elem.IsFloat() && target.Elem.IsInteger() {
		if _, isCast := rhs.(*ast.Cast); !isCast && !r.AllowImplicitFloatToInt {
			r.Diagnostics.Errorf("cannot implicitly assign %s to %s: floating -> integer requires an explicit cast<>(...)", rt, target)
			return
		}
	}
	if axtype.IsNarrowing(rt.Elem, target.Elem) {
		r.Diagnostics.Warnf(rhs.Position(), "narrowing conversion from %s to %s", rt, target)
	}
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch v := e.(type) {
	case *ast.Literal:
		v.SetType(literalType(v))
	case *ast.AttributeValue:
		typ := attrTagType(v.TypeTag)
		v.SetType(typ)
		r.markAttrAccess(v, ast.Read)
	case *ast.LocalValue:
		sym, ok := r.Symbols.Lookup(v.Name)
		if !ok {
			r.Diagnostics.Errorf("undeclared local %q", v.Name)
			v.SetType(axtype.Scalar(axtype.Invalid))
			return
		}
		v.SetType(sym.Type)
		v.Slot = int(sym.Slot)
	case *ast.Cast:
		r.resolveExpr(v.X)
		v.SetType(v.Target)
	case *ast.UnaryOp:
		r.resolveExpr(v.X)
		if v.Op == axtype.Not {
			v.SetType(axtype.Scalar(axtype.Bool))
		} else {
			v.SetType(v.X.Type())
		}
	case *ast.BinaryOp:
		r.resolveExpr(v.LHS)
		r.resolveExpr(v.RHS)
		r.resolveBinaryOp(v)
	case *ast.Crement:
		r.resolveExpr(v.Target)
		v.SetType(v.Target.Type())
		r.markAttrAccess(v.Target, ast.ReadWrite)
	case *ast.FunctionCall:
		r.resolveFunctionCall(v)
	case *ast.VectorPack:
		r.resolveVectorPack(v)
	case *ast.VectorUnpack:
		r.resolveExpr(v.X)
		xt := v.X.Type()
		if !xt.IsArray() {
			r.Diagnostics.Errorf("cannot index non-array type %s", xt)
			v.SetType(axtype.Scalar(axtype.Invalid))
			return
		}
		if v.Index < 0 || v.Index >= xt.Length {
			r.Diagnostics.Errorf("array index %d out of bounds for length %d", v.Index, xt.Length)
		}
		v.SetType(axtype.Scalar(xt.Elem))
	default:
		r.Diagnostics.Errorf("internal error: unhandled expression type %T", e)
	}
}

func (r *Resolver) resolveBinaryOp(b *ast.BinaryOp) {
	lt, rt := b.LHS.Type(), b.RHS.Type()
	promoted, err := axtype.PrecedenceType(lt, rt)
	if err != nil {
		r.Diagnostics.Error(err)
		b.SetType(axtype.Scalar(axtype.Invalid))
		return
	}
	if isComparisonOrLogical(b.Op) {
		b.SetType(axtype.Scalar(axtype.Bool))
		return
	}
	switch b.Op {
	case axtype.BitAnd, axtype.BitOr, axtype.BitXor, axtype.Shl, axtype.Shr:
		if promoted.Elem.IsFloat() {
			r.Diagnostics.Warnf(b.Position(), "implicit float->i64 cast for bitwise operator %s", b.Op)
			promoted = axtype.Type{Elem: axtype.Int64, Length: promoted.Length}
		}
	}
	b.SetType(promoted)
}

func isComparisonOrLogical(op axtype.Op) bool {
	switch op {
	case axtype.Eq, axtype.Ne, axtype.Lt, axtype.Le, axtype.Gt, axtype.Ge, axtype.LogicalAnd, axtype.LogicalOr:
		return true
	}
	return false
}

func (r *Resolver) resolveFunctionCall(f *ast.FunctionCall) {
	argTypes := make([]axtype.Type, len(f.Args))
	for i, a := range f.Args {
		r.resolveExpr(a)
		argTypes[i] = a.Type()
	}
	sig, err := r.Funcs.Resolve(f.Name, argTypes)
	if err != nil {
		r.Diagnostics.Error(err)
		f.SetType(axtype.Scalar(axtype.Invalid))
		return
	}
	f.Resolved = sig
	f.SetType(sig.Return)
}

func (r *Resolver) resolveVectorPack(v *ast.VectorPack) {
	if len(v.Elems) != 3 && len(v.Elems) != 4 {
		r.Diagnostics.Errorf("vector literal must have 3 or 4 elements, got %d", len(v.Elems))
	}
	common := axtype.Bool
	for i, e := range v.Elems {
		r.resolveExpr(e)
		if !e.Type().IsScalar() {
			r.Diagnostics.Errorf("vector literal elements must be scalar, got %s", e.Type())
			continue
		}
		if i == 0 {
			common = e.Type().Elem
			continue
		}
		p, err := axtype.Precedence(common, e.Type().Elem)
		if err != nil {
			r.Diagnostics.Error(err)
			continue
		}
		common = p
	}
	v.SetType(axtype.Array(common, len(v.Elems)))
}

// markAttrAccess records e's attribute reference (if e is an
// AttributeValue) in the attribute registry with the given access
// pattern.
func (r *Resolver) markAttrAccess(e ast.Expr, access ast.AttrAccess) {
	av, ok := e.(*ast.AttributeValue)
	if !ok {
		return
	}
	if _, err := r.Attrs.Reference(av.Name, av.Type(), access); err != nil {
		r.Diagnostics.Error(err)
	}
}

func literalType(l *ast.Literal) axtype.Type {
	switch l.Kind {
	case ast.BoolLit:
		return axtype.Scalar(axtype.Bool)
	case ast.StringLit:
		return axtype.Scalar(axtype.String)
	case ast.IntLit:
		raw := strings.TrimSpace(l.Raw)
		if strings.HasSuffix(raw, "L") || strings.HasSuffix(raw, "l") {
			return axtype.Scalar(axtype.Int64)
		}
		return axtype.Scalar(axtype.Int32)
	case ast.FloatLit:
		raw := strings.TrimSpace(l.Raw)
		if strings.HasSuffix(raw, "f") || strings.HasSuffix(raw, "F") {
			return axtype.Scalar(axtype.Float32)
		}
		return axtype.Scalar(axtype.Float64)
	}
	return axtype.Scalar(axtype.Invalid)
}

// attrTagType maps an attribute reference's syntactic prefix to its
// AX type: bare `@name` defaults to f32.
func attrTagType(tag string) axtype.Type {
	switch tag {
	case "", "f":
		return axtype.Scalar(axtype.Float32)
	case "i":
		return axtype.Scalar(axtype.Int32)
	case "v":
		return axtype.Array(axtype.Float32, 3)
	case "s":
		return axtype.Scalar(axtype.String)
	case "mat4":
		return axtype.Mat4()
	}
	return axtype.Scalar(axtype.Invalid)
}

// literalValue parses a Literal's raw text into a runtime value,
// matching the type literalType assigned it. Used by the expression
// lowerer (expr.go) to emit constants.
func literalValue(l *ast.Literal) (axtype.Value, error) {
	typ := literalType(l)
	raw := strings.TrimRight(strings.TrimSpace(l.Raw), "fFlL")
	switch l.Kind {
	case ast.BoolLit:
		return axtype.BoolValue(l.Raw == "true"), nil
	case ast.StringLit:
		return axtype.StringValue(strings.Trim(l.Raw, `"`)), nil
	case ast.IntLit:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return axtype.Value{}, err
		}
		return axtype.Int(typ.Elem, n), nil
	case ast.FloatLit:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return axtype.Value{}, err
		}
		return axtype.Float(typ.Elem, f), nil
	}
	return axtype.Value{}, nil
}
