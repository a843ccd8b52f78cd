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
	"testing"

	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/axtype"
	"github.com/vdbax/ax/function"
	"github.com/vdbax/ax/internal/jit"
	"github.com/vdbax/ax/symtab"
)

func pos() ast.Pos { return ast.Pos{Line: 1, Column: 1} }

func lit(kind ast.LiteralKind, raw string) *ast.Literal { return ast.NewLiteral(pos(), kind, raw) }

func runBody(t *testing.T, body *ast.Block, allowImplicit bool) (*jit.Frame, error) {
	t.Helper()
	attrs := symtab.NewRegistry()
	result, diags, err := Generate(body, attrs, function.Builtins(), allowImplicit)
	if err != nil {
		t.Fatalf("Generate failed: %v (diags: %v)", err, diags.Err())
	}
	mod := jit.BuildModule(jit.Entry(result.Body), result.ExternalSymbols)
	if err := mod.Resolve(jit.DefaultExternals()); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	f := jit.NewFrame(result.NumLocals, nil, map[string]int{}, nil, mod)
	if err := mod.Entry(f); err != nil {
		return nil, err
	}
	return f, nil
}

func TestGenerate_ArithmeticAndLocals(t *testing.T) {
	// int32 x = 2; int32 y = 3; x = x + y * 2;
	declX := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Int32), "x", lit(ast.IntLit, "2"))
	declY := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Int32), "y", lit(ast.IntLit, "3"))
	mul := ast.NewBinaryOp(pos(), axtype.Mul, ast.NewLocalValue(pos(), "y"), lit(ast.IntLit, "2"))
	add := ast.NewBinaryOp(pos(), axtype.Add, ast.NewLocalValue(pos(), "x"), mul)
	assign := ast.NewAssign(pos(), ast.NewLocalValue(pos(), "x"), ast.PlainAssign, add)
	body := ast.NewBlock(pos(), []ast.Stmt{declX, declY, assign})

	f, err := runBody(t, body, false)
	if err != nil {
		t.Fatalf("entry failed: %v", err)
	}
	if got := f.Locals[0].I; got != 8 {
		t.Errorf("x = %d, want 8", got)
	}
}

func TestGenerate_LoopAccumulatesSum(t *testing.T) {
	// int32 sum = 0; for (int32 i = 0; i < 5; i++) sum += i;
	declSum := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Int32), "sum", lit(ast.IntLit, "0"))
	declI := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Int32), "i", lit(ast.IntLit, "0"))
	cond := ast.NewBinaryOp(pos(), axtype.Lt, ast.NewLocalValue(pos(), "i"), lit(ast.IntLit, "5"))
	step := ast.NewExprStmt(pos(), ast.NewCrement(pos(), ast.NewLocalValue(pos(), "i"), false, true))
	addSum := ast.NewAssign(pos(), ast.NewLocalValue(pos(), "sum"), ast.AddAssign, ast.NewLocalValue(pos(), "i"))
	loopBody := ast.NewBlock(pos(), []ast.Stmt{addSum})
	loop := ast.NewLoop(pos(), ast.ForLoop, declI, cond, step, loopBody)
	body := ast.NewBlock(pos(), []ast.Stmt{declSum, loop})

	f, err := runBody(t, body, false)
	if err != nil {
		t.Fatalf("entry failed: %v", err)
	}
	if got := f.Locals[0].I; got != 10 {
		t.Errorf("sum = %d, want 10 (0+1+2+3+4)", got)
	}
}

func TestGenerate_ImplicitFloatToIntRejectedByDefault(t *testing.T) {
	decl := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Int32), "x", lit(ast.FloatLit, "1.5"))
	body := ast.NewBlock(pos(), []ast.Stmt{decl})

	attrs := symtab.NewRegistry()
	_, diags, err := Generate(body, attrs, function.Builtins(), false)
	if err == nil {
		t.Fatalf("expected a type error for implicit float->int assignment, got none (diags=%v)", diags.Err())
	}
}

func TestGenerate_ImplicitFloatToIntAllowedWithFlag(t *testing.T) {
	decl := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Int32), "x", lit(ast.FloatLit, "1.5"))
	body := ast.NewBlock(pos(), []ast.Stmt{decl})

	f, err := runBody(t, body, true)
	if err != nil {
		t.Fatalf("entry failed: %v", err)
	}
	if got := f.Locals[0].I; got != 1 {
		t.Errorf("x = %d, want 1 (truncated from 1.5)", got)
	}
}

func TestGenerate_ExplicitCastAlwaysAllowed(t *testing.T) {
	cast := ast.NewCast(pos(), axtype.Scalar(axtype.Int32), lit(ast.FloatLit, "3.9"))
	decl := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Int32), "x", cast)
	body := ast.NewBlock(pos(), []ast.Stmt{decl})

	f, err := runBody(t, body, false)
	if err != nil {
		t.Fatalf("entry failed: %v", err)
	}
	if got := f.Locals[0].I; got != 3 {
		t.Errorf("x = %d, want 3", got)
	}
}

func TestGenerate_ExternalSymbolsCollected(t *testing.T) {
	call := ast.NewFunctionCall(pos(), "sqrt", []ast.Expr{lit(ast.FloatLit, "9.0")})
	decl := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Float64), "x", call)
	body := ast.NewBlock(pos(), []ast.Stmt{decl})

	attrs := symtab.NewRegistry()
	result, diags, err := Generate(body, attrs, function.Builtins(), false)
	if err != nil {
		t.Fatalf("Generate failed: %v (%v)", err, diags.Err())
	}
	if len(result.ExternalSymbols) != 1 || result.ExternalSymbols[0] != "ax.math.sqrt.f64" {
		t.Errorf("ExternalSymbols = %v, want [ax.math.sqrt.f64]", result.ExternalSymbols)
	}
}

func TestGenerate_BreakExitsLoop(t *testing.T) {
	// int32 i = 0; while (true) { if (i == 3) break; i++; }
	declI := ast.NewDeclareLocal(pos(), axtype.Scalar(axtype.Int32), "i", lit(ast.IntLit, "0"))
	eq := ast.NewBinaryOp(pos(), axtype.Eq, ast.NewLocalValue(pos(), "i"), lit(ast.IntLit, "3"))
	brk := ast.NewBlock(pos(), []ast.Stmt{ast.NewKeyword(pos(), ast.BreakKeyword)})
	ifBreak := ast.NewConditional(pos(), eq, brk, nil)
	incr := ast.NewExprStmt(pos(), ast.NewCrement(pos(), ast.NewLocalValue(pos(), "i"), false, true))
	loopBody := ast.NewBlock(pos(), []ast.Stmt{ifBreak, incr})
	loop := ast.NewLoop(pos(), ast.WhileLoop, nil, lit(ast.BoolLit, "true"), nil, loopBody)
	body := ast.NewBlock(pos(), []ast.Stmt{declI, loop})

	f, err := runBody(t, body, false)
	if err != nil {
		t.Fatalf("entry failed: %v", err)
	}
	if got := f.Locals[0].I; got != 3 {
		t.Errorf("i = %d, want 3", got)
	}
}

func TestGenerate_AttributeReadWrite(t *testing.T) {
	// @out = @in * 2.0;
	in := ast.NewAttributeValue(pos(), "in", "")
	out := ast.NewAttributeValue(pos(), "out", "")
	mul := ast.NewBinaryOp(pos(), axtype.Mul, in, lit(ast.FloatLit, "2.0"))
	assign := ast.NewAssign(pos(), out, ast.PlainAssign, mul)
	body := ast.NewBlock(pos(), []ast.Stmt{assign})

	attrs := symtab.NewRegistry()
	result, diags, err := Generate(body, attrs, function.Builtins(), false)
	if err != nil {
		t.Fatalf("Generate failed: %v (%v)", err, diags.Err())
	}
	attrs.Freeze()
	if got := len(attrs.Attributes()); got != 2 {
		t.Fatalf("len(Attributes()) = %d, want 2", got)
	}

	inSlot := &fakeSlot{v: axtype.Float(axtype.Float32, 4)}
	outSlot := &fakeSlot{}
	idx := map[string]int{}
	for _, a := range attrs.Attributes() {
		idx[a.Name] = a.Index
	}
	slots := make([]jit.AttrSlot, 2)
	slots[idx["in"]] = inSlot
	slots[idx["out"]] = outSlot

	mod := jit.BuildModule(jit.Entry(result.Body), result.ExternalSymbols)
	if err := mod.Resolve(jit.DefaultExternals()); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	frame := jit.NewFrame(result.NumLocals, slots, idx, nil, mod)
	if err := mod.Entry(frame); err != nil {
		t.Fatalf("entry failed: %v", err)
	}
	if got := outSlot.v.F; got != 8 {
		t.Errorf("@out = %v, want 8", got)
	}
}

type fakeSlot struct{ v axtype.Value }

func (s *fakeSlot) Get() axtype.Value  { return s.v }
func (s *fakeSlot) Set(v axtype.Value) { s.v = v }
