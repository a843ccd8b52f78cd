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

package exec

import (
	"context"
	"sort"
	"testing"

	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/axtype"
	"github.com/vdbax/ax/codegen/point"
	"github.com/vdbax/ax/function"
)

// scaleAttrBody builds `@mass = @mass * 3.0;`.
func scaleAttrBody() *ast.Block {
	attr := ast.NewAttributeValue(pos(), "mass", "")
	mul := ast.NewBinaryOp(pos(), axtype.Mul, attr, ast.NewLiteral(pos(), ast.FloatLit, "3.0"))
	assign := ast.NewAssign(pos(), ast.NewAttributeValue(pos(), "mass", ""), ast.PlainAssign, mul)
	return ast.NewBlock(pos(), []ast.Stmt{assign})
}

func TestPointExecutable_ScalesAttributeAcrossLeaves(t *testing.T) {
	prog, diags, err := point.Compile(scaleAttrBody(), function.Builtins(), false)
	if err != nil {
		t.Fatalf("Compile failed: %v (%v)", err, diags.Err())
	}
	exe, err := NewPointExecutable(prog, nil)
	if err != nil {
		t.Fatalf("NewPointExecutable failed: %v", err)
	}

	grid := NewPointGrid()
	grid.Background["mass"] = axtype.Float(axtype.Float32, 0)
	leafA := grid.AddLeaf(2)
	grid.SetValue(leafA, "mass", 0, axtype.Float(axtype.Float32, 1))
	grid.SetValue(leafA, "mass", 1, axtype.Float(axtype.Float32, 2))
	leafB := grid.AddLeaf(1)
	grid.SetValue(leafB, "mass", 0, axtype.Float(axtype.Float32, 5))

	report, err := exe.Execute(context.Background(), grid)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(report.NewGroups) != 0 || len(report.NewStrings) != 0 {
		t.Errorf("unexpected report for a kernel that touches no groups: %+v", report)
	}

	wantA := []float64{3, 6}
	for i, want := range wantA {
		if got := leafA.Attrs["mass"][i].F; got != want {
			t.Errorf("leafA mass[%d] = %v, want %v", i, got, want)
		}
	}
	if got := leafB.Attrs["mass"][0].F; got != 15 {
		t.Errorf("leafB mass[0] = %v, want 15", got)
	}
}

// groupBody builds `if (@mass > 3.0) addtogroup("heavy");`.
func groupBody() *ast.Block {
	attr := ast.NewAttributeValue(pos(), "mass", "")
	cond := ast.NewBinaryOp(pos(), axtype.Gt, attr, ast.NewLiteral(pos(), ast.FloatLit, "3.0"))
	call := ast.NewExprStmt(pos(), ast.NewFunctionCall(pos(), "addtogroup", []ast.Expr{
		ast.NewLiteral(pos(), ast.StringLit, "heavy"),
	}))
	then := ast.NewBlock(pos(), []ast.Stmt{call})
	ifStmt := ast.NewConditional(pos(), cond, then, nil)
	return ast.NewBlock(pos(), []ast.Stmt{ifStmt})
}

func TestPointExecutable_GroupMembershipAndReport(t *testing.T) {
	prog, diags, err := point.Compile(groupBody(), function.Builtins(), false)
	if err != nil {
		t.Fatalf("Compile failed: %v (%v)", err, diags.Err())
	}
	exe, err := NewPointExecutable(prog, nil)
	if err != nil {
		t.Fatalf("NewPointExecutable failed: %v", err)
	}

	grid := NewPointGrid()
	grid.Background["mass"] = axtype.Float(axtype.Float32, 0)
	leaf := grid.AddLeaf(3)
	grid.SetValue(leaf, "mass", 0, axtype.Float(axtype.Float32, 1))
	grid.SetValue(leaf, "mass", 1, axtype.Float(axtype.Float32, 4))
	grid.SetValue(leaf, "mass", 2, axtype.Float(axtype.Float32, 10))

	report, err := exe.Execute(context.Background(), grid)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	sort.Strings(report.NewGroups)
	if len(report.NewGroups) != 1 || report.NewGroups[0] != "heavy" {
		t.Errorf("NewGroups = %v, want exactly [heavy]", report.NewGroups)
	}

	bits, ok := leaf.Groups["heavy"]
	if !ok {
		t.Fatal("leaf has no \"heavy\" group bitset")
	}
	want := []bool{false, true, true}
	for i, w := range want {
		if bits[i] != w {
			t.Errorf("heavy[%d] = %v, want %v", i, bits[i], w)
		}
	}
}
