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

import (
	"strings"
	"testing"

	"github.com/vdbax/ax/axtype"
)

func TestPrintBinaryOp(t *testing.T) {
	density := NewAttributeValue(Pos{}, "density", "f")
	one := NewLiteral(Pos{}, FloatLit, "1.0f")
	add := NewBinaryOp(Pos{}, axtype.Add, density, one)
	got := Print(add)
	want := "(f@density + 1.0f)"
	if got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestWalkVisitsAllChildren(t *testing.T) {
	a := NewAttributeValue(Pos{}, "a", "f")
	b := NewLiteral(Pos{}, FloatLit, "2.0f")
	bin := NewBinaryOp(Pos{}, axtype.Add, a, b)
	assign := NewAssign(Pos{}, a, PlainAssign, bin)
	block := NewBlock(Pos{}, []Stmt{assign})

	var visited []string
	Walk(VisitorFunc(func(n Node) bool {
		visited = append(visited, typeName(n))
		return true
	}), block)

	joined := strings.Join(visited, ",")
	if !strings.Contains(joined, "Block") || !strings.Contains(joined, "Assign") || !strings.Contains(joined, "BinaryOp") {
		t.Errorf("Walk did not visit expected node kinds: %s", joined)
	}
}

func typeName(n Node) string {
	switch n.(type) {
	case *Block:
		return "Block"
	case *Assign:
		return "Assign"
	case *BinaryOp:
		return "BinaryOp"
	case *AttributeValue:
		return "AttributeValue"
	case *Literal:
		return "Literal"
	default:
		return "Other"
	}
}
