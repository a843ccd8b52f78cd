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

package symtab

import (
	"testing"

	"github.com/vdbax/ax/ast"
	"github.com/vdbax/ax/axtype"
)

func TestLookupInnermostWins(t *testing.T) {
	tab := New()
	if _, err := tab.Declare("x", axtype.Scalar(axtype.Int32)); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	tab.Push()
	if _, err := tab.Declare("x", axtype.Scalar(axtype.Float32)); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	sym, ok := tab.Lookup("x")
	if !ok || sym.Type.Elem != axtype.Float32 {
		t.Errorf("expected innermost x to shadow outer, got %+v ok=%v", sym, ok)
	}
	tab.Pop()
	sym, ok = tab.Lookup("x")
	if !ok || sym.Type.Elem != axtype.Int32 {
		t.Errorf("expected outer x after pop, got %+v ok=%v", sym, ok)
	}
}

func TestDeclareRedeclarationFails(t *testing.T) {
	tab := New()
	if _, err := tab.Declare("x", axtype.Scalar(axtype.Int32)); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if _, err := tab.Declare("x", axtype.Scalar(axtype.Int32)); err == nil {
		t.Errorf("expected redeclaration in the same scope to fail")
	}
}

func TestRegistryConflictingTypeFails(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Reference("density", axtype.Scalar(axtype.Float32), ast.Read); err != nil {
		t.Fatalf("Reference: %v", err)
	}
	if _, err := reg.Reference("density", axtype.Scalar(axtype.Int32), ast.Read); err == nil {
		t.Errorf("expected a type conflict error for @density vs i@density")
	}
}

func TestRegistryMergesAccess(t *testing.T) {
	reg := NewRegistry()
	attr, err := reg.Reference("density", axtype.Scalar(axtype.Float32), ast.Read)
	if err != nil {
		t.Fatalf("Reference: %v", err)
	}
	attr2, err := reg.Reference("density", axtype.Scalar(axtype.Float32), ast.Write)
	if err != nil {
		t.Fatalf("Reference: %v", err)
	}
	if attr2.Access != ast.ReadWrite {
		t.Errorf("got access %v, want ReadWrite", attr2.Access)
	}
	if attr != attr2 {
		t.Errorf("expected the same Attribute pointer to be returned and updated in place")
	}
}

func TestRegistryStableOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"c", "a", "b"}
	for _, n := range names {
		if _, err := reg.Reference(n, axtype.Scalar(axtype.Float32), ast.Read); err != nil {
			t.Fatalf("Reference: %v", err)
		}
	}
	attrs := reg.Attributes()
	for i, n := range names {
		if attrs[i].Name != n || attrs[i].Index != i {
			t.Errorf("attrs[%d] = %+v, want name %s index %d", i, attrs[i], n, i)
		}
	}
}

func TestRegistryFreezeRejectsFurtherReferences(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()
	if _, err := reg.Reference("density", axtype.Scalar(axtype.Float32), ast.Read); err == nil {
		t.Errorf("expected Reference to fail once frozen")
	}
}
