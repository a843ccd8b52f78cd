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

package function

import (
	"testing"

	"github.com/vdbax/ax/axtype"
)

// TestFooOverloadExample checks that foo(int, int) called against
// candidates {(float,int), (double,int)} picks the float overload:
// int->float32 and int->float64 cost the same, so both score (2, 0)
// and the tie goes to the earlier-declared (float,int) overload.
func TestFooOverloadExample(t *testing.T) {
	group := &Group{Name: "foo", Signatures: []Signature{
		{Return: f32(), Params: []ParamMode{param(f32()), param(i32())}, Declared: 0},
		{Return: f64(), Params: []ParamMode{param(f64()), param(i32())}, Declared: 1},
	}}
	got, err := Resolve(group, []axtype.Type{i32(), i32()})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.Return.Equal(f32()) {
		t.Errorf("got return type %s, want f32 (the (float,int) overload)", got.Return)
	}
}

func TestResolveRejectsWrongArity(t *testing.T) {
	group := &Group{Name: "f", Signatures: []Signature{
		{Params: []ParamMode{param(f32())}},
	}}
	if _, err := Resolve(group, []axtype.Type{f32(), f32()}); err == nil {
		t.Errorf("expected FunctionLookupError for arity mismatch")
	}
}

func TestResolveRejectsImpossibleConversion(t *testing.T) {
	group := &Group{Name: "f", Signatures: []Signature{
		{Params: []ParamMode{param(strT())}},
	}}
	_, err := Resolve(group, []axtype.Type{f32()})
	if err == nil {
		t.Fatalf("expected no match for f32 -> string")
	}
	if _, ok := err.(*FunctionLookupError); !ok {
		t.Errorf("got %T, want *FunctionLookupError", err)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	group := &Group{Name: "f", Signatures: []Signature{
		{Params: []ParamMode{param(f32())}, Declared: 0},
		{Params: []ParamMode{param(f64())}, Declared: 1},
	}}
	args := []axtype.Type{i32()}
	first, err := Resolve(group, args)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Resolve(group, args)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if again.Declared != first.Declared {
			t.Errorf("Resolve is not deterministic: got %d then %d", first.Declared, again.Declared)
		}
	}
}

func TestResolveRejectsAmbiguousOverload(t *testing.T) {
	// Two signatures with identical parameter types score an
	// identical cost vector against any call site, so neither can
	// legitimately win over the other.
	group := &Group{Name: "f", Signatures: []Signature{
		{Params: []ParamMode{param(f32()), param(i32())}, Declared: 0},
		{Params: []ParamMode{param(f32()), param(i32())}, Declared: 1},
	}}
	_, err := Resolve(group, []axtype.Type{i32(), i32()})
	if err == nil {
		t.Fatalf("expected AmbiguousOverloadError, got a resolved signature")
	}
	if _, ok := err.(*AmbiguousOverloadError); !ok {
		t.Errorf("got %T, want *AmbiguousOverloadError", err)
	}
}

func TestBuiltinsResolveSinF32(t *testing.T) {
	reg := Builtins()
	sig, err := reg.Resolve("sin", []axtype.Type{f32()})
	if err != nil {
		t.Fatalf("Resolve(sin): %v", err)
	}
	if !sig.External || sig.Symbol != "ax.math.sin.f32" {
		t.Errorf("got %+v, want the external f32 sin symbol", sig)
	}
}
