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

// Command axc is a small diagnostic front end over the ax compiler
// library. AST construction is the caller's job, so axc's job is
// inspecting what a given compilation would resolve against rather
// than accepting source text directly.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/vdbax/ax/compiler"
	"github.com/vdbax/ax/function"
	"github.com/vdbax/ax/internal/axflag"
)

var (
	target       = axflag.Target("target", "volume", "code-generation target: volume or point")
	listBuiltins = flag.Bool("list_builtins", false, "print the built-in function catalogue and exit")
	warnAsError  = flag.Bool("warn_as_error", false, "promote narrowing/implicit-cast warnings to compile errors")
)

func main() {
	flag.Parse()
	if *listBuiltins {
		printBuiltins()
		return
	}
	t := compiler.VolumeTarget
	if *target == "point" {
		t = compiler.PointTarget
	}
	opts := compiler.Options{Target: t, WarnAsError: *warnAsError}
	fmt.Fprintf(os.Stderr, "axc: no AST source supplied; pass -list_builtins to inspect the function catalogue\n")
	fmt.Fprintf(os.Stderr, "axc: would compile against target %s (warn_as_error=%v)\n", opts.Target, opts.WarnAsError)
	os.Exit(2)
}

func printBuiltins() {
	groups := function.Builtins().Groups()
	names := make([]string, len(groups))
	byName := make(map[string]*function.Group, len(groups))
	for i, g := range groups {
		names[i] = g.Name
		byName[g.Name] = g
	}
	sort.Strings(names)
	for _, name := range names {
		g := byName[name]
		for _, sig := range g.Signatures {
			kind := "inline"
			if sig.External {
				kind = sig.Symbol
			}
			fmt.Printf("%s(%s) -> %s [%s]\n", name, paramString(sig), sig.Return, kind)
		}
	}
}

func paramString(sig function.Signature) string {
	s := ""
	for i, p := range sig.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Type.String()
	}
	return s
}
