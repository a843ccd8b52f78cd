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
	"math"

	"github.com/pkg/errors"

	"github.com/vdbax/ax/axtype"
)

// FunctionLookupError reports that no signature in a group matches a
// call site.
type FunctionLookupError struct {
	Name string
	Args []axtype.Type
}

func (e *FunctionLookupError) Error() string {
	return errors.Errorf("no overload of %q matches argument types %v", e.Name, e.Args).Error()
}

// AmbiguousOverloadError reports that two or more signatures with
// identical parameter types tied for the best cost vector and sum,
// with no way to pick a unique best match.
type AmbiguousOverloadError struct {
	Name string
	Args []axtype.Type
}

func (e *AmbiguousOverloadError) Error() string {
	return errors.Errorf("call to %q with argument types %v is ambiguous between multiple overloads", e.Name, e.Args).Error()
}

const infCost = math.MaxInt32

// paramCost scores how well one argument type matches one parameter
// type: 0 for an exact match, rising with how much implicit
// conversion the match requires, or infCost if no conversion exists.
func paramCost(arg, param axtype.Type) int {
	if arg.Equal(param) {
		return 0
	}
	if arg.Length != param.Length {
		return infCost
	}
	if !arg.Elem.IsScalar() || !param.Elem.IsScalar() {
		return infCost
	}
	a, p := arg.Elem, param.Elem
	switch {
	case a.IsInteger() && p.IsInteger():
		if rank(p) > rank(a) {
			return 1 // lossless widening within the integer family
		}
		return 3 // narrowing
	case a.IsFloat() && p.IsFloat():
		if rank(p) > rank(a) {
			return 1
		}
		return 3
	case a.IsInteger() && p.IsFloat():
		return 2 // crosses the int->float boundary upward
	case a.IsFloat() && p.IsInteger():
		return 3 // float->int is always narrowing
	}
	return infCost
}

func rank(k axtype.Kind) int {
	switch k {
	case axtype.Bool:
		return 0
	case axtype.Int16:
		return 1
	case axtype.Int32:
		return 2
	case axtype.Int64:
		return 3
	case axtype.Float32:
		return 4
	case axtype.Float64:
		return 5
	}
	return -1
}

// costVector scores every parameter of sig against args, or reports
// ok=false if any one parameter has no valid conversion (the whole
// signature is then not a candidate).
func costVector(sig Signature, args []axtype.Type) ([]int, bool) {
	if len(sig.Params) != len(args) {
		return nil, false
	}
	costs := make([]int, len(args))
	for i, p := range sig.Params {
		c := paramCost(args[i], p.Type)
		if c == infCost {
			return nil, false
		}
		costs[i] = c
	}
	return costs, true
}

// lessCost orders two cost vectors: smaller element wins at the first
// index where they differ, and if every element matches, smaller
// sum(cᵢ) wins. It never looks at declaration order, so two
// signatures that score identically on every element compare equal
// (0); Resolve then breaks the tie by declaration order.
func lessCost(aCosts, bCosts []int) int {
	for i := range aCosts {
		if aCosts[i] != bCosts[i] {
			if aCosts[i] < bCosts[i] {
				return -1
			}
			return 1
		}
	}
	aSum, bSum := sum(aCosts), sum(bCosts)
	if aSum != bSum {
		if aSum < bSum {
			return -1
		}
		return 1
	}
	return 0
}

func sum(costs []int) int {
	total := 0
	for _, c := range costs {
		total += c
	}
	return total
}

// Resolve picks the best-matching signature in group for a call with
// the given argument types: candidates are filtered to those with a
// valid (non-infinite) cost for every parameter, then ordered by
// lessCost. Among best-scoring candidates that tie on cost vector and
// sum, the one declared first wins; the call is ambiguous, and
// Resolve reports an error, only when two of the tied candidates have
// identical parameter types.
// Resolve is a pure function of (args, group.Signatures): the same
// inputs always pick the same signature.
func Resolve(group *Group, args []axtype.Type) (Signature, error) {
	type candidate struct {
		sig   Signature
		costs []int
	}
	var candidates []candidate
	for _, sig := range group.Signatures {
		if len(sig.Params) != len(args) {
			continue
		}
		costs, ok := costVector(sig, args)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{sig: sig, costs: costs})
	}
	if len(candidates) == 0 {
		return Signature{}, &FunctionLookupError{Name: group.Name, Args: args}
	}
	best := candidates[0]
	ties := []candidate{best}
	for _, c := range candidates[1:] {
		cmp := lessCost(c.costs, best.costs)
		switch {
		case cmp < 0:
			best = c
			ties = []candidate{best}
		case cmp == 0:
			ties = append(ties, c)
		}
	}
	// best is the first tied candidate in group.Signatures order. A
	// tie is ambiguous only if another tied candidate has exactly the
	// same parameter types, leaving declaration order as the sole
	// difference between them.
	for _, c := range ties[1:] {
		same := true
		for i, p := range c.sig.Params {
			if !p.Type.Equal(best.sig.Params[i].Type) {
				same = false
				break
			}
		}
		if same {
			return Signature{}, &AmbiguousOverloadError{Name: group.Name, Args: args}
		}
	}
	return best.sig, nil
}
