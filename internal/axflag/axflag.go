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

// Package axflag provides flag types for the ax command-line tools.
package axflag

import (
	"flag"
	"strings"

	"github.com/pkg/errors"
)

type stringList struct {
	list *[]string
}

func (sl *stringList) String() string { return "" }

func (sl *stringList) Set(values string) error {
	for _, value := range strings.Split(values, ",") {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		*sl.list = append(*sl.list, value)
	}
	return nil
}

// StringList returns a flag to pass a comma-separated list of strings
// from the command line. Each use of the flag appends to the list.
func StringList(name, doc string) *[]string {
	var list []string
	sList := stringList{&list}
	flag.Var(&sList, name, doc)
	return sList.list
}

// target is a flag.Value over the two code-generation targets.
type target struct{ value *string }

func (t *target) String() string { return *t.value }

func (t *target) Set(v string) error {
	switch v {
	case "volume", "point":
		*t.value = v
		return nil
	}
	return errors.Errorf(`invalid target %q, want "volume" or "point"`, v)
}

// Target returns a flag restricted to the "volume"/"point" values
// compiler.Options.Target accepts.
func Target(name, defaultValue, doc string) *string {
	v := defaultValue
	flag.Var(&target{value: &v}, name, doc)
	return &v
}
