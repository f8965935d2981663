// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package benchmark runs the filtered benchmark jobs of the test stage. Each
// job pulls the built image onto GPU-tagged compute, materializes a
// cloud-auth credential file and executes the benchmark suite subset selected
// by its filter expression.
package benchmark

import (
	"fmt"
	"regexp"
	"strings"
)

// filter expressions are pytest -k style: name patterns combined with
// "and", "or", "not" and parentheses.
var filterTokenRe = regexp.MustCompile(`^[A-Za-z0-9_.\-\[\]]+$`)

var filterOperators = map[string]bool{
	"and": true,
	"or":  true,
	"not": true,
}

// ValidateFilter checks that a filter expression is non-empty and
// syntactically valid for the suite's test-selection mechanism.
func ValidateFilter(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return fmt.Errorf("filter expression must not be empty")
	}

	spaced := strings.NewReplacer("(", " ( ", ")", " ) ").Replace(expr)
	tokens := strings.Fields(spaced)

	depth := 0
	names := 0
	for _, tok := range tokens {
		switch {
		case tok == "(":
			depth++
		case tok == ")":
			depth--
			if depth < 0 {
				return fmt.Errorf("filter expression %q has unbalanced parentheses", expr)
			}
		case filterOperators[tok]:
		case filterTokenRe.MatchString(tok):
			names++
		default:
			return fmt.Errorf("filter expression %q contains invalid token %q", expr, tok)
		}
	}
	if depth != 0 {
		return fmt.Errorf("filter expression %q has unbalanced parentheses", expr)
	}
	if names == 0 {
		return fmt.Errorf("filter expression %q selects no test names", expr)
	}

	last := tokens[len(tokens)-1]
	if filterOperators[last] {
		return fmt.Errorf("filter expression %q ends with operator %q", expr, last)
	}
	return nil
}
