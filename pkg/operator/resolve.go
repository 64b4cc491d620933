// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package operator

import (
	"fmt"

	"github.com/zeek/spicy-sub007/pkg/ast"
	"github.com/zeek/spicy-sub007/pkg/types"
)

// Error reports an UnresolvedOperatorExpr that could not be bound: either no
// candidate's operands all coerced, or more than one equally-ranked
// candidate did.
type Error struct {
	Kind      ast.OperatorKind
	Name      string
	Ambiguous bool
}

func (e *Error) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("ambiguous operator %q", e.Name)
	}

	return fmt.Sprintf("no matching operator %q", e.Name)
}

// match is one candidate that survived coercion, paired with its coerced
// operand list so the winner doesn't need to be re-coerced.
type match struct {
	op       *Operator
	operands []ast.Expr
}

// Resolve implements §4.4's resolution algorithm: for the given unresolved
// operator occurrence, enumerate candidates by kind/name, attempt to coerce
// every operand against each candidate's formal operand types under style,
// accept the surviving candidate with the highest Priority, and construct a
// ResolvedOperatorExpr from it. style governs how permissive the per-operand
// coercion is (strict for overload disambiguation among several candidates,
// permissive for a direct, unambiguous call per §4.4).
func Resolve(r *Registry, u *ast.UnresolvedOperatorExpr, style types.Style) (*ast.ResolvedOperatorExpr, error) {
	candidates := r.candidates(u.Kind, u.Name)

	var matches []match

	for _, op := range candidates {
		if len(u.Operands) < op.MinArity || len(u.Operands) > op.MaxArity {
			continue
		}

		coerced, ok := coerceAll(op, u.Operands, style)
		if !ok {
			continue
		}

		matches = append(matches, match{op, coerced})
	}

	if len(matches) == 0 {
		return nil, &Error{Kind: u.Kind, Name: u.Name}
	}

	best := bestMatches(matches)
	if len(best) > 1 {
		return nil, &Error{Kind: u.Kind, Name: u.Name, Ambiguous: true}
	}

	winner := best[0]
	result := winner.op.Result(winner.operands)

	return ast.NewResolvedOperatorExpr(winner.op.id, u.Kind, winner.operands, result), nil
}

// coerceAll attempts op's per-position OperandRule against every operand in
// orig (the original, unresolved operand list -- rules may read sibling
// operands' already-settled types, e.g. "same type as operand 0"),
// returning the coerced operand list and whether every position succeeded.
func coerceAll(op *Operator, orig []ast.Expr, style types.Style) ([]ast.Expr, bool) {
	coerced := make([]ast.Expr, len(orig))

	for i, operand := range orig {
		var rule OperandRule
		if i < len(op.Operands) {
			rule = op.Operands[i]
		}

		if rule == nil {
			coerced[i] = operand
			continue
		}

		formal, ok := rule(orig)
		if !ok {
			return nil, false
		}

		if formal == nil {
			coerced[i] = operand
			continue
		}

		out, err := types.Coerce(operand, formal, style)
		if err != nil {
			return nil, false
		}

		coerced[i] = out
	}

	return coerced, true
}

// bestMatches returns every match sharing the highest Priority among
// matches (§4.4 step 3: "if multiple candidates remain after priority
// sorting, flag ambiguity").
func bestMatches(matches []match) []match {
	top := matches[0].op.Priority
	for _, m := range matches[1:] {
		if m.op.Priority > top {
			top = m.op.Priority
		}
	}

	var best []match

	for _, m := range matches {
		if m.op.Priority == top {
			best = append(best, m)
		}
	}

	return best
}
