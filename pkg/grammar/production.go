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

// Package grammar turns a unit declaration into an LL(1)-style parse table:
// production variants, nullable/first/follow computation, and look-ahead
// assignment for branch points (§4.6).
package grammar

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/zeek/spicy-sub007/pkg/ast"
)

// Kind identifies a production variant (§4.6 "Production variants").
type Kind uint

// The production variants named by the spec.
const (
	KindLiteral Kind = iota
	KindSequence
	KindAlternative
	KindLookAhead
	KindWhile
	KindResolved
	KindUnit
	KindVariable
	KindBlock
)

// Branch is one arm of an Alternative or LookAhead production. Guard is the
// arm's boolean selector expression; it is nil for a LookAhead arm (selected
// by consulting the look-ahead set instead) and for a catch-all `*` arm.
type Branch struct {
	Guard ast.Expr
	Body  *Production
}

// Production is one node of a unit's derived grammar.
type Production struct {
	Kind Kind

	// Literal
	field    *ast.FieldDecl
	termForm string

	// Sequence / Block
	Elements  []*Production
	BlockCond ast.Expr

	// Alternative / LookAhead
	Branches []Branch

	// While
	Body  *Production
	Until ast.Expr
	While ast.Expr
	EOD   bool

	// Resolved
	Label  string
	Target *Production

	// Unit
	UnitType string

	// Variable
	VarField *ast.FieldDecl

	// analysis state, populated by Analyze
	nullable       bool
	nullableKnown  bool
	first          *bitset.BitSet
	follow         *bitset.BitSet
	la             []*bitset.BitSet // parallel to Branches, KindLookAhead only
}

// NewLiteral constructs a terminal production for a field with a concrete
// parse shape (a byte/integer/regex literal, or a bare parse-type).
func NewLiteral(field *ast.FieldDecl, canonicalForm string) *Production {
	return &Production{Kind: KindLiteral, field: field, termForm: canonicalForm}
}

// NewSequence constructs an ordered composition of productions.
func NewSequence(elements []*Production) *Production {
	return &Production{Kind: KindSequence, Elements: elements}
}

// NewAlternative constructs a guarded branch set (every branch has an
// explicit boolean Guard, except at most one trailing catch-all).
func NewAlternative(branches []Branch) *Production {
	return &Production{Kind: KindAlternative, Branches: branches}
}

// NewLookAhead constructs an unguarded branch set disambiguated by
// look-ahead over the input stream; call Analyze to populate each branch's
// LA set.
func NewLookAhead(branches []Branch) *Production {
	return &Production{Kind: KindLookAhead, Branches: branches}
}

// NewWhile constructs a repetition production. Exactly one of until/while
// being non-nil, or eod being true, determines the loop's exit test; a nil
// until/while and false eod means the loop is gated by the body's own
// look-ahead (the body's leading terminal no longer matches).
func NewWhile(body *Production, until, while ast.Expr, eod bool) *Production {
	return &Production{Kind: KindWhile, Body: body, Until: until, While: while, EOD: eod}
}

// NewResolved constructs a forward-declared placeholder identified by
// label, to be filled in later via Resolve once the referenced production
// exists (breaks cycles in recursive unit types).
func NewResolved(label string) *Production {
	return &Production{Kind: KindResolved, Label: label}
}

// Resolve fills in a previously forward-declared placeholder.
func (p *Production) Resolve(target *Production) {
	p.Target = target
}

// NewUnit constructs a sub-unit invocation production.
func NewUnit(unitType string) *Production {
	return &Production{Kind: KindUnit, UnitType: unitType}
}

// NewVariable constructs a no-input-consumed field assignment production.
func NewVariable(field *ast.FieldDecl) *Production {
	return &Production{Kind: KindVariable, VarField: field}
}

// NewBlock constructs a scoped group of items, optionally gated by cond (an
// `if (cond) { ... }` sub-item produces nothing when cond is false).
func NewBlock(cond ast.Expr, items []*Production) *Production {
	return &Production{Kind: KindBlock, BlockCond: cond, Elements: items}
}

// Field returns the field a Literal production was built from.
func (p *Production) Field() *ast.FieldDecl { return p.field }

// LA returns the look-ahead set assigned to a KindLookAhead production's
// i'th branch; valid only after Analyze has run.
func (p *Production) LA(i int) *bitset.BitSet {
	if i < 0 || i >= len(p.la) {
		return nil
	}

	return p.la[i]
}

// deref follows a chain of resolved placeholders to the concrete production
// they were ultimately filled in with, or returns p unchanged if it is not
// a KindResolved node.
func deref(p *Production) *Production {
	seen := map[*Production]bool{}

	for p != nil && p.Kind == KindResolved {
		if seen[p] {
			return p
		}

		seen[p] = true

		if p.Target == nil {
			return p
		}

		p = p.Target
	}

	return p
}
