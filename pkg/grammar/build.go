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
package grammar

import (
	"fmt"

	"github.com/zeek/spicy-sub007/pkg/ast"
)

// build turns a unit's ordered body items into a Sequence production
// (§4.6 "Construction": "walking a unit top-down produces a Sequence whose
// elements correspond to the unit's items"), interning every Literal
// terminal it encounters into alphabet.
func build(alphabet *Alphabet, items []ast.UnitItem) ([]*Production, error) {
	elements := make([]*Production, 0, len(items))

	for _, item := range items {
		p, err := buildItem(alphabet, item)
		if err != nil {
			return nil, err
		}

		elements = append(elements, p)
	}

	return elements, nil
}

func buildItem(alphabet *Alphabet, item ast.UnitItem) (*Production, error) {
	switch it := item.(type) {
	case *ast.UnitField:
		return buildField(alphabet, it)
	case *ast.UnitSwitch:
		return buildSwitch(alphabet, it)
	case *ast.UnitBlock:
		nested, err := build(alphabet, it.Items)
		if err != nil {
			return nil, err
		}

		return NewBlock(it.Cond, nested), nil
	default:
		return nil, fmt.Errorf("grammar: unknown unit item %T", item)
	}
}

// fieldKind classifies a field's type shape for the purposes of picking a
// production variant: a reference to a declared struct/unit-shaped type
// yields a Unit production (sub-parser invocation); every scalar shape
// yields a Literal production.
func fieldKind(field *ast.FieldDecl) (literal bool, kindName string, width uint) {
	t := field.Type
	if t == nil || t.Underlying == nil {
		return true, "unknown", 0
	}

	switch u := t.Underlying.(type) {
	case *ast.ScalarType:
		return true, kindString(u.Kind()), u.Width
	case *ast.CompoundType:
		if u.Kind() == ast.KindStruct || u.Kind() == ast.KindUnion {
			return false, "", 0
		}

		return true, kindString(u.Kind()), 0
	default:
		return true, kindString(t.Underlying.Kind()), 0
	}
}

func kindString(k ast.TypeKind) string {
	return fmt.Sprintf("%d", uint(k))
}

func buildField(alphabet *Alphabet, uf *ast.UnitField) (*Production, error) {
	field := uf.Field

	if uf.Vector {
		var elem *Production

		isLiteral, kindName, width := fieldKind(field)
		if isLiteral {
			form := canonicalForm(kindName, width, field.Attributes.ByteOrder, literalValue(field))
			elem = NewLiteral(field, form)
			alphabet.Intern(form)
		} else {
			elem = NewUnit(unitTypeName(field))
		}

		return NewWhile(elem, field.Attributes.Until, field.Attributes.While, field.Attributes.EOD), nil
	}

	isLiteral, kindName, width := fieldKind(field)
	if !isLiteral {
		return NewUnit(unitTypeName(field)), nil
	}

	if field.Attributes.ParseFrom != nil {
		// Parses from an already-consumed field's bytes rather than the
		// live cursor -- no new input is taken from the stream here.
		return NewVariable(field), nil
	}

	form := canonicalForm(kindName, width, field.Attributes.ByteOrder, literalValue(field))
	alphabet.Intern(form)

	return NewLiteral(field, form), nil
}

// literalValue extracts the fixed value a field must match, if its
// &default= attribute pins one down (e.g. magic-byte fields); nil means the
// field accepts any value of its parse type.
func literalValue(field *ast.FieldDecl) any {
	lit, ok := field.Attributes.Default.(*ast.LiteralCtor)
	if !ok || lit == nil {
		return nil
	}

	return lit.Value
}

// unitTypeName names the sub-unit a non-scalar field's type refers to by
// the field's own ID; codegen.Lower uses the same ID as the callee type of
// the generated sub-unit parse call.
func unitTypeName(field *ast.FieldDecl) string {
	return field.ID()
}

// buildSwitch turns a `switch (expr) { case g: ...; }` or guard-less
// `( A | B )` unit item into an Alternative or LookAhead production,
// depending on whether its cases carry explicit boolean guards (§4.6
// "Alternative or LookAhead depending on whether explicit expressions are
// provided").
func buildSwitch(alphabet *Alphabet, sw *ast.UnitSwitch) (*Production, error) {
	branches := make([]Branch, 0, len(sw.Cases))

	for _, c := range sw.Cases {
		body, err := build(alphabet, c.Items)
		if err != nil {
			return nil, err
		}

		branches = append(branches, Branch{Guard: c.Guard, Body: NewSequence(body)})
	}

	if sw.HasGuards {
		return NewAlternative(branches), nil
	}

	return NewLookAhead(branches), nil
}

// Build constructs the grammar for one unit (§4.6). On success, the
// returned Grammar is un-analysed; call Analyze before relying on
// nullable/first/follow/LA data.
func Build(unit *ast.Unit) (*Grammar, error) {
	alphabet := NewAlphabet()

	elements, err := build(alphabet, unit.Body)
	if err != nil {
		return nil, err
	}

	root := NewSequence(elements)

	return &Grammar{UnitType: unit.TypeID, Root: root, Alphabet: alphabet}, nil
}
