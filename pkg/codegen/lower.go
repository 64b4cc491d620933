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
package codegen

import (
	"fmt"
	"sort"

	"github.com/zeek/spicy-sub007/pkg/ast"
	"github.com/zeek/spicy-sub007/pkg/grammar"
)

// Lower builds the generated parsing procedure for unit, given its already
// finalized grammar (used only to reject a unit whose look-ahead sets were
// never assigned -- the per-item walk below follows the same structure the
// grammar builder derived the production tree from, so the two stay in
// lock-step without re-deriving the production tree here).
func Lower(unit *ast.Unit, g *grammar.Grammar) (*Procedure, error) {
	if !g.Finalized() {
		return nil, fmt.Errorf("codegen: grammar for unit %q is not finalized", unit.TypeID)
	}

	l := &lowering{unit: unit}

	randomAccess := false
	if prop, ok := unit.Property("random-access"); ok && prop != nil {
		randomAccess = true
	}

	body, err := l.items(unit.Body)
	if err != nil {
		return nil, err
	}

	return &Procedure{UnitType: unit.TypeID, RandomAccess: randomAccess, Body: body}, nil
}

type lowering struct {
	unit *ast.Unit
}

func (l *lowering) items(items []ast.UnitItem) ([]Op, error) {
	ops := make([]Op, 0, len(items))

	for _, item := range items {
		op, err := l.item(item)
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
	}

	return ops, nil
}

func (l *lowering) item(item ast.UnitItem) (Op, error) {
	switch it := item.(type) {
	case *ast.UnitField:
		return l.field(it)
	case *ast.UnitSwitch:
		return l.unitSwitch(it)
	case *ast.UnitBlock:
		nested, err := l.items(it.Items)
		if err != nil {
			return Op{}, err
		}

		cond := ""
		if it.Cond != nil {
			cond = it.Cond.Unparse()
		}

		return Op{Kind: OpBlock, Cond: cond, Body: nested}, nil
	default:
		return Op{}, fmt.Errorf("codegen: unknown unit item %T", item)
	}
}

// field lowers one field to its §4.7 six-step body: pre-hooks, acquire
// input, apply production, assign-or-discard, post-hooks (the error hook on
// a failed parse is a runtime concern of the emitted try/catch, not a
// distinct Op here).
func (l *lowering) field(uf *ast.UnitField) (Op, error) {
	field := uf.Field

	pre, post := hookNames(field, "")

	switch {
	case uf.Vector:
		elemOp, err := l.scalarOrUnit(field)
		if err != nil {
			return Op{}, err
		}

		kind := OpLoopEOD

		switch {
		case field.Attributes.Until != nil:
			kind = OpLoopUntil
		case field.Attributes.While != nil:
			kind = OpLoopWhile
		}

		cond := ""

		switch {
		case field.Attributes.Until != nil:
			cond = field.Attributes.Until.Unparse()
		case field.Attributes.While != nil:
			cond = field.Attributes.While.Unparse()
		}

		return Op{
			Kind: kind, Field: field.ID(), Cond: cond,
			Body: []Op{elemOp}, PreHooks: pre, PostHooks: post,
		}, nil

	case field.Attributes.ParseFrom != nil:
		return Op{
			Kind: OpAssignField, Field: field.ID(),
			ParseFrom: field.Attributes.ParseFrom.Unparse(),
			PreHooks:  pre, PostHooks: post,
		}, nil

	default:
		op, err := l.scalarOrUnit(field)
		if err != nil {
			return Op{}, err
		}

		op.PreHooks, op.PostHooks = pre, post

		if field.Attributes.ParseAt != nil {
			op.ParseAt = field.Attributes.ParseAt.Unparse()
		}

		if field.Attributes.Convert != nil {
			op.Convert = field.Attributes.Convert.Unparse()
		}

		if field.Attributes.Anonymous {
			op.Kind = OpDiscard
		}

		return op, nil
	}
}

func (l *lowering) scalarOrUnit(field *ast.FieldDecl) (Op, error) {
	if field.Type != nil && field.Type.Underlying != nil {
		if ct, ok := field.Type.Underlying.(*ast.CompoundType); ok {
			if ct.Kind() == ast.KindStruct || ct.Kind() == ast.KindUnion {
				return Op{Kind: OpInvokeUnit, Field: field.ID(), CalleeType: field.ID()}, nil
			}
		}
	}

	return Op{Kind: OpMatchLiteral, Field: field.ID()}, nil
}

func (l *lowering) unitSwitch(sw *ast.UnitSwitch) (Op, error) {
	branches := make([]OpBranch, 0, len(sw.Cases))

	for _, c := range sw.Cases {
		body, err := l.items(c.Items)
		if err != nil {
			return Op{}, err
		}

		guard := ""
		if c.Guard != nil {
			guard = c.Guard.Unparse()
		}

		branches = append(branches, OpBranch{Guard: guard, Body: body})
	}

	if sw.HasGuards {
		return Op{Kind: OpBranch, Branches: branches}, nil
	}

	return Op{Kind: OpLookAheadBranch, Branches: branches}, nil
}

// hookNames splits a field's declared hooks by firing point: %init runs
// before input is consumed, everything else (the on-field/%done hook, most
// commonly) runs after a successful parse. Hooks of the same event run in
// descending Priority order, ties broken by declaration order (§4.7 "Hook
// ordering").
func hookNames(field *ast.FieldDecl, _ string) (pre, post []string) {
	hooks := append([]*ast.HookDecl(nil), field.Hooks...)
	sort.SliceStable(hooks, func(i, j int) bool { return hooks[i].Priority > hooks[j].Priority })

	for _, h := range hooks {
		if h == nil {
			continue
		}

		name := fmt.Sprintf("%s::on_%s", field.ID(), h.ID())

		if h.Event == ast.HookInit {
			pre = append(pre, name)
		} else {
			post = append(post, name)
		}
	}

	return pre, post
}
