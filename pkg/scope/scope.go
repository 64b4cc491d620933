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

// Package scope implements the lexical scope tree and ID resolver (§4.3): a
// mapping from ID to an overload set of declarations, built by one pass over
// a module's AST and consulted by a second pass that resolves every Symbol
// occurrence to a concrete Binding.
package scope

import (
	"fmt"

	"github.com/zeek/spicy-sub007/pkg/ast"
)

// Kind distinguishes the handful of scope shapes the builder creates.
type Kind uint

// The scope kinds named in §4.3's Build rule: a module's own top-level
// scope, a type's inner scope (struct/unit/enum members), and a function or
// hook body scope (NoInheritScope: jumps straight to the enclosing module
// scope rather than searching intermediate scopes).
const (
	KindModule Kind = iota
	KindType
	KindBlock
	KindFunctionBody
)

// noInherit reports whether this scope kind skips its immediate parent
// chain on lookup miss, jumping straight to the enclosing module scope
// (§4.3: "NoInheritScope type (e.g., functions, hooks)").
func (k Kind) noInherit() bool {
	return k == KindFunctionBody
}

// entry is one declaration registered under some ID within a Scope,
// annotated with the module it came from (for the private/external rule)
// and whether it was imported (spec exception: types and enum constants
// stay visible externally even when private).
type entry struct {
	decl     ast.Declaration
	module   ast.ID
	imported bool
}

// Scope is a mapping ID -> {declarations}, per §4.3. A name may map to more
// than one declaration (an overload set, meaningful for functions); a scope
// may also carry a "stop here" marker for a name, halting further outward
// lookup for it once a definite not-found decision has been made.
type Scope struct {
	kind     Kind
	parent   *Scope
	module   ast.ID // set on KindModule scopes; the owning module's ID
	bindings map[string][]entry
	stopped  map[string]bool
}

// NewModuleScope constructs the top-level scope of a module.
func NewModuleScope(module ast.ID) *Scope {
	return &Scope{kind: KindModule, module: module, bindings: map[string][]entry{}}
}

// NewChild constructs a nested scope (type body, block, or function/hook
// body) enclosed by parent.
func NewChild(parent *Scope, kind Kind) *Scope {
	return &Scope{kind: kind, parent: parent, bindings: map[string][]entry{}}
}

// Kind returns this scope's shape.
func (s *Scope) Kind() Kind { return s.kind }

// Parent returns the immediately enclosing scope, or nil for a module scope.
func (s *Scope) Parent() *Scope { return s.parent }

// ModuleScope walks the parent chain to the nearest enclosing KindModule
// scope (a scope is always transitively enclosed by exactly one).
func (s *Scope) ModuleScope() *Scope {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == KindModule {
			return cur
		}
	}

	return nil
}

// Module returns the ID of the module owning this scope.
func (s *Scope) Module() ast.ID {
	if m := s.ModuleScope(); m != nil {
		return m.module
	}

	return ast.ID{}
}

// Declare registers decl under name in this scope's overload set. Declaring
// the same name twice is permitted here (ambiguity, if any, is decided at
// Lookup time per §4.3: "Ambiguous resolutions (multiple non-function
// candidates) are errors").
func (s *Scope) Declare(name string, decl ast.Declaration) {
	s.bindings[name] = append(s.bindings[name], entry{decl, s.Module(), false})
}

// DeclareImported registers a declaration brought in from another module via
// an import, preserving that module's ID so the external-visibility rule can
// be applied at lookup time.
func (s *Scope) DeclareImported(name string, decl ast.Declaration, from ast.ID) {
	s.bindings[name] = append(s.bindings[name], entry{decl, from, true})
}

// StopHere marks name as a definite not-found in this scope, halting further
// outward lookup for it (§4.3's shadowing-prevention marker).
func (s *Scope) StopHere(name string) {
	if s.stopped == nil {
		s.stopped = map[string]bool{}
	}

	s.stopped[name] = true
}

// Error reports an ID resolution failure: unresolved or ambiguous.
type Error struct {
	ID         string
	Ambiguous  bool
	Candidates int
}

func (e *Error) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("ambiguous identifier %q: %d candidates", e.ID, e.Candidates)
	}

	return fmt.Sprintf("unresolved identifier %q", e.ID)
}

// alwaysExternallyVisible reports the spec's exception to the private-decl
// rule: type declarations and enum-derived constants remain visible across
// module boundaries even when privately linked.
func alwaysExternallyVisible(decl ast.Declaration) bool {
	if _, ok := decl.(*ast.TypeDecl); ok {
		return true
	}

	if cd, ok := decl.(*ast.ConstantDecl); ok {
		if cd.Type != nil && cd.Type.Underlying != nil {
			if ct, ok := cd.Type.Underlying.(*ast.CompoundType); ok && ct.Kind() == ast.KindEnum {
				return true
			}
		}
	}

	return false
}

// Lookup resolves a single unqualified name starting at s and walking
// enclosing scopes outward, applying the private/external and NoInherit
// rules of §4.3. fromModule is the module the reference textually occurs in
// (used to decide whether a candidate counts as "external").
func Lookup(s *Scope, name string, fromModule ast.ID) (ast.Declaration, ast.ID, error) {
	for cur := s; cur != nil; {
		if cur.stopped[name] {
			return nil, ast.ID{}, &Error{ID: name}
		}

		if candidates, ok := cur.bindings[name]; ok {
			decl, qualified, err := resolveCandidates(candidates, name, fromModule, cur.Module())
			if err != nil {
				return nil, ast.ID{}, err
			}

			if decl != nil {
				return decl, qualified, nil
			}
		}

		if cur.kind.noInherit() {
			cur = cur.ModuleScope()
			continue
		}

		cur = cur.parent
	}

	return nil, ast.ID{}, &Error{ID: name}
}

// resolveCandidates filters an overload set by the external-visibility rule
// and then applies §4.3's ambiguity check: multiple surviving non-function
// candidates is an error, but any number of function candidates is a valid
// overload set (resolved later by the operator/call resolver, not here).
func resolveCandidates(candidates []entry, name string, fromModule, scopeModule ast.ID) (ast.Declaration, ast.ID, error) {
	var visible []entry

	for _, c := range candidates {
		external := c.imported || !c.module.Equals(fromModule)

		if external && c.decl.Linkage() == ast.Private && !alwaysExternallyVisible(c.decl) {
			continue
		}

		if _, isModule := c.decl.(*ast.ImportedModuleDecl); isModule {
			// A module used as a value is always rejected (§4.3).
			continue
		}

		visible = append(visible, c)
	}

	if len(visible) == 0 {
		return nil, ast.ID{}, nil
	}

	if len(visible) == 1 {
		return qualify(visible[0])
	}

	nonFunctions := 0

	for _, c := range visible {
		if _, ok := c.decl.(*ast.FunctionDecl); !ok {
			nonFunctions++
		}
	}

	if nonFunctions > 1 || (nonFunctions == 1 && len(visible) > 1) {
		return nil, ast.ID{}, &Error{ID: name, Ambiguous: true, Candidates: len(visible)}
	}

	return qualify(visible[0])
}

func qualify(e entry) (ast.Declaration, ast.ID, error) {
	return e.decl, e.module.Append(e.decl.ID()), nil
}
