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
package ast

// Binding represents an association between a name, as found in a source
// file, and the concrete declaration it refers to (a type, a variable, a
// function, a field, ...).
type Binding interface {
	// Declaration returns the underlying declaration this binding targets.
	Declaration() Declaration
	// IsFinalised determines whether this binding's type is fully settled.
	IsFinalised() bool
}

// FunctionBinding captures the essence of something callable -- a
// user-defined function, a hook, or a built-in/native operator.
type FunctionBinding interface {
	Binding
	// Signature returns the concrete call signature for this binding.
	Signature() *FunctionType
	// IsNative reports whether this binding is implemented in the runtime
	// rather than in Spicy/HILTI source.
	IsNative() bool
}

// declBinding is the default Binding implementation wrapping any
// Declaration.
type declBinding struct {
	decl      Declaration
	finalised bool
}

// NewBinding wraps a declaration as a Binding, initially unfinalised.
func NewBinding(decl Declaration) Binding {
	return &declBinding{decl, false}
}

func (b *declBinding) Declaration() Declaration { return b.decl }
func (b *declBinding) IsFinalised() bool         { return b.finalised }

// Finalise marks a binding's type as fully settled.  Intended to be called
// by the resolver once a declaration's (possibly Auto) type has concrete
// form.
func Finalise(b Binding) {
	if db, ok := b.(*declBinding); ok {
		db.finalised = true
	}
}

// Symbol represents a variable/function access within an expression.
// Initially its interpretation is unclear; it is resolved once the scope/ID
// resolver (§4.3) determines what declaration it refers to.
type Symbol struct {
	NodeBase
	name     ID
	binding  Binding
	resolved bool
}

// NewUnresolvedSymbol constructs a symbol occurrence awaiting resolution.
func NewUnresolvedSymbol(name ID) *Symbol {
	return &Symbol{NodeBase{}, name, nil, false}
}

func (s *Symbol) Tag() Tag         { return TagIdentifierExpr }
func (s *Symbol) Children() []Node { return nil }
func (s *Symbol) Unparse() string  { return s.name.String() }

// Name returns the (possibly relative) identifier as written.
func (s *Symbol) Name() ID { return s.name }

// IsResolved reports whether this symbol has been bound.
func (s *Symbol) IsResolved() bool { return s.resolved }

// Binding returns the bound declaration.  Panics if unresolved.
func (s *Symbol) Binding() Binding {
	if !s.resolved {
		panic("symbol not yet resolved: " + s.name.String())
	}

	return s.binding
}

// Resolve associates this symbol with a binding found by the scope/ID
// resolver, producing the symbol's qualified canonical ID.
func (s *Symbol) Resolve(b Binding, canonical ID) {
	if s.resolved {
		panic("symbol already resolved: " + s.name.String())
	}

	s.binding = b
	s.resolved = true
	s.name = canonical
}
