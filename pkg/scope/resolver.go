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
package scope

import "github.com/zeek/spicy-sub007/pkg/ast"

// Build registers every declaration mod itself introduces into a fresh
// module scope, plus the declarations exposed by its imports (visibility is
// filtered later, at Lookup time, by the private/external rule). imported
// maps an imported module's unqualified ID string to its already-processed
// AST, supplied by the driver once that module has itself been parsed
// (§4.8: imports are loaded before scope is built).
func Build(mod *ast.Module, imported map[string]*ast.Module) *Scope {
	s := NewModuleScope(mod.UID.ID)

	for _, decl := range mod.Declarations {
		s.Declare(decl.ID(), decl)
	}

	for _, imp := range mod.Imports {
		other, ok := imported[imp.Local()]
		if !ok {
			continue
		}

		for _, decl := range other.Declarations {
			s.DeclareImported(decl.ID(), decl, other.UID.ID)
		}
	}

	return s
}

// Resolve runs the Build pass for mod and then walks every declaration's
// body, resolving each Symbol occurrence to a Binding via Lookup. It
// accumulates and returns every resolution error rather than stopping at
// the first one; the driver re-runs Resolve on the unresolved subset to a
// fixed point as more imports become available (§4.8).
func Resolve(mod *ast.Module, imported map[string]*ast.Module) (*Scope, []error) {
	s := Build(mod, imported)

	r := &resolver{
		module: mod.UID.ID,
		scopes: moduleScopes(imported),
	}
	r.scopes[mod.UID.ID.Local()] = s

	for _, decl := range mod.Declarations {
		r.declaration(decl, s)
	}

	return s, r.errs
}

// moduleScopes builds each imported module's own scope (with no further
// transitive imports resolved -- one level is all a qualified reference
// ever needs) so qualified symbol occurrences can jump straight to the
// target module instead of walking the referencing module's scope chain.
func moduleScopes(imported map[string]*ast.Module) map[string]*Scope {
	out := make(map[string]*Scope, len(imported))

	for name, m := range imported {
		out[name] = Build(m, nil)
	}

	return out
}

type resolver struct {
	module ast.ID
	scopes map[string]*Scope
	errs   []error
}

func (r *resolver) fail(err error) { r.errs = append(r.errs, err) }

func (r *resolver) declaration(decl ast.Declaration, s *Scope) {
	switch d := decl.(type) {
	case *ast.FunctionDecl:
		r.function(d, s)
	case *ast.HookDecl:
		r.hook(d, s)
	case *ast.ConstantDecl:
		r.expr(d.Value, s)
	case *ast.VariableDecl:
		r.expr(d.Default, s)
	case *ast.FieldDecl:
		r.field(d, s)
	case *ast.PropertyDecl:
		r.expr(d.Value, s)
	case *ast.ExpressionDecl:
		r.expr(d.Value, s)
	}
}

func (r *resolver) field(d *ast.FieldDecl, s *Scope) {
	r.expr(d.Attributes.Size, s)
	r.expr(d.Attributes.Until, s)
	r.expr(d.Attributes.While, s)
	r.expr(d.Attributes.Default, s)
	r.expr(d.Attributes.ParseAt, s)
	r.expr(d.Attributes.ParseFrom, s)
	r.expr(d.Attributes.Convert, s)
	r.expr(d.Attributes.Requires, s)

	for _, h := range d.Hooks {
		r.hook(h, s)
	}
}

// hook builds a NoInheritScope function-body scope for a hook, binding "$$"
// -- the value passed to a field's on-parse hook -- when the hook carries
// one (§GLOSSARY "$$").
func (r *resolver) hook(d *ast.HookDecl, s *Scope) {
	body := NewChild(s, KindFunctionBody)

	if d.DollarDollarType != nil {
		body.Declare("$$", ast.NewParameterDecl("$$", d.DollarDollarType, ast.ParamIn))
	}

	r.block(d.Body, body)
}

func (r *resolver) function(d *ast.FunctionDecl, s *Scope) {
	if d.Body == nil {
		return
	}

	body := NewChild(s, KindFunctionBody)

	if d.Sig != nil {
		for _, p := range d.Sig.Parameters {
			body.Declare(p.Name, ast.NewParameterDecl(p.Name, p.Type, p.Kind))
		}
	}

	r.block(d.Body, body)
}

func (r *resolver) block(b *ast.Block, parent *Scope) {
	if b == nil {
		return
	}

	s := NewChild(parent, KindBlock)

	for _, stmt := range b.Statements {
		r.stmt(stmt, s)
	}
}

func (r *resolver) stmt(stmt ast.Stmt, s *Scope) {
	switch st := stmt.(type) {
	case *ast.VariableDecl:
		r.expr(st.Default, s)
		s.Declare(st.ID(), st)
	case *ast.IfStmt:
		r.expr(st.Cond, s)
		r.block(st.Then, s)
		r.block(st.Else, s)
	case *ast.WhileStmt:
		r.expr(st.Cond, s)
		r.block(st.Body, s)
	case *ast.ForEachStmt:
		r.expr(st.Range, s)

		loop := NewChild(s, KindBlock)
		elem := ast.NewQualifiedType(ast.NewAutoType(), ast.Mutable, ast.LHS)
		loop.Declare(st.Var, ast.NewLocalVariableDecl(st.Var, elem, nil))

		r.block(st.Body, loop)
	case *ast.TryStmt:
		r.block(st.Body, s)
		r.block(st.Catch, s)
	case *ast.ReturnStmt:
		r.expr(st.Value, s)
	case *ast.AssertStmt:
		r.expr(st.Cond, s)
	case *ast.ExprStmt:
		r.expr(st.Value, s)
	}
}

// expr resolves every Symbol occurrence reachable from e, walking its
// Children() generically so new Expr variants never need a bespoke case
// here.
func (r *resolver) expr(e ast.Expr, s *Scope) {
	if e == nil {
		return
	}

	if ident, ok := e.(*ast.IdentifierExpr); ok {
		r.symbol(ident.Symbol, s)
	}

	for _, c := range e.Children() {
		if ce, ok := c.(ast.Expr); ok {
			r.expr(ce, s)
		}
	}
}

func (r *resolver) symbol(sym *ast.Symbol, s *Scope) {
	if sym.IsResolved() {
		return
	}

	name := sym.Name()

	if name.Depth() > 1 {
		r.qualified(sym, name, s)
		return
	}

	decl, canonical, err := Lookup(s, name.Local(), r.module)
	if err != nil {
		r.fail(err)
		return
	}

	sym.Resolve(ast.NewBinding(decl), canonical)
}

// qualified resolves a "Mod::name"-shaped reference by jumping straight
// into Mod's own module scope instead of walking s's parent chain -- a
// qualified reference is never subject to the local shadowing/NoInherit
// rules that govern unqualified lookup (§4.3).
func (r *resolver) qualified(sym *ast.Symbol, name ast.ID, s *Scope) {
	target, ok := r.scopes[name.Namespace().Local()]
	if !ok {
		r.fail(&Error{ID: name.String()})
		return
	}

	decl, canonical, err := Lookup(target, name.Local(), r.module)
	if err != nil {
		r.fail(err)
		return
	}

	sym.Resolve(ast.NewBinding(decl), canonical)
}
