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

// Linkage determines a declaration's cross-module visibility (§3).
type Linkage uint

// Private is module-local; Public is cross-module visible; Struct marks a
// struct/unit member; Init marks the module-init top-level block.
const (
	Private Linkage = iota
	Public
	Struct
	Init
)

// Declaration is the common interface for every declaration variant: Module,
// Type, Constant, GlobalVariable, LocalVariable, Parameter, ImportedModule,
// Function, Field, Hook, Property, and Expression (alias).
type Declaration interface {
	Node
	// ID returns the unqualified name introduced by this declaration.
	ID() string
	// Linkage returns this declaration's visibility.
	Linkage() Linkage
	// CanonicalID returns the fully qualified ID this declaration is known
	// by once scopes have been built.  Empty before that point.
	CanonicalID() ID
	// SetCanonicalID is called exactly once by the scope builder.
	SetCanonicalID(ID)
}

// declBase factors out the ID/linkage/canonical-ID bookkeeping shared by
// every declaration variant.
type declBase struct {
	NodeBase
	id        string
	linkage   Linkage
	canonical ID
}

func newDeclBase(id string, linkage Linkage) declBase {
	return declBase{NodeBase{}, id, linkage, ID{}}
}

func (d *declBase) ID() string           { return d.id }
func (d *declBase) Linkage() Linkage     { return d.linkage }
func (d *declBase) CanonicalID() ID      { return d.canonical }
func (d *declBase) SetCanonicalID(id ID) { d.canonical = id }

// TypeDecl declares a named type (struct, unit, enum, bitfield, alias, ...).
type TypeDecl struct {
	declBase
	Type *QualifiedType
}

// NewTypeDecl constructs a named-type declaration.
func NewTypeDecl(id string, linkage Linkage, typ *QualifiedType) *TypeDecl {
	return &TypeDecl{newDeclBase(id, linkage), typ}
}

func (d *TypeDecl) Tag() Tag         { return TagTypeDecl }
func (d *TypeDecl) Children() []Node { return []Node{d.Type} }
func (d *TypeDecl) Unparse() string  { return "type " + d.id }

// ConstantDecl declares a compile-time constant.
type ConstantDecl struct {
	declBase
	Type  *QualifiedType
	Value Expr
}

// NewConstantDecl constructs a constant declaration.
func NewConstantDecl(id string, linkage Linkage, typ *QualifiedType, value Expr) *ConstantDecl {
	return &ConstantDecl{newDeclBase(id, linkage), typ, value}
}

func (d *ConstantDecl) Tag() Tag         { return TagConstantDecl }
func (d *ConstantDecl) Children() []Node { return []Node{d.Type, d.Value} }
func (d *ConstantDecl) Unparse() string  { return "const " + d.id }

// VariableDecl is shared shape for GlobalVariable/LocalVariable/Parameter.
type VariableDecl struct {
	declBase
	Type    *QualifiedType
	Default Expr // nil if none
	Kind    FunctionParameterKind
}

// NewGlobalVariableDecl, NewLocalVariableDecl and NewParameterDecl construct
// the three variable-shaped declarations. All three build a *VariableDecl
// with Private linkage whose Tag is TagLocalVariableDecl; they differ only
// in the AST position they appear at and, for parameters, the parameter
// kind.
func NewGlobalVariableDecl(id string, typ *QualifiedType, dflt Expr) *VariableDecl {
	return &VariableDecl{newDeclBase(id, Private), typ, dflt, ParamIn}
}

func NewLocalVariableDecl(id string, typ *QualifiedType, dflt Expr) *VariableDecl {
	return &VariableDecl{newDeclBase(id, Private), typ, dflt, ParamIn}
}

func NewParameterDecl(id string, typ *QualifiedType, kind FunctionParameterKind) *VariableDecl {
	return &VariableDecl{newDeclBase(id, Private), typ, nil, kind}
}

func (d *VariableDecl) Tag() Tag { return TagLocalVariableDecl }

func (d *VariableDecl) Children() []Node {
	if d.Default != nil {
		return []Node{d.Type, d.Default}
	}

	return []Node{d.Type}
}

func (d *VariableDecl) Unparse() string { return "var " + d.id }

// ImportedModuleDecl brings another module's public declarations into scope.
type ImportedModuleDecl struct {
	declBase
	Module ID
	Alias  string
}

// NewImportedModuleDecl constructs an import declaration.
func NewImportedModuleDecl(module ID, alias string) *ImportedModuleDecl {
	name := alias
	if name == "" {
		name = module.Local()
	}

	return &ImportedModuleDecl{newDeclBase(name, Private), module, alias}
}

func (d *ImportedModuleDecl) Tag() Tag         { return TagImportedModuleDecl }
func (d *ImportedModuleDecl) Children() []Node { return nil }
func (d *ImportedModuleDecl) Unparse() string  { return "import " + d.Module.String() }

// FunctionDecl declares a function (or, via Hook below, a specialisation of
// one).
type FunctionDecl struct {
	declBase
	Sig  *FunctionType
	Body *Block // nil for an extern/native declaration-only function
}

// NewFunctionDecl constructs a function declaration.
func NewFunctionDecl(id string, linkage Linkage, sig *FunctionType, body *Block) *FunctionDecl {
	return &FunctionDecl{newDeclBase(id, linkage), sig, body}
}

func (d *FunctionDecl) Tag() Tag { return TagFunctionDecl }

func (d *FunctionDecl) Children() []Node {
	if d.Body != nil {
		return []Node{d.Sig, d.Body}
	}

	return []Node{d.Sig}
}

func (d *FunctionDecl) Unparse() string { return "function " + d.id }

func (d *FunctionDecl) Declaration() Declaration  { return d }
func (d *FunctionDecl) IsFinalised() bool         { return d.Sig.IsResolved() }
func (d *FunctionDecl) Signature() *FunctionType  { return d.Sig }
func (d *FunctionDecl) IsNative() bool            { return d.Body == nil }

// FieldAttributes holds the side-channel attributes a unit field may carry
// (§4.2 Attributes): &size=, &until=, &while=, &eod, &default=, &optional,
// &anonymous, &internal, &parse-at=, &parse-from=, &convert=, &requires=,
// &byte-order=.
type FieldAttributes struct {
	Size       Expr
	Until      Expr
	While      Expr
	EOD        bool
	Default    Expr
	Optional   bool
	Anonymous  bool
	Internal   bool
	ParseAt    Expr
	ParseFrom  Expr
	Convert    Expr
	Requires   Expr
	ByteOrder  string // "big", "little", or "" (host default)
}

// FieldDecl declares one field of a unit (a struct member with parse
// semantics attached).
type FieldDecl struct {
	declBase
	Type       *QualifiedType
	Attributes FieldAttributes
	Hooks      []*HookDecl
}

// NewFieldDecl constructs a unit field declaration.
func NewFieldDecl(id string, typ *QualifiedType, attrs FieldAttributes) *FieldDecl {
	return &FieldDecl{newDeclBase(id, Struct), typ, attrs, nil}
}

func (d *FieldDecl) Tag() Tag { return TagFieldDecl }

func (d *FieldDecl) Children() []Node {
	children := []Node{d.Type}
	for _, h := range d.Hooks {
		children = append(children, h)
	}

	return children
}

func (d *FieldDecl) Unparse() string { return "field " + d.id }

// HookEvent names the lifecycle moment a hook fires at (§4.7/GLOSSARY):
// per-field ("on X"/"%done"), or one of the unit-wide lifecycle events.
type HookEvent uint

// The hook firing points named by the spec.
const (
	HookOnField HookEvent = iota
	HookDone
	HookError
	HookInit
	HookGap
	HookSkipped
	HookUndelivered
	HookOverlap
)

// HookDecl is user code attached to a unit field or lifecycle event.
type HookDecl struct {
	declBase
	Event    HookEvent
	Field    string // target field name, meaningful for HookOnField/HookDone
	Priority int    // higher runs first; ties broken by registration order
	DollarDollarType *QualifiedType
	Body     *Block
}

// NewHookDecl constructs a hook declaration.
func NewHookDecl(event HookEvent, field string, priority int, ddType *QualifiedType, body *Block) *HookDecl {
	return &HookDecl{newDeclBase(field, Struct), event, field, priority, ddType, body}
}

func (d *HookDecl) Tag() Tag         { return TagHookDecl }
func (d *HookDecl) Children() []Node { return []Node{d.Body} }
func (d *HookDecl) Unparse() string  { return "hook " + d.id }

// PropertyDecl is a unit-level or module-level `%property = value;` pair,
// e.g. `%byte-order`, `%random-access`.
type PropertyDecl struct {
	declBase
	Value Expr
}

// NewPropertyDecl constructs a property declaration.
func NewPropertyDecl(id string, value Expr) *PropertyDecl {
	return &PropertyDecl{newDeclBase(id, Private), value}
}

func (d *PropertyDecl) Tag() Tag { return TagPropertyDecl }

func (d *PropertyDecl) Children() []Node {
	if d.Value != nil {
		return []Node{d.Value}
	}

	return nil
}

func (d *PropertyDecl) Unparse() string { return "%" + d.id }

// ExpressionDecl is an alias binding a name to an expression (used for
// Spicy's `const` and `import ... as` expression aliases that are not full
// ConstantDecls).
type ExpressionDecl struct {
	declBase
	Value Expr
}

// NewExpressionDecl constructs an expression-alias declaration.
func NewExpressionDecl(id string, value Expr) *ExpressionDecl {
	return &ExpressionDecl{newDeclBase(id, Private), value}
}

func (d *ExpressionDecl) Tag() Tag         { return TagExpressionDecl }
func (d *ExpressionDecl) Children() []Node { return []Node{d.Value} }
func (d *ExpressionDecl) Unparse() string  { return "alias " + d.id }
