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

import "github.com/zeek/spicy-sub007/pkg/util/source"

// Tag identifies the concrete variant of a Node.  Behaviours that vary per
// variant (printing, unification, the resolved-check) are methods of each
// concrete node type; Tag names the variant for type switches and
// Tag.String.
type Tag uint

// The full set of node tags.  Declarations, Statements, Expressions, Ctors
// and Types are each identified by one of these.
const (
	TagModule Tag = iota
	TagTypeDecl
	TagConstantDecl
	TagGlobalVariableDecl
	TagLocalVariableDecl
	TagParameterDecl
	TagImportedModuleDecl
	TagFunctionDecl
	TagFieldDecl
	TagHookDecl
	TagPropertyDecl
	TagExpressionDecl
	TagBlockStmt
	TagIfStmt
	TagWhileStmt
	TagForEachStmt
	TagTryStmt
	TagReturnStmt
	TagYieldStmt
	TagAssertStmt
	TagExprStmt
	TagIdentifierExpr
	TagMemberExpr
	TagCallExpr
	TagMemberCallExpr
	TagUnresolvedOperatorExpr
	TagResolvedOperatorExpr
	TagLiteralCtor
	TagTupleCtor
	TagVectorCtor
	TagStructCtor
	TagUnqualifiedType
	TagQualifiedType
	TagUnit
	TagUnitField
	TagUnitSwitch
	TagUnitBlock
)

// Node is the universal AST element.  Every Declaration, Statement,
// Expression, Ctor and Type implements it.
type Node interface {
	// Tag identifies the concrete variant of this node.
	Tag() Tag
	// Children returns this node's ordered child nodes.  Named children are
	// accessed by documented slot index, per variant.
	Children() []Node
	// Meta returns the node's shared metadata (location, scope, properties).
	Meta() *Meta
	// Unparse renders a short diagnostic form of this node; it is never fed
	// back into the parser (that is the printer's job, which lives outside
	// the core).
	Unparse() string
}

// Meta carries the data every Node shares regardless of variant: an optional
// source location, an attached lexical scope handle, and named diagnostic
// properties (e.g. attribute values attached during resolution).
type Meta struct {
	span       source.Span
	hasSpan    bool
	scope      ScopeHandle
	properties map[string]any
}

// NodeBase is embedded (anonymously) by every concrete Node implementation to
// supply its Meta() accessor via promotion.  It is a distinct type from Meta
// itself so that embedding it never collides with a method of the same
// name (Go forbids a field and a method sharing a name on one type).
type NodeBase struct {
	meta Meta
}

// Meta returns this node's shared metadata.
func (b *NodeBase) Meta() *Meta { return &b.meta }

// ScopeHandle is an opaque, stable reference to a Scope (defined in
// package scope) attached to a node once scopes are built.  It is a handle
// rather than a pointer so the AST package does not need to import scope,
// keeping the dependency direction AST -> (nothing) and scope -> AST.
type ScopeHandle uint64

// NoScope is the zero handle, meaning "no scope attached yet".
const NoScope ScopeHandle = 0

// SetSpan records this node's source location.
func (m *Meta) SetSpan(span source.Span) {
	m.span = span
	m.hasSpan = true
}

// Span returns this node's source location, and whether one was ever set.
func (m *Meta) Span() (source.Span, bool) {
	return m.span, m.hasSpan
}

// SetScope attaches a lexical scope handle to this node.
func (m *Meta) SetScope(h ScopeHandle) {
	m.scope = h
}

// Scope returns the lexical scope handle attached to this node, if any.
func (m *Meta) Scope() ScopeHandle {
	return m.scope
}

// SetProperty attaches a named diagnostic property (e.g. a resolved
// attribute value) to this node.
func (m *Meta) SetProperty(name string, value any) {
	if m.properties == nil {
		m.properties = make(map[string]any)
	}

	m.properties[name] = value
}

// Property retrieves a previously attached diagnostic property.
func (m *Meta) Property(name string) (any, bool) {
	v, ok := m.properties[name]
	return v, ok
}

// Resolvable is implemented by nodes whose resolved status can be queried,
// per the invariant: "isResolved() is true iff the underlying type and all
// transitive references are resolved".
type Resolvable interface {
	Node
	IsResolved() bool
}
