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

import "github.com/zeek/spicy-sub007/pkg/util"

// TypeKind identifies the shape of an UnqualifiedType.
type TypeKind uint

// The scalar, compound, function, library, name, void, auto and unknown
// shapes named in §3 of the data model.
const (
	KindBool TypeKind = iota
	KindInt
	KindUInt
	KindReal
	KindInterval
	KindTime
	KindAddress
	KindPort
	KindNetwork
	KindString
	KindBytes
	KindRegExp
	KindStream
	KindStreamView
	KindStreamIterator
	KindTuple
	KindStruct
	KindUnion
	KindEnum
	KindBitfield
	KindOptional
	KindResult
	KindValueRef
	KindStrongRef
	KindWeakRef
	KindVector
	KindList
	KindSet
	KindMap
	KindVectorIterator
	KindListIterator
	KindSetIterator
	KindMapIterator
	KindFunction
	KindLibrary
	KindName
	KindVoid
	KindAuto
	KindUnknown
	KindComputed
)

// ReferenceKind distinguishes the three reference flavours of §3.
type ReferenceKind uint

// ValueRef is heap-allocated, single-owner, copyable by deep value.
// StrongRef is heap-allocated, shared ownership, keeps target alive.
// WeakRef is non-owning; dereference fails if the target is gone.
const (
	ValueRef ReferenceKind = iota
	StrongRef
	WeakRef
)

// UnqualifiedType is the shape of a type: scalar, compound, function,
// library, name (unresolved ID), void, auto, or unknown.
type UnqualifiedType interface {
	Node
	// Kind identifies the shape of this type.
	Kind() TypeKind
	// IsResolved is true iff this type and all transitively referenced
	// types contain no Name placeholders, no Unknown, and no Auto.
	IsResolved() bool
}

// BaseType implements the parts of UnqualifiedType common to every shape: a
// bit of Meta plumbing and a fixed Kind.
type BaseType struct {
	NodeBase
	kind TypeKind
}

// NewBaseType constructs the shared portion of an UnqualifiedType.
func NewBaseType(kind TypeKind) BaseType {
	return BaseType{NodeBase{}, kind}
}

// Kind returns the fixed shape tag for this type.
func (t *BaseType) Kind() TypeKind { return t.kind }

// ScalarType covers the fixed-width and unit scalar shapes (bool, int[N],
// uint[N], real, interval, time, address, port, network, string, bytes,
// regexp, stream, stream view, stream iterator).
type ScalarType struct {
	BaseType
	// Width is meaningful for KindInt/KindUInt (bit width N); zero
	// otherwise.
	Width uint
}

// NewScalarType constructs a scalar shape, e.g. NewScalarType(KindUInt, 32)
// for "uint32".
func NewScalarType(kind TypeKind, width uint) *ScalarType {
	return &ScalarType{NewBaseType(kind), width}
}

func (t *ScalarType) Tag() Tag        { return TagUnqualifiedType }
func (t *ScalarType) Children() []Node { return nil }
func (t *ScalarType) IsResolved() bool { return true }
func (t *ScalarType) Unparse() string {
	switch t.kind {
	case KindInt:
		return "int"
	case KindUInt:
		return "uint"
	default:
		return "scalar"
	}
}

// ReferenceType wraps an element type in one of the three reference kinds.
type ReferenceType struct {
	BaseType
	Kind_   ReferenceKind
	Element *QualifiedType
}

// NewReferenceType constructs value_ref<T>/strong_ref<T>/weak_ref<T>.
func NewReferenceType(kind ReferenceKind, element *QualifiedType) *ReferenceType {
	kindTag := KindValueRef

	switch kind {
	case StrongRef:
		kindTag = KindStrongRef
	case WeakRef:
		kindTag = KindWeakRef
	}

	return &ReferenceType{NewBaseType(kindTag), kind, element}
}

func (t *ReferenceType) Tag() Tag         { return TagUnqualifiedType }
func (t *ReferenceType) Children() []Node { return []Node{t.Element} }
func (t *ReferenceType) IsResolved() bool  { return t.Element.IsResolved() }
func (t *ReferenceType) Unparse() string   { return "ref<" + t.Element.Unparse() + ">" }

// CompoundElement names one labelled element of a tuple/struct/union/enum
// (the label may be empty for positional tuple elements).
type CompoundElement struct {
	Name string
	Type *QualifiedType
}

// CompoundType covers tuple, struct, union, enum, bitfield, vector, list,
// set, map and their iterators.
type CompoundType struct {
	BaseType
	Elements []CompoundElement
	// KeyType/ValueType are populated for KindMap; ValueType alone for
	// KindVector/KindList/KindSet and their iterators.
	KeyType   *QualifiedType
	ValueType *QualifiedType
}

// NewCompoundType constructs a tuple/struct/union/enum/bitfield shape from
// labelled elements.
func NewCompoundType(kind TypeKind, elements []CompoundElement) *CompoundType {
	return &CompoundType{NewBaseType(kind), elements, nil, nil}
}

// NewContainerType constructs a vector/list/set/map (or iterator) shape.
func NewContainerType(kind TypeKind, key, value *QualifiedType) *CompoundType {
	return &CompoundType{NewBaseType(kind), nil, key, value}
}

func (t *CompoundType) Tag() Tag { return TagUnqualifiedType }

func (t *CompoundType) Children() []Node {
	var children []Node

	for _, e := range t.Elements {
		children = append(children, e.Type)
	}

	if t.KeyType != nil {
		children = append(children, t.KeyType)
	}

	if t.ValueType != nil {
		children = append(children, t.ValueType)
	}

	return children
}


func (t *CompoundType) IsResolved() bool {
	for _, e := range t.Elements {
		if !e.Type.IsResolved() {
			return false
		}
	}

	if t.KeyType != nil && !t.KeyType.IsResolved() {
		return false
	}

	return t.ValueType == nil || t.ValueType.IsResolved()
}

func (t *CompoundType) Unparse() string { return "compound" }

// FunctionParameterKind distinguishes in/inout/out parameters.
type FunctionParameterKind uint

// The three parameter-passing modes used by function/hook signatures.
const (
	ParamIn FunctionParameterKind = iota
	ParamInOut
	ParamOut
)

// FunctionParameter names one formal parameter of a FunctionType.
type FunctionParameter struct {
	Name string
	Type *QualifiedType
	Kind FunctionParameterKind
}

// FunctionType is the shape of function/hook/operator signatures.
type FunctionType struct {
	BaseType
	Parameters []FunctionParameter
	Result     *QualifiedType
}

// NewFunctionType constructs a function shape.
func NewFunctionType(params []FunctionParameter, result *QualifiedType) *FunctionType {
	return &FunctionType{NewBaseType(KindFunction), params, result}
}

func (t *FunctionType) Tag() Tag { return TagUnqualifiedType }

func (t *FunctionType) Children() []Node {
	children := make([]Node, 0, len(t.Parameters)+1)
	for _, p := range t.Parameters {
		children = append(children, p.Type)
	}

	if t.Result != nil {
		children = append(children, t.Result)
	}

	return children
}


func (t *FunctionType) IsResolved() bool {
	for _, p := range t.Parameters {
		if !p.Type.IsResolved() {
			return false
		}
	}

	return t.Result == nil || t.Result.IsResolved()
}

func (t *FunctionType) Unparse() string { return "function" }

// ComputedType's shape is produced by a callback evaluated during
// unification rather than fixed up-front -- e.g. the element type of a
// for-comprehension result (SPEC_FULL §E.6, grounded on
// original_source/hilti/include/ast/types/computed.h).
type ComputedType struct {
	BaseType
	// Compute derives the concrete type once its dependency is resolved.
	Compute func() *QualifiedType
	cache    *QualifiedType
}

// NewComputedType constructs a type whose shape is deferred to Compute.
func NewComputedType(compute func() *QualifiedType) *ComputedType {
	return &ComputedType{NewBaseType(KindComputed), compute, nil}
}

// Resolve evaluates (and memoizes) the underlying concrete type.
func (t *ComputedType) Resolve() *QualifiedType {
	if t.cache == nil {
		t.cache = t.Compute()
	}

	return t.cache
}

func (t *ComputedType) Tag() Tag         { return TagUnqualifiedType }
func (t *ComputedType) Children() []Node { return nil }

func (t *ComputedType) IsResolved() bool {
	r := t.Resolve()
	return r != nil && r.IsResolved()
}

func (t *ComputedType) Unparse() string { return "computed" }

// NameType is an unresolved reference to a declared type by ID, resolved to
// a TypeDecl via the scope/ID resolver (§4.3).
type NameType struct {
	BaseType
	Name        ID
	Declaration *TypeDecl
}

// NewNameType constructs an (initially unresolved) name-type reference.
func NewNameType(name ID) *NameType {
	return &NameType{NewBaseType(KindName), name, nil}
}

func (t *NameType) Tag() Tag         { return TagUnqualifiedType }
func (t *NameType) Children() []Node { return nil }
func (t *NameType) IsResolved() bool  { return t.Declaration != nil }
func (t *NameType) Unparse() string   { return t.Name.String() }

// VoidType, AutoType and UnknownType are the three "no concrete shape yet (or
// ever)" markers.
type VoidType struct{ BaseType }
type AutoType struct {
	BaseType
	// Inferred is set once an initializer's resolved type has been
	// propagated (§4.2 Auto inference).
	Inferred *QualifiedType
}
type UnknownType struct{ BaseType }

// NewVoidType, NewAutoType and NewUnknownType construct the three markers.
func NewVoidType() *VoidType       { return &VoidType{NewBaseType(KindVoid)} }
func NewAutoType() *AutoType       { return &AutoType{NewBaseType(KindAuto), nil} }
func NewUnknownType() *UnknownType { return &UnknownType{NewBaseType(KindUnknown)} }

func (t *VoidType) Tag() Tag         { return TagUnqualifiedType }
func (t *VoidType) Children() []Node { return nil }
func (t *VoidType) IsResolved() bool  { return true }
func (t *VoidType) Unparse() string   { return "void" }

func (t *AutoType) Tag() Tag         { return TagUnqualifiedType }
func (t *AutoType) Children() []Node { return nil }
func (t *AutoType) IsResolved() bool  { return t.Inferred != nil && t.Inferred.IsResolved() }
func (t *AutoType) Unparse() string   { return "auto" }

func (t *UnknownType) Tag() Tag         { return TagUnqualifiedType }
func (t *UnknownType) Children() []Node { return nil }
func (t *UnknownType) IsResolved() bool  { return false }
func (t *UnknownType) Unparse() string   { return "unknown" }

// Constness distinguishes mutable from immutable qualified types.
type Constness uint

// Const forbids mutation; Mutable allows it.
const (
	Mutable Constness = iota
	Const
)

// Side distinguishes assignable (LHS) from non-assignable (RHS) position.
type Side uint

// RHS is a non-addressable read position; LHS is addressable/assignable.
const (
	RHS Side = iota
	LHS
)

// QualifiedType is an UnqualifiedType plus a Constness and a Side -- the
// currency of expressions (§3).
type QualifiedType struct {
	NodeBase
	Underlying UnqualifiedType
	constness  Constness
	side       Side
}

// NewQualifiedType constructs a qualified type.  It panics if asked to
// construct the forbidden Const+LHS combination (§4.2 Qualified-type rules).
func NewQualifiedType(u UnqualifiedType, c Constness, s Side) *QualifiedType {
	if c == Const && s == LHS {
		panic("const values are not assignable: Const+LHS is forbidden")
	}

	return &QualifiedType{NodeBase{}, u, c, s}
}

func (q *QualifiedType) Tag() Tag         { return TagQualifiedType }
func (q *QualifiedType) Children() []Node { return []Node{q.Underlying} }
func (q *QualifiedType) Unparse() string  { return q.Underlying.Unparse() }

// Constness returns this qualified type's mutability.
func (q *QualifiedType) Constness() Constness { return q.constness }

// Side returns this qualified type's addressability.
func (q *QualifiedType) Side() Side { return q.side }

// IsResolved holds iff the underlying UnqualifiedType is resolved.
func (q *QualifiedType) IsResolved() bool {
	return q.Underlying != nil && q.Underlying.IsResolved()
}

// RecreateAsLhs preserves type identity but flips side/const as needed --
// used for out-parameters and member-assign positions (§4.2).
func (q *QualifiedType) RecreateAsLhs() *QualifiedType {
	return &QualifiedType{NodeBase{}, q.Underlying, Mutable, LHS}
}

// RecreateAsConst returns an equivalent RHS-const view of this type.
func (q *QualifiedType) RecreateAsConst() *QualifiedType {
	return &QualifiedType{NodeBase{}, q.Underlying, Const, RHS}
}

// ValueType returns the element type of a reference/container type, with
// constness propagated down one level per §4.2 ("constness propagates down
// one level into reference/container element types").
func (q *QualifiedType) ValueType() util.Option[*QualifiedType] {
	var elem *QualifiedType

	switch u := q.Underlying.(type) {
	case *ReferenceType:
		elem = u.Element
	case *CompoundType:
		elem = u.ValueType
	default:
		return util.None[*QualifiedType]()
	}

	if elem == nil {
		return util.None[*QualifiedType]()
	}

	if q.constness == Const {
		return util.Some(elem.RecreateAsConst())
	}

	return util.Some(elem)
}
