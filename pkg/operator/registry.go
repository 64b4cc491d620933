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

// Package operator implements the global operator registry and overload
// resolver (§4.4): operators are registered once at process start, indexed
// by kind (or by name for Call/MemberCall), and resolved against a set of
// operand expressions by attempting coercion against each candidate's
// formal operand types.
package operator

import "github.com/zeek/spicy-sub007/pkg/ast"

// OperandRule computes the formal type an operand must coerce to, given the
// full (still-unresolved) operand list -- e.g. "the element type of operand
// 0" for map::Get, or "the same type as operand 0" for an iterator
// comparison. ok=false rejects the candidate outright (the operand's shape
// never matches, e.g. calling vector::Size on a non-vector); ok=true with a
// nil type means the position accepts any operand without coercion (e.g. a
// cast's source, or map::Delete's key positioned by a dynamic key type). A
// nil entry in Operator.Operands is shorthand for "always accept, no rule".
type OperandRule func(operands []ast.Expr) (formal *ast.QualifiedType, ok bool)

// ResultRule computes an operator's result type from its (already coerced)
// operands.
type ResultRule func(operands []ast.Expr) *ast.QualifiedType

// Operator is the registry's unit of registration: a kind, an optional name
// (meaningful for Call/MemberCall/Custom), an arity range, one OperandRule
// per formal position, a ResultRule, and a priority used to break ties when
// more than one candidate's operands all coerce (§4.4 step 3).
type Operator struct {
	id       uint64
	Kind     ast.OperatorKind
	Name     string
	MinArity int
	MaxArity int
	Operands []OperandRule
	Result   ResultRule
	Priority int
	Native   bool
	Doc      string
}

// ID returns this operator's registry handle, valid once Register has run.
func (o *Operator) ID() uint64 { return o.id }

// Registry is the process-wide operator table (§4.4 "registered globally at
// process start").
type Registry struct {
	ops      []*Operator
	byKind   map[ast.OperatorKind][]*Operator
	byName   map[string][]*Operator
	byMember map[string][]*Operator
}

// NewRegistry constructs an empty operator table.
func NewRegistry() *Registry {
	return &Registry{
		byKind:   map[ast.OperatorKind][]*Operator{},
		byName:   map[string][]*Operator{},
		byMember: map[string][]*Operator{},
	}
}

// Register adds op to the registry, indexing it by kind and (when given) by
// name, and returns the opaque handle a ResolvedOperatorExpr's OperatorRef
// field will later carry.
func (r *Registry) Register(op *Operator) uint64 {
	op.id = uint64(len(r.ops) + 1)
	r.ops = append(r.ops, op)

	r.byKind[op.Kind] = append(r.byKind[op.Kind], op)

	switch op.Kind {
	case ast.OpCall, ast.OpCustom:
		if op.Name != "" {
			r.byName[op.Name] = append(r.byName[op.Name], op)
		}
	case ast.OpMemberCall:
		if op.Name != "" {
			r.byMember[op.Name] = append(r.byMember[op.Name], op)
		}
	}

	return op.id
}

// Get returns the operator a ResolvedOperatorExpr's OperatorRef points to,
// or nil if ref names nothing this registry knows about.
func (r *Registry) Get(ref uint64) *Operator {
	if ref == 0 || ref > uint64(len(r.ops)) {
		return nil
	}

	return r.ops[ref-1]
}

// candidates enumerates the operators eligible to handle an occurrence of
// kind k named name, per §4.4 step 1: Call and Custom are looked up by name
// (falling back to every operator of the kind), MemberCall by member name,
// and every other kind by its Kind, narrowed to the operators registered
// under name when name is non-empty.
func (r *Registry) candidates(k ast.OperatorKind, name string) []*Operator {
	switch k {
	case ast.OpCall, ast.OpCustom:
		if name != "" {
			if named := r.byName[name]; len(named) > 0 {
				return named
			}
		}

		return r.byKind[k]
	case ast.OpMemberCall:
		return r.byMember[name]
	default:
		if name == "" {
			return r.byKind[k]
		}

		var named []*Operator

		for _, op := range r.byKind[k] {
			if op.Name == name {
				named = append(named, op)
			}
		}

		return named
	}
}

// Global is the process-wide registry that builtins.go populates on package
// init, mirroring the teacher's package-level INTRINSICS table.
var Global = NewRegistry()
