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

// Package codegen lowers a unit's grammar into generated HILTI IR parsing
// procedures (§4.7): a ParseCursor-driven `parse`/`parse_into` pair, plus the
// per-field helper statements size/while/for-each decomposition needs.
package codegen

// OpKind identifies one step of a lowered field-parsing procedure body.
type OpKind uint

// The step kinds a Production lowers to, one per §4.7 "Field parsing" rule.
const (
	OpRunHooks OpKind = iota
	OpNarrowView
	OpReposition
	OpLoopUntil
	OpLoopWhile
	OpLoopEOD
	OpMatchLiteral
	OpInvokeUnit
	OpAssignField
	OpDiscard
	OpBlock
	OpBranch
	OpLookAheadBranch
	OpYieldForInput
)

// Op is one lowered statement. Which fields are meaningful depends on Kind,
// mirroring the teacher's tagged-union IR node style (ir/mir, ir/air
// constraint/term nodes keyed by a Kind/Tag field).
type Op struct {
	Kind OpKind

	Field string // the unit field this op acts on, if any

	// OpNarrowView / OpReposition
	SizeExpr  string
	ParseAt   string
	ParseFrom string

	// Convert holds a field's &convert= expression, applied to the just-
	// parsed raw value before the field's declared type's own coercion
	// runs (§G Open Question: &convert= precedes declared coercion style).
	Convert string

	// OpLoopUntil / OpLoopWhile
	Cond string

	// OpMatchLiteral
	TerminalForm string

	// OpInvokeUnit
	CalleeType string

	// OpBlock / OpLoopUntil / OpLoopWhile / OpLoopEOD
	Body []Op

	// OpBranch / OpLookAheadBranch
	Branches []OpBranch

	// hook bodies to splice in verbatim (already-typechecked user code is
	// out of scope for this IR; we carry the source unit name + field +
	// event so the emitted C++ can call back into the still-HILTI-IR
	// compiled hook function by its mangled name)
	PreHooks  []string
	PostHooks []string
}

// OpBranch is one arm of a lowered Alternative/LookAhead.
type OpBranch struct {
	Guard string // empty for a LookAhead arm (selected by LA set, not an expression)
	Body  []Op
}

// String names an OpKind the way the emitted-comment / template-dispatch
// code refers to it.
func (k OpKind) String() string {
	switch k {
	case OpRunHooks:
		return "RunHooks"
	case OpNarrowView:
		return "NarrowView"
	case OpReposition:
		return "Reposition"
	case OpLoopUntil:
		return "LoopUntil"
	case OpLoopWhile:
		return "LoopWhile"
	case OpLoopEOD:
		return "LoopEOD"
	case OpMatchLiteral:
		return "MatchLiteral"
	case OpInvokeUnit:
		return "InvokeUnit"
	case OpAssignField:
		return "AssignField"
	case OpDiscard:
		return "Discard"
	case OpBlock:
		return "Block"
	case OpBranch:
		return "Branch"
	case OpLookAheadBranch:
		return "LookAheadBranch"
	case OpYieldForInput:
		return "YieldForInput"
	default:
		return "Unknown"
	}
}

// Procedure is one generated `parse`/`parse_into` body for a unit.
type Procedure struct {
	UnitType   string
	RandomAccess bool
	Body       []Op
}
