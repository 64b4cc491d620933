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
package operator

import "github.com/zeek/spicy-sub007/pkg/ast"

// ---------------------------------------------------------------------------
// Operand rule helpers, grounded on the formal-type callbacks
// original_source/hilti/include/ast/operators/{map,vector,regexp}.h build
// with operator_::sameTypeAs / operator_::elementType / operator_::dereferencedType.
// ---------------------------------------------------------------------------

// sameTypeAs requires operand i's type, whatever it resolves to, as the
// formal type for the position using this rule (the "operator_::sameTypeAs"
// idiom -- e.g. both sides of an element-wise vector comparison).
func sameTypeAs(i int) OperandRule {
	return func(operands []ast.Expr) (*ast.QualifiedType, bool) {
		t := operands[i].Type()
		if t == nil {
			return nil, false
		}

		return t, true
	}
}

// requireContainer rejects the candidate unless operand i is already a
// container of the given kind, and otherwise accepts it unchanged.
func requireContainer(i int, kind ast.TypeKind) OperandRule {
	return func(operands []ast.Expr) (*ast.QualifiedType, bool) {
		t := operands[i].Type()
		if t == nil {
			return nil, false
		}

		ct, ok := t.Underlying.(*ast.CompoundType)
		if !ok || ct.Kind() != kind {
			return nil, false
		}

		return t, true
	}
}

// elementTypeOf requires operand i to already be a container and yields its
// element (ValueType) as the formal type -- the "operator_::elementType"
// idiom used by map::Get/vector's non-const index.
func elementTypeOf(i int) OperandRule {
	return func(operands []ast.Expr) (*ast.QualifiedType, bool) {
		t := operands[i].Type()
		if t == nil {
			return nil, false
		}

		elem := t.ValueType()
		if elem.IsEmpty() {
			return nil, false
		}

		return elem.Unwrap(), true
	}
}

func fixed(t *ast.QualifiedType) OperandRule {
	return func([]ast.Expr) (*ast.QualifiedType, bool) { return t, true }
}

func anyOperand() OperandRule {
	return func([]ast.Expr) (*ast.QualifiedType, bool) { return nil, true }
}

func uintType(width uint) *ast.QualifiedType {
	return ast.NewQualifiedType(ast.NewScalarType(ast.KindUInt, width), ast.Mutable, ast.RHS)
}

func boolType() *ast.QualifiedType {
	return ast.NewQualifiedType(ast.NewScalarType(ast.KindBool, 0), ast.Mutable, ast.RHS)
}

func voidType() *ast.QualifiedType {
	return ast.NewQualifiedType(ast.NewVoidType(), ast.Mutable, ast.RHS)
}

// resultFixed builds a ResultRule ignoring its operands.
func resultFixed(t *ast.QualifiedType) ResultRule {
	return func([]ast.Expr) *ast.QualifiedType { return t }
}

// resultElementOf yields operand i's container element type as the result
// (map::Get, vector's index operators).
func resultElementOf(i int) ResultRule {
	return func(operands []ast.Expr) *ast.QualifiedType {
		elem := operands[i].Type().ValueType()
		if elem.IsEmpty() {
			return nil
		}

		return elem.Unwrap()
	}
}

// resultSameAs yields operand i's own type as the result (vector::Sum's
// concatenation result, same shape as its operands).
func resultSameAs(i int) ResultRule {
	return func(operands []ast.Expr) *ast.QualifiedType { return operands[i].Type() }
}

// init registers the built-in operator set every module can call without an
// explicit declaration, mirroring the teacher's package-level INTRINSICS
// table (pkg/corset/compiler/intrinsics.go) being populated once at import
// time. Kinds/names are grounded on
// original_source/hilti/include/ast/operators/{map,vector,regexp}.h.
func init() {
	registerArithmetic(Global)
	registerComparison(Global)
	registerVector(Global)
	registerMap(Global)
	registerRegexp(Global)
}

func registerArithmetic(r *Registry) {
	for _, kind := range []ast.TypeKind{ast.KindInt, ast.KindUInt, ast.KindReal} {
		k := kind

		r.Register(&Operator{
			Kind: ast.OpArithmetic, Name: "+", MinArity: 2, MaxArity: 2,
			Operands: []OperandRule{scalarOfKind(0, k), sameTypeAs(0)},
			Result:   resultSameAs(0),
			Doc:      "Adds two numbers of the same kind.",
		})
		r.Register(&Operator{
			Kind: ast.OpArithmetic, Name: "-", MinArity: 2, MaxArity: 2,
			Operands: []OperandRule{scalarOfKind(0, k), sameTypeAs(0)},
			Result:   resultSameAs(0),
			Doc:      "Subtracts two numbers of the same kind.",
		})
		r.Register(&Operator{
			Kind: ast.OpArithmetic, Name: "*", MinArity: 2, MaxArity: 2,
			Operands: []OperandRule{scalarOfKind(0, k), sameTypeAs(0)},
			Result:   resultSameAs(0),
			Doc:      "Multiplies two numbers of the same kind.",
		})
		r.Register(&Operator{
			Kind: ast.OpArithmetic, Name: "/", MinArity: 2, MaxArity: 2,
			Operands: []OperandRule{scalarOfKind(0, k), sameTypeAs(0)},
			Result:   resultSameAs(0),
			Doc:      "Divides two numbers of the same kind.",
		})
	}
}

// scalarOfKind rejects the candidate unless operand i is a scalar of the
// given kind (regardless of width), and otherwise accepts it unchanged.
func scalarOfKind(i int, kind ast.TypeKind) OperandRule {
	return func(operands []ast.Expr) (*ast.QualifiedType, bool) {
		t := operands[i].Type()
		if t == nil {
			return nil, false
		}

		st, ok := t.Underlying.(*ast.ScalarType)
		if !ok || st.Kind() != kind {
			return nil, false
		}

		return t, true
	}
}

func registerComparison(r *Registry) {
	for _, name := range []string{"==", "!=", "<", ">", "<=", ">="} {
		r.Register(&Operator{
			Kind: ast.OpComparison, Name: name, MinArity: 2, MaxArity: 2,
			Operands: []OperandRule{anyOperand(), sameTypeAs(0)},
			Result:   resultFixed(boolType()),
			Doc:      "Compares two values of the same type.",
		})
	}
}

func registerVector(r *Registry) {
	r.Register(&Operator{
		Kind: ast.OpMemberCall, Name: "size", MinArity: 1, MaxArity: 1,
		Operands: []OperandRule{requireContainer(0, ast.KindVector)},
		Result:   resultFixed(uintType(64)),
		Doc:      "Returns the number of elements a vector contains.",
	})
	r.Register(&Operator{
		Kind: ast.OpIndex, MinArity: 2, MaxArity: 2,
		Operands: []OperandRule{requireContainer(0, ast.KindVector), fixed(uintType(64))},
		Result:   resultElementOf(0),
		Doc:      "Returns the vector element at the given index.",
	})
	r.Register(&Operator{
		Kind: ast.OpMemberCall, Name: "push_back", MinArity: 2, MaxArity: 2,
		Operands: []OperandRule{requireContainer(0, ast.KindVector), elementTypeOf(0)},
		Result:   resultFixed(voidType()),
		Doc:      "Appends a value to the end of the vector.",
	})
	r.Register(&Operator{
		Kind: ast.OpSum, MinArity: 2, MaxArity: 2,
		Operands: []OperandRule{requireContainer(0, ast.KindVector), sameTypeAs(0)},
		Result:   resultSameAs(0),
		Doc:      "Returns the concatenation of two vectors.",
	})
}

func registerMap(r *Registry) {
	r.Register(&Operator{
		Kind: ast.OpMemberCall, Name: "size", MinArity: 1, MaxArity: 1,
		Operands: []OperandRule{requireContainer(0, ast.KindMap)},
		Result:   resultFixed(uintType(64)),
		Doc:      "Returns the number of elements a map contains.",
	})
	r.Register(&Operator{
		Kind: ast.OpIndex, MinArity: 2, MaxArity: 2,
		Operands: []OperandRule{requireContainer(0, ast.KindMap), anyOperand()},
		Result:   resultElementOf(0),
		Doc:      "Returns the map's element for the given key.",
	})
	r.Register(&Operator{
		Kind: ast.OpMemberCall, Name: "get", MinArity: 2, MaxArity: 3,
		Operands: []OperandRule{requireContainer(0, ast.KindMap), anyOperand(), anyOperand()},
		Result:   resultElementOf(0),
		Doc:      "Returns the map's element for the given key, or a default.",
	})
	r.Register(&Operator{
		Kind: ast.OpHasMember, Name: "in", MinArity: 2, MaxArity: 2,
		Operands: []OperandRule{anyOperand(), requireContainer(1, ast.KindMap)},
		Result:   resultFixed(boolType()),
		Doc:      "Returns true if a key is part of the map.",
	})
}

func registerRegexp(r *Registry) {
	bytesType := ast.NewQualifiedType(ast.NewScalarType(ast.KindBytes, 0), ast.Mutable, ast.RHS)

	r.Register(&Operator{
		Kind: ast.OpMemberCall, Name: "match", MinArity: 2, MaxArity: 2,
		Operands: []OperandRule{scalarOfKind(0, ast.KindRegExp), fixed(bytesType)},
		Result:   resultFixed(uintType(32)),
		Doc:      "Matches a regular expression against the given bytes, returning the matching group index.",
	})
}
