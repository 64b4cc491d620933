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
package types

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/zeek/spicy-sub007/pkg/ast"
)

// Style is a bitflag mask selecting which coercion transformations an
// individual Coerce call is permitted to apply (§4.5).
type Style uint

// The coercion styles named by the spec. A caller typically ORs several
// together, e.g. Assignment|TryConstPromotion|TryTypeAssignment.
const (
	TryExact Style = 1 << iota
	TryConstPromotion
	TryTypeAssignment
	Assignment
	FunctionCall
	Declaration
	DisallowTypeChanges
)

func (s Style) has(flag Style) bool { return s&flag != 0 }

// Error reports a coercion that could not be performed, naming both sides
// and which rule rejected it.
type Error struct {
	From, To string
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot coerce %s to %s: %s", e.From, e.To, e.Reason)
}

// Coerce rewrites expr to match dest under the given style mask, calling
// back into the unifier to compare candidate types, or returns an Error
// naming the first rule that failed.
func Coerce(expr ast.Expr, dest *ast.QualifiedType, style Style) (ast.Expr, error) {
	src := expr.Type()
	if src == nil || dest == nil {
		return nil, &Error{"<unset>", "<unset>", "both sides must be typed before coercion"}
	}

	if Equal(src.Underlying, dest.Underlying) {
		if q, err := coerceQualification(expr, src, dest, style); err == nil {
			return q, nil
		}
	}

	if style.has(DisallowTypeChanges) {
		return nil, &Error{Unify(src.Underlying), Unify(dest.Underlying), "DisallowTypeChanges forbids any non-exact coercion"}
	}

	if style.has(TryExact) && !style.has(TryConstPromotion) && !style.has(TryTypeAssignment) {
		return nil, &Error{Unify(src.Underlying), Unify(dest.Underlying), "TryExact requires identical unified types"}
	}

	if coerced, ok := tryStructural(expr, src, dest, style); ok {
		return coerceQualification(coerced, coerced.Type(), dest, style)
	}

	return nil, &Error{Unify(src.Underlying), Unify(dest.Underlying), "no applicable coercion rule"}
}

// coerceQualification applies the constness/side adjustment once the
// underlying shapes already match, per §4.2's qualified-type rules.
func coerceQualification(expr ast.Expr, src, dest *ast.QualifiedType, style Style) (ast.Expr, error) {
	if src.Constness() == dest.Constness() {
		return expr, nil
	}

	if src.Constness() == ast.Mutable && dest.Constness() == ast.Const {
		if !style.has(TryConstPromotion) && !style.has(Assignment) && !style.has(Declaration) {
			return nil, &Error{Unify(src.Underlying), Unify(dest.Underlying), "const promotion not enabled by style"}
		}

		return withConst(expr, dest), nil
	}

	return nil, &Error{Unify(src.Underlying), Unify(dest.Underlying), "cannot coerce const to mutable"}
}

func withConst(expr ast.Expr, dest *ast.QualifiedType) ast.Expr {
	return ast.NewResolvedOperatorExpr(0, ast.OpCast, []ast.Expr{expr}, dest)
}

// tryStructural attempts the shape-changing coercions: integer
// widening/literal adaptation, reference-kind shifts, tuple element-wise
// coercion, optional/result wrapping, and struct-ctor-to-named-type.
func tryStructural(expr ast.Expr, src, dest *ast.QualifiedType, style Style) (ast.Expr, bool) {
	if coerced, ok := tryIntegerWidening(expr, src, dest); ok {
		return coerced, true
	}

	if coerced, ok := tryLiteralAdaptation(expr, src, dest); ok {
		return coerced, true
	}

	if coerced, ok := tryReferenceShift(expr, src, dest, style); ok {
		return coerced, true
	}

	if coerced, ok := tryTupleWise(expr, src, dest, style); ok {
		return coerced, true
	}

	if coerced, ok := tryOptionalResultWrap(expr, src, dest, style); ok {
		return coerced, true
	}

	if coerced, ok := tryStructCtor(expr, dest); ok {
		return coerced, true
	}

	return nil, false
}

// tryIntegerWidening allows int[N]->int[M] and uint[N]->uint[M] for M>=N
// only -- narrowing is never performed implicitly (§4.5).
func tryIntegerWidening(expr ast.Expr, src, dest *ast.QualifiedType) (ast.Expr, bool) {
	ss, ok1 := src.Underlying.(*ast.ScalarType)
	ds, ok2 := dest.Underlying.(*ast.ScalarType)

	if !ok1 || !ok2 {
		return nil, false
	}

	if ss.Kind() != ds.Kind() || (ss.Kind() != ast.KindInt && ss.Kind() != ast.KindUInt) {
		return nil, false
	}

	if ds.Width < ss.Width {
		return nil, false
	}

	return ast.NewResolvedOperatorExpr(0, ast.OpCast, []ast.Expr{expr}, dest), true
}

// tryLiteralAdaptation allows a LiteralCtor, or a constant-expression tree
// of arithmetic over LiteralCtors (e.g. a unit's `&size=4+4`), to change
// signedness (and width) if the folded value's bit length fits the
// destination width without changing its numeric meaning.
func tryLiteralAdaptation(expr ast.Expr, src, dest *ast.QualifiedType) (ast.Expr, bool) {
	ds, ok := dest.Underlying.(*ast.ScalarType)
	if !ok || (ds.Kind() != ast.KindInt && ds.Kind() != ast.KindUInt) {
		return nil, false
	}

	value, ok := foldConstantExpr(expr)
	if !ok {
		return nil, false
	}

	if ds.Kind() == ast.KindUInt && value.Sign() < 0 {
		return nil, false
	}

	if !foldedValueFits(value, ds.Width, ds.Kind() == ast.KindInt) {
		return nil, false
	}

	return ast.NewLiteralCtor(value, dest), true
}

// foldConstantExpr recursively folds a constant-expression operand tree —
// a bare integer literal, or nested arithmetic over literals, as a unit
// attribute expression like `&size=4+4` parses to before operator
// resolution gives it an OperatorRef — into a single integer. Addition,
// subtraction, and multiplication run through fr.Element, the same
// field-arithmetic type the rest of the pipeline treats as its native
// integer representation; division and remainder fall back to plain
// big.Int since field inversion is not integer division.
func foldConstantExpr(expr ast.Expr) (*big.Int, bool) {
	switch e := expr.(type) {
	case *ast.LiteralCtor:
		return literalAsBigInt(e.Value)
	case *ast.UnresolvedOperatorExpr:
		return foldArithmeticNode(e.Kind, e.Name, e.Operands)
	default:
		return nil, false
	}
}

func foldArithmeticNode(kind ast.OperatorKind, name string, operands []ast.Expr) (*big.Int, bool) {
	if kind != ast.OpArithmetic || len(operands) != 2 {
		return nil, false
	}

	lhs, ok := foldConstantExpr(operands[0])
	if !ok {
		return nil, false
	}

	rhs, ok := foldConstantExpr(operands[1])
	if !ok {
		return nil, false
	}

	switch name {
	case "+":
		return foldFieldOp(lhs, rhs, func(z, x, y *fr.Element) { z.Add(x, y) }), true
	case "-":
		if lhs.Cmp(rhs) < 0 {
			// Negative intermediate results fall outside what this folder
			// supports; callers treat this as "does not fold".
			return nil, false
		}

		return foldFieldOp(lhs, rhs, func(z, x, y *fr.Element) { z.Sub(x, y) }), true
	case "*":
		return foldFieldOp(lhs, rhs, func(z, x, y *fr.Element) { z.Mul(x, y) }), true
	case "/":
		if rhs.Sign() == 0 {
			return nil, false
		}

		return new(big.Int).Quo(lhs, rhs), true
	case "%":
		if rhs.Sign() == 0 {
			return nil, false
		}

		return new(big.Int).Rem(lhs, rhs), true
	default:
		return nil, false
	}
}

// foldFieldOp runs one binary field-arithmetic step of foldArithmeticNode,
// reducing both operands into fr.Element, applying op, and reading the
// result back out. Below the field's modulus (every representable Spicy
// integer width) this is exact integer arithmetic.
func foldFieldOp(lhs, rhs *big.Int, op func(z, x, y *fr.Element)) *big.Int {
	var x, y, z fr.Element

	x.SetBigInt(lhs)
	y.SetBigInt(rhs)
	op(&z, &x, &y)

	return z.BigInt(new(big.Int))
}

// literalAsBigInt extracts an integer value from a Ctor's raw Value payload,
// which the parser populates with either int64 or *big.Int depending on
// magnitude.
func literalAsBigInt(value any) (*big.Int, bool) {
	switch v := value.(type) {
	case int64:
		return big.NewInt(v), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case *big.Int:
		return v, true
	default:
		return nil, false
	}
}

// foldedValueFits checks an already-folded constant's magnitude against a
// destination bit width, accounting for two's-complement signed storage.
// The folding itself (field-element arithmetic where it does real work)
// happens in foldConstantExpr; this is a plain range check over its result.
func foldedValueFits(value *big.Int, width uint, signed bool) bool {
	abs := new(big.Int).Abs(value)
	bits := uint(abs.BitLen())

	if signed && value.Sign() < 0 {
		// Two's-complement negatives need one fewer magnitude bit than the
		// full width.
		return bits <= width-1 || (width > 0 && abs.Cmp(new(big.Int).Lsh(big.NewInt(1), width-1)) <= 0)
	}

	if signed {
		return bits <= width-1
	}

	return bits <= width
}

// tryReferenceShift allows value_ref<->strong_ref when their element types
// are identical and the coercion is in a position that permits it (function
// call or assignment, per §4.5).
func tryReferenceShift(expr ast.Expr, src, dest *ast.QualifiedType, style Style) (ast.Expr, bool) {
	sr, ok1 := src.Underlying.(*ast.ReferenceType)
	dr, ok2 := dest.Underlying.(*ast.ReferenceType)

	if !ok1 || !ok2 || sr.Kind_ == dr.Kind_ {
		return nil, false
	}

	if !style.has(FunctionCall) && !style.has(Assignment) && !style.has(TryTypeAssignment) {
		return nil, false
	}

	if !Equal(sr.Element.Underlying, dr.Element.Underlying) {
		return nil, false
	}

	return ast.NewResolvedOperatorExpr(0, ast.OpCast, []ast.Expr{expr}, dest), true
}

// tryTupleWise coerces a TupleCtor element-wise against a tuple destination
// type of matching arity.
func tryTupleWise(expr ast.Expr, src, dest *ast.QualifiedType, style Style) (ast.Expr, bool) {
	tuple, ok := expr.(*ast.TupleCtor)
	if !ok {
		return nil, false
	}

	dt, ok := dest.Underlying.(*ast.CompoundType)
	if !ok || dt.Kind() != ast.KindTuple || len(dt.Elements) != len(tuple.Elements) {
		return nil, false
	}

	coerced := make([]ast.Expr, len(tuple.Elements))

	for i, elem := range tuple.Elements {
		c, err := Coerce(elem, dt.Elements[i].Type, style)
		if err != nil {
			return nil, false
		}

		coerced[i] = c
	}

	result := ast.NewTupleCtor(coerced)
	result.SetType(dest)

	return result, true
}

// tryOptionalResultWrap wraps expr in an implicit optional(T)/result(T)
// construction when dest is one of those container kinds and expr's type
// coerces to the element type.
func tryOptionalResultWrap(expr ast.Expr, src, dest *ast.QualifiedType, style Style) (ast.Expr, bool) {
	dt, ok := dest.Underlying.(*ast.CompoundType)
	if !ok || (dt.Kind() != ast.KindOptional && dt.Kind() != ast.KindResult) {
		return nil, false
	}

	if sdt, ok := src.Underlying.(*ast.CompoundType); ok && sdt.Kind() == dt.Kind() {
		return nil, false
	}

	inner, err := Coerce(expr, dt.ValueType, style)
	if err != nil {
		return nil, false
	}

	op := ast.OpSum
	wrapped := ast.NewResolvedOperatorExpr(0, op, []ast.Expr{inner}, dest)

	return wrapped, true
}

// tryStructCtor coerces a StructCtor to a declared struct/unit type when
// dest names a TypeDecl whose underlying shape is a matching struct.
func tryStructCtor(expr ast.Expr, dest *ast.QualifiedType) (ast.Expr, bool) {
	ctor, ok := expr.(*ast.StructCtor)
	if !ok {
		return nil, false
	}

	name, ok := dest.Underlying.(*ast.NameType)
	if !ok || name.Declaration == nil {
		return nil, false
	}

	decl, ok := name.Declaration.Type.Underlying.(*ast.CompoundType)
	if !ok || decl.Kind() != ast.KindStruct {
		return nil, false
	}

	for _, field := range decl.Elements {
		if _, present := ctor.Fields[field.Name]; !present {
			return nil, false
		}
	}

	ctor.SetType(dest)

	return ctor, true
}
