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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeek/spicy-sub007/pkg/ast"
	"github.com/zeek/spicy-sub007/pkg/types"
)

func u8Const(v int64) ast.Expr {
	t := ast.NewQualifiedType(ast.NewScalarType(ast.KindUInt, 8), ast.Mutable, ast.RHS)
	return ast.NewLiteralCtor(v, t)
}

func boolConst(v bool) ast.Expr {
	t := ast.NewQualifiedType(ast.NewScalarType(ast.KindBool, 0), ast.Mutable, ast.RHS)
	return ast.NewLiteralCtor(v, t)
}

func vectorOfUint8() ast.Expr {
	elem := ast.NewQualifiedType(ast.NewScalarType(ast.KindUInt, 8), ast.Mutable, ast.RHS)
	ct := ast.NewContainerType(ast.KindVector, nil, elem)
	t := ast.NewQualifiedType(ct, ast.Mutable, ast.RHS)
	return ast.NewLiteralCtor(nil, t)
}

func TestResolve_00_ArithmeticPlusOnMatchingUints(t *testing.T) {
	u := ast.NewUnresolvedOperatorExpr(ast.OpArithmetic, "+", []ast.Expr{u8Const(1), u8Const(2)})

	resolved, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.NoError(t, err)
	assert.NotNil(t, resolved.Type())
}

func TestResolve_01_ArithmeticUnknownNameFails(t *testing.T) {
	u := ast.NewUnresolvedOperatorExpr(ast.OpArithmetic, "%%", []ast.Expr{u8Const(1), u8Const(2)})

	_, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.Error(t, err)

	var opErr *Error
	require.ErrorAs(t, err, &opErr)
	assert.False(t, opErr.Ambiguous)
}

func TestResolve_02_ComparisonResultIsBool(t *testing.T) {
	u := ast.NewUnresolvedOperatorExpr(ast.OpComparison, "==", []ast.Expr{u8Const(1), u8Const(1)})

	resolved, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.NoError(t, err)

	st, ok := resolved.Type().Underlying.(*ast.ScalarType)
	require.True(t, ok)
	assert.Equal(t, ast.KindBool, st.Kind())
}

func TestResolve_03_VectorSizeRejectsNonContainer(t *testing.T) {
	u := ast.NewUnresolvedOperatorExpr(ast.OpMemberCall, "size", []ast.Expr{u8Const(1)})

	_, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.Error(t, err, "size on a non-vector/non-map operand must not resolve")
}

func TestResolve_04_VectorSizeAcceptsVector(t *testing.T) {
	u := ast.NewUnresolvedOperatorExpr(ast.OpMemberCall, "size", []ast.Expr{vectorOfUint8()})

	resolved, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.NoError(t, err)

	st, ok := resolved.Type().Underlying.(*ast.ScalarType)
	require.True(t, ok)
	assert.Equal(t, ast.KindUInt, st.Kind())
}

func TestResolve_05_VectorIndexYieldsElementType(t *testing.T) {
	idx := ast.NewQualifiedType(ast.NewScalarType(ast.KindUInt, 64), ast.Mutable, ast.RHS)
	u := ast.NewUnresolvedOperatorExpr(ast.OpIndex, "", []ast.Expr{vectorOfUint8(), ast.NewLiteralCtor(int64(0), idx)})

	resolved, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.NoError(t, err)

	st, ok := resolved.Type().Underlying.(*ast.ScalarType)
	require.True(t, ok)
	assert.Equal(t, ast.KindUInt, st.Kind())
	assert.Equal(t, uint(8), st.Width)
}

func TestResolve_06_ArityOutOfRangeIsNoMatch(t *testing.T) {
	u := ast.NewUnresolvedOperatorExpr(ast.OpArithmetic, "+", []ast.Expr{u8Const(1)})

	_, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.Error(t, err, "arithmetic + is binary, a single operand must not match")
}

func TestResolve_07_RegistryGetRoundTrips(t *testing.T) {
	u := ast.NewUnresolvedOperatorExpr(ast.OpComparison, "<", []ast.Expr{u8Const(1), u8Const(2)})

	resolved, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.NoError(t, err)

	op := Global.Get(resolved.OperatorRef)
	require.NotNil(t, op)
	assert.Equal(t, "<", op.Name)
}

func TestResolve_08_BoolOperandDoesNotMatchArithmetic(t *testing.T) {
	u := ast.NewUnresolvedOperatorExpr(ast.OpArithmetic, "+", []ast.Expr{boolConst(true), boolConst(false)})

	_, err := Resolve(Global, u, types.TryExact|types.TryConstPromotion)
	require.Error(t, err, "arithmetic operators require a scalar int/uint/real operand 0")
}
