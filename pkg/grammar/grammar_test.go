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
package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeek/spicy-sub007/internal/testutil"
	"github.com/zeek/spicy-sub007/pkg/ast"
)

var (
	u8Field      = testutil.U8Field
	bareU16Field = testutil.BareU16Field
)

func TestBuild_00_SequenceOfLiteralsIsNotNullable(t *testing.T) {
	unit := testutil.HeaderUnit()

	g, err := Build(unit)
	require.NoError(t, err)
	require.NoError(t, g.Analyze())

	assert.False(t, g.Root.nullable)
	assert.Equal(t, uint(2), g.Alphabet.Len())
}

func TestBuild_01_LookAheadSwitchWithDistinctLiteralsIsUnambiguous(t *testing.T) {
	branchA := ast.NewUnitSwitch(nil, []ast.UnitSwitchCase{
		{Items: []ast.UnitItem{ast.NewUnitField(u8Field("tag", 'A'), false), ast.NewUnitField(bareU16Field("x"), false)}},
		{Items: []ast.UnitItem{ast.NewUnitField(u8Field("tag", 'B'), false), ast.NewUnitField(bareU16Field("y"), false)}},
	}, false)

	unit := ast.NewUnit("M", nil, []ast.UnitItem{branchA})

	g, err := Build(unit)
	require.NoError(t, err)
	require.NoError(t, g.Analyze())

	sw := g.Root.Elements[0]
	require.Equal(t, KindLookAhead, sw.Kind)
	require.Len(t, sw.la, 2)
	assert.Equal(t, uint(0), sw.la[0].IntersectionCardinality(sw.la[1]))
}

func TestBuild_02_LookAheadSwitchWithOverlappingLiteralsIsAmbiguous(t *testing.T) {
	branch := ast.NewUnitSwitch(nil, []ast.UnitSwitchCase{
		{Items: []ast.UnitItem{ast.NewUnitField(u8Field("tag", 'A'), false)}},
		{Items: []ast.UnitItem{ast.NewUnitField(u8Field("tag", 'A'), false)}},
	}, false)

	unit := ast.NewUnit("M", nil, []ast.UnitItem{branch})

	g, err := Build(unit)
	require.NoError(t, err)

	err = g.Analyze()
	require.Error(t, err)

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.True(t, gerr.Ambiguous)
}

func TestBuild_03_GuardedAlternativeBypassesLookAhead(t *testing.T) {
	guard := ast.NewLiteralCtor(true, ast.NewQualifiedType(ast.NewScalarType(ast.KindBool, 0), ast.Mutable, ast.RHS))

	sw := ast.NewUnitSwitch(nil, []ast.UnitSwitchCase{
		{Guard: guard, Items: []ast.UnitItem{ast.NewUnitField(u8Field("tag", 'A'), false)}},
		{Guard: nil, Items: []ast.UnitItem{ast.NewUnitField(u8Field("tag", 'A'), false)}},
	}, true)

	unit := ast.NewUnit("M", nil, []ast.UnitItem{sw})

	g, err := Build(unit)
	require.NoError(t, err)
	require.NoError(t, g.Analyze(), "guarded alternatives are not subject to LA disjointness")

	assert.Equal(t, KindAlternative, g.Root.Elements[0].Kind)
}

func TestBuild_04_VectorFieldIsAlwaysNullable(t *testing.T) {
	vec := ast.NewUnitField(bareU16Field("items"), true)
	unit := ast.NewUnit("M", nil, []ast.UnitItem{vec})

	g, err := Build(unit)
	require.NoError(t, err)
	require.NoError(t, g.Analyze())

	assert.Equal(t, KindWhile, g.Root.Elements[0].Kind)
	assert.True(t, g.Root.Elements[0].nullable)
	assert.True(t, g.Root.nullable, "a unit consisting solely of a vector field can match zero elements")
}

func TestBuild_05_BuildAndCacheReturnsSameGrammarTwice(t *testing.T) {
	ClearCache()

	unit := ast.NewUnit("Cached", nil, []ast.UnitItem{ast.NewUnitField(u8Field("tag", 'A'), false)})

	g1, err := BuildAndCache(unit)
	require.NoError(t, err)

	g2, err := BuildAndCache(unit)
	require.NoError(t, err)

	assert.Same(t, g1, g2)
}
