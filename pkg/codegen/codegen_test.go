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
package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeek/spicy-sub007/internal/testutil"
	"github.com/zeek/spicy-sub007/pkg/ast"
	"github.com/zeek/spicy-sub007/pkg/grammar"
)

var (
	u8Field      = testutil.U8Field
	bareU16Field = testutil.BareU16Field
)

func buildAndAnalyze(t *testing.T, unit *ast.Unit) *grammar.Grammar {
	t.Helper()

	grammar.ClearCache()

	g, err := grammar.BuildAndCache(unit)
	require.NoError(t, err)

	return g
}

func TestLower_00_SequenceOfLiteralFields(t *testing.T) {
	unit := testutil.HeaderUnit()

	g := buildAndAnalyze(t, unit)

	proc, err := Lower(unit, g)
	require.NoError(t, err)
	require.Len(t, proc.Body, 2)
	assert.Equal(t, OpMatchLiteral, proc.Body[0].Kind)
	assert.Equal(t, "magic", proc.Body[0].Field)
	assert.Equal(t, OpMatchLiteral, proc.Body[1].Kind)
}

func TestLower_01_VectorFieldLowersToLoop(t *testing.T) {
	vec := ast.NewUnitField(bareU16Field("items"), true)
	unit := ast.NewUnit("M", nil, []ast.UnitItem{vec})

	g := buildAndAnalyze(t, unit)

	proc, err := Lower(unit, g)
	require.NoError(t, err)
	require.Len(t, proc.Body, 1)
	assert.Equal(t, OpLoopEOD, proc.Body[0].Kind)
}

func TestLower_02_UnfinalizedGrammarRejected(t *testing.T) {
	unit := ast.NewUnit("M", nil, []ast.UnitItem{ast.NewUnitField(u8Field("tag", 'A'), false)})

	g, err := grammar.Build(unit)
	require.NoError(t, err)

	_, err = Lower(unit, g)
	assert.Error(t, err)
}

func TestLower_03_RandomAccessPropertyPropagates(t *testing.T) {
	prop := ast.NewPropertyDecl("random-access", nil)
	unit := ast.NewUnit("M", []*ast.PropertyDecl{prop}, []ast.UnitItem{
		ast.NewUnitField(u8Field("tag", 'A'), false),
	})

	g := buildAndAnalyze(t, unit)

	proc, err := Lower(unit, g)
	require.NoError(t, err)
	assert.True(t, proc.RandomAccess)
}

func TestLower_04_ConvertAttributeLowersToPostParseStep(t *testing.T) {
	field := u8Field("raw", 0x01)
	field.Attributes.Convert = ast.NewIdentifierExpr(ast.NewRelativeID("to_int"))
	unit := ast.NewUnit("M", nil, []ast.UnitItem{ast.NewUnitField(field, false)})

	g := buildAndAnalyze(t, unit)

	proc, err := Lower(unit, g)
	require.NoError(t, err)
	require.Len(t, proc.Body, 1)
	assert.Equal(t, "to_int", proc.Body[0].Convert)
}

func TestEmit_00_RendersUnitParserFunction(t *testing.T) {
	unit := ast.NewUnit("Header", nil, []ast.UnitItem{
		ast.NewUnitField(u8Field("magic", 0xAB), false),
	})

	g := buildAndAnalyze(t, unit)

	proc, err := Lower(unit, g)
	require.NoError(t, err)

	out, err := Emit(proc)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "Header::parse"))
	assert.True(t, strings.Contains(string(out), "match_literal"))
}

func TestEmit_01_LinkerUnitListsEveryRegisteredUnit(t *testing.T) {
	out, err := EmitLinker("Test", []LinkerUnit{
		{UnitType: "Header", SourceFile: "header.cc"},
		{UnitType: "Body", SourceFile: "body.cc"},
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), `register_parser("Header"`))
	assert.True(t, strings.Contains(string(out), `register_parser("Body"`))
}
