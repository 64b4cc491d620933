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
package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeek/spicy-sub007/internal/testutil"
	"github.com/zeek/spicy-sub007/pkg/ast"
	"github.com/zeek/spicy-sub007/pkg/grammar"
)

func headerModule() *Module {
	return &Module{AST: testutil.HeaderModule(), Units: []*ast.Unit{testutil.HeaderUnit()}}
}

func TestCompile_00_EmptyModuleListErrors(t *testing.T) {
	grammar.ClearCache()
	d := New(DefaultConfig())

	_, err := d.Compile(nil)
	assert.Error(t, err)
}

func TestCompile_01_SingleUnitCompilesCleanly(t *testing.T) {
	grammar.ClearCache()
	d := New(DefaultConfig())

	res, err := d.Compile([]*Module{headerModule()})
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	assert.Contains(t, res.Grammars, "Header")
	assert.Contains(t, res.Sources, "Header.cc")
	assert.NotEmpty(t, res.Linker)
}

func TestCompile_02_UnresolvedFieldTypeIsReportedAndSkipsCodegen(t *testing.T) {
	grammar.ClearCache()
	d := New(DefaultConfig())

	uid := ast.ModuleUID{ID: ast.NewID("Bad"), CanonicalPath: "bad.spicy", ParseExtension: ast.Spicy, ProcessExtension: ast.Compiled}
	mod := ast.NewModule(uid, nil)
	unit := ast.NewUnit("Broken", nil, []ast.UnitItem{
		ast.NewUnitField(ast.NewFieldDecl("x", nil, ast.FieldAttributes{}), false),
	})

	res, err := d.Compile([]*Module{{AST: mod, Units: []*ast.Unit{unit}}})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Errors)
	assert.Empty(t, res.Sources)
}
