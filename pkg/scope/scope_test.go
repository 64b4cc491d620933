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
package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeek/spicy-sub007/pkg/ast"
)

func u8() *ast.QualifiedType {
	return ast.NewQualifiedType(ast.NewScalarType(ast.KindUInt, 8), ast.Mutable, ast.RHS)
}

func TestScope_00_DeclareThenLookupInModuleScope(t *testing.T) {
	mod := ast.NewID("M")
	s := NewModuleScope(mod)

	decl := ast.NewConstantDecl("x", ast.Private, u8(), nil)
	s.Declare("x", decl)

	got, canonical, err := Lookup(s, "x", mod)
	require.NoError(t, err)
	assert.Same(t, ast.Declaration(decl), got)
	assert.Equal(t, "::M::x", canonical.String())
}

func TestScope_01_UnresolvedNameFails(t *testing.T) {
	s := NewModuleScope(ast.NewID("M"))

	_, _, err := Lookup(s, "nope", ast.NewID("M"))
	assert.Error(t, err)
}

func TestScope_02_ChildScopeSeesParentBindings(t *testing.T) {
	mod := ast.NewID("M")
	s := NewModuleScope(mod)
	s.Declare("g", ast.NewConstantDecl("g", ast.Private, u8(), nil))

	child := NewChild(s, KindBlock)
	_, _, err := Lookup(child, "g", mod)
	assert.NoError(t, err)
}

func TestScope_03_PrivateDeclNotVisibleFromOtherModule(t *testing.T) {
	owner := ast.NewID("A")
	importer := ast.NewID("B")

	s := NewModuleScope(owner)
	s.DeclareImported("secret", ast.NewConstantDecl("secret", ast.Private, u8(), nil), owner)

	_, _, err := Lookup(s, "secret", importer)
	assert.Error(t, err, "a private declaration imported from another module stays invisible")
}

func TestScope_04_TypeDeclStaysVisibleAcrossModulesEvenWhenPrivate(t *testing.T) {
	owner := ast.NewID("A")
	importer := ast.NewID("B")

	s := NewModuleScope(owner)
	s.DeclareImported("T", ast.NewTypeDecl("T", ast.Private, u8()), owner)

	_, _, err := Lookup(s, "T", importer)
	assert.NoError(t, err, "TypeDecl is exempt from the private/external rule")
}

func TestScope_05_MultipleNonFunctionCandidatesIsAmbiguous(t *testing.T) {
	mod := ast.NewID("M")
	s := NewModuleScope(mod)
	s.Declare("x", ast.NewConstantDecl("x", ast.Public, u8(), nil))
	s.Declare("x", ast.NewGlobalVariableDecl("x", u8(), nil))

	_, _, err := Lookup(s, "x", mod)
	require.Error(t, err)

	var scopeErr *Error
	require.ErrorAs(t, err, &scopeErr)
	assert.True(t, scopeErr.Ambiguous)
}

func TestScope_06_MultipleFunctionOverloadsIsNotAmbiguous(t *testing.T) {
	mod := ast.NewID("M")
	s := NewModuleScope(mod)

	sig1 := ast.NewFunctionType(nil, u8())
	sig2 := ast.NewFunctionType([]ast.FunctionParameter{{Name: "a", Type: u8()}}, u8())
	s.Declare("f", ast.NewFunctionDecl("f", ast.Public, sig1, ast.NewBlock(nil)))
	s.Declare("f", ast.NewFunctionDecl("f", ast.Public, sig2, ast.NewBlock(nil)))

	_, _, err := Lookup(s, "f", mod)
	assert.NoError(t, err, "an overload set of functions resolves without ambiguity here")
}

func TestScope_07_StopHereHaltsOutwardLookup(t *testing.T) {
	mod := ast.NewID("M")
	s := NewModuleScope(mod)
	s.Declare("x", ast.NewConstantDecl("x", ast.Private, u8(), nil))

	child := NewChild(s, KindBlock)
	child.StopHere("x")

	_, _, err := Lookup(child, "x", mod)
	assert.Error(t, err, "a stop marker prevents the outward walk from ever reaching the parent's binding")
}

func TestScope_08_NoInheritJumpsStraightToModuleScope(t *testing.T) {
	mod := ast.NewID("M")
	s := NewModuleScope(mod)
	s.Declare("g", ast.NewConstantDecl("g", ast.Private, u8(), nil))

	block := NewChild(s, KindBlock)
	block.Declare("shadowed-only-in-block", ast.NewConstantDecl("shadowed-only-in-block", ast.Private, u8(), nil))

	fn := NewChild(block, KindFunctionBody)

	_, _, err := Lookup(fn, "g", mod)
	assert.NoError(t, err, "a function body still reaches the enclosing module scope")

	_, _, err = Lookup(fn, "shadowed-only-in-block", mod)
	assert.Error(t, err, "a function body skips the intermediate block scope entirely")
}
