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

// Package testutil holds small AST fixture builders shared by pkg/grammar,
// pkg/codegen, and pkg/driver's tests, so the three packages that each need
// "a unit with a fixed-width magic field followed by a length field" build
// it the same way rather than drifting apart under independent edits.
package testutil

import "github.com/zeek/spicy-sub007/pkg/ast"

// U8Field builds a one-byte unsigned field with a literal default, the
// shape every §4.2 fixed-width-with-`&requires`-style magic field test
// needs.
func U8Field(name string, v byte) *ast.FieldDecl {
	typ := ast.NewQualifiedType(ast.NewScalarType(ast.KindUInt, 8), ast.Mutable, ast.RHS)
	attrs := ast.FieldAttributes{Default: ast.NewLiteralCtor(v, typ)}

	return ast.NewFieldDecl(name, typ, attrs)
}

// BareU16Field builds a two-byte unsigned field with no attributes.
func BareU16Field(name string) *ast.FieldDecl {
	typ := ast.NewQualifiedType(ast.NewScalarType(ast.KindUInt, 16), ast.Mutable, ast.RHS)

	return ast.NewFieldDecl(name, typ, ast.FieldAttributes{})
}

// HeaderUnit builds the canonical two-field "magic, then length" test unit
// used across grammar, codegen, and driver tests.
func HeaderUnit() *ast.Unit {
	return ast.NewUnit("Header", nil, []ast.UnitItem{
		ast.NewUnitField(U8Field("magic", 0xAB), false),
		ast.NewUnitField(BareU16Field("length"), false),
	})
}

// HeaderModule returns an empty module AST (ID "Test", no declarations)
// that pkg/driver's pipeline tests pair with HeaderUnit as their input.
func HeaderModule() *ast.Module {
	uid := ast.ModuleUID{ID: ast.NewID("Test"), CanonicalPath: "test.spicy", ParseExtension: ast.Spicy, ProcessExtension: ast.Compiled}

	return ast.NewModule(uid, nil)
}
