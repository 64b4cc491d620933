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

// Package loader builds pkg/driver.Module values from a small JSON module
// description, standing in for the Spicy/HILTI surface lexer and parser
// that spec.md's scope recap excludes (front-end grammar implementation is
// explicitly out of scope -- the driver picks up from an already-parsed
// AST). It only covers the scalar-field subset of units (no switches,
// vectors, or hooks); cmd/spicyc's compile subcommand uses it to exercise
// the rest of the pipeline end to end from the command line without a real
// front end.
package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zeek/spicy-sub007/pkg/ast"
	"github.com/zeek/spicy-sub007/pkg/driver"
)

// doc is the on-disk JSON shape: a module name plus a flat list of units,
// each a flat list of scalar fields.
type doc struct {
	Module string    `json:"module"`
	Units  []unitDoc `json:"units"`
}

type unitDoc struct {
	Name   string     `json:"name"`
	Fields []fieldDoc `json:"fields"`
}

type fieldDoc struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"` // "uint" | "int" | "bytes"
	Width uint   `json:"width"`
}

// Load parses a JSON module description from r into a driver.Module.
func Load(r io.Reader) (*driver.Module, error) {
	var d doc

	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("loader: invalid module description: %w", err)
	}

	if d.Module == "" {
		return nil, fmt.Errorf("loader: module description is missing \"module\"")
	}

	uid := ast.ModuleUID{
		ID:               ast.NewID(d.Module),
		CanonicalPath:    d.Module + ".spicy",
		ParseExtension:   ast.Spicy,
		ProcessExtension: ast.Compiled,
	}

	mod := &driver.Module{AST: ast.NewModule(uid, nil)}

	for _, ud := range d.Units {
		unit, err := buildUnit(ud)
		if err != nil {
			return nil, err
		}

		mod.Units = append(mod.Units, unit)
	}

	return mod, nil
}

func buildUnit(ud unitDoc) (*ast.Unit, error) {
	items := make([]ast.UnitItem, 0, len(ud.Fields))

	for _, fd := range ud.Fields {
		field, err := buildField(fd)
		if err != nil {
			return nil, fmt.Errorf("loader: unit %q: %w", ud.Name, err)
		}

		items = append(items, ast.NewUnitField(field, false))
	}

	return ast.NewUnit(ud.Name, nil, items), nil
}

func buildField(fd fieldDoc) (*ast.FieldDecl, error) {
	var underlying ast.UnqualifiedType

	switch fd.Kind {
	case "uint":
		underlying = ast.NewScalarType(ast.KindUInt, fd.Width)
	case "int":
		underlying = ast.NewScalarType(ast.KindInt, fd.Width)
	case "bytes":
		underlying = ast.NewScalarType(ast.KindBytes, 0)
	default:
		return nil, fmt.Errorf("field %q: unknown kind %q", fd.Name, fd.Kind)
	}

	typ := ast.NewQualifiedType(underlying, ast.Mutable, ast.RHS)

	return ast.NewFieldDecl(fd.Name, typ, ast.FieldAttributes{}), nil
}
