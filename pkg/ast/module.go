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
package ast

// ParseExtension selects the front-end grammar a source file is read with.
type ParseExtension uint

// HLT is HILTI IR surface syntax ("*.hlt"); Spicy is Spicy surface syntax
// ("*.spicy") (§6 Source language files).
const (
	HLT ParseExtension = iota
	Spicy
)

// ProcessExtension determines later-stage (linking/emission) handling for a
// module, independent of the grammar it was parsed with (§6).
type ProcessExtension uint

// Compiled modules feed the normal driver pipeline; Linker modules are the
// synthesized per-build linker translation unit (§4.8, §6).
const (
	Compiled ProcessExtension = iota
	Linker
)

// ModuleUID identifies a loaded module by its declared ID, the canonical
// (absolute, symlink-resolved) path it was loaded from, and the two
// extensions that governed how it was parsed and how it will be processed
// (§6 Module UID). Two UIDs with the same CanonicalPath but different
// ProcessExtension are deliberately distinct modules.
type ModuleUID struct {
	ID               ID
	CanonicalPath    string
	ParseExtension   ParseExtension
	ProcessExtension ProcessExtension
}

// Equals performs structural comparison between two module UIDs.
func (u ModuleUID) Equals(other ModuleUID) bool {
	return u.ID.Equals(other.ID) &&
		u.CanonicalPath == other.CanonicalPath &&
		u.ParseExtension == other.ParseExtension &&
		u.ProcessExtension == other.ProcessExtension
}

// Module is a single parsed source file's top-level declarations plus the
// UID it was loaded under. It is the root AST node the driver feeds into
// each pipeline stage (§4.8).
type Module struct {
	NodeBase
	UID          ModuleUID
	Declarations []Declaration
	// Imports lists the modules this one names in "import" statements, in
	// source order, by ID; the driver matches each against the UID.ID of
	// the modules it was given.
	Imports []ID
}

// NewModule constructs a module from its UID and top-level declarations.
func NewModule(uid ModuleUID, decls []Declaration) *Module {
	return &Module{NodeBase{}, uid, decls, nil}
}

func (m *Module) Tag() Tag { return TagModule }

func (m *Module) Children() []Node {
	children := make([]Node, len(m.Declarations))
	for i, d := range m.Declarations {
		children[i] = d
	}

	return children
}

func (m *Module) Unparse() string { return "module " + m.UID.ID.String() }

// IsResolved holds iff every top-level declaration is resolved: the type
// system's declarations (TypeDecl, FunctionDecl, ...) don't each expose a
// uniform IsResolved, so this walks the declaration kinds that do.
func (m *Module) IsResolved() bool {
	for _, d := range m.Declarations {
		if r, ok := d.(Resolvable); ok && !r.IsResolved() {
			return false
		}
	}

	return true
}

// Lookup finds a direct child declaration by its unqualified ID, without
// consulting scope (used before scopes are built, e.g. during parsing's
// duplicate-definition check).
func (m *Module) Lookup(id string) (Declaration, bool) {
	for _, d := range m.Declarations {
		if d.ID() == id {
			return d, true
		}
	}

	return nil, false
}
