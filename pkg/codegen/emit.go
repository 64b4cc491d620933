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
	"bytes"
	"embed"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var parsedTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Emit renders proc's generated C++ translation unit. The per-module linker
// translation unit gluing several units' outputs together (§4.8 "codegen
// each module") is produced the same way, via EmitLinker.
func Emit(proc *Procedure) ([]byte, error) {
	var buf bytes.Buffer

	if err := parsedTemplates.ExecuteTemplate(&buf, "unit_parser.cc.tmpl", proc); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// LinkerUnit names one compiled unit's generated symbol for inclusion in a
// module's linker translation unit.
type LinkerUnit struct {
	UnitType   string
	SourceFile string
}

// EmitLinker renders the translation unit that #includes every compiled
// unit's generated source and registers each with the runtime's parser
// table, closing out the module driver's codegen step.
func EmitLinker(module string, units []LinkerUnit) ([]byte, error) {
	var buf bytes.Buffer

	data := struct {
		Module string
		Units  []LinkerUnit
	}{module, units}

	if err := parsedTemplates.ExecuteTemplate(&buf, "linker.cc.tmpl", data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
