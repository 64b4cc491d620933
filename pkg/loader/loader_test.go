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
package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_00_BuildsModuleAndUnitsFromJSON(t *testing.T) {
	src := `{
		"module": "Demo",
		"units": [
			{"name": "Header", "fields": [
				{"name": "magic", "kind": "uint", "width": 8},
				{"name": "length", "kind": "uint", "width": 16}
			]}
		]
	}`

	mod, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "::Demo", mod.AST.UID.ID.String())
	require.Len(t, mod.Units, 1)
	assert.Equal(t, "Header", mod.Units[0].TypeID)
	assert.Len(t, mod.Units[0].Body, 2)
}

func TestLoad_01_MissingModuleNameFails(t *testing.T) {
	_, err := Load(strings.NewReader(`{"units": []}`))
	require.Error(t, err)
}

func TestLoad_02_UnknownFieldKindFails(t *testing.T) {
	src := `{"module": "Bad", "units": [{"name": "U", "fields": [{"name": "x", "kind": "nope"}]}]}`

	_, err := Load(strings.NewReader(src))
	require.Error(t, err)
}
