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
package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_00_EnvVarOverridesDerivedPath(t *testing.T) {
	t.Setenv(EnvVar, "/tmp/custom-spicy-cache")

	dir, err := Dir("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-spicy-cache", dir)
}

func TestDir_01_DefaultDerivesFromHomeAndVersion(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", "/home/tester")

	dir, err := Dir("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".cache", "spicy", "1.2.3"), dir)
}

func TestEnsure_00_CreatesDirectoryUnderTempHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", home)

	dir := Ensure("9.9.9")
	require.NotEmpty(t, dir)
	assert.DirExists(t, dir)
}

func TestArtifactPath_00_EmptyDirDisablesCaching(t *testing.T) {
	assert.Equal(t, "", ArtifactPath("", "Header.cc"))
}

func TestArtifactPath_01_JoinsDirAndName(t *testing.T) {
	assert.Equal(t, filepath.Join("/cache", "Header.cc"), ArtifactPath("/cache", "Header.cc"))
}
