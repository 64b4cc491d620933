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
package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_00_ValueResultReportsHasValue(t *testing.T) {
	r := NewResultValue(42)

	assert.True(t, r.HasValue())
	assert.Nil(t, r.Error())

	v, err := r.Value()
	require.Nil(t, err)
	assert.Equal(t, 42, v)
}

func TestResult_01_ErrorResultReportsNoValue(t *testing.T) {
	cause := NewFailure(InvalidValue, "bad input")
	r := NewResultError[int](cause)

	assert.False(t, r.HasValue())
	assert.Same(t, cause, r.Error())

	_, err := r.Value()
	require.NotNil(t, err)
	assert.Equal(t, AssertionFailure, err.Kind)
}
