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
package fiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeek/spicy-sub007/pkg/runtime"
)

func TestResumable_00_RunsToCompletionWithoutYielding(t *testing.T) {
	ran := false
	r := Execute(func(c *Control) { ran = true })

	err := r.Resume()
	require.Nil(t, err)
	assert.True(t, r.Done())
	assert.True(t, ran)
}

func TestResumable_01_YieldSuspendsUntilNextResume(t *testing.T) {
	steps := 0
	r := Execute(func(c *Control) {
		steps = 1
		c.Yield()
		steps = 2
	})

	require.Nil(t, r.Resume())
	assert.False(t, r.Done())
	assert.Equal(t, 1, steps)

	require.Nil(t, r.Resume())
	assert.True(t, r.Done())
	assert.Equal(t, 2, steps)
}

func TestResumable_02_ResumeAfterDoneFails(t *testing.T) {
	r := Execute(func(c *Control) {})
	require.Nil(t, r.Resume())

	err := r.Resume()
	require.NotNil(t, err)
}

func TestResumable_03_AbortUnwindsWithCleanup(t *testing.T) {
	cleaned := false
	r := Execute(func(c *Control) {
		defer func() { cleaned = true }()
		c.Yield()
	})

	require.Nil(t, r.Resume())
	assert.False(t, r.Done())

	r.Abort()
	assert.True(t, cleaned)
}

func TestControl_04_EnterBeyondConfiguredDepthFails(t *testing.T) {
	var failure *runtime.Failure

	r := ExecuteWithConfig(runtime.Configuration{FiberStackDepth: 2}, func(c *Control) {
		require.Nil(t, c.Enter())
		require.Nil(t, c.Enter())
		failure = c.Enter()
	})

	require.Nil(t, r.Resume())
	require.NotNil(t, failure)
	assert.Equal(t, runtime.StackSizeExceeded, failure.Kind)
}

func TestControl_05_ExitAllowsReenteringWithinLimit(t *testing.T) {
	var failures []*runtime.Failure

	r := ExecuteWithConfig(runtime.Configuration{FiberStackDepth: 1}, func(c *Control) {
		failures = append(failures, c.Enter())
		c.Exit()
		failures = append(failures, c.Enter())
	})

	require.Nil(t, r.Resume())
	require.Len(t, failures, 2)
	assert.Nil(t, failures[0])
	assert.Nil(t, failures[1])
}
