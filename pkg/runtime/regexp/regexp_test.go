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
package regexp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeek/spicy-sub007/pkg/runtime"
)

func TestMatchState_00_ImmediateMatchReturnsPositiveIndicator(t *testing.T) {
	m, err := NewMatchState("^abc")
	require.Nil(t, err)

	ind, unconsumed, ferr := m.Advance([]byte("abcdef"), false)
	require.Nil(t, ferr)
	assert.Equal(t, firstMatch, ind)
	assert.Equal(t, 3, unconsumed)
}

func TestMatchState_01_PartialInputNeedsMoreData(t *testing.T) {
	m, err := NewMatchState("^abc$")
	require.Nil(t, err)

	ind, _, ferr := m.Advance([]byte("ab"), false)
	require.Nil(t, ferr)
	assert.Equal(t, NeedMore, ind)

	ind, unconsumed, ferr := m.Advance([]byte("c"), true)
	require.Nil(t, ferr)
	assert.Equal(t, firstMatch, ind)
	assert.Equal(t, 0, unconsumed)
}

func TestMatchState_02_NoMatchAtFinalReturnsZero(t *testing.T) {
	m, err := NewMatchState("^xyz")
	require.Nil(t, err)

	ind, _, ferr := m.Advance([]byte("abc"), true)
	require.Nil(t, ferr)
	assert.Equal(t, NoMatch, ind)
}

func TestMatchState_03_ReuseAfterMatchFails(t *testing.T) {
	m, err := NewMatchState("^a")
	require.Nil(t, err)

	_, _, ferr := m.Advance([]byte("a"), false)
	require.Nil(t, ferr)

	_, _, ferr = m.Advance([]byte("b"), false)
	require.NotNil(t, ferr)
	assert.Equal(t, runtime.MatchStateReuse, ferr.Kind)
}

func TestMatchState_04_MultiplePatternsReportWhichMatched(t *testing.T) {
	m, err := NewMatchState("^foo", "^bar")
	require.Nil(t, err)

	ind, _, ferr := m.Advance([]byte("bar"), true)
	require.Nil(t, ferr)
	assert.Equal(t, Indicator(2), ind)
}

func TestCache_00_CapacityEvictsOldestPattern(t *testing.T) {
	defer SetCacheCapacity(0)

	SetCacheCapacity(1)

	_, err := NewMatchState("^one")
	require.Nil(t, err)
	_, ok := compiledCache["^one"]
	require.True(t, ok)

	_, err = NewMatchState("^two")
	require.Nil(t, err)

	_, ok = compiledCache["^one"]
	assert.False(t, ok, "oldest pattern should have been evicted once capacity was exceeded")
	_, ok = compiledCache["^two"]
	assert.True(t, ok)
}
