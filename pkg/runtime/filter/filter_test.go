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
package filter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	buf bytes.Buffer
	eod bool
}

func (t *recordingTarget) Deliver(data []byte) error {
	t.buf.Write(data)
	return nil
}

func (t *recordingTarget) EndOfData() error {
	t.eod = true
	return nil
}

// upperStage upper-cases ASCII letters as a stand-in for a real
// decompression/decoding filter.
type upperStage struct{}

func (upperStage) Process(data []byte, forward Forward) error {
	out := make([]byte, len(data))
	for i, b := range data {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}

		out[i] = b
	}

	return forward(out)
}

func (upperStage) EndOfData(forward Forward) error { return nil }

func TestChain_00_NoStagesForwardsStraightToTarget(t *testing.T) {
	target := &recordingTarget{}
	c := NewChain(target)

	require.Nil(t, c.Feed([]byte("abc")))
	assert.Equal(t, "abc", target.buf.String())
}

func TestChain_01_SingleStageTransformsBeforeTarget(t *testing.T) {
	target := &recordingTarget{}
	c := NewChain(target)
	require.Nil(t, c.ConnectFilter(upperStage{}))

	require.Nil(t, c.Feed([]byte("abc")))
	assert.Equal(t, "ABC", target.buf.String())
}

func TestChain_02_ConnectFilterAfterFeedFails(t *testing.T) {
	target := &recordingTarget{}
	c := NewChain(target)

	require.Nil(t, c.Feed([]byte("x")))

	err := c.ConnectFilter(upperStage{})
	require.NotNil(t, err)
}

func TestChain_03_CloseSignalsEndOfDataToTarget(t *testing.T) {
	target := &recordingTarget{}
	c := NewChain(target)
	require.Nil(t, c.ConnectFilter(upperStage{}))

	require.Nil(t, c.Close())
	assert.True(t, target.eod)
}
