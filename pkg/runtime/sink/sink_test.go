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
package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeek/spicy-sub007/pkg/runtime"
)

type recordingParser struct {
	chunks [][]byte
	eod    bool
}

func (p *recordingParser) Deliver(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	p.chunks = append(p.chunks, cp)

	return nil
}

func (p *recordingParser) EndOfData() error {
	p.eod = true
	return nil
}

func TestSink_00_InOrderChunksDeliverImmediately(t *testing.T) {
	s := New(OverlapError, 0)
	p := &recordingParser{}
	s.Connect(p)

	require.Nil(t, s.Add(0, []byte("ab")))
	require.Nil(t, s.Add(2, []byte("cd")))

	assert.Equal(t, [][]byte{[]byte("ab"), []byte("cd")}, p.chunks)
	assert.Equal(t, uint64(4), s.Cursor())
}

func TestSink_01_OutOfOrderChunkBuffersUntilContiguous(t *testing.T) {
	s := New(OverlapError, 1024)
	p := &recordingParser{}
	s.Connect(p)

	require.Nil(t, s.Add(2, []byte("cd")))
	assert.Empty(t, p.chunks)

	require.Nil(t, s.Add(0, []byte("ab")))
	assert.Equal(t, [][]byte{[]byte("ab"), []byte("cd")}, p.chunks)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventGap, events[0].Kind)
}

func TestSink_02_GapBeyondLimitReportsUndelivered(t *testing.T) {
	s := New(OverlapError, 1)
	p := &recordingParser{}
	s.Connect(p)

	require.Nil(t, s.Add(5, []byte("ab")))

	var kinds []EventKind
	for _, e := range s.Events() {
		kinds = append(kinds, e.Kind)
	}

	assert.Contains(t, kinds, EventGap)
	assert.Contains(t, kinds, EventUndelivered)
}

func TestSink_03_OverlapErrorPolicyFails(t *testing.T) {
	s := New(OverlapError, 0)
	s.Connect(&recordingParser{})

	require.Nil(t, s.Add(0, []byte("abcd")))
	err := s.Add(2, []byte("XYZ"))
	require.NotNil(t, err)
}

func TestSink_04_OverlapFirstPolicyTrimsToUnseenBytes(t *testing.T) {
	s := New(OverlapFirst, 0)
	p := &recordingParser{}
	s.Connect(p)

	require.Nil(t, s.Add(0, []byte("abcd")))
	require.Nil(t, s.Add(2, []byte("XYZ")))

	assert.Equal(t, [][]byte{[]byte("abcd"), []byte("Z")}, p.chunks)
}

func TestSink_05_CloseDeliversEndOfDataToEveryParser(t *testing.T) {
	s := New(OverlapError, 0)
	p1, p2 := &recordingParser{}, &recordingParser{}
	s.Connect(p1)
	s.Connect(p2)

	require.Nil(t, s.Close())
	assert.True(t, p1.eod)
	assert.True(t, p2.eod)
}

func TestSink_06_SetInitialSequenceNumberRebasesCursor(t *testing.T) {
	s := New(OverlapError, 0)
	require.Nil(t, s.SetInitialSequenceNumber(100))

	p := &recordingParser{}
	s.Connect(p)

	require.Nil(t, s.Add(100, []byte("z")))
	assert.Equal(t, [][]byte{[]byte("z")}, p.chunks)
}

func TestSink_07_NewWithConfigUsesGapBufferLimit(t *testing.T) {
	cfg := runtime.Configuration{SinkGapBufferLimit: 1}
	s := NewWithConfig(OverlapError, cfg)

	require.Nil(t, s.Add(4, []byte("ab"))) // gap of 4 bytes, chunk exceeds the 1-byte limit

	undelivered := 0
	for _, e := range s.Events() {
		if e.Kind == EventUndelivered {
			undelivered++
		}
	}

	assert.Equal(t, 1, undelivered)
}
