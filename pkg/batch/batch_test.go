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
package batch

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_00_ReadsFullFlowSequence(t *testing.T) {
	input := "!spicy-batch v2\n" +
		"@begin-flow 1 MyParser stream\n" +
		"@data 1 5\nhello\n" +
		"@end-flow 1\n"

	r := NewReader(strings.NewReader(input))

	d, err := r.Next()
	require.NoError(t, err)
	id, parser, typ, ferr := d.BeginFlow()
	require.NoError(t, ferr)
	assert.Equal(t, "1", id)
	assert.Equal(t, "MyParser", parser)
	assert.Equal(t, "stream", typ)

	d, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, KindData, d.Kind)
	assert.Equal(t, []byte("hello"), d.Data)
	flowID, ferr := d.DataFlowID()
	require.NoError(t, ferr)
	assert.Equal(t, "1", flowID)

	d, err = r.Next()
	require.NoError(t, err)
	id, ferr = d.FlowID()
	require.NoError(t, ferr)
	assert.Equal(t, "1", id)
	assert.Equal(t, KindEndFlow, d.Kind)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_01_BeginConnFieldsParse(t *testing.T) {
	input := "!spicy-batch v2\n@begin-conn 7 tcp 10.0.0.1 A 10.0.0.2 B\n"
	r := NewReader(strings.NewReader(input))

	d, err := r.Next()
	require.NoError(t, err)

	cid, typ, origID, origParser, respID, respParser, ferr := d.BeginConn()
	require.NoError(t, ferr)
	assert.Equal(t, "7", cid)
	assert.Equal(t, "tcp", typ)
	assert.Equal(t, "10.0.0.1", origID)
	assert.Equal(t, "A", origParser)
	assert.Equal(t, "10.0.0.2", respID)
	assert.Equal(t, "B", respParser)
}

func TestReader_02_UnknownDirectiveIsFatal(t *testing.T) {
	input := "!spicy-batch v2\n@bogus 1\n"
	r := NewReader(strings.NewReader(input))

	_, err := r.Next()
	require.Error(t, err)
}

func TestReader_03_BadHeaderIsFatal(t *testing.T) {
	input := "not a batch header\n"
	r := NewReader(strings.NewReader(input))

	_, err := r.Next()
	require.Error(t, err)
}

func TestReader_04_DataPayloadMayContainBinaryBytes(t *testing.T) {
	payload := []byte{0x00, 0x01, '\n', 0xFF}
	input := "!spicy-batch v2\n@data 1 4\n" + string(payload) + "\n"
	r := NewReader(strings.NewReader(input))

	d, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, payload, d.Data)
}
