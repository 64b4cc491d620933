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
	"compress/zlib"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64Decode_00_DecodesAcrossSplitChunks(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello world"))

	target := &recordingTarget{}
	c := NewChain(target)
	require.Nil(t, c.ConnectFilter(&Base64Decode{}))

	require.Nil(t, c.Feed([]byte(encoded[:5])))
	require.Nil(t, c.Feed([]byte(encoded[5:])))
	require.Nil(t, c.Close())

	assert.Equal(t, "hello world", target.buf.String())
}

func TestZlibDecompress_00_InflatesBufferedStreamAtClose(t *testing.T) {
	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	_, err := w.Write([]byte("payload data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	target := &recordingTarget{}
	c := NewChain(target)
	require.Nil(t, c.ConnectFilter(&ZlibDecompress{}))

	require.Nil(t, c.Feed(compressed.Bytes()))
	require.Nil(t, c.Close())

	assert.Equal(t, "payload data", target.buf.String())
}
