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
	"io"
)

// Base64Decode is a Stage decoding standard base64 text into raw bytes. It
// buffers a trailing partial group (1-3 bytes) across Process calls since a
// base64 group only decodes once all 4 characters have arrived.
type Base64Decode struct {
	pending []byte
}

// Process decodes as many complete 4-character groups as are available,
// forwarding the decoded bytes and holding back any trailing partial group.
func (s *Base64Decode) Process(data []byte, forward Forward) error {
	s.pending = append(s.pending, data...)

	n := len(s.pending) - (len(s.pending) % 4)
	if n == 0 {
		return nil
	}

	chunk := s.pending[:n]
	s.pending = append([]byte(nil), s.pending[n:]...)

	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(chunk)))

	m, err := base64.StdEncoding.Decode(decoded, chunk)
	if err != nil {
		return err
	}

	return forward(decoded[:m])
}

// EndOfData decodes and forwards whatever partial group remains; a
// non-multiple-of-4 remainder after padding is a caller error, surfaced as
// a decode failure.
func (s *Base64Decode) EndOfData(forward Forward) error {
	if len(s.pending) == 0 {
		return nil
	}

	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(s.pending)))

	m, err := base64.StdEncoding.Decode(decoded, s.pending)
	if err != nil {
		return err
	}

	s.pending = nil

	return forward(decoded[:m])
}

// ZlibDecompress is a Stage inflating a zlib-compressed upstream into plain
// bytes. compress/zlib's Reader consumes an io.Reader to completion rather
// than accepting chunks incrementally, so this stage accumulates the
// compressed bytes and only runs the inflater once at EndOfData -- a
// deliberate simplification over true incremental inflation, noted here
// rather than papered over with a half-working streaming attempt.
type ZlibDecompress struct {
	buf bytes.Buffer
}

// Process buffers the compressed bytes; decompression happens at
// EndOfData, once the whole compressed stream has arrived.
func (s *ZlibDecompress) Process(data []byte, forward Forward) error {
	s.buf.Write(data)
	return nil
}

// EndOfData inflates the buffered compressed stream and forwards the
// result in one shot.
func (s *ZlibDecompress) EndOfData(forward Forward) error {
	r, err := zlib.NewReader(bytes.NewReader(s.buf.Bytes()))
	if err != nil {
		return err
	}

	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	return forward(out)
}
