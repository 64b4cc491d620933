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

// Package batch reads the `!spicy-batch v2` reference-driver input format
// (§6): a text header followed by directive lines describing flows,
// connections, and the raw data chunks delivered to each. Grounded on
// pkg/corset/compiler/parser.go's line-oriented, hand-rolled scanning style
// (no third-party parser for a small fixed line-directive grammar);
// `@data`'s length-prefixed binary payload rules out stdlib's
// bufio.Scanner (line-splitting would corrupt embedded newlines), so this
// reads lines with bufio.Reader.ReadString and slices exact byte counts for
// payloads instead.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const header = "!spicy-batch v2"

// Kind identifies which `@`-directive a Directive carries.
type Kind string

const (
	KindBeginFlow Kind = "begin-flow"
	KindBeginConn Kind = "begin-conn"
	KindData      Kind = "data"
	KindEndFlow   Kind = "end-flow"
	KindEndConn   Kind = "end-conn"
)

// Directive is one parsed line of the batch format. Fields holds the
// whitespace-separated arguments following the directive name; Data holds
// the raw payload bytes for a KindData directive only.
type Directive struct {
	Kind   Kind
	Fields []string
	Data   []byte
}

// BeginFlow interprets the directive's fields for a `@begin-flow` line:
// `<id> <parser> <type>`.
func (d Directive) BeginFlow() (id, parser, typ string, err error) {
	if len(d.Fields) != 3 {
		return "", "", "", fmt.Errorf("batch: @begin-flow wants 3 fields, got %d", len(d.Fields))
	}

	return d.Fields[0], d.Fields[1], d.Fields[2], nil
}

// BeginConn interprets the directive's fields for a `@begin-conn` line:
// `<cid> <type> <orig-id> <orig-parser> <resp-id> <resp-parser>`.
func (d Directive) BeginConn() (cid, typ, origID, origParser, respID, respParser string, err error) {
	if len(d.Fields) != 6 {
		return "", "", "", "", "", "", fmt.Errorf("batch: @begin-conn wants 6 fields, got %d", len(d.Fields))
	}

	return d.Fields[0], d.Fields[1], d.Fields[2], d.Fields[3], d.Fields[4], d.Fields[5], nil
}

// DataFlowID returns the `<id>` field of a `@data` directive.
func (d Directive) DataFlowID() (string, error) {
	if len(d.Fields) < 1 {
		return "", fmt.Errorf("batch: @data missing flow id")
	}

	return d.Fields[0], nil
}

// FlowID returns the `<id>`/`<cid>` field of an `@end-flow`/`@end-conn`
// directive.
func (d Directive) FlowID() (string, error) {
	if len(d.Fields) != 1 {
		return "", fmt.Errorf("batch: %s wants exactly 1 field, got %d", d.Kind, len(d.Fields))
	}

	return d.Fields[0], nil
}

// Reader reads directives from a `!spicy-batch v2` stream.
type Reader struct {
	r         *bufio.Reader
	sawHeader bool
	line      int
}

// NewReader constructs a Reader over r; the header is checked lazily on the
// first Next call so a caller can construct a Reader before any bytes are
// available.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next reads and returns the next directive, or io.EOF once the stream is
// exhausted. An unrecognised `@`-directive is fatal, per §6.
func (b *Reader) Next() (*Directive, error) {
	if !b.sawHeader {
		if err := b.readHeader(); err != nil {
			return nil, err
		}

		b.sawHeader = true
	}

	line, err := b.readLine()
	if err != nil {
		return nil, err
	}

	if line == "" {
		return b.Next()
	}

	if !strings.HasPrefix(line, "@") {
		return nil, fmt.Errorf("batch: line %d: expected a directive, got %q", b.line, line)
	}

	parts := strings.Fields(line)
	name, fields := parts[0][1:], parts[1:]

	switch Kind(name) {
	case KindBeginFlow:
		return &Directive{Kind: KindBeginFlow, Fields: fields}, nil
	case KindBeginConn:
		return &Directive{Kind: KindBeginConn, Fields: fields}, nil
	case KindEndFlow:
		return &Directive{Kind: KindEndFlow, Fields: fields}, nil
	case KindEndConn:
		return &Directive{Kind: KindEndConn, Fields: fields}, nil
	case KindData:
		return b.readData(fields)
	default:
		return nil, fmt.Errorf("batch: line %d: unknown directive %q", b.line, name)
	}
}

// readData handles `@data <id> <size>` followed by exactly size raw bytes
// and a trailing newline.
func (b *Reader) readData(fields []string) (*Directive, error) {
	if len(fields) != 2 {
		return nil, fmt.Errorf("batch: line %d: @data wants 2 fields, got %d", b.line, len(fields))
	}

	size, err := strconv.Atoi(fields[1])
	if err != nil || size < 0 {
		return nil, fmt.Errorf("batch: line %d: invalid @data size %q", b.line, fields[1])
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(b.r, payload); err != nil {
		return nil, fmt.Errorf("batch: line %d: reading %d-byte payload: %w", b.line, size, err)
	}

	// Consume the trailing newline after the raw payload.
	if _, err := b.r.ReadByte(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("batch: line %d: reading payload terminator: %w", b.line, err)
	}

	return &Directive{Kind: KindData, Fields: fields[:1], Data: payload}, nil
}

func (b *Reader) readHeader() error {
	line, err := b.readLine()
	if err != nil {
		return fmt.Errorf("batch: reading header: %w", err)
	}

	if line != header {
		return fmt.Errorf("batch: expected header %q, got %q", header, line)
	}

	return nil
}

func (b *Reader) readLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	b.line++

	return strings.TrimRight(line, "\r\n"), nil
}
