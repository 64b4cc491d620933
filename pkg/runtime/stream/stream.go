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

// Package stream implements the append-only chunked byte stream and view
// contract generated parsers are compiled against (§4.1). It generalises
// pkg/util/source's Lexer[T]/Scanner[T] buffered-item, back-referencing
// iterator shape from "lex a token stream" to "chunk an arbitrary byte
// stream with freeze and iterator-invalidation semantics".
package stream

import (
	"sync"

	"github.com/zeek/spicy-sub007/pkg/runtime"
)

// Stream is an append-only, chunked byte buffer with a monotonically
// advancing head offset (§4.1). It supports freezing once no more input will
// arrive.
type Stream struct {
	mu     sync.Mutex
	chunks [][]byte
	total  int
	frozen bool
	// closed marks a stream that is done being read from entirely; every
	// Iterator captured a *Stream pointer, so Close doesn't need a
	// generation counter -- reads against a closed stream simply fail
	// InvalidIterator.
	closed bool
}

// New constructs an empty, unfrozen stream.
func New() *Stream {
	return &Stream{}
}

// Append adds a chunk of newly-arrived bytes to the stream. Appending after
// Freeze fails InvalidValue.
func (s *Stream) Append(chunk []byte) *runtime.Failure {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return runtime.NewFailure(runtime.InvalidValue, "cannot append to a frozen stream")
	}

	if len(chunk) == 0 {
		return nil
	}

	cp := make([]byte, len(chunk))
	copy(cp, chunk)
	s.chunks = append(s.chunks, cp)
	s.total += len(cp)

	return nil
}

// Freeze marks the stream as complete: no further input will arrive, and
// EOD-triggered parsing (§4.1 fibers "wait for more input") may proceed.
func (s *Stream) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// Frozen reports whether Freeze has been called.
func (s *Stream) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// Close marks the stream as done; iterators and views created against it
// fail InvalidIterator from this point on.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Len returns the number of bytes appended to the stream so far.
func (s *Stream) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// byteAt returns the byte at absolute offset off, assuming the caller
// already holds s.mu.
func (s *Stream) byteAt(off int) (byte, bool) {
	if off < 0 || off >= s.total {
		return 0, false
	}

	pos := off
	for _, c := range s.chunks {
		if pos < len(c) {
			return c[pos], true
		}

		pos -= len(c)
	}

	return 0, false
}

// sliceAt materialises the bytes in [begin, end) assuming the caller already
// holds s.mu and the range is in bounds.
func (s *Stream) sliceAt(begin, end int) []byte {
	out := make([]byte, 0, end-begin)
	pos := 0

	for _, c := range s.chunks {
		chunkStart, chunkEnd := pos, pos+len(c)
		lo, hi := max(begin, chunkStart), min(end, chunkEnd)

		if lo < hi {
			out = append(out, c[lo-chunkStart:hi-chunkStart]...)
		}

		pos = chunkEnd
		if pos >= end {
			break
		}
	}

	return out
}

// Iterator references an absolute byte offset into a specific Stream. It
// fails InvalidIterator when the stream it was created against has been
// closed, or when compared/subtracted against an iterator from a different
// stream (§4.1).
type Iterator struct {
	stream *Stream
	offset int
}

// Iterator constructs an iterator positioned at absolute offset off.
func (s *Stream) Iterator(off int) *Iterator {
	return &Iterator{stream: s, offset: off}
}

// Offset returns the iterator's absolute byte offset.
func (it *Iterator) Offset() int { return it.offset }

// Advance moves the iterator forward by n bytes.
func (it *Iterator) Advance(n int) { it.offset += n }

// Deref returns the byte the iterator currently points at.
func (it *Iterator) Deref() (byte, *runtime.Failure) {
	it.stream.mu.Lock()
	defer it.stream.mu.Unlock()

	if it.stream.closed {
		return 0, runtime.NewFailure(runtime.InvalidIterator, "stream has been closed")
	}

	b, ok := it.stream.byteAt(it.offset)
	if !ok {
		return 0, runtime.NewFailure(runtime.MissingData, "offset %d out of bounds", it.offset)
	}

	return b, nil
}

// Sub returns the byte distance between two iterators over the same stream;
// it fails InvalidIterator when the two iterators reference different
// streams.
func (it *Iterator) Sub(other *Iterator) (int, *runtime.Failure) {
	if it.stream != other.stream {
		return 0, runtime.NewFailure(runtime.InvalidIterator, "iterators belong to different streams")
	}

	return it.offset - other.offset, nil
}

// View is a half-open [begin, end) range over a Stream, possibly bounded by
// a maxSize or left open-ended (end == -1, tracking the stream's live head).
type View struct {
	stream  *Stream
	begin   int
	end     int // -1 means open-ended
	maxSize int // -1 means unbounded
}

// View constructs a view over [begin, end); pass end == -1 for an
// open-ended view that tracks the stream's current length, and maxSize ==
// -1 for no size limit.
func (s *Stream) View(begin, end, maxSize int) (*View, *runtime.Failure) {
	if begin < 0 {
		return nil, runtime.NewFailure(runtime.OutOfRange, "negative view start %d", begin)
	}

	if end != -1 && end < begin {
		return nil, runtime.NewFailure(runtime.OutOfRange, "view end %d precedes begin %d", end, begin)
	}

	return &View{stream: s, begin: begin, end: end, maxSize: maxSize}, nil
}

// Begin returns the view's starting offset.
func (v *View) Begin() int { return v.begin }

// IsOpenEnded reports whether the view tracks the stream's live head rather
// than a fixed end offset.
func (v *View) IsOpenEnded() bool { return v.end == -1 }

// End returns the view's current end offset: the fixed end if one was
// given, otherwise the stream's current length (clamped to maxSize, if set).
func (v *View) End() int {
	if v.end != -1 {
		return v.end
	}

	v.stream.mu.Lock()
	end := v.stream.total
	v.stream.mu.Unlock()

	if v.maxSize != -1 && end-v.begin > v.maxSize {
		end = v.begin + v.maxSize
	}

	return end
}

// Len returns the number of bytes currently materialisable in this view.
func (v *View) Len() int { return v.End() - v.begin }

// Bytes materialises the view's current contents. For an open-ended view
// this only returns data that has arrived so far; callers needing "all of
// it" must Freeze the stream and retry once its length stabilises.
func (v *View) Bytes() ([]byte, *runtime.Failure) {
	v.stream.mu.Lock()
	defer v.stream.mu.Unlock()

	if v.stream.closed {
		return nil, runtime.NewFailure(runtime.InvalidIterator, "stream has been closed")
	}

	end := v.end
	if end == -1 {
		end = v.stream.total
	}

	if v.maxSize != -1 && end-v.begin > v.maxSize {
		end = v.begin + v.maxSize
	}

	if v.begin > v.stream.total || end > v.stream.total {
		return nil, runtime.NewFailure(runtime.MissingData, "view [%d, %d) extends beyond %d bytes available", v.begin, end, v.stream.total)
	}

	return v.stream.sliceAt(v.begin, end), nil
}
