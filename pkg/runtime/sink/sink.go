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

// Package sink implements the sequence-numbered reassembly buffer contract
// (§4.1): accept out-of-order chunks, reorder them into a contiguous byte
// stream, and feed that stream to one or more connected parsers. Grounded
// on pkg/trace/builder.go's Builder -- a registration struct with sanity
// checks and named errors for invalid input -- repurposed from "assemble
// named trace columns into modules" to "assemble sequence-numbered chunks
// into a byte stream", since both are ordered-buffer-with-policy problems.
package sink

import (
	"sort"

	"github.com/zeek/spicy-sub007/pkg/runtime"
)

// OverlapPolicy selects how the sink resolves a chunk that overlaps bytes
// already delivered. Overlaps involving a still-buffered gap chunk are
// settled the same way under every policy, without an overlap event: the
// lower sequence number is delivered first and the other chunk is trimmed
// to its unseen bytes.
type OverlapPolicy uint8

const (
	// OverlapFirst keeps whichever bytes arrived first for the overlapping
	// range.
	OverlapFirst OverlapPolicy = iota
	// OverlapLast is handled exactly like OverlapFirst: delivered bytes are
	// never replaced by later ones.
	OverlapLast
	// OverlapError raises a ParseError on a chunk that overlaps bytes
	// already delivered.
	OverlapError
)

// EventKind names the hook events a sink raises on its owning unit (§4.1).
type EventKind uint8

const (
	EventGap EventKind = iota
	EventSkipped
	EventUndelivered
	EventOverlap
)

func (k EventKind) String() string {
	switch k {
	case EventGap:
		return "gap"
	case EventSkipped:
		return "skipped"
	case EventUndelivered:
		return "undelivered"
	case EventOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// Event records one hook-triggering occurrence for a test or host to
// inspect; a real unit would instead invoke its compiled hook function.
type Event struct {
	Kind EventKind
	Seq  uint64
	Len  uint64
}

// Parser is a connected subunit instance a sink delivers its reassembled
// stream to, in registration order (§5 ordering guarantees).
type Parser interface {
	Deliver(data []byte) error
	EndOfData() error
}

// pending is an out-of-order chunk buffered until the sink's cursor reaches
// it.
type pending struct {
	seq  uint64
	data []byte
}

// Sink is an ordered reassembly buffer keyed by sequence number.
type Sink struct {
	next     uint64
	policy   OverlapPolicy
	gapLimit uint64

	buffered    []pending
	gapBuffered uint64

	parsers []Parser
	events  []Event
}

// New constructs a Sink starting reassembly at sequence number 0, resolving
// overlaps by policy, and buffering gaps up to gapLimit bytes before
// reporting them undelivered (a gapLimit of 0 reports every gap
// immediately).
func New(policy OverlapPolicy, gapLimit uint64) *Sink {
	return &Sink{policy: policy, gapLimit: gapLimit}
}

// NewWithConfig is New, taking its gap-buffer limit from cfg's
// SinkGapBufferLimit (§E.3) rather than a bare constructor argument, the
// form a driver run wires its process-wide Configuration through.
func NewWithConfig(policy OverlapPolicy, cfg runtime.Configuration) *Sink {
	return New(policy, cfg.SinkGapBufferLimit)
}

// Connect registers a parser to receive this sink's reassembled stream, in
// the order Connect was called (§5).
func (s *Sink) Connect(p Parser) {
	s.parsers = append(s.parsers, p)
}

// SetInitialSequenceNumber rebases the sink's reassembly cursor before any
// data has arrived; calling it afterwards is a programming error.
func (s *Sink) SetInitialSequenceNumber(seq uint64) *runtime.Failure {
	if s.next != 0 || len(s.buffered) > 0 {
		return runtime.NewFailure(runtime.AssertionFailure, "set_initial_sequence_number called after data arrived")
	}

	s.next = seq

	return nil
}

// Skip advances the reassembly cursor by length bytes without requiring
// their content, as if they had arrived and been discarded; raises
// EventSkipped.
func (s *Sink) Skip(length uint64) {
	s.events = append(s.events, Event{Kind: EventSkipped, Seq: s.next, Len: length})
	s.next += length
	s.tryDeliverBuffered()
}

// Add accepts a chunk (seq, data) and reassembles as much contiguous data
// as it can, delivering to every connected parser in order.
func (s *Sink) Add(seq uint64, data []byte) *runtime.Failure {
	if len(data) == 0 {
		return nil
	}

	end := seq + uint64(len(data))

	switch {
	case end <= s.next:
		// Entirely behind the cursor: nothing new, not reported as overlap
		// since no bytes are in dispute with data not yet delivered.
		return nil
	case seq < s.next:
		// Partial overlap with already-delivered data.
		s.events = append(s.events, Event{Kind: EventOverlap, Seq: seq, Len: end - seq})

		switch s.policy {
		case OverlapError:
			return runtime.NewFailure(runtime.ParseError, "overlapping chunk at seq %d", seq)
		case OverlapFirst, OverlapLast:
			// Already-delivered bytes can't be un-delivered, so both
			// policies agree here: trim the incoming chunk to the part not
			// yet seen. Overlaps between buffered gap chunks are settled by
			// tryDeliverBuffered, which delivers the lower sequence number
			// first and trims the later chunk to its unseen bytes.
			data = data[s.next-seq:]
			seq = s.next
		}
	}

	if seq > s.next {
		return s.bufferGap(seq, data)
	}

	if err := s.deliver(data); err != nil {
		return err
	}

	s.tryDeliverBuffered()

	return nil
}

func (s *Sink) bufferGap(seq uint64, data []byte) *runtime.Failure {
	s.events = append(s.events, Event{Kind: EventGap, Seq: s.next, Len: seq - s.next})

	if s.gapBuffered+uint64(len(data)) > s.gapLimit {
		s.events = append(s.events, Event{Kind: EventUndelivered, Seq: seq, Len: uint64(len(data))})
		return nil
	}

	s.buffered = append(s.buffered, pending{seq: seq, data: data})
	s.gapBuffered += uint64(len(data))

	sort.Slice(s.buffered, func(i, j int) bool { return s.buffered[i].seq < s.buffered[j].seq })

	return nil
}

// tryDeliverBuffered flushes any buffered chunks that have become
// contiguous with the cursor, now that it has advanced.
func (s *Sink) tryDeliverBuffered() {
	for len(s.buffered) > 0 && s.buffered[0].seq <= s.next {
		next := s.buffered[0]
		s.buffered = s.buffered[1:]

		if end := next.seq + uint64(len(next.data)); end <= s.next {
			continue
		}

		chunk := next.data
		if next.seq < s.next {
			chunk = chunk[s.next-next.seq:]
		}

		s.gapBuffered -= uint64(len(next.data))
		_ = s.deliver(chunk)
	}
}

func (s *Sink) deliver(data []byte) *runtime.Failure {
	for _, p := range s.parsers {
		if err := p.Deliver(data); err != nil {
			return runtime.NewFailure(runtime.ParseError, "connected parser rejected chunk: %v", err)
		}
	}

	s.next += uint64(len(data))

	return nil
}

// Close signals end-of-data to every connected parser, in registration
// order, and reports any gap still outstanding as undelivered.
func (s *Sink) Close() *runtime.Failure {
	for _, b := range s.buffered {
		s.events = append(s.events, Event{Kind: EventUndelivered, Seq: b.seq, Len: uint64(len(b.data))})
	}

	s.buffered = nil

	for _, p := range s.parsers {
		if err := p.EndOfData(); err != nil {
			return runtime.NewFailure(runtime.ParseError, "connected parser rejected end-of-data: %v", err)
		}
	}

	return nil
}

// Events returns every hook-triggering occurrence recorded so far, for a
// test or host inspecting sink behaviour without a live unit to hook into.
func (s *Sink) Events() []Event { return s.events }

// Cursor returns the sequence number of the next byte the sink expects.
func (s *Sink) Cursor() uint64 { return s.next }
