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

// Package regexp implements the incremental pattern-matcher contract
// (§4.1) generated field parsers use to match against a stream that may
// not have fully arrived yet. No example repo ships an incremental/partial
// regex engine, and stdlib's regexp is the only regex engine in the
// corpus's dependency surface, so this wraps it: a MatchState accumulates
// chunks itself and re-runs stdlib's whole-match API over the growing
// buffer, tracking consumed-vs-pending input around it rather than
// depending on any engine-level incremental API (documented in DESIGN.md
// as the stdlib-only exception -- nothing in the pack provides this).
package regexp

import (
	"regexp"
	"sync"

	"github.com/zeek/spicy-sub007/pkg/runtime"
)

// Indicator is the three-way result advance() returns (§4.1): 0 means the
// pattern cannot match starting here, -1 means more data could still
// complete a match, and a positive value names which pattern in a set
// matched.
type Indicator int

const (
	NoMatch    Indicator = 0
	NeedMore   Indicator = -1
	firstMatch Indicator = 1
)

// compiledCache interns compiled patterns process-wide, keyed by source and
// flags, matching §5's "Shared resources" guarantee that regex objects are
// interned and lock-free to read after compilation (compilation itself
// serialized via the mutex). capacity is read once from a
// runtime.Configuration via SetCacheCapacity rather than left an
// unconditional unbounded map (§E.3); 0 means unbounded.
var (
	compiledCacheMu sync.Mutex
	compiledCache   = map[string]*regexp.Regexp{}
	cacheOrder      []string
	cacheCapacity   uint
)

// SetCacheCapacity bounds the process-wide compiled-pattern cache to at
// most capacity entries, evicting the least recently compiled pattern once
// a new one would exceed it. A driver run calls this once at start with
// runtime.Configuration.RegexCacheCapacity; leaving it unset (0) keeps the
// cache unbounded.
func SetCacheCapacity(capacity uint) {
	compiledCacheMu.Lock()
	defer compiledCacheMu.Unlock()

	cacheCapacity = capacity
	evictOverflowLocked()
}

func evictOverflowLocked() {
	if cacheCapacity == 0 {
		return
	}

	for uint(len(cacheOrder)) > cacheCapacity {
		oldest := cacheOrder[0]
		cacheOrder = cacheOrder[1:]
		delete(compiledCache, oldest)
	}
}

func compile(pattern string) (*regexp.Regexp, *runtime.Failure) {
	compiledCacheMu.Lock()
	defer compiledCacheMu.Unlock()

	if re, ok := compiledCache[pattern]; ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, runtime.NewFailure(runtime.InvalidValue, "invalid regex pattern %q: %v", pattern, err)
	}

	compiledCache[pattern] = re
	cacheOrder = append(cacheOrder, pattern)
	evictOverflowLocked()

	return re, nil
}

// MatchState drives one incremental match against a growing byte buffer. It
// may not be reused once it has returned a non-negative indicator (§4.1) --
// Advance fails MatchStateReuse if called again afterwards.
type MatchState struct {
	patterns []*regexp.Regexp
	buf      []byte
	done     bool
}

// NewMatchState compiles patterns (in priority order; the first one that
// matches wins ties) and returns a state ready to accept chunks.
func NewMatchState(patterns ...string) (*MatchState, *runtime.Failure) {
	if len(patterns) == 0 {
		return nil, runtime.NewFailure(runtime.InvalidValue, "no patterns given to match state")
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := compile(p)
		if err != nil {
			return nil, err
		}

		compiled = append(compiled, re)
	}

	return &MatchState{patterns: compiled}, nil
}

// Advance feeds the next chunk into the match state. final signals that no
// more input will arrive after this chunk (the stream has been frozen).
// It returns the match indicator and the number of trailing bytes in the
// accumulated buffer not consumed by the match (0 when no match or more
// data is needed).
func (m *MatchState) Advance(chunk []byte, final bool) (Indicator, int, *runtime.Failure) {
	if m.done {
		return 0, 0, runtime.NewFailure(runtime.MatchStateReuse, "match state reused after a definitive result")
	}

	m.buf = append(m.buf, chunk...)

	bestID := -1
	bestEnd := -1

	for i, re := range m.patterns {
		loc := re.FindIndex(m.buf)
		if loc == nil || loc[0] != 0 {
			continue
		}

		if bestEnd == -1 || loc[1] > bestEnd {
			bestEnd = loc[1]
			bestID = i
		}
	}

	if bestID != -1 {
		unconsumed := len(m.buf) - bestEnd
		m.done = true

		return Indicator(firstMatch) + Indicator(bestID), unconsumed, nil
	}

	if final {
		m.done = true
		return NoMatch, 0, nil
	}

	// No pattern has matched yet, but none has been definitively
	// eliminated either (stdlib regexp carries no "could still extend"
	// signal, so treat every non-match as provisional until EOD).
	return NeedMore, 0, nil
}

// Reset clears accumulated state so the same compiled patterns can drive a
// fresh match without recompiling them.
func (m *MatchState) Reset() {
	m.buf = nil
	m.done = false
}
