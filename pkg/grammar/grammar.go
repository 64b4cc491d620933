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
package grammar

import (
	"fmt"
	"sync"

	"github.com/zeek/spicy-sub007/pkg/ast"
)

// Grammar is a unit's derived parse table: a root production plus the
// terminal alphabet its Literal productions were interned into. A Grammar
// is finalized once Analyze has run without error (§3 "A Grammar is
// finalized iff it has a root production, and a look-ahead set has been
// computed for every alternative at which branching occurs").
type Grammar struct {
	UnitType  string
	Root      *Production
	Alphabet  *Alphabet
	finalized bool
}

// Error reports a failed grammar build: either a LookAhead node whose
// branches' LA sets overlap (Ambiguous), naming the two offending branch
// indices for a diagnostic to point at.
type Error struct {
	UnitType  string
	Ambiguous bool
	BranchI   int
	BranchJ   int
}

func (e *Error) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("unit %q: ambiguous look-ahead between branch %d and branch %d", e.UnitType, e.BranchI, e.BranchJ)
	}

	return fmt.Sprintf("unit %q: invalid grammar", e.UnitType)
}

// Finalized reports whether Analyze has completed successfully on this
// grammar.
func (g *Grammar) Finalized() bool { return g.finalized }

// ResolvedRoot returns g.Root with any top-level chain of Resolved
// placeholders followed through to the concrete production it was filled
// in with.
func (g *Grammar) ResolvedRoot() *Production { return deref(g.Root) }

var (
	cacheMu sync.Mutex
	cache   = map[string]*Grammar{}
)

// BuildAndCache constructs and analyzes unit's grammar, caching the result
// on unit's type name so a second call for the same unit type returns the
// cached Grammar without rebuilding it (§3 "Grammars are cached on the unit
// type after first successful construction").
func BuildAndCache(unit *ast.Unit) (*Grammar, error) {
	cacheMu.Lock()
	if g, ok := cache[unit.TypeID]; ok {
		cacheMu.Unlock()
		return g, nil
	}
	cacheMu.Unlock()

	g, err := Build(unit)
	if err != nil {
		return nil, err
	}

	if err := g.Analyze(); err != nil {
		return nil, err
	}

	g.finalized = true

	cacheMu.Lock()
	cache[unit.TypeID] = g
	cacheMu.Unlock()

	return g, nil
}

// ClearCache drops every cached grammar; used by tests.
func ClearCache() {
	cacheMu.Lock()
	cache = map[string]*Grammar{}
	cacheMu.Unlock()
}
