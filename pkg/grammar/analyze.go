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

import "github.com/bits-and-blooms/bitset"

// analyzer computes nullable/first/follow as a monotone fixed point over the
// (possibly cyclic, via Resolved placeholders) production graph, then
// derives look-ahead sets for every LookAhead node (§4.6).
type analyzer struct {
	alphabet *Alphabet
	all      []*Production
	visited  map[*Production]bool
}

func newAnalyzer(alphabet *Alphabet) *analyzer {
	return &analyzer{alphabet: alphabet, visited: map[*Production]bool{}}
}

// collect walks p's reachable subgraph (dereferencing Resolved nodes) and
// appends every distinct production to a.all exactly once.
func (a *analyzer) collect(p *Production) {
	if p == nil || a.visited[p] {
		return
	}

	a.visited[p] = true
	a.all = append(a.all, p)

	switch p.Kind {
	case KindSequence, KindBlock:
		for _, e := range p.Elements {
			a.collect(e)
		}
	case KindAlternative, KindLookAhead:
		for _, b := range p.Branches {
			a.collect(b.Body)
		}
	case KindWhile:
		a.collect(p.Body)
	case KindResolved:
		a.collect(p.Target)
	}
}

func (p *Production) ensureSets(n uint) {
	if p.first == nil {
		p.first = bitset.New(n)
	}

	if p.follow == nil {
		p.follow = bitset.New(n)
	}
}

// children returns p's immediate sub-productions in evaluation order,
// dereferencing Resolved placeholders transparently.
func children(p *Production) []*Production {
	switch p.Kind {
	case KindSequence, KindBlock:
		return p.Elements
	case KindAlternative, KindLookAhead:
		out := make([]*Production, len(p.Branches))
		for i, b := range p.Branches {
			out[i] = b.Body
		}

		return out
	case KindWhile:
		return []*Production{p.Body}
	case KindResolved:
		if p.Target != nil {
			return []*Production{p.Target}
		}
	}

	return nil
}

// Analyze computes nullable/first/follow for every production reachable
// from g.Root, then assigns look-ahead sets to each LookAhead branch point,
// returning a disjointness error if any two branches of one LookAhead node
// overlap. Whether the LA sets cover every reachable input symbol is not
// checked.
func (g *Grammar) Analyze() error {
	a := newAnalyzer(g.Alphabet)
	a.collect(g.Root)

	n := g.Alphabet.Len()
	if n == 0 {
		n = 1
	}

	for _, p := range a.all {
		p.ensureSets(n)
	}

	a.fixNullable()
	a.fixFirst(n)
	a.fixFollow(g.Root, n)

	return a.assignLookAhead(g)
}

func (a *analyzer) fixNullable() {
	for changed := true; changed; {
		changed = false

		for _, p := range a.all {
			nv := computeNullable(p)
			if !p.nullableKnown || nv != p.nullable {
				p.nullable = nv
				p.nullableKnown = true
				changed = true
			}
		}
	}
}

func computeNullable(p *Production) bool {
	switch p.Kind {
	case KindLiteral, KindUnit:
		return false
	case KindVariable:
		return true
	case KindWhile:
		return true
	case KindSequence, KindBlock:
		if p.Kind == KindBlock && p.BlockCond != nil {
			return true
		}

		for _, e := range p.Elements {
			if !e.nullable {
				return false
			}
		}

		return true
	case KindAlternative, KindLookAhead:
		for _, b := range p.Branches {
			if b.Body.nullable {
				return true
			}
		}

		return false
	case KindResolved:
		if p.Target != nil {
			return p.Target.nullable
		}

		return true
	default:
		return false
	}
}

func (a *analyzer) fixFirst(n uint) {
	for _, p := range a.all {
		if p.Kind == KindLiteral {
			p.first.Set(a.alphabet.Intern(p.termForm))
		}
	}

	for changed := true; changed; {
		changed = false

		for _, p := range a.all {
			before := p.first.Clone()
			computeFirst(p)

			if !before.Equal(p.first) {
				changed = true
			}
		}
	}
}

func computeFirst(p *Production) {
	switch p.Kind {
	case KindSequence, KindBlock:
		for _, e := range p.Elements {
			p.first.InPlaceUnion(e.first)

			if !e.nullable {
				break
			}
		}
	case KindAlternative, KindLookAhead:
		for _, b := range p.Branches {
			p.first.InPlaceUnion(b.Body.first)
		}
	case KindWhile:
		p.first.InPlaceUnion(p.Body.first)
	case KindResolved:
		if p.Target != nil {
			p.first.InPlaceUnion(p.Target.first)
		}
	}
}

func (a *analyzer) fixFollow(root *Production, n uint) {
	for changed := true; changed; {
		changed = false

		for _, p := range a.all {
			before := snapshotFollow(p)
			propagateFollow(p)

			if followChanged(before, p) {
				changed = true
			}
		}
	}
}

func snapshotFollow(p *Production) map[*Production]*bitset.BitSet {
	out := map[*Production]*bitset.BitSet{}
	for _, c := range children(p) {
		out[c] = c.follow.Clone()
	}

	return out
}

func followChanged(before map[*Production]*bitset.BitSet, p *Production) bool {
	for _, c := range children(p) {
		prior, ok := before[c]
		if !ok || !prior.Equal(c.follow) {
			return true
		}
	}

	return false
}

func propagateFollow(p *Production) {
	switch p.Kind {
	case KindSequence, KindBlock:
		trailer := p.follow.Clone()

		for i := len(p.Elements) - 1; i >= 0; i-- {
			e := p.Elements[i]
			e.follow.InPlaceUnion(trailer)

			if e.nullable {
				trailer = trailer.Union(e.first)
			} else {
				trailer = e.first.Clone()
			}
		}
	case KindAlternative, KindLookAhead:
		for _, b := range p.Branches {
			b.Body.follow.InPlaceUnion(p.follow)
		}
	case KindWhile:
		p.Body.follow.InPlaceUnion(p.follow)
		p.Body.follow.InPlaceUnion(p.Body.first)
	case KindResolved:
		if p.Target != nil {
			p.Target.follow.InPlaceUnion(p.follow)
		}
	}
}

// assignLookAhead computes LA(Bi) = first(Bi) ∪ (follow(self) if
// nullable(Bi)) for every branch of every LookAhead node, and checks
// pairwise disjointness.
func (a *analyzer) assignLookAhead(g *Grammar) error {
	for _, p := range a.all {
		if p.Kind != KindLookAhead {
			continue
		}

		p.la = make([]*bitset.BitSet, len(p.Branches))

		for i, b := range p.Branches {
			la := b.Body.first.Clone()
			if b.Body.nullable {
				la.InPlaceUnion(p.follow)
			}

			p.la[i] = la
		}

		for i := 0; i < len(p.la); i++ {
			for j := i + 1; j < len(p.la); j++ {
				if p.la[i].IntersectionCardinality(p.la[j]) > 0 {
					return &Error{UnitType: g.UnitType, Ambiguous: true, BranchI: i, BranchJ: j}
				}
			}
		}
	}

	return nil
}
