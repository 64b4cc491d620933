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

import "fmt"

// canonicalForm computes the comparison key a Literal production's terminal
// is interned under (§4.6 "Determinism rules": "Literal terminals are
// compared by their canonical form -- bytes for byte literals; a regex's
// compiled id for regex literals"). A field with no fixed literal value
// (a bare parse-type such as `: uint16`) is keyed by its shape instead, so
// two such fields are considered the *same* terminal only if they would
// consume input identically.
func canonicalForm(kind string, width uint, byteOrder string, literal any) string {
	if literal != nil {
		return fmt.Sprintf("lit:%v", literal)
	}

	return fmt.Sprintf("shape:%s:%d:%s", kind, width, byteOrder)
}

// Alphabet interns canonical terminal forms to small dense indices so
// first/follow/LA sets can be represented as bitset.BitSet.
type Alphabet struct {
	index map[string]uint
	forms []string
}

// NewAlphabet constructs an empty terminal table.
func NewAlphabet() *Alphabet {
	return &Alphabet{index: map[string]uint{}}
}

// Intern returns the dense index for form, assigning a new one the first
// time form is seen.
func (a *Alphabet) Intern(form string) uint {
	if i, ok := a.index[form]; ok {
		return i
	}

	i := uint(len(a.forms))
	a.index[form] = i
	a.forms = append(a.forms, form)

	return i
}

// Len returns the number of distinct terminals interned so far.
func (a *Alphabet) Len() uint { return uint(len(a.forms)) }

// Form returns the canonical form an index was interned from, for
// diagnostics.
func (a *Alphabet) Form(i uint) string {
	if i >= uint(len(a.forms)) {
		return "<unknown>"
	}

	return a.forms[i]
}
