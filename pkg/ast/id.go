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
package ast

import "strings"

// Separator is the component separator used by all HILTI/Spicy identifiers.
const Separator = "::"

// ID is a "::"-separated sequence of components, insertion-ordered.  It is
// the namespace-qualified name vocabulary shared by declarations, types and
// symbol references throughout the AST.
type ID struct {
	// Indicates this ID is fully qualified from the root module namespace,
	// as opposed to relative to some enclosing scope.
	absolute bool
	segments []string
}

// NewID constructs an absolute ID from the given components.
func NewID(segments ...string) ID {
	return ID{true, segments}
}

// NewRelativeID constructs a relative ID from the given components.
func NewRelativeID(segments ...string) ID {
	return ID{false, segments}
}

// ParseID splits a "::"-separated string into an ID.  A leading "::" marks
// the ID absolute.
func ParseID(s string) ID {
	absolute := strings.HasPrefix(s, Separator)
	trimmed := strings.TrimPrefix(s, Separator)

	if trimmed == "" {
		return ID{absolute, nil}
	}

	return ID{absolute, strings.Split(trimmed, Separator)}
}

// IsAbsolute determines whether this ID is namespace-qualified from the root.
func (id ID) IsAbsolute() bool {
	return id.absolute
}

// Depth returns the number of components in this ID.
func (id ID) Depth() uint {
	return uint(len(id.segments))
}

// IsEmpty returns true if this ID has no components.
func (id ID) IsEmpty() bool {
	return len(id.segments) == 0
}

// Local returns the final (unqualified) component of this ID, e.g. "Y" for
// "X::Y".
func (id ID) Local() string {
	if len(id.segments) == 0 {
		return ""
	}

	return id.segments[len(id.segments)-1]
}

// Namespace returns the ID minus its final component, e.g. "X" for "X::Y".
// The result carries the same absoluteness as the receiver.
func (id ID) Namespace() ID {
	if len(id.segments) == 0 {
		return id
	}

	return ID{id.absolute, id.segments[:len(id.segments)-1]}
}

// Prefix returns the first n components of this ID.
func (id ID) Prefix(n uint) ID {
	return ID{id.absolute, id.segments[:n]}
}

// Suffix returns the components of this ID starting at index n.
func (id ID) Suffix(n uint) ID {
	return ID{false, id.segments[n:]}
}

// Append returns a new ID with the given component appended.
func (id ID) Append(segment string) ID {
	nsegments := make([]string, len(id.segments)+1)
	copy(nsegments, id.segments)
	nsegments[len(nsegments)-1] = segment

	return ID{id.absolute, nsegments}
}

// Join concatenates this ID with another, producing an ID with the
// receiver's absoluteness.
func (id ID) Join(other ID) ID {
	nsegments := make([]string, 0, len(id.segments)+len(other.segments))
	nsegments = append(nsegments, id.segments...)
	nsegments = append(nsegments, other.segments...)

	return ID{id.absolute, nsegments}
}

// RelativeTo rebases this (absolute) ID against another absolute ID which is
// expected to be a prefix of it, producing a relative ID for the remaining
// suffix.  If base is not a prefix, the original ID is returned unchanged.
func (id ID) RelativeTo(base ID) ID {
	if !id.absolute || !base.absolute || base.Depth() > id.Depth() {
		return id
	}

	for i, seg := range base.segments {
		if id.segments[i] != seg {
			return id
		}
	}

	return ID{false, id.segments[len(base.segments):]}
}

// Equals performs structural comparison between two IDs.
func (id ID) Equals(other ID) bool {
	if id.absolute != other.absolute || len(id.segments) != len(other.segments) {
		return false
	}

	for i := range id.segments {
		if id.segments[i] != other.segments[i] {
			return false
		}
	}

	return true
}

// String renders this ID in its canonical "::"-joined textual form.
func (id ID) String() string {
	var sb strings.Builder

	if id.absolute {
		sb.WriteString(Separator)
	}

	for i, seg := range id.segments {
		if i != 0 {
			sb.WriteString(Separator)
		}

		sb.WriteString(seg)
	}

	return sb.String()
}
