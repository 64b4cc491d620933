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

// Package diag accumulates and reports the compiler's diagnostics (§7):
// syntax errors carrying a source span, warnings, and the fatal path for
// internal-error conditions a compilation round cannot recover from.
package diag

import (
	"sort"

	"github.com/zeek/spicy-sub007/pkg/util/source"
)

// Severity classifies a Diagnostic.
type Severity uint

// The severities a diagnostic can carry.
const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "diagnostic"
	}
}

// Diagnostic is one reportable condition, wrapping the teacher's
// source.SyntaxError with a severity and a stable Kind identifying which
// compiler stage raised it.
type Diagnostic struct {
	*source.SyntaxError
	Severity Severity
	Kind     string
}

// New constructs a Diagnostic over span within file.
func New(severity Severity, kind string, file *source.File, span source.Span, msg string) Diagnostic {
	return Diagnostic{file.SyntaxError(span, msg), severity, kind}
}

// Errorf constructs a SeverityError diagnostic.
func Errorf(kind string, file *source.File, span source.Span, msg string) Diagnostic {
	return New(SeverityError, kind, file, span, msg)
}

// Bag accumulates diagnostics across a compilation round (§4.8's
// "validate" steps feed one shared Bag so errors from every module are
// reported together rather than failing fast on the first).
type Bag struct {
	items []Diagnostic
}

// Add appends one diagnostic.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Addf constructs and appends a SeverityError diagnostic in one call.
func (b *Bag) Addf(kind string, file *source.File, span source.Span, msg string) {
	b.Add(Errorf(kind, file, span, msg))
}

// Extend appends every diagnostic in other to b, e.g. folding a per-module
// sub-pass's findings into the module driver's top-level bag.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}

	b.items = append(b.items, other.items...)
}

// HasErrors reports whether any accumulated diagnostic is SeverityError.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Items returns the accumulated diagnostics sorted by source file and then
// by span start, the order a human-facing report presents them in.
func (b *Bag) Items() []Diagnostic {
	sorted := make([]Diagnostic, len(b.items))
	copy(sorted, b.items)

	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := sorted[i].SourceFile(), sorted[j].SourceFile()
		if fi != fj {
			return fi.Filename() < fj.Filename()
		}

		si, sj := sorted[i].Span(), sorted[j].Span()

		return si.Start() < sj.Start()
	})

	return sorted
}

// Len reports how many diagnostics have been accumulated.
func (b *Bag) Len() int { return len(b.items) }
