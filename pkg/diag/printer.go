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
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ansiRed    = "\x1b[31;1m"
	ansiYellow = "\x1b[33;1m"
	ansiCyan   = "\x1b[36;1m"
	ansiReset  = "\x1b[0m"
)

// Printer renders a Bag's diagnostics as human-facing text, highlighting the
// offending source line and underlining its span when writing to a TTY.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter constructs a Printer writing to w. Color highlighting is
// enabled automatically when w is a terminal (checked via
// golang.org/x/term.IsTerminal against os.Stdout's descriptor, the only fd a
// io.Writer doesn't expose directly); pass forceColor to override either way.
func NewPrinter(w io.Writer, forceColor *bool) *Printer {
	color := term.IsTerminal(int(os.Stdout.Fd()))
	if forceColor != nil {
		color = *forceColor
	}

	return &Printer{w, color}
}

// Print renders every diagnostic in b in source order.
func (p *Printer) Print(b *Bag) {
	for _, d := range b.Items() {
		p.printOne(d)
	}
}

func (p *Printer) printOne(d Diagnostic) {
	file := d.SourceFile()
	line := d.FirstEnclosingLine()

	label := d.Severity.String()
	if p.color {
		label = p.colorFor(d.Severity) + label + ansiReset
	}

	fmt.Fprintf(p.w, "%s:%d: %s: %s [%s]\n", file.Filename(), line.Number(), label, d.Message(), d.Kind)
	fmt.Fprintf(p.w, "  %s\n", line.String())

	span := d.Span()
	col := span.Start() - line.Start()

	if col < 0 {
		col = 0
	}

	underline := strings.Repeat(" ", col) + strings.Repeat("^", max(1, span.Length()))
	if p.color {
		underline = p.colorFor(d.Severity) + underline + ansiReset
	}

	fmt.Fprintf(p.w, "  %s\n", underline)
}

func (p *Printer) colorFor(s Severity) string {
	switch s {
	case SeverityError:
		return ansiRed
	case SeverityWarning:
		return ansiYellow
	default:
		return ansiCyan
	}
}
