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

// Package runtime holds the failure taxonomy shared by every runtime
// component (stream, fiber, sink, filter, regexp) -- the contract the code
// generator targets rather than the compiler itself (§4.1).
package runtime

import "fmt"

// Kind enumerates the runtime failure taxonomy (§4.1/§7). ParseError is
// recoverable by an enclosing `try`; every other kind is either a
// programming error (assertions, unset optionals) or an input fault (out of
// range, invalid value) and propagates like any other Go error.
type Kind uint8

const (
	// ParseError is a recoverable parse fault; caught by an enclosing try,
	// it restores the saved cursor and resumes at the fallback branch.
	ParseError Kind = iota
	InvalidValue
	OutOfRange
	MissingData
	Overflow
	AttributeNotSet
	UnsetOptional
	UnsetUnionMember
	IndexError
	InvalidIterator
	MatchStateReuse
	StackSizeExceeded
	AssertionFailure
)

// String renders the failure kind the way a generated parser's exception
// message names it.
func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case InvalidValue:
		return "InvalidValue"
	case OutOfRange:
		return "OutOfRange"
	case MissingData:
		return "MissingData"
	case Overflow:
		return "Overflow"
	case AttributeNotSet:
		return "AttributeNotSet"
	case UnsetOptional:
		return "UnsetOptional"
	case UnsetUnionMember:
		return "UnsetUnionMember"
	case IndexError:
		return "IndexError"
	case InvalidIterator:
		return "InvalidIterator"
	case MatchStateReuse:
		return "MatchStateReuse"
	case StackSizeExceeded:
		return "StackSizeExceeded"
	case AssertionFailure:
		return "AssertionFailure"
	default:
		return "Unknown"
	}
}

// Failure is the error type every runtime component raises; Kind lets a
// caller distinguish a recoverable ParseError from every other fault without
// string-matching the message.
type Failure struct {
	Kind Kind
	Msg  string
}

// NewFailure constructs a Failure, formatting Msg the way fmt.Errorf would.
func NewFailure(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

// Recoverable reports whether a containing `try` may catch this failure and
// resume at its fallback branch (§7 propagation policy) -- true only for
// ParseError.
func (f *Failure) Recoverable() bool {
	return f.Kind == ParseError
}
