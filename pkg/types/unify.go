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

// Package types implements the type unifier and coercer (§4.5): a
// deterministic canonical-string form for UnqualifiedType, used to compare
// types without relying on pointer identity, and a directed coercion engine
// that rewrites expressions to match a destination type under a style mask.
package types

import (
	"fmt"
	"strings"

	"github.com/zeek/spicy-sub007/pkg/ast"
)

// Unify produces the canonical string form of an UnqualifiedType. Two types
// unify (are considered identical) iff their canonical forms are equal.
// Named/declared types collapse to their fully qualified canonical ID;
// structural types expand recursively.
func Unify(t ast.UnqualifiedType) string {
	var sb strings.Builder

	writeType(&sb, t)

	return sb.String()
}

// UnifyQualified additionally folds in constness (side is not included), since two otherwise
// identical shapes at different qualification are not interchangeable in an
// Assignment-style coercion.
func UnifyQualified(q *ast.QualifiedType) string {
	var sb strings.Builder

	if q.Constness() == ast.Const {
		sb.WriteString("const ")
	}

	writeQualified(&sb, q)

	return sb.String()
}

// Equal reports whether two unqualified types unify to the same canonical
// form.
func Equal(a, b ast.UnqualifiedType) bool {
	return Unify(a) == Unify(b)
}

func writeQualified(sb *strings.Builder, q *ast.QualifiedType) {
	if q.Underlying == nil {
		sb.WriteString("<unset>")
		return
	}

	writeType(sb, q.Underlying)
}

func writeType(sb *strings.Builder, t ast.UnqualifiedType) {
	if t == nil {
		sb.WriteString("<nil>")
		return
	}

	switch v := t.(type) {
	case *ast.NameType:
		if v.Declaration != nil {
			sb.WriteString(v.Declaration.CanonicalID().String())
		} else {
			sb.WriteString(v.Name.String())
		}
	case *ast.ScalarType:
		writeScalar(sb, v)
	case *ast.ReferenceType:
		writeReference(sb, v)
	case *ast.CompoundType:
		writeCompound(sb, v)
	case *ast.FunctionType:
		writeFunction(sb, v)
	case *ast.ComputedType:
		writeType(sb, v.Resolve().Underlying)
	case *ast.VoidType:
		sb.WriteString("void")
	case *ast.AutoType:
		if v.Inferred != nil {
			writeQualified(sb, v.Inferred)
		} else {
			sb.WriteString("auto")
		}
	case *ast.UnknownType:
		sb.WriteString("unknown")
	default:
		fmt.Fprintf(sb, "?%T", t)
	}
}

func writeScalar(sb *strings.Builder, t *ast.ScalarType) {
	switch t.Kind() {
	case ast.KindInt:
		fmt.Fprintf(sb, "int%d", t.Width)
	case ast.KindUInt:
		fmt.Fprintf(sb, "uint%d", t.Width)
	case ast.KindBool:
		sb.WriteString("bool")
	case ast.KindReal:
		sb.WriteString("real")
	case ast.KindInterval:
		sb.WriteString("interval")
	case ast.KindTime:
		sb.WriteString("time")
	case ast.KindAddress:
		sb.WriteString("addr")
	case ast.KindPort:
		sb.WriteString("port")
	case ast.KindNetwork:
		sb.WriteString("net")
	case ast.KindString:
		sb.WriteString("string")
	case ast.KindBytes:
		sb.WriteString("bytes")
	case ast.KindRegExp:
		sb.WriteString("regexp")
	case ast.KindStream:
		sb.WriteString("stream")
	case ast.KindStreamView:
		sb.WriteString("stream_view")
	case ast.KindStreamIterator:
		sb.WriteString("stream_iterator")
	default:
		sb.WriteString("scalar")
	}
}

func writeReference(sb *strings.Builder, t *ast.ReferenceType) {
	switch t.Kind_ {
	case ast.StrongRef:
		sb.WriteString("strong_ref(")
	case ast.WeakRef:
		sb.WriteString("weak_ref(")
	default:
		sb.WriteString("value_ref(")
	}

	writeQualified(sb, t.Element)
	sb.WriteString(")")
}

func writeCompound(sb *strings.Builder, t *ast.CompoundType) {
	switch t.Kind() {
	case ast.KindTuple:
		sb.WriteString("tuple(")
		for i, e := range t.Elements {
			if i != 0 {
				sb.WriteString(",")
			}

			writeQualified(sb, e.Type)
		}

		sb.WriteString(")")
	case ast.KindStruct:
		writeLabelledCompound(sb, "struct", t)
	case ast.KindUnion:
		writeLabelledCompound(sb, "union", t)
	case ast.KindEnum:
		writeLabelledCompound(sb, "enum", t)
	case ast.KindBitfield:
		writeLabelledCompound(sb, "bitfield", t)
	case ast.KindOptional:
		sb.WriteString("optional(")
		writeQualified(sb, t.ValueType)
		sb.WriteString(")")
	case ast.KindResult:
		sb.WriteString("result(")
		writeQualified(sb, t.ValueType)
		sb.WriteString(")")
	case ast.KindVector, ast.KindVectorIterator:
		writeContainer(sb, "vector", t)
	case ast.KindList, ast.KindListIterator:
		writeContainer(sb, "list", t)
	case ast.KindSet, ast.KindSetIterator:
		writeContainer(sb, "set", t)
	case ast.KindMap, ast.KindMapIterator:
		sb.WriteString("map(")
		writeQualified(sb, t.KeyType)
		sb.WriteString(",")
		writeQualified(sb, t.ValueType)
		sb.WriteString(")")
	default:
		sb.WriteString("compound")
	}
}

func writeLabelledCompound(sb *strings.Builder, keyword string, t *ast.CompoundType) {
	sb.WriteString(keyword)
	sb.WriteString("(")

	for i, e := range t.Elements {
		if i != 0 {
			sb.WriteString(",")
		}

		if e.Name != "" {
			sb.WriteString(e.Name)
			sb.WriteString(":")
		}

		writeQualified(sb, e.Type)
	}

	sb.WriteString(")")
}

func writeContainer(sb *strings.Builder, keyword string, t *ast.CompoundType) {
	sb.WriteString(keyword)
	sb.WriteString("(")
	writeQualified(sb, t.ValueType)
	sb.WriteString(")")
}

func writeFunction(sb *strings.Builder, t *ast.FunctionType) {
	sb.WriteString("function(")

	if t.Result != nil {
		writeQualified(sb, t.Result)
	} else {
		sb.WriteString("void")
	}

	sb.WriteString(";")

	for i, p := range t.Parameters {
		if i != 0 {
			sb.WriteString(",")
		}

		writeQualified(sb, p.Type)
	}

	sb.WriteString(")")
}
