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
package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeek/spicy-sub007/pkg/runtime"
)

func TestStream_00_AppendAccumulatesAcrossChunks(t *testing.T) {
	s := New()
	require.Nil(t, s.Append([]byte("hello ")))
	require.Nil(t, s.Append([]byte("world")))

	assert.Equal(t, 11, s.Len())
}

func TestStream_01_AppendAfterFreezeFails(t *testing.T) {
	s := New()
	s.Freeze()

	err := s.Append([]byte("x"))
	require.NotNil(t, err)
	assert.Equal(t, runtime.InvalidValue, err.Kind)
}

func TestStream_02_ViewMaterialisesSpanAcrossChunks(t *testing.T) {
	s := New()
	require.Nil(t, s.Append([]byte("abc")))
	require.Nil(t, s.Append([]byte("def")))

	v, ferr := s.View(2, 5, -1)
	require.Nil(t, ferr)

	b, berr := v.Bytes()
	require.Nil(t, berr)
	assert.Equal(t, []byte("cde"), b)
}

func TestStream_03_OpenEndedViewTracksHeadAndRespectsMaxSize(t *testing.T) {
	s := New()
	require.Nil(t, s.Append([]byte("0123456789")))

	v, ferr := s.View(0, -1, 4)
	require.Nil(t, ferr)
	assert.True(t, v.IsOpenEnded())
	assert.Equal(t, 4, v.Len())

	b, berr := v.Bytes()
	require.Nil(t, berr)
	assert.Equal(t, []byte("0123"), b)
}

func TestStream_04_ViewBeyondAvailableDataFails(t *testing.T) {
	s := New()
	require.Nil(t, s.Append([]byte("ab")))

	v, ferr := s.View(0, 5, -1)
	require.Nil(t, ferr)

	_, berr := v.Bytes()
	require.NotNil(t, berr)
	assert.Equal(t, runtime.MissingData, berr.Kind)
}

func TestStream_05_IteratorSubAcrossDifferentStreamsFails(t *testing.T) {
	a, b := New(), New()
	require.Nil(t, a.Append([]byte("xyz")))
	require.Nil(t, b.Append([]byte("xyz")))

	ia, ib := a.Iterator(1), b.Iterator(2)

	_, err := ia.Sub(ib)
	require.NotNil(t, err)
	assert.Equal(t, runtime.InvalidIterator, err.Kind)
}

func TestStream_06_IteratorDerefAfterCloseFails(t *testing.T) {
	s := New()
	require.Nil(t, s.Append([]byte("abc")))

	it := s.Iterator(0)
	s.Close()

	_, err := it.Deref()
	require.NotNil(t, err)
	assert.Equal(t, runtime.InvalidIterator, err.Kind)
}
