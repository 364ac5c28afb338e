// Copyright 2024 The Layout Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeysOnRecordInDeclarationOrder(t *testing.T) {
	r := NewRecord([]string{"x", "y"}, []Content{
		NewNumpy(IndexFromInt64([]int64{1}), "l"),
		NewNumpy(IndexFromInt64([]int64{2}), "l"),
	}, 1)
	keys, err := Keys(r)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, keys)
	require.True(t, HasKey(r, "x"))
	require.False(t, HasKey(r, "z"))

	n, err := NumFields(r)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestKeysForwardsThroughOptionWrapper(t *testing.T) {
	r := NewRecord([]string{"x"}, []Content{NewNumpy(IndexFromInt64([]int64{1}), "l")}, 1)
	opt := NewIndexedOption(IndexFromInt64([]int64{0}), r)
	keys, err := Keys(opt)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, keys)
}

func TestKeysOnUnionIsIntersection(t *testing.T) {
	a := NewRecord([]string{"x", "y"}, []Content{
		NewNumpy(IndexFromInt64([]int64{1}), "l"),
		NewNumpy(IndexFromInt64([]int64{2}), "l"),
	}, 1)
	b := NewRecord([]string{"x", "z"}, []Content{
		NewNumpy(IndexFromInt64([]int64{3}), "l"),
		NewNumpy(IndexFromInt64([]int64{4}), "l"),
	}, 1)
	u, err := NewUnion(IndexFromInt8([]int8{0, 1}), IndexFromInt64([]int64{0, 0}), []Content{a, b})
	require.NoError(t, err)

	keys, err := Keys(u)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, keys)

	n, err := NumFields(u)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestFieldIndexAndFieldKeyRoundTrip(t *testing.T) {
	r := NewRecord([]string{"a", "b", "c"}, []Content{
		NewNumpy(IndexFromInt64([]int64{1}), "l"),
		NewNumpy(IndexFromInt64([]int64{2}), "l"),
		NewNumpy(IndexFromInt64([]int64{3}), "l"),
	}, 1)
	idx, err := FieldIndex(r, "b")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	key, err := FieldKey(r, 2)
	require.NoError(t, err)
	require.Equal(t, "c", key)

	_, err = FieldIndex(r, "nope")
	require.Error(t, err)
}

// Union forbids FieldIndex/FieldKey since branch-to-branch field mapping
// is not positionally bijective.
func TestFieldIndexAndFieldKeyForbiddenOnUnion(t *testing.T) {
	a := NewRecord([]string{"x"}, []Content{NewNumpy(IndexFromInt64([]int64{1}), "l")}, 1)
	b := NewRecord([]string{"x"}, []Content{NewNumpy(IndexFromInt64([]int64{2}), "l")}, 1)
	u, err := NewUnion(IndexFromInt8([]int8{0, 1}), IndexFromInt64([]int64{0, 0}), []Content{a, b})
	require.NoError(t, err)

	_, err = FieldIndex(u, "x")
	require.Error(t, err)
	_, err = FieldKey(u, 0)
	require.Error(t, err)
}

func TestKeysOnBareLeafIsEmpty(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	keys, err := Keys(n)
	require.NoError(t, err)
	require.Empty(t, keys)

	num, err := NumFields(n)
	require.NoError(t, err)
	require.Equal(t, 0, num)
}
