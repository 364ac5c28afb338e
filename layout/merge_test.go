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

// S4: record merge (field-wise concatenation).
func TestMergeRecordsFieldWise(t *testing.T) {
	r1 := NewRecord([]string{"x", "y"}, []Content{
		NewNumpy(IndexFromInt64([]int64{1, 2}), "l"),
		NewNumpy(IndexFromInt64([]int64{10, 20}), "l"),
	}, 2)
	r2 := NewRecord([]string{"x", "y"}, []Content{
		NewNumpy(IndexFromInt64([]int64{3}), "l"),
		NewNumpy(IndexFromInt64([]int64{30}), "l"),
	}, 1)

	require.True(t, Mergeable(r1, r2, true))
	merged, err := Merge(r1, r2)
	require.NoError(t, err)
	r := merged.(*Record)
	require.Equal(t, int64(3), r.length)
	x := r.contents[0].(*Numpy)
	require.Equal(t, int64(3), x.data.Get(2))
}

func TestMergeMismatchedKeysNotMergeable(t *testing.T) {
	r1 := NewRecord([]string{"x"}, []Content{NewNumpy(IndexFromInt64([]int64{1}), "l")}, 1)
	r2 := NewRecord([]string{"y"}, []Content{NewNumpy(IndexFromInt64([]int64{2}), "l")}, 1)
	require.False(t, Mergeable(r1, r2, true))
}

// S3 (parameters half): two same-Kind Numpy nodes with distinct parameter
// maps (e.g. differing element type-strings) must fall back to Union
// rather than being concatenated directly.
func TestMergeMismatchedParametersNotMergeable(t *testing.T) {
	a := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	a.b.parameters = map[string]string{"__array__": "one"}
	b := NewNumpy(IndexFromInt64([]int64{3, 4}), "l")
	b.b.parameters = map[string]string{"__array__": "two"}

	require.False(t, Mergeable(a, b, true))
	merged, err := Merge(a, b)
	require.NoError(t, err)
	_, isUnion := merged.(*Union)
	require.True(t, isUnion, "expected merge of mismatched-parameter nodes to fall back to Union")
}

func TestMergeMatchingParametersStillMergeable(t *testing.T) {
	a := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	a.b.parameters = map[string]string{"__array__": "same"}
	b := NewNumpy(IndexFromInt64([]int64{3, 4}), "l")
	b.b.parameters = map[string]string{"__array__": "same"}

	require.True(t, Mergeable(a, b, true))
	merged, err := Merge(a, b)
	require.NoError(t, err)
	require.Equal(t, int64(4), merged.Length())
}

func TestMergeAsUnionFallback(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	r := NewRecord([]string{"x"}, []Content{NewNumpy(IndexFromInt64([]int64{1}), "l")}, 1)
	out, err := MergeAsUnion(n, r)
	require.NoError(t, err)
	u := out.(*Union)
	require.Equal(t, int64(3), u.Length())
}

func TestMergeEmptyIsIdentity(t *testing.T) {
	e := NewEmpty()
	n := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	require.True(t, Mergeable(e, n, true))
	merged, err := Merge(e, n)
	require.NoError(t, err)
	require.Equal(t, int64(3), merged.Length())
}

// A ListOffset's content may run past offsets[n] (trailing slack) and its
// offsets need not start at 0; merging must rebase each side to its own
// packed span rather than concatenating the raw content buffers.
func TestMergeListWithOffsetSlackKeepsRowsDistinct(t *testing.T) {
	al := NewListOffset(IndexFromInt64([]int64{2, 5}), NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40, 50, 60, 70}), "l"))
	bl := NewListOffset(IndexFromInt64([]int64{0, 2}), NewNumpy(IndexFromInt64([]int64{100, 200}), "l"))

	merged, err := Merge(al, bl)
	require.NoError(t, err)
	require.Equal(t, int64(2), merged.Length())

	row0, err := GetItemAt(merged, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{30, 40, 50}, row0.(Content).(*Numpy).data.ToInt64Slice())

	row1, err := GetItemAt(merged, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{100, 200}, row1.(Content).(*Numpy).data.ToInt64Slice())
}

func TestMergeListConcatenatesRows(t *testing.T) {
	inner1 := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	l1 := NewListOffset(IndexFromInt64([]int64{0, 2, 3}), inner1)
	inner2 := NewNumpy(IndexFromInt64([]int64{9, 8}), "l")
	l2 := NewListOffset(IndexFromInt64([]int64{0, 2}), inner2)

	merged, err := Merge(l1, l2)
	require.NoError(t, err)
	require.Equal(t, int64(3), merged.Length())
	row2, err := GetItemAt(merged, 2)
	require.NoError(t, err)
	row2Content := row2.(Content)
	require.Equal(t, int64(2), row2Content.Length())
}
