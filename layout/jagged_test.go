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

// S5: jagged slicing of a ListOffset by a per-row variable-length index
// expression, driven end-to-end through the public GetItem entry point.
func TestGetItemJaggedSliceListOffset(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40, 50}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 3, 3, 5}), inner)

	out, err := GetItem(lo, []SliceItem{SliceJagged64{
		Offsets: []int64{0, 2, 2, 3},
		Data:    []int64{0, 2, 0},
	}})
	require.NoError(t, err)

	result := out.(*ListOffset)
	require.Equal(t, []int64{0, 2, 2, 3}, result.offsets.ToInt64Slice())
	content := result.content.(*Numpy)
	require.Equal(t, []int64{10, 30, 40}, content.data.ToInt64Slice())
}

// jagged.go's *Record case: a jagged slice distributes across every field
// independently, then the results are reassembled into a Record.
func TestGetItemNextJaggedDistributesAcrossRecordFields(t *testing.T) {
	a := NewListOffset(IndexFromInt64([]int64{0, 3, 3, 5}), NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40, 50}), "l"))
	b := NewListOffset(IndexFromInt64([]int64{0, 3, 3, 5}), NewNumpy(IndexFromInt64([]int64{100, 200, 300, 400, 500}), "l"))
	rec := NewRecord([]string{"a", "b"}, []Content{a, b}, 3)

	h := SliceJagged64{Offsets: []int64{0, 2, 2, 3}, Data: []int64{0, 2, 0}}
	out, err := getitemNextJagged(rec, h, nil)
	require.NoError(t, err)

	r := out.(*Record)
	require.Equal(t, int64(3), r.length)

	fieldA := r.contents[0].(*ListOffset)
	require.Equal(t, []int64{0, 2, 2, 3}, fieldA.offsets.ToInt64Slice())
	require.Equal(t, []int64{10, 30, 40}, fieldA.content.(*Numpy).data.ToInt64Slice())

	fieldB := r.contents[1].(*ListOffset)
	require.Equal(t, []int64{100, 300, 400}, fieldB.content.(*Numpy).data.ToInt64Slice())
}

// jagged.go's *Union case: the union must simplify to a single mergeable
// type before the jagged slice can be applied to it.
func TestGetItemNextJaggedSimplifiesUnionFirst(t *testing.T) {
	lo1 := NewListOffset(IndexFromInt64([]int64{0, 2}), NewNumpy(IndexFromInt64([]int64{1, 2}), "l"))
	lo2 := NewListOffset(IndexFromInt64([]int64{0, 3}), NewNumpy(IndexFromInt64([]int64{10, 20, 30}), "l"))
	u, err := NewUnion(IndexFromInt8([]int8{0, 1}), IndexFromInt64([]int64{0, 0}), []Content{lo1, lo2})
	require.NoError(t, err)

	h := SliceJagged64{Offsets: []int64{0, 1, 2}, Data: []int64{1, 1}}
	out, err := getitemNextJagged(u, h, nil)
	require.NoError(t, err)

	result := out.(*ListOffset)
	require.Equal(t, []int64{0, 1, 2}, result.offsets.ToInt64Slice())
	require.Equal(t, []int64{2, 20}, result.content.(*Numpy).data.ToInt64Slice())
}

func TestGetItemNextJaggedUnionNotReducibleErrors(t *testing.T) {
	a := NewRecord([]string{"x"}, []Content{NewNumpy(IndexFromInt64([]int64{1}), "l")}, 1)
	b := NewRecord([]string{"y"}, []Content{NewNumpy(IndexFromInt64([]int64{2}), "l")}, 1)
	u, err := NewUnion(IndexFromInt8([]int8{0, 1}), IndexFromInt64([]int64{0, 0}), []Content{a, b})
	require.NoError(t, err)

	h := SliceJagged64{Offsets: []int64{0, 1, 2}, Data: []int64{0, 0}}
	_, err = getitemNextJagged(u, h, nil)
	require.Error(t, err)
}

// jagged.go's *IndexedOption case: missing positions are routed around the
// jagged descent and reinserted as None afterward.
func TestGetItemNextJaggedIndexedOptionPreservesMissing(t *testing.T) {
	inner := NewListOffset(IndexFromInt64([]int64{0, 2, 2, 5}), NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5}), "l"))
	io := NewIndexedOption(IndexFromInt64([]int64{0, -1, 2}), inner)

	h := SliceJagged64{Offsets: []int64{0, 1, 2, 3}, Data: []int64{1, 99, 0}}
	out, err := getitemNextJagged(io, h, nil)
	require.NoError(t, err)

	result := out.(*IndexedOption)
	require.Equal(t, []bool{false, true, false}, result.isNone())

	row0, err := GetItemAt(result, 0)
	require.NoError(t, err)
	row0Content := row0.(Content)
	require.Equal(t, int64(1), row0Content.Length())
	require.Equal(t, int64(2), row0Content.(*Numpy).data.Get(0))

	row2, err := GetItemAt(result, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), row2.(Content).(*Numpy).data.Get(0))
}
