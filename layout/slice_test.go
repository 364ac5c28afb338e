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

func listOfRecords() *ListOffset {
	x := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5, 6}), "l")
	y := NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40, 50, 60}), "l")
	rec := NewRecord([]string{"x", "y"}, []Content{x, y}, 6)
	return NewListOffset(IndexFromInt64([]int64{0, 3, 3, 6}), rec)
}

// S1: slicing a list-of-records at one row, then projecting a field.
func TestSliceListOfRecordsAtAndField(t *testing.T) {
	lo := listOfRecords()
	row, err := GetItem(lo, []SliceItem{SliceAt{At: 0}})
	require.NoError(t, err)
	require.Equal(t, int64(3), row.Length())

	xs, err := GetItem(row, []SliceItem{SliceField{Key: "x"}})
	require.NoError(t, err)
	require.Equal(t, int64(3), xs.Length())
	n := xs.(*Numpy)
	require.Equal(t, int64(1), n.data.Get(0))
	require.Equal(t, int64(3), n.data.Get(2))
}

func TestSliceEmptyRowOfListOfRecords(t *testing.T) {
	lo := listOfRecords()
	row, err := GetItem(lo, []SliceItem{SliceAt{At: 1}})
	require.NoError(t, err)
	require.Equal(t, int64(0), row.Length())
}

func TestSliceRangeKeepsAxis(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{0, 1, 2, 3, 4}), "l")
	out, err := GetItem(n, []SliceItem{SliceRange{Start: 1, Stop: 4, Step: 1, HasStart: true, HasStop: true}})
	require.NoError(t, err)
	require.Equal(t, int64(3), out.Length())
}

func TestSliceNegativeAtWraps(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{0, 1, 2, 3, 4}), "l")
	out, err := GetItemAt(n, -1)
	require.NoError(t, err)
	require.Equal(t, float64(4), out.(float64))
}

func TestSliceAtOutOfRangeErrors(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{0, 1, 2}), "l")
	_, err := GetItemAt(n, 5)
	require.Error(t, err)
}

// Advanced (non-jagged) indexing on a flat Numpy leaf; S5 itself (jagged
// slicing of a ListOffset) is covered in jagged_test.go.
func TestSliceArray64Advanced(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40, 50}), "l")
	out, err := GetItem(n, []SliceItem{SliceArray64{Data: []int64{4, 0, 2}}})
	require.NoError(t, err)
	require.Equal(t, int64(3), out.Length())
	on := out.(*Numpy)
	require.Equal(t, int64(50), on.data.Get(0))
	require.Equal(t, int64(10), on.data.Get(1))
	require.Equal(t, int64(30), on.data.Get(2))
}

func TestSliceFieldOnBareNumpyUndefined(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	_, err := GetItem(n, []SliceItem{SliceField{Key: "x"}})
	require.Error(t, err)
}

func TestSliceRecordAtDescendsEveryField(t *testing.T) {
	x := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	y := NewNumpy(IndexFromInt64([]int64{10, 20, 30}), "l")
	rec := NewRecord([]string{"x", "y"}, []Content{x, y}, 3)
	out, err := GetItem(rec, []SliceItem{SliceAt{At: 1}})
	require.NoError(t, err)
	r := out.(*Record)
	require.Equal(t, int64(1), r.length)
}
