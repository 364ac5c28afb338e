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

func TestNumAxis0IsLength(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	got, err := Num(n, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), got)
}

func TestFlattenListOffset(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 2, 2, 5}), inner)
	flat, err := Flatten(lo, 0)
	require.NoError(t, err)
	require.Equal(t, int64(5), flat.Length())
}

// S6: rpad and rpad_and_clip.
func TestRPadShortensNothingPadsWithMissing(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	padded, err := RPad(n, 4, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(4), padded.Length())
	io := padded.(*IndexedOption)
	require.False(t, io.isNone()[0])
	require.True(t, io.isNone()[2])
	require.True(t, io.isNone()[3])
}

func TestRPadAndClipTruncatesLongerRows(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5}), "l")
	clipped, err := RPadAndClip(n, 3, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), clipped.Length())
}

func TestRPadAlreadyLongEnoughIsNoop(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	out, err := RPad(n, 3, 0, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), out.Length())
}

func TestLocalIndexResetsPerRow(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 2, 5}), inner)
	li, err := LocalIndex(lo, 1, 0)
	require.NoError(t, err)
	loOut := li.(*ListOffset)
	flat := loOut.content.(*Numpy)
	require.Equal(t, int64(0), flat.data.Get(0))
	require.Equal(t, int64(1), flat.data.Get(1))
	require.Equal(t, int64(0), flat.data.Get(2))
	require.Equal(t, int64(1), flat.data.Get(3))
	require.Equal(t, int64(2), flat.data.Get(4))
}

func TestCombinationsPairsWithoutReplacement(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{10, 20, 30}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 3}), inner)
	combos, err := Combinations(lo, 2, false, nil, 1, 0)
	require.NoError(t, err)
	loOut := combos.(*ListOffset)
	require.Equal(t, int64(1), loOut.Length()) // one outer row, unchanged
	require.Equal(t, int64(3), loOut.content.Length())
}

func TestFillNAReplacesMissingSlots(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	opt := NewIndexedOption(IndexFromInt64([]int64{0, -1, 2}), inner)
	fill := NewNumpy(IndexFromInt64([]int64{99}), "l")
	filled, err := FillNA(opt, fill)
	require.NoError(t, err)
	require.Equal(t, int64(3), filled.Length())
	got, err := GetItemAt(filled, 1)
	require.NoError(t, err)
	require.Equal(t, float64(99), got.(float64))
}

func TestIsNoneReportsMaskedPositions(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	opt := NewIndexedOption(IndexFromInt64([]int64{0, -1, 2}), inner)
	mask := IsNone(opt, 0, 0)
	require.Equal(t, []bool{false, true, false}, mask)
}

func TestValidityErrorDetectsNonMonotoneOffsets(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 2, 1}), inner)
	msg := ValidityError(lo, "root")
	require.NotEmpty(t, msg)
}

func TestValidityErrorValidTreeIsEmptyString(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 2, 3}), inner)
	require.Empty(t, ValidityError(lo, "root"))
}

func TestValidityErrorDetectsOutOfBoundsIndexed(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	ix := NewIndexed(IndexFromInt64([]int64{0, 5}), inner)
	require.NotEmpty(t, ValidityError(ix, "root"))
}

// Boundary: an empty (zero-length) record is valid and reports length 0.
func TestZeroLengthRecordIsValid(t *testing.T) {
	r := NewRecord(nil, nil, 0)
	require.Empty(t, ValidityError(r, "root"))
	require.Equal(t, int64(0), r.Length())
}
