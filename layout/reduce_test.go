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

func TestReduceSumPerRow(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 2, 2, 5}), inner)
	out, err := Reduce(lo, Sum(), 0, false)
	require.NoError(t, err)
	n := out.(*Numpy)
	require.Equal(t, float64(3), n.data.Float64At(0))  // 1+2
	require.Equal(t, float64(0), n.data.Float64At(1))  // empty row -> identity
	require.Equal(t, float64(12), n.data.Float64At(2)) // 3+4+5
}

// offsets need not start at 0 (e.g. after slicing off a leading row); rows
// must still be read relative to their own span, not the raw offset values.
func TestReduceSumOffsetsNotStartingAtZero(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40, 50, 60, 70, 80}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{2, 5, 8}), inner)
	out, err := Reduce(lo, Sum(), 0, false)
	require.NoError(t, err)
	n := out.(*Numpy)
	require.Equal(t, float64(120), n.data.Float64At(0)) // content[2:5] = 30+40+50
	require.Equal(t, float64(210), n.data.Float64At(1)) // content[5:8] = 60+70+80
}

func TestReduceMinDoesNotUseZeroIdentityWhenNegative(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{-5, -1, -9}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 3}), inner)
	out, err := Reduce(lo, Min(), 0, false)
	require.NoError(t, err)
	n := out.(*Numpy)
	require.Equal(t, float64(-9), n.data.Float64At(0))
}

func TestReduceCountSeedsOneNotIdentity(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{7}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 1}), inner)
	out, err := Reduce(lo, Count(), 0, false)
	require.NoError(t, err)
	n := out.(*Numpy)
	require.Equal(t, float64(1), n.data.Float64At(0))
}

func TestReduceMaskWrapsEmptyGroupsMissing(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 0, 2}), inner)
	out, err := Reduce(lo, Sum(), 0, true)
	require.NoError(t, err)
	io := out.(*IndexedOption)
	require.True(t, io.isNone()[0])
	require.False(t, io.isNone()[1])
}

func TestReduceNextOnUnionErrors(t *testing.T) {
	a := NewNumpy(IndexFromInt64([]int64{1}), "l")
	u, err := NewUnion(IndexFromInt8([]int8{0}), IndexFromInt64([]int64{0}), []Content{a})
	require.NoError(t, err)
	_, err = ReduceNext(u, Sum(), 0, []int64{0}, []int64{0}, 1, false, false)
	require.Error(t, err)
}

func TestReduceNextRecordFieldWise(t *testing.T) {
	x := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4}), "l")
	y := NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40}), "l")
	rec := NewRecord([]string{"x", "y"}, []Content{x, y}, 4)
	parents := []int64{0, 0, 1, 1}
	out, err := ReduceNext(rec, Sum(), 0, []int64{0, 2}, parents, 2, false, false)
	require.NoError(t, err)
	r := out.(*Record)
	require.Equal(t, float64(3), r.contents[0].(*Numpy).data.Float64At(0))
	require.Equal(t, float64(70), r.contents[1].(*Numpy).data.Float64At(1))
}
