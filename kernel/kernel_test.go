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

package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegularizeRangeFullSlice(t *testing.T) {
	start, stop, status := RegularizeRange(0, 0, 1, false, false, 10)
	require.True(t, status.OK())
	require.Equal(t, int64(0), start)
	require.Equal(t, int64(10), stop)
}

func TestRegularizeRangeNegativeIndices(t *testing.T) {
	start, stop, status := RegularizeRange(-3, -1, 1, true, true, 10)
	require.True(t, status.OK())
	require.Equal(t, int64(7), start)
	require.Equal(t, int64(9), stop)
}

func TestRegularizeRangeNegativeStep(t *testing.T) {
	start, stop, status := RegularizeRange(0, 0, -1, false, false, 5)
	require.True(t, status.OK())
	require.Equal(t, int64(4), start)
	require.Equal(t, int64(-1), stop)
}

func TestCarryOutOfRange(t *testing.T) {
	dst := make([]int64, 3)
	status := Carry(dst, []int64{10, 20, 30}, []int64{0, 5, 1})
	require.False(t, status.OK())
	require.Equal(t, int64(1), status.Element)
}

func TestCarryOption(t *testing.T) {
	dst := make([]int64, 3)
	status := CarryOption(dst, []int64{10, 20, 30}, []int64{0, -1, 2})
	require.True(t, status.OK())
	require.Equal(t, []int64{10, -1, 30}, dst)
}

func TestUnionProject(t *testing.T) {
	tags := []int8{0, 1, 0, 1, 0}
	index := []int64{0, 0, 1, 1, 2}
	positions, inner := UnionProject(tags, index, 0)
	require.Equal(t, []int64{0, 2, 4}, positions)
	require.Equal(t, []int64{0, 1, 2}, inner)
}

func TestExpandCompactBitMaskRoundTrip(t *testing.T) {
	byteMask := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1}
	packed := make([]byte, 2)
	require.True(t, CompactByteMask(packed, byteMask, true).OK())
	out := make([]byte, len(byteMask))
	require.True(t, ExpandBitMask(out, packed, int64(len(byteMask)), true).OK())
	require.Equal(t, byteMask, out)
}

func TestCheckTooManyBranches(t *testing.T) {
	require.True(t, CheckTooManyBranches(127).OK())
	require.False(t, CheckTooManyBranches(128).OK())
}

func TestCheckMonotoneDetectsRegression(t *testing.T) {
	status := CheckMonotone([]int64{0, 2, 2, 1, 5}, 10)
	require.False(t, status.OK())
	require.Equal(t, int64(3), status.Element)
}
