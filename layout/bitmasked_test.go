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

func TestByteMaskedToBitMaskedRoundTrip(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40, 50}), "l")
	bm := NewByteMasked(NewIndex(WrapU8([]byte{1, 0, 1, 1, 0}, nil), U8, 0, 5), inner, true)

	bit := bm.ToBitMasked(true)
	require.Equal(t, int64(5), bit.Length())

	back := bit.toByteMasked()
	for i := int64(0); i < 5; i++ {
		require.Equal(t, bm.isValidAt(i), back.isValidAt(i), "position %d", i)
	}
}

func TestByteMaskedToBitMaskedRoundTripMSBOrder(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9}), "l")
	rawMask := []byte{0, 1, 0, 1, 0, 1, 0, 1, 0}
	bm := NewByteMasked(NewIndex(WrapU8(rawMask, nil), U8, 0, 9), inner, false)

	bit := bm.ToBitMasked(false)
	require.Equal(t, int64(9), bit.Length())

	back := bit.toByteMasked()
	for i := int64(0); i < 9; i++ {
		require.Equal(t, bm.isValidAt(i), back.isValidAt(i), "position %d", i)
	}
}

func TestBitMaskedGetItemRangeNowrapMatchesFullExpansion(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5, 6, 7, 8}), "l")
	bm := NewByteMasked(NewIndex(WrapU8([]byte{1, 1, 0, 0, 1, 0, 1, 1}, nil), U8, 0, 8), inner, true).ToBitMasked(true)

	sliced := bitMaskedGetItemRangeNowrap(bm, 2, 6)
	require.Equal(t, int64(4), sliced.Length())
	for i := int64(0); i < 4; i++ {
		require.Equal(t, bm.isValidAt(2+i), sliced.isValidAt(i), "position %d", i)
	}
}

func TestBitMaskedGetItemAtHonorsMask(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{100, 200, 300}), "l")
	bm := NewByteMasked(NewIndex(WrapU8([]byte{1, 0, 1}, nil), U8, 0, 3), inner, true).ToBitMasked(true)

	v, err := bitMaskedGetItemAt(bm, 0)
	require.NoError(t, err)
	require.NotNil(t, v)

	v, err = bitMaskedGetItemAt(bm, 1)
	require.NoError(t, err)
	require.Nil(t, v)
}
