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

// S2: option-of-option collapses to a single IndexedOption.
func TestSimplifyOptionOfOptionCollapses(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{10, 20, 30, 40}), "l")
	innerOpt := NewIndexedOption(IndexFromInt64([]int64{0, -1, 2, 3}), inner)
	outerOpt := NewIndexedOption(IndexFromInt64([]int64{0, 1, -1, 3}), innerOpt)

	simplified, err := SimplifyOptionType(outerOpt)
	require.NoError(t, err)
	io, ok := simplified.(*IndexedOption)
	require.True(t, ok)
	require.Equal(t, KindNumpy, io.content.Kind())
	require.True(t, io.isNone()[1])
	require.True(t, io.isNone()[2])
	require.False(t, io.isNone()[0])
	require.False(t, io.isNone()[3])
}

func TestSimplifyUnmaskedOverOptionCollapses(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	opt := NewIndexedOption(IndexFromInt64([]int64{0, 1, 2}), inner)
	wrapped := NewUnmasked(opt)

	simplified, err := SimplifyOptionType(wrapped)
	require.NoError(t, err)
	_, ok := simplified.(*IndexedOption)
	require.True(t, ok)
}

// S3: union-of-union inlines, and mergeable branches of matching format fold.
func TestSimplifyUnionInlinesNestedUnion(t *testing.T) {
	a := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	b := NewNumpy(IndexFromInt64([]int64{3, 4, 5}), "l")
	inner, err := NewUnion(IndexFromInt8([]int8{0, 1, 0}), IndexFromInt64([]int64{0, 0, 1}), []Content{a, b})
	require.NoError(t, err)

	c := NewNumpy(IndexFromInt64([]int64{9}), "l")
	outer, err := NewUnion(IndexFromInt8([]int8{0, 1}), IndexFromInt64([]int64{0, 0}), []Content{inner, c})
	require.NoError(t, err)

	simplified, err := SimplifyUnionType(outer, false)
	require.NoError(t, err)
	// a, b, and c are all int64 Numpy and mergeable, so the whole thing
	// folds down to a single branch and simplify_uniontype's single-branch
	// rule returns contents[0].carry(index) directly, not a Union: one
	// element per outer position.
	require.Equal(t, KindNumpy, simplified.Kind())
	require.Equal(t, int64(2), simplified.Length())
}

func TestNewUnionTooManyBranchesErrors(t *testing.T) {
	contents := make([]Content, 200)
	for i := range contents {
		contents[i] = NewRecord([]string{itoa(i)}, []Content{NewNumpy(IndexFromInt64([]int64{int64(i)}), "l")}, 1)
	}
	tags := make([]int8, 200)
	index := make([]int64, 200)
	for i := range tags {
		tags[i] = int8(i)
	}
	_, err := NewUnion(IndexFromInt8(tags), IndexFromInt64(index), contents)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTooManyBranches)
}
