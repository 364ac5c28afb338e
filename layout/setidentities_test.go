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

func TestSetIdentitiesRootGetsOneRowPerElement(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{10, 20, 30}), "l")
	SetIdentities(n)
	ids := n.base().identities
	require.NotNil(t, ids)
	require.Equal(t, [][]int64{{0}, {1}, {2}}, ids.Data)
}

func TestSetIdentitiesExtendsThroughListOffset(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 2, 5}), inner)
	SetIdentities(lo)

	rootIds := lo.base().identities
	require.Equal(t, [][]int64{{0}, {1}}, rootIds.Data)

	childIds := inner.base().identities
	require.NotNil(t, childIds)
	require.Equal(t, [][]int64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {1, 2}}, childIds.Data)
}

func TestSetIdentitiesDroppedOnIndexedOptionChild(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	opt := NewIndexedOption(IndexFromInt64([]int64{0, -1, 2}), inner)
	SetIdentities(opt)

	require.NotNil(t, opt.base().identities)
	require.Nil(t, inner.base().identities)
}

func TestSetIdentitiesRecordFieldGetsLabel(t *testing.T) {
	x := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	r := NewRecord([]string{"x"}, []Content{x}, 2)
	SetIdentities(r)

	fieldIds := x.base().identities
	require.NotNil(t, fieldIds)
	require.Equal(t, []FieldLoc{{Axis: 1, Label: "x"}}, fieldIds.FieldLoc)
	require.Equal(t, [][]int64{{0}, {1}}, fieldIds.Data)
}

func TestWithIdentitiesLeavesOriginalUntouched(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	cloned := WithIdentities(n)
	require.Nil(t, n.base().identities)
	require.NotNil(t, cloned.base().identities)
}

func TestCloneTreeSharesLeafBuffersButNotStructs(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 3}), inner)
	clone := CloneTree(lo).(*ListOffset)

	require.NotSame(t, lo, clone)
	cloneInner := clone.content.(*Numpy)
	require.NotSame(t, inner, cloneInner)
	require.Equal(t, inner.data.ToInt64Slice(), cloneInner.data.ToInt64Slice())
}
