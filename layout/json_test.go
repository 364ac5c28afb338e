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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// S: JSON round-trip for a leaf-only tree.
func TestToJSONPartNumpyLeaf(t *testing.T) {
	n := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	var buf bytes.Buffer
	builder := NewWriteJSONBuilder(&buf)
	require.NoError(t, ToJSONPart(n, builder, true))
	require.Equal(t, `[1,2,3]`, buf.String())
}

func TestToJSONPartRecordNestsFields(t *testing.T) {
	x := NewNumpy(IndexFromInt64([]int64{1, 2}), "l")
	y := NewNumpy(IndexFromInt64([]int64{10, 20}), "l")
	r := NewRecord([]string{"x", "y"}, []Content{x, y}, 2)

	var buf bytes.Buffer
	builder := NewWriteJSONBuilder(&buf)
	require.NoError(t, ToJSONPart(r, builder, true))
	require.Equal(t, `[{"x":[1,2],"y":[10,20]}]`, buf.String())
}

func TestToJSONPartListOfNumpy(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3, 4, 5}), "l")
	lo := NewListOffset(IndexFromInt64([]int64{0, 2, 2, 5}), inner)

	var buf bytes.Buffer
	builder := NewWriteJSONBuilder(&buf)
	require.NoError(t, ToJSONPart(lo, builder, true))
	require.Equal(t, `[[1,2],[],[3,4,5]]`, buf.String())
}

func TestToJSONPartOptionEmitsNull(t *testing.T) {
	inner := NewNumpy(IndexFromInt64([]int64{1, 2, 3}), "l")
	opt := NewIndexedOption(IndexFromInt64([]int64{0, -1, 2}), inner)

	var buf bytes.Buffer
	builder := NewWriteJSONBuilder(&buf)
	require.NoError(t, ToJSONPart(opt, builder, true))
	require.Equal(t, `[1,null,3]`, buf.String())
}

func TestToJSONPartUnionDispatchesPerElement(t *testing.T) {
	a := NewNumpy(IndexFromInt64([]int64{1}), "l")
	b := NewNumpy(IndexFromInt64([]int64{2}), "l")
	u, err := NewUnion(IndexFromInt8([]int8{0}), IndexFromInt64([]int64{0}), []Content{a, b})
	require.NoError(t, err)

	var buf bytes.Buffer
	builder := NewWriteJSONBuilder(&buf)
	require.NoError(t, ToJSONPart(u, builder, true))
	require.Equal(t, `[1]`, buf.String())
}

func TestToStringWrapsRecordFields(t *testing.T) {
	x := NewNumpy(IndexFromInt64([]int64{1}), "l")
	r := NewRecord([]string{"x"}, []Content{x}, 1)
	s := ToString(r, "  ", "", "")
	require.Contains(t, s, `<RecordArray len="1">`)
	require.Contains(t, s, `<field key="x">`)
}
