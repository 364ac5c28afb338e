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

// SliceItem is one element of the tuple passed to GetItem: an integer, a
// range, an advanced (possibly jagged) index array, an ellipsis, a new
// axis, or a field selector. A slice request is a []SliceItem, one item
// consumed per recursion level except for SliceNewAxis (which consumes
// none) and SliceEllipsis (which consumes however many levels are needed
// to align the remaining items with the tree's depth).
type SliceItem interface {
	sliceItem()
}

// SliceAt selects a single element along the current axis and removes
// that axis from the result (basic integer indexing).
type SliceAt struct {
	At int64
}

// SliceRange selects a contiguous, possibly strided span along the
// current axis, keeping the axis in the result (basic slice indexing).
// HasStart/HasStop false mean the bound was omitted (Python's `:`).
type SliceRange struct {
	Start, Stop, Step int64
	HasStart, HasStop bool
}

// SliceArray64 is advanced indexing by an explicit flat array of integer
// positions. Every position must be in range: a negative entry is an
// out-of-range error from Carry, and HasNone is not consulted.
type SliceArray64 struct {
	Data    []int64
	HasNone bool
}

// SliceJagged64 is advanced indexing by a per-outer-element variable
// length array of integer positions — jagged/"local" indexing, the
// multidimensional case that forces getitem_next_jagged.
type SliceJagged64 struct {
	Offsets []int64
	Data    []int64
}

// SliceMissing64 is advanced indexing by an array of positions where
// negative entries mark elements to replace with None rather than select
// via wraparound, the slice-item counterpart of IndexedOption.
type SliceMissing64 struct {
	Index []int64
}

// SliceEllipsis stands for as many full-range slices as needed to align
// the remaining slice items with the tree's remaining depth.
type SliceEllipsis struct{}

// SliceNewAxis inserts a new length-1 RegularArray axis at this position
// without consuming a level of depth from the content being sliced.
type SliceNewAxis struct{}

// SliceField selects a single Record field, dropping every other field.
type SliceField struct {
	Key string
}

// SliceFields selects a subset of Record fields, preserving their order
// of appearance in Keys.
type SliceFields struct {
	Keys []string
}

func (SliceAt) sliceItem()         {}
func (SliceRange) sliceItem()      {}
func (SliceArray64) sliceItem()    {}
func (SliceJagged64) sliceItem()   {}
func (SliceMissing64) sliceItem()  {}
func (SliceEllipsis) sliceItem()   {}
func (SliceNewAxis) sliceItem()    {}
func (SliceField) sliceItem()      {}
func (SliceFields) sliceItem()     {}

// isAdvanced reports whether item is one of the advanced (index-array)
// slice item kinds.
func isAdvanced(item SliceItem) bool {
	switch item.(type) {
	case SliceArray64, SliceJagged64, SliceMissing64:
		return true
	default:
		return false
	}
}
