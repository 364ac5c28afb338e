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
	"github.com/cockroachdb/errors"

	"github.com/gocolumnar/layout/kernel"
)

// GetItem is the slice protocol's entry point: it expands an ellipsis item
// against c's purelist depth, then recurses via getitemNext one item at a
// time.
func GetItem(c Content, items []SliceItem) (Content, error) {
	normalized, err := normalizeEllipsis(c, items)
	if err != nil {
		return nil, err
	}
	return getitemNext(c, normalized, nil)
}

// normalizeEllipsis expands a single SliceEllipsis into as many full-range
// SliceRange items as are needed to align the remaining items with c's
// purelist depth. SliceNewAxis items stay in the list; getitemNext
// realizes each one as a length-1 RegularArray wrap.
func normalizeEllipsis(c Content, items []SliceItem) ([]SliceItem, error) {
	ellipsisAt := -1
	for i, it := range items {
		if _, ok := it.(SliceEllipsis); ok {
			ellipsisAt = i
			break
		}
	}
	if ellipsisAt < 0 {
		return items, nil
	}
	depth := PurelistDepth(c)
	consumed := 0
	for _, it := range items {
		switch it.(type) {
		case SliceEllipsis, SliceNewAxis, SliceField, SliceFields:
		default:
			consumed++
		}
	}
	fill := int(depth) - consumed
	if fill < 0 {
		fill = 0
	}
	out := make([]SliceItem, 0, len(items)+fill)
	out = append(out, items[:ellipsisAt]...)
	for i := 0; i < fill; i++ {
		out = append(out, SliceRange{})
	}
	out = append(out, items[ellipsisAt+1:]...)
	return out, nil
}

// getitemNext consumes items[0] against c, recursing with items[1:] as the
// tail. advanced, when non-nil, is the accumulated broadcast index from an
// enclosing SliceArray64/SliceJagged64 step still being propagated.
func getitemNext(c Content, items []SliceItem, advanced []int64) (Content, error) {
	if len(items) == 0 {
		return c, nil
	}
	head, tail := items[0], items[1:]

	switch h := head.(type) {
	case SliceNewAxis:
		inner, err := getitemNext(c, tail, advanced)
		if err != nil {
			return nil, err
		}
		return &Regular{content: inner, size: inner.Length(), length: 1}, nil
	case SliceField:
		return getitemNextField(c, h.Key, tail, advanced)
	case SliceFields:
		return getitemNextFields(c, h.Keys, tail, advanced)
	}

	switch v := c.(type) {
	case *Record:
		return recordGetItemNext(v, head, tail, advanced)
	case *Union:
		return unionGetItemNext(v, head, tail, advanced)
	case *IndexedOption:
		return indexedOptionGetItemNext(v, head, tail, advanced)
	case *ByteMasked:
		return getitemNext(v.toIndexedOption(), items, advanced)
	case *BitMasked:
		return getitemNext(v.toByteMasked(), items, advanced)
	case *Unmasked:
		inner, err := getitemNext(v.content, items, advanced)
		if err != nil {
			return nil, err
		}
		return SimplifyOptionType(&Unmasked{b: v.b, content: inner})
	case *Indexed:
		return indexedGetItemNext(v, head, tail, advanced)
	case *Numpy:
		if len(v.shape) > 1 {
			return getitemNext(v.toRegularLike(), items, advanced)
		}
		return getitemNextLeaf(v, head, tail, advanced)
	default:
		return getitemNextListLike(c, head, tail, advanced)
	}
}

// scalarLeafToContent rewraps a single scalar value taken from a Numpy
// leaf as a length-1 Numpy of the same format, so a terminal SliceAt
// against a leaf field returns a Content uniformly with every other
// variant instead of a bare float64.
func scalarLeafToContent(c Content, item interface{}) Content {
	n, ok := c.(*Numpy)
	if !ok {
		return nil
	}
	v, _ := item.(float64)
	switch n.format {
	case "d":
		return buildNumpyFromFloat64([]float64{v}, "d")
	case "f":
		return buildNumpyFromFloat64([]float64{v}, "f")
	default:
		return NewNumpy(IndexFromInt64([]int64{int64(v)}), n.format)
	}
}

func getitemNextLeaf(c Content, head SliceItem, tail []SliceItem, advanced []int64) (Content, error) {
	switch h := head.(type) {
	case SliceAt:
		item, err := GetItemAtNowrap(c, normalizeAt(h.At, c.Length()))
		if err != nil {
			return nil, err
		}
		if ct, ok := item.(Content); ok {
			return getitemNext(ct, tail, advanced)
		}
		if len(tail) == 0 {
			// A scalar leaf (Numpy) bottoms the recursion here: wrap the
			// single value back into a length-1 node of the same leaf kind
			// so a caller combining per-field results (e.g. recordGetItemNext)
			// sees a uniform Content, not a bare float64.
			return scalarLeafToContent(c, item), nil
		}
		return nil, undefinedOp("getitem_next (scalar leaf with remaining tail)", c)
	case SliceRange:
		start, stop := regularizeRange(h, c.Length())
		sliced := GetItemRangeNowrap(c, start, stop)
		return getitemNext(sliced, tail, advanced)
	case SliceArray64:
		carried, err := Carry(c, h.Data)
		if err != nil {
			return nil, err
		}
		return getitemNext(carried, tail, h.Data)
	default:
		return nil, undefinedOp("getitem_next", c)
	}
}

// getitemNextListLike handles the list-like kinds (Regular, ListOffset,
// List) uniformly by first reducing to a ListOffset view when convenient.
func getitemNextListLike(c Content, head SliceItem, tail []SliceItem, advanced []int64) (Content, error) {
	switch h := head.(type) {
	case SliceAt:
		item, err := GetItemAtNowrap(c, normalizeAt(h.At, c.Length()))
		if err != nil {
			return nil, err
		}
		ct, _ := item.(Content)
		if ct == nil {
			return nil, undefinedOp("getitem_next", c)
		}
		return getitemNext(ct, tail, advanced)
	case SliceRange:
		start, stop := regularizeRange(h, c.Length())
		sliced := GetItemRangeNowrap(c, start, stop)
		return recurseListContent(sliced, tail, advanced)
	case SliceArray64:
		carried, err := Carry(c, h.Data)
		if err != nil {
			return nil, err
		}
		return recurseListContent(carried, tail, h.Data)
	case SliceJagged64:
		return getitemNextJagged(c, h, tail)
	default:
		return nil, undefinedOp("getitem_next", c)
	}
}

// recurseListContent descends one structural level into a list-like node's
// content, applying tail to every row's content (rather than to the list
// node itself), since the outer axis was already consumed by the caller.
func recurseListContent(c Content, tail []SliceItem, advanced []int64) (Content, error) {
	if len(tail) == 0 {
		return c, nil
	}
	switch v := c.(type) {
	case *ListOffset:
		inner, err := getitemNext(v.content, tail, advanced)
		if err != nil {
			return nil, err
		}
		return &ListOffset{b: v.b, offsets: v.offsets, content: inner}, nil
	case *List:
		return recurseListContent(v.compact(), tail, advanced)
	case *Regular:
		inner, err := getitemNext(v.content, tail, advanced)
		if err != nil {
			return nil, err
		}
		return &Regular{b: v.b, content: inner, size: v.size, length: v.length}, nil
	default:
		return getitemNext(c, tail, advanced)
	}
}

func normalizeAt(at, length int64) int64 {
	if at < 0 {
		return at + length
	}
	return at
}

func regularizeRange(r SliceRange, length int64) (int64, int64) {
	step := r.Step
	if step == 0 {
		step = 1
	}
	start, stop, _ := regularizeRangeKernel(r.Start, r.Stop, step, r.HasStart, r.HasStop, length)
	return start, stop
}

func getitemNextField(c Content, key string, tail []SliceItem, advanced []int64) (Content, error) {
	switch v := c.(type) {
	case *Record:
		field, err := v.Field(key)
		if err != nil {
			return nil, err
		}
		return getitemNext(field, tail, advanced)
	case *IndexedOption:
		field, err := getitemNextField(v.content, key, nil, nil)
		if err != nil {
			return nil, err
		}
		return wrapOptionAroundField(v, field, tail, advanced)
	case *Unmasked:
		return getitemNextField(v.content, key, tail, advanced)
	case *Union:
		return unionGetItemField(v, key, tail, advanced)
	default:
		return nil, undefinedOp("getitem_field", c)
	}
}

func getitemNextFields(c Content, keys []string, tail []SliceItem, advanced []int64) (Content, error) {
	switch v := c.(type) {
	case *Record:
		contents := make([]Content, len(keys))
		for i, k := range keys {
			f, err := v.Field(k)
			if err != nil {
				return nil, err
			}
			contents[i] = f
		}
		out := &Record{keys: keys, contents: contents, length: v.length}
		return getitemNext(out, tail, advanced)
	default:
		return nil, undefinedOp("getitem_fields", c)
	}
}

// wrapOptionAroundField re-wraps a field projected out of an
// IndexedOption's content with the same option index, so that missingness
// at the record level survives field projection.
func wrapOptionAroundField(io *IndexedOption, field Content, tail []SliceItem, advanced []int64) (Content, error) {
	out := &IndexedOption{index: io.index, content: field}
	return getitemNext(out, tail, advanced)
}

func indexedGetItemNext(ix *Indexed, head SliceItem, tail []SliceItem, advanced []int64) (Content, error) {
	projected, err := ix.project()
	if err != nil {
		return nil, err
	}
	return getitemNext(projected, append([]SliceItem{head}, tail...), advanced)
}

func indexedOptionGetItemNext(io *IndexedOption, head SliceItem, tail []SliceItem, advanced []int64) (Content, error) {
	switch head.(type) {
	case SliceField, SliceFields:
		return nil, undefinedOp("getitem_next", io)
	}
	validPositions := make([]int64, 0, io.Length())
	validInner := make([]int64, 0, io.Length())
	resultIndex := make([]int64, io.Length())
	for i := int64(0); i < io.Length(); i++ {
		v := io.index.Get(i)
		if v < 0 {
			resultIndex[i] = -1
			continue
		}
		validPositions = append(validPositions, i)
		validInner = append(validInner, v)
	}
	projectedContent, err := Carry(io.content, validInner)
	if err != nil {
		return nil, err
	}
	sliced, err := getitemNext(projectedContent, append([]SliceItem{head}, tail...), advanced)
	if err != nil {
		return nil, err
	}
	for pos := range validPositions {
		resultIndex[validPositions[pos]] = int64(pos)
	}
	out := &IndexedOption{index: IndexFromInt64(resultIndex), content: sliced}
	return SimplifyOptionType(out)
}

func recordGetItemNext(r *Record, head SliceItem, tail []SliceItem, advanced []int64) (Content, error) {
	switch head.(type) {
	case SliceAt, SliceRange, SliceArray64:
		contents := make([]Content, len(r.contents))
		for i, c := range r.contents {
			sliced, err := getitemNext(trimmed(c, r.length), append([]SliceItem{head}, tail...), advanced)
			if err != nil {
				return nil, err
			}
			contents[i] = sliced
		}
		length := r.length
		if len(contents) > 0 {
			length = contents[0].Length()
		}
		return &Record{keys: r.keys, contents: contents, length: length, isTuple: r.isTuple}, nil
	default:
		return nil, undefinedOp("getitem_next", r)
	}
}

func unionGetItemNext(u *Union, head SliceItem, tail []SliceItem, advanced []int64) (Content, error) {
	switch head.(type) {
	case SliceField, SliceFields:
		return nil, undefinedOp("getitem_next", u)
	}
	branches := make([]Content, len(u.contents))
	for i := range u.contents {
		projected, err := u.project(int8(i))
		if err != nil {
			return nil, err
		}
		sliced, err := getitemNext(projected, append([]SliceItem{head}, tail...), advanced)
		if err != nil {
			return nil, err
		}
		branches[i] = sliced
	}
	tags := make([]int64, u.Length())
	index := make([]int64, u.Length())
	counters := make([]int64, len(u.contents))
	rawTags := u.tags.ToInt64Slice()
	for i, t := range rawTags {
		tags[i] = t
		index[i] = counters[t]
		counters[t]++
	}
	tags8 := make([]int8, len(tags))
	for i, t := range tags {
		tags8[i] = int8(t)
	}
	union, err := NewUnion(IndexFromInt8(tags8), IndexFromInt64(index), branches)
	if err != nil {
		return nil, err
	}
	return SimplifyUnionType(union, false)
}

func unionGetItemField(u *Union, key string, tail []SliceItem, advanced []int64) (Content, error) {
	branches := make([]Content, len(u.contents))
	for i, c := range u.contents {
		f, err := getitemNextField(c, key, nil, nil)
		if err != nil {
			return nil, err
		}
		branches[i] = f
	}
	out, err := NewUnion(u.tags, u.index, branches)
	if err != nil {
		return nil, err
	}
	return getitemNext(out, tail, advanced)
}

func regularizeRangeKernel(start, stop, step int64, hasStart, hasStop bool, length int64) (int64, int64, error) {
	rstart, rstop, status := kernel.RegularizeRange(start, stop, step, hasStart, hasStop, length)
	if !status.OK() {
		return 0, 0, errors.New(status.String())
	}
	return rstart, rstop, nil
}
