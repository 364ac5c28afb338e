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

// carryIndex gathers ix into dst via the kernel seam, widening ix to a
// plain []int64 first since every Index element type here is an integral
// index.
func carryIndex(ix Index, dst []int64, index []int64) kernel.Status {
	src := ix.ToInt64Slice()
	return kernel.Carry(dst, src, index)
}

// carryOptionIndex is Carry for an option-typed index buffer: a negative
// selector element in index produces a missing result element, and an
// existing missing slot in src (also encoded as negative) passes through
// unchanged, matching how carrying an option array must propagate
// existing missing slots as well as introduce new ones.
func carryOptionIndex(dst []int64, src []int64, index []int64) kernel.Status {
	return kernel.CarryOption(dst, src, index)
}

// GetItemAt returns the element at position at, wrapping negative
// positions against Length() first (Python-style negative indexing).
// The returned value is either a scalar (float64, from a one-dimensional
// Numpy) or a Content subtree.
func GetItemAt(c Content, at int64) (interface{}, error) {
	n := c.Length()
	if at < 0 {
		at += n
	}
	return GetItemAtNowrap(c, at)
}

// GetItemAtNowrap is GetItemAt without the negative-index wraparound,
// used internally once an index has already been normalized.
func GetItemAtNowrap(c Content, at int64) (interface{}, error) {
	switch v := c.(type) {
	case *Empty:
		return nil, errors.Wrapf(ErrOutOfRange, "EmptyArray.getitem_at: %d", at)
	case *Numpy:
		return numpyGetItemAt(v, at)
	case *Regular:
		return regularGetItemAt(v, at)
	case *ListOffset:
		return listOffsetGetItemAt(v, at)
	case *List:
		return listGetItemAt(v, at)
	case *Indexed:
		return indexedGetItemAt(v, at)
	case *IndexedOption:
		return indexedOptionGetItemAt(v, at)
	case *ByteMasked:
		return byteMaskedGetItemAt(v, at)
	case *BitMasked:
		return bitMaskedGetItemAt(v, at)
	case *Unmasked:
		return GetItemAtNowrap(v.content, at)
	case *Record:
		return recordGetItemAt(v, at)
	case *Union:
		return unionGetItemAt(v, at)
	default:
		return nil, undefinedOp("getitem_at", c)
	}
}

// GetItemRange returns the slice [start, stop) along the outer axis,
// wrapping and clamping negative/out-of-range bounds first.
func GetItemRange(c Content, start, stop int64) Content {
	n := c.Length()
	rstart, rstop, _ := kernel.RegularizeRange(start, stop, 1, true, true, n)
	return GetItemRangeNowrap(c, rstart, rstop)
}

// GetItemRangeNowrap is GetItemRange without wraparound/clamping, used
// once bounds are already known to satisfy 0 <= start <= stop <= Length().
func GetItemRangeNowrap(c Content, start, stop int64) Content {
	switch v := c.(type) {
	case *Empty:
		return v
	case *Numpy:
		return numpyGetItemRangeNowrap(v, start, stop)
	case *Regular:
		return regularGetItemRangeNowrap(v, start, stop)
	case *ListOffset:
		return listOffsetGetItemRangeNowrap(v, start, stop)
	case *List:
		return listGetItemRangeNowrap(v, start, stop)
	case *Indexed:
		return indexedGetItemRangeNowrap(v, start, stop)
	case *IndexedOption:
		return indexedOptionGetItemRangeNowrap(v, start, stop)
	case *ByteMasked:
		return byteMaskedGetItemRangeNowrap(v, start, stop)
	case *BitMasked:
		return bitMaskedGetItemRangeNowrap(v, start, stop)
	case *Unmasked:
		return &Unmasked{b: v.b, content: GetItemRangeNowrap(v.content, start, stop)}
	case *Record:
		return recordGetItemRangeNowrap(v, start, stop)
	case *Union:
		return unionGetItemRangeNowrap(v, start, stop)
	default:
		panic(undefinedOp("getitem_range", c))
	}
}

// Carry gathers c's elements by index (index[i] selects the source
// element landing at result position i), the advanced-indexing push-down
// every variant implements. A negative index element is never valid for
// Carry itself (unlike CarryOption-style option indices) — IndexedOption
// is the node that introduces missing-value semantics.
func Carry(c Content, index []int64) (Content, error) {
	switch v := c.(type) {
	case *Empty:
		if len(index) == 0 {
			return v, nil
		}
		return nil, errors.Wrapf(ErrOutOfRange, "EmptyArray.carry: nonempty index against empty array")
	case *Numpy:
		return numpyCarry(v, index)
	case *Regular:
		return regularCarry(v, index)
	case *ListOffset:
		return listOffsetCarry(v, index)
	case *List:
		return listCarry(v, index)
	case *Indexed:
		return indexedCarry(v, index)
	case *IndexedOption:
		return indexedOptionCarry(v, index)
	case *ByteMasked:
		return byteMaskedCarry(v, index)
	case *BitMasked:
		return bitMaskedCarry(v, index)
	case *Unmasked:
		carried, err := Carry(v.content, index)
		if err != nil {
			return nil, err
		}
		return &Unmasked{b: v.b, content: carried}, nil
	case *Record:
		return recordCarry(v, index)
	case *Union:
		return unionCarry(v, index)
	default:
		return nil, undefinedOp("carry", c)
	}
}
