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

// ByteMasked is an option-type node using one byte per element as the
// validity mask, rather than a gather index: element i is missing when
// mask[i] != validWhen.
type ByteMasked struct {
	b         base
	mask      Index // U8, one byte per element
	content   Content
	validWhen bool
}

// NewByteMasked constructs a ByteMaskedArray.
func NewByteMasked(mask Index, content Content, validWhen bool) *ByteMasked {
	return &ByteMasked{mask: mask, content: content, validWhen: validWhen}
}

func (bm *ByteMasked) Kind() Kind    { return KindByteMasked }
func (bm *ByteMasked) Length() int64 { return bm.mask.Length() }
func (bm *ByteMasked) base() *base   { return &bm.b }

// Mask is the per-element byte validity buffer.
func (bm *ByteMasked) Mask() Index { return bm.mask }

// ValidWhen reports which mask byte value denotes "present".
func (bm *ByteMasked) ValidWhen() bool { return bm.validWhen }

// Content is the underlying child array (every position is present in
// content regardless of mask; the mask only gates visibility).
func (bm *ByteMasked) Content() Content { return bm.content }

func (bm *ByteMasked) isValidAt(at int64) bool {
	v := bm.mask.Get(at) != 0
	return v == bm.validWhen
}

func byteMaskedGetItemAt(bm *ByteMasked, at int64) (interface{}, error) {
	if at < 0 || at >= bm.Length() {
		return nil, errors.Wrapf(ErrOutOfRange, "ByteMaskedArray.getitem_at: %d", at)
	}
	if !bm.isValidAt(at) {
		return nil, nil
	}
	return GetItemAtNowrap(bm.content, at)
}

func byteMaskedGetItemRangeNowrap(bm *ByteMasked, start, stop int64) *ByteMasked {
	return &ByteMasked{b: bm.b, mask: bm.mask.Slice(start, stop), content: GetItemRangeNowrap(bm.content, start, stop), validWhen: bm.validWhen}
}

func byteMaskedCarry(bm *ByteMasked, index []int64) (*ByteMasked, error) {
	// ByteMasked has no natural option-index carry kernel of its own: the
	// carried mask is re-derived from the carried IndexedOption form, and
	// the content is carried by the same index so that position i of the
	// result is source element index[i].
	io := bm.toIndexedOption()
	carried, err := indexedOptionCarry(io, index)
	if err != nil {
		return nil, err
	}
	content, err := Carry(bm.content, index)
	if err != nil {
		return nil, err
	}
	out := carried.toByteMaskedLike(bm.validWhen)
	out.content = content
	return out, nil
}

// toIndexedOption widens a ByteMasked into an IndexedOption with an
// explicit -1/position index, the common representation every other
// option-type operation (simplify_optiontype, merge) is written against.
func (bm *ByteMasked) toIndexedOption() *IndexedOption {
	n := bm.Length()
	idx := make([]int64, n)
	for i := int64(0); i < n; i++ {
		if bm.isValidAt(i) {
			idx[i] = i
		} else {
			idx[i] = -1
		}
	}
	out := &IndexedOption{index: IndexFromInt64(idx), content: bm.content}
	out.b = bm.b
	return out
}

// ToBitMasked packs bm's one-byte-per-element validity mask down into a
// BitMasked with the given bit order, the inverse of BitMasked.toByteMasked
// — the compact form Arrow interchange and other storage-conscious callers
// prefer over one byte per element.
func (bm *ByteMasked) ToBitMasked(lsbOrder bool) *BitMasked {
	n := bm.Length()
	rawBits := make([]byte, (n+7)/8)
	status := kernel.CompactByteMask(rawBits, bm.mask.ToByteSlice(), lsbOrder)
	if !status.OK() {
		panic("layout: CompactByteMask: " + status.String())
	}
	out := &BitMasked{mask: NewIndex(WrapU8(rawBits, nil), U8, 0, int64(len(rawBits))), content: bm.content, validWhen: bm.validWhen, lsbOrder: lsbOrder, length: n}
	out.b = bm.b
	return out
}

// toByteMaskedLike re-derives a byte mask from an IndexedOption's -1
// convention, the inverse used after a generic option-type operation
// returns its canonical IndexedOption form and the caller wants to keep
// the lighter-weight mask representation.
func (io *IndexedOption) toByteMaskedLike(validWhen bool) *ByteMasked {
	n := io.Length()
	mask := make([]byte, n)
	for i := int64(0); i < n; i++ {
		present := io.index.Get(i) >= 0
		if present == validWhen {
			mask[i] = 1
		}
	}
	out := &ByteMasked{mask: NewIndex(WrapU8(mask, nil), U8, 0, n), content: io.content, validWhen: validWhen}
	out.b = io.b
	return out
}
