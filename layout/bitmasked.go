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

// BitMasked is ByteMasked's packed-bit cousin: the validity mask stores
// one bit per element (Arrow's native validity-buffer layout) instead of
// one byte, trading a per-access unpack for an eightfold smaller buffer.
type BitMasked struct {
	b         base
	mask      Index // U8, packed bits
	content   Content
	validWhen bool
	lsbOrder  bool
	length    int64
}

// NewBitMasked constructs a BitMaskedArray of the given element length
// (independent of the mask buffer's byte length, which is ceil(length/8)).
func NewBitMasked(mask Index, content Content, validWhen, lsbOrder bool, length int64) *BitMasked {
	return &BitMasked{mask: mask, content: content, validWhen: validWhen, lsbOrder: lsbOrder, length: length}
}

func (bm *BitMasked) Kind() Kind    { return KindBitMasked }
func (bm *BitMasked) Length() int64 { return bm.length }
func (bm *BitMasked) base() *base   { return &bm.b }

// Mask is the packed-bit validity buffer.
func (bm *BitMasked) Mask() Index { return bm.mask }

// ValidWhen and LsbOrder report the mask's polarity and bit order.
func (bm *BitMasked) ValidWhen() bool { return bm.validWhen }
func (bm *BitMasked) LsbOrder() bool  { return bm.lsbOrder }

// Content is the underlying child array.
func (bm *BitMasked) Content() Content { return bm.content }

func (bm *BitMasked) isValidAt(at int64) bool {
	byteIdx := at / 8
	var bitIdx uint
	if bm.lsbOrder {
		bitIdx = uint(at % 8)
	} else {
		bitIdx = 7 - uint(at%8)
	}
	byteVal := bm.mask.Get(byteIdx)
	set := byteVal&(1<<bitIdx) != 0
	return set == bm.validWhen
}

func bitMaskedGetItemAt(bm *BitMasked, at int64) (interface{}, error) {
	if at < 0 || at >= bm.Length() {
		return nil, errors.Wrapf(ErrOutOfRange, "BitMaskedArray.getitem_at: %d", at)
	}
	if !bm.isValidAt(at) {
		return nil, nil
	}
	return GetItemAtNowrap(bm.content, at)
}

// expandValidityBytes unpacks bm's packed-bit mask into one
// validWhen-relative byte per element (1 == valid), via kernel.ExpandBitMask
// — the widening every other option-type operation in this package is
// written against, trading bit-packing for a representation that slices
// cheaply.
func (bm *BitMasked) expandValidityBytes() []byte {
	rawBits := bm.mask.ToByteSlice()
	n := bm.length
	expanded := make([]byte, n)
	if status := kernel.ExpandBitMask(expanded, rawBits, n, bm.lsbOrder); !status.OK() {
		panic("layout: ExpandBitMask: " + status.String())
	}
	if !bm.validWhen {
		for i := range expanded {
			expanded[i] ^= 1
		}
	}
	return expanded
}

func bitMaskedGetItemRangeNowrap(bm *BitMasked, start, stop int64) *ByteMasked {
	expanded := bm.expandValidityBytes()[start:stop]
	n := stop - start
	return &ByteMasked{b: bm.b, mask: NewIndex(WrapU8(expanded, nil), U8, 0, n), content: GetItemRangeNowrap(bm.content, start, stop), validWhen: true}
}

func bitMaskedCarry(bm *BitMasked, index []int64) (*ByteMasked, error) {
	bmByte := bm.toByteMasked()
	return byteMaskedCarry(bmByte, index)
}

// toByteMasked expands the packed-bit mask into one byte per element, the
// representation every other option-type operation in this package is
// written against; BitMasked itself only exists as a compact storage and
// Arrow-interchange format.
func (bm *BitMasked) toByteMasked() *ByteMasked {
	expanded := bm.expandValidityBytes()
	return &ByteMasked{b: bm.b, mask: NewIndex(WrapU8(expanded, nil), U8, 0, bm.length), content: bm.content, validWhen: true}
}
