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

import "github.com/cockroachdb/errors"

// Regular is a list node whose every element has the same fixed length
// size, stored without an offsets buffer: element i occupies
// content[i*size : (i+1)*size].
type Regular struct {
	b       base
	content Content
	size    int64
	length  int64
}

// NewRegular constructs a RegularArray of length elements, each of size
// content-rows, where content.Length() must be >= length*size.
func NewRegular(content Content, size, length int64) *Regular {
	return &Regular{content: content, size: size, length: length}
}

func (r *Regular) Kind() Kind    { return KindRegular }
func (r *Regular) Length() int64 { return r.length }
func (r *Regular) base() *base   { return &r.b }

// Size is the fixed per-element sublist length.
func (r *Regular) Size() int64 { return r.size }

// Content is the flattened, shared child array.
func (r *Regular) Content() Content { return r.content }

func regularGetItemAt(r *Regular, at int64) (Content, error) {
	if at < 0 || at >= r.length {
		return nil, errors.Wrapf(ErrOutOfRange, "RegularArray.getitem_at: %d", at)
	}
	return trimmed(GetItemRangeNowrap(r.content, at*r.size, (at+1)*r.size), r.size), nil
}

func regularGetItemRangeNowrap(r *Regular, start, stop int64) *Regular {
	sub := GetItemRangeNowrap(r.content, start*r.size, stop*r.size)
	return &Regular{b: r.b, content: sub, size: r.size, length: stop - start}
}

func regularCarry(r *Regular, index []int64) (*Regular, error) {
	// Carrying a Regular array carries its flattened content: compose each
	// selected row's size-wide slot into a contiguous broadcast index, carry
	// the content by it, and rewrap the result as a Regular of the same size.
	broadcast := make([]int64, 0, int64(len(index))*r.size)
	for _, idx := range index {
		if idx < 0 || idx >= r.length {
			return nil, errors.Wrapf(ErrOutOfRange, "RegularArray.carry: %d", idx)
		}
		off := idx * r.size
		for k := int64(0); k < r.size; k++ {
			broadcast = append(broadcast, off+k)
		}
	}
	carried, err := Carry(r.content, broadcast)
	if err != nil {
		return nil, err
	}
	var ids *Identities
	if r.b.identities != nil {
		ids, err = r.b.identities.Carry(index)
		if err != nil {
			return nil, err
		}
	}
	out := &Regular{content: carried, size: r.size, length: int64(len(index))}
	out.b.identities = ids
	out.b.parameters = r.b.parameters
	return out, nil
}

// flattenToNumpy collapses a Regular-of-Numpy (any depth) back into a
// single multidimensional Numpy, the inverse of Numpy.toRegularLike used
// after an operation recurses through the Regular wrapping.
func (r *Regular) flattenToNumpy() *Numpy {
	switch c := r.content.(type) {
	case *Numpy:
		shape := append([]int64{r.length, r.size}, c.InnerShape()...)
		return &Numpy{b: r.b, data: c.data, shape: shape, itemsize: c.itemsize, format: c.format}
	case *Regular:
		inner := c.flattenToNumpy()
		shape := append([]int64{r.length, r.size}, inner.shape[1:]...)
		return &Numpy{b: r.b, data: inner.data, shape: shape, itemsize: inner.itemsize, format: inner.format}
	default:
		panic("layout: flattenToNumpy on non-Numpy-backed Regular")
	}
}
