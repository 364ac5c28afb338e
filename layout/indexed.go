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

// Indexed applies a non-option gather index on top of a content array,
// the vehicle for sharing, reordering, and deduplicating rows without
// copying the underlying payload. Every index element must be
// non-negative; IndexedOption is the variant that additionally supports
// missing values.
type Indexed struct {
	b       base
	index   Index
	content Content
}

// NewIndexed constructs an IndexedArray.
func NewIndexed(index Index, content Content) *Indexed {
	return &Indexed{index: index, content: content}
}

func (i *Indexed) Kind() Kind    { return KindIndexed }
func (i *Indexed) Length() int64 { return i.index.Length() }
func (i *Indexed) base() *base   { return &i.b }

// IndexBuf is the gather index.
func (i *Indexed) IndexBuf() Index { return i.index }

// Content is the referenced child array.
func (i *Indexed) Content() Content { return i.content }

func indexedGetItemAt(ix *Indexed, at int64) (interface{}, error) {
	if at < 0 || at >= ix.Length() {
		return nil, errors.Wrapf(ErrOutOfRange, "IndexedArray.getitem_at: %d", at)
	}
	return GetItemAtNowrap(ix.content, ix.index.Get(at))
}

func indexedGetItemRangeNowrap(ix *Indexed, start, stop int64) *Indexed {
	return &Indexed{b: ix.b, index: ix.index.Slice(start, stop), content: ix.content}
}

func indexedCarry(ix *Indexed, index []int64) (*Indexed, error) {
	dst := make([]int64, len(index))
	status := carryIndex(ix.index, dst, index)
	if !status.OK() {
		return nil, errors.Wrapf(ErrOutOfRange, "IndexedArray.carry: %s", status.String())
	}
	ids, err := carryIdentities(ix.b.identities, index)
	if err != nil {
		return nil, err
	}
	out := &Indexed{index: IndexFromInt64(dst), content: ix.content}
	out.b.identities = ids
	out.b.parameters = ix.b.parameters
	return out, nil
}

// project materializes the underlying content in the order the index
// describes, collapsing the Indexed wrapper entirely. Used by
// getitem_next, the jagged-slice and reduce paths, and (through
// ProjectIndexed) by Arrow export, which has no Indexed-equivalent for
// non-option data in the subset of the format this interchange layer
// targets.
func (ix *Indexed) project() (Content, error) {
	return Carry(ix.content, ix.index.ToInt64Slice())
}
