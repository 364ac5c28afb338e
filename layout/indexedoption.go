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

// IndexedOption is Indexed with option-type semantics: a negative index
// element (conventionally -1) denotes a missing element rather than an
// out-of-range error.
type IndexedOption struct {
	b       base
	index   Index
	content Content
}

// NewIndexedOption constructs an IndexedOptionArray.
func NewIndexedOption(index Index, content Content) *IndexedOption {
	return &IndexedOption{index: index, content: content}
}

func (io *IndexedOption) Kind() Kind    { return KindIndexedOption }
func (io *IndexedOption) Length() int64 { return io.index.Length() }
func (io *IndexedOption) base() *base   { return &io.b }

// IndexBuf is the option-typed gather index (negative entries are None).
func (io *IndexedOption) IndexBuf() Index { return io.index }

// Content is the referenced child array.
func (io *IndexedOption) Content() Content { return io.content }

// IsNoneAt reports whether element at is missing.
func (io *IndexedOption) IsNoneAt(at int64) bool { return io.index.Get(at) < 0 }

func indexedOptionGetItemAt(io *IndexedOption, at int64) (interface{}, error) {
	if at < 0 || at >= io.Length() {
		return nil, errors.Wrapf(ErrOutOfRange, "IndexedOptionArray.getitem_at: %d", at)
	}
	idx := io.index.Get(at)
	if idx < 0 {
		return nil, nil
	}
	return GetItemAtNowrap(io.content, idx)
}

func indexedOptionGetItemRangeNowrap(io *IndexedOption, start, stop int64) *IndexedOption {
	return &IndexedOption{b: io.b, index: io.index.Slice(start, stop), content: io.content}
}

func indexedOptionCarry(io *IndexedOption, index []int64) (*IndexedOption, error) {
	dst := make([]int64, len(index))
	src := io.index.ToInt64Slice()
	status := carryOptionIndex(dst, src, index)
	if !status.OK() {
		return nil, errors.Wrapf(ErrOutOfRange, "IndexedOptionArray.carry: %s", status.String())
	}
	ids, err := carryIdentities(io.b.identities, index)
	if err != nil {
		return nil, err
	}
	out := &IndexedOption{index: IndexFromInt64(dst), content: io.content}
	out.b.identities = ids
	out.b.parameters = io.b.parameters
	return out, nil
}

// isNone reports, for every element, whether it is missing — the
// IndexedOption contribution to the generic IsNone operation.
func (io *IndexedOption) isNone() []bool {
	n := io.Length()
	out := make([]bool, n)
	for i := int64(0); i < n; i++ {
		out[i] = io.IsNoneAt(i)
	}
	return out
}
