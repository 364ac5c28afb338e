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

// ListOffset is a variable-length list node: element i occupies
// content[offsets[i] : offsets[i+1]]. len(offsets) is Length()+1 and must
// be nondecreasing (checked by ValidityError, not by construction).
type ListOffset struct {
	b       base
	offsets Index
	content Content
}

// NewListOffset constructs a ListOffsetArray. offsets must have at least
// one element.
func NewListOffset(offsets Index, content Content) *ListOffset {
	return &ListOffset{offsets: offsets, content: content}
}

func (l *ListOffset) Kind() Kind    { return KindListOffset }
func (l *ListOffset) Length() int64 { return l.offsets.Length() - 1 }
func (l *ListOffset) base() *base   { return &l.b }

// Offsets is the cumulative-boundary index.
func (l *ListOffset) Offsets() Index { return l.offsets }

// Content is the flattened child array.
func (l *ListOffset) Content() Content { return l.content }

func listOffsetGetItemAt(l *ListOffset, at int64) (Content, error) {
	if at < 0 || at >= l.Length() {
		return nil, errors.Wrapf(ErrOutOfRange, "ListOffsetArray.getitem_at: %d", at)
	}
	start, stop := l.offsets.Get(at), l.offsets.Get(at+1)
	return GetItemRangeNowrap(l.content, start, stop), nil
}

func listOffsetGetItemRangeNowrap(l *ListOffset, start, stop int64) *ListOffset {
	return &ListOffset{b: l.b, offsets: l.offsets.Slice(start, stop+1), content: l.content}
}

func listOffsetCarry(l *ListOffset, index []int64) (*List, error) {
	// Carrying a ListOffsetArray produces a ListArray: each selected row
	// keeps its own (start, stop) pair rather than needing contiguous
	// renumbering, matching the source's carry() which returns a ListArray.
	starts := make([]int64, len(index))
	stops := make([]int64, len(index))
	n := l.Length()
	for i, idx := range index {
		if idx < 0 || idx >= n {
			return nil, errors.Wrapf(ErrOutOfRange, "ListOffsetArray.carry: %d", idx)
		}
		starts[i] = l.offsets.Get(idx)
		stops[i] = l.offsets.Get(idx + 1)
	}
	ids, err := carryIdentities(l.b.identities, index)
	if err != nil {
		return nil, err
	}
	out := &List{starts: IndexFromInt64(starts), stops: IndexFromInt64(stops), content: l.content}
	out.b.identities = ids
	out.b.parameters = l.b.parameters
	return out, nil
}

// toListLike reinterprets a ListOffsetArray as a ListArray, the standard
// conversion used by operations (merge, simplify) that only know how to
// handle the (starts, stops) representation.
func (l *ListOffset) toListLike() *List {
	n := l.Length()
	starts := make([]int64, n)
	stops := make([]int64, n)
	for i := int64(0); i < n; i++ {
		starts[i] = l.offsets.Get(i)
		stops[i] = l.offsets.Get(i + 1)
	}
	return &List{b: l.b, starts: IndexFromInt64(starts), stops: IndexFromInt64(stops), content: l.content}
}

func carryIdentities(ids *Identities, index []int64) (*Identities, error) {
	if ids == nil {
		return nil, nil
	}
	return ids.Carry(index)
}
