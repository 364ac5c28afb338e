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

// List is a variable-length list node with independent (starts, stops)
// index pairs, allowing rows to overlap or appear out of content order —
// the representation produced by carrying a ListOffsetArray.
type List struct {
	b      base
	starts Index
	stops  Index
	content Content
}

// NewList constructs a ListArray from independent starts/stops pairs.
func NewList(starts, stops Index, content Content) *List {
	return &List{starts: starts, stops: stops, content: content}
}

func (l *List) Kind() Kind    { return KindList }
func (l *List) Length() int64 { return l.starts.Length() }
func (l *List) base() *base   { return &l.b }

// Starts and Stops are the independent row-boundary indices.
func (l *List) Starts() Index { return l.starts }
func (l *List) Stops() Index  { return l.stops }

// Content is the flattened child array.
func (l *List) Content() Content { return l.content }

func listGetItemAt(l *List, at int64) (Content, error) {
	if at < 0 || at >= l.Length() {
		return nil, errors.Wrapf(ErrOutOfRange, "ListArray.getitem_at: %d", at)
	}
	start, stop := l.starts.Get(at), l.stops.Get(at)
	return GetItemRangeNowrap(l.content, start, stop), nil
}

func listGetItemRangeNowrap(l *List, start, stop int64) *List {
	return &List{b: l.b, starts: l.starts.Slice(start, stop), stops: l.stops.Slice(start, stop), content: l.content}
}

func listCarry(l *List, index []int64) (*List, error) {
	starts := make([]int64, len(index))
	stops := make([]int64, len(index))
	status1 := carryIndex(l.starts, starts, index)
	status2 := carryIndex(l.stops, stops, index)
	if !status1.OK() {
		return nil, errors.Wrapf(ErrOutOfRange, "ListArray.carry: %s", status1.String())
	}
	if !status2.OK() {
		return nil, errors.Wrapf(ErrOutOfRange, "ListArray.carry: %s", status2.String())
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

// compact rebuilds l as a ListOffsetArray packed in visitation order,
// discarding any overlap/out-of-order structure — needed wherever a
// downstream operation (e.g. broadcast_tooffsets, Arrow interchange)
// requires a single contiguous offsets buffer.
func (l *List) compact() *ListOffset {
	n := l.Length()
	offsets := make([]int64, n+1)
	pieces := make([]Content, n)
	total := int64(0)
	for i := int64(0); i < n; i++ {
		start, stop := l.starts.Get(i), l.stops.Get(i)
		offsets[i] = total
		pieces[i] = GetItemRangeNowrap(l.content, start, stop)
		total += stop - start
	}
	offsets[n] = total
	var merged Content = NewEmpty()
	if n > 0 {
		merged = pieces[0]
		for _, p := range pieces[1:] {
			m, err := mergeTwo(merged, p)
			if err != nil {
				panic(err)
			}
			merged = m
		}
	}
	return &ListOffset{b: l.b, offsets: IndexFromInt64(offsets), content: merged}
}
