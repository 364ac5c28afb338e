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

// Record is the heterogeneous-field node: a fixed set of named contents
// sharing a common outer length. Fields are allowed to be individually
// longer than length (trimmed on read via the shared trimmed helper) so
// that a single buffer can back more than one record view.
type Record struct {
	b        base
	contents []Content
	keys     []string
	length   int64
	isTuple  bool
}

// NewRecord constructs a RecordArray from parallel keys/contents slices.
// length defaults to the minimum content length when negative.
func NewRecord(keys []string, contents []Content, length int64) *Record {
	if length < 0 {
		length = minContentLength(contents)
	}
	return &Record{keys: keys, contents: contents, length: length}
}

// NewTuple constructs an anonymous (positionally-keyed) RecordArray.
func NewTuple(contents []Content, length int64) *Record {
	r := NewRecord(nil, contents, length)
	r.isTuple = true
	return r
}

func minContentLength(contents []Content) int64 {
	if len(contents) == 0 {
		return 0
	}
	m := contents[0].Length()
	for _, c := range contents[1:] {
		if c.Length() < m {
			m = c.Length()
		}
	}
	return m
}

func (r *Record) Kind() Kind    { return KindRecord }
func (r *Record) Length() int64 { return r.length }
func (r *Record) base() *base   { return &r.b }

// IsTuple reports whether the record is positionally keyed.
func (r *Record) IsTuple() bool { return r.isTuple }

// Keys returns the field names in declaration order (empty for a tuple).
func (r *Record) Keys() []string { return r.keys }

// Contents returns the field contents in declaration order.
func (r *Record) Contents() []Content { return r.contents }

// Field looks up one field's content by name, trimmed to the record's
// explicit length, or an error if key does not name a field.
func (r *Record) Field(key string) (Content, error) {
	for i, k := range r.keys {
		if k == key {
			return trimmed(r.contents[i], r.length), nil
		}
	}
	return nil, errors.Wrapf(ErrOutOfRange, "RecordArray has no field %q", key)
}

func recordGetItemAt(r *Record, at int64) (*Record, error) {
	if at < 0 || at >= r.length {
		return nil, errors.Wrapf(ErrOutOfRange, "RecordArray.getitem_at: %d", at)
	}
	contents := make([]Content, len(r.contents))
	for i, c := range r.contents {
		contents[i] = GetItemRangeNowrap(trimmed(c, at+1), at, at+1)
	}
	return &Record{keys: r.keys, contents: contents, length: 1, isTuple: r.isTuple}, nil
}

func recordGetItemRangeNowrap(r *Record, start, stop int64) *Record {
	contents := make([]Content, len(r.contents))
	for i, c := range r.contents {
		contents[i] = GetItemRangeNowrap(trimmed(c, r.length), start, stop)
	}
	return &Record{b: r.b, keys: r.keys, contents: contents, length: stop - start, isTuple: r.isTuple}
}

func recordCarry(r *Record, index []int64) (*Record, error) {
	contents := make([]Content, len(r.contents))
	for i, c := range r.contents {
		carried, err := Carry(trimmed(c, r.length), index)
		if err != nil {
			return nil, errors.Wrapf(err, "RecordArray.carry: field %d", i)
		}
		contents[i] = carried
	}
	ids, err := carryIdentities(r.b.identities, index)
	if err != nil {
		return nil, err
	}
	out := &Record{keys: r.keys, contents: contents, length: int64(len(index)), isTuple: r.isTuple}
	out.b.identities = ids
	out.b.parameters = r.b.parameters
	return out, nil
}
