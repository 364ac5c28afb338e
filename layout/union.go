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

// Union is the heterogeneous-variant node: tags[i] selects which of
// contents is logically present at position i, and index[i] is that
// branch's row number. Up to 127 branches are supported; beyond that
// ErrTooManyBranches is returned rather than silently truncating tags.
type Union struct {
	b        base
	tags     Index // I8
	index    Index // I64
	contents []Content
}

// NewUnion constructs a UnionArray, rejecting more than 127 branches
// immediately.
func NewUnion(tags, index Index, contents []Content) (*Union, error) {
	if status := kernel.CheckTooManyBranches(len(contents)); !status.OK() {
		return nil, errors.Wrapf(ErrTooManyBranches, "%d branches", len(contents))
	}
	return &Union{tags: tags, index: index, contents: contents}, nil
}

func (u *Union) Kind() Kind    { return KindUnion }
func (u *Union) Length() int64 { return u.tags.Length() }
func (u *Union) base() *base   { return &u.b }

// Tags is the per-element branch selector.
func (u *Union) Tags() Index { return u.tags }

// IndexBuf is the per-element within-branch row number.
func (u *Union) IndexBuf() Index { return u.index }

// Contents are the branch arrays, indexed by tag value.
func (u *Union) Contents() []Content { return u.contents }

func unionGetItemAt(u *Union, at int64) (interface{}, error) {
	if at < 0 || at >= u.Length() {
		return nil, errors.Wrapf(ErrOutOfRange, "UnionArray.getitem_at: %d", at)
	}
	tag := u.tags.Get(at)
	if tag < 0 || int(tag) >= len(u.contents) {
		return nil, errors.Wrapf(ErrInvariantViolation, "UnionArray.getitem_at: tag %d out of range", tag)
	}
	return GetItemAtNowrap(u.contents[tag], u.index.Get(at))
}

func unionGetItemRangeNowrap(u *Union, start, stop int64) *Union {
	return &Union{b: u.b, tags: u.tags.Slice(start, stop), index: u.index.Slice(start, stop), contents: u.contents}
}

func unionCarry(u *Union, index []int64) (*Union, error) {
	tags := make([]int64, len(index))
	idx := make([]int64, len(index))
	if status := carryIndex(u.tags, tags, index); !status.OK() {
		return nil, errors.Wrapf(ErrOutOfRange, "UnionArray.carry: %s", status.String())
	}
	if status := carryIndex(u.index, idx, index); !status.OK() {
		return nil, errors.Wrapf(ErrOutOfRange, "UnionArray.carry: %s", status.String())
	}
	tags8 := make([]int8, len(tags))
	for i, t := range tags {
		tags8[i] = int8(t)
	}
	ids, err := carryIdentities(u.b.identities, index)
	if err != nil {
		return nil, err
	}
	out := &Union{tags: IndexFromInt8(tags8), index: IndexFromInt64(idx), contents: u.contents}
	out.b.identities = ids
	out.b.parameters = u.b.parameters
	return out, nil
}

// project extracts one branch's elements, in their original relative
// order, as a plain content array — the operation getitem_next uses to
// recurse through a single selected branch.
func (u *Union) project(branch int8) (Content, error) {
	if int(branch) < 0 || int(branch) >= len(u.contents) {
		return nil, errors.Wrapf(ErrOutOfRange, "UnionArray.project: branch %d", branch)
	}
	tags := u.tags.ToInt64Slice()
	tags8 := make([]int8, len(tags))
	for i, t := range tags {
		tags8[i] = int8(t)
	}
	_, inner := kernel.UnionProject(tags8, u.index.ToInt64Slice(), branch)
	return Carry(u.contents[branch], inner)
}

func (u *Union) branchCount() int { return len(u.contents) }
