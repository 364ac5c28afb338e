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

// SimplifyOptionType collapses a chain of option-wrapping nodes
// (Indexed/IndexedOption/ByteMasked/BitMasked/Unmasked over another
// option-wrapping node) into a single IndexedOption, composing the two
// missing-masks into one index vector. A non-option content, or an
// Unmasked over a non-option content, passes through unchanged.
func SimplifyOptionType(c Content) (Content, error) {
	switch v := c.(type) {
	case *Unmasked:
		if isOptionKind(v.content.Kind()) {
			return SimplifyOptionType(v.content)
		}
		return v, nil
	case *IndexedOption:
		return simplifyOptionChain(v.index, v.content, v.b)
	case *ByteMasked:
		return simplifyOptionChain(v.toIndexedOption().index, v.content, v.b)
	case *BitMasked:
		io := v.toByteMasked().toIndexedOption()
		return simplifyOptionChain(io.index, v.content, v.b)
	case *Indexed:
		if isOptionKind(v.content.Kind()) {
			return simplifyOptionChain(v.index, v.content, v.b)
		}
		return v, nil
	default:
		return c, nil
	}
}

// simplifyOptionChain composes outerIndex (an option-typed or plain
// gather index into inner) with inner's own option-ness, if any, folding
// down to a single IndexedOption over inner's non-option core.
func simplifyOptionChain(outerIndex Index, inner Content, b base) (Content, error) {
	innerOpt, isInnerOption := asOptionLike(inner)
	if !isInnerOption {
		out := &IndexedOption{index: outerIndex, content: inner}
		out.b = b
		return out, nil
	}
	core := innerOpt.content
	n := outerIndex.Length()
	composed := make([]int64, n)
	for i := int64(0); i < n; i++ {
		o := outerIndex.Get(i)
		if o < 0 {
			composed[i] = -1
			continue
		}
		inn := innerOpt.index.Get(o)
		composed[i] = inn
	}
	out := &IndexedOption{index: IndexFromInt64(composed), content: core}
	out.b = b
	return SimplifyOptionType(out)
}

// asOptionLike widens any option-wrapping variant to an IndexedOption
// view without recursing further, or reports false for a non-option
// content.
func asOptionLike(c Content) (*IndexedOption, bool) {
	switch v := c.(type) {
	case *IndexedOption:
		return v, true
	case *ByteMasked:
		return v.toIndexedOption(), true
	case *BitMasked:
		return v.toByteMasked().toIndexedOption(), true
	case *Unmasked:
		return asOptionLike(v.content)
	default:
		return nil, false
	}
}

// SimplifyUnionType canonicalizes a UnionArray: inlines nested unions
// (renumbering tags), then left-to-right folds each branch into an
// existing mergeable branch, and collapses to the sole surviving branch
// when only one remains.
func SimplifyUnionType(u *Union, allowBool bool) (Content, error) {
	branches, tags, index := inlineUnions(u)
	if status := kernel.CheckTooManyBranches(len(branches)); !status.OK() {
		return nil, errors.Wrapf(ErrTooManyBranches, "%d branches after inlining", len(branches))
	}

	merged := []Content{branches[0]}
	branchMap := make([]int8, len(branches))
	indexOffset := make([]int64, len(branches))
	branchMap[0] = 0
	for i := 1; i < len(branches); i++ {
		folded := false
		for k := range merged {
			if Mergeable(merged[k], branches[i], allowBool) {
				offset := merged[k].Length()
				combined, err := Merge(merged[k], branches[i])
				if err != nil {
					return nil, err
				}
				merged[k] = combined
				branchMap[i] = int8(k)
				indexOffset[i] = offset
				folded = true
				break
			}
		}
		if !folded {
			branchMap[i] = int8(len(merged))
			merged = append(merged, branches[i])
		}
	}

	newTags := append([]int64{}, tags...)
	newIndex := append([]int64{}, index...)
	tags8 := make([]int8, len(newTags))
	for i := range newTags {
		tags8[i] = int8(newTags[i])
	}
	status := kernel.UnionRenumber(tags8, newIndex, branchMap, indexOffset)
	if !status.OK() {
		return nil, errors.New(status.String())
	}

	if len(merged) == 1 {
		return Carry(merged[0], newIndex)
	}
	if status := kernel.CheckTooManyBranches(len(merged)); !status.OK() {
		return nil, errors.Wrapf(ErrTooManyBranches, "%d branches after folding", len(merged))
	}
	return NewUnion(IndexFromInt8(tags8), IndexFromInt64(newIndex), merged)
}

// inlineUnions flattens any branch that is itself a Union into this
// union's own branch list, renumbering tags so every element's (tag,
// index) pair refers directly into the flattened branch list.
func inlineUnions(u *Union) (branches []Content, tags []int64, index []int64) {
	rawTags := u.tags.ToInt64Slice()
	rawIndex := u.index.ToInt64Slice()

	offsetForBranch := make([]int64, len(u.contents))
	remap := make(map[int]map[int64]int64) // old branch -> (old inner tag -> new branch)
	for i, c := range u.contents {
		if sub, ok := c.(*Union); ok {
			inner, _, _ := inlineUnions(sub)
			m := map[int64]int64{}
			for j, ic := range inner {
				m[int64(j)] = int64(len(branches))
				branches = append(branches, ic)
			}
			remap[i] = m
			offsetForBranch[i] = -1 // sentinel: needs per-element inner tag lookup
		} else {
			offsetForBranch[i] = int64(len(branches))
			branches = append(branches, c)
		}
	}

	tags = make([]int64, len(rawTags))
	index = make([]int64, len(rawIndex))
	for i, t := range rawTags {
		if offsetForBranch[t] >= 0 {
			tags[i] = offsetForBranch[t]
			index[i] = rawIndex[i]
			continue
		}
		sub := u.contents[t].(*Union)
		subTag := sub.tags.Get(rawIndex[i])
		subIndex := sub.index.Get(rawIndex[i])
		tags[i] = remap[int(t)][subTag]
		index[i] = subIndex
	}
	return branches, tags, index
}
