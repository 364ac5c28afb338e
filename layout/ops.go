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

// Num reports the length of axis, recursed depth-many levels down from
// depth, matching each node's own outer length at axis==depth and
// descending into a representative child otherwise.
func Num(c Content, axis, depth int64) (int64, error) {
	resolved, err := axisWrapIfNegative(int(axis), int(depth), int(purelistBranchDepth(c, int(depth))))
	if err != nil {
		return 0, err
	}
	axis = int64(resolved)
	if axis == depth {
		return c.Length(), nil
	}
	switch v := c.(type) {
	case *Record:
		if len(v.contents) == 0 {
			return 0, nil
		}
		return Num(trimmed(v.contents[0], v.length), axis, depth)
	case *Union:
		if len(v.contents) == 0 {
			return 0, nil
		}
		return Num(v.contents[0], axis, depth)
	default:
		inner := listInnerOrOption(c)
		if inner == c {
			return 0, undefinedOp("num", c)
		}
		nextDepth := depth
		if isListKind(c.Kind()) {
			nextDepth++
		}
		return Num(inner, axis, nextDepth)
	}
}

func purelistBranchDepth(c Content, depth int) int64 {
	d, _ := MinMaxDepth(c)
	return d + int64(depth) - 1
}

// Flatten removes the outermost level of list nesting, returning the
// content the outer lists span as a single flattened Content (the
// (offsets, content) pair with the offsets dropped). Only axis 0 is
// supported; any other axis is an undefined-operation error.
func Flatten(c Content, axis int64) (Content, error) {
	if axis != 0 {
		return nil, errors.Wrapf(ErrUndefinedOperation, "flatten: only axis=0 is supported directly")
	}
	switch v := c.(type) {
	case *ListOffset:
		n := v.Length()
		if n == 0 {
			return NewEmpty(), nil
		}
		start, stop := v.offsets.Get(0), v.offsets.Get(n)
		return GetItemRangeNowrap(v.content, start, stop), nil
	case *List:
		return Flatten(v.compact(), axis)
	case *Regular:
		return GetItemRangeNowrap(v.content, 0, v.length*v.size), nil
	case *IndexedOption:
		projected, err := projectValidOption(v)
		if err != nil {
			return nil, err
		}
		return Flatten(projected, axis)
	case *ByteMasked:
		return Flatten(v.toIndexedOption(), axis)
	case *BitMasked:
		return Flatten(v.toByteMasked(), axis)
	case *Unmasked:
		return Flatten(v.content, axis)
	default:
		return nil, errors.Wrapf(ErrUndefinedOperation, "flatten: %s is not list-like", c.Kind())
	}
}

func projectValidOption(io *IndexedOption) (Content, error) {
	valid := make([]int64, 0, io.Length())
	for i := int64(0); i < io.Length(); i++ {
		if v := io.index.Get(i); v >= 0 {
			valid = append(valid, v)
		}
	}
	return Carry(io.content, valid)
}

// RPad pads every row at the given list axis up to length target with
// missing (None) slots, leaving longer rows untouched.
func RPad(c Content, target, axis, depth int64) (Content, error) {
	return rpadImpl(c, target, axis, depth, false)
}

// RPadAndClip is RPad but additionally truncates rows longer than target.
func RPadAndClip(c Content, target, axis, depth int64) (Content, error) {
	return rpadImpl(c, target, axis, depth, true)
}

func rpadImpl(c Content, target, axis, depth int64, clip bool) (Content, error) {
	if axis == depth {
		return rpadAxis0(c, target, clip)
	}
	switch v := c.(type) {
	case *ListOffset:
		return rpadListOffset(v, target, axis, depth, clip)
	case *List:
		return rpadImpl(v.compact(), target, axis, depth, clip)
	case *Regular:
		return rpadImpl(regularToListOffset(v), target, axis, depth, clip)
	default:
		return nil, errors.Wrapf(ErrUndefinedOperation, "rpad: %s has no axis %d", c.Kind(), axis)
	}
}

// rpadAxis0 pads/clips the outer axis itself — the specialized fast path
// the design calls out for axis==0, avoiding a recursive per-row walk
// since every "row" here is a single scalar element.
func rpadAxis0(c Content, target int64, clip bool) (Content, error) {
	n := c.Length()
	if n >= target {
		if !clip || n == target {
			return c, nil
		}
		return GetItemRangeNowrap(c, 0, target), nil
	}
	idx := make([]int64, target)
	for i := int64(0); i < n; i++ {
		idx[i] = i
	}
	for i := n; i < target; i++ {
		idx[i] = -1
	}
	return indexedOptionFromCarry(c, idx)
}

func indexedOptionFromCarry(c Content, idx []int64) (Content, error) {
	valid := make([]int64, 0, len(idx))
	for _, v := range idx {
		if v >= 0 {
			valid = append(valid, v)
		}
	}
	projected, err := Carry(c, valid)
	if err != nil {
		return nil, err
	}
	resultIndex := make([]int64, len(idx))
	vi := int64(0)
	for i, v := range idx {
		if v < 0 {
			resultIndex[i] = -1
		} else {
			resultIndex[i] = vi
			vi++
		}
	}
	return &IndexedOption{index: IndexFromInt64(resultIndex), content: projected}, nil
}

func rpadListOffset(l *ListOffset, target, axis, depth int64, clip bool) (Content, error) {
	n := l.Length()
	newOffsets := make([]int64, n+1)
	var pieces []Content
	total := int64(0)
	for i := int64(0); i < n; i++ {
		start, stop := l.offsets.Get(i), l.offsets.Get(i+1)
		row := GetItemRangeNowrap(l.content, start, stop)
		padded, err := rpadImpl(row, target, axis, depth+1, clip)
		if err != nil {
			return nil, err
		}
		newOffsets[i] = total
		pieces = append(pieces, padded)
		total += padded.Length()
	}
	newOffsets[n] = total
	merged := Content(NewEmpty())
	for _, p := range pieces {
		m, err := mergeTwo(merged, p)
		if err != nil {
			return nil, err
		}
		merged = m
	}
	return &ListOffset{b: l.b, offsets: IndexFromInt64(newOffsets), content: merged}, nil
}

// LocalIndex emits, at the given axis, each element's own position within
// its enclosing row (0, 1, 2, ... reset at every row boundary).
func LocalIndex(c Content, axis, depth int64) (Content, error) {
	if axis == depth {
		n := c.Length()
		data := make([]int64, n)
		for i := range data {
			data[i] = int64(i)
		}
		return NewNumpy(IndexFromInt64(data), "l"), nil
	}
	switch v := c.(type) {
	case *ListOffset:
		n := v.Length()
		var pieces []Content
		newOffsets := make([]int64, n+1)
		total := int64(0)
		for i := int64(0); i < n; i++ {
			start, stop := v.offsets.Get(i), v.offsets.Get(i+1)
			row := GetItemRangeNowrap(v.content, start, stop)
			li, err := LocalIndex(row, axis, depth+1)
			if err != nil {
				return nil, err
			}
			newOffsets[i] = total
			pieces = append(pieces, li)
			total += li.Length()
		}
		newOffsets[n] = total
		merged := Content(NewEmpty())
		for _, p := range pieces {
			m, err := mergeTwo(merged, p)
			if err != nil {
				return nil, err
			}
			merged = m
		}
		return &ListOffset{b: v.b, offsets: IndexFromInt64(newOffsets), content: merged}, nil
	case *List:
		return LocalIndex(v.compact(), axis, depth)
	case *Regular:
		return LocalIndex(regularToListOffset(v), axis, depth)
	default:
		return nil, errors.Wrapf(ErrUndefinedOperation, "localindex: %s has no axis %d", c.Kind(), axis)
	}
}

// Combinations produces all n-combinations (or n-permutations-with-
// replacement) of elements at the given axis, packaged as a Record (named
// by recordlookup) or tuple of n parallel list-like columns. Combinations
// are taken within each list of c, so axis must be depth+1 (the LocalIndex
// numbering, where axis 0 is c's own outer dimension).
func Combinations(c Content, n int, replacement bool, recordlookup []string, axis, depth int64) (Content, error) {
	if axis != depth+1 {
		return nil, errors.Wrapf(ErrUndefinedOperation, "combinations: only the axis directly inside the current list is supported")
	}
	switch v := c.(type) {
	case *ListOffset:
		return combinationsListOffset(v, n, replacement, recordlookup)
	case *List:
		return Combinations(v.compact(), n, replacement, recordlookup, axis, depth)
	case *Regular:
		return Combinations(regularToListOffset(v), n, replacement, recordlookup, axis, depth)
	default:
		return nil, errors.Wrapf(ErrUndefinedOperation, "combinations: %s is not list-like", c.Kind())
	}
}

func combinationsListOffset(l *ListOffset, n int, replacement bool, recordlookup []string) (Content, error) {
	rows := l.Length()
	columns := make([][]int64, n)
	outerOffsets := make([]int64, rows+1)
	total := int64(0)
	for r := int64(0); r < rows; r++ {
		start, stop := l.offsets.Get(r), l.offsets.Get(r+1)
		rowLen := stop - start
		combos := combinationIndices(rowLen, n, replacement)
		for _, combo := range combos {
			for k := 0; k < n; k++ {
				columns[k] = append(columns[k], start+combo[k])
			}
		}
		outerOffsets[r] = total
		total += int64(len(combos))
	}
	outerOffsets[rows] = total
	contents := make([]Content, n)
	for k := 0; k < n; k++ {
		carried, err := Carry(l.content, columns[k])
		if err != nil {
			return nil, err
		}
		contents[k] = carried
	}
	rec := &Record{keys: recordlookup, contents: contents, length: total, isTuple: recordlookup == nil}
	return &ListOffset{offsets: IndexFromInt64(outerOffsets), content: rec}, nil
}

func combinationIndices(rowLen int64, n int, replacement bool) [][]int64 {
	var out [][]int64
	var rec func(start int64, chosen []int64)
	rec = func(start int64, chosen []int64) {
		if len(chosen) == n {
			out = append(out, append([]int64{}, chosen...))
			return
		}
		for i := start; i < rowLen; i++ {
			next := i + 1
			if replacement {
				next = i
			}
			rec(next, append(chosen, i))
		}
	}
	rec(0, nil)
	return out
}

// FillNA replaces every missing slot of c with elements carried from
// value (value must be broadcastable: either length 1, replicated, or
// exactly c.Length()).
func FillNA(c Content, value Content) (Content, error) {
	missing := IsNone(c, 0, 0)
	io, isOption := asOptionLike(c)
	if !isOption {
		return c, nil
	}
	n := io.Length()
	present, err := projectValidOption(io)
	if err != nil {
		return nil, err
	}
	fillValue := value
	if value.Length() == 1 || value.Length() == n {
		idx := make([]int64, 0, countTrue(missing))
		for i, m := range missing {
			if m && value.Length() == 1 {
				idx = append(idx, 0)
			} else if m {
				idx = append(idx, int64(i))
			}
		}
		fillValue, err = Carry(value, idx)
		if err != nil {
			return nil, err
		}
	}
	merged, err := mergeTwo(present, fillValue)
	if err != nil {
		return nil, err
	}
	presentLen := present.Length()
	resultIndex := make([]int64, n)
	pi, fi := int64(0), presentLen
	for i := int64(0); i < n; i++ {
		if missing[i] {
			resultIndex[i] = fi
			fi++
		} else {
			resultIndex[i] = pi
			pi++
		}
	}
	return Carry(merged, resultIndex)
}

func countTrue(bs []bool) int64 {
	var n int64
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

// IsNone reports, for each element at the given axis, whether it is
// missing. Only IndexedOption/ByteMasked/BitMasked/Unmasked contribute
// true entries; every other variant reports all-false.
func IsNone(c Content, axis, depth int64) []bool {
	if axis != depth {
		// Deeper axes have no per-row missingness of their own at this
		// level; every element here is present from the outer axis's view.
		return make([]bool, c.Length())
	}
	switch v := c.(type) {
	case *IndexedOption:
		return v.isNone()
	case *ByteMasked:
		return v.toIndexedOption().isNone()
	case *BitMasked:
		return v.toByteMasked().toIndexedOption().isNone()
	case *Unmasked:
		return IsNone(v.content, axis, depth)
	default:
		n := c.Length()
		return make([]bool, n)
	}
}

// ValidityError walks the tree checking every structural invariant
// (monotone offsets, in-bounds indices/tags, identities length) and
// returns the first violation's message prefixed by path, or "" if valid.
func ValidityError(c Content, path string) string {
	switch v := c.(type) {
	case *ListOffset:
		offsets := v.offsets.ToInt64Slice()
		if status := kernel.CheckMonotone(offsets, v.content.Length()); !status.OK() {
			return path + ": " + status.String()
		}
		return ValidityError(v.content, path+".content")
	case *List:
		n := v.Length()
		for i := int64(0); i < n; i++ {
			if v.stops.Get(i) < v.starts.Get(i) {
				return path + ": ListArray stop < start at " + itoa(int(i))
			}
		}
		return ValidityError(v.content, path+".content")
	case *Indexed:
		n := v.Length()
		for i := int64(0); i < n; i++ {
			idx := v.index.Get(i)
			if idx < 0 || idx >= v.content.Length() {
				return path + ": IndexedArray index out of bounds at " + itoa(int(i))
			}
		}
		return ValidityError(v.content, path+".content")
	case *IndexedOption:
		n := v.Length()
		for i := int64(0); i < n; i++ {
			idx := v.index.Get(i)
			if idx >= v.content.Length() {
				return path + ": IndexedOptionArray index out of bounds at " + itoa(int(i))
			}
		}
		return ValidityError(v.content, path+".content")
	case *Record:
		for i, f := range v.contents {
			if f.Length() < v.length {
				return path + ": RecordArray field shorter than length at " + itoa(i)
			}
			if msg := ValidityError(f, path+".field"+itoa(i)); msg != "" {
				return msg
			}
		}
		return ""
	case *Union:
		n := v.Length()
		for i := int64(0); i < n; i++ {
			t := v.tags.Get(i)
			if t < 0 || int(t) >= len(v.contents) {
				return path + ": UnionArray tag out of bounds at " + itoa(int(i))
			}
			idx := v.index.Get(i)
			if idx < 0 || idx >= v.contents[t].Length() {
				return path + ": UnionArray index out of bounds at " + itoa(int(i))
			}
		}
		if len(v.index.ToInt64Slice()) < len(v.tags.ToInt64Slice()) {
			return path + ": UnionArray index shorter than tags"
		}
		for i, br := range v.contents {
			if msg := ValidityError(br, path+".branch"+itoa(i)); msg != "" {
				return msg
			}
		}
		return ""
	case *Regular:
		return ValidityError(v.content, path+".content")
	case *Unmasked:
		return ValidityError(v.content, path+".content")
	case *ByteMasked:
		return ValidityError(v.content, path+".content")
	case *BitMasked:
		return ValidityError(v.content, path+".content")
	default:
		return ""
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
