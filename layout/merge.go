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

// Mergeable reports whether a and b can be combined by Merge without
// resorting to a Union, i.e. their top-level shapes and, for Record, their
// field sets and parameters agree closely enough to concatenate directly.
// mergebool controls whether two content-incompatible Numpy item types
// (e.g. int64 and float64) are still considered mergeable via numeric
// promotion; the source's permissive default is preserved here.
func Mergeable(a, b Content, mergebool bool) bool {
	if a.Kind() == KindEmpty || b.Kind() == KindEmpty {
		return true
	}
	if a.Kind() == KindUnion || b.Kind() == KindUnion {
		return true // a Union absorbs anything by definition
	}
	if !parametersEqual(a.base().parameters, b.base().parameters) {
		return false
	}
	if isOptionKind(a.Kind()) || isOptionKind(b.Kind()) {
		return Mergeable(optionInner(a), optionInner(b), mergebool)
	}
	if a.Kind() != b.Kind() {
		switch {
		case isListKind(a.Kind()) && isListKind(b.Kind()):
			return Mergeable(listInner(a), listInner(b), mergebool)
		case a.Kind() == KindNumpy && b.Kind() == KindNumpy:
			return true
		default:
			return false
		}
	}
	switch av := a.(type) {
	case *Numpy:
		bv := b.(*Numpy)
		if !mergebool && av.format != bv.format {
			return av.format == bv.format
		}
		return len(av.shape) == len(bv.shape)
	case *Record:
		bv := b.(*Record)
		return recordFieldsCompatible(av, bv)
	default:
		if isListKind(a.Kind()) {
			return Mergeable(listInner(a), listInner(b), mergebool)
		}
		return true
	}
}

func isOptionKind(k Kind) bool {
	switch k {
	case KindIndexedOption, KindByteMasked, KindBitMasked, KindUnmasked:
		return true
	default:
		return false
	}
}

func isListKind(k Kind) bool {
	switch k {
	case KindListOffset, KindList, KindRegular:
		return true
	default:
		return false
	}
}

func optionInner(c Content) Content {
	switch v := c.(type) {
	case *IndexedOption:
		return v.content
	case *ByteMasked:
		return v.content
	case *BitMasked:
		return v.content
	case *Unmasked:
		return v.content
	default:
		return c
	}
}

func listInner(c Content) Content {
	switch v := c.(type) {
	case *ListOffset:
		return v.content
	case *List:
		return v.content
	case *Regular:
		return v.content
	default:
		return c
	}
}

func recordFieldsCompatible(a, b *Record) bool {
	if a.isTuple != b.isTuple {
		return false
	}
	if len(a.keys) != len(b.keys) {
		return false
	}
	seen := map[string]bool{}
	for _, k := range a.keys {
		seen[k] = true
	}
	for _, k := range b.keys {
		if !seen[k] {
			return false
		}
	}
	return true
}

// Merge concatenates a and b along the outer axis, returning a Union when
// their shapes are genuinely incompatible rather than failing.
func Merge(a, b Content) (Content, error) {
	if Mergeable(a, b, true) {
		return mergeTwo(a, b)
	}
	return MergeAsUnion(a, b)
}

// mergeTwo implements the direct (non-Union) concatenation path, assumed
// already Mergeable by the caller.
func mergeTwo(a, b Content) (Content, error) {
	if a.Kind() == KindEmpty {
		return b, nil
	}
	if b.Kind() == KindEmpty {
		return a, nil
	}
	if isOptionKind(a.Kind()) || isOptionKind(b.Kind()) {
		return mergeOption(a, b)
	}
	if a.Kind() == KindUnion || b.Kind() == KindUnion {
		return MergeAsUnion(a, b)
	}
	switch av := a.(type) {
	case *Numpy:
		return mergeNumpy(av, asNumpyLike(b))
	case *Record:
		return mergeRecord(av, b.(*Record))
	default:
		if isListKind(a.Kind()) {
			return mergeList(a, b)
		}
		return nil, errors.Wrapf(ErrUndefinedOperation, "merge: unsupported kind %s", a.Kind())
	}
}

func asNumpyLike(c Content) *Numpy {
	if n, ok := c.(*Numpy); ok {
		return n
	}
	if e, ok := c.(*Empty); ok {
		return e.toNumpyLike()
	}
	panic("layout: asNumpyLike on incompatible content")
}

func mergeNumpy(a, b *Numpy) (*Numpy, error) {
	if len(a.shape) != 1 || len(b.shape) != 1 {
		return nil, errors.Wrapf(ErrUndefinedOperation, "merge: multidimensional NumpyArray")
	}
	n := a.Length() + b.Length()
	format := a.format
	if a.format != b.format {
		format = widerFormat(a.format, b.format)
	}
	out := make([]float64, n)
	for i := int64(0); i < a.Length(); i++ {
		out[i] = numpyFloatAt(a, i)
	}
	for i := int64(0); i < b.Length(); i++ {
		out[a.Length()+i] = numpyFloatAt(b, i)
	}
	return buildNumpyFromFloat64(out, format), nil
}

func numpyFloatAt(n *Numpy, i int64) float64 {
	switch n.format {
	case "d", "f":
		return n.data.Float64At(i)
	default:
		return float64(n.data.Get(i))
	}
}

func widerFormat(a, b string) string {
	rank := map[string]int{"b": 0, "i": 1, "l": 2, "f": 3, "d": 4}
	if rank[a] >= rank[b] {
		return a
	}
	return b
}

func buildNumpyFromFloat64(data []float64, format string) *Numpy {
	switch format {
	case "d":
		return NewNumpy(NewIndex(WrapF64(data, nil), F64, 0, int64(len(data))), "d")
	case "f":
		f32 := make([]float32, len(data))
		for i, v := range data {
			f32[i] = float32(v)
		}
		return NewNumpy(NewIndex(WrapF32(f32, nil), F32, 0, int64(len(data))), "f")
	case "l":
		i64 := make([]int64, len(data))
		for i, v := range data {
			i64[i] = int64(v)
		}
		return NewNumpy(IndexFromInt64(i64), "l")
	default:
		i32 := make([]int32, len(data))
		for i, v := range data {
			i32[i] = int32(v)
		}
		return NewNumpy(NewIndex(WrapI32(i32, nil), I32, 0, int64(len(data))), "i")
	}
}

func mergeRecord(a, b *Record) (*Record, error) {
	contents := make([]Content, len(a.keys))
	for i, k := range a.keys {
		af, err := a.Field(k)
		if err != nil {
			return nil, err
		}
		bf, err := b.Field(k)
		if err != nil {
			return nil, err
		}
		merged, err := Merge(af, bf)
		if err != nil {
			return nil, errors.Wrapf(err, "merge: field %q", k)
		}
		contents[i] = merged
	}
	return &Record{keys: a.keys, contents: contents, length: a.length + b.length, isTuple: a.isTuple}, nil
}

func mergeList(a, b Content) (Content, error) {
	al := toOffsetList(a)
	bl := toOffsetList(b)
	// offsets need not start at 0 and content may run past offsets[n] (the
	// same trailing/leading slack reduceListOffset and Flatten account for),
	// so each side is rebased to its own 0-based packed span before the
	// contents are concatenated, rather than merging the raw content buffers
	// and shifting by a raw offset value.
	aBase, aTotal := packedListRange(al)
	bBase, bTotal := packedListRange(bl)
	aContent := GetItemRangeNowrap(al.content, aBase, aBase+aTotal)
	bContent := GetItemRangeNowrap(bl.content, bBase, bBase+bTotal)
	mergedContent, err := Merge(aContent, bContent)
	if err != nil {
		return nil, err
	}
	offsets := make([]int64, al.Length()+bl.Length()+1)
	for i := int64(0); i <= al.Length(); i++ {
		offsets[i] = al.offsets.Get(i) - aBase
	}
	shift := aTotal
	for i := int64(1); i <= bl.Length(); i++ {
		offsets[al.Length()+i] = shift + (bl.offsets.Get(i) - bBase)
	}
	return &ListOffset{offsets: IndexFromInt64(offsets), content: mergedContent}, nil
}

// packedListRange reports l's offsets[0] and the total span it covers, the
// rebasing every caller that concatenates a ListOffset's raw content needs
// once offsets is allowed to not start at 0.
func packedListRange(l *ListOffset) (base, total int64) {
	n := l.Length()
	if n == 0 {
		return 0, 0
	}
	base = l.offsets.Get(0)
	total = l.offsets.Get(n) - base
	return base, total
}

func toOffsetList(c Content) *ListOffset {
	switch v := c.(type) {
	case *ListOffset:
		return v
	case *List:
		return v.compact()
	case *Regular:
		n := v.Length()
		offsets := make([]int64, n+1)
		for i := int64(0); i <= n; i++ {
			offsets[i] = i * v.size
		}
		return &ListOffset{b: v.b, offsets: IndexFromInt64(offsets), content: v.content}
	default:
		panic("layout: toOffsetList on non-list content")
	}
}

func mergeOption(a, b Content) (Content, error) {
	ao := toIndexedOptionLike(a)
	bo := toIndexedOptionLike(b)
	mergedContent, err := Merge(ao.content, bo.content)
	if err != nil {
		return nil, err
	}
	n := ao.Length() + bo.Length()
	idx := make([]int64, n)
	for i := int64(0); i < ao.Length(); i++ {
		idx[i] = ao.index.Get(i)
	}
	bShift := ao.content.Length()
	for i := int64(0); i < bo.Length(); i++ {
		v := bo.index.Get(i)
		if v < 0 {
			idx[ao.Length()+i] = -1
		} else {
			idx[ao.Length()+i] = v + bShift
		}
	}
	return &IndexedOption{index: IndexFromInt64(idx), content: mergedContent}, nil
}

func toIndexedOptionLike(c Content) *IndexedOption {
	switch v := c.(type) {
	case *IndexedOption:
		return v
	case *ByteMasked:
		return v.toIndexedOption()
	case *BitMasked:
		return v.toByteMasked().toIndexedOption()
	case *Unmasked:
		n := v.Length()
		idx := make([]int64, n)
		for i := range idx {
			idx[i] = int64(i)
		}
		return &IndexedOption{index: IndexFromInt64(idx), content: v.content}
	default:
		n := c.Length()
		idx := make([]int64, n)
		for i := range idx {
			idx[i] = int64(i)
		}
		return &IndexedOption{index: IndexFromInt64(idx), content: c}
	}
}

// MergeAsUnion concatenates a and b by constructing (or extending) a
// UnionArray, the fallback used whenever the two top-level shapes are not
// Mergeable directly.
func MergeAsUnion(a, b Content) (Content, error) {
	aBranches, aTags, aIndex := unionize(a, 0)
	bBranches, bTags, bIndex := unionize(b, int8(len(aBranches)))
	contents := append(append([]Content{}, aBranches...), bBranches...)
	if status := checkBranchCount(len(contents)); status != nil {
		return nil, status
	}
	tags := append(append([]int8{}, aTags...), bTags...)
	index := append(append([]int64{}, aIndex...), bIndex...)
	return NewUnion(IndexFromInt8(tags), IndexFromInt64(index), contents)
}

func checkBranchCount(n int) error {
	if n > 127 {
		return errors.Wrapf(ErrTooManyBranches, "%d branches", n)
	}
	return nil
}

// unionize decomposes c into its own list of branches/tags/index,
// renumbering tags by tagOffset — either passing an existing Union's
// branches through (reverse_merge's "absorb, don't nest" rule) or
// wrapping a plain content as a single new branch.
func unionize(c Content, tagOffset int8) (branches []Content, tags []int8, index []int64) {
	if u, ok := c.(*Union); ok {
		rawTags := u.tags.ToInt64Slice()
		tags = make([]int8, len(rawTags))
		for i, t := range rawTags {
			tags[i] = int8(t) + tagOffset
		}
		return u.contents, tags, u.index.ToInt64Slice()
	}
	n := c.Length()
	tags = make([]int8, n)
	index = make([]int64, n)
	for i := int64(0); i < n; i++ {
		tags[i] = tagOffset
		index[i] = i
	}
	return []Content{c}, tags, index
}

// ReverseMerge is Merge with operand order swapped, kept distinct since
// the specification calls out an explicit reverse_merge entry point for
// callers that already know they are merging "b into a" rather than
// concatenating two equals.
func ReverseMerge(a, b Content) (Content, error) {
	return Merge(b, a)
}
