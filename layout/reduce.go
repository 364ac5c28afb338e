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

// Reducer is the abstract segment-aggregation operator ReduceNext drives:
// Identity is the value a never-reached (empty) segment reports; Seed
// folds the first contributing element's value into a fresh accumulator
// (distinct from Identity because, e.g., Count's first element yields 1,
// not the element's own value); Apply folds every subsequent element in.
type Reducer interface {
	Name() string
	Identity() float64
	Seed(value float64) float64
	Apply(acc, value float64) float64
}

type sumReducer struct{}

func (sumReducer) Name() string               { return "sum" }
func (sumReducer) Identity() float64          { return 0 }
func (sumReducer) Seed(v float64) float64     { return v }
func (sumReducer) Apply(a, v float64) float64 { return a + v }

type prodReducer struct{}

func (prodReducer) Name() string               { return "prod" }
func (prodReducer) Identity() float64          { return 1 }
func (prodReducer) Seed(v float64) float64     { return v }
func (prodReducer) Apply(a, v float64) float64 { return a * v }

type minReducer struct{}

func (minReducer) Name() string           { return "min" }
func (minReducer) Identity() float64      { return 0 }
func (minReducer) Seed(v float64) float64 { return v }
func (minReducer) Apply(a, v float64) float64 {
	if v < a {
		return v
	}
	return a
}

type maxReducer struct{}

func (maxReducer) Name() string           { return "max" }
func (maxReducer) Identity() float64      { return 0 }
func (maxReducer) Seed(v float64) float64 { return v }
func (maxReducer) Apply(a, v float64) float64 {
	if v > a {
		return v
	}
	return a
}

type countReducer struct{}

func (countReducer) Name() string               { return "count" }
func (countReducer) Identity() float64          { return 0 }
func (countReducer) Seed(v float64) float64     { return 1 }
func (countReducer) Apply(a, v float64) float64 { return a + 1 }

// Sum, Prod, Min, Max, and Count are the stock reducers every caller
// reaches for; a caller wanting something else implements Reducer itself.
func Sum() Reducer   { return sumReducer{} }
func Prod() Reducer  { return prodReducer{} }
func Min() Reducer   { return minReducer{} }
func Max() Reducer   { return maxReducer{} }
func Count() Reducer { return countReducer{} }

// ReduceNext is the recursive segment-reduction protocol: parents[i]
// names which of outlength output groups element i of c belongs to;
// starts (the first source position of each group) and negaxis are part
// of the signature but are not read. mask requests that a group with zero
// contributing elements come back missing (wrapped in an IndexedOption)
// rather than reporting the reducer's identity value. keepdims wraps the
// result in a length-outlength RegularArray of size 1, matching the
// convention that a reduction along an axis leaves that axis present
// (size 1) rather than removing it.
//
// Unions must already be reduced to a single type (SimplifyUnionType)
// before reaching here; ReduceNext itself does not attempt to merge
// branches.
func ReduceNext(c Content, reducer Reducer, negaxis int64, starts, parents []int64, outlength int64, mask, keepdims bool) (Content, error) {
	result, err := reduceNextLeafish(c, reducer, parents, outlength, mask)
	if err != nil {
		return nil, err
	}
	if !keepdims {
		return result, nil
	}
	return &Regular{content: result, size: 1, length: outlength}, nil
}

// reduceNextLeafish performs the actual segment aggregation. It supports
// Numpy leaves directly and forwards through every option/indexed wrapper
// and through Record (field-wise) without changing the (starts, parents)
// grouping, since none of those wrappers alter the outer element count.
// A Union reaching here (not yet simplified away) is an error, matching
// the specification's "fail if not reducible to a single type."
func reduceNextLeafish(c Content, reducer Reducer, parents []int64, outlength int64, mask bool) (Content, error) {
	switch v := c.(type) {
	case *Numpy:
		return reduceNumpy(v, reducer, parents, outlength, mask)
	case *Empty:
		return reduceNumpy(v.toNumpyLike(), reducer, parents, outlength, mask)
	case *IndexedOption:
		return reduceOption(v.isNone(), v.content, reducer, parents, outlength, mask)
	case *ByteMasked:
		io := v.toIndexedOption()
		return reduceOption(io.isNone(), io.content, reducer, parents, outlength, mask)
	case *BitMasked:
		io := v.toByteMasked().toIndexedOption()
		return reduceOption(io.isNone(), io.content, reducer, parents, outlength, mask)
	case *Unmasked:
		return reduceNextLeafish(v.content, reducer, parents, outlength, mask)
	case *Indexed:
		projected, err := v.project()
		if err != nil {
			return nil, err
		}
		return reduceNextLeafish(projected, reducer, parents, outlength, mask)
	case *Record:
		contents := make([]Content, len(v.contents))
		for i, f := range v.contents {
			reduced, err := reduceNextLeafish(trimmed(f, v.length), reducer, parents, outlength, mask)
			if err != nil {
				return nil, errors.Wrapf(err, "reduce_next: field %d", i)
			}
			contents[i] = reduced
		}
		return &Record{keys: v.keys, contents: contents, length: outlength, isTuple: v.isTuple}, nil
	case *Union:
		return nil, errors.Wrapf(ErrUndefinedOperation, "reduce_next: UnionArray must be simplified to one type first")
	default:
		if isListKind(c.Kind()) {
			return nil, errors.Wrapf(ErrUndefinedOperation, "reduce_next: %s must be flattened to a leaf before reducing", c.Kind())
		}
		return nil, undefinedOp("reduce_next", c)
	}
}

func reduceNumpy(n *Numpy, reducer Reducer, parents []int64, outlength int64, mask bool) (Content, error) {
	if len(parents) != int(n.Length()) {
		return nil, errors.Wrapf(ErrInvariantViolation, "reduce_next: %d parents for %d elements", len(parents), n.Length())
	}
	acc := make([]float64, outlength)
	seen := make([]bool, outlength)
	for i := int64(0); i < n.Length(); i++ {
		g := parents[i]
		if g < 0 || g >= outlength {
			return nil, errors.Wrapf(ErrOutOfRange, "reduce_next: element %d has out-of-range parent %d", i, g)
		}
		value := numpyFloatAt(n, i)
		if !seen[g] {
			acc[g] = reducer.Seed(value)
			seen[g] = true
			continue
		}
		acc[g] = reducer.Apply(acc[g], value)
	}
	for g := range acc {
		if !seen[g] {
			acc[g] = reducer.Identity()
		}
	}
	out := buildNumpyFromFloat64(acc, "d")
	if !mask {
		return out, nil
	}
	idx := make([]int64, outlength)
	for g := range idx {
		if seen[g] {
			idx[g] = int64(g)
		} else {
			idx[g] = -1
		}
	}
	return &IndexedOption{index: IndexFromInt64(idx), content: out}, nil
}

// reduceOption reduces the content of an option-typed node, dropping the
// parents entries belonging to missing elements before recursing (a
// missing value never contributes to its group's aggregate).
func reduceOption(isNone []bool, content Content, reducer Reducer, parents []int64, outlength int64, mask bool) (Content, error) {
	filteredParents := make([]int64, 0, len(parents))
	validPositions := make([]int64, 0, len(parents))
	for i, none := range isNone {
		if !none {
			filteredParents = append(filteredParents, parents[i])
			validPositions = append(validPositions, int64(i))
		}
	}
	projected, err := Carry(content, validPositions)
	if err != nil {
		return nil, err
	}
	return reduceNextLeafish(projected, reducer, filteredParents, outlength, mask)
}

// Reduce is the convenience entry point most callers want: it reduces a
// list-like array one level (each row collapses to a single aggregate)
// without requiring the caller to construct starts/parents by hand. axis
// is passed along on recursion but never selects the level: a list-like
// array always has its outermost list level reduced, and a bare Numpy
// collapses to a single aggregate.
func Reduce(c Content, reducer Reducer, axis int64, mask bool) (Content, error) {
	switch v := c.(type) {
	case *ListOffset:
		return reduceListOffset(v, reducer, mask)
	case *List:
		return Reduce(v.compact(), reducer, axis, mask)
	case *Regular:
		return Reduce(regularToListOffset(v), reducer, axis, mask)
	case *IndexedOption:
		projected, err := projectValidOption(v)
		if err != nil {
			return nil, err
		}
		return Reduce(projected, reducer, axis, mask)
	case *ByteMasked:
		return Reduce(v.toIndexedOption(), reducer, axis, mask)
	case *BitMasked:
		return Reduce(v.toByteMasked(), reducer, axis, mask)
	case *Unmasked:
		return Reduce(v.content, reducer, axis, mask)
	case *Numpy:
		parents := make([]int64, v.Length())
		starts := []int64{0}
		return ReduceNext(v, reducer, 0, starts, parents, 1, mask, false)
	default:
		return nil, errors.Wrapf(ErrUndefinedOperation, "reduce: %s is not list-like", c.Kind())
	}
}

func reduceListOffset(l *ListOffset, reducer Reducer, mask bool) (Content, error) {
	n := l.Length()
	if n == 0 {
		return ReduceNext(NewEmpty(), reducer, 0, nil, nil, 0, mask, false)
	}
	// offsets need not start at 0 (e.g. after slicing off a leading row), so
	// parents/content must be built relative to a 0-based packed view rather
	// than against the raw offset values, the same rebasing Flatten's
	// *ListOffset case does.
	base := l.offsets.Get(0)
	total := l.offsets.Get(n) - base
	parents := make([]int64, total)
	starts := make([]int64, n)
	for i := int64(0); i < n; i++ {
		start, stop := l.offsets.Get(i)-base, l.offsets.Get(i+1)-base
		starts[i] = start
		for p := start; p < stop; p++ {
			parents[p] = i
		}
	}
	content := GetItemRangeNowrap(l.content, base, base+total)
	return ReduceNext(content, reducer, 0, starts, parents, n, mask, false)
}
