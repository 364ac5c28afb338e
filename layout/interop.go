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

// The functions in this file exist only to give package arrowio (and any
// other out-of-package interchange adapter) a seam into each variant's
// private fields without exposing the fields themselves. Nothing in this
// package calls them.

// NumpyData returns a one-dimensional Numpy leaf's format code and values
// widened to float64.
func NumpyData(c Content) (format string, data []float64, err error) {
	n, ok := c.(*Numpy)
	if !ok {
		return "", nil, errors.Newf("NumpyData: %s is not a NumpyArray", c.Kind())
	}
	if len(n.shape) > 1 {
		return "", nil, errors.Newf("NumpyData: multidimensional NumpyArray unsupported")
	}
	out := make([]float64, n.Length())
	for i := int64(0); i < n.Length(); i++ {
		out[i] = numpyFloatAt(n, i)
	}
	return n.format, out, nil
}

// NumpyFromInt64 builds a NumpyArray of i64-format data.
func NumpyFromInt64(data []int64) Content { return NewNumpy(IndexFromInt64(data), "l") }

// NumpyFromInt32AsInt64 builds a NumpyArray tagged i32-format but backed
// by widened int64 storage (Index.Get widens uniformly regardless of
// declared format, so this is lossless).
func NumpyFromInt32AsInt64(data []int64) Content { return NewNumpy(IndexFromInt64(data), "i") }

// NumpyFromInt8AsInt64 is NumpyFromInt32AsInt64 for i8-format data.
func NumpyFromInt8AsInt64(data []int64) Content { return NewNumpy(IndexFromInt64(data), "b") }

// NumpyFromFloat64 builds a NumpyArray of f64-format data.
func NumpyFromFloat64(data []float64) Content { return buildNumpyFromFloat64(data, "d") }

// NumpyFromFloat64AsFloat32 builds a NumpyArray tagged f32-format from
// float64 inputs, narrowing on store.
func NumpyFromFloat64AsFloat32(data []float64) Content { return buildNumpyFromFloat64(data, "f") }

// FlattenToOffsets widens any list-like node to its (offsets, content)
// representation without consuming it the way Flatten does.
func FlattenToOffsets(c Content) ([]int64, Content, error) {
	switch v := c.(type) {
	case *ListOffset:
		return v.offsets.ToInt64Slice(), v.content, nil
	case *List:
		lo := v.compact()
		return lo.offsets.ToInt64Slice(), lo.content, nil
	case *Regular:
		lo := regularToListOffset(v)
		return lo.offsets.ToInt64Slice(), lo.content, nil
	default:
		return nil, nil, errors.Newf("FlattenToOffsets: %s is not list-like", c.Kind())
	}
}

// RecordFields returns a Record's field names (ordinal strings for a
// tuple), trimmed field contents, and explicit length.
func RecordFields(c Content) ([]string, []Content, int64, error) {
	r, ok := c.(*Record)
	if !ok {
		return nil, nil, 0, errors.Newf("RecordFields: %s is not a RecordArray", c.Kind())
	}
	keys := r.keys
	if r.isTuple {
		keys = make([]string, len(r.contents))
		for i := range keys {
			keys[i] = itoa(i)
		}
	}
	contents := make([]Content, len(r.contents))
	for i, f := range r.contents {
		contents[i] = trimmed(f, r.length)
	}
	return keys, contents, r.length, nil
}

// NewRecordContent builds a named RecordArray (never a tuple) from
// already-aligned fields.
func NewRecordContent(keys []string, contents []Content, length int64) Content {
	return &Record{keys: keys, contents: contents, length: length}
}

// NewListOffsetContent builds a ListOffsetArray from a raw offsets slice.
func NewListOffsetContent(offsets []int64, inner Content) Content {
	return &ListOffset{offsets: IndexFromInt64(offsets), content: inner}
}

// OptionInnerAndMask widens any option-wrapping variant to its content
// and a plain []bool missingness mask (true = missing), the form Arrow's
// validity bitmap is built from directly.
func OptionInnerAndMask(c Content) (Content, []bool, error) {
	switch v := c.(type) {
	case *IndexedOption:
		return v.content, v.isNone(), nil
	case *ByteMasked:
		io := v.toIndexedOption()
		return io.content, io.isNone(), nil
	case *BitMasked:
		io := v.toByteMasked().toIndexedOption()
		return io.content, io.isNone(), nil
	case *Unmasked:
		return v.content, make([]bool, v.Length()), nil
	default:
		return nil, nil, errors.Newf("OptionInnerAndMask: %s is not option-like", c.Kind())
	}
}

// NewIndexedOptionFromMask builds an IndexedOptionArray over content
// (already full length, e.g. Arrow's value buffer which carries
// arbitrary data at null slots) from a parallel []bool missingness mask.
func NewIndexedOptionFromMask(isNone []bool, content Content) Content {
	idx := make([]int64, len(isNone))
	for i, none := range isNone {
		if none {
			idx[i] = -1
		} else {
			idx[i] = int64(i)
		}
	}
	return &IndexedOption{index: IndexFromInt64(idx), content: content}
}

// ProjectIndexed materializes an IndexedArray's content in index order,
// collapsing the wrapper — used by arrowio, which has no Arrow-native
// equivalent of a bare (non-option) gather index.
func ProjectIndexed(c Content) (Content, error) {
	ix, ok := c.(*Indexed)
	if !ok {
		return nil, errors.Newf("ProjectIndexed: %s is not an IndexedArray", c.Kind())
	}
	return ix.project()
}
