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

// getitemNextJagged handles a SliceJagged64 at the current axis: per
// outer row i, h.Offsets[i:i+2] names a half-open span into h.Data,
// the row's own advanced index expression. On a list-like
// node this realigns the node's rows to those spans before continuing the
// descent with tail.
func getitemNextJagged(c Content, h SliceJagged64, tail []SliceItem) (Content, error) {
	switch v := c.(type) {
	case *ListOffset:
		return listOffsetGetItemNextJagged(v, h, tail)
	case *List:
		return getitemNextJagged(v.compact(), h, tail)
	case *Regular:
		return getitemNextJagged(regularToListOffset(v), h, tail)
	case *Record:
		contents := make([]Content, len(v.contents))
		for i, field := range v.contents {
			sliced, err := getitemNextJagged(trimmed(field, v.length), h, tail)
			if err != nil {
				return nil, err
			}
			contents[i] = sliced
		}
		length := v.length
		if len(contents) > 0 {
			length = contents[0].Length()
		}
		return &Record{keys: v.keys, contents: contents, length: length, isTuple: v.isTuple}, nil
	case *Union:
		simplified, err := SimplifyUnionType(v, false)
		if err != nil {
			return nil, err
		}
		if _, ok := simplified.(*Union); ok {
			return nil, errors.Wrapf(ErrUndefinedOperation, "UnionArray.getitem_next_jagged: branches not reducible to one type")
		}
		return getitemNextJagged(simplified, h, tail)
	case *Unmasked:
		inner, err := getitemNextJagged(v.content, h, tail)
		if err != nil {
			return nil, err
		}
		return SimplifyOptionType(&Unmasked{b: v.b, content: inner})
	case *IndexedOption:
		return indexedOptionGetItemNextJagged(v, h, tail)
	case *ByteMasked:
		return getitemNextJagged(v.toIndexedOption(), h, tail)
	case *BitMasked:
		return getitemNextJagged(v.toByteMasked(), h, tail)
	case *Indexed:
		projected, err := v.project()
		if err != nil {
			return nil, err
		}
		return getitemNextJagged(projected, h, tail)
	default:
		return nil, errors.Wrapf(ErrUndefinedOperation, "getitem_next_jagged: %s has no jagged axis", c.Kind())
	}
}

func regularToListOffset(r *Regular) *ListOffset {
	n := r.length
	offsets := make([]int64, n+1)
	for i := int64(0); i <= n; i++ {
		offsets[i] = i * r.size
	}
	return &ListOffset{b: r.b, offsets: IndexFromInt64(offsets), content: r.content}
}

func listOffsetGetItemNextJagged(l *ListOffset, h SliceJagged64, tail []SliceItem) (Content, error) {
	n := l.Length()
	if int64(len(h.Offsets))-1 != n {
		return nil, errors.Wrapf(ErrOutOfRange, "ListOffsetArray.getitem_next_jagged: %d rows vs %d jagged rows", n, len(h.Offsets)-1)
	}
	newOffsets := make([]int64, n+1)
	var pieces []Content
	total := int64(0)
	for i := int64(0); i < n; i++ {
		rowStart, rowStop := l.offsets.Get(i), l.offsets.Get(i+1)
		rowContent := GetItemRangeNowrap(l.content, rowStart, rowStop)
		innerStart, innerStop := h.Offsets[i], h.Offsets[i+1]
		innerIndex := h.Data[innerStart:innerStop]
		selected, err := Carry(rowContent, innerIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "ListOffsetArray.getitem_next_jagged: row %d", i)
		}
		if len(tail) > 0 {
			selected, err = getitemNext(selected, tail, nil)
			if err != nil {
				return nil, err
			}
		}
		newOffsets[i] = total
		pieces = append(pieces, selected)
		total += selected.Length()
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

func indexedOptionGetItemNextJagged(io *IndexedOption, h SliceJagged64, tail []SliceItem) (Content, error) {
	n := io.Length()
	validPositions := make([]int64, 0, n)
	validInner := make([]int64, 0, n)
	resultIndex := make([]int64, n)
	for i := int64(0); i < n; i++ {
		v := io.index.Get(i)
		if v < 0 {
			resultIndex[i] = -1
			continue
		}
		validPositions = append(validPositions, i)
		validInner = append(validInner, v)
	}
	projected, err := Carry(io.content, validInner)
	if err != nil {
		return nil, err
	}
	filteredOffsets := make([]int64, 0, len(validPositions)+1)
	filteredOffsets = append(filteredOffsets, 0)
	var filteredData []int64
	for _, pos := range validPositions {
		start, stop := h.Offsets[pos], h.Offsets[pos+1]
		filteredData = append(filteredData, h.Data[start:stop]...)
		filteredOffsets = append(filteredOffsets, int64(len(filteredData)))
	}
	sliced, err := getitemNextJagged(projected, SliceJagged64{Offsets: filteredOffsets, Data: filteredData}, tail)
	if err != nil {
		return nil, err
	}
	for pos := range validPositions {
		resultIndex[validPositions[pos]] = int64(pos)
	}
	out := &IndexedOption{index: IndexFromInt64(resultIndex), content: sliced}
	return SimplifyOptionType(out)
}
