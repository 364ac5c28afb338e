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

// Package arrowio is the Arrow interchange layer: structural conversion
// (every element is copied) between a layout.Content tree and an
// apache/arrow/go/v11 in-memory array, plus Arrow IPC file read/write.
// It is grounded directly in the teacher's pkg/col/colserde
// (FileSerializer/FileDeserializer, ArrowBatchConverter) and
// pkg/col/typeconv, rewritten against the public arrow/go/v11 module
// instead of the teacher's internal flatbuffers-generated schema and
// sqlbase type system.
//
// arrowio is a caller-facing adapter layered on top of the layout
// algebra, never invoked by the algebra's own operations: the core's
// non-goal ("does not persist data to disk") still holds here, since
// reading/writing an interchange format is not the same as owning a
// persistence layer.
package arrowio

import (
	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"

	"github.com/gocolumnar/layout/layout"
)

// ToArrowArray converts a Content tree into an Arrow array, recursing the
// way the layout algebra itself recurses: ListOffset/List/Regular become
// an Arrow List, Record becomes an Arrow Struct, option wrappers become
// an Arrow validity bitmap over their content, and Numpy becomes the
// matching Arrow primitive array. Union is intentionally unsupported in
// this first cut (Arrow's dense/sparse union builders need a schema-level
// type-id table this layer does not yet derive) — see DESIGN.md.
func ToArrowArray(content layout.Content, mem memory.Allocator) (arrow.Array, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return toArrowArray(content, mem)
}

func toArrowArray(c layout.Content, mem memory.Allocator) (arrow.Array, error) {
	switch c.Kind() {
	case layout.KindEmpty:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		return b.NewArray(), nil
	case layout.KindNumpy:
		return numpyToArrow(c, mem)
	case layout.KindListOffset, layout.KindList, layout.KindRegular:
		return listToArrow(c, mem)
	case layout.KindRecord:
		return recordToArrow(c, mem)
	case layout.KindIndexed:
		projected, err := layout.ProjectIndexed(c)
		if err != nil {
			return nil, err
		}
		return toArrowArray(projected, mem)
	case layout.KindIndexedOption, layout.KindByteMasked, layout.KindBitMasked, layout.KindUnmasked:
		return optionToArrow(c, mem)
	default:
		return nil, errors.Newf("arrowio: %s has no Arrow representation", c.Kind())
	}
}

func numpyToArrow(c layout.Content, mem memory.Allocator) (arrow.Array, error) {
	format, data, err := layout.NumpyData(c)
	if err != nil {
		return nil, err
	}
	switch format {
	case "l":
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, v := range data {
			b.Append(int64(v))
		}
		return b.NewArray(), nil
	case "i":
		b := array.NewInt32Builder(mem)
		defer b.Release()
		for _, v := range data {
			b.Append(int32(v))
		}
		return b.NewArray(), nil
	case "f":
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		for _, v := range data {
			b.Append(float32(v))
		}
		return b.NewArray(), nil
	case "b":
		b := array.NewInt8Builder(mem)
		defer b.Release()
		for _, v := range data {
			b.Append(int8(v))
		}
		return b.NewArray(), nil
	default:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(data, nil)
		return b.NewArray(), nil
	}
}

func listToArrow(c layout.Content, mem memory.Allocator) (arrow.Array, error) {
	offsets, inner, err := layout.FlattenToOffsets(c)
	if err != nil {
		return nil, err
	}
	innerArr, err := toArrowArray(inner, mem)
	if err != nil {
		return nil, err
	}
	defer innerArr.Release()

	valueBuilder := array.NewBuilder(mem, innerArr.DataType())
	defer valueBuilder.Release()
	if err := appendArrowValues(valueBuilder, innerArr); err != nil {
		return nil, err
	}

	listBuilder := array.NewListBuilder(mem, innerArr.DataType())
	defer listBuilder.Release()
	n := int64(len(offsets)) - 1
	for i := int64(0); i < n; i++ {
		listBuilder.Append(true)
		start, stop := offsets[i], offsets[i+1]
		for p := start; p < stop; p++ {
			if err := appendArrowValueAt(listBuilder.ValueBuilder(), innerArr, p); err != nil {
				return nil, err
			}
		}
	}
	return listBuilder.NewArray(), nil
}

func recordToArrow(c layout.Content, mem memory.Allocator) (arrow.Array, error) {
	keys, contents, length, err := layout.RecordFields(c)
	if err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, len(keys))
	children := make([]arrow.Array, len(keys))
	for i, k := range keys {
		arr, err := toArrowArray(contents[i], mem)
		if err != nil {
			return nil, errors.Wrapf(err, "arrowio: field %q", k)
		}
		children[i] = arr
		fields[i] = arrow.Field{Name: k, Type: arr.DataType(), Nullable: true}
	}
	structType := arrow.StructOf(fields...)
	sb := array.NewStructBuilder(mem, structType)
	defer sb.Release()
	for i := int64(0); i < length; i++ {
		sb.Append(true)
		for f := range children {
			if err := appendArrowValueAt(sb.FieldBuilder(f), children[f], i); err != nil {
				return nil, err
			}
		}
	}
	return sb.NewArray(), nil
}

func optionToArrow(c layout.Content, mem memory.Allocator) (arrow.Array, error) {
	inner, isNone, err := layout.OptionInnerAndMask(c)
	if err != nil {
		return nil, err
	}
	innerArr, err := toArrowArray(inner, mem)
	if err != nil {
		return nil, err
	}
	defer innerArr.Release()
	builder := array.NewBuilder(mem, innerArr.DataType())
	defer builder.Release()
	for i, none := range isNone {
		if none {
			builder.AppendNull()
			continue
		}
		if err := appendArrowValueAt(builder, innerArr, int64(i)); err != nil {
			return nil, err
		}
	}
	return builder.NewArray(), nil
}

// appendArrowValues copies every element of src into dst in order.
func appendArrowValues(dst array.Builder, src arrow.Array) error {
	for i := 0; i < src.Len(); i++ {
		if err := appendArrowValueAt(dst, src, int64(i)); err != nil {
			return err
		}
	}
	return nil
}

func appendArrowValueAt(dst array.Builder, src arrow.Array, i int64) error {
	if src.IsNull(int(i)) {
		dst.AppendNull()
		return nil
	}
	switch s := src.(type) {
	case *array.Int64:
		dst.(*array.Int64Builder).Append(s.Value(int(i)))
	case *array.Int32:
		dst.(*array.Int32Builder).Append(s.Value(int(i)))
	case *array.Int8:
		dst.(*array.Int8Builder).Append(s.Value(int(i)))
	case *array.Float64:
		dst.(*array.Float64Builder).Append(s.Value(int(i)))
	case *array.Float32:
		dst.(*array.Float32Builder).Append(s.Value(int(i)))
	case *array.List:
		lb := dst.(*array.ListBuilder)
		lb.Append(true)
		start, end := s.ValueOffsets(int(i))
		for p := start; p < end; p++ {
			if err := appendArrowValueAt(lb.ValueBuilder(), s.ListValues(), p); err != nil {
				return err
			}
		}
	case *array.Struct:
		sb := dst.(*array.StructBuilder)
		sb.Append(true)
		for f := 0; f < s.NumField(); f++ {
			if err := appendArrowValueAt(sb.FieldBuilder(f), s.Field(f), i); err != nil {
				return err
			}
		}
	default:
		return errors.Newf("arrowio: unsupported Arrow array type %T", src)
	}
	return nil
}

// FromArrowArray converts an Arrow array back into a Content tree: the
// dual of ToArrowArray, dispatching on the concrete Arrow array type
// rather than the layout.Kind.
func FromArrowArray(a arrow.Array) (layout.Content, error) {
	switch v := a.(type) {
	case *array.Int64:
		return numpyFromInt64(v), nil
	case *array.Int32:
		return numpyFromInt32(v), nil
	case *array.Int8:
		return numpyFromInt8(v), nil
	case *array.Float64:
		return numpyFromFloat64(v), nil
	case *array.Float32:
		return numpyFromFloat32(v), nil
	case *array.List:
		return listFromArrow(v)
	case *array.Struct:
		return structFromArrow(v)
	default:
		return nil, errors.Newf("arrowio: unsupported Arrow array type %T", a)
	}
}

func numpyFromInt64(a *array.Int64) layout.Content {
	data := make([]int64, a.Len())
	copy(data, a.Int64Values())
	return wrapWithValidity(a, layout.NumpyFromInt64(data))
}

func numpyFromInt32(a *array.Int32) layout.Content {
	data := make([]int64, a.Len())
	for i, v := range a.Int32Values() {
		data[i] = int64(v)
	}
	return wrapWithValidity(a, layout.NumpyFromInt32AsInt64(data))
}

func numpyFromInt8(a *array.Int8) layout.Content {
	data := make([]int64, a.Len())
	for i, v := range a.Int8Values() {
		data[i] = int64(v)
	}
	return wrapWithValidity(a, layout.NumpyFromInt8AsInt64(data))
}

func numpyFromFloat64(a *array.Float64) layout.Content {
	data := make([]float64, a.Len())
	copy(data, a.Float64Values())
	return wrapWithValidity(a, layout.NumpyFromFloat64(data))
}

func numpyFromFloat32(a *array.Float32) layout.Content {
	data := make([]float64, a.Len())
	for i, v := range a.Float32Values() {
		data[i] = float64(v)
	}
	return wrapWithValidity(a, layout.NumpyFromFloat64AsFloat32(data))
}

func wrapWithValidity(a arrow.Array, content layout.Content) layout.Content {
	if a.NullN() == 0 {
		return content
	}
	isNone := make([]bool, a.Len())
	for i := 0; i < a.Len(); i++ {
		isNone[i] = a.IsNull(i)
	}
	return layout.NewIndexedOptionFromMask(isNone, content)
}

func listFromArrow(a *array.List) (layout.Content, error) {
	values := a.ListValues()
	inner, err := FromArrowArray(values)
	if err != nil {
		return nil, err
	}
	n := a.Len()
	offsets := make([]int64, n+1)
	for i := 0; i < n; i++ {
		start, _ := a.ValueOffsets(i)
		offsets[i] = start
	}
	lastEnd := int64(0)
	if n > 0 {
		_, lastEnd = a.ValueOffsets(n - 1)
	}
	offsets[n] = lastEnd
	listContent := layout.NewListOffsetContent(offsets, inner)
	return wrapWithValidity(a, listContent), nil
}

func structFromArrow(a *array.Struct) (layout.Content, error) {
	st := a.DataType().(*arrow.StructType)
	keys := make([]string, len(st.Fields()))
	contents := make([]layout.Content, len(st.Fields()))
	for i := 0; i < len(st.Fields()); i++ {
		keys[i] = st.Field(i).Name
		field, err := FromArrowArray(a.Field(i))
		if err != nil {
			return nil, errors.Wrapf(err, "arrowio: field %q", keys[i])
		}
		contents[i] = field
	}
	recordContent := layout.NewRecordContent(keys, contents, int64(a.Len()))
	return wrapWithValidity(a, recordContent), nil
}
