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
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
)

// JSONBuilder is the minimal streaming-event sink tojson_part writes
// through: beginList/endList/beginRecord/endRecord bracket a structural
// axis, field names a Record key about to be written, and null/value
// emit a scalar. No ecosystem JSON-event-builder library in the
// surrounding stack exposes this exact bracketed-event shape (they are
// either whole-document marshalers or SAX-style readers, not writers
// driven by a recursive tree walk), so this seam is hand-rolled —
// WriteJSONBuilder below is the only implementation, backed by
// strconv's quoting and number formatting.
type JSONBuilder interface {
	BeginList()
	EndList()
	BeginRecord()
	Field(key string)
	EndRecord()
	Null()
	Bool(v bool)
	Float64(v float64)
	Int64(v int64)
}

// WriteJSONBuilder is the JSONBuilder implementation this package
// provides: it writes directly to an io.Writer as compact JSON text.
type WriteJSONBuilder struct {
	w          io.Writer
	needsComma []bool
	err        error
}

// NewWriteJSONBuilder constructs a builder writing to w.
func NewWriteJSONBuilder(w io.Writer) *WriteJSONBuilder {
	return &WriteJSONBuilder{w: w}
}

func (b *WriteJSONBuilder) sep() {
	if len(b.needsComma) == 0 {
		return
	}
	top := len(b.needsComma) - 1
	if b.needsComma[top] {
		b.write(",")
	}
	b.needsComma[top] = true
}

func (b *WriteJSONBuilder) write(s string) {
	if b.err != nil {
		return
	}
	_, b.err = io.WriteString(b.w, s)
}

func (b *WriteJSONBuilder) BeginList() {
	b.sep()
	b.write("[")
	b.needsComma = append(b.needsComma, false)
}

func (b *WriteJSONBuilder) EndList() {
	b.needsComma = b.needsComma[:len(b.needsComma)-1]
	b.write("]")
}

func (b *WriteJSONBuilder) BeginRecord() {
	b.sep()
	b.write("{")
	b.needsComma = append(b.needsComma, false)
}

func (b *WriteJSONBuilder) EndRecord() {
	b.needsComma = b.needsComma[:len(b.needsComma)-1]
	b.write("}")
}

func (b *WriteJSONBuilder) Field(key string) {
	b.sep()
	b.needsComma[len(b.needsComma)-1] = false
	b.write(strconv.Quote(key))
	b.write(":")
}

func (b *WriteJSONBuilder) Null()           { b.sep(); b.write("null") }
func (b *WriteJSONBuilder) Bool(v bool)     { b.sep(); b.write(strconv.FormatBool(v)) }
func (b *WriteJSONBuilder) Float64(v float64) {
	b.sep()
	b.write(strconv.FormatFloat(v, 'g', -1, 64))
}
func (b *WriteJSONBuilder) Int64(v int64) { b.sep(); b.write(strconv.FormatInt(v, 10)) }

// ToJSONPart writes c's per-element JSON events into builder,
// include_beginendlist controlling whether the outer axis itself is
// wrapped in a `[...]` (callers writing one row at a time, e.g. inside a
// batch, pass false).
func ToJSONPart(c Content, builder JSONBuilder, includeBeginEndList bool) error {
	if includeBeginEndList {
		builder.BeginList()
	}
	n := c.Length()
	for i := int64(0); i < n; i++ {
		if err := jsonPartAt(c, i, builder); err != nil {
			return err
		}
	}
	if includeBeginEndList {
		builder.EndList()
	}
	return nil
}

func jsonPartAt(c Content, i int64, builder JSONBuilder) error {
	item, err := GetItemAtNowrap(c, i)
	if err != nil {
		return err
	}
	return jsonPartValue(item, builder)
}

func jsonPartValue(item interface{}, builder JSONBuilder) error {
	if item == nil {
		builder.Null()
		return nil
	}
	switch v := item.(type) {
	case float64:
		builder.Float64(v)
		return nil
	case Content:
		return jsonPartContent(v, builder)
	default:
		return errors.Newf("tojson_part: unrepresentable leaf value %T", item)
	}
}

func jsonPartContent(c Content, builder JSONBuilder) error {
	switch v := c.(type) {
	case *Record:
		builder.BeginRecord()
		for i, k := range v.keys {
			builder.Field(k)
			field := trimmed(v.contents[i], v.length)
			if err := ToJSONPart(field, builder, true); err != nil {
				return err
			}
		}
		builder.EndRecord()
		return nil
	default:
		return ToJSONPart(c, builder, true)
	}
}

// ToString is a convenience wrapper returning ToJSONPart's XML-like
// counterpart (tostring_part) as a plain string.
func ToString(c Content, indent, pre, post string) string {
	var buf []byte
	buf = appendStringPart(buf, c, indent, pre, post)
	return string(buf)
}

func appendStringPart(buf []byte, c Content, indent, pre, post string) []byte {
	buf = append(buf, pre...)
	buf = append(buf, fmt.Sprintf("<%s len=\"%d\">", c.Kind(), c.Length())...)
	switch v := c.(type) {
	case *Record:
		for i, k := range v.keys {
			buf = append(buf, fmt.Sprintf("%s<field key=%q>", indent, k)...)
			buf = appendStringPart(buf, trimmed(v.contents[i], v.length), indent+"  ", "", "")
			buf = append(buf, "</field>"...)
		}
	case *Union:
		for i, br := range v.contents {
			buf = append(buf, fmt.Sprintf("%s<branch tag=\"%d\">", indent, i)...)
			buf = appendStringPart(buf, br, indent+"  ", "", "")
			buf = append(buf, "</branch>"...)
		}
	}
	buf = append(buf, fmt.Sprintf("</%s>", c.Kind())...)
	buf = append(buf, post...)
	return buf
}
