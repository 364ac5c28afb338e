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

import "sync/atomic"

// ElemType names the primitive numeric element type of an Index buffer.
type ElemType int

const (
	I8 ElemType = iota
	U8
	I32
	U32
	I64
	F32
	F64
)

// Buffer is a reference-counted contiguous region backing one or more
// Index views. Buffers never mutate in place once shared; slicing an Index
// only narrows offset/length, it never copies the backing storage.
//
// The core does not own an allocator (see the specification's non-goals):
// a Buffer is handed a slice that already exists, plus an optional release
// callback invoked once the last reference is dropped, so memory managed
// outside the Go heap (an mmap'd region, say) can be released
// deterministically without the core knowing anything about it.
type Buffer struct {
	i8  []int8
	u8  []uint8
	i32 []int32
	u32 []uint32
	i64 []int64
	f32 []float32
	f64 []float64

	refs    int32
	release func()
}

func newBuffer(release func()) *Buffer {
	return &Buffer{refs: 1, release: release}
}

// WrapI8 etc. construct a Buffer around an existing slice with a single
// reference. The release function, if non-nil, runs when the last
// reference is dropped via Release.
func WrapI8(data []int8, release func()) *Buffer  { b := newBuffer(release); b.i8 = data; return b }
func WrapU8(data []uint8, release func()) *Buffer { b := newBuffer(release); b.u8 = data; return b }
func WrapI32(data []int32, release func()) *Buffer {
	b := newBuffer(release)
	b.i32 = data
	return b
}
func WrapU32(data []uint32, release func()) *Buffer {
	b := newBuffer(release)
	b.u32 = data
	return b
}
func WrapI64(data []int64, release func()) *Buffer {
	b := newBuffer(release)
	b.i64 = data
	return b
}
func WrapF32(data []float32, release func()) *Buffer {
	b := newBuffer(release)
	b.f32 = data
	return b
}
func WrapF64(data []float64, release func()) *Buffer {
	b := newBuffer(release)
	b.f64 = data
	return b
}

// Retain increments the reference count. Every Index that stores a pointer
// to this Buffer must have retained it.
func (b *Buffer) Retain() *Buffer {
	atomic.AddInt32(&b.refs, 1)
	return b
}

// Release decrements the reference count, running the release callback
// (e.g. munmap) exactly once when it reaches zero.
func (b *Buffer) Release() {
	if atomic.AddInt32(&b.refs, -1) == 0 && b.release != nil {
		b.release()
	}
}

// Index is a typed, offsettable view over a shared Buffer: (buffer,
// element-type, element-offset, length). Slicing an Index shares the
// Buffer and only adjusts offset/length.
type Index struct {
	buf    *Buffer
	typ    ElemType
	offset int64
	length int64
}

// NewIndex constructs an Index over buf starting at offset for length
// elements, retaining a reference to buf.
func NewIndex(buf *Buffer, typ ElemType, offset, length int64) Index {
	buf.Retain()
	return Index{buf: buf, typ: typ, offset: offset, length: length}
}

// Length is the number of elements visible through this view.
func (ix Index) Length() int64 { return ix.length }

// Type is the element type of the underlying buffer.
func (ix Index) Type() ElemType { return ix.typ }

// Get returns the i'th element (0 <= i < Length()) widened to int64. It is
// defined for the integral element types, where widening is lossless; it
// panics on an F32/F64 view, which is read through Float64At instead.
func (ix Index) Get(i int64) int64 {
	p := ix.offset + i
	switch ix.typ {
	case I8:
		return int64(ix.buf.i8[p])
	case U8:
		return int64(ix.buf.u8[p])
	case I32:
		return int64(ix.buf.i32[p])
	case U32:
		return int64(ix.buf.u32[p])
	case I64:
		return ix.buf.i64[p]
	default:
		panic("layout: Get on non-integral Index")
	}
}

// Slice returns a new Index over [start, stop) of this view, sharing the
// buffer (retaining it once more).
func (ix Index) Slice(start, stop int64) Index {
	return NewIndex(ix.buf, ix.typ, ix.offset+start, stop-start)
}

// ToInt64Slice materializes the view as a fresh []int64, widening as
// necessary. Used where a kernel needs a uniform type to operate over.
func (ix Index) ToInt64Slice() []int64 {
	out := make([]int64, ix.length)
	for i := range out {
		out[i] = ix.Get(int64(i))
	}
	return out
}

// ToByteSlice materializes a U8 view as a fresh []byte, the packed-bit or
// validity-byte representation the mask kernels operate over.
func (ix Index) ToByteSlice() []byte {
	out := make([]byte, ix.length)
	for i := range out {
		out[i] = byte(ix.Get(int64(i)))
	}
	return out
}

// Release drops this view's reference to its underlying buffer.
func (ix Index) Release() { ix.buf.Release() }

// IndexFromInt64 builds a fresh, unshared I64 Index from plain data. This
// is the common path used throughout the algebra when an operation must
// synthesize a new index vector (e.g. simplify_optiontype's composed
// index) rather than reuse one from an input tree.
func IndexFromInt64(data []int64) Index {
	return NewIndex(WrapI64(data, nil), I64, 0, int64(len(data)))
}

// IndexFromInt8 builds a fresh, unshared I8 Index (used for Union tags).
func IndexFromInt8(data []int8) Index {
	return NewIndex(WrapI8(data, nil), I8, 0, int64(len(data)))
}

// Float64At returns the i'th element of a float buffer widened to
// float64, used by Numpy when its item type is F32 or F64.
func (ix Index) Float64At(i int64) float64 {
	p := ix.offset + i
	switch ix.typ {
	case F32:
		return float64(ix.buf.f32[p])
	case F64:
		return ix.buf.f64[p]
	default:
		panic("layout: Float64At on non-floating Index")
	}
}
