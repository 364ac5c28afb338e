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

// Numpy is the primitive leaf: a flat, contiguous buffer of one fixed-width
// element type, optionally reshaped into a multidimensional regular array
// (shape[0] is the outer, Length()-reporting axis; inner axes are
// synthesized on demand as RegularArray wrappers by toRegularLike).
type Numpy struct {
	b        base
	data     Index
	shape    []int64
	itemsize int64
	format   string // "d" float64, "f" float32, "l" int64, "i" int32, "b" int8/bool
}

// NewNumpy constructs a one-dimensional Numpy node over data.
func NewNumpy(data Index, format string) *Numpy {
	return &Numpy{data: data, shape: []int64{data.Length()}, itemsize: elemSize(format), format: format}
}

func elemSize(format string) int64 {
	switch format {
	case "d", "l":
		return 8
	case "f", "i":
		return 4
	case "b":
		return 1
	default:
		return 8
	}
}

func (n *Numpy) Kind() Kind    { return KindNumpy }
func (n *Numpy) Length() int64 { return n.shape[0] }
func (n *Numpy) base() *base   { return &n.b }

// InnerShape reports the axes beyond the outer one, possibly empty for a
// plain one-dimensional buffer.
func (n *Numpy) InnerShape() []int64 {
	if len(n.shape) <= 1 {
		return nil
	}
	return n.shape[1:]
}

// Format is the struct-style element type code.
func (n *Numpy) Format() string { return n.format }

// toRegularLike reinterprets a multidimensional Numpy as nested
// RegularArrays of a one-dimensional Numpy, the standard conversion
// applied before any operation that only knows how to recurse one level
// (getitem_next, broadcast_tooffsets, etc.) touches a multidimensional
// buffer.
func (n *Numpy) toRegularLike() Content {
	if len(n.shape) <= 1 {
		return n
	}
	flat := &Numpy{b: n.b, data: n.data, shape: []int64{productOf(n.shape)}, itemsize: n.itemsize, format: n.format}
	var wrap func(depth int) Content
	wrap = func(depth int) Content {
		if depth == len(n.shape)-1 {
			return flat
		}
		inner := wrap(depth + 1)
		size := n.shape[depth+1]
		return &Regular{content: inner, size: size, length: n.shape[depth]}
	}
	return wrap(0)
}

func productOf(shape []int64) int64 {
	p := int64(1)
	for _, s := range shape {
		p *= s
	}
	return p
}

func numpyGetItemAt(n *Numpy, at int64) (float64, error) {
	if at < 0 || at >= n.Length() {
		return 0, errors.Wrapf(ErrOutOfRange, "NumpyArray.getitem_at: %d", at)
	}
	if len(n.shape) > 1 {
		return 0, undefinedOp("getitem_at (multidimensional scalar)", n)
	}
	switch n.format {
	case "d", "f":
		return n.data.Float64At(at), nil
	default:
		return float64(n.data.Get(at)), nil
	}
}

func numpyGetItemRangeNowrap(n *Numpy, start, stop int64) *Numpy {
	if len(n.shape) <= 1 {
		return &Numpy{b: n.b, data: n.data.Slice(start, stop), shape: []int64{stop - start}, itemsize: n.itemsize, format: n.format}
	}
	innerSize := productOf(n.shape[1:])
	return &Numpy{
		b:        n.b,
		data:     n.data.Slice(start*innerSize, stop*innerSize),
		shape:    append([]int64{stop - start}, n.shape[1:]...),
		itemsize: n.itemsize,
		format:   n.format,
	}
}

func numpyCarry(n *Numpy, index []int64) (*Numpy, error) {
	if len(n.shape) > 1 {
		reg := n.toRegularLike()
		carried, err := Carry(reg, index)
		if err != nil {
			return nil, err
		}
		return carried.(*Regular).flattenToNumpy(), nil
	}
	if n.format == "d" || n.format == "f" {
		vals := make([]float64, len(index))
		for i, idx := range index {
			if idx < 0 || idx >= n.Length() {
				return nil, errors.Wrapf(ErrOutOfRange, "NumpyArray.carry: element %d carries out-of-range index %d", i, idx)
			}
			vals[i] = n.data.Float64At(idx)
		}
		out := buildNumpyFromFloat64(vals, n.format)
		out.b = n.b
		return out, nil
	}
	dst := make([]int64, len(index))
	status := carryIndex(n.data, dst, index)
	if !status.OK() {
		return nil, errors.Wrapf(ErrOutOfRange, "NumpyArray.carry: %s", status.String())
	}
	return &Numpy{b: n.b, data: IndexFromInt64(dst), shape: []int64{int64(len(index))}, itemsize: n.itemsize, format: n.format}, nil
}
