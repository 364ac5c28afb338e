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

// Empty is the length-zero, type-unknown leaf: the unit of the algebra's
// merge operation and the natural result of slicing any node down to
// nothing.
type Empty struct {
	b base
}

// NewEmpty constructs an Empty node.
func NewEmpty() *Empty { return &Empty{} }

func (e *Empty) Kind() Kind    { return KindEmpty }
func (e *Empty) Length() int64 { return 0 }
func (e *Empty) base() *base   { return &e.b }

// toNumpyLike reinterprets Empty as a zero-length NumpyArray of float64,
// the standard "materialize a concrete type" fallback used wherever an
// operation needs an Empty's elements typed (e.g. as a merge operand).
func (e *Empty) toNumpyLike() *Numpy {
	return &Numpy{b: e.b, data: IndexFromInt64(nil), shape: []int64{0}, itemsize: 8, format: "d"}
}
