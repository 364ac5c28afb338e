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

// Package layout implements the layout algebra: a closed recursive sum
// type over nested, variable-shape, heterogeneous columnar arrays, and the
// operations (indexing, slicing, merging, flattening, padding, reduction)
// that transform one tree of layout nodes into another while sharing the
// original buffers wherever no recomputation is required.
package layout

import "github.com/cockroachdb/errors"

// Kind discriminates the closed set of Content variants. Every recursive
// operation in this package is, in the end, an exhaustive switch on Kind
// (or equivalently a Go type switch on the concrete Content implementation)
// standing in for what would be virtual dispatch in a class hierarchy.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumpy
	KindRegular
	KindListOffset
	KindList
	KindIndexed
	KindIndexedOption
	KindByteMasked
	KindBitMasked
	KindUnmasked
	KindRecord
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "EmptyArray"
	case KindNumpy:
		return "NumpyArray"
	case KindRegular:
		return "RegularArray"
	case KindListOffset:
		return "ListOffsetArray"
	case KindList:
		return "ListArray"
	case KindIndexed:
		return "IndexedArray"
	case KindIndexedOption:
		return "IndexedOptionArray"
	case KindByteMasked:
		return "ByteMaskedArray"
	case KindBitMasked:
		return "BitMaskedArray"
	case KindUnmasked:
		return "UnmaskedArray"
	case KindRecord:
		return "RecordArray"
	case KindUnion:
		return "UnionArray"
	default:
		return "UnknownArray"
	}
}

// Content is the common interface implemented by every layout node. The
// bulk of the algebra lives in free functions (GetItemAt, Carry, Merge,
// Simplify...) that type-switch on the concrete implementation; Content
// itself stays small so that adding an operation never requires touching
// every variant's method set.
type Content interface {
	// Kind reports which of the twelve closed variants this node is.
	Kind() Kind
	// Length is the node's outer-axis length.
	Length() int64
	// base returns the embedded identities/parameters shared by every
	// variant; unexported so only this package can implement Content.
	base() *base
}

// base is embedded in every concrete Content implementation. It carries
// the two properties every variant has regardless of payload shape.
type base struct {
	identities *Identities
	parameters map[string]string
}

// Parameters returns c's parameter map (string metadata, including the
// optional element type-string), or nil if none were set.
func Parameters(c Content) map[string]string {
	return c.base().parameters
}

// NodeIdentities returns c's attached identity table, or nil.
func NodeIdentities(c Content) *Identities {
	return c.base().identities
}

func parametersEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// axisWrapIfNegative normalizes a negative axis against the tree's depth
// at the current recursion step. This contract is referenced throughout
// the specification but left undefined in the distilled excerpt; per the
// implementer's note in the design section, a negative axis counts
// backwards from the deepest level reachable from here (branchDepth), and
// an axis that is still out of range after normalization is an error.
func axisWrapIfNegative(axis, depth, branchDepth int) (int, error) {
	if axis >= 0 {
		return axis, nil
	}
	wrapped := branchDepth + axis
	if wrapped < depth {
		return 0, errors.Newf("axis %d is too negative for depth %d", axis, branchDepth)
	}
	return wrapped, nil
}

// trimmed returns content sliced to [0, length), the recurring helper the
// design notes call out for consuming a Record: every operation that reads
// a Record's children must first trim them to the Record's explicit
// length, since a child may legitimately be longer.
func trimmed(c Content, length int64) Content {
	if c.Length() == length {
		return c
	}
	return GetItemRangeNowrap(c, 0, length)
}

// ErrUndefinedOperation is returned by (variant, slice-item) or (variant,
// operation) pairs that the specification declares undefined, e.g.
// SliceAt against a bare Record, or fieldindex/key against a Union.
var ErrUndefinedOperation = errors.New("undefined operation")

// ErrTooManyBranches is returned by simplify_uniontype when folding would
// leave (or the input already has) more than 127 branches. The source
// marks this FIXME; the specification requires an explicit error instead.
var ErrTooManyBranches = errors.New("union array has more than 127 branches")

// ErrOutOfRange is returned by element/slice/field accesses outside the
// node's valid domain.
var ErrOutOfRange = errors.New("index out of range")

// ErrInvariantViolation is returned when validityerror-checkable structural
// invariants are violated (non-monotone offsets, tag/index out of bounds,
// identities length mismatch, and so on).
var ErrInvariantViolation = errors.New("invariant violation")

func opError(op string, c Content, format string, args ...interface{}) error {
	return errors.Wrapf(errors.Newf(format, args...), "%s: %s", c.Kind(), op)
}

func undefinedOp(op string, c Content) error {
	return errors.Wrapf(ErrUndefinedOperation, "%s: %s", c.Kind(), op)
}
