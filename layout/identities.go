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
	"github.com/cockroachdb/errors"

	"github.com/gocolumnar/layout/kernel"
)

// FieldLoc records one step of field-valued descent captured in an
// Identities table: Axis is the identities width (the number of index
// columns, 1 at the root) where the tree branched through the Record field
// named Label rather than through an index. Field steps contribute metadata only; they never add a column to
// Identities.Data, since every element sharing a Record ancestor shares
// the same field name at that depth.
type FieldLoc struct {
	Axis  int
	Label string
}

// Identities is the optional per-element provenance table: for each of a
// node's Length() elements, the sequence of index-valued descent steps
// that produced it, plus the interleaved FieldLoc sequence recording where
// field-valued descent steps occurred. Width is len(Data[i]) for every i.
type Identities struct {
	Width    int
	FieldLoc []FieldLoc
	Data     [][]int64
}

// NewIdentities builds the identity table for a freshly created root node:
// one row per element, the row itself being that element's own position.
func NewIdentities(length int64) *Identities {
	data := make([][]int64, length)
	for i := range data {
		data[i] = []int64{int64(i)}
	}
	return &Identities{Width: 1, Data: data}
}

// WithIndex extends every row of ids by one column taken from newcol,
// returning a table one column wider that keeps ids' FieldLoc.
func (ids *Identities) WithIndex(newcol []int64) *Identities {
	if ids == nil {
		return nil
	}
	out := make([][]int64, len(ids.Data))
	status := kernel.ExtendRows(out, ids.Data, newcol)
	if !status.OK() {
		panic("layout: Identities.WithIndex: " + status.String())
	}
	return &Identities{Width: ids.Width + 1, FieldLoc: ids.FieldLoc, Data: out}
}

// WithField returns a copy of ids recording a field-valued descent step at
// the given axis with the given label, without adding a Data column.
func (ids *Identities) WithField(axis int, label string) *Identities {
	if ids == nil {
		return nil
	}
	fl := make([]FieldLoc, len(ids.FieldLoc), len(ids.FieldLoc)+1)
	copy(fl, ids.FieldLoc)
	fl = append(fl, FieldLoc{Axis: axis, Label: label})
	return &Identities{Width: ids.Width, FieldLoc: fl, Data: ids.Data}
}

// Slice returns the identities for the half-open element range [start,
// stop) in a fresh outer slice; the rows themselves are shared with ids.
func (ids *Identities) Slice(start, stop int64) *Identities {
	if ids == nil {
		return nil
	}
	data := make([][]int64, stop-start)
	copy(data, ids.Data[start:stop])
	return &Identities{Width: ids.Width, FieldLoc: ids.FieldLoc, Data: data}
}

// Carry gathers rows of ids by index, the identities-side counterpart to
// every variant's Carry, propagated alongside the payload whenever
// identities are attached to the node being carried.
func (ids *Identities) Carry(index []int64) (*Identities, error) {
	if ids == nil {
		return nil, nil
	}
	data := make([][]int64, len(index))
	for i, idx := range index {
		if idx < 0 || idx >= int64(len(ids.Data)) {
			return nil, errors.Wrapf(ErrOutOfRange, "Identities.Carry: element %d carries out-of-range index %d", i, idx)
		}
		data[i] = ids.Data[idx]
	}
	return &Identities{Width: ids.Width, FieldLoc: ids.FieldLoc, Data: data}, nil
}
