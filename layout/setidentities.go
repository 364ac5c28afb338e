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

// SetIdentities is the one mutating operation in the package: it assigns
// a fresh root Identities table to c (one row per element, holding that
// element's own position) and recurses into children, building each
// child's identities by extending the parent's rows with the index- or
// field-valued descent step that reaches it. It must be called at most
// once per tree, before the tree is shared with any other reader — per
// the specification's single-writer convention, nothing may observe c
// concurrently while this runs.
//
// A child whose length cannot be made to agree unambiguously with its
// identities (an Indexed/IndexedOption/masked gather, or a Union branch,
// both of which are not bijective onto their content) has its identities
// left nil rather than guessed at, matching the specification's rule that
// identities are dropped whenever they cannot be derived consistently.
func SetIdentities(c Content) {
	setIdentitiesWith(c, NewIdentities(c.Length()))
}

// WithIdentities is SetIdentities without mutation: it returns a new tree
// with the same structure and shared buffers but fresh identities,
// leaving c untouched. Prefer this over SetIdentities whenever more than
// one reader might already hold a reference to c.
func WithIdentities(c Content) Content {
	clone := CloneTree(c)
	SetIdentities(clone)
	return clone
}

// CloneTree returns a structurally identical copy of c: every node is a
// fresh struct (so SetIdentities can mutate it safely), but every leaf
// buffer is shared, not copied.
func CloneTree(c Content) Content {
	switch v := c.(type) {
	case *Empty:
		cp := *v
		return &cp
	case *Numpy:
		cp := *v
		return &cp
	case *Regular:
		cp := *v
		cp.content = CloneTree(v.content)
		return &cp
	case *ListOffset:
		cp := *v
		cp.content = CloneTree(v.content)
		return &cp
	case *List:
		cp := *v
		cp.content = CloneTree(v.content)
		return &cp
	case *Indexed:
		cp := *v
		cp.content = CloneTree(v.content)
		return &cp
	case *IndexedOption:
		cp := *v
		cp.content = CloneTree(v.content)
		return &cp
	case *ByteMasked:
		cp := *v
		cp.content = CloneTree(v.content)
		return &cp
	case *BitMasked:
		cp := *v
		cp.content = CloneTree(v.content)
		return &cp
	case *Unmasked:
		cp := *v
		cp.content = CloneTree(v.content)
		return &cp
	case *Record:
		cp := *v
		cp.contents = make([]Content, len(v.contents))
		for i, f := range v.contents {
			cp.contents[i] = CloneTree(f)
		}
		return &cp
	case *Union:
		cp := *v
		cp.contents = make([]Content, len(v.contents))
		for i, br := range v.contents {
			cp.contents[i] = CloneTree(br)
		}
		return &cp
	default:
		return c
	}
}

func setIdentitiesWith(c Content, ids *Identities) {
	c.base().identities = ids
	switch v := c.(type) {
	case *Regular:
		child := expandRegularIdentities(ids, v.size)
		propagateIfLenMatches(v.content, child)
	case *ListOffset:
		child := expandOffsetIdentities(ids, v.offsets)
		propagateIfLenMatches(v.content, child)
	case *List:
		child := expandStartsStopsIdentities(ids, v.starts, v.stops)
		propagateIfLenMatches(v.content, child)
	case *Unmasked:
		propagateIfLenMatches(v.content, ids)
	case *Record:
		for i, f := range v.contents {
			if f.Length() != v.length {
				continue
			}
			setIdentitiesWith(f, ids.WithField(ids.Width, recordFieldLabel(v, i)))
		}
	// Indexed/IndexedOption/ByteMasked/BitMasked/Union: the descent step
	// is a gather or tag dispatch, not a structural one-to-one mapping
	// onto the child's own length, so identities are intentionally left
	// nil on the child per the specification's drop rule.
	default:
	}
}

func propagateIfLenMatches(child Content, ids *Identities) {
	if int64(len(ids.Data)) != child.Length() {
		return
	}
	setIdentitiesWith(child, ids)
}

func recordFieldLabel(r *Record, i int) string {
	if r.isTuple || i >= len(r.keys) {
		return itoa(i)
	}
	return r.keys[i]
}

func expandRegularIdentities(ids *Identities, size int64) *Identities {
	n := int64(len(ids.Data))
	data := make([][]int64, n*size)
	for i := int64(0); i < n; i++ {
		row := ids.Data[i]
		for k := int64(0); k < size; k++ {
			data[i*size+k] = appendLocal(row, k)
		}
	}
	return &Identities{Width: ids.Width + 1, FieldLoc: ids.FieldLoc, Data: data}
}

func expandOffsetIdentities(ids *Identities, offsets Index) *Identities {
	n := int64(len(ids.Data))
	if offsets.Length()-1 != n {
		return &Identities{Width: ids.Width + 1, FieldLoc: ids.FieldLoc, Data: nil}
	}
	total := offsets.Get(n)
	data := make([][]int64, total)
	for i := int64(0); i < n; i++ {
		row := ids.Data[i]
		start, stop := offsets.Get(i), offsets.Get(i+1)
		for p := start; p < stop; p++ {
			data[p] = appendLocal(row, p-start)
		}
	}
	return &Identities{Width: ids.Width + 1, FieldLoc: ids.FieldLoc, Data: data}
}

func expandStartsStopsIdentities(ids *Identities, starts, stops Index) *Identities {
	n := int64(len(ids.Data))
	total := int64(0)
	for i := int64(0); i < n; i++ {
		if w := stops.Get(i); w > total {
			total = w
		}
	}
	data := make([][]int64, total)
	for i := int64(0); i < n; i++ {
		row := ids.Data[i]
		start, stop := starts.Get(i), stops.Get(i)
		for p := start; p < stop; p++ {
			data[p] = appendLocal(row, p-start)
		}
	}
	return &Identities{Width: ids.Width + 1, FieldLoc: ids.FieldLoc, Data: data}
}

func appendLocal(row []int64, local int64) []int64 {
	out := make([]int64, len(row)+1)
	copy(out, row)
	out[len(row)] = local
	return out
}
