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

// Keys returns c's field names in declaration order. Option and indexed
// wrappers forward to their content. A Union's Keys is the set
// intersection of its branches' keys, in the order they first appear in
// branch 0 — callers must treat Union fields as set-valued, never
// positional, since the branch-to-branch field mapping is not bijective.
func Keys(c Content) ([]string, error) {
	switch v := c.(type) {
	case *Record:
		return append([]string{}, v.keys...), nil
	case *Union:
		return unionKeys(v)
	case *IndexedOption:
		return Keys(v.content)
	case *ByteMasked:
		return Keys(v.content)
	case *BitMasked:
		return Keys(v.content)
	case *Unmasked:
		return Keys(v.content)
	case *Indexed:
		return Keys(v.content)
	default:
		return nil, nil
	}
}

func unionKeys(u *Union) ([]string, error) {
	if len(u.contents) == 0 {
		return nil, nil
	}
	first, err := Keys(u.contents[0])
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(first))
	for _, k := range first {
		present[k] = true
	}
	for _, br := range u.contents[1:] {
		ks, err := Keys(br)
		if err != nil {
			return nil, err
		}
		inBranch := make(map[string]bool, len(ks))
		for _, k := range ks {
			inBranch[k] = true
		}
		for k := range present {
			if !inBranch[k] {
				delete(present, k)
			}
		}
	}
	out := make([]string, 0, len(present))
	for _, k := range first {
		if present[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

// HasKey reports whether key names a field reachable from c.
func HasKey(c Content, key string) bool {
	keys, err := Keys(c)
	if err != nil {
		return false
	}
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// NumFields reports the number of fields reachable from c: a Record's
// exact field count (tuple or named), or the size of a Union's key
// intersection. Every other variant forwards to its content, and a leaf
// with no fields reports 0.
func NumFields(c Content) (int, error) {
	switch v := c.(type) {
	case *Record:
		return len(v.contents), nil
	case *Union:
		keys, err := unionKeys(v)
		if err != nil {
			return 0, err
		}
		return len(keys), nil
	case *IndexedOption:
		return NumFields(v.content)
	case *ByteMasked:
		return NumFields(v.content)
	case *BitMasked:
		return NumFields(v.content)
	case *Unmasked:
		return NumFields(v.content)
	case *Indexed:
		return NumFields(v.content)
	default:
		return 0, nil
	}
}

// FieldIndex returns the ordinal of key within a Record's field list.
// Forbidden on Union, per the specification's note that the branch-to-
// branch field mapping is not bijective.
func FieldIndex(c Content, key string) (int, error) {
	switch v := c.(type) {
	case *Record:
		for i, k := range v.keys {
			if k == key {
				return i, nil
			}
		}
		return 0, undefinedOp("fieldindex", c)
	case *Union:
		return 0, undefinedOp("fieldindex", c)
	case *IndexedOption:
		return FieldIndex(v.content, key)
	case *ByteMasked:
		return FieldIndex(v.content, key)
	case *BitMasked:
		return FieldIndex(v.content, key)
	case *Unmasked:
		return FieldIndex(v.content, key)
	case *Indexed:
		return FieldIndex(v.content, key)
	default:
		return 0, undefinedOp("fieldindex", c)
	}
}

// FieldKey returns the field name at the given ordinal within a Record.
// Forbidden on Union for the same reason as FieldIndex.
func FieldKey(c Content, index int) (string, error) {
	switch v := c.(type) {
	case *Record:
		if index < 0 || index >= len(v.keys) {
			return "", undefinedOp("key", c)
		}
		return v.keys[index], nil
	case *Union:
		return "", undefinedOp("key", c)
	case *IndexedOption:
		return FieldKey(v.content, index)
	case *ByteMasked:
		return FieldKey(v.content, index)
	case *BitMasked:
		return FieldKey(v.content, index)
	case *Unmasked:
		return FieldKey(v.content, index)
	case *Indexed:
		return FieldKey(v.content, index)
	default:
		return "", undefinedOp("key", c)
	}
}
