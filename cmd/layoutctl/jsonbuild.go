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

package main

import (
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/gocolumnar/layout/layout"
)

// buildFromJSON parses a small JSON literal — a top-level array of rows,
// each row a number, bool, null, nested array, or object of such — into a
// Content tree. Every row is built independently at length 1 and then
// folded together with Merge (falling back to MergeAsUnion for rows whose
// shapes disagree), exercising the same merge algebra a caller applying
// structural ops would.
func buildFromJSON(data []byte) (layout.Content, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "layoutctl build: parse JSON")
	}
	rows, ok := v.([]interface{})
	if !ok {
		return nil, errors.New("layoutctl build: top-level literal must be a JSON array of rows")
	}
	return buildArray(rows)
}

func buildArray(vals []interface{}) (layout.Content, error) {
	if len(vals) == 0 {
		return layout.NumpyFromFloat64(nil), nil
	}
	merged, err := buildRow(vals[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(vals); i++ {
		row, err := buildRow(vals[i])
		if err != nil {
			return nil, err
		}
		if next, mergeErr := layout.Merge(merged, row); mergeErr == nil {
			merged = next
			continue
		}
		next, unionErr := layout.MergeAsUnion(merged, row)
		if unionErr != nil {
			return nil, errors.Wrapf(unionErr, "layoutctl build: row %d does not merge with preceding rows", i)
		}
		merged = next
	}
	return merged, nil
}

func buildRow(v interface{}) (layout.Content, error) {
	switch val := v.(type) {
	case nil:
		return layout.NewIndexedOptionFromMask([]bool{true}, layout.NumpyFromFloat64([]float64{0})), nil
	case float64:
		return layout.NumpyFromFloat64([]float64{val}), nil
	case bool:
		i := int64(0)
		if val {
			i = 1
		}
		return layout.NumpyFromInt8AsInt64([]int64{i}), nil
	case []interface{}:
		inner, err := buildArray(val)
		if err != nil {
			return nil, err
		}
		return layout.NewListOffsetContent([]int64{0, int64(len(val))}, inner), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		contents := make([]layout.Content, len(keys))
		for i, k := range keys {
			field, err := buildRow(val[k])
			if err != nil {
				return nil, errors.Wrapf(err, "layoutctl build: field %q", k)
			}
			contents[i] = field
		}
		return layout.NewRecordContent(keys, contents, 1), nil
	default:
		return nil, errors.Newf("layoutctl build: unsupported JSON value %T", v)
	}
}
