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
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gocolumnar/layout/layout"
)

// parseSliceExpr turns a small textual slice expression, comma-separated
// axis by axis (e.g. "0:3,field,::2"), into the []SliceItem GetItem
// expects. It covers the subset of the DSL a command-line caller needs:
// bare integers (SliceAt), Python-style a:b:c ranges (SliceRange), "..."
// (SliceEllipsis), "newaxis" (SliceNewAxis), and bare identifiers
// (SliceField).
func parseSliceExpr(expr string) ([]layout.SliceItem, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	parts := strings.Split(expr, ",")
	items := make([]layout.SliceItem, 0, len(parts))
	for _, raw := range parts {
		p := strings.TrimSpace(raw)
		switch {
		case p == "...":
			items = append(items, layout.SliceEllipsis{})
		case p == "newaxis":
			items = append(items, layout.SliceNewAxis{})
		case strings.Contains(p, ":"):
			r, err := parseSliceRange(p)
			if err != nil {
				return nil, err
			}
			items = append(items, r)
		default:
			if n, err := strconv.ParseInt(p, 10, 64); err == nil {
				items = append(items, layout.SliceAt{At: n})
			} else {
				items = append(items, layout.SliceField{Key: p})
			}
		}
	}
	return items, nil
}

func parseSliceRange(p string) (layout.SliceRange, error) {
	segs := strings.Split(p, ":")
	if len(segs) > 3 {
		return layout.SliceRange{}, errors.Newf("layoutctl slice: invalid range %q", p)
	}
	r := layout.SliceRange{Step: 1}
	if segs[0] != "" {
		v, err := strconv.ParseInt(segs[0], 10, 64)
		if err != nil {
			return layout.SliceRange{}, errors.Wrapf(err, "layoutctl slice: range start %q", p)
		}
		r.Start, r.HasStart = v, true
	}
	if len(segs) > 1 && segs[1] != "" {
		v, err := strconv.ParseInt(segs[1], 10, 64)
		if err != nil {
			return layout.SliceRange{}, errors.Wrapf(err, "layoutctl slice: range stop %q", p)
		}
		r.Stop, r.HasStop = v, true
	}
	if len(segs) == 3 && segs[2] != "" {
		v, err := strconv.ParseInt(segs[2], 10, 64)
		if err != nil {
			return layout.SliceRange{}, errors.Wrapf(err, "layoutctl slice: range step %q", p)
		}
		r.Step = v
	}
	return r, nil
}
