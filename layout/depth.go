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

// PurelistDepth reports the list-nesting depth of c when every branch has
// the same depth (a "pure" list tree); for a branching node (Record,
// Union with disagreeing branches) it returns the minimum depth over the
// branches (the lower bound MinMaxDepth reports); callers needing the
// branching distinction should use MinMaxDepth or BranchDepth instead.
func PurelistDepth(c Content) int64 {
	lo, _ := MinMaxDepth(c)
	return lo
}

// MinMaxDepth reports the minimum and maximum purelist depth reachable
// from c, branching at Record (over fields) and Union (over branches).
// Empty and a one-dimensional Numpy have depth 1; an N-dimensional Numpy
// has depth N.
func MinMaxDepth(c Content) (int64, int64) {
	switch v := c.(type) {
	case *Empty:
		return 1, 1
	case *Numpy:
		return int64(len(v.shape)), int64(len(v.shape))
	case *Record:
		if len(v.contents) == 0 {
			return 1, 1
		}
		lo, hi := MinMaxDepth(v.contents[0])
		for _, f := range v.contents[1:] {
			flo, fhi := MinMaxDepth(f)
			if flo < lo {
				lo = flo
			}
			if fhi > hi {
				hi = fhi
			}
		}
		return lo, hi
	case *Union:
		if len(v.contents) == 0 {
			return 1, 1
		}
		lo, hi := MinMaxDepth(v.contents[0])
		for _, br := range v.contents[1:] {
			blo, bhi := MinMaxDepth(br)
			if blo < lo {
				lo = blo
			}
			if bhi > hi {
				hi = bhi
			}
		}
		return lo, hi
	default:
		inner := listInnerOrOption(v)
		lo, hi := MinMaxDepth(inner)
		if isListKind(c.Kind()) {
			return lo + 1, hi + 1
		}
		return lo, hi
	}
}

func listInnerOrOption(c Content) Content {
	switch v := c.(type) {
	case *ListOffset:
		return v.content
	case *List:
		return v.content
	case *Regular:
		return v.content
	case *Indexed:
		return v.content
	case *IndexedOption:
		return v.content
	case *ByteMasked:
		return v.content
	case *BitMasked:
		return v.content
	case *Unmasked:
		return v.content
	default:
		return c
	}
}

// BranchDepth reports whether c's depth varies across its own branches
// (a Record field set or Union branch set with differing purelist
// depths), and the common depth when it does not.
func BranchDepth(c Content) (depth int64, branches bool) {
	lo, hi := MinMaxDepth(c)
	return lo, lo != hi
}
