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

// Unmasked is an option-type wrapper with no missing elements at all: it
// exists so that a subtree can carry an option type (for schema
// uniformity with a sibling branch, or because the type system upstream
// demands one) while skipping the cost of an actual mask or index buffer.
type Unmasked struct {
	b       base
	content Content
}

// NewUnmasked constructs an UnmaskedArray.
func NewUnmasked(content Content) *Unmasked {
	return &Unmasked{content: content}
}

func (u *Unmasked) Kind() Kind    { return KindUnmasked }
func (u *Unmasked) Length() int64 { return u.content.Length() }
func (u *Unmasked) base() *base   { return &u.b }

// Content is the always-present underlying child array.
func (u *Unmasked) Content() Content { return u.content }
