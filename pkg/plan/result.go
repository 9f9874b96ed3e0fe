// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plan

import "github.com/spc-engine/spc/pkg/chunk"

// Result is what one node's operator hands its parent: one intermediate
// column per output attribute, all the same length.
type Result struct {
	Attrs   []Attr
	Columns []*chunk.Column
	NumRows int
}

func newResult(attrs []Attr) *Result {
	cols := make([]*chunk.Column, len(attrs))
	for i, a := range attrs {
		cols[i] = chunk.NewColumn(a.Type)
	}
	return &Result{Attrs: attrs, Columns: cols}
}

func (r *Result) appendRow(vals ...chunk.Value) {
	for i, v := range vals {
		r.Columns[i].Append(v)
	}
	r.NumRows++
}
