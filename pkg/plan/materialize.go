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

import (
	"github.com/spc-engine/spc/pkg/common"
	"github.com/spc-engine/spc/pkg/page"
)

// materializeRoot writes the root node's intermediate result back into
// the caller's paged format, resolving every VARCHAR StringRef to actual
// bytes only now, at the very last moment they're needed.
func materializeRoot(inputs []page.ColumnarTable, res *Result) page.ColumnarTable {
	out := page.ColumnarTable{NumRows: uint64(res.NumRows)}
	out.Columns = make([]page.Column, len(res.Attrs))

	for i, attr := range res.Attrs {
		out.Columns[i].Type = attr.Type
		col := res.Columns[i]
		switch attr.Type {
		case common.DataTypeInt32:
			w := page.NewInt32Writer(&out.Columns[i])
			for r := 0; r < res.NumRows; r++ {
				v := col.At(r)
				w.Append(!v.IsNullInt32(), v.Int32)
			}
			w.Finish()
		case common.DataTypeVarchar:
			w := page.NewVarcharWriter(&out.Columns[i])
			for r := 0; r < res.NumRows; r++ {
				v := col.At(r)
				if v.Str.IsNull() {
					w.AppendNull()
					continue
				}
				w.AppendString(page.MaterializeString(inputs, v.Str.TableID, v.Str.ColumnID, v.Str.PageID, v.Str.OffsetIdx))
			}
			w.Finish()
		}
	}
	return out
}
