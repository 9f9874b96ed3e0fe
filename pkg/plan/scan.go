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
	"github.com/spc-engine/spc/pkg/chunk"
	"github.com/spc-engine/spc/pkg/common"
	"github.com/spc-engine/spc/pkg/page"
)

// executeScan copies a caller-supplied table's selected columns into
// intermediate columns, one tagged value per row. INT32 values are
// copied outright; VARCHAR values stay StringRefs pointing back at the
// table's own pages, so a string's bytes are never touched unless the
// root materializer ends up needing them.
func executeScan(p *Plan, n *Node) *Result {
	table := &p.Inputs[n.TableIndex]
	res := newResult(n.OutputAttrs)
	res.NumRows = int(table.NumRows)

	for outIdx, colIdx := range n.ScanColumns {
		col := &table.Columns[colIdx]
		dst := res.Columns[outIdx]
		switch col.Type {
		case common.DataTypeInt32:
			scanInt32Column(col, dst)
		case common.DataTypeVarchar:
			scanVarcharColumn(n.TableIndex, colIdx, col, dst)
		}
	}
	return res
}

func scanInt32Column(col *page.Column, dst *chunk.Column) {
	for _, p := range col.Pages {
		for _, row := range page.DecodeInt32Page(p) {
			if row.Present {
				dst.Append(chunk.Int32Value(row.Value))
			} else {
				dst.Append(chunk.NullInt32Value())
			}
		}
	}
}

func scanVarcharColumn(tableIdx, colIdx int, col *page.Column, dst *chunk.Column) {
	pages := col.Pages
	for pageIdx := 0; pageIdx < len(pages); pageIdx++ {
		decoded := page.DecodeVarcharPage(pages[pageIdx])
		switch decoded.Kind {
		case page.VarcharShort:
			for rowInPage, row := range decoded.Rows {
				if !row.Present {
					dst.Append(chunk.NullStringValue())
					continue
				}
				dst.Append(chunk.StringValue(chunk.StringRef{
					TableID:   uint8(tableIdx),
					ColumnID:  uint8(colIdx),
					PageID:    uint32(pageIdx),
					OffsetIdx: uint16(rowInPage),
				}))
			}
		case page.VarcharLongHead:
			dst.Append(chunk.StringValue(chunk.StringRef{
				TableID:   uint8(tableIdx),
				ColumnID:  uint8(colIdx),
				PageID:    uint32(pageIdx),
				OffsetIdx: 0,
			}))
			for pageIdx+1 < len(pages) {
				next := page.DecodeVarcharPage(pages[pageIdx+1])
				if next.Kind != page.VarcharLongCont {
					break
				}
				pageIdx++
			}
		case page.VarcharLongCont:
			// A chain's continuation pages are consumed by the head
			// case above; reaching one directly means the table's
			// pages weren't laid out as this scan expects.
		}
	}
}
