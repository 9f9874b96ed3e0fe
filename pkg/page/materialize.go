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

package page

// MaterializeString resolves a (tableID, columnID, pageID, offsetIdx)
// coordinate against a set of scanned-in tables into the actual string
// bytes, following a long-string chain across pages when the referenced
// page opens one. Strings are never copied out until a caller actually
// asks for one of them.
func MaterializeString(inputs []ColumnarTable, tableID, columnID uint8, pageID uint32, offsetIdx uint16) []byte {
	col := &inputs[tableID].Columns[columnID]
	p := col.Pages[pageID]
	decoded := DecodeVarcharPage(p)

	switch decoded.Kind {
	case VarcharShort:
		return decoded.Rows[offsetIdx].Bytes
	case VarcharLongHead:
		out := append([]byte(nil), decoded.Payload...)
		for next := int(pageID) + 1; next < len(col.Pages); next++ {
			cont := DecodeVarcharPage(col.Pages[next])
			if cont.Kind != VarcharLongCont {
				break
			}
			out = append(out, cont.Payload...)
		}
		return out
	default:
		// A continuation page was addressed directly; malformed input,
		// nothing sane to return.
		return nil
	}
}
