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

import "encoding/binary"

// Int32Row is one decoded slot of an INT32 page: either a value or a null.
type Int32Row struct {
	Present bool
	Value   int32
}

// DecodeInt32Page reads an INT32 page's [num_rows][num_values] header, its
// packed int32 values and its tail presence bitmap, and yields exactly
// num_rows rows in order.
func DecodeInt32Page(p *Page) []Int32Row {
	numRows := int(binary.LittleEndian.Uint16(p[0:2]))
	numValues := int(binary.LittleEndian.Uint16(p[2:4]))
	data := p[4 : 4+4*numValues]
	bitmap := p[Size-BitmapBytes(numRows):]

	rows := make([]Int32Row, numRows)
	dataIdx := 0
	for i := 0; i < numRows; i++ {
		if GetBit(bitmap, i) {
			rows[i].Present = true
			rows[i].Value = int32(binary.LittleEndian.Uint32(data[4*dataIdx : 4*dataIdx+4]))
			dataIdx++
		}
	}
	return rows
}

// EncodeInt32Page lays out a new INT32 page from already-materialized
// values and presence bitmap. values must hold exactly one entry per
// present row, in row order; bitmap must already carry numRows bits.
func EncodeInt32Page(numRows int, values []int32, bitmap []byte) *Page {
	p := &Page{}
	binary.LittleEndian.PutUint16(p[0:2], uint16(numRows))
	binary.LittleEndian.PutUint16(p[2:4], uint16(len(values)))
	off := 4
	for _, v := range values {
		binary.LittleEndian.PutUint32(p[off:off+4], uint32(v))
		off += 4
	}
	copy(p[Size-BitmapBytes(numRows):], bitmap)
	return p
}
