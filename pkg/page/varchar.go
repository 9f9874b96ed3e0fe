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

type VarcharKind int

const (
	// VarcharShort pages hold a self-contained run of short rows: a
	// presence bitmap, per-row end offsets and the packed bytes they
	// slice.
	VarcharShort VarcharKind = iota
	// VarcharLongHead opens a chain of pages holding a single string
	// that didn't fit in one short page.
	VarcharLongHead
	// VarcharLongCont continues a chain opened by a VarcharLongHead
	// page. A chain ends at the first page that isn't VarcharLongCont.
	VarcharLongCont
)

// VarcharShortRow is one decoded slot of a short VARCHAR page.
type VarcharShortRow struct {
	Present bool
	Bytes   []byte
}

// DecodedVarcharPage is the sum type DecodeVarcharPage returns: exactly
// one of Rows (Kind == VarcharShort) or Payload (otherwise) is populated.
type DecodedVarcharPage struct {
	Kind    VarcharKind
	Rows    []VarcharShortRow
	Payload []byte
}

// DecodeVarcharPage classifies a VARCHAR page by its num_rows sentinel and
// decodes it accordingly.
func DecodeVarcharPage(p *Page) DecodedVarcharPage {
	numRows := binary.LittleEndian.Uint16(p[0:2])
	switch numRows {
	case LongHeadMarker:
		return DecodedVarcharPage{Kind: VarcharLongHead, Payload: decodeLongPayload(p)}
	case LongContMarker:
		return DecodedVarcharPage{Kind: VarcharLongCont, Payload: decodeLongPayload(p)}
	default:
		return DecodedVarcharPage{Kind: VarcharShort, Rows: decodeShortRows(p, int(numRows))}
	}
}

func decodeLongPayload(p *Page) []byte {
	n := int(binary.LittleEndian.Uint16(p[2:4]))
	payload := make([]byte, n)
	copy(payload, p[4:4+n])
	return payload
}

func decodeShortRows(p *Page, numRows int) []VarcharShortRow {
	numValues := int(binary.LittleEndian.Uint16(p[2:4]))
	offsetsStart := 4
	offsetsEnd := offsetsStart + 2*numValues
	dataStart := offsetsEnd
	bitmap := p[Size-BitmapBytes(numRows):]

	rows := make([]VarcharShortRow, numRows)
	prevEnd := 0
	valueIdx := 0
	for i := 0; i < numRows; i++ {
		if !GetBit(bitmap, i) {
			continue
		}
		end := int(binary.LittleEndian.Uint16(p[offsetsStart+2*valueIdx : offsetsStart+2*valueIdx+2]))
		rows[i].Present = true
		rows[i].Bytes = p[dataStart+prevEnd : dataStart+end]
		prevEnd = end
		valueIdx++
	}
	return rows
}

// EncodeVarcharShortPage lays out a short VARCHAR page from already
// concatenated string bytes, their cumulative end offsets and a presence
// bitmap carrying numRows bits.
func EncodeVarcharShortPage(numRows int, endOffsets []uint16, data []byte, bitmap []byte) *Page {
	p := &Page{}
	binary.LittleEndian.PutUint16(p[0:2], uint16(numRows))
	binary.LittleEndian.PutUint16(p[2:4], uint16(len(endOffsets)))
	off := 4
	for _, o := range endOffsets {
		binary.LittleEndian.PutUint16(p[off:off+2], o)
		off += 2
	}
	copy(p[off:], data)
	copy(p[Size-BitmapBytes(numRows):], bitmap)
	return p
}

// EncodeVarcharLongPage lays out one link of a long-string chain.
func EncodeVarcharLongPage(isHead bool, payload []byte) *Page {
	p := &Page{}
	marker := LongContMarker
	if isHead {
		marker = LongHeadMarker
	}
	binary.LittleEndian.PutUint16(p[0:2], marker)
	binary.LittleEndian.PutUint16(p[2:4], uint16(len(payload)))
	copy(p[4:], payload)
	return p
}

// MaxLongPayload is the most payload bytes one long-string chain link can
// carry after its 4-byte header.
const MaxLongPayload = Size - 4
