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

// Int32Writer accumulates values for one INT32 column, flushing a page
// the moment one more row would overflow it. The check is exact: a
// header, one int32 per present value seen so far plus the candidate,
// and the tail bitmap sized for one more row.
type Int32Writer struct {
	col         *Column
	values      []int32
	presentBits []bool
}

func NewInt32Writer(col *Column) *Int32Writer {
	return &Int32Writer{col: col}
}

func (w *Int32Writer) willOverflow(present bool) bool {
	numValues := len(w.values)
	if present {
		numValues++
	}
	numRows := len(w.presentBits) + 1
	size := 4 + numValues*4 + BitmapBytes(numRows)
	return size > Size
}

func (w *Int32Writer) Append(present bool, v int32) {
	if len(w.presentBits) > 0 && w.willOverflow(present) {
		w.flush()
	}
	if present {
		w.values = append(w.values, v)
	}
	w.presentBits = append(w.presentBits, present)
}

func (w *Int32Writer) flush() {
	if len(w.presentBits) == 0 {
		return
	}
	bitmap := make([]byte, BitmapBytes(len(w.presentBits)))
	for i, present := range w.presentBits {
		if present {
			SetBit(bitmap, i)
		}
	}
	w.col.Pages = append(w.col.Pages, EncodeInt32Page(len(w.presentBits), w.values, bitmap))
	w.values = nil
	w.presentBits = nil
}

func (w *Int32Writer) Finish() {
	w.flush()
}

// maxShortSingleString is how large a string can be and still be certain
// to fit alone on a freshly flushed short VARCHAR page: header, one end
// offset, the string's own bytes and a one-row bitmap.
const maxShortSingleString = Size - 4 - 2 - 1

// VarcharWriter accumulates values for one VARCHAR column, the same way
// Int32Writer does for INT32 ones, additionally splitting any string too
// big for an empty page into its own long-string chain.
type VarcharWriter struct {
	col         *Column
	data        []byte
	endOffsets  []uint16
	presentBits []bool
}

func NewVarcharWriter(col *Column) *VarcharWriter {
	return &VarcharWriter{col: col}
}

func (w *VarcharWriter) willOverflow(addingBytes int, addingValue bool) bool {
	numValues := len(w.endOffsets)
	if addingValue {
		numValues++
	}
	numRows := len(w.presentBits) + 1
	dataLen := len(w.data) + addingBytes
	size := 4 + numValues*2 + dataLen + BitmapBytes(numRows)
	return size > Size
}

func (w *VarcharWriter) AppendNull() {
	if len(w.presentBits) > 0 && w.willOverflow(0, false) {
		w.flush()
	}
	w.presentBits = append(w.presentBits, false)
}

func (w *VarcharWriter) AppendString(b []byte) {
	if len(b) > maxShortSingleString {
		w.flush()
		w.writeLongChain(b)
		return
	}
	if len(w.presentBits) > 0 && w.willOverflow(len(b), true) {
		w.flush()
	}
	w.endOffsets = append(w.endOffsets, uint16(len(w.data)+len(b)))
	w.data = append(w.data, b...)
	w.presentBits = append(w.presentBits, true)
}

// writeLongChain never touches the accumulating short-page buffers: it
// writes its own self-contained run of pages directly, one head page
// followed by as many continuation pages as the string needs.
func (w *VarcharWriter) writeLongChain(b []byte) {
	isHead := true
	for {
		n := len(b)
		if n > MaxLongPayload {
			n = MaxLongPayload
		}
		w.col.Pages = append(w.col.Pages, EncodeVarcharLongPage(isHead, b[:n]))
		b = b[n:]
		isHead = false
		if len(b) == 0 {
			return
		}
	}
}

func (w *VarcharWriter) flush() {
	if len(w.presentBits) == 0 {
		return
	}
	bitmap := make([]byte, BitmapBytes(len(w.presentBits)))
	for i, present := range w.presentBits {
		if present {
			SetBit(bitmap, i)
		}
	}
	w.col.Pages = append(w.col.Pages, EncodeVarcharShortPage(len(w.presentBits), w.endOffsets, w.data, bitmap))
	w.data = nil
	w.endOffsets = nil
	w.presentBits = nil
}

func (w *VarcharWriter) Finish() {
	w.flush()
}
