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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt32PageRoundTrip(t *testing.T) {
	col := &Column{}
	w := NewInt32Writer(col)
	want := []Int32Row{}
	for i := 0; i < 500; i++ {
		if i%7 == 0 {
			w.Append(false, 0)
			want = append(want, Int32Row{Present: false})
			continue
		}
		w.Append(true, int32(i*3))
		want = append(want, Int32Row{Present: true, Value: int32(i * 3)})
	}
	w.Finish()

	require.NotEmpty(t, col.Pages)
	var got []Int32Row
	for _, p := range col.Pages {
		got = append(got, DecodeInt32Page(p)...)
	}
	assert.Equal(t, want, got)
}

func TestInt32PageFlushesBeforeOverflow(t *testing.T) {
	col := &Column{}
	w := NewInt32Writer(col)
	for i := 0; i < 3000; i++ {
		w.Append(true, int32(i))
	}
	w.Finish()

	assert.Greater(t, len(col.Pages), 1)
	var total int
	for _, p := range col.Pages {
		total += len(DecodeInt32Page(p))
	}
	assert.Equal(t, 3000, total)
}

func TestVarcharShortPageRoundTrip(t *testing.T) {
	col := &Column{}
	w := NewVarcharWriter(col)
	values := []string{"alice", "", "bob", "carol"}
	present := []bool{true, false, true, true}
	for i, v := range values {
		if !present[i] {
			w.AppendNull()
			continue
		}
		w.AppendString([]byte(v))
	}
	w.Finish()

	require.Len(t, col.Pages, 1)
	decoded := DecodeVarcharPage(col.Pages[0])
	require.Equal(t, VarcharShort, decoded.Kind)
	require.Len(t, decoded.Rows, len(values))
	for i := range values {
		assert.Equal(t, present[i], decoded.Rows[i].Present)
		if present[i] {
			assert.Equal(t, values[i], string(decoded.Rows[i].Bytes))
		}
	}
}

func TestVarcharLongStringChain(t *testing.T) {
	col := &Column{}
	w := NewVarcharWriter(col)
	long := strings.Repeat("x", 3*(Size-4))
	w.AppendString([]byte(long))
	w.Finish()

	require.NotEmpty(t, col.Pages)
	head := DecodeVarcharPage(col.Pages[0])
	require.Equal(t, VarcharLongHead, head.Kind)

	got := MaterializeString([]ColumnarTable{{Columns: []Column{*col}}}, 0, 0, 0, 0)
	assert.Equal(t, long, string(got))
}

func TestVarcharLongChainToleratesEmptyContinuation(t *testing.T) {
	col := &Column{}
	col.Pages = append(col.Pages, EncodeVarcharLongPage(true, []byte("head")))
	col.Pages = append(col.Pages, EncodeVarcharLongPage(false, nil))
	col.Pages = append(col.Pages, EncodeVarcharLongPage(false, []byte("tail")))

	got := MaterializeString([]ColumnarTable{{Columns: []Column{*col}}}, 0, 0, 0, 0)
	assert.Equal(t, "headtail", string(got))
}

func TestBitmapBytesCeiling(t *testing.T) {
	assert.Equal(t, 0, BitmapBytes(0))
	assert.Equal(t, 1, BitmapBytes(1))
	assert.Equal(t, 1, BitmapBytes(8))
	assert.Equal(t, 2, BitmapBytes(9))
}
