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

// Package chunk holds the tagged value union and the paged intermediate
// column operators build and probe against: strings stay as references
// into the pages they were scanned from until the root materializer asks
// for their bytes, grounded on
// original_source/optimizations/late_materialization/value_t.h.
package chunk

import "math"

// NullInt32 is the sentinel INT32 slot value standing for a null.
const NullInt32 = math.MinInt32

// StringRef addresses one VARCHAR value inside a scanned-in table without
// copying its bytes. A value with every field at its maximum (all ones)
// is the null string sentinel (see NullStringRef).
type StringRef struct {
	TableID   uint8
	ColumnID  uint8
	PageID    uint32
	OffsetIdx uint16
}

// NullStringRef is the all-ones StringRef standing for a null VARCHAR.
var NullStringRef = StringRef{
	TableID:   0xFF,
	ColumnID:  0xFF,
	PageID:    0xFFFFFFFF,
	OffsetIdx: 0xFFFF,
}

func (r StringRef) IsNull() bool {
	return r == NullStringRef
}

// Value is what every intermediate column cell holds: an INT32 slot and a
// StringRef, of which the column's declared type says which one is
// meaningful (there is no in-band tag). The two fields sit side by side
// rather than overlapping, so a Value is 16 bytes, not 8.
type Value struct {
	Int32 int32
	Str   StringRef
}

func Int32Value(v int32) Value {
	return Value{Int32: v}
}

func NullInt32Value() Value {
	return Value{Int32: NullInt32}
}

func StringValue(ref StringRef) Value {
	return Value{Str: ref}
}

func NullStringValue() Value {
	return Value{Str: NullStringRef}
}

func (v Value) IsNullInt32() bool {
	return v.Int32 == NullInt32
}
