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

// Package page implements the persisted columnar page codec: fixed
// 8192-byte pages carrying INT32 or VARCHAR data plus a tail presence
// bitmap, and the long-string chain encoding for VARCHAR values too big
// to fit a single page. The byte layout is an external collaborator's
// format that this engine must read and write exactly, ground-truthed
// against original_source/optimizations/column_store/mytocolumnar.h and
// original_source/optimizations/late_materialization/mycopyscan.h.
package page

import "github.com/spc-engine/spc/pkg/common"

const Size = 8192

// LongHeadMarker and LongContMarker are the num_rows sentinel values that
// mark a VARCHAR page as the first, respectively a continuation, chunk of
// a string too long to fit in one short VARCHAR page.
const (
	LongHeadMarker uint16 = 0xFFFF
	LongContMarker uint16 = 0xFFFE
)

// Page is one fixed-size unit of a persisted column.
type Page [Size]byte

// Column is an owned, ordered sequence of pages of one declared type.
type Column struct {
	Type  common.DataType
	Pages []*Page
}

// ColumnarTable is the persisted, external-collaborator table shape the
// engine reads plans' Scan nodes from and writes execute()'s result into.
type ColumnarTable struct {
	NumRows uint64
	Columns []Column
}
