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

package hashtable

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowsFor returns the sorted row indices of the FindRange results whose
// key equals key (duplicates kept), to compare against the serial table
// without caring about internal ordering.
func rowsFor(find func(int32) []Entry, key int32) []int {
	var rows []int
	for _, e := range find(key) {
		if e.Key == key {
			rows = append(rows, int(e.RowIdx))
		}
	}
	sort.Ints(rows)
	return rows
}

func TestPartitionedTableAgreesWithUnchainedTable(t *testing.T) {
	n := 20000
	keys := make([]int32, n)
	for i := range keys {
		keys[i] = int32(i % 4000)
	}

	serial := NewUnchainedTable(n)
	serial.Build(buildEntries(keys))

	pt, err := BuildPartitioned(context.Background(), keys, func(i int) uint64 { return uint64(i) }, 4)
	require.NoError(t, err)

	for probe := int32(0); probe < 4000; probe += 37 {
		assert.Equal(t, rowsFor(serial.FindRange, probe), rowsFor(pt.FindRange, probe))
	}
	assert.Empty(t, pt.FindRange(999999))
}

func TestPartitionedTableSingleThreadIsCoherent(t *testing.T) {
	keys := []int32{1, 2, 3, 4, 5, 1, 2}
	pt, err := BuildPartitioned(context.Background(), keys, func(i int) uint64 { return uint64(i) }, 1)
	require.NoError(t, err)
	assert.Len(t, rowsFor(pt.FindRange, 1), 2)
	assert.Len(t, rowsFor(pt.FindRange, 5), 1)
}
