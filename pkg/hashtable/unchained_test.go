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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildEntries(keys []int32) []Entry {
	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Key: k, RowIdx: uint64(i)}
	}
	return entries
}

func TestUnchainedTableFindsAllMatchingRows(t *testing.T) {
	keys := []int32{1, 2, 3, 2, 5, 2, 7, 1}
	table := NewUnchainedTable(len(keys))
	table.Build(buildEntries(keys))

	got := table.FindRange(2)
	var rows []int
	for _, e := range got {
		assert.Equal(t, int32(2), e.Key)
		rows = append(rows, int(e.RowIdx))
	}
	sort.Ints(rows)
	assert.Equal(t, []int{1, 3, 5}, rows)
}

func TestUnchainedTableMissForAbsentKey(t *testing.T) {
	keys := []int32{10, 20, 30}
	table := NewUnchainedTable(len(keys))
	table.Build(buildEntries(keys))

	got := table.FindRange(999)
	for _, e := range got {
		assert.NotEqual(t, int32(999), e.Key)
	}
}

func TestUnchainedTableCapacityFloorAndPowerOfTwo(t *testing.T) {
	for _, numRows := range []int{0, 1, 500, 1023, 1024, 1025, 3000} {
		table := NewUnchainedTable(numRows)
		numSlots := len(table.directory) - 1
		assert.True(t, numSlots&(numSlots-1) == 0, "numSlots must be a power of two, got %d", numSlots)
		assert.GreaterOrEqual(t, numSlots, 1024)
		assert.GreaterOrEqual(t, numSlots, numRows)
	}
}

func TestUnchainedTableZeroSizeBuild(t *testing.T) {
	table := NewUnchainedTable(0)
	table.Build(nil)
	assert.Empty(t, table.FindRange(1))
}

func TestUnchainedTableDuplicateKeysPreserveRowIdentity(t *testing.T) {
	keys := make([]int32, 200)
	for i := range keys {
		keys[i] = 7
	}
	table := NewUnchainedTable(len(keys))
	table.Build(buildEntries(keys))

	got := table.FindRange(7)
	seen := make(map[uint64]bool)
	for _, e := range got {
		seen[e.RowIdx] = true
	}
	assert.Len(t, seen, len(keys))
}

func TestBloomTagNeverRejectsAnActualMatch(t *testing.T) {
	for key := int32(0); key < 5000; key++ {
		h := Hash(key)
		assert.True(t, CouldContain(ComputeTag(h), ComputeTag(h)))
	}
}

// TestBloomTagRejectsADisjointTag proves the filter actually discriminates
// rather than degenerating into an always-true stub: a slot tag missing a
// bit the probe tag needs must be reported as no-match.
func TestBloomTagRejectsADisjointTag(t *testing.T) {
	found := false
	for key := int32(0); key < 5000 && !found; key++ {
		probeTag := ComputeTag(Hash(key))
		for other := int32(0); other < 5000; other++ {
			slotTag := ComputeTag(Hash(other))
			if slotTag&probeTag != probeTag {
				assert.False(t, CouldContain(slotTag, probeTag))
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected at least one disjoint tag pair among sampled keys")
}
