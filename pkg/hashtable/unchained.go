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

import "github.com/spc-engine/spc/pkg/util"

// UnchainedTable is the single-threaded build path: every bucket's rows
// live in one contiguous run of the storage array rather than a linked
// list, so a lookup is one directory read plus one bounded scan. The
// directory has one slot per bucket plus a leading underflow slot that
// holds bucket 0's start offset, so bucket b's run is always
// storage[directory[b]:directory[b+1]].
type UnchainedTable struct {
	mask      uint64
	directory []uint64
	storage   []Entry
}

// minDirectorySlots floors every directory at 1024 buckets, even for a
// tiny or empty build, so capacity never collapses below what a cheap
// index is expected to reserve up front.
const minDirectorySlots = 1024

// NewUnchainedTable sizes the directory to the next power of two at or
// above numRows, floored at minDirectorySlots, so bucket selection is a
// mask, not a modulo.
func NewUnchainedTable(numRows int) *UnchainedTable {
	numSlots := util.NextPowerOfTwo(uint64(numRows))
	if numSlots < minDirectorySlots {
		numSlots = minDirectorySlots
	}
	return &UnchainedTable{
		mask:      numSlots - 1,
		directory: make([]uint64, numSlots+1),
		storage:   make([]Entry, numRows),
	}
}

// Build runs the count / prefix-sum / scatter passes over entries, which
// must already have null keys filtered out. Row order among entries that
// share a bucket is preserved.
func (t *UnchainedTable) Build(entries []Entry) {
	util.AssertFunc(len(entries) == len(t.storage))
	numSlots := t.mask + 1
	hashes := make([]uint64, len(entries))
	counts := make([]uint64, numSlots)
	for i, e := range entries {
		h := Hash(e.Key)
		hashes[i] = h
		counts[h&t.mask]++
	}

	var acc uint64
	for b := uint64(0); b < numSlots; b++ {
		acc += counts[b]
		t.directory[b+1] = pack(acc, 0)
	}

	cursor := make([]uint64, numSlots)
	for b := uint64(1); b < numSlots; b++ {
		cursor[b] = unpackPtr(t.directory[b])
	}

	bucketTags := make([]uint16, numSlots)
	for i, e := range entries {
		b := hashes[i] & t.mask
		t.storage[cursor[b]] = e
		cursor[b]++
		bucketTags[b] |= ComputeTag(hashes[i])
	}

	for b := uint64(0); b < numSlots; b++ {
		t.directory[b+1] = pack(unpackPtr(t.directory[b+1]), bucketTags[b])
	}
}

// FindRange returns every build-side row whose key might equal key. The
// bloom tag rules out most non-matching buckets without touching
// storage; callers still must compare Entry.Key themselves for the rows
// this returns.
func (t *UnchainedTable) FindRange(key int32) []Entry {
	h := Hash(key)
	b := h & t.mask
	slot := t.directory[b+1]
	if !CouldContain(unpackTag(slot), ComputeTag(h)) {
		return nil
	}
	start := unpackPtr(t.directory[b])
	end := unpackPtr(slot)
	util.AssertFunc(start <= end && end <= uint64(len(t.storage)))
	return t.storage[start:end]
}
