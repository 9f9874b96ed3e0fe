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

	"golang.org/x/sync/errgroup"

	"github.com/spc-engine/spc/pkg/util"
)

// PartitionedTable builds the same directory/storage shape as
// UnchainedTable, but does it with one goroutine per worker fanning
// entries into radix partitions first, so the expensive count/prefix-sum/
// scatter pass can then run over each partition concurrently with no
// shared lock: every partition owns a disjoint range of both the
// directory and the storage array.
type PartitionedTable struct {
	partitionBits uint // top bits of the hash select a partition
	localShift    uint // shift that isolates the bits just below the partition bits
	directory     []uint64
	storage       []Entry
}

// BuildPartitioned partitions entries derived from keys across
// threadCount goroutines, merges each partition's contributions into one
// contiguous run, then post-processes every partition's run into its own
// slice of the final directory and storage arrays. threadCount must
// already be a power of two: num_partitions equals num_threads exactly,
// both the count of build/post-process goroutines and the count of
// disjoint directory/storage ranges they write into. The caller (see
// plan.selectBuildThreadCount) rounds up once before calling in and
// reuses that same rounded value for the probe fan-out.
func BuildPartitioned(ctx context.Context, keys []int32, rowIdxOf func(i int) uint64, threadCount int) (*PartitionedTable, error) {
	util.AssertFunc(threadCount >= 1 && util.IsPowerOfTwo(uint64(threadCount)))
	n := len(keys)
	numPartitions := threadCount
	partitionBits := uint(util.Log2PowerOfTwo(uint64(numPartitions)))

	numSlots := util.NextPowerOfTwo(uint64(n))
	if numSlots < uint64(numPartitions) {
		numSlots = uint64(numPartitions)
	}
	totalBucketBits := uint(util.Log2PowerOfTwo(numSlots))
	var localBucketBits uint
	if totalBucketBits > partitionBits {
		localBucketBits = totalBucketBits - partitionBits
	}
	localBucketsPerPartition := uint64(1) << localBucketBits

	global := NewGlobalAllocator()
	perWorker := make([]*PartitionLists, threadCount)

	g, gctx := errgroup.WithContext(ctx)
	chunk := (n + threadCount - 1) / threadCount
	for w := 0; w < threadCount; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			arena := NewL2Arena(global)
			lists := NewPartitionLists(arena, numPartitions)
			for i := lo; i < hi; i++ {
				h := Hash(keys[i])
				partition := int(h >> (64 - partitionBits))
				lists.Push(partition, PEntry{Key: keys[i], RowIdx: rowIdxOf(i), Hash: h})
			}
			perWorker[w] = lists
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergePartitions(perWorker, numPartitions)

	t := &PartitionedTable{
		partitionBits: partitionBits,
		localShift:    64 - partitionBits - localBucketBits,
		directory:     make([]uint64, numSlots+1),
		storage:       make([]Entry, n),
	}

	// storageOffset[p] is where partition p's rows begin in the shared
	// storage array; directoryOffset[p] is where its bucket range begins
	// in the shared directory.
	storageOffset := make([]uint64, numPartitions+1)
	for p := 0; p < numPartitions; p++ {
		storageOffset[p+1] = storageOffset[p] + uint64(len(merged[p]))
	}

	g2, _ := errgroup.WithContext(ctx)
	for p := 0; p < numPartitions; p++ {
		p := p
		g2.Go(func() error {
			t.postProcessPartition(p, merged[p], storageOffset[p], localBucketsPerPartition)
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

// mergePartitions lays each partition's rows out thread-major: worker 0's
// contribution first, then worker 1's, and so on, with each worker's own
// blocks walked newest-first the way they were linked.
func mergePartitions(perWorker []*PartitionLists, numPartitions int) [][]PEntry {
	merged := make([][]PEntry, numPartitions)
	for p := 0; p < numPartitions; p++ {
		var out []PEntry
		for _, w := range perWorker {
			for b := w.heads[p]; b != nil; b = b.next {
				out = append(out, b.entries[:b.len]...)
			}
		}
		merged[p] = out
	}
	return merged
}

// postProcessPartition runs the count / prefix-sum / scatter build for
// one partition's rows into its disjoint slice of the shared directory
// and storage arrays. It touches no memory any other partition's call
// also touches, so every call can run concurrently without a lock.
func (t *PartitionedTable) postProcessPartition(partition int, entries []PEntry, storageBase uint64, localBuckets uint64) {
	localMask := localBuckets - 1
	globalBase := uint64(partition) * localBuckets

	counts := make([]uint64, localBuckets)
	local := make([]uint64, len(entries))
	for i, e := range entries {
		lb := (e.Hash >> t.localShift) & localMask
		local[i] = lb
		counts[lb]++
	}

	var acc uint64
	for b := uint64(0); b < localBuckets; b++ {
		acc += counts[b]
		t.directory[globalBase+b+1] = pack(storageBase+acc, 0)
	}

	cursor := make([]uint64, localBuckets)
	cursor[0] = storageBase
	for b := uint64(1); b < localBuckets; b++ {
		cursor[b] = unpackPtr(t.directory[globalBase+b])
	}

	bucketTags := make([]uint16, localBuckets)
	for i, e := range entries {
		lb := local[i]
		t.storage[cursor[lb]] = Entry{Key: e.Key, RowIdx: e.RowIdx}
		cursor[lb]++
		bucketTags[lb] |= ComputeTag(e.Hash)
	}
	util.AssertFunc(localBuckets == 0 || cursor[localBuckets-1] == storageBase+uint64(len(entries)))

	for b := uint64(0); b < localBuckets; b++ {
		t.directory[globalBase+b+1] = pack(unpackPtr(t.directory[globalBase+b+1]), bucketTags[b])
	}
	if partition == 0 {
		t.directory[0] = pack(storageBase, 0)
	}
}

// bucket maps a hash to its slot in the shared directory: the top
// partitionBits pick the partition, the bits just below them pick the
// bucket within it.
func (t *PartitionedTable) bucket(h uint64) uint64 {
	partition := h >> (64 - t.partitionBits)
	localBuckets := uint64(1) << (64 - t.partitionBits - t.localShift)
	local := (h >> t.localShift) & (localBuckets - 1)
	return partition*localBuckets + local
}

// FindRange returns every build-side row whose key might equal key, the
// same contract UnchainedTable.FindRange makes.
func (t *PartitionedTable) FindRange(key int32) []Entry {
	h := Hash(key)
	b := t.bucket(h)
	slot := t.directory[b+1]
	if !CouldContain(unpackTag(slot), ComputeTag(h)) {
		return nil
	}
	start := unpackPtr(t.directory[b])
	end := unpackPtr(slot)
	return t.storage[start:end]
}
