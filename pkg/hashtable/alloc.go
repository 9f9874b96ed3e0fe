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
	"go.uber.org/zap"

	"github.com/spc-engine/spc/pkg/util"
)

// l1ChunkEntries and l2ChunkEntries size the allocation tiers the
// partitioned build's worker goroutines pull from: a big chunk taken
// rarely under a shared lock (L1), from which each goroutine's L2Arena
// bump-allocates on its own the fixed blocks each partition's tuple list
// is threaded through (L3, see Block). l2ChunkEntries is only the minimum
// an L2 refill asks for; the L1 tier never hands out less than
// l1ChunkEntries, so every refill takes a whole L1 chunk and there is no
// separate smaller L2 chunk size between L1 chunks and blocks.
const (
	l1ChunkEntries = (2 << 20) / 32
	l2ChunkEntries = (64 << 10) / 32
	blockEntries   = 256
)

// GlobalAllocator is the L1 tier: goroutines rarely reach it, only when
// their own L2 arena runs dry, so contention on its lock stays low. The
// lock is the goroutine-id aware util.ReentryLock; each chunk handed out
// is logged at Debug with its size and the running chunk count.
type GlobalAllocator struct {
	mu     *util.ReentryLock
	chunks [][]PEntry
}

func NewGlobalAllocator() *GlobalAllocator {
	return &GlobalAllocator{mu: util.NewReentryLock()}
}

func (g *GlobalAllocator) newChunk(atLeast int) []PEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := l1ChunkEntries
	if atLeast > n {
		n = atLeast
	}
	c := make([]PEntry, n)
	g.chunks = append(g.chunks, c)
	util.Debug("hashtable: L1 chunk allocated", zap.Int("entries", n), zap.Int("totalChunks", len(g.chunks)))
	return c
}

// L2Arena is a single worker goroutine's private bump allocator: no
// locking on the fast path, only when it must pull a fresh chunk from the
// shared L1 allocator.
type L2Arena struct {
	global *GlobalAllocator
	cur    []PEntry
	pos    int
}

func NewL2Arena(global *GlobalAllocator) *L2Arena {
	return &L2Arena{global: global}
}

func (a *L2Arena) alloc(n int) []PEntry {
	if a.pos+n > len(a.cur) {
		want := l2ChunkEntries
		if n > want {
			want = n
		}
		a.cur = a.global.newChunk(want)
		a.pos = 0
	}
	s := a.cur[a.pos : a.pos+n]
	a.pos += n
	return s
}

// Block is one L3 cell: a fixed-capacity run of entries belonging to a
// single partition, threaded to the block allocated before it. A
// partition's list is newest-block-first; walking it front to back visits
// that goroutine's blocks in reverse allocation order, while rows inside
// each block stay in insertion order.
type Block struct {
	entries []PEntry
	len     int
	next    *Block
}

func (b *Block) full() bool {
	return b.len == len(b.entries)
}

// PartitionLists collects one goroutine's contribution to every
// partition's tuple list during the fan-out phase of a partitioned
// build.
type PartitionLists struct {
	arena *L2Arena
	heads []*Block
}

func NewPartitionLists(arena *L2Arena, numPartitions int) *PartitionLists {
	return &PartitionLists{arena: arena, heads: make([]*Block, numPartitions)}
}

func (pl *PartitionLists) Push(partition int, e PEntry) {
	b := pl.heads[partition]
	if b == nil || b.full() {
		nb := &Block{entries: pl.arena.alloc(blockEntries), next: b}
		pl.heads[partition] = nb
		b = nb
	}
	b.entries[b.len] = e
	b.len++
}
