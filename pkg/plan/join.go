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

package plan

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/spc-engine/spc/pkg/chunk"
	"github.com/spc-engine/spc/pkg/hashtable"
	"github.com/spc-engine/spc/pkg/util"
)

// minParallelBuild is the floor below which a build never goes parallel
// no matter how SPC_THREADED_MIN_BUILD is configured: the partitioning,
// merge and per-partition post-process overhead isn't worth paying for a
// build this small.
const minParallelBuild = 200000

// probeChunkRows is how many probe rows one work-stealing grab covers.
const probeChunkRows = 1984

type matchPair struct {
	buildRow int
	probeRow int
}

// executeJoin builds a hash index over whichever child actually has
// fewer rows, then probes it with the other child. Any external hint
// about which side to build is not consulted: picking by measured
// cardinality is always at least as good and never needs to be trusted.
func executeJoin(ctx context.Context, p *Plan, n *Node) (*Result, error) {
	left, err := executeImpl(ctx, p, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := executeImpl(ctx, p, n.Right)
	if err != nil {
		return nil, err
	}

	buildLeft := left.NumRows <= right.NumRows
	build, probe := left, right
	buildKeyAttr, probeKeyAttr := n.LeftKeyAttr, n.RightKeyAttr
	if !buildLeft {
		build, probe = right, left
		buildKeyAttr, probeKeyAttr = n.RightKeyAttr, n.LeftKeyAttr
	}

	buildKeys := build.Columns[buildKeyAttr]
	entries := make([]hashtable.Entry, 0, build.NumRows)
	for i := 0; i < build.NumRows; i++ {
		v := buildKeys.At(i)
		if v.IsNullInt32() {
			continue
		}
		entries = append(entries, hashtable.Entry{Key: v.Int32, RowIdx: uint64(i)})
	}

	threadCount := selectBuildThreadCount(len(entries))

	var lookup func(int32) []hashtable.Entry
	if threadCount <= 1 {
		t := hashtable.NewUnchainedTable(len(entries))
		t.Build(entries)
		lookup = t.FindRange
	} else {
		keys := make([]int32, len(entries))
		rowIdx := make([]uint64, len(entries))
		for i, e := range entries {
			keys[i] = e.Key
			rowIdx[i] = e.RowIdx
		}
		pt, err := hashtable.BuildPartitioned(ctx, keys, func(i int) uint64 { return rowIdx[i] }, threadCount)
		if err != nil {
			return nil, err
		}
		lookup = pt.FindRange
	}

	matches, err := probeParallel(ctx, probe, probeKeyAttr, lookup, threadCount)
	if err != nil {
		return nil, err
	}

	out := newResult(n.OutputAttrs)
	nLeft := len(left.Attrs)
	row := make([]chunk.Value, len(n.OutputAttrs))
	for _, m := range matches {
		if buildLeft {
			fillRow(row[:nLeft], left, m.buildRow)
			fillRow(row[nLeft:], right, m.probeRow)
		} else {
			fillRow(row[:nLeft], left, m.probeRow)
			fillRow(row[nLeft:], right, m.buildRow)
		}
		out.appendRow(row...)
	}
	return out, nil
}

func fillRow(dst []chunk.Value, res *Result, rowIdx int) {
	for i, c := range res.Columns {
		dst[i] = c.At(rowIdx)
	}
}

// selectBuildThreadCount decides whether this build runs the serial
// count/prefix-sum/scatter path or the radix-partitioned one, following
// the same two knobs a caller can override through the environment. The
// returned count is always a power of two (rounded up once, here) and is
// reused unchanged both as the partitioned build's partition/goroutine
// count and as the probe fan-out's goroutine count.
func selectBuildThreadCount(buildRows int) int {
	if buildRows < minParallelBuild {
		return 1
	}
	if uint64(buildRows) < util.ThreadedMinBuild() {
		return 1
	}
	n := util.ThreadCount()
	if n < 1 {
		n = 1
	}
	return int(util.NextPowerOfTwo(n))
}

// probeParallel fans threadCount goroutines out over probe in fixed-size
// chunks claimed from one atomic cursor, so a slow chunk never stalls the
// rest. Each goroutine only appends to its own buffer; matches are
// emitted afterward, goroutine by goroutine in index order and in
// chunk/row order within a goroutine. Which chunks a goroutine claims
// depends on scheduling, so with more than one goroutine the overall
// order can differ between runs; with one it follows probe row order.
func probeParallel(ctx context.Context, probe *Result, probeKeyAttr int, lookup func(int32) []hashtable.Entry, threadCount int) ([]matchPair, error) {
	if threadCount < 1 {
		threadCount = 1
	}
	n := probe.NumRows
	probeKeys := probe.Columns[probeKeyAttr]
	perGoroutine := make([][]matchPair, threadCount)

	var next int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < threadCount; w++ {
		w := w
		g.Go(func() error {
			var local []matchPair
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				start := int(atomic.AddInt64(&next, probeChunkRows)) - probeChunkRows
				if start >= n {
					break
				}
				end := start + probeChunkRows
				if end > n {
					end = n
				}
				for i := start; i < end; i++ {
					v := probeKeys.At(i)
					if v.IsNullInt32() {
						continue
					}
					for _, e := range lookup(v.Int32) {
						if e.Key == v.Int32 {
							local = append(local, matchPair{buildRow: int(e.RowIdx), probeRow: i})
						}
					}
				}
			}
			perGoroutine[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, local := range perGoroutine {
		total += len(local)
	}
	out := make([]matchPair, 0, total)
	for _, local := range perGoroutine {
		out = append(out, local...)
	}
	return out, nil
}
