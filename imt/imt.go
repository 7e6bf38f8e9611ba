// Package imt implements a range-to-range translation structure: a segment
// tree over per-key interval lists supporting a union-merge range query,
// plus an oracle variant (OIMT) that additionally partitions the values
// inside those lists by a per-value character tag.
//
// Nodes are stored in a flat, index-addressed arena (two children of node i
// are 2i and 2i+1) rather than as a pointer tree, since a tree built once
// and only ever read afterward has no need for pointer-chasing or GC churn.
// The arena-by-index layout is grounded on gaissmai-bart/bartnode.go's node
// array convention (fixed-shape nodes addressed by integer index instead of
// pointers), adapted here from a routing trie to a static segment tree.
package imt

import "github.com/uensalo/gingo/container"

// Tree is a segment tree over keys [0, n) where each leaf holds a
// pre-merged interval list: every internal node's list equals
// compact(merge(left, right)).
type Tree struct {
	n         int
	lo, hi    []int // per-node covered key range, 1-indexed arena
	intervals [][]container.Interval
}

// Build constructs the tree given n keys and a function returning the raw
// (pre-compaction) interval list for a given key.
func Build(n int, keyIntervals func(key int) []container.Interval) *Tree {
	if n == 0 {
		return &Tree{n: 0}
	}
	size := 4 * n
	t := &Tree{
		n:         n,
		lo:        make([]int, size),
		hi:        make([]int, size),
		intervals: make([][]container.Interval, size),
	}
	t.build(1, 0, n-1, keyIntervals)
	return t
}

func (t *Tree) build(node, lo, hi int, keyIntervals func(int) []container.Interval) {
	t.lo[node], t.hi[node] = lo, hi
	if lo == hi {
		t.intervals[node] = container.Compact(keyIntervals(lo))
		return
	}
	mid := (lo + hi) / 2
	t.build(2*node, lo, mid, keyIntervals)
	t.build(2*node+1, mid+1, hi, keyIntervals)
	t.intervals[node] = container.MergeSorted(t.intervals[2*node], t.intervals[2*node+1])
}

// NumKeys returns n.
func (t *Tree) NumKeys() int { return t.n }

// collectCovering appends, to out, the interval lists of the O(log n)
// maximal subtrees fully covered by [a,b].
func (t *Tree) collectCovering(node, a, b int, out *[][]container.Interval) {
	if t.n == 0 || b < t.lo[node] || t.hi[node] < a {
		return
	}
	if a <= t.lo[node] && t.hi[node] <= b {
		*out = append(*out, t.intervals[node])
		return
	}
	t.collectCovering(2*node, a, b, out)
	t.collectCovering(2*node+1, a, b, out)
}

// Query returns the union-merge of the interval lists of every key in
// [a,b], capped at maxIntervals emitted merged intervals (maxIntervals < 0
// means uncapped).
func (t *Tree) Query(a, b, maxIntervals int) []container.Interval {
	if t.n == 0 || a > b {
		return nil
	}
	if a < 0 {
		a = 0
	}
	if b > t.n-1 {
		b = t.n - 1
	}
	if a > b {
		return nil
	}
	var lists [][]container.Interval
	t.collectCovering(1, a, b, &lists)
	return kWayMerge(lists, maxIntervals)
}

type heapEntry struct {
	iv           container.Interval
	listIdx, pos int
}

// kWayMerge merges already-compacted, Lo-sorted interval lists, preserving
// the adjacency-merge invariant across list boundaries, capped at
// maxIntervals *emitted* (completed) intervals.
func kWayMerge(lists [][]container.Interval, maxIntervals int) []container.Interval {
	if maxIntervals == 0 {
		return nil
	}
	h := container.NewMinHeap(func(a, b heapEntry) bool { return a.iv.Lo < b.iv.Lo })
	for i, lst := range lists {
		if len(lst) > 0 {
			h.Push(heapEntry{lst[0], i, 0})
		}
	}

	var result []container.Interval
	var cur *container.Interval

	for h.Len() > 0 {
		e := h.Pop()
		if e.pos+1 < len(lists[e.listIdx]) {
			h.Push(heapEntry{lists[e.listIdx][e.pos+1], e.listIdx, e.pos + 1})
		}

		if cur == nil {
			iv := e.iv
			cur = &iv
			continue
		}
		if cur.Hi+1 >= e.iv.Lo {
			if e.iv.Hi > cur.Hi {
				cur.Hi = e.iv.Hi
			}
			continue
		}

		result = append(result, *cur)
		if maxIntervals >= 0 && len(result) >= maxIntervals {
			return result
		}
		iv := e.iv
		cur = &iv
	}

	if cur != nil {
		result = append(result, *cur)
	}
	if maxIntervals >= 0 && len(result) > maxIntervals {
		result = result[:maxIntervals]
	}
	return result
}
