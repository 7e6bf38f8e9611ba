package imt

import "github.com/uensalo/gingo/container"

// OIMT is the oracle variant of Tree. A plain Tree's per-node interval list
// is a compacted set of integer values (bwt_to_vid-style rank positions);
// OIMT additionally tags each individual value with tagOf(value) — the
// encoding of the BWT character immediately preceding that value's own
// c_1 position — and buckets a node's subtree values by that tag, so a
// query can narrow to only the values compatible with a known next
// character before union-merging. The tag is a property of the value
// itself (a rank in the shared key/value index space), not of whichever
// leaf happens to list it as a neighbour.
type OIMT struct {
	n       int
	lo, hi  []int
	buckets []map[uint16][]container.Interval
}

// BuildOIMT constructs the oracle tree given n keys, their raw interval
// lists (over the same [0,n) value space as the keys), and a tag function
// over that value space.
func BuildOIMT(n int, keyIntervals func(key int) []container.Interval, tagOf func(value int) uint16) *OIMT {
	if n == 0 {
		return &OIMT{n: 0}
	}
	size := 4 * n
	t := &OIMT{
		n:       n,
		lo:      make([]int, size),
		hi:      make([]int, size),
		buckets: make([]map[uint16][]container.Interval, size),
	}
	t.build(1, 0, n-1, keyIntervals, tagOf)
	return t
}

// expandAndTag breaks each interval into its individual values and groups
// them (as singleton intervals) by tag.
func expandAndTag(intervals []container.Interval, tagOf func(int) uint16) map[uint16][]container.Interval {
	byTag := make(map[uint16][]container.Interval)
	for _, iv := range intervals {
		for v := iv.Lo; v <= iv.Hi; v++ {
			tag := tagOf(int(v))
			byTag[tag] = append(byTag[tag], container.Interval{Lo: v, Hi: v})
		}
	}
	for tag, lst := range byTag {
		byTag[tag] = container.Compact(lst)
	}
	return byTag
}

func (t *OIMT) build(node, lo, hi int, keyIntervals func(int) []container.Interval, tagOf func(int) uint16) {
	t.lo[node], t.hi[node] = lo, hi
	if lo == hi {
		t.buckets[node] = expandAndTag(keyIntervals(lo), tagOf)
		return
	}
	mid := (lo + hi) / 2
	t.build(2*node, lo, mid, keyIntervals, tagOf)
	t.build(2*node+1, mid+1, hi, keyIntervals, tagOf)

	merged := make(map[uint16][]container.Interval)
	for tag, lst := range t.buckets[2*node] {
		merged[tag] = lst
	}
	for tag, lst := range t.buckets[2*node+1] {
		if existing, ok := merged[tag]; ok {
			merged[tag] = container.MergeSorted(existing, lst)
		} else {
			merged[tag] = lst
		}
	}
	t.buckets[node] = merged
}

// NumKeys returns n.
func (t *OIMT) NumKeys() int { return t.n }

func (t *OIMT) collectCovering(node, a, b int, tag uint16, out *[][]container.Interval) {
	if t.n == 0 || b < t.lo[node] || t.hi[node] < a {
		return
	}
	if a <= t.lo[node] && t.hi[node] <= b {
		if lst, ok := t.buckets[node][tag]; ok {
			*out = append(*out, lst)
		}
		return
	}
	t.collectCovering(2*node, a, b, tag, out)
	t.collectCovering(2*node+1, a, b, tag, out)
}

// Query returns the union-merge of interval values belonging to keys in
// [a,b] whose own tag is the given encoding, capped at maxIntervals
// emitted intervals (negative means uncapped).
func (t *OIMT) Query(a, b int, tag uint16, maxIntervals int) []container.Interval {
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
	t.collectCovering(1, a, b, tag, &lists)
	return kWayMerge(lists, maxIntervals)
}

// AllTags returns, for every tag observed in [a,b]'s covering nodes, the
// Query result for that tag. Unioning and re-compacting every returned
// list reproduces the plain Tree's Query(a,b,-1) result exactly, since
// value-level tagging only changes which adjacent values get merged along
// the way, never which values are present.
func (t *OIMT) AllTags(a, b int) map[uint16][]container.Interval {
	out := make(map[uint16][]container.Interval)
	if t.n == 0 {
		return out
	}
	seen := make(map[uint16]bool)
	var collectTags func(node int)
	collectTags = func(node int) {
		if b < t.lo[node] || t.hi[node] < a {
			return
		}
		for tag := range t.buckets[node] {
			seen[tag] = true
		}
		if t.lo[node] == t.hi[node] {
			return
		}
		collectTags(2 * node)
		collectTags(2*node + 1)
	}
	collectTags(1)
	for tag := range seen {
		out[tag] = t.Query(a, b, tag, -1)
	}
	return out
}
