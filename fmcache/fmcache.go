// Package fmcache implements the FM-table cache: a precomputed fork list
// for every labelled prefix up to a fixed depth, letting the matcher
// bootstrap a search with one backward search into a small inner FM-index
// instead of walking the full GFMI character by character.
//
// Construction reuses forkmatcher.Step (the same fork/merge/advance BFS
// round the live matcher runs) so a cached entry and a live search can never
// disagree about which forks a given suffix produces.
package fmcache

import (
	"github.com/uensalo/gingo/fmindex"
	"github.com/uensalo/gingo/forkmatcher"
	"github.com/uensalo/gingo/gfmi"
	"github.com/uensalo/gingo/kerr"
)

// Cache is an immutable FM-table: a key-FMI over all cached prefixes
// (separated by c_0), an offset table mapping each key's c_0-bucket rank to
// its word offset in the packed value buffer, and the value buffer itself.
type Cache struct {
	depth  int
	c0     byte
	keyFMI *fmindex.FMIndex
	off    []uint64 // off[bucketRank] = word index into values
	values []uint64 // flat (k, (lo,hi)*k) records, one per key, in bucket-rank order
}

// Depth returns the cache's maximum key length.
func (c *Cache) Depth() int { return c.depth }

type keyEntry struct {
	key   string
	forks []gfmi.Fork
}

// Build constructs a depth-d FM-table cache over g, per the seed-then-BFS-
// extend procedure: depth-1 keys are single non-reserved characters with a
// non-empty LF-stepped interval; each subsequent depth prepends one
// character to every surviving key and runs one BFS round from its current
// fork list, keeping the result only if it is still non-empty. Every depth
// from 1 to d is retained in the final table (not just depth d), since a
// query shorter than d must still resolve via a shorter cached key.
func Build(g *gfmi.GFMI, depth int, rankRate, isaRate uint) (*Cache, error) {
	if depth <= 0 {
		return nil, kerr.New(kerr.MalformedInput, "cache depth must be positive")
	}
	fmi := g.FMIndex()
	rb := g.ReservedBytes()

	isReserved := func(b byte) bool {
		return b == rb.C0 || b == rb.C1 || b == rb.A0 || b == rb.A1 || b == rb.Terminator
	}

	var table []keyEntry
	for e := uint16(0); e < uint16(fmi.AlphabetSize()); e++ {
		c := fmi.ByteOf(e)
		if isReserved(c) {
			continue
		}
		lo, hi := fmi.LFStep(0, fmi.BwtLength(), e)
		if hi <= lo {
			continue
		}
		table = append(table, keyEntry{
			key:   string([]byte{c}),
			forks: []gfmi.Fork{{SALo: lo, SAHi: hi, Pos: 0, Type: gfmi.ForkCache}},
		})
	}

	all := append([]keyEntry(nil), table...)
	for t := 1; t < depth; t++ {
		var next []keyEntry
		for _, entry := range table {
			for e := uint16(0); e < uint16(fmi.AlphabetSize()); e++ {
				c := fmi.ByteOf(e)
				if isReserved(c) {
					continue
				}
				survivors, _ := forkmatcher.Step(g, entry.forks, c, -1)
				if len(survivors) == 0 {
					continue
				}
				next = append(next, keyEntry{key: string(c) + entry.key, forks: forkmatcher.Compact(survivors)})
			}
		}
		table = next
		all = append(all, next...)
	}

	return assemble(all, rb.C0, depth, rankRate, isaRate)
}

// assemble builds the key-FMI over the table's keys, each prefixed by c_0
// (mirroring gfmi.Build's c_0+label segment layout), derives each key's
// c_0-bucket rank the same way gfmi derives bwt_to_vid (via a segment-start
// -> index map over the c_0-delimiter SA bucket), and packs the
// offset/value tables in that rank order.
func assemble(table []keyEntry, c0 byte, depth int, rankRate, isaRate uint) (*Cache, error) {
	n := len(table)
	if n == 0 {
		return &Cache{depth: depth, c0: c0}, nil
	}

	segmentStart := make([]int, n)
	total := 0
	text := make([]byte, 0)
	for i, e := range table {
		segmentStart[i] = total
		text = append(text, c0)
		text = append(text, e.key...)
		total += 1 + len(e.key)
	}
	text = append(text, 0)

	keyFMI, err := fmindex.Build(text, rankRate, isaRate)
	if err != nil {
		return nil, err
	}

	c0Bucket := keyFMI.SARange(1, int64(n)+1)
	offsetToKey := make(map[int]int, n)
	for i := range table {
		offsetToKey[segmentStart[i]] = i
	}
	bucketToKey := make([]int, n)
	for rank, off := range c0Bucket {
		bucketToKey[rank] = offsetToKey[int(off)]
	}

	off := make([]uint64, n)
	var values []uint64
	for rank := 0; rank < n; rank++ {
		off[rank] = uint64(len(values))
		forks := table[bucketToKey[rank]].forks
		values = append(values, uint64(len(forks)))
		for _, f := range forks {
			values = append(values, uint64(f.SALo), uint64(f.SAHi))
		}
	}

	return &Cache{depth: depth, c0: c0, keyFMI: keyFMI, off: off, values: values}, nil
}

// Lookup backward-searches suffix in the key-FMI and extends the match by a
// c_0 step, which keeps only cached keys that start with suffix (every key
// is immediately preceded by a c_0 delimiter and c_0 never occurs inside a
// key); if no key does, it returns (nil, false). Otherwise it reads the
// record of the first key in that range, which is suffix itself whenever
// suffix is a cached key; a suffix that is only a proper prefix of cached
// keys is not told apart. It reconstructs up to min(maxForks, k) forks at
// pos = startPos, typed LEAF iff startPos == -1.
func (c *Cache) Lookup(suffix []byte, startPos, maxForks int) ([]gfmi.Fork, bool) {
	if c.keyFMI == nil || len(suffix) == 0 {
		return nil, false
	}
	lo, hi, ok := c.keyFMI.BackwardSearch(suffix)
	if !ok {
		return nil, false
	}
	e, found := c.keyFMI.EncodingOf(c.c0)
	if !found {
		return nil, false
	}
	lo2, hi2 := c.keyFMI.LFStep(lo, hi, e)
	if hi2 <= lo2 {
		return nil, false
	}

	bucketRank := int(lo2) - 1
	wordOff := c.off[bucketRank]
	k := int(c.values[wordOff])
	if maxForks >= 0 && k > maxForks {
		k = maxForks
	}

	forkType := gfmi.ForkMain
	if startPos == -1 {
		forkType = gfmi.ForkLeaf
	}

	forks := make([]gfmi.Fork, 0, k)
	for i := 0; i < k; i++ {
		base := wordOff + 1 + uint64(i)*2
		forks = append(forks, gfmi.Fork{
			SALo: int64(c.values[base]),
			SAHi: int64(c.values[base+1]),
			Pos:  startPos,
			Type: forkType,
		})
	}
	return forks, true
}
