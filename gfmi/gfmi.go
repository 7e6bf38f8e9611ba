// Package gfmi builds the graph FM-index: a permuted linearisation of a
// string-labelled graph, its FM-index, and the range-to-range (R2R)
// translation structure that converts an incoming vertex's c_0-bucket rank
// into the SA ranges of its incoming neighbours.
//
// Construction is build-then-freeze: build the full text, derive the
// suffix array, freeze the derived tables, discard the raw graph.
package gfmi

import (
	"sort"

	"github.com/uensalo/gingo/container"
	"github.com/uensalo/gingo/fmindex"
	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/imt"
	"github.com/uensalo/gingo/internal/kit"
	"github.com/uensalo/gingo/kerr"
)

// Interval is an inclusive [lo,hi] integer range, aliasing container.Interval
// so callers of R2RQuery need not import container directly.
type Interval = container.Interval

// GFMI is an immutable graph FM-index. Once built it owns the permutation,
// bwt_to_vid, the underlying FM-index, and the R2R; the source graph is not
// retained.
type GFMI struct {
	numVertices int
	c0, c1      byte
	rb          graph.ReservedBytes

	permutation []graph.VertexID // permutation[i] is unused directly; kept for serialisation parity
	invPerm     []int32          // invPerm[vid] = codeword index / permuted slot assigned to vid

	fmi *fmindex.FMIndex

	bwtToVID     []int32 // bwt_to_vid[c0BwtRank] = vid
	r2r          *imt.Tree
	oracle       *imt.OIMT
	hasOracle    bool
	codewordBits uint
}

// Build constructs a GFMI over g using permutation (or the identity
// permutation, if nil). rb supplies the five reserved bytes; rb.C0 must be
// < rb.C1. rankRate/isaRate are forwarded to the inner FM-index.
func Build(g *graph.Graph, permutation []graph.VertexID, rb graph.ReservedBytes, rankRate, isaRate uint, withOracle bool) (*GFMI, error) {
	if err := g.Validate(rb); err != nil {
		return nil, err
	}
	n := g.NumVertices()

	perm := permutation
	if perm == nil {
		perm = make([]graph.VertexID, n)
		for i := range perm {
			perm[i] = graph.VertexID(i)
		}
	}
	if len(perm) != n {
		return nil, kerr.New(kerr.MalformedInput, "permutation cardinality does not match graph vertex count")
	}
	seen := make([]bool, n)
	for _, v := range perm {
		if int(v) < 0 || int(v) >= n || seen[v] {
			return nil, kerr.New(kerr.MalformedInput, "permutation is not a bijection over [0,|V|)")
		}
		seen[v] = true
	}

	invPerm := make([]int32, n)
	for i, v := range perm {
		invPerm[v] = int32(i)
	}

	codewordBits := kit.Log2Ceil(maxInt(n, 1))
	codewords := generateCodewords(rb.A0, rb.A1, n, codewordBits)

	// Build S in raw vertex-id order (not permuted order); each vertex's
	// codeword is that of its assigned permuted slot (invPerm[vid]). This
	// coincides with iterating in permuted order, since the codeword at a
	// vertex's c_1 position only needs to encode that vertex's permuted
	// slot, independent of where its c_0 segment physically sits in S.
	segmentStart := make([]int, n)
	total := 0
	for v := 0; v < n; v++ {
		segmentStart[v] = total
		total += 1 + len(g.Label(graph.VertexID(v))) + 1 + int(codewordBits)
	}
	s := make([]byte, 0, total+1)
	for v := 0; v < n; v++ {
		s = append(s, rb.C0)
		s = append(s, g.Label(graph.VertexID(v))...)
		s = append(s, rb.C1)
		s = append(s, codewords[invPerm[v]]...)
	}
	s = append(s, rb.Terminator)

	fmi, err := fmindex.Build(s, rankRate, isaRate)
	if err != nil {
		return nil, err
	}

	// Step 3: extract the c_0 SA bucket (SA rows [1,V]) and derive bwt_to_vid.
	c0Bucket := fmi.SARange(1, int64(n)+1)

	offsetToVID := make(map[int]int32, n)
	for v := 0; v < n; v++ {
		offsetToVID[segmentStart[v]] = int32(v)
	}
	bwtToVID := make([]int32, n)
	for i, off := range c0Bucket {
		bwtToVID[i] = offsetToVID[int(off)]
	}

	// Step 3c/3d: build R2R keyed by c_0 BWT rank; values are the incoming
	// neighbours' permuted slots (== their c_1-bucket BWT rank).
	keyIntervals := make([][]int32, n)
	for i := 0; i < n; i++ {
		vid := bwtToVID[i]
		neighbours := g.InNeighbours(graph.VertexID(vid))
		vals := make([]int32, len(neighbours))
		for j, nb := range neighbours {
			vals[j] = invPerm[nb]
		}
		sort.Slice(vals, func(a, b int) bool { return vals[a] < vals[b] })
		keyIntervals[i] = vals
	}

	r2r := imt.Build(n, func(key int) []container.Interval {
		return compactValuesToIntervals(keyIntervals[key])
	})

	f := &GFMI{
		numVertices:  n,
		c0:           rb.C0,
		c1:           rb.C1,
		rb:           rb,
		permutation:  append([]graph.VertexID(nil), perm...),
		invPerm:      invPerm,
		fmi:          fmi,
		bwtToVID:     bwtToVID,
		r2r:          r2r,
		codewordBits: codewordBits,
	}

	if withOracle {
		vertexLastCharEnc := make([]uint16, n)
		for slot := 0; slot < n; slot++ {
			vertexLastCharEnc[slot] = fmi.Get(int64(n) + 1 + int64(slot))
		}
		f.oracle = imt.BuildOIMT(n, func(key int) []container.Interval {
			return compactValuesToIntervals(keyIntervals[key])
		}, func(v int) uint16 { return vertexLastCharEnc[v] })
		f.hasOracle = true
	}

	return f, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// generateCodewords returns n fixed-length binary strings over {a0,a1} of
// width bits, codewords[k] encoding k in standard binary (a0=0, a1=1), so
// that lexicographic string order coincides with ascending numeric order.
func generateCodewords(a0, a1 byte, n int, width uint) [][]byte {
	out := make([][]byte, n)
	for k := 0; k < n; k++ {
		cw := make([]byte, width)
		v := k
		for pos := int(width) - 1; pos >= 0; pos-- {
			if v%2 == 0 {
				cw[pos] = a0
			} else {
				cw[pos] = a1
			}
			v /= 2
		}
		out[k] = cw
	}
	return out
}

// compactValuesToIntervals merges a set of individual integer values into
// minimal [lo,hi] runs. It does not sort: vals must already be sorted
// ascending on entry.
func compactValuesToIntervals(vals []int32) []container.Interval {
	if len(vals) == 0 {
		return nil
	}
	out := make([]container.Interval, 0, len(vals))
	lo, hi := int64(vals[0]), int64(vals[0])
	for _, v := range vals[1:] {
		if int64(v) == hi+1 {
			hi = int64(v)
			continue
		}
		out = append(out, container.Interval{Lo: lo, Hi: hi})
		lo, hi = int64(v), int64(v)
	}
	out = append(out, container.Interval{Lo: lo, Hi: hi})
	return out
}

// buildTreeFromStored rebuilds an R2R tree from per-key interval lists read
// back off the wire (already compacted at serialisation time).
func buildTreeFromStored(n int, keyIntervals [][]container.Interval) *imt.Tree {
	return imt.Build(n, func(key int) []container.Interval { return keyIntervals[key] })
}

// buildOIMTFromStored rebuilds the oracle from the same per-key interval
// lists plus the c_1-bucket last-character encodings, mirroring the build
// path in Build so a deserialised GFMI's oracle is bit-for-bit equivalent
// to one built fresh from the same graph and permutation.
func buildOIMTFromStored(n int, keyIntervals [][]container.Interval, vertexLastCharEnc []uint16) *imt.OIMT {
	return imt.BuildOIMT(n, func(key int) []container.Interval { return keyIntervals[key] },
		func(v int) uint16 { return vertexLastCharEnc[v] })
}

// NumVertices returns |V|.
func (f *GFMI) NumVertices() int { return f.numVertices }

// HasOracle reports whether the OIMT oracle R2R was built.
func (f *GFMI) HasOracle() bool { return f.hasOracle }

// FMIndex exposes the underlying FM-index (used by the matcher and cache
// builder).
func (f *GFMI) FMIndex() *fmindex.FMIndex { return f.fmi }

// VertexOf returns the vertex id whose c_0 segment occupies c0-bucket BWT
// rank i.
func (f *GFMI) VertexOf(i int) graph.VertexID { return graph.VertexID(f.bwtToVID[i]) }

// ReservedBytes returns the reserved byte configuration used to build this
// index.
func (f *GFMI) ReservedBytes() graph.ReservedBytes { return f.rb }

// CodewordBits returns the fixed codeword bit width, ceil(log2(|V|)).
func (f *GFMI) CodewordBits() uint { return f.codewordBits }
