// Package decode translates the suffix-array intervals a fork reports into
// concrete (vertex id, in-label offset) origins.
package decode

import (
	"sort"

	"github.com/uensalo/gingo/gfmi"
	"github.com/uensalo/gingo/graph"
)

// Match is one decoded occurrence: the pattern occurs in VID's label
// starting at Offset (continuing into a successor vertex's label if the
// match ran past the end, per the forked matcher's cross-vertex semantics).
type Match struct {
	VID    graph.VertexID
	Offset int64
}

// Decoder holds a non-owning reference to a GFMI plus the one derived table
// it needs: each vertex's base text position (the offset of its c_0
// delimiter in the linearisation), indexed by vid.
type Decoder struct {
	g           *gfmi.GFMI
	vertexBases []int64
}

// New builds a Decoder over g. vertexBases[vid] is read off the c_0 bucket's
// SA values (fmi.SARange(1,|V|+1)) via VertexOf, which maps each c_0-bucket
// BWT rank back to its vid.
func New(g *gfmi.GFMI) *Decoder {
	n := g.NumVertices()
	c0Bucket := g.FMIndex().SARange(1, int64(n)+1)
	vertexBases := make([]int64, n)
	for i, textPos := range c0Bucket {
		vertexBases[int(g.VertexOf(i))] = textPos
	}
	return &Decoder{g: g, vertexBases: vertexBases}
}

// DecodeOne decodes up to maxMatches (all, if maxMatches < 0) of the
// occurrences in SA interval [saLo, saHi), returning them sorted by
// (VID, Offset).
func (d *Decoder) DecodeOne(saLo, saHi int64, maxMatches int64) []Match {
	noToDecode := saHi - saLo
	if maxMatches >= 0 && maxMatches < noToDecode {
		noToDecode = maxMatches
	}
	if noToDecode <= 0 {
		return nil
	}

	positions := d.g.FMIndex().SARange(saLo, saLo+noToDecode)
	matches := make([]Match, len(positions))
	for i, pos := range positions {
		vid := d.closestVertex(pos)
		matches[i] = Match{VID: graph.VertexID(vid), Offset: pos - d.vertexBases[vid] - 1}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].VID != matches[j].VID {
			return matches[i].VID < matches[j].VID
		}
		return matches[i].Offset < matches[j].Offset
	})
	return matches
}

// closestVertex finds the largest vid whose base text position is <= pos,
// by binary search. vertexBases is sorted ascending when indexed by raw vid
// because the linearisation lays vertex segments out in raw vid order
// (gfmi.Build's S is built for v := 0..n-1, not in permuted order), so each
// vertex's base position strictly increases with its vid.
func (d *Decoder) closestVertex(pos int64) int {
	lo, hi := 0, len(d.vertexBases)-1
	closest := 0
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if d.vertexBases[mid] <= pos {
			closest = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return closest
}

// DecodeForks decodes each fork's SA interval in turn, capping the running
// total of decoded matches across all forks at maxMatches (unlimited, if
// maxMatches < 0), mirroring decode_ends' running total so a caller with a
// max-matches budget sees a deterministic, fork-order-respecting truncation.
func (d *Decoder) DecodeForks(forks []gfmi.Fork, maxMatches int64) [][]Match {
	out := make([][]Match, 0, len(forks))
	var total int64
	for _, f := range forks {
		forkSize := f.SAHi - f.SALo
		n := forkSize
		if maxMatches >= 0 {
			remaining := maxMatches - total
			if remaining <= 0 {
				break
			}
			if forkSize > remaining {
				n = remaining
			}
		}
		decoded := d.DecodeOne(f.SALo, f.SAHi, n)
		out = append(out, decoded)
		total += int64(len(decoded))
		if maxMatches >= 0 && total >= maxMatches {
			break
		}
	}
	return out
}
