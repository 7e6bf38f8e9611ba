// Package permute builds the constraint sets a permutation must respect and
// finds a good permutation over them via simulated annealing: vertices that
// commonly precede the same k-mer should end up adjacent in suffix-array
// order, so the R2R's interval count (and therefore fork count) stays low.
package permute

import (
	"sort"

	"github.com/uensalo/gingo/graph"
)

// ConstraintSet is one bucket: every in-neighbour of a path whose walk spun
// out the same length-len(Prefix) prefix must land in the same run of rows
// once the permutation is applied, or the R2R will have to split that run.
type ConstraintSet struct {
	Prefix   string
	Vertices []graph.VertexID
}

// path tracks one in-flight walk during the bucketed recursion: head_vid is
// the walk's origin (whose in-neighbours become the constraint, once the
// walk's accumulated prefix lands in a bucket), end_vid/pos track where the
// walk currently is inside a (possibly different, if multiple_vertex_span)
// vertex's label.
type path struct {
	headVID graph.VertexID
	endVID  graph.VertexID
	pos     int
}

// ExtractConstraints enumerates, for every distinct prefix up to maxDepth
// characters read forwards from the start of each vertex's label (and, with
// multipleVertexSpan, on into its out-neighbours), the set of vertices that can
// precede a walk spelling that prefix. When multipleVertexSpan is false, a
// path that runs off the end of its current vertex's label is dropped
// instead of continuing into an out-neighbour, matching a permutation
// strategy that only optimises within-vertex locality.
func ExtractConstraints(g *graph.Graph, maxDepth int, multipleVertexSpan bool) []ConstraintSet {
	alphabet := collectAlphabet(g)

	paths := make([]path, g.NumVertices())
	for v := 0; v < g.NumVertices(); v++ {
		paths[v] = path{headVID: graph.VertexID(v), endVID: graph.VertexID(v), pos: 0}
	}

	sets := make(map[string][]graph.VertexID)
	extractHelper(paths, "", sets, alphabet, g, maxDepth, multipleVertexSpan)

	out := make([]ConstraintSet, 0, len(sets))
	for prefix, vertices := range sets {
		sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })
		out = append(out, ConstraintSet{Prefix: prefix, Vertices: vertices})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Prefix) != len(out[j].Prefix) {
			return len(out[i].Prefix) < len(out[j].Prefix)
		}
		return out[i].Prefix < out[j].Prefix
	})
	return out
}

// collectAlphabet gathers the distinct bytes used across all vertex labels,
// in sorted order, so buckets are iterated deterministically.
func collectAlphabet(g *graph.Graph) []byte {
	seen := make(map[byte]bool)
	for v := 0; v < g.NumVertices(); v++ {
		for _, b := range g.Label(graph.VertexID(v)) {
			seen[b] = true
		}
	}
	alphabet := make([]byte, 0, len(seen))
	for b := range seen {
		alphabet = append(alphabet, b)
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })
	return alphabet
}

// extractHelper sorts paths into alphabet buckets by the next character
// their walk spells, records each bucket's constraint set (the union of
// in-neighbours of every path's head vertex), and recurses into non-empty
// buckets until maxDepth is reached.
func extractHelper(paths []path, prefix string, sets map[string][]graph.VertexID, alphabet []byte, g *graph.Graph, maxDepth int, multipleVertexSpan bool) {
	if len(paths) == 0 {
		return
	}

	buckets := make(map[byte][]path, len(alphabet))

	for _, p := range paths {
		label := g.Label(p.endVID)
		if multipleVertexSpan && p.pos >= len(label) {
			for _, next := range g.OutNeighbours(p.endVID) {
				nextLabel := g.Label(next)
				if len(nextLabel) == 0 {
					continue
				}
				c := nextLabel[0]
				buckets[c] = append(buckets[c], path{headVID: p.headVID, endVID: next, pos: 1})
			}
			continue
		}
		if p.pos >= len(label) {
			continue
		}
		c := label[p.pos]
		buckets[c] = append(buckets[c], path{headVID: p.headVID, endVID: p.endVID, pos: p.pos + 1})
	}

	for _, c := range alphabet {
		bucket := buckets[c]
		if len(bucket) == 0 {
			continue
		}
		bucketPrefix := prefix + string(c)

		seen := make(map[graph.VertexID]bool)
		var vertices []graph.VertexID
		for _, p := range bucket {
			for _, in := range g.InNeighbours(p.headVID) {
				if !seen[in] {
					seen[in] = true
					vertices = append(vertices, in)
				}
			}
		}
		sets[bucketPrefix] = vertices

		if len(bucketPrefix) < maxDepth {
			extractHelper(bucket, bucketPrefix, sets, alphabet, g, maxDepth, multipleVertexSpan)
		}
	}
}
