// Package graph implements a string-labelled directed graph model:
// vertices with byte-string labels, directed edges, and adjacency lists
// kept on both sides (in and out), plus a brute-force k-mer utility used
// by the CLI's `utils spectrum` command.
//
// The graph owns its vertices and labels exclusively; gfmi.Build reads it
// without modifying it.
package graph

import "github.com/uensalo/gingo/kerr"

// VertexID identifies a vertex; vertices are numbered [0, N).
type VertexID int32

// Graph is a mutable directed graph builder; once built it is handed to
// gfmi.Build and should not be reused.
type Graph struct {
	labels  [][]byte
	outAdj  [][]VertexID
	inAdj   [][]VertexID
	edgeSet map[[2]VertexID]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{edgeSet: make(map[[2]VertexID]struct{})}
}

// AddVertex appends a vertex with the given label and returns its id. The
// label is copied; it must be non-empty and free of the five reserved byte
// values (checked later, at gfmi.Build time, once those are known).
func (g *Graph) AddVertex(label []byte) VertexID {
	id := VertexID(len(g.labels))
	cp := make([]byte, len(label))
	copy(cp, label)
	g.labels = append(g.labels, cp)
	g.outAdj = append(g.outAdj, nil)
	g.inAdj = append(g.inAdj, nil)
	return id
}

// AddEdge adds a directed edge src -> dst. Returns a MalformedInput error if
// either endpoint is out of range. Duplicate edges are de-duplicated.
func (g *Graph) AddEdge(src, dst VertexID) error {
	if int(src) < 0 || int(src) >= len(g.labels) || int(dst) < 0 || int(dst) >= len(g.labels) {
		return kerr.New(kerr.MalformedInput, "edge references unknown vertex")
	}
	key := [2]VertexID{src, dst}
	if _, exists := g.edgeSet[key]; exists {
		return nil
	}
	g.edgeSet[key] = struct{}{}
	g.outAdj[src] = append(g.outAdj[src], dst)
	g.inAdj[dst] = append(g.inAdj[dst], src)
	return nil
}

// NumVertices returns |V|.
func (g *Graph) NumVertices() int { return len(g.labels) }

// Label returns the label of vertex v.
func (g *Graph) Label(v VertexID) []byte { return g.labels[v] }

// OutNeighbours returns the out-adjacency list of v.
func (g *Graph) OutNeighbours(v VertexID) []VertexID { return g.outAdj[v] }

// InNeighbours returns the in-adjacency list of v.
func (g *Graph) InNeighbours(v VertexID) []VertexID { return g.inAdj[v] }

// ReservedBytes bundles the five globally reserved byte values: c0 < c1
// (vertex/codeword delimiters), a0/a1 (codeword alphabet), and the
// terminator appended before suffix-array construction.
type ReservedBytes struct {
	C0, C1, A0, A1, Terminator byte
}

// DefaultReservedBytes returns the conventional reserved-byte assignment.
func DefaultReservedBytes() ReservedBytes {
	return ReservedBytes{C0: '(', C1: ')', A0: ',', A1: '.', Terminator: 0}
}

// Validate checks c0 < c1 and that no label uses a reserved byte.
func (g *Graph) Validate(rb ReservedBytes) error {
	if rb.C0 >= rb.C1 {
		return kerr.New(kerr.MalformedInput, "reserved byte ordering violated: c0 must be < c1")
	}
	reserved := [5]byte{rb.C0, rb.C1, rb.A0, rb.A1, rb.Terminator}
	for v, label := range g.labels {
		if len(label) == 0 {
			return kerr.New(kerr.MalformedInput, "vertex label must be non-empty")
		}
		for _, b := range label {
			for _, r := range reserved {
				if b == r {
					return kerr.New(kerr.MalformedInput, "vertex label uses a reserved byte")
				}
			}
		}
		_ = v
	}
	return nil
}

// KmerSpectrum brute-force-enumerates every length-k substring occurring
// across all vertex labels independently (no cross-vertex spanning),
// mapping each k-mer to its occurrence count. It exists for small-scale
// cross-checking of the indexed walk search, not as a production k-mer
// counter (it does not span vertex boundaries, unlike a real walk match).
func (g *Graph) KmerSpectrum(k int) map[string]int {
	spectrum := make(map[string]int)
	if k <= 0 {
		return spectrum
	}
	for _, label := range g.labels {
		if len(label) < k {
			continue
		}
		for i := 0; i+k <= len(label); i++ {
			spectrum[string(label[i:i+k])]++
		}
	}
	return spectrum
}
