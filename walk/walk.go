// Package walk implements the log2-bit-packed encoded graph and its walk
// enumerator: given a decoded (vertex id, offset) origin and a query
// string, it walks outgoing edges to produce every full vertex chain whose
// concatenated labels are consistent with that origin and the query.
package walk

import (
	"github.com/uensalo/gingo/bitstream"
	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/internal/kit"
)

// EncodedGraph re-encodes a graph's labels over a dense alphabet (the set of
// bytes actually occurring in some label), each character packed into
// ceil(log2(|alphabet|)) bits, so walk matching compares fixed-width
// encodings instead of raw bytes.
type EncodedGraph struct {
	alphabetSize  int
	bitsPerChar   uint
	encodingTable [256]int16 // -1 if the byte never occurs in any label
	decodingTable []byte
	vertices      []encodedVertex
}

type encodedVertex struct {
	outEdges []graph.VertexID
	numChars int
	bits     *bitstream.Vector
}

// Build re-encodes g's labels into an EncodedGraph.
func Build(g *graph.Graph) *EncodedGraph {
	var occ [256]bool
	n := g.NumVertices()
	for v := 0; v < n; v++ {
		for _, b := range g.Label(graph.VertexID(v)) {
			occ[b] = true
		}
	}

	var encodingTable [256]int16
	for i := range encodingTable {
		encodingTable[i] = -1
	}
	var decodingTable []byte
	for b := 0; b < 256; b++ {
		if occ[b] {
			encodingTable[b] = int16(len(decodingTable))
			decodingTable = append(decodingTable, byte(b))
		}
	}
	alphabetSize := len(decodingTable)
	bitsPerChar := kit.Log2Ceil(maxInt(alphabetSize, 1))

	vertices := make([]encodedVertex, n)
	for v := 0; v < n; v++ {
		label := g.Label(graph.VertexID(v))
		w := bitstream.NewWriter()
		for _, b := range label {
			w.WriteUint(uint64(encodingTable[b]), bitsPerChar)
		}
		vertices[v] = encodedVertex{
			outEdges: append([]graph.VertexID(nil), g.OutNeighbours(graph.VertexID(v))...),
			numChars: len(label),
			bits:     w.Vector(),
		}
	}

	return &EncodedGraph{
		alphabetSize:  alphabetSize,
		bitsPerChar:   bitsPerChar,
		encodingTable: encodingTable,
		decodingTable: decodingTable,
		vertices:      vertices,
	}
}

// AlphabetSize returns the number of distinct bytes occurring across all
// vertex labels.
func (eg *EncodedGraph) AlphabetSize() int { return eg.alphabetSize }

// Node is one vertex visited by a walk: [StringLo,StringHi) is the slice of
// the query matched while on this vertex, [GraphLo,GraphHi) the
// corresponding slice of the vertex's own label.
type Node struct {
	VID                graph.VertexID
	StringLo, StringHi int
	GraphLo, GraphHi   int
}

// Walk is an ordered chain of vertices consistent with a query string.
type Walk []Node

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// EnumerateWalks returns every walk starting at (vid, offset) whose
// concatenated, offset-adjusted labels contain query as a prefix match
// consuming the whole query. Returns nil if query contains a byte absent
// from the graph's alphabet.
func (eg *EncodedGraph) EnumerateWalks(query []byte, vid graph.VertexID, offset int) []Walk {
	encodedQuery := make([]uint16, len(query))
	for i, b := range query {
		e := eg.encodingTable[b]
		if e < 0 {
			return nil
		}
		encodedQuery[i] = uint16(e)
	}

	root := Walk{{VID: vid, StringLo: 0, StringHi: 0, GraphLo: offset, GraphHi: offset}}
	var out []Walk
	eg.extend(root, encodedQuery, &out)
	return out
}

// extend matches w's tail node against query starting at its current
// string/graph cursors, forking one continuation per outgoing edge (beyond
// the first, which reuses w) when the vertex exhausts before the query
// does, and recording w as a completed walk once the query is exhausted.
// A walk dies silently (returns without appending to out) on a mismatch or
// a dead end with the query still unsatisfied.
func (eg *EncodedGraph) extend(w Walk, query []uint16, out *[]Walk) {
	last := w[len(w)-1]
	v := &eg.vertices[last.VID]
	noCharsToMatch := minInt(len(query)-last.StringHi, v.numChars-last.GraphHi)

	for i := 0; i < noCharsToMatch; i++ {
		enc := v.bits.Read(uint64(last.GraphHi+i)*uint64(eg.bitsPerChar), eg.bitsPerChar)
		if uint16(enc) != query[last.StringHi+i] {
			return
		}
	}
	last.GraphHi += noCharsToMatch
	last.StringHi += noCharsToMatch
	w[len(w)-1] = last

	stringExhausted := last.StringHi == len(query)
	vertexExhausted := last.GraphHi == v.numChars

	switch {
	case vertexExhausted && !stringExhausted:
		if len(v.outEdges) == 0 {
			return
		}
		for i := 1; i < len(v.outEdges); i++ {
			branch := cloneWalk(w)
			branch = append(branch, Node{VID: v.outEdges[i], StringLo: last.StringHi, StringHi: last.StringHi})
			eg.extend(branch, query, out)
		}
		w = append(w, Node{VID: v.outEdges[0], StringLo: last.StringHi, StringHi: last.StringHi})
		eg.extend(w, query, out)
	case stringExhausted:
		*out = append(*out, w)
	}
}

func cloneWalk(w Walk) Walk {
	cp := make(Walk, len(w))
	copy(cp, w)
	return cp
}
