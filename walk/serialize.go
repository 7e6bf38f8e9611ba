package walk

import (
	"github.com/uensalo/gingo/bitstream"
	"github.com/uensalo/gingo/graph"
)

// Serialise packs the encoded graph into the gine binary layout: alphabet
// size, a 256-byte occupancy/encoding/decoding table trio, |V|/|E|/total-
// char-count counters, then per vertex: vid, label length, out-degree,
// out-edge vids, and the label's packed bits — each vertex's record padded
// to a 64-bit boundary for word-aligned reads back off the wire.
func (eg *EncodedGraph) Serialise() []byte {
	w := bitstream.NewWriter()
	w.WriteUint(0, 64) // placeholder for total bit length
	w.WriteUint(uint64(eg.alphabetSize), 64)

	var occ [256]bool
	for _, b := range eg.decodingTable {
		occ[b] = true
	}
	for i := 0; i < 256; i++ {
		if occ[i] {
			w.WriteUint(1, 8)
		} else {
			w.WriteUint(0, 8)
		}
	}
	for i := 0; i < 256; i++ {
		if eg.encodingTable[i] < 0 {
			w.WriteUint(0, 8)
		} else {
			w.WriteUint(uint64(eg.encodingTable[i]), 8)
		}
	}
	decoding := make([]byte, 256)
	copy(decoding, eg.decodingTable)
	for i := 0; i < 256; i++ {
		w.WriteUint(uint64(decoding[i]), 8)
	}

	n := len(eg.vertices)
	w.WriteUint(uint64(n), 64)
	var totalEdges, totalChars uint64
	for _, v := range eg.vertices {
		totalEdges += uint64(len(v.outEdges))
		totalChars += uint64(v.numChars)
	}
	w.WriteUint(totalEdges, 64)
	w.WriteUint(totalChars, 64)

	for vid, v := range eg.vertices {
		w.WriteUint(uint64(vid), 64)
		w.WriteUint(uint64(v.numChars), 64)
		w.WriteUint(uint64(len(v.outEdges)), 64)
		for _, e := range v.outEdges {
			w.WriteUint(uint64(e), 64)
		}
		for i := 0; i < v.numChars; i++ {
			c := v.bits.Read(uint64(i)*uint64(eg.bitsPerChar), eg.bitsPerChar)
			w.WriteUint(c, eg.bitsPerChar)
		}
		w.Align()
	}

	vec := w.Vector()
	vec.Write(0, vec.NBits(), 64)
	return vec.Serialise()
}

// Deserialise reconstructs an EncodedGraph from a buffer produced by
// Serialise.
func Deserialise(buf []byte) (*EncodedGraph, error) {
	probe := bitstream.FromBytes(buf, uint64(len(buf))*8)
	totalBits := probe.Read(0, 64)

	vec := bitstream.FromBytes(buf, totalBits)
	r := bitstream.NewReader(vec)
	r.ReadUint(64)

	eg := &EncodedGraph{}
	eg.alphabetSize = int(r.ReadUint(64))
	eg.bitsPerChar = bitsPerCharFor(eg.alphabetSize)

	var occ [256]bool
	for i := 0; i < 256; i++ {
		occ[i] = r.ReadUint(8) != 0
	}
	for i := range eg.encodingTable {
		eg.encodingTable[i] = -1
	}
	for i := 0; i < 256; i++ {
		v := int16(r.ReadUint(8))
		if occ[i] {
			eg.encodingTable[i] = v
		}
	}
	decoding := make([]byte, 256)
	for i := 0; i < 256; i++ {
		decoding[i] = byte(r.ReadUint(8))
	}
	eg.decodingTable = decoding[:eg.alphabetSize]

	n := int(r.ReadUint(64))
	r.ReadUint(64) // total edges (recomputable, kept for wire parity)
	r.ReadUint(64) // total chars (ditto)

	eg.vertices = make([]encodedVertex, n)
	for i := 0; i < n; i++ {
		r.ReadUint(64) // vid (== i, vertices are written in vid order)
		numChars := int(r.ReadUint(64))
		numEdges := int(r.ReadUint(64))
		outEdges := make([]graph.VertexID, numEdges)
		for j := range outEdges {
			outEdges[j] = graph.VertexID(r.ReadUint(64))
		}
		vw := bitstream.NewWriter()
		for j := 0; j < numChars; j++ {
			vw.WriteUint(r.ReadUint(eg.bitsPerChar), eg.bitsPerChar)
		}
		r.Align()
		eg.vertices[i] = encodedVertex{
			outEdges: outEdges,
			numChars: numChars,
			bits:     vw.Vector(),
		}
	}

	return eg, nil
}

func bitsPerCharFor(alphabetSize int) uint {
	n := alphabetSize
	if n < 1 {
		n = 1
	}
	bits := uint(0)
	v := n - 1
	for v > 0 {
		bits++
		v >>= 1
	}
	return bits
}
