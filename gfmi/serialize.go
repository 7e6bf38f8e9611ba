package gfmi

import (
	"github.com/uensalo/gingo/bitstream"
	"github.com/uensalo/gingo/container"
	"github.com/uensalo/gingo/fmindex"
	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/internal/kit"
)

// Serialise packs the GFMI into the gini binary layout: header fields
// (c_0, c_1, the a_0/a_1/terminator bytes, |V|), the permutation table,
// bwt_to_vid, the embedded FM-index blob, then per-key R2R interval lists.
// Two trailing bits follow the literal layout: a reserved 0 bit, then a
// one-bit oracle flag, so a round trip can
// restore the OIMT when it was present — the oracle itself is not stored,
// since it is fully reconstructible from the FM-index and R2R data already
// on the wire.
func (f *GFMI) Serialise() []byte {
	w := bitstream.NewWriter()

	w.WriteUint(0, 64) // placeholder for total bit length
	w.WriteUint(uint64(f.c0), 40)
	w.WriteUint(uint64(f.c1), 40)
	w.WriteUint(uint64(f.rb.A0), 8)
	w.WriteUint(uint64(f.rb.A1), 8)
	w.WriteUint(uint64(f.rb.Terminator), 8)
	w.WriteUint(uint64(f.numVertices), 40)

	for _, v := range f.permutation {
		w.WriteUint(uint64(v), 40)
	}
	for _, vid := range f.bwtToVID {
		w.WriteUint(uint64(vid), 40)
	}

	w.Align()
	fmiBytes := f.fmi.Serialise()
	w.WriteUint(uint64(len(fmiBytes))*8, 64)
	for _, b := range fmiBytes {
		w.WriteUint(uint64(b), 8)
	}

	w.Align()
	imtStart := w.Pos()
	w.WriteUint(0, 64) // placeholder for imt bit length
	for key := 0; key < f.numVertices; key++ {
		ivs := f.r2r.Query(key, key, -1)
		w.WriteUint(uint64(len(ivs)), 32)
		for _, iv := range ivs {
			w.WriteUint(uint64(iv.Lo), 40)
			w.WriteUint(uint64(iv.Hi), 40)
		}
	}
	imtBits := w.Pos() - imtStart - 64

	w.WriteUint(0, 1)
	if f.hasOracle {
		w.WriteUint(1, 1)
	} else {
		w.WriteUint(0, 1)
	}

	vec := w.Vector()
	vec.Write(imtStart, imtBits, 64)
	vec.Write(0, vec.NBits(), 64)
	return vec.Serialise()
}

// Deserialise reconstructs a GFMI from a buffer produced by Serialise.
func Deserialise(buf []byte) (*GFMI, error) {
	probe := bitstream.FromBytes(buf, uint64(len(buf))*8)
	totalBits := probe.Read(0, 64)

	vec := bitstream.FromBytes(buf, totalBits)
	r := bitstream.NewReader(vec)
	r.ReadUint(64)

	f := &GFMI{}
	f.c0 = byte(r.ReadUint(40))
	f.c1 = byte(r.ReadUint(40))
	a0 := byte(r.ReadUint(8))
	a1 := byte(r.ReadUint(8))
	term := byte(r.ReadUint(8))
	n := int(r.ReadUint(40))
	f.numVertices = n
	f.rb = graph.ReservedBytes{C0: f.c0, C1: f.c1, A0: a0, A1: a1, Terminator: term}

	f.permutation = make([]graph.VertexID, n)
	for i := 0; i < n; i++ {
		f.permutation[i] = graph.VertexID(r.ReadUint(40))
	}
	f.invPerm = make([]int32, n)
	for i, v := range f.permutation {
		f.invPerm[v] = int32(i)
	}

	f.bwtToVID = make([]int32, n)
	for i := 0; i < n; i++ {
		f.bwtToVID[i] = int32(r.ReadUint(40))
	}

	r.Align()
	fmiBits := r.ReadUint(64)
	fmiBytes := make([]byte, (fmiBits+7)/8)
	for i := range fmiBytes {
		fmiBytes[i] = byte(r.ReadUint(8))
	}
	fmi, err := fmindex.Deserialise(fmiBytes)
	if err != nil {
		return nil, err
	}
	f.fmi = fmi

	r.Align()
	r.ReadUint(64) // imt bit length, recomputed implicitly by reading through it
	keyIntervals := make([][]container.Interval, n)
	for key := 0; key < n; key++ {
		k := int(r.ReadUint(32))
		ivs := make([]container.Interval, k)
		for j := 0; j < k; j++ {
			lo := int64(r.ReadUint(40))
			hi := int64(r.ReadUint(40))
			ivs[j] = container.Interval{Lo: lo, Hi: hi}
		}
		keyIntervals[key] = ivs
	}
	r.ReadUint(1) // reserved padding bit
	hasOracle := r.ReadUint(1) == 1

	f.r2r = buildTreeFromStored(n, keyIntervals)
	if hasOracle && n > 0 {
		vertexLastCharEnc := make([]uint16, n)
		for slot := 0; slot < n; slot++ {
			vertexLastCharEnc[slot] = fmi.Get(int64(n) + 1 + int64(slot))
		}
		f.oracle = buildOIMTFromStored(n, keyIntervals, vertexLastCharEnc)
		f.hasOracle = true
	}

	f.codewordBits = kit.Log2Ceil(maxInt(n, 1))

	return f, nil
}
