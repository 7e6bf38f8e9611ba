package fmindex

import (
	"math/bits"

	"github.com/uensalo/gingo/bitstream"
	"github.com/uensalo/gingo/internal/kit"
)

// Serialise packs the FM-index into a self-contained binary layout: header
// fields, alphabet table, the ISA-sample/occupancy block, then the BWT
// block chain (per-block cumulative counts followed by the block's packed
// characters).
//
// ISA samples are packed at their minimal bit width (ceil(log2(bwtLen+1))
// bits) rather than as raw 64-bit words, matching how they're held in
// memory — "packed" rather than "u64-per-sample" is the actual space
// saving this layout is after, and round-tripping only requires internal
// consistency, not a byte-for-byte match to an external reader.
func (fm *FMIndex) Serialise() []byte {
	w := bitstream.NewWriter()

	w.WriteUint(0, 64) // placeholder for total bit length, patched below
	w.WriteUint(uint64(fm.bwtLen), 40)
	w.WriteUint(uint64(fm.rankRate), 40)
	w.WriteUint(uint64(fm.isaRate), 64)
	w.WriteUint(uint64(len(fm.alphabet)), 40)

	for e, b := range fm.alphabet {
		w.WriteUint(uint64(b), 40)
		w.WriteUint(uint64(e), 40)
	}

	w.Align()
	w.WriteUint(uint64(fm.isaSampleWidth), 40)
	nSamples := uint64(0)
	if fm.isaSampleWidth > 0 {
		nSamples = fm.isaSamples.NBits() / uint64(fm.isaSampleWidth)
	}
	w.WriteUint(nSamples, 64)
	for i := uint64(0); i < nSamples; i++ {
		w.WriteUint(fm.isaSamples.Read(i*uint64(fm.isaSampleWidth), fm.isaSampleWidth), fm.isaSampleWidth)
	}

	w.Align()
	w.WriteUint(uint64(fm.bwtLen), 64) // occupancy bit count
	for i := 0; i < fm.bwtLen; i++ {
		w.WriteUint(fm.occupancy.Read(uint64(i), 1), 1)
	}

	w.Align()
	alphaSize := len(fm.alphabet)
	nBlocks := len(fm.blockBase) / max(alphaSize, 1)
	w.WriteUint(uint64(nBlocks), 64)
	for b := 0; b < nBlocks; b++ {
		for e := 0; e < alphaSize; e++ {
			w.WriteUint(uint64(fm.blockBase[b*alphaSize+e]), 40)
		}
	}
	for i := 0; i < fm.bwtLen; i++ {
		w.WriteUint(uint64(fm.Get(int64(i))), fm.charBits)
	}

	vec := w.Vector()
	totalBits := vec.NBits()
	vec.Write(0, totalBits, 64)
	return vec.Serialise()
}

// Deserialise reconstructs an FM-index from a buffer produced by Serialise.
// The C-table is reconstructed from the final block's cache plus a tail
// scan.
func Deserialise(buf []byte) (*FMIndex, error) {
	// Bit length is unknown until read; read it first assuming >=64 bits
	// of payload, then re-wrap with the exact length for subsequent reads.
	probe := bitstream.FromBytes(buf, uint64(len(buf))*8)
	totalBits := probe.Read(0, 64)

	vec := bitstream.FromBytes(buf, totalBits)
	r := bitstream.NewReader(vec)
	r.ReadUint(64) // total bit length, already consumed

	fm := &FMIndex{}
	fm.bwtLen = int(r.ReadUint(40))
	fm.rankRate = uint(r.ReadUint(40))
	fm.isaRate = uint(r.ReadUint(64))
	alphaSize := int(r.ReadUint(40))

	fm.alphabet = make([]byte, alphaSize)
	for i := range fm.encode {
		fm.encode[i] = -1
	}
	for e := 0; e < alphaSize; e++ {
		b := byte(r.ReadUint(40))
		ee := int(r.ReadUint(40))
		fm.alphabet[ee] = b
		fm.encode[b] = int32(ee)
	}
	fm.charBits = max1(kit.Log2Ceil(alphaSize))

	r.Align()
	fm.isaSampleWidth = uint(r.ReadUint(40))
	nSamples := r.ReadUint(64)
	fm.isaSamples = bitstream.New()
	for i := uint64(0); i < nSamples; i++ {
		v := r.ReadUint(fm.isaSampleWidth)
		fm.isaSamples.Write(i*uint64(fm.isaSampleWidth), v, fm.isaSampleWidth)
	}
	fm.isaSamples.Fit(nSamples * uint64(fm.isaSampleWidth))

	r.Align()
	nOccBits := r.ReadUint(64)
	fm.occupancy = bitstream.New()
	for i := uint64(0); i < nOccBits; i++ {
		fm.occupancy.Write(i, r.ReadUint(1), 1)
	}
	fm.occupancy.Fit(nOccBits)

	nWords := (fm.bwtLen + 63) / 64
	fm.wordPopcount = make([]int32, nWords+1)
	words := fm.occupancy.Words()
	acc := int32(0)
	for wi := 0; wi < nWords; wi++ {
		fm.wordPopcount[wi] = acc
		if wi < len(words) {
			acc += int32(bits.OnesCount64(words[wi]))
		}
	}
	fm.wordPopcount[nWords] = acc

	r.Align()
	nBlocks := int(r.ReadUint(64))
	fm.blockBase = make([]int64, nBlocks*max(alphaSize, 1))
	for b := 0; b < nBlocks; b++ {
		for e := 0; e < alphaSize; e++ {
			fm.blockBase[b*alphaSize+e] = int64(r.ReadUint(40))
		}
	}

	fm.bwt = bitstream.New()
	for i := 0; i < fm.bwtLen; i++ {
		v := r.ReadUint(fm.charBits)
		fm.bwt.Write(uint64(i)*uint64(fm.charBits), v, fm.charBits)
	}
	fm.bwt.Fit(uint64(fm.bwtLen) * uint64(fm.charBits))

	// Reconstruct the C-table from the final block's cache plus a scan of
	// the tail rows after the last block boundary.
	fm.cTable = make([]int64, alphaSize+1)
	if nBlocks > 0 {
		lastBlock := nBlocks - 1
		counts := make([]int64, alphaSize)
		copy(counts, fm.blockBase[lastBlock*alphaSize:(lastBlock+1)*alphaSize])
		for row := lastBlock * int(fm.rankRate); row < fm.bwtLen; row++ {
			counts[fm.Get(int64(row))]++
		}
		for e := 0; e < alphaSize; e++ {
			fm.cTable[e+1] = fm.cTable[e] + counts[e]
		}
	}

	return fm, nil
}

