// Package fmindex implements an FM-index: rank/select over a packed BWT
// with a block rank cache, sparse ISA samples plus an SA-occupancy
// bitvector for SA(i) lookups, and a C-table reconstructed at load time
// from the final block's cache.
//
// The suffix-array-to-BWT derivation builds the SA, derives the BWT and
// its bookkeeping, then discards the raw text; the packed storage is
// built on gingo/bitstream, and alphabet/C-table counting is a direct
// byte-histogram scan over the text.
package fmindex

import (
	"math/bits"
	"sort"

	"github.com/uensalo/gingo/bitstream"
	"github.com/uensalo/gingo/container"
	"github.com/uensalo/gingo/internal/kit"
	"github.com/uensalo/gingo/kerr"
)

// FMIndex is an immutable, shareable FM-index. Once built it may be read
// concurrently by any number of goroutines without synchronisation.
type FMIndex struct {
	bwtLen int

	rankRate uint
	isaRate  uint

	alphabet []byte     // encoding -> byte
	encode   [256]int32 // byte -> encoding, -1 if absent
	charBits uint

	bwt *bitstream.Vector // packed, charBits per row

	cTable []int64 // C[e] = count of encoded chars < e across the whole BWT

	// Block rank cache: for block b (rows [b*rankRate, (b+1)*rankRate)),
	// blockBase[b*alphaSize+e] is the cumulative count of e in
	// bwt[0 : b*rankRate).
	blockBase []int64

	// ISA sampling: isaSamples holds packed SA values for rows flagged in
	// occupancy, in row order; occupancy is a bit per BWT row.
	occupancy       *bitstream.Vector
	wordPopcount    []int32 // prefix sum of set bits per 64-bit word of occupancy
	isaSamples      *bitstream.Vector
	isaSampleWidth  uint
	isaSampleStride uint // = isaRate as given to Build; not serialised
}

// Build constructs an FM-index over text (which must already carry its own
// terminator). rankRate and isaRate must be >= 1.
func Build(text []byte, rankRate, isaRate uint) (*FMIndex, error) {
	if rankRate == 0 || isaRate == 0 {
		return nil, kerr.New(kerr.MalformedInput, "rank_sample_rate and isa_sample_rate must be >= 1")
	}
	n := len(text)
	if n == 0 {
		return &FMIndex{rankRate: rankRate, isaRate: isaRate, bwt: bitstream.New(), occupancy: bitstream.New(), isaSamples: bitstream.New()}, nil
	}

	sa := container.BuildSuffixArray(text)

	bwtBytes := make([]byte, n)
	for i, s := range sa {
		if s == 0 {
			bwtBytes[i] = text[n-1]
		} else {
			bwtBytes[i] = text[s-1]
		}
	}

	present := make(map[byte]bool)
	for _, b := range bwtBytes {
		present[b] = true
	}
	alphabet := make([]byte, 0, len(present))
	for b := range present {
		alphabet = append(alphabet, b)
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })

	fm := &FMIndex{
		bwtLen:   n,
		rankRate: rankRate,
		isaRate:  isaRate,
		alphabet: alphabet,
		charBits: max1(kit.Log2Ceil(len(alphabet))),
	}
	for i := range fm.encode {
		fm.encode[i] = -1
	}
	for e, b := range alphabet {
		fm.encode[b] = int32(e)
	}

	fm.bwt = bitstream.New()
	for i, b := range bwtBytes {
		fm.bwt.Write(uint64(i)*uint64(fm.charBits), uint64(fm.encode[b]), fm.charBits)
	}
	fm.bwt.Fit(uint64(n) * uint64(fm.charBits))

	alphaSize := len(alphabet)
	fm.cTable = make([]int64, alphaSize+1)
	for _, b := range bwtBytes {
		fm.cTable[fm.encode[b]+1]++
	}
	for e := 1; e <= alphaSize; e++ {
		fm.cTable[e] += fm.cTable[e-1]
	}

	nBlocks := (n + int(rankRate) - 1) / int(rankRate)
	if nBlocks == 0 {
		nBlocks = 1
	}
	fm.blockBase = make([]int64, nBlocks*alphaSize)
	running := make([]int64, alphaSize)
	for row := 0; row < n; row++ {
		if row%int(rankRate) == 0 {
			b := row / int(rankRate)
			copy(fm.blockBase[b*alphaSize:(b+1)*alphaSize], running)
		}
		running[fm.encode[bwtBytes[row]]]++
	}

	fm.buildISASamples(sa, isaRate)

	return fm, nil
}

func max1(w uint) uint {
	if w == 0 {
		return 1
	}
	return w
}

func (fm *FMIndex) buildISASamples(sa []int32, isaRate uint) {
	n := len(sa)
	fm.occupancy = bitstream.New()
	fm.isaSamples = bitstream.New()
	fm.isaSampleWidth = max1(kit.Log2Ceil(n + 1))
	fm.isaSampleStride = isaRate

	nWords := (n + 63) / 64
	fm.wordPopcount = make([]int32, nWords+1)

	samplePos := uint64(0)
	for i := 0; i < n; i++ {
		if int(sa[i])%int(isaRate) == 0 {
			fm.occupancy.Write(uint64(i), 1, 1)
			fm.isaSamples.Write(samplePos*uint64(fm.isaSampleWidth), uint64(sa[i]), fm.isaSampleWidth)
			samplePos++
		}
	}
	fm.occupancy.Fit(uint64(n))
	fm.isaSamples.Fit(samplePos * uint64(fm.isaSampleWidth))

	words := fm.occupancy.Words()
	acc := int32(0)
	for w := 0; w < nWords; w++ {
		fm.wordPopcount[w] = acc
		if w < len(words) {
			acc += int32(bits.OnesCount64(words[w]))
		}
	}
	fm.wordPopcount[nWords] = acc
}

// BwtLength returns the length of the indexed text (== number of BWT rows).
func (fm *FMIndex) BwtLength() int64 { return int64(fm.bwtLen) }

// AlphabetSize returns the number of distinct encoded characters.
func (fm *FMIndex) AlphabetSize() int { return len(fm.alphabet) }

// EncodingOf returns the encoding of byte b, or (0,false) if b never occurs
// in the indexed text.
func (fm *FMIndex) EncodingOf(b byte) (uint16, bool) {
	e := fm.encode[b]
	if e < 0 {
		return 0, false
	}
	return uint16(e), true
}

// ByteOf returns the byte value for encoding e.
func (fm *FMIndex) ByteOf(e uint16) byte { return fm.alphabet[e] }

// Get returns the encoded character at BWT row pos.
func (fm *FMIndex) Get(pos int64) uint16 {
	return uint16(fm.bwt.Read(uint64(pos)*uint64(fm.charBits), fm.charBits))
}

// CValue returns C[e], the number of encoded BWT characters strictly less
// than e.
func (fm *FMIndex) CValue(e uint16) int64 { return fm.cTable[e] }

// Rank returns the number of occurrences of encoded character e in
// bwt[0..pos] inclusive. pos must be in [0, bwtLen).
func (fm *FMIndex) Rank(e uint16, pos int64) int64 {
	if pos < 0 {
		return 0
	}
	alphaSize := int64(len(fm.alphabet))
	block := pos / int64(fm.rankRate)
	base := fm.blockBase[block*alphaSize+int64(e)]

	blockStart := block * int64(fm.rankRate)
	count := base
	for row := blockStart; row <= pos; row++ {
		if fm.Get(row) == e {
			count++
		}
	}
	return count
}

// rankBefore returns Rank(e, pos-1), i.e. 0 when pos <= 0.
func (fm *FMIndex) rankBefore(e uint16, pos int64) int64 {
	if pos <= 0 {
		return 0
	}
	return fm.Rank(e, pos-1)
}

// LFStep performs one backward-search step: given the SA interval [lo,hi)
// of a pattern suffix, returns the interval of e·suffix. The returned
// interval is empty (lo==hi) if e·suffix does not occur.
func (fm *FMIndex) LFStep(lo, hi int64, e uint16) (int64, int64) {
	rankLo := fm.rankBefore(e, lo)
	rankHi := fm.rankBefore(e, hi)
	c := fm.cTable[e]
	return c + rankLo, c + rankHi
}

// BackwardSearch runs a full backward search for pattern (right-to-left)
// and returns the resulting SA interval and whether it is non-empty.
func (fm *FMIndex) BackwardSearch(pattern []byte) (lo, hi int64, ok bool) {
	lo, hi = 0, fm.BwtLength()
	for i := len(pattern) - 1; i >= 0; i-- {
		e, found := fm.EncodingOf(pattern[i])
		if !found {
			return 0, 0, false
		}
		lo, hi = fm.LFStep(lo, hi, e)
		if lo >= hi {
			return 0, 0, false
		}
	}
	return lo, hi, true
}

// Count returns the number of occurrences of pattern in the indexed text.
func (fm *FMIndex) Count(pattern []byte) int64 {
	lo, hi, ok := fm.BackwardSearch(pattern)
	if !ok {
		return 0
	}
	return hi - lo
}

// popcountBefore returns the number of set bits in occupancy[0:pos).
func (fm *FMIndex) popcountBefore(pos int64) int64 {
	word := pos / 64
	bitOff := uint(pos % 64)
	count := int64(fm.wordPopcount[word])
	if bitOff > 0 {
		words := fm.occupancy.Words()
		var w uint64
		if int(word) < len(words) {
			w = words[word]
		}
		mask := (uint64(1) << bitOff) - 1
		count += int64(bits.OnesCount64(w & mask))
	}
	return count
}

// LF returns the row index reached by one LF-mapping step from row: the row
// whose suffix is bwt[row]·(the suffix at row), i.e. the preceding text
// position.
func (fm *FMIndex) LF(row int64) int64 {
	e := fm.Get(row)
	return fm.cTable[e] + fm.rankBefore(e, row)
}

// SA returns SA[pos]: the starting text offset of the pos-th lexicographic
// suffix, by LF-stepping until a sampled row is found.
func (fm *FMIndex) SA(pos int64) int64 {
	steps := int64(0)
	row := pos
	for fm.occupancy.Read(uint64(row), 1) == 0 {
		row = fm.LF(row)
		steps++
	}
	sampleIdx := fm.popcountBefore(row)
	sample := int64(fm.isaSamples.Read(uint64(sampleIdx)*uint64(fm.isaSampleWidth), fm.isaSampleWidth))
	return sample + steps
}

// SARange enumerates SA[lo:hi] for a half-open interval.
func (fm *FMIndex) SARange(lo, hi int64) []int64 {
	if hi <= lo {
		return nil
	}
	out := make([]int64, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, fm.SA(i))
	}
	return out
}

// Locate returns every text offset at which pattern occurs.
func (fm *FMIndex) Locate(pattern []byte) []int64 {
	lo, hi, ok := fm.BackwardSearch(pattern)
	if !ok {
		return nil
	}
	return fm.SARange(lo, hi)
}

// RankRate and IsaRate expose the sampling rates used at construction, for
// serialisation.
func (fm *FMIndex) RankRate() uint { return fm.rankRate }
func (fm *FMIndex) IsaRate() uint  { return fm.isaRate }
