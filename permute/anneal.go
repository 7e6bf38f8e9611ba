package permute

import (
	"math"
	"math/rand"
)

// Annealer optimises a permutation of [0,N) against a set of constraint
// rows: the cost is the total number of contiguous runs of 1s across every
// row of the bin matrix (row i, column j set iff constraint i's vertex set
// contains the vertex currently sitting at permuted slot j). Fewer runs
// means each constraint's R2R interval list stays short.
type Annealer struct {
	rnd *rand.Rand

	temperature    float64
	scalingFactor  float64
	coolingFactor  float64
	minTemperature float64

	numVertices    int
	numConstraints int

	// binMatrix[row] has one byte per vertex slot; binMatrix[row][slot] is
	// 1 iff the vertex currently permuted into slot belongs to constraint
	// row's vertex set. Stored row-major (unlike the column-wise original)
	// since Go slice-of-slice access patterns favour a stable row handle.
	binMatrix [][]byte

	permutation []int32
	blockCounts []int32
	curCost     float64

	nextBlockCounts []int32
	nextCost        float64

	bestPermutation []int32
	bestCost        float64

	curIter int
}

// Config bundles the annealing schedule's tunables.
type Config struct {
	Temperature    float64
	ScalingFactor  float64
	CoolingFactor  float64
	MinTemperature float64
	Seed           int64
}

// DefaultConfig returns the conventional schedule: a high starting
// temperature, gentle cooling, and a minimum temperature that keeps the walk
// going long enough to converge on modest vertex counts.
func DefaultConfig() Config {
	return Config{
		Temperature:    100.0,
		ScalingFactor:  1.0,
		CoolingFactor:  0.9999,
		MinTemperature: 1e-3,
		Seed:           1,
	}
}

// NewAnnealer builds an Annealer over numVertices slots and the given
// constraint sets, starting from initialPermutation (or the identity
// permutation, if nil).
func NewAnnealer(numVertices int, constraints []ConstraintSet, initialPermutation []int32, cfg Config) *Annealer {
	perm := make([]int32, numVertices)
	invPerm := make([]int32, numVertices)
	for i := 0; i < numVertices; i++ {
		v := int32(i)
		if initialPermutation != nil {
			v = initialPermutation[i]
		}
		perm[i] = v
		invPerm[v] = int32(i)
	}

	numConstraints := len(constraints)
	binMatrix := make([][]byte, numConstraints)
	for c := 0; c < numConstraints; c++ {
		row := make([]byte, numVertices)
		for _, vid := range constraints[c].Vertices {
			row[invPerm[vid]] = 1
		}
		binMatrix[c] = row
	}

	blockCounts := make([]int32, numConstraints)
	var curCost float64
	for c, row := range binMatrix {
		runs := countRuns(row)
		blockCounts[c] = int32(runs)
		curCost += float64(runs)
	}

	bestPermutation := make([]int32, numVertices)
	copy(bestPermutation, perm)

	return &Annealer{
		rnd:             rand.New(rand.NewSource(cfg.Seed)),
		temperature:     cfg.Temperature,
		scalingFactor:   cfg.ScalingFactor,
		coolingFactor:   cfg.CoolingFactor,
		minTemperature:  cfg.MinTemperature,
		numVertices:     numVertices,
		numConstraints:  numConstraints,
		binMatrix:       binMatrix,
		permutation:     perm,
		blockCounts:     blockCounts,
		curCost:         curCost,
		nextBlockCounts: make([]int32, numConstraints),
		bestPermutation: bestPermutation,
		bestCost:        curCost,
	}
}

func countRuns(row []byte) int {
	runs := 0
	inBlock := false
	for _, b := range row {
		if b == 1 {
			if !inBlock {
				runs++
				inBlock = true
			}
		} else {
			inBlock = false
		}
	}
	return runs
}

// BestPermutation returns the lowest-cost permutation seen so far.
func (a *Annealer) BestPermutation() []int32 { return a.bestPermutation }

// BestCost returns the cost (total run count across all constraint rows) of
// BestPermutation.
func (a *Annealer) BestCost() float64 { return a.bestCost }

// HasMore reports whether the schedule has more cooling left to do.
func (a *Annealer) HasMore() bool { return a.temperature >= a.minTemperature }

// Iterate runs one proposal: picks two random slots, computes the cost
// delta incrementally (step), accepts or rejects by the Metropolis
// criterion, and cools the temperature.
func (a *Annealer) Iterate() {
	v1 := a.rnd.Intn(a.numVertices)
	v2 := v1
	for v2 == v1 {
		v2 = a.rnd.Intn(a.numVertices)
	}

	a.step(v1, v2)

	var acceptanceProb float64
	if a.nextCost < a.curCost {
		acceptanceProb = 1.0
	} else {
		acceptanceProb = math.Exp((a.curCost - a.nextCost) / (a.temperature * a.scalingFactor))
	}

	if acceptanceProb < a.rnd.Float64() {
		a.reject(v1, v2)
	} else {
		a.accept()
	}

	if a.curCost < a.bestCost {
		a.bestCost = a.curCost
		copy(a.bestPermutation, a.permutation)
	}

	a.temperature *= a.coolingFactor
	a.curIter++
}

// RunUntilDone iterates until HasMore reports the schedule is finished.
func (a *Annealer) RunUntilDone() {
	for a.HasMore() {
		a.Iterate()
	}
}

// step swaps v1/v2 in the matrix and permutation, and computes the
// resulting total run count incrementally: a swap only changes a row's run
// count through the four cells bordering the two swapped columns, so each row's
// delta is read off its immediate neighbours rather than rescanned in full.
// The delta is encoded as del = ±((a3+a2) - (a1+a0)), sign flipped by
// which of the two swapped cells held a 0.
func (a *Annealer) step(v1, v2 int) {
	s, b := v1, v2
	if b < s {
		s, b = b, s
	}
	adjacentPair := b == s+1

	nextCost := a.curCost
	for i := 0; i < a.numConstraints; i++ {
		row := a.binMatrix[i]
		if row[v1] == row[v2] {
			a.nextBlockCounts[i] = a.blockCounts[i]
			continue
		}
		vs := row[s]
		var a0, a1, a2, a3 int32
		if s > 0 {
			a0 = int32(row[s-1])
		}
		if adjacentPair {
			a1 = 0
			a2 = 0
		} else {
			a1 = int32(row[s+1])
			a2 = int32(row[b-1])
		}
		if b < a.numVertices-1 {
			a3 = int32(row[b+1])
		}
		sign := int32(1)
		if vs != 0 {
			sign = -1
		}
		del := sign * ((a3 + a2) - (a1 + a0))
		a.nextBlockCounts[i] = a.blockCounts[i] + del
		nextCost += float64(del)
	}
	a.nextCost = nextCost

	a.swapColumns(v1, v2)
}

func (a *Annealer) swapColumns(v1, v2 int) {
	for _, row := range a.binMatrix {
		row[v1], row[v2] = row[v2], row[v1]
	}
	a.permutation[v1], a.permutation[v2] = a.permutation[v2], a.permutation[v1]
}

func (a *Annealer) accept() {
	a.curCost = a.nextCost
	a.blockCounts, a.nextBlockCounts = a.nextBlockCounts, a.blockCounts
}

func (a *Annealer) reject(v1, v2 int) {
	a.swapColumns(v1, v2)
}
