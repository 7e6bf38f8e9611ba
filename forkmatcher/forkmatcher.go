// Package forkmatcher implements the breadth-first, fork-spawning pattern
// matcher over a GFMI: a pattern is consumed right-to-left while the set of
// active suffix-array forks grows across graph edges (via the R2R/OIMT) and
// shrinks as candidate intervals go empty.
//
// The single BFS round (fork, merge, advance) is exported as Step so the
// FM-table cache builder (which grows keys one character at a time rather
// than matching a whole pattern) can reuse the exact same primitive.
package forkmatcher

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/uensalo/gingo/gfmi"
	"github.com/uensalo/gingo/internal/kit"
)

// Options controls a match's fork budget.
type Options struct {
	// MaxForks caps the number of forks tracked at any point; -1 means
	// uncapped. Once the budget is hit, the fork phase spawns no further
	// candidate forks; those candidates are dropped and do not appear in
	// Partial.
	MaxForks int
}

// Result is the outcome of matching one pattern: surviving LEAF forks
// (exact matches) and forks that died partway (diagnostics / budget
// overflow).
type Result struct {
	Leaf    []gfmi.Fork
	Partial []gfmi.Fork
}

// Cache is satisfied by an FM-table cache: a lookup of the trailing
// min(len(pattern), Depth()) characters of a pattern, bootstrapping a
// search by a single FM-index lookup instead of a full backward search.
type Cache interface {
	Depth() int
	Lookup(suffix []byte, startPos, maxForks int) ([]gfmi.Fork, bool)
}

// Match runs an uncached search for pattern against g.
func Match(g *gfmi.GFMI, pattern []byte, opts Options) Result {
	m := len(pattern)
	if m == 0 {
		return Result{}
	}
	root := gfmi.Fork{SALo: 0, SAHi: g.FMIndex().BwtLength(), Pos: m - 1, Type: gfmi.ForkRoot}
	if !g.AdvanceFork(&root, pattern) {
		root.Type = gfmi.ForkDead
		return Result{Partial: []gfmi.Fork{root}}
	}
	if root.Pos < 0 {
		root.Type = gfmi.ForkLeaf
		return Result{Leaf: []gfmi.Fork{root}}
	}
	return run(g, []gfmi.Fork{root}, pattern, opts.MaxForks)
}

// MatchCached runs a search bootstrapped from cache: the trailing
// min(len(pattern), cache.Depth()) characters are looked up directly, and
// the BFS loop resumes from the returned fork list.
func MatchCached(g *gfmi.GFMI, pattern []byte, cache Cache, opts Options) Result {
	m := len(pattern)
	if m == 0 {
		return Result{}
	}
	k := cache.Depth()
	if k > m {
		k = m
	}
	startPos := m - k - 1
	forks, ok := cache.Lookup(pattern[m-k:], startPos, opts.MaxForks)
	if !ok || len(forks) == 0 {
		return Result{}
	}
	if startPos < 0 {
		return Result{Leaf: forks}
	}
	return run(g, forks, pattern, opts.MaxForks)
}

// BatchMatch matches every pattern in patterns concurrently (one goroutine
// per query, via errgroup) and returns results in input order — the driver
// writes each result to its own slot, so no reordering step is needed.
func BatchMatch(g *gfmi.GFMI, patterns [][]byte, opts Options) []Result {
	results := make([]Result, len(patterns))
	var eg errgroup.Group
	for i := range patterns {
		i := i
		eg.Go(func() error {
			results[i] = Match(g, patterns[i], opts)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

// run drives the per-step BFS loop until the pattern is exhausted or no
// forks remain active.
func run(g *gfmi.GFMI, active []gfmi.Fork, pattern []byte, maxForks int) Result {
	var leaf, partial []gfmi.Fork
	for len(active) > 0 && active[0].Pos >= 0 {
		survivors, dead := Step(g, active, pattern[active[0].Pos], maxForks)
		partial = append(partial, dead...)
		active = survivors
	}
	for _, f := range active {
		f.Type = gfmi.ForkLeaf
		leaf = append(leaf, f)
	}
	sort.Slice(leaf, func(i, j int) bool { return leaf[i].SALo < leaf[j].SALo })
	return Result{Leaf: leaf, Partial: partial}
}

// Step performs one BFS round (fork phase, merge phase, advance phase) over
// active, all of which must share the same Pos. nextChar is the pattern
// character about to be consumed this round (P[pos]); it both drives the
// oracle-narrowed R2R lookup in the fork phase and the LF-step in the
// advance phase.
func Step(g *gfmi.GFMI, active []gfmi.Fork, nextChar byte, maxForks int) (survivors, dead []gfmi.Fork) {
	if len(active) == 0 {
		return nil, nil
	}
	newForks := forkPhase(g, active, nextChar, maxForks)
	newForks = mergePhase(newForks)

	toAdvance := make([]gfmi.Fork, 0, len(active)+len(newForks))
	toAdvance = append(toAdvance, active...)
	toAdvance = append(toAdvance, newForks...)
	return advancePhase(g, toAdvance, nextChar)
}

// forkPhase emits one candidate new fork per R2R interval returned for each
// active fork whose precedence range over c_0 is non-empty, capped so the
// running total (already-active plus newly emitted) never exceeds maxForks.
func forkPhase(g *gfmi.GFMI, active []gfmi.Fork, nextChar byte, maxForks int) []gfmi.Fork {
	V := int64(g.NumVertices())
	c0 := g.C0()
	var newForks []gfmi.Fork
	total := len(active)

	for _, f := range active {
		if maxForks >= 0 && total >= maxForks {
			break
		}
		c0Lo, c0Hi, ok := g.PrecedenceRange(f, c0)
		if !ok || c0Lo >= c0Hi {
			continue
		}
		cap := -1
		if maxForks >= 0 {
			cap = maxForks - total
			if cap < 0 {
				cap = 0
			}
		}
		ivs := g.R2RQuery(c0Lo-1, c0Hi-2, nextChar, cap)
		for _, iv := range ivs {
			newForks = append(newForks, gfmi.Fork{
				SALo: V + 1 + iv.Lo,
				SAHi: V + 2 + iv.Hi,
				Pos:  f.Pos,
				Type: gfmi.ForkMain,
			})
			total++
		}
	}
	return newForks
}

// Compact sorts and merges a fork list by sa_lo the same way the BFS merge
// phase does, exported for the FM-table cache builder's "compact it and
// insert" step.
func Compact(forks []gfmi.Fork) []gfmi.Fork { return mergePhase(forks) }

// mergePhase sorts new forks by sa_lo and merges any two whose intervals
// overlap or abut, so the result never has two active forks with
// overlapping SA intervals.
func mergePhase(forks []gfmi.Fork) []gfmi.Fork {
	if len(forks) == 0 {
		return nil
	}
	sort.Slice(forks, func(i, j int) bool { return forks[i].SALo < forks[j].SALo })
	merged := make([]gfmi.Fork, 0, len(forks))
	cur := forks[0]
	for _, f := range forks[1:] {
		if cur.SAHi >= f.SALo {
			if f.SAHi > cur.SAHi {
				cur.SAHi = f.SAHi
			}
			continue
		}
		merged = append(merged, cur)
		cur = f
	}
	merged = append(merged, cur)
	return merged
}

// advancePhase LF-steps every fork in toAdvance by nextChar, in parallel,
// splitting into one task per worker via kit.JobsPerTask. Forks whose
// interval collapses are reported as dead; survivors past the last
// character are marked LEAF.
// The two output vectors are append-only and each guarded by its own mutex,
// since advancePhase is the only point where concurrent writers share state.
func advancePhase(g *gfmi.GFMI, toAdvance []gfmi.Fork, nextChar byte) (survivors, dead []gfmi.Fork) {
	n := len(toAdvance)
	if n == 0 {
		return nil, nil
	}

	const maxWorkers = 8
	workers := maxWorkers
	if workers > n {
		workers = n
	}
	jobsPerTask := kit.JobsPerTask(uint(n), uint(workers))

	var survMu, deadMu sync.Mutex
	var wg sync.WaitGroup

	start := 0
	for _, count := range jobsPerTask {
		if count == 0 {
			continue
		}
		chunk := toAdvance[start : start+int(count)]
		start += int(count)

		wg.Add(1)
		go func(chunk []gfmi.Fork) {
			defer wg.Done()
			var localSurv, localDead []gfmi.Fork
			for _, f := range chunk {
				ok := g.LFStepFork(&f, nextChar)
				if !ok {
					f.Type = gfmi.ForkDead
					localDead = append(localDead, f)
					continue
				}
				if f.Pos < 0 {
					f.Type = gfmi.ForkLeaf
				}
				localSurv = append(localSurv, f)
			}
			if len(localSurv) > 0 {
				survMu.Lock()
				survivors = append(survivors, localSurv...)
				survMu.Unlock()
			}
			if len(localDead) > 0 {
				deadMu.Lock()
				dead = append(dead, localDead...)
				deadMu.Unlock()
			}
		}(chunk)
	}
	wg.Wait()
	return survivors, dead
}
