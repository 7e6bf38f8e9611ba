package forkmatcher

import (
	"sort"

	"github.com/uensalo/gingo/gfmi"
)

// MatchDFS is the legacy recursive-task equivalent of Match: each new fork
// spawned from an incoming-edge R2R interval becomes a recursive call
// instead of a batched BFS round. Fork semantics (fork/merge-free single
// interval per branch, advance-by-character, LEAF/DEAD classification) are
// identical to Match; only the schedule differs, so the two always agree on
// the reported occurrence count. Retained as a fallback path; Match is the
// one the batch driver calls.
func MatchDFS(g *gfmi.GFMI, pattern []byte, opts Options) Result {
	m := len(pattern)
	if m == 0 {
		return Result{}
	}
	root := gfmi.Fork{SALo: 0, SAHi: g.FMIndex().BwtLength(), Pos: m - 1, Type: gfmi.ForkRoot}
	if !g.AdvanceFork(&root, pattern) {
		root.Type = gfmi.ForkDead
		return Result{Partial: []gfmi.Fork{root}}
	}

	var leaf, partial []gfmi.Fork
	matchDFSStep(g, root, pattern, opts.MaxForks, &leaf, &partial)
	sort.Slice(leaf, func(i, j int) bool { return leaf[i].SALo < leaf[j].SALo })
	return Result{Leaf: leaf, Partial: partial}
}

// matchDFSStep handles one fork's recursive descent: it forks over the
// fork's incoming-neighbour R2R range, then recurses into every surviving
// child (itself included) after advancing by the current pattern character.
func matchDFSStep(g *gfmi.GFMI, f gfmi.Fork, pattern []byte, maxForks int, leaf, partial *[]gfmi.Fork) {
	if f.Pos < 0 {
		f.Type = gfmi.ForkLeaf
		*leaf = append(*leaf, f)
		return
	}

	children := forkPhase(g, []gfmi.Fork{f}, pattern[f.Pos], maxForks)
	children = mergePhase(children)

	candidates := make([]gfmi.Fork, 0, 1+len(children))
	candidates = append(candidates, f)
	candidates = append(candidates, children...)

	for _, c := range candidates {
		if !g.LFStepFork(&c, pattern[f.Pos]) {
			c.Type = gfmi.ForkDead
			*partial = append(*partial, c)
			continue
		}
		matchDFSStep(g, c, pattern, maxForks, leaf, partial)
	}
}
