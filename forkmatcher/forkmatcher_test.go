package forkmatcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uensalo/gingo/gfmi"
	"github.com/uensalo/gingo/graph"
)

func buildTwoVertexEdge() *graph.Graph {
	g := graph.New()
	g.AddVertex([]byte("AAA"))
	g.AddVertex([]byte("BBB"))
	g.AddEdge(0, 1)
	return g
}

func totalOccurrences(r Result) int64 {
	var n int64
	for _, f := range r.Leaf {
		n += f.SAHi - f.SALo
	}
	return n
}

func TestMatchCrossesVertexBoundary(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	// "AAABBB" contains "ABB" exactly once, spanning v0's last char and
	// v1's first two. Two forks die on the way and land in Partial: the
	// fork spawned into v0's tail while matching "B" (v0 ends in 'A'), and
	// the in-label "BB" fork, which no 'A' precedes.
	res := Match(f, []byte("ABB"), Options{MaxForks: -1})
	require.Len(t, res.Partial, 2)
	require.EqualValues(t, 1, totalOccurrences(res))
}

func TestMatchNoCrossing(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	res := Match(f, []byte("AAA"), Options{MaxForks: -1})
	require.EqualValues(t, 1, totalOccurrences(res))
}

func TestMatchSingleCharacter(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	// |P| = 1: must equal the sum of out-degrees of the character over all
	// labels (single-vertex matches only, no forking required). 'A' occurs
	// 3 times in v0 and 0 times in v1.
	res := Match(f, []byte("A"), Options{MaxForks: -1})
	require.EqualValues(t, 3, totalOccurrences(res))
}

func TestMatchAbsentPattern(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	res := Match(f, []byte("ZZZ"), Options{MaxForks: -1})
	require.Empty(t, res.Leaf)
	require.NotEmpty(t, res.Partial)
}

func TestMatchSingleVertexDegeneratesToBackwardSearch(t *testing.T) {
	g := graph.New()
	g.AddVertex([]byte("AGATAGATA"))
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	res := Match(f, []byte("AGA"), Options{MaxForks: -1})
	want := f.FMIndex().Count([]byte("AGA"))
	require.EqualValues(t, want, totalOccurrences(res))
}

func TestMatchDFSAgreesWithBFS(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	bfs := Match(f, []byte("ABB"), Options{MaxForks: -1})
	dfs := MatchDFS(f, []byte("ABB"), Options{MaxForks: -1})
	require.Equal(t, totalOccurrences(bfs), totalOccurrences(dfs))
}

func TestMatchWithOracleAgreesWithoutOracle(t *testing.T) {
	g := buildTwoVertexEdge()
	plain, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)
	oracle, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, true)
	require.NoError(t, err)

	a := Match(plain, []byte("ABB"), Options{MaxForks: -1})
	b := Match(oracle, []byte("ABB"), Options{MaxForks: -1})
	require.Equal(t, totalOccurrences(a), totalOccurrences(b))
}

func TestMergePhaseNoOverlap(t *testing.T) {
	forks := []gfmi.Fork{
		{SALo: 10, SAHi: 12},
		{SALo: 0, SAHi: 2},
		{SALo: 5, SAHi: 8},
	}
	merged := mergePhase(forks)
	require.Len(t, merged, 3)
	for i := 1; i < len(merged); i++ {
		require.Less(t, merged[i-1].SAHi, merged[i].SALo+1)
	}

	overlapping := []gfmi.Fork{
		{SALo: 5, SAHi: 8},
		{SALo: 0, SAHi: 3},
		{SALo: 2, SAHi: 6},
	}
	mergedOverlap := mergePhase(overlapping)
	require.Len(t, mergedOverlap, 1)
	require.Equal(t, int64(0), mergedOverlap[0].SALo)
	require.Equal(t, int64(8), mergedOverlap[0].SAHi)
}

func TestMatchForkBudgetNeverCountsMoreThanUncapped(t *testing.T) {
	g := graph.New()
	g.AddVertex([]byte("AAAA"))
	g.AddVertex([]byte("AAAA"))
	g.AddVertex([]byte("AAAA"))
	g.AddEdge(0, 2)
	g.AddEdge(1, 2)
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	full := Match(f, []byte("AAA"), Options{MaxForks: -1})
	capped := Match(f, []byte("AAA"), Options{MaxForks: 1})
	require.LessOrEqual(t, totalOccurrences(capped), totalOccurrences(full))
}
