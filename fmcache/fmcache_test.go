package fmcache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uensalo/gingo/forkmatcher"
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

func totalOccurrences(r forkmatcher.Result) int64 {
	var n int64
	for _, f := range r.Leaf {
		n += f.SAHi - f.SALo
	}
	return n
}

func TestCacheParityWithUncachedMatch(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	cache, err := Build(f, 2, 16, 4)
	require.NoError(t, err)
	require.Equal(t, 2, cache.Depth())

	// "A" and "B" are shorter than the cache's depth of 2, so MatchCached
	// must resolve them via a depth-1 key rather than the depth-2 table.
	for _, pattern := range [][]byte{[]byte("A"), []byte("B"), []byte("AB"), []byte("ABB"), []byte("AAA"), []byte("BBB")} {
		plain := forkmatcher.Match(f, pattern, forkmatcher.Options{MaxForks: -1})
		cached := forkmatcher.MatchCached(f, pattern, cache, forkmatcher.Options{MaxForks: -1})
		require.Equal(t, totalOccurrences(plain), totalOccurrences(cached), "pattern=%s", pattern)
	}

	// Pin down the actual counts so a regression that makes both sides
	// agree on the wrong (e.g. zero) answer is still caught.
	require.Equal(t, int64(3), totalOccurrences(forkmatcher.MatchCached(f, []byte("A"), cache, forkmatcher.Options{MaxForks: -1})))
	require.Equal(t, int64(3), totalOccurrences(forkmatcher.MatchCached(f, []byte("B"), cache, forkmatcher.Options{MaxForks: -1})))
	require.Equal(t, int64(1), totalOccurrences(forkmatcher.MatchCached(f, []byte("AB"), cache, forkmatcher.Options{MaxForks: -1})))
}

func TestCacheLookupMiss(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	cache, err := Build(f, 2, 16, 4)
	require.NoError(t, err)

	_, ok := cache.Lookup([]byte("ZZ"), -1, -1)
	require.False(t, ok)
}

func TestCacheRejectsNonPositiveDepth(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	_, err = Build(f, 0, 16, 4)
	require.Error(t, err)
}

func TestCacheSerialiseDeserialiseRoundTrip(t *testing.T) {
	g := buildTwoVertexEdge()
	f, err := gfmi.Build(g, nil, graph.DefaultReservedBytes(), 16, 4, false)
	require.NoError(t, err)

	cache, err := Build(f, 2, 16, 4)
	require.NoError(t, err)

	buf := cache.Serialise()
	cache2, err := Deserialise(buf)
	require.NoError(t, err)
	require.Equal(t, cache.Depth(), cache2.Depth())

	forks1, ok1 := cache.Lookup([]byte("A"), 1, -1)
	forks2, ok2 := cache2.Lookup([]byte("A"), 1, -1)
	require.Equal(t, ok1, ok2)
	require.Equal(t, forks1, forks2)

	// Agreement between the two caches alone wouldn't catch both being
	// wrong the same way; check the deserialised cache's lookup (pattern
	// "A" is shorter than depth 2, so this exercises a depth-1 key) against
	// an uncached match over the same GFMI.
	pattern := []byte("A")
	plain := forkmatcher.Match(f, pattern, forkmatcher.Options{MaxForks: -1})
	cached := forkmatcher.MatchCached(f, pattern, cache2, forkmatcher.Options{MaxForks: -1})
	require.Equal(t, totalOccurrences(plain), totalOccurrences(cached))
	require.Equal(t, int64(3), totalOccurrences(cached))
}
