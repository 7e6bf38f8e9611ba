package walk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uensalo/gingo/graph"
)

func buildBranchingGraph() *graph.Graph {
	g := graph.New()
	g.AddVertex([]byte("ACCGTA")) // 0
	g.AddVertex([]byte("ACGTTA")) // 1
	g.AddVertex([]byte("GTTATA")) // 2
	g.AddVertex([]byte("CCGTTA")) // 3
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)
	return g
}

func TestEnumerateWalksSingleVertexMatch(t *testing.T) {
	g := buildBranchingGraph()
	eg := Build(g)

	walks := eg.EnumerateWalks([]byte("CCG"), 0, 1)
	require.Len(t, walks, 1)
	require.Len(t, walks[0], 1)
	require.Equal(t, graph.VertexID(0), walks[0][0].VID)
}

func TestEnumerateWalksCrossesVertexBoundary(t *testing.T) {
	g := buildBranchingGraph()
	eg := Build(g)

	// v0="ACCGTA" has one character left at offset 5 ("A"); matching "AAC"
	// consumes that last 'A', then must cross into an out-neighbour whose
	// label starts "AC" — only v1="ACGTTA" qualifies (v2 starts with 'G').
	walks := eg.EnumerateWalks([]byte("AAC"), 0, 5)
	require.NotEmpty(t, walks)
	for _, w := range walks {
		require.Len(t, w, 2)
		require.Equal(t, graph.VertexID(0), w[0].VID)
		require.Equal(t, graph.VertexID(1), w[1].VID)
	}
}

func TestEnumerateWalksForksAtBranch(t *testing.T) {
	g := buildBranchingGraph()
	eg := Build(g)

	// v0 ends at offset 6, so the query forks into both out-neighbours
	// (1, 2); only v1 starts with 'A', so only the walk into v1 survives.
	walks := eg.EnumerateWalks([]byte("A"), 0, 6)
	visited := make(map[graph.VertexID]bool)
	for _, w := range walks {
		require.Len(t, w, 2)
		visited[w[1].VID] = true
	}
	require.True(t, visited[1])
}

func TestEnumerateWalksRejectsUnknownByte(t *testing.T) {
	g := buildBranchingGraph()
	eg := Build(g)

	walks := eg.EnumerateWalks([]byte("XYZ"), 0, 0)
	require.Nil(t, walks)
}

func TestEnumerateWalksDeadEndNoMatch(t *testing.T) {
	g := buildBranchingGraph()
	eg := Build(g)

	// v3 ("CCGTTA") has no outgoing edges; a query that runs past its end
	// cannot be satisfied and no walk should be reported.
	walks := eg.EnumerateWalks([]byte("TAAC"), 3, 4)
	require.Empty(t, walks)
}

func TestSerialiseDeserialiseRoundTrip(t *testing.T) {
	g := buildBranchingGraph()
	eg := Build(g)

	buf := eg.Serialise()
	eg2, err := Deserialise(buf)
	require.NoError(t, err)
	require.Equal(t, eg.AlphabetSize(), eg2.AlphabetSize())

	walks1 := eg.EnumerateWalks([]byte("TACG"), 0, 4)
	walks2 := eg2.EnumerateWalks([]byte("TACG"), 0, 4)
	require.Equal(t, walks1, walks2)
}
