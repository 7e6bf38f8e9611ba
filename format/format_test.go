package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uensalo/gingo/graph"
)

func TestParseGingRoundTrip(t *testing.T) {
	input := "V\t0\tACGT\nV\t1\tTTTT\nE\t0\t1\n\n# not a real comment but still ignored as unknown type\n"
	g, err := ParseGing(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, g.NumVertices())
	require.Equal(t, []byte("ACGT"), g.Label(0))
	require.Equal(t, []graph.VertexID{1}, g.OutNeighbours(0))

	var buf bytes.Buffer
	require.NoError(t, WriteGing(&buf, g))

	g2, err := ParseGing(&buf)
	require.NoError(t, err)
	require.Equal(t, g.NumVertices(), g2.NumVertices())
	require.Equal(t, g.Label(0), g2.Label(0))
	require.Equal(t, g.OutNeighbours(0), g2.OutNeighbours(0))
}

func TestParseGingRejectsOutOfOrderVIDs(t *testing.T) {
	_, err := ParseGing(strings.NewReader("V\t1\tACGT\n"))
	require.Error(t, err)
}

func TestParseGingRejectsUnknownEdgeEndpoint(t *testing.T) {
	_, err := ParseGing(strings.NewReader("V\t0\tACGT\nE\t0\t5\n"))
	require.Error(t, err)
}

func TestParseRGFABuildsGraphFromSegmentNames(t *testing.T) {
	input := "H\tVN:Z:1.0\nS\ts1\tACGT\nS\ts2\tTTTT\nL\ts1\t+\ts2\t+\t0M\n"
	g, err := ParseRGFA(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, g.NumVertices())
	require.Equal(t, []byte("ACGT"), g.Label(0))
	require.Equal(t, []byte("TTTT"), g.Label(1))
	require.Equal(t, []graph.VertexID{1}, g.OutNeighbours(0))
}

func TestParseRGFARejectsUnknownLinkEndpoint(t *testing.T) {
	input := "S\ts1\tACGT\nL\ts1\t+\tnope\t+\t0M\n"
	_, err := ParseRGFA(strings.NewReader(input))
	require.Error(t, err)
}

func TestParsePermutationRoundTrip(t *testing.T) {
	perm := []graph.VertexID{2, 0, 1}
	var buf bytes.Buffer
	require.NoError(t, WritePermutation(&buf, perm))

	parsed, err := ParsePermutation(&buf, 3)
	require.NoError(t, err)
	require.Equal(t, perm, parsed)
}

func TestParsePermutationRejectsCardinalityMismatch(t *testing.T) {
	_, err := ParsePermutation(strings.NewReader("0\n1\n"), 3)
	require.Error(t, err)
}
