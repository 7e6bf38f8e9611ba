package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildScenarioA() *Graph {
	g := New()
	g.AddVertex([]byte("ACCGTA"))
	g.AddVertex([]byte("ACGTTA"))
	g.AddVertex([]byte("GTTATA"))
	g.AddVertex([]byte("CCGTTA"))
	g.AddEdge(0, 1)
	g.AddEdge(0, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)
	return g
}

func TestAdjacency(t *testing.T) {
	g := buildScenarioA()
	require.Equal(t, 4, g.NumVertices())
	require.ElementsMatch(t, []VertexID{1, 2}, g.OutNeighbours(0))
	require.ElementsMatch(t, []VertexID{0}, g.InNeighbours(1))
	require.ElementsMatch(t, []VertexID{1, 2}, g.InNeighbours(3))
}

func TestAddEdgeUnknownVertex(t *testing.T) {
	g := New()
	g.AddVertex([]byte("A"))
	err := g.AddEdge(0, 5)
	require.Error(t, err)
}

func TestValidateRejectsReservedByte(t *testing.T) {
	g := New()
	g.AddVertex([]byte("AC(GT"))
	err := g.Validate(DefaultReservedBytes())
	require.Error(t, err)
}

func TestValidateOK(t *testing.T) {
	g := buildScenarioA()
	require.NoError(t, g.Validate(DefaultReservedBytes()))
}

func TestKmerSpectrum(t *testing.T) {
	g := New()
	g.AddVertex([]byte("AAAA"))
	spec := g.KmerSpectrum(2)
	require.Equal(t, 3, spec["AA"])
}
