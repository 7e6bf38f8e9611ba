// Package format implements the graph text format collaborators: the tab-
// separated `ging` format, a minimal rGFA reader, and the one-vid-per-line
// permutation file — every parser returns the same in-memory graph.Graph, so
// the core never needs to know which text format a graph arrived in.
package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/kerr"
)

// ParseGing reads the tab-separated ging format: "V\t<vid>\t<label>" vertex
// records and "E\t<src>\t<dst>" edge records, one per line. Unknown record
// types are ignored; blank lines are skipped. Vertex records must appear in
// ascending vid order starting at 0 (the graph assigns ids by append order).
func ParseGing(r io.Reader) (*graph.Graph, error) {
	g := graph.New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "V":
			if len(fields) < 3 {
				return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("ging line %d: malformed vertex record", lineNo))
			}
			vid, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, kerr.Wrapf(kerr.MalformedInput, err, "ging line %d: bad vid", lineNo)
			}
			if int(vid) != g.NumVertices() {
				return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("ging line %d: vertex records must be in ascending vid order starting at 0", lineNo))
			}
			g.AddVertex([]byte(fields[2]))
		case "E":
			if len(fields) < 3 {
				return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("ging line %d: malformed edge record", lineNo))
			}
			src, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return nil, kerr.Wrapf(kerr.MalformedInput, err, "ging line %d: bad src vid", lineNo)
			}
			dst, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil {
				return nil, kerr.Wrapf(kerr.MalformedInput, err, "ging line %d: bad dst vid", lineNo)
			}
			if err := g.AddEdge(graph.VertexID(src), graph.VertexID(dst)); err != nil {
				return nil, err
			}
		default:
			// unknown record type, ignored
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, kerr.Wrap(kerr.IoError, err, "reading ging stream")
	}
	return g, nil
}

// WriteGing writes g back out in the ging format: all vertex records first,
// in vid order, then all edge records, mirroring ging_write's two-pass
// layout.
func WriteGing(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	for v := 0; v < g.NumVertices(); v++ {
		if _, err := fmt.Fprintf(bw, "V\t%d\t%s\n", v, g.Label(graph.VertexID(v))); err != nil {
			return kerr.Wrap(kerr.IoError, err, "writing ging vertex record")
		}
	}
	for v := 0; v < g.NumVertices(); v++ {
		for _, dst := range g.OutNeighbours(graph.VertexID(v)) {
			if _, err := fmt.Fprintf(bw, "E\t%d\t%d\n", v, dst); err != nil {
				return kerr.Wrap(kerr.IoError, err, "writing ging edge record")
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return kerr.Wrap(kerr.IoError, err, "flushing ging stream")
	}
	return nil
}
