package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/kerr"
)

// ParseRGFA reads a minimal rGFA stream into the same in-memory graph.Graph
// the ging parser produces: `S` lines become vertices (segment name ->
// sequential vid, in first-occurrence order), `L` lines become edges.
// Orientation fields on both are ignored — every link is treated as forward
// directed from its source segment to its destination segment, per the
// reduced semantics this module needs (full rGFA orientation/overlap
// handling is out of scope).
func ParseRGFA(r io.Reader) (*graph.Graph, error) {
	g := graph.New()
	nameToVID := make(map[string]graph.VertexID)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "S":
			if len(fields) < 3 {
				return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("rgfa line %d: malformed segment record", lineNo))
			}
			name, seq := fields[1], fields[2]
			if _, exists := nameToVID[name]; exists {
				return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("rgfa line %d: duplicate segment name %q", lineNo, name))
			}
			nameToVID[name] = g.AddVertex([]byte(seq))
		case "L":
			if len(fields) < 5 {
				return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("rgfa line %d: malformed link record", lineNo))
			}
			srcName, dstName := fields[1], fields[3]
			src, ok := nameToVID[srcName]
			if !ok {
				return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("rgfa line %d: link references unknown segment %q", lineNo, srcName))
			}
			dst, ok := nameToVID[dstName]
			if !ok {
				return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("rgfa line %d: link references unknown segment %q", lineNo, dstName))
			}
			if err := g.AddEdge(src, dst); err != nil {
				return nil, err
			}
		default:
			// header (H), containment (C), path (P), and tag-only records
			// carry no topology this module needs; ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, kerr.Wrap(kerr.IoError, err, "reading rgfa stream")
	}
	return g, nil
}
