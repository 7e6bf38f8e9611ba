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

// ParsePermutation reads one integer vid per line. numVertices, if >= 0,
// checks the parsed permutation's cardinality matches it; pass -1 to skip
// the check (e.g. when reading a permutation before the graph it applies to
// is known).
func ParsePermutation(r io.Reader, numVertices int) ([]graph.VertexID, error) {
	var perm []graph.VertexID
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		vid, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, kerr.Wrapf(kerr.MalformedInput, err, "permutation line %d: bad vid", lineNo)
		}
		perm = append(perm, graph.VertexID(vid))
	}
	if err := scanner.Err(); err != nil {
		return nil, kerr.Wrap(kerr.IoError, err, "reading permutation stream")
	}
	if numVertices >= 0 && len(perm) != numVertices {
		return nil, kerr.New(kerr.MalformedInput, fmt.Sprintf("permutation has %d entries, expected %d", len(perm), numVertices))
	}
	return perm, nil
}

// WritePermutation writes perm, one vid per line.
func WritePermutation(w io.Writer, perm []graph.VertexID) error {
	bw := bufio.NewWriter(w)
	for _, v := range perm {
		if _, err := fmt.Fprintf(bw, "%d\n", v); err != nil {
			return kerr.Wrap(kerr.IoError, err, "writing permutation entry")
		}
	}
	return kerr.Wrap(kerr.IoError, bw.Flush(), "flushing permutation stream")
}
