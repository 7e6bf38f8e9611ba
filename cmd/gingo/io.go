package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/uensalo/gingo/format"
	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/kerr"
)

// exitSentinel is the literal line that terminates a query stream.
const exitSentinel = "exit();"

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, kerr.Wrapf(kerr.IoError, err, "opening input %q", path)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, kerr.Wrapf(kerr.IoError, err, "creating output %q", path)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func readAll(path string) ([]byte, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, kerr.Wrapf(kerr.IoError, err, "reading %q", path)
	}
	return buf, nil
}

func writeAll(path string, buf []byte) error {
	w, err := openOutput(path)
	if err != nil {
		return err
	}
	defer w.Close()
	if _, err := w.Write(buf); err != nil {
		return kerr.Wrapf(kerr.IoError, err, "writing %q", path)
	}
	return nil
}

// detectFormat maps a graph file path's extension to a parser name, falling
// back to ging (the default text format) for anything unrecognised.
func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rgfa", ".gfa":
		return "rgfa"
	default:
		return "ging"
	}
}

func loadGraph(path, formatFlag string) (*graph.Graph, error) {
	f := formatFlag
	if f == "" || f == "auto" {
		f = detectFormat(path)
	}
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	switch f {
	case "rgfa":
		return format.ParseRGFA(r)
	case "ging":
		return format.ParseGing(r)
	default:
		return nil, kerr.New(kerr.MalformedInput, "unknown graph format "+f)
	}
}

// readQueries reads one pattern per line from r until the exit sentinel line
// or EOF, skipping blank lines.
func readQueries(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == exitSentinel {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, kerr.Wrap(kerr.IoError, err, "reading query stream")
	}
	return patterns, nil
}

// batchPatterns splits patterns into batches of size b (b <= 0 means one batch).
func batchPatterns(patterns []string, b int) [][]string {
	if b <= 0 || b >= len(patterns) {
		if len(patterns) == 0 {
			return nil
		}
		return [][]string{patterns}
	}
	var out [][]string
	for i := 0; i < len(patterns); i += b {
		end := i + b
		if end > len(patterns) {
			end = len(patterns)
		}
		out = append(out, patterns[i:end])
	}
	return out
}
