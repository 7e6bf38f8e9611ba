package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/walk"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Build and query the walk-enumeration collaborator",
	}
	cmd.AddCommand(newDecodeEncodeCmd(), newDecodeWalksCmd())
	return cmd
}

func newDecodeEncodeCmd() *cobra.Command {
	var inPath, outPath, graphFormat string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Serialise a graph into a log2-bit-packed gine encoded graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(inPath, graphFormat)
			if err != nil {
				return err
			}
			eg := walk.Build(g)
			return writeAll(outPath, eg.Serialise())
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "", "input graph path")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output gine path")
	cmd.Flags().StringVarP(&graphFormat, "format", "f", "auto", "graph format: ging, rgfa, or auto")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func newDecodeWalksCmd() *cobra.Command {
	var inPath, outPath, refPath string
	cmd := &cobra.Command{
		Use:   "walks",
		Short: "Enumerate walks matching queries of the form <vid>\\t<offset>\\t<pattern>",
		RunE: func(cmd *cobra.Command, args []string) error {
			encBytes, err := readAll(refPath)
			if err != nil {
				return err
			}
			eg, err := walk.Deserialise(encBytes)
			if err != nil {
				return err
			}
			in, err := openInput(inPath)
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer out.Close()

			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				line := scanner.Text()
				if line == exitSentinel {
					break
				}
				if strings.TrimSpace(line) == "" {
					continue
				}
				vid, offset, pattern, err := parseWalksQuery(line)
				if err != nil {
					return err
				}
				walks := eg.EnumerateWalks([]byte(pattern), vid, offset)
				if _, err := fmt.Fprintf(out, "%s:\n", line); err != nil {
					return err
				}
				if len(walks) == 0 {
					fmt.Fprintln(out, "\t-")
					continue
				}
				for _, wlk := range walks {
					fmt.Fprintf(out, "\t%s\n", formatWalk(wlk))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "-", "query stream path (- for stdin)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "results output path (- for stdout)")
	cmd.Flags().StringVarP(&refPath, "reference", "r", "", "gine encoded-graph path")
	cmd.MarkFlagRequired("reference")
	return cmd
}

func parseWalksQuery(line string) (graph.VertexID, int, string, error) {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) != 3 {
		return 0, 0, "", fmt.Errorf("malformed walks query %q: expected <vid>\\t<offset>\\t<pattern>", line)
	}
	vid, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		return 0, 0, "", fmt.Errorf("malformed walks query %q: bad vid", line)
	}
	offset, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, "", fmt.Errorf("malformed walks query %q: bad offset", line)
	}
	return graph.VertexID(vid), offset, fields[2], nil
}

func formatWalk(w walk.Walk) string {
	var b strings.Builder
	for i, n := range w {
		if i > 0 {
			b.WriteString("->")
		}
		fmt.Fprintf(&b, "v%d[%d:%d]", n.VID, n.GraphLo, n.GraphHi)
	}
	return b.String()
}
