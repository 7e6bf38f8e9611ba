package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/uensalo/gingo/format"
	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/kerr"
	"github.com/uensalo/gingo/walk"
)

func newUtilsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "utils",
		Short: "Collaborator tools: format conversion, k-mer spectrum, brute-force search",
	}
	cmd.AddCommand(
		newUtilsRGFA2GingCmd(),
		newUtilsSpectrumCmd(),
		newUtilsFindCmd(),
		newUtilsFastq2QueryCmd(),
	)
	return cmd
}

func newUtilsRGFA2GingCmd() *cobra.Command {
	var inPath, outPath string
	cmd := &cobra.Command{
		Use:   "rgfa2ging",
		Short: "Convert an rGFA stream into the ging text format",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(inPath)
			if err != nil {
				return err
			}
			defer in.Close()
			g, err := format.ParseRGFA(in)
			if err != nil {
				return err
			}
			out, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer out.Close()
			return format.WriteGing(out, g)
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "", "input rGFA path")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output ging path")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func newUtilsSpectrumCmd() *cobra.Command {
	var inPath, outPath, graphFormat string
	var k int
	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "Print the per-vertex k-mer spectrum of a graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(inPath, graphFormat)
			if err != nil {
				return err
			}
			spectrum := g.KmerSpectrum(k)
			kmers := make([]string, 0, len(spectrum))
			for kmer := range spectrum {
				kmers = append(kmers, kmer)
			}
			sort.Strings(kmers)

			out, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer out.Close()
			for _, kmer := range kmers {
				if _, err := fmt.Fprintf(out, "%s\t%d\n", kmer, spectrum[kmer]); err != nil {
					return kerr.Wrap(kerr.IoError, err, "writing spectrum")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "", "input graph path")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "output path (- for stdout)")
	cmd.Flags().StringVarP(&graphFormat, "format", "f", "auto", "graph format: ging, rgfa, or auto")
	cmd.Flags().IntVarP(&k, "kmer", "k", 4, "k-mer length")
	cmd.MarkFlagRequired("input")
	return cmd
}

func newUtilsFindCmd() *cobra.Command {
	var inPath, graphFormat, pattern string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Brute-force search a pattern over every vertex of a graph, without an index",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(inPath, graphFormat)
			if err != nil {
				return err
			}
			eg := walk.Build(g)
			total := 0
			for v := 0; v < g.NumVertices(); v++ {
				label := g.Label(graph.VertexID(v))
				for offset := 0; offset < len(label); offset++ {
					walks := eg.EnumerateWalks([]byte(pattern), graph.VertexID(v), offset)
					for range walks {
						fmt.Fprintf(cmd.OutOrStdout(), "(v:%d,o:%d)\n", v, offset)
						total++
					}
				}
			}
			if total == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "-")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "", "input graph path")
	cmd.Flags().StringVarP(&graphFormat, "format", "f", "auto", "graph format: ging, rgfa, or auto")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "pattern to search for")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("pattern")
	return cmd
}

func newUtilsFastq2QueryCmd() *cobra.Command {
	var inPath, outPath string
	cmd := &cobra.Command{
		Use:   "fastq2query",
		Short: "Convert a FASTQ file into a query stream (not implemented)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return kerr.New(kerr.LogicError, "fastq2query is not implemented")
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "", "input FASTQ path")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output query stream path")
	return cmd
}
