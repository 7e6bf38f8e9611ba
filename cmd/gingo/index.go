package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uensalo/gingo/format"
	"github.com/uensalo/gingo/gfmi"
	"github.com/uensalo/gingo/graph"
)

func newIndexCmd() *cobra.Command {
	var (
		inPath, outPath, permPath, graphFormat string
		rankRate, isaRate                      uint
		withOracle                             bool
		verbose                                bool
	)
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build a gini index from a graph file",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(inPath, graphFormat)
			if err != nil {
				return err
			}
			rb := graph.DefaultReservedBytes()
			if err := g.Validate(rb); err != nil {
				return err
			}
			perm, err := loadOrIdentityPermutation(permPath, g.NumVertices())
			if err != nil {
				return err
			}
			idx, err := gfmi.Build(g, perm, rb, rankRate, isaRate, withOracle)
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "indexed %d vertices, oracle=%v\n", idx.NumVertices(), idx.HasOracle())
			}
			return writeAll(outPath, idx.Serialise())
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "", "input graph path")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output gini index path")
	cmd.Flags().StringVarP(&permPath, "permutation", "p", "", "permutation file path (identity if omitted)")
	cmd.Flags().StringVarP(&graphFormat, "format", "f", "auto", "graph format: ging, rgfa, or auto")
	cmd.Flags().UintVar(&rankRate, "rank-rate", 32, "FM-index rank sample rate")
	cmd.Flags().UintVar(&isaRate, "isa-rate", 32, "FM-index ISA sample rate")
	cmd.Flags().BoolVar(&withOracle, "oracle", true, "build the OIMT oracle alongside the R2R tree")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a one-line summary after indexing")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func loadOrIdentityPermutation(path string, numVertices int) ([]graph.VertexID, error) {
	if path == "" {
		perm := make([]graph.VertexID, numVertices)
		for i := range perm {
			perm[i] = graph.VertexID(i)
		}
		return perm, nil
	}
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return format.ParsePermutation(r, numVertices)
}
