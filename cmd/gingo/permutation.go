package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uensalo/gingo/format"
	"github.com/uensalo/gingo/graph"
	"github.com/uensalo/gingo/permute"
)

func newPermutationCmd() *cobra.Command {
	var (
		inPath, outPath, graphFormat string
		maxDepth                     int
		multipleVertexSpan           bool
		temperature, coolingFactor   float64
		scalingFactor, minTemp       float64
		seed                         int64
		verbose                      bool
	)
	cmd := &cobra.Command{
		Use:   "permutation",
		Short: "Search for a vertex permutation that shrinks the R2R oracle via simulated annealing",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(inPath, graphFormat)
			if err != nil {
				return err
			}
			constraints := permute.ExtractConstraints(g, maxDepth, multipleVertexSpan)
			initial := make([]int32, g.NumVertices())
			for i := range initial {
				initial[i] = int32(i)
			}
			cfg := permute.DefaultConfig()
			if temperature > 0 {
				cfg.Temperature = temperature
			}
			if coolingFactor > 0 {
				cfg.CoolingFactor = coolingFactor
			}
			if scalingFactor > 0 {
				cfg.ScalingFactor = scalingFactor
			}
			if minTemp > 0 {
				cfg.MinTemperature = minTemp
			}
			cfg.Seed = seed

			ann := permute.NewAnnealer(g.NumVertices(), constraints, initial, cfg)
			ann.RunUntilDone()

			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "best cost %v over %d constraints\n", ann.BestCost(), len(constraints))
			}

			best := ann.BestPermutation()
			perm := make([]graph.VertexID, len(best))
			for i, v := range best {
				perm[i] = graph.VertexID(v)
			}

			out, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer out.Close()
			return format.WritePermutation(out, perm)
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "", "input graph path")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output permutation file path")
	cmd.Flags().StringVarP(&graphFormat, "format", "f", "auto", "graph format: ging, rgfa, or auto")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 4, "maximum constraint prefix length")
	cmd.Flags().BoolVar(&multipleVertexSpan, "multiple-vertex-span", true, "allow constraint walks to continue into out-neighbours")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "initial annealing temperature (0 uses the default)")
	cmd.Flags().Float64Var(&coolingFactor, "cooling-factor", 0, "per-iteration temperature multiplier (0 uses the default)")
	cmd.Flags().Float64Var(&scalingFactor, "scaling-factor", 0, "acceptance-probability scaling factor (0 uses the default)")
	cmd.Flags().Float64Var(&minTemp, "min-temperature", 0, "stopping temperature (0 uses the default)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the best cost found")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
