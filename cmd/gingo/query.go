package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/uensalo/gingo/decode"
	"github.com/uensalo/gingo/fmcache"
	"github.com/uensalo/gingo/forkmatcher"
	"github.com/uensalo/gingo/gfmi"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run pattern queries against an index",
	}
	cmd.AddCommand(newQueryFindCmd(), newQueryCacheCmd())
	return cmd
}

func newQueryFindCmd() *cobra.Command {
	var (
		inPath, outPath, refPath, cachePath string
		batchSize, threads, maxForks        int
		decodeMatches, verbose              bool
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Match patterns read from a query stream against an index",
		RunE: func(cmd *cobra.Command, args []string) error {
			idxBytes, err := readAll(refPath)
			if err != nil {
				return err
			}
			idx, err := gfmi.Deserialise(idxBytes)
			if err != nil {
				return err
			}
			var cache *fmcache.Cache
			if cachePath != "" {
				cacheBytes, err := readAll(cachePath)
				if err != nil {
					return err
				}
				cache, err = fmcache.Deserialise(cacheBytes)
				if err != nil {
					return err
				}
			}
			var dec *decode.Decoder
			if decodeMatches {
				dec = decode.New(idx)
			}

			in, err := openInput(inPath)
			if err != nil {
				return err
			}
			defer in.Close()
			patterns, err := readQueries(in)
			if err != nil {
				return err
			}

			out, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer out.Close()

			opts := forkmatcher.Options{MaxForks: maxForks}
			for _, batch := range batchPatterns(patterns, batchSize) {
				results := runBatch(idx, cache, batch, opts, threads)
				for i, pattern := range batch {
					if err := writeFindResult(out, pattern, results[i], dec); err != nil {
						return err
					}
				}
			}
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "matched %d patterns\n", len(patterns))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "input", "i", "-", "query stream path (- for stdin)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "-", "results output path (- for stdout)")
	cmd.Flags().StringVarP(&refPath, "reference", "r", "", "gini index path")
	cmd.Flags().StringVarP(&cachePath, "cache", "c", "", "ginc cache path (optional)")
	cmd.Flags().IntVarP(&batchSize, "batch", "b", 64, "query batch size")
	cmd.Flags().IntVarP(&threads, "threads", "t", 1, "worker threads per batch")
	cmd.Flags().IntVar(&maxForks, "max-forks", -1, "fork budget per query (-1 uncapped)")
	cmd.Flags().BoolVar(&decodeMatches, "decode", false, "decode each fork to (vid, offset) pairs")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a summary after matching")
	cmd.MarkFlagRequired("reference")
	return cmd
}

// runBatch matches a single batch's patterns across at most threads
// concurrent workers, writing each result to its own slot so no reordering
// step is needed afterwards.
func runBatch(idx *gfmi.GFMI, cache *fmcache.Cache, batch []string, opts forkmatcher.Options, threads int) []forkmatcher.Result {
	results := make([]forkmatcher.Result, len(batch))
	var eg errgroup.Group
	if threads > 0 {
		eg.SetLimit(threads)
	}
	for i := range batch {
		i := i
		eg.Go(func() error {
			pattern := []byte(batch[i])
			if cache != nil {
				results[i] = forkmatcher.MatchCached(idx, pattern, cache, opts)
			} else {
				results[i] = forkmatcher.Match(idx, pattern, opts)
			}
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

func writeFindResult(out io.Writer, pattern string, res forkmatcher.Result, dec *decode.Decoder) error {
	if _, err := fmt.Fprintf(out, "%s:\n", pattern); err != nil {
		return err
	}
	if len(res.Leaf) == 0 {
		_, err := fmt.Fprintln(out, "\t-")
		return err
	}
	for _, f := range res.Leaf {
		if dec == nil {
			if _, err := fmt.Fprintf(out, "\t(%d,%d)\n", f.SALo, f.SAHi); err != nil {
				return err
			}
			continue
		}
		for _, m := range dec.DecodeOne(f.SALo, f.SAHi, -1) {
			if _, err := fmt.Fprintf(out, "\t(v:%d,o:%d)\n", m.VID, m.Offset); err != nil {
				return err
			}
		}
	}
	return nil
}

func newQueryCacheCmd() *cobra.Command {
	var (
		refPath, outPath    string
		depth               int
		rankRate, isaRate   uint
		verbose             bool
	)
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Build an FM-table cache from an index",
		RunE: func(cmd *cobra.Command, args []string) error {
			idxBytes, err := readAll(refPath)
			if err != nil {
				return err
			}
			idx, err := gfmi.Deserialise(idxBytes)
			if err != nil {
				return err
			}
			c, err := fmcache.Build(idx, depth, rankRate, isaRate)
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "built cache of depth %d\n", c.Depth())
			}
			return writeAll(outPath, c.Serialise())
		},
	}
	cmd.Flags().StringVarP(&refPath, "reference", "r", "", "gini index path")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output ginc cache path")
	cmd.Flags().IntVar(&depth, "depth", 3, "maximum cached key length")
	cmd.Flags().UintVar(&rankRate, "rank-rate", 32, "inner key-FMI rank sample rate")
	cmd.Flags().UintVar(&isaRate, "isa-rate", 32, "inner key-FMI ISA sample rate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a summary after building")
	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("output")
	return cmd
}
