package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// run builds the subcommand tree and executes it against args, returning 0
// on success and -1 on any error, per the CLI's documented exit contract.
func run(args []string) int {
	root := &cobra.Command{
		Use:           "gingo",
		Short:         "graph FM-index construction, pattern matching, and decoding",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(
		newIndexCmd(),
		newQueryCmd(),
		newDecodeCmd(),
		newPermutationCmd(),
		newUtilsCmd(),
	)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}
	return 0
}
