package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/pari-runtime/runtime"
)

var evalCmd = &cobra.Command{
	Use:   "eval EXPR...",
	Short: "Evaluate GP expressions",
	Long: `Evaluate each argument as a GP expression and print the result,
one per line. Evaluation stops at the first error.`,
	Example: `  pari eval 'factor(2^64+1)' 'zeta(3)'`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		return withRuntime(ctx, func(rt *runtime.Runtime) error {
			for _, expr := range args {
				s, err := rt.EvalString(ctx, expr)
				if err != nil {
					return fmt.Errorf("%s: %w", strings.TrimSpace(expr), err)
				}
				fmt.Fprintln(out, s)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
