package main

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/pari-runtime/runtime"
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Run the zeta(2) and finite field factorization example",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withRuntime(ctx, func(rt *runtime.Runtime) error {
			_, err := runtime.RunExample(ctx, rt, cmd.OutOrStdout())
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}
