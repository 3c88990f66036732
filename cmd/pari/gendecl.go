package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/pari-runtime/desc"
)

var (
	genOut     string
	genPackage string
	genImport  string
	genClasses []string
)

var gendeclCmd = &cobra.Command{
	Use:   "gendecl",
	Short: "Generate Go wrappers for GP functions",
	Long: `Read pari.desc and write a Go file with one wrapper per supported GP
function. Each wrapper forwards to runtime.Runtime.Call. Functions taking
strings, pointers or closures are skipped and listed on stderr.`,
	Example: `  pari gendecl -o gp/gp.go --package gp`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		skipped, err := desc.Generate(&buf, cat.Filter(nil), desc.GenerateOptions{
			Package:       genPackage,
			RuntimeImport: genImport,
			Classes:       genClasses,
		})
		if err != nil {
			return err
		}
		for _, s := range skipped {
			log.Debug("skipped", zap.String("function", s.Name), zap.String("reason", s.Reason))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d of %d functions\n", len(skipped), len(cat))

		if genOut == "" || genOut == "-" {
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		return os.WriteFile(genOut, buf.Bytes(), 0o644)
	},
}

func init() {
	f := gendeclCmd.Flags()
	f.StringVarP(&genOut, "out", "o", "", "output file (default stdout)")
	f.StringVar(&genPackage, "package", "gp", "package name of the generated file")
	f.StringVar(&genImport, "runtime-import", desc.DefaultRuntimeImport, "import path of the runtime package")
	f.StringSliceVar(&genClasses, "class", []string{"basic"}, "function classes to wrap")
	addShareFlag(gendeclCmd)
	rootCmd.AddCommand(gendeclCmd)
}
