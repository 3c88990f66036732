package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/pari-runtime/desc"
	"github.com/wippyai/pari-runtime/install"
)

var shareDir string

// addShareFlag registers --share on commands that read pari.desc.
func addShareFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&shareDir, "share", "", "PARI share directory holding pari.desc (default: located from gp or $GOPARI_PREFIX)")
}

func loadCatalog() (desc.Catalog, error) {
	dir := shareDir
	if dir == "" {
		in, err := install.Locate()
		if err != nil {
			return nil, err
		}
		if dir, err = in.ShareDir(); err != nil {
			return nil, err
		}
	}
	log.Debug("loading function catalog")
	return desc.Load(dir)
}

var (
	funcsFormat  string
	funcsClass   string
	funcsSection string
)

var funcsCmd = &cobra.Command{
	Use:   "funcs [PREFIX]",
	Short: "List GP functions from pari.desc",
	Example: `  pari funcs ell
  pari funcs --class basic --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}
		fns := cat.Filter(func(f *desc.Function) bool {
			return strings.HasPrefix(f.Name, prefix) &&
				(funcsClass == "" || f.Class == funcsClass) &&
				(funcsSection == "" || f.Section == funcsSection)
		})
		return desc.Export(cmd.OutOrStdout(), fns, desc.Format(funcsFormat))
	},
}

var docCmd = &cobra.Command{
	Use:   "doc NAME",
	Short: "Show the documentation of a GP function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		f, ok := cat[args[0]]
		if !ok {
			return fmt.Errorf("unknown function %q", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, f.Help)
		if sig, ret, err := f.Signature(); err == nil {
			parts := make([]string, len(sig))
			for i, a := range sig {
				parts[i] = a.String()
			}
			fmt.Fprintf(out, "\n%s %s(%s)\n", ret, f.CName, strings.Join(parts, ", "))
		}
		if doc := desc.PlainDoc(f.Doc); doc != "" {
			fmt.Fprintf(out, "\n%s\n", doc)
		}
		return nil
	},
}

func init() {
	funcsCmd.Flags().StringVarP(&funcsFormat, "format", "f", string(desc.FormatText), "output format: text, yaml or json")
	funcsCmd.Flags().StringVar(&funcsClass, "class", "", "only functions of this class, e.g. basic")
	funcsCmd.Flags().StringVar(&funcsSection, "section", "", "only functions of this section, e.g. number_theoretical")
	addShareFlag(funcsCmd)
	addShareFlag(docCmd)
	rootCmd.AddCommand(funcsCmd, docCmd)
}
