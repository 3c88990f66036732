package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/pari-runtime/runtime"
)

// evalFunc evaluates one GP expression and returns its printed result.
type evalFunc func(ctx context.Context, expr string) (string, error)

var replPlain bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate GP expressions interactively",
	Long: `Read GP expressions and print their values. On a terminal this opens
a full-screen prompt with history; otherwise expressions are read one per
line from stdin. Type quit or press ctrl+d to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withRuntime(ctx, func(rt *runtime.Runtime) error {
			if !replPlain && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
				return runTUI(ctx, rt.EvalString)
			}
			return runLines(ctx, rt.EvalString, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

func init() {
	replCmd.Flags().BoolVar(&replPlain, "plain", false, "read lines from stdin even on a terminal")
	rootCmd.AddCommand(replCmd)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func isQuit(line string) bool {
	return line == "quit" || line == `\q`
}

// runLines evaluates each non-empty line of in. Errors are printed and do
// not stop the loop; only a read error or ctx ends it early.
func runLines(ctx context.Context, eval evalFunc, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", strings.HasPrefix(line, `\\`):
			continue
		case isQuit(line):
			return nil
		}
		res, err := eval(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, res)
	}
	return sc.Err()
}

func runTUI(ctx context.Context, eval evalFunc) error {
	p := tea.NewProgram(newReplModel(ctx, eval))
	_, err := p.Run()
	return err
}
