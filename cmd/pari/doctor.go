package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/pari-runtime/desc"
	"github.com/wippyai/pari-runtime/engine"
	"github.com/wippyai/pari-runtime/install"
	"github.com/wippyai/pari-runtime/internal/libpari"
	"github.com/wippyai/pari-runtime/linker"
	"github.com/wippyai/pari-runtime/runtime"
)

var (
	okTag   = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")).Render("[ OK ]")
	failTag = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("[FAIL]")
	warnTag = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Render("[WARN]")
)

// checker prints doctor results and counts failures.
type checker struct {
	w        io.Writer
	failures int
}

func (c *checker) section(title string) {
	fmt.Fprintf(c.w, "%s:\n", title)
}

func (c *checker) ok(format string, args ...any) {
	fmt.Fprintf(c.w, "  %s %s\n", okTag, fmt.Sprintf(format, args...))
}

func (c *checker) warn(format string, args ...any) {
	fmt.Fprintf(c.w, "  %s %s\n", warnTag, fmt.Sprintf(format, args...))
}

func (c *checker) fail(format string, args ...any) {
	c.failures++
	fmt.Fprintf(c.w, "  %s %s\n", failTag, fmt.Sprintf(format, args...))
}

// checkInstall reports on the installation found at in and returns the
// shared library path, or "" if there is none.
func (c *checker) checkInstall(in *install.Installation) string {
	c.section("Installation")
	if in.GP != "" {
		c.ok("gp found at %s", in.GP)
	}
	c.ok("prefix %s", in.Prefix)

	if share, err := in.ShareDir(); err != nil {
		c.fail("%v", err)
	} else if _, err := os.Stat(filepath.Join(share, desc.FileName)); err != nil {
		c.fail("%s missing from %s", desc.FileName, share)
	} else {
		c.ok("%s in %s", desc.FileName, share)
	}

	if dirs := in.IncludeDirs(); len(dirs) == 0 {
		c.warn("no pari/ headers under %s", filepath.Join(in.Prefix, "include"))
	} else {
		c.ok("headers in %v", dirs)
	}

	if dirs := in.LibraryDirs(); len(dirs) == 0 {
		c.fail("no libpari under %s", in.Prefix)
	} else {
		c.ok("libraries in %v", dirs)
	}

	lib, err := in.SharedLibrary()
	if err != nil {
		c.fail("%v", err)
		return ""
	}
	c.ok("shared library %s", lib)
	return lib
}

func (c *checker) checkSymbols(lib string) {
	c.section("Data symbols")
	if err := linker.Verify(lib); err != nil {
		c.fail("%v", err)
		return
	}
	c.ok("all %d data symbols resolve", len(linker.DataSymbols(goruntime.GOOS)))
}

func (c *checker) checkBindings(ctx context.Context, minVersion string) {
	c.section("Bindings")
	if !libpari.Available {
		c.fail("libpari is not linked into this binary (built without cgo or with -tags nopari)")
		return
	}

	code := libpari.VersionCode()
	v, err := engine.CheckVersion(code, minVersion)
	if err != nil {
		c.fail("%v", err)
		return
	}
	c.ok("compiled against PARI %s (constraint %q)", v, minVersion)

	err = withRuntime(ctx, func(rt *runtime.Runtime) error {
		used, size, err := rt.Stack(ctx)
		if err != nil {
			return err
		}
		c.ok("runtime started: stack %d of %d bytes in use", used, size)

		s, err := rt.EvalString(ctx, "nextprime(2^64)")
		if err != nil {
			return err
		}
		c.ok("nextprime(2^64) = %s", s)
		return nil
	})
	if err != nil {
		c.fail("runtime: %v", err)
	}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the PARI installation and the bindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := &checker{w: cmd.OutOrStdout()}

		in, err := install.Locate()
		if err != nil {
			c.section("Installation")
			c.fail("%v", err)
		} else if lib := c.checkInstall(in); lib != "" {
			c.checkSymbols(lib)
		}
		c.checkBindings(cmd.Context(), settings.MinVersion)

		if c.failures > 0 {
			return fmt.Errorf("%d check(s) failed", c.failures)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
