// Command pari evaluates GP expressions, runs the example computation and
// inspects the PARI installation and its function catalog.
package main

import (
	"fmt"
	"os"
)

// version, commit and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := Execute(version, commit, date); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
