//go:build !(darwin || freebsd || linux || windows)

package linker

import (
	"runtime"

	"github.com/wippyai/pari-runtime/errors"
)

// Verify is not available on this platform.
func Verify(path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	return errors.Unsupported(errors.PhaseLink, "symbol verification on "+runtime.GOOS)
}
