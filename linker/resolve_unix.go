//go:build darwin || freebsd || linux

package linker

import (
	"runtime"

	"github.com/ebitengine/purego"

	"github.com/wippyai/pari-runtime/errors"
)

// Verify opens the shared library at path and resolves DataSymbols for
// the running platform.
func Verify(path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	handle, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_LOCAL)
	if err != nil {
		return errors.New(errors.PhaseLink, errors.KindNotFound).
			Path(path).
			Cause(err).
			Detail("dlopen").
			Build()
	}
	defer purego.Dlclose(handle)

	return VerifyWith(path, func(sym string) error {
		_, err := purego.Dlsym(handle, sym)
		return err
	}, DataSymbols(runtime.GOOS))
}
