//go:build windows

package linker

import (
	"runtime"

	"golang.org/x/sys/windows"

	"github.com/wippyai/pari-runtime/errors"
)

// Verify loads the DLL at path and looks up DataSymbols for the running
// platform. The DLL exports the plain names; the __imp_ aliases only exist
// in the import library.
func Verify(path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return errors.New(errors.PhaseLink, errors.KindNotFound).
			Path(path).
			Cause(err).
			Detail("LoadDLL").
			Build()
	}
	defer dll.Release()

	return VerifyWith(path, func(sym string) error {
		_, err := dll.FindProc(sym)
		return err
	}, DataSymbols(runtime.GOOS))
}
