//go:build windows && cgo && !nopari

package libpari

// Windows builds use MinGW. PARI does not annotate its data exports with
// __declspec(dllimport), so references such as avma or gen_0 are resolved
// through ld's auto-import instead of per-symbol alternate names.
// linker.Verify checks the exported list against the DLL at runtime.

/*
#cgo windows LDFLAGS: -Wl,--enable-auto-import
*/
import "C"
