// Package install locates a PARI/GP installation on the host.
//
// The layout follows the usual autotools prefix: gp lives in
// <prefix>/bin, headers in <prefix>/include/pari, the library in one of
// <prefix>/lib, lib32 or lib64 and the data files, pari.desc among them,
// in <prefix>/share/pari.
package install

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/wippyai/pari-runtime/errors"
)

// PrefixEnv names the environment variable consulted when gp is not on
// PATH.
const PrefixEnv = "GOPARI_PREFIX"

// Installation is a PARI prefix directory.
type Installation struct {
	Prefix string
	// GP is the gp executable that led to Prefix, empty when the prefix
	// came from the environment or FromPrefix.
	GP string
}

// Locate finds gp on PATH and assumes it sits in <prefix>/bin. Without gp
// it falls back to $GOPARI_PREFIX.
func Locate() (*Installation, error) {
	if gp, err := exec.LookPath("gp"); err == nil {
		if resolved, err := filepath.EvalSymlinks(gp); err == nil {
			gp = resolved
		}
		abs, err := filepath.Abs(gp)
		if err != nil {
			return nil, errors.Load("resolve "+gp, err)
		}
		return &Installation{Prefix: filepath.Dir(filepath.Dir(abs)), GP: abs}, nil
	}
	if prefix := os.Getenv(PrefixEnv); prefix != "" {
		return FromPrefix(prefix)
	}
	return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
		Detail("gp not found on PATH and %s is not set", PrefixEnv).
		Build()
}

// FromPrefix describes the installation rooted at prefix, which must be a
// directory.
func FromPrefix(prefix string) (*Installation, error) {
	abs, err := filepath.Abs(prefix)
	if err != nil {
		return nil, errors.Load("resolve "+prefix, err)
	}
	if !isDir(abs) {
		return nil, errors.New(errors.PhaseLoad, errors.KindNotFound).
			Path(abs).
			Detail("PARI prefix %q is not a directory", abs).
			Build()
	}
	return &Installation{Prefix: abs}, nil
}

// ShareDir returns <prefix>/share/pari.
func (in *Installation) ShareDir() (string, error) {
	dir := filepath.Join(in.Prefix, "share", "pari")
	if !isDir(dir) {
		return "", errors.New(errors.PhaseLoad, errors.KindNotFound).
			Path(dir).
			Detail("PARI share directory %q does not exist", dir).
			Build()
	}
	return dir, nil
}

// IncludeDirs returns the include directories that contain a pari/
// subdirectory.
func (in *Installation) IncludeDirs() []string {
	var dirs []string
	for _, d := range []string{filepath.Join(in.Prefix, "include")} {
		if isDir(filepath.Join(d, "pari")) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// LibraryDirs returns the lib, lib32 and lib64 directories that hold a
// libpari file.
func (in *Installation) LibraryDirs() []string {
	var dirs []string
	for _, s := range []string{"lib", "lib32", "lib64"} {
		d := filepath.Join(in.Prefix, s)
		if m, _ := filepath.Glob(filepath.Join(d, "libpari*")); len(m) > 0 {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// SharedLibrary returns the first shared libpari in LibraryDirs, plus the
// bin directory on Windows where DLLs live.
func (in *Installation) SharedLibrary() (string, error) {
	dirs := in.LibraryDirs()
	if runtime.GOOS == "windows" {
		dirs = append(dirs, filepath.Join(in.Prefix, "bin"))
	}
	for _, d := range dirs {
		matches, _ := filepath.Glob(filepath.Join(d, "libpari*"))
		slices.Sort(matches)
		for _, m := range matches {
			if IsSharedLibrary(filepath.Base(m)) {
				return m, nil
			}
		}
	}
	return "", errors.New(errors.PhaseLoad, errors.KindNotFound).
		Path(in.Prefix).
		Detail("no shared libpari under %q", in.Prefix).
		Build()
}

// IsSharedLibrary reports whether name looks like a shared object:
// libpari.so, libpari-gmp.so.2.15, libpari.dylib or libpari.dll.
func IsSharedLibrary(name string) bool {
	return strings.HasSuffix(name, ".so") ||
		strings.Contains(name, ".so.") ||
		strings.HasSuffix(name, ".dylib") ||
		strings.HasSuffix(name, ".dll")
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
