// Package linker checks that a PARI shared library exports the data
// symbols the bindings reference.
//
// PARI keeps part of its state in exported globals: the stack pointer
// avma, the constants gen_0, gen_1 and gen_2, the error callbacks and the
// interrupt flags. On Windows these are reached through the import
// library as __imp_<name>; elsewhere they resolve directly. A library built
// without them links but fails at first use, so doctor-style tooling runs
// Verify against the library it is about to load.
//
// # Example
//
//	lib, _ := install.Locate()
//	path, _ := lib.SharedLibrary()
//	if err := linker.Verify(path); err != nil {
//	    var missing *errors.MissingSymbolsError
//	    if stderrors.As(err, &missing) {
//	        fmt.Println(missing.Symbols)
//	    }
//	}
//
// Verify uses purego on unix and golang.org/x/sys/windows on Windows.
// Other platforms report KindUnsupported. VerifyWith is the platform-free
// core and takes any resolver.
package linker
