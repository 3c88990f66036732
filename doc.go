// Package pariruntime provides Go bindings for the PARI/GP number theory
// library.
//
// PARI keeps its objects on a private stack and reports errors through a
// longjmp based handler. This module hides both behind handle based values
// and ordinary Go errors, and runs every library call on one locked OS
// thread so it can be used from any goroutine.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	pariruntime/
//	├── runtime/           High-level API: Gen values, scopes, GP calls
//	├── engine/            PARI lifecycle and the single engine thread
//	├── resource/          Generation checked handle table behind Gen
//	├── errors/            Structured error types for debugging
//	├── desc/              pari.desc parser and Go wrapper generator
//	├── install/           Locate a PARI installation on disk
//	├── linker/            Check a libpari shared library exports what the bindings need
//	├── config/            Settings from flags, environment and YAML files
//	├── internal/libpari/  cgo bridge to libpari
//	├── cmd/pari/          Command line tool: eval, repl, funcs, doc, gendecl, doctor
//	└── examples/basic/    The example driver
//
// # Quick Start
//
//	err := runtime.With(ctx, runtime.DefaultConfig(), func(rt *runtime.Runtime) error {
//	    n, err := rt.Eval(ctx, "2^64 + 1")
//	    if err != nil {
//	        return err
//	    }
//	    f, err := rt.Call(ctx, "factor", n)
//	    if err != nil {
//	        return err
//	    }
//	    s, err := f.Text(ctx)
//	    fmt.Println(s) // [274177, 1; 67280421310721, 1]
//	    return err
//	})
//
// # Building
//
// The bindings need cgo and libpari headers. Building with CGO_ENABLED=0 or
// the nopari tag compiles a stub whose calls fail with errors.KindUnsupported,
// so the parser, generator and CLI helpers stay usable without PARI.
//
// # Thread Safety
//
// Runtime is safe for concurrent use. Calls are serialized on the engine
// thread. Only one Runtime may be open per process because PARI keeps its
// state in globals.
package pariruntime
