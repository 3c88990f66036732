// Package engine owns the PARI library instance.
//
// PARI keeps its main stack, its defaults and its error state in process
// globals and is not safe for concurrent use. An Engine serializes every
// call onto a single goroutine locked to an OS thread, which also runs
// pari_init and pari_close.
//
// # Lifecycle
//
//	Uninitialized --Start--> Ready --Close--> Closed
//
// Only one engine may be Ready at a time; a second Start returns an
// already_initialized error. After Close the process is back to
// Uninitialized and Start may be called again. Objects created before
// Close are gone.
//
// # Calls
//
// Do runs a function on the PARI thread:
//
//	err := eng.Do(ctx, func() error {
//	    mark := eng.Mark()
//	    defer eng.Release(mark)
//	    // libpari calls
//	    return nil
//	})
//
// The context bounds only the wait for dispatch. A call that has started
// runs to completion because PARI cannot be interrupted safely from Go.
//
// # Signals
//
// PARI is initialized without its signal handlers. The Go runtime owns
// SIGINT, SIGSEGV and friends.
package engine
