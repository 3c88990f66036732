// Package errors provides structured error types for the pari-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: the PARI function, the PARI error code,
// a field path and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCall, errors.KindPari).
//		Function("gdiv").
//		Code(31, "e_INV").
//		Detail("impossible inverse in gdiv: 0").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Closed(errors.PhaseCall, "runtime")
//	err := errors.OutOfBounds(errors.PhaseCall, path, 10, 5)
//
// Errors raised inside PARI are caught at the C boundary and surface as
// KindPari (or KindAllocation for stack exhaustion); they never abort the
// process once the runtime is Ready.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
