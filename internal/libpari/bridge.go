//go:build cgo && !nopari

package libpari

/*
#cgo LDFLAGS: -lpari
#cgo darwin CFLAGS: -I/opt/homebrew/include -I/usr/local/include
#cgo darwin LDFLAGS: -L/opt/homebrew/lib -L/usr/local/lib
#include <stdlib.h>
#include "glue.h"
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/pari-runtime/errors"
)

// Available reports whether this build links against libpari.
const Available = true

func cgen(g GEN) C.GEN {
	return C.GEN(unsafe.Pointer(g))
}

func gogen(g C.GEN) GEN {
	return GEN(unsafe.Pointer(g))
}

// catch converts an error captured by a pari_CATCH block and releases its message.
func catch(phase errors.Phase, function string, e *C.gopari_err) error {
	if e.num < 0 {
		return nil
	}
	var msg string
	if e.msg != nil {
		msg = C.GoString(e.msg)
		C.gopari_free(unsafe.Pointer(e.msg))
		e.msg = nil
	}
	var code string
	if name := C.gopari_errname(e.num); name != nil {
		code = C.GoString(name)
	}
	return errors.Pari(phase, function, int(e.num), code, msg)
}

// Init starts PARI with a main stack of stackSize bytes and primes
// precomputed up to maxPrime. PARI aborts the process if the stack cannot
// be allocated.
func Init(stackSize, maxPrime uint64) error {
	C.gopari_init(C.size_t(stackSize), C.ulong(maxPrime))
	return nil
}

// Close releases the PARI stack and every object on it.
func Close() {
	C.gopari_close()
}

// VersionCode returns PARI_VERSION_CODE of the headers this build used.
func VersionCode() int {
	return int(C.gopari_version_code())
}

// Apply runs op on up to three operands. Unused operands may be nil.
// bitprec <= 0 selects PARI's default precision.
func Apply(op Op, a, b, c GEN, bitprec int) (GEN, error) {
	var e C.gopari_err
	r := C.gopari_apply(C.int(op), cgen(a), cgen(b), cgen(c), C.long(bitprec), &e)
	if err := catch(errors.PhaseCall, op.String(), &e); err != nil {
		return nil, err
	}
	return gogen(r), nil
}

// Read evaluates a GP expression.
func Read(expr string) (GEN, error) {
	cs := C.CString(expr)
	defer C.free(unsafe.Pointer(cs))

	var e C.gopari_err
	r := C.gopari_read(cs, &e)
	if err := catch(errors.PhaseEval, "gp_read_str", &e); err != nil {
		return nil, err
	}
	return gogen(r), nil
}

// Strtoi parses a decimal integer.
func Strtoi(s string) (GEN, error) {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))

	var e C.gopari_err
	r := C.gopari_strtoi(cs, &e)
	if err := catch(errors.PhaseConvert, "strtoi", &e); err != nil {
		return nil, err
	}
	return gogen(r), nil
}

// Stoi converts a machine integer.
func Stoi(v int64) GEN {
	return gogen(C.gopari_stoi(C.long(v)))
}

// Itos converts a t_INT to a machine integer.
func Itos(x GEN) (int64, error) {
	var e C.gopari_err
	r := C.gopari_itos(cgen(x), &e)
	if err := catch(errors.PhaseConvert, "itos", &e); err != nil {
		return 0, err
	}
	return int64(r), nil
}

// Zeta evaluates the Riemann zeta function at the integer s.
func Zeta(s int64, bitprec int) (GEN, error) {
	var e C.gopari_err
	r := C.gopari_zeta(C.long(s), C.long(bitprec), &e)
	if err := catch(errors.PhaseCall, "szeta", &e); err != nil {
		return nil, err
	}
	return gogen(r), nil
}

// Var returns the monomial for the named user variable, creating the
// variable if needed. New variables get lower priority than existing ones.
func Var(name string) (GEN, error) {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))

	var e C.gopari_err
	r := C.gopari_var(cs, &e)
	if err := catch(errors.PhaseCall, "fetch_user_var", &e); err != nil {
		return nil, err
	}
	return gogen(r), nil
}

// CallByName calls the GP function name with args.
func CallByName(name string, args []GEN) (GEN, error) {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))

	cargs := make([]C.GEN, len(args))
	for i, a := range args {
		cargs[i] = cgen(a)
	}
	var argp *C.GEN
	if len(cargs) > 0 {
		argp = &cargs[0]
	}

	var e C.gopari_err
	r := C.gopari_call(cs, argp, C.long(len(cargs)), &e)
	if err := catch(errors.PhaseCall, name, &e); err != nil {
		return nil, err
	}
	return gogen(r), nil
}

// NewVector allocates a t_VEC of n zero entries.
func NewVector(n int) (GEN, error) {
	var e C.gopari_err
	r := C.gopari_vector(C.long(n), &e)
	if err := catch(errors.PhaseCall, "cgetg", &e); err != nil {
		return nil, err
	}
	return gogen(r), nil
}

// String formats x the way GP prints it.
func String(x GEN) string {
	cs := C.gopari_tostr(cgen(x))
	defer C.gopari_free(unsafe.Pointer(cs))
	return C.GoString(cs)
}

// TypeName returns the PARI type of x, e.g. "t_POL".
func TypeName(x GEN) string {
	return C.GoString(C.gopari_typename(cgen(x)))
}

// Length returns the GP-level length of x (#x).
func Length(x GEN) int {
	return int(C.gopari_length(cgen(x)))
}

// Lg returns the number of entries of a vector-like x.
func Lg(x GEN) int {
	return int(C.gopari_lg(cgen(x))) - 1
}

// SetLen sets the number of entries of a vector-like x. The caller
// guarantees n does not exceed the allocated entries.
func SetLen(x GEN, n int) {
	C.gopari_setlg(cgen(x), C.long(n))
}

// Elem returns entry i (1-based) of a vector-like x.
func Elem(x GEN, i int) GEN {
	return gogen(C.gopari_elem(cgen(x), C.long(i)))
}

// SetElem stores y as entry i (1-based) of a vector-like x.
func SetElem(x GEN, i int, y GEN) {
	C.gopari_setelem(cgen(x), C.long(i), cgen(y))
}

// SetRealPrecision sets the default real precision in decimal digits.
func SetRealPrecision(digits int) error {
	var e C.gopari_err
	C.gopari_set_realprecision(C.long(digits), &e)
	return catch(errors.PhaseCall, "sd_realprecision", &e)
}

// RealPrecision returns the default real precision in decimal digits.
func RealPrecision() int {
	return int(C.gopari_realprecision())
}

// Avma returns the current PARI stack pointer.
func Avma() uintptr {
	return uintptr(C.gopari_avma())
}

// SetAvma restores the PARI stack pointer to a mark returned by Avma.
func SetAvma(mark uintptr) {
	C.gopari_set_avma(C.uintptr_t(mark))
}

// StackUsed returns the bytes in use on the PARI main stack.
func StackUsed() uint64 {
	return uint64(C.gopari_stack_used())
}

// StackSize returns the size of the PARI main stack in bytes.
func StackSize() uint64 {
	return uint64(C.gopari_stack_size())
}

// OnStack reports whether x lives on the PARI main stack, as opposed to
// the heap or the static constants.
func OnStack(x GEN) bool {
	return C.gopari_on_stack(cgen(x)) != 0
}
