// Package libpari is the cgo bridge to the PARI C library.
//
// It holds no business logic: each function maps to one PARI entry point (or
// a small C helper in glue.c that wraps a PARI macro or catches PARI errors).
// Nothing here is safe for concurrent use. All calls must happen on the OS
// thread that called Init; package engine enforces that.
//
// Building with the nopari tag, or with cgo disabled, selects a stub whose
// functions report ErrUnavailable.
package libpari

import (
	"unsafe"

	"github.com/wippyai/pari-runtime/errors"
)

// GEN is a reference to a PARI object. It points into PARI's stack or
// heap, never into Go memory.
type GEN unsafe.Pointer

// Op selects the PARI function run by Apply.
type Op int

// Values must match the enum in glue.h.
const (
	OpAdd        Op = 0
	OpSub        Op = 1
	OpMul        Op = 2
	OpDiv        Op = 3
	OpMod        Op = 4
	OpPow        Op = 5
	OpNeg        Op = 6
	OpLift       Op = 7
	OpCenterLift Op = 8
	OpFactorBack Op = 9
	OpSqrtInt    Op = 10
	OpNextPrime  Op = 11
	OpPolDegree  Op = 12
	OpPolIsIrred Op = 13
	OpFactorFF   Op = 14
	OpCmp        Op = 15
	OpEqual      Op = 16
	OpIsZero     Op = 17
	OpCopy       Op = 18
	OpFactor     Op = 19
)

var opNames = [...]string{
	OpAdd:        "gadd",
	OpSub:        "gsub",
	OpMul:        "gmul",
	OpDiv:        "gdiv",
	OpMod:        "gmod",
	OpPow:        "gpow",
	OpNeg:        "gneg",
	OpLift:       "lift",
	OpCenterLift: "centerlift",
	OpFactorBack: "factorback",
	OpSqrtInt:    "sqrtint",
	OpNextPrime:  "nextprime",
	OpPolDegree:  "poldegree",
	OpPolIsIrred: "polisirreducible",
	OpFactorFF:   "factorff",
	OpCmp:        "gcmp",
	OpEqual:      "gequal",
	OpIsZero:     "gequal0",
	OpCopy:       "gcopy",
	OpFactor:     "factor",
}

// String returns the name of the C function behind op.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "unknown"
	}
	return opNames[op]
}

// Arity returns how many GEN operands op consumes.
func (op Op) Arity() int {
	switch op {
	case OpNeg, OpLift, OpCenterLift, OpFactorBack, OpSqrtInt, OpNextPrime,
		OpPolIsIrred, OpIsZero, OpCopy, OpFactor:
		return 1
	case OpFactorFF:
		return 3
	default:
		return 2
	}
}

// Names of PARI types that hold GEN entries and can be indexed by Elem.
const (
	TypeVec       = "t_VEC"
	TypeCol       = "t_COL"
	TypeMat       = "t_MAT"
	TypeVecSmall  = "t_VECSMALL"
	TypeInt       = "t_INT"
	TypeReal      = "t_REAL"
	TypeFrac      = "t_FRAC"
	TypePol       = "t_POL"
	TypeStr       = "t_STR"
	TypeClosure   = "t_CLOSURE"
	TypeIntMod    = "t_INTMOD"
	TypePolMod    = "t_POLMOD"
	TypeFFElt     = "t_FFELT"
	TypeUnknown   = "t_UNKNOWN"
	maxVersionTag = 0xff
)

// IsVector reports whether values of the named type hold GEN entries.
func IsVector(typeName string) bool {
	switch typeName {
	case TypeVec, TypeCol, TypeMat:
		return true
	}
	return false
}

// IsResizable reports whether SetLen applies to values of the named type.
func IsResizable(typeName string) bool {
	return IsVector(typeName) || typeName == TypeVecSmall
}

// DecodeVersion splits PARI_VERSION_CODE into major, minor and patch.
func DecodeVersion(code int) (major, minor, patch int) {
	return code >> 16, (code >> 8) & maxVersionTag, code & maxVersionTag
}

// ErrUnavailable is returned by every entry point of the stub build.
var ErrUnavailable = errors.Unsupported(errors.PhaseInit,
	"libpari is not linked into this build (cgo disabled or nopari tag set)")
