package runtime

import (
	"context"
	"math/big"
	"strconv"
	"strings"

	"github.com/wippyai/pari-runtime/errors"
	"github.com/wippyai/pari-runtime/internal/libpari"
	"github.com/wippyai/pari-runtime/resource"
)

// Gen is a handle to a PARI object owned by a Runtime.
// A Gen stops resolving when its scope ends or its runtime closes; methods
// then return a closed error. Gens are safe to share between goroutines.
type Gen struct {
	rt *Runtime
	h  resource.Handle
}

// Runtime returns the runtime owning g.
func (g *Gen) Runtime() *Runtime {
	return g.rt
}

// Valid reports whether g still resolves.
func (g *Gen) Valid() bool {
	if g == nil || g.rt == nil || g.rt.table == nil {
		return false
	}
	_, ok := g.rt.table.Get(g.h)
	return ok
}

// Type returns the PARI type name of g, e.g. "t_POL".
func (g *Gen) Type() (string, error) {
	if g == nil || g.rt == nil {
		return "", errors.InvalidInput(errors.PhaseCall, "nil Gen")
	}
	if g.rt.table == nil {
		return "", errors.NotInitialized(errors.PhaseCall, "runtime")
	}
	kind, ok := g.rt.table.Kind(g.h)
	if !ok {
		return "", errors.Closed(errors.PhaseCall, "Gen")
	}
	return kind, nil
}

// Add returns g + h.
func (g *Gen) Add(ctx context.Context, h *Gen) (*Gen, error) {
	return g.binary(ctx, libpari.OpAdd, h)
}

// Sub returns g - h.
func (g *Gen) Sub(ctx context.Context, h *Gen) (*Gen, error) {
	return g.binary(ctx, libpari.OpSub, h)
}

// Mul returns g * h.
func (g *Gen) Mul(ctx context.Context, h *Gen) (*Gen, error) {
	return g.binary(ctx, libpari.OpMul, h)
}

// Div returns g / h. Integer division yields an exact fraction.
func (g *Gen) Div(ctx context.Context, h *Gen) (*Gen, error) {
	return g.binary(ctx, libpari.OpDiv, h)
}

// Mod returns g mod h.
func (g *Gen) Mod(ctx context.Context, h *Gen) (*Gen, error) {
	return g.binary(ctx, libpari.OpMod, h)
}

// Pow returns g^n, using the runtime precision for inexact results.
func (g *Gen) Pow(ctx context.Context, n *Gen) (*Gen, error) {
	return g.binary(ctx, libpari.OpPow, n)
}

// Neg returns -g.
func (g *Gen) Neg(ctx context.Context) (*Gen, error) {
	return g.unary(ctx, libpari.OpNeg)
}

// Lift lifts intmods, polmods and finite field elements to their
// representatives.
func (g *Gen) Lift(ctx context.Context) (*Gen, error) {
	return g.unary(ctx, libpari.OpLift)
}

// CenterLift is Lift with representatives centered around zero.
func (g *Gen) CenterLift(ctx context.Context) (*Gen, error) {
	return g.unary(ctx, libpari.OpCenterLift)
}

// FactorBack multiplies out a factorization matrix.
func (g *Gen) FactorBack(ctx context.Context) (*Gen, error) {
	return g.unary(ctx, libpari.OpFactorBack)
}

// Factor returns the factorization matrix of g.
func (g *Gen) Factor(ctx context.Context) (*Gen, error) {
	return g.unary(ctx, libpari.OpFactor)
}

// SqrtInt returns the integer square root of a non-negative integer.
func (g *Gen) SqrtInt(ctx context.Context) (*Gen, error) {
	return g.unary(ctx, libpari.OpSqrtInt)
}

// NextPrime returns the smallest prime >= g.
func (g *Gen) NextPrime(ctx context.Context) (*Gen, error) {
	return g.unary(ctx, libpari.OpNextPrime)
}

// Copy returns a copy of g at the top of the PARI stack.
func (g *Gen) Copy(ctx context.Context) (*Gen, error) {
	return g.unary(ctx, libpari.OpCopy)
}

// Cmp compares two real numbers and returns -1, 0 or 1.
func (g *Gen) Cmp(ctx context.Context, h *Gen) (int, error) {
	if h == nil {
		return 0, errors.InvalidInput(errors.PhaseCall, "nil operand")
	}
	v, err := g.rtOf().applyInt(ctx, libpari.OpCmp, g, h)
	return int(v), err
}

// Equal reports whether g == h in PARI's sense.
func (g *Gen) Equal(ctx context.Context, h *Gen) (bool, error) {
	if h == nil {
		return false, errors.InvalidInput(errors.PhaseCall, "nil operand")
	}
	v, err := g.rtOf().applyInt(ctx, libpari.OpEqual, g, h)
	return v != 0, err
}

// IsZero reports whether g is zero.
func (g *Gen) IsZero(ctx context.Context) (bool, error) {
	v, err := g.rtOf().applyInt(ctx, libpari.OpIsZero, g)
	return v != 0, err
}

// PolDegree returns the degree of g in v, or in its main variable when v is nil.
func (g *Gen) PolDegree(ctx context.Context, v *Gen) (int64, error) {
	return g.rtOf().applyInt(ctx, libpari.OpPolDegree, g, v)
}

// PolIsIrreducible reports whether the polynomial g is irreducible over Q.
func (g *Gen) PolIsIrreducible(ctx context.Context) (bool, error) {
	v, err := g.rtOf().applyInt(ctx, libpari.OpPolIsIrred, g)
	return v != 0, err
}

func (g *Gen) binary(ctx context.Context, op libpari.Op, h *Gen) (*Gen, error) {
	if h == nil {
		return nil, errors.InvalidInput(errors.PhaseCall, "nil operand")
	}
	return g.rtOf().apply(ctx, op, g, h)
}

func (g *Gen) unary(ctx context.Context, op libpari.Op) (*Gen, error) {
	return g.rtOf().apply(ctx, op, g)
}

// rtOf tolerates a nil receiver so that resolve reports it.
func (g *Gen) rtOf() *Runtime {
	if g == nil || g.rt == nil {
		return nilRuntime
	}
	return g.rt
}

// nilRuntime is closed, so every call through it fails before reaching PARI.
var nilRuntime = func() *Runtime {
	r := &Runtime{}
	r.closed.Store(true)
	return r
}()

// String formats g the way GP prints it.
func (g *Gen) String() string {
	s, err := g.Text(context.Background())
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// Text formats g the way GP prints it.
func (g *Gen) Text(ctx context.Context) (string, error) {
	var out string
	err := g.rtOf().do(ctx, func() error {
		obj, _, err := g.rt.resolve(g)
		if err != nil {
			return err
		}
		out = libpari.String(obj.ptr)
		return nil
	})
	return out, err
}

// Len returns #g: the number of entries of a vector, the number of
// characters of a string, the number of terms of a polynomial.
func (g *Gen) Len(ctx context.Context) (int, error) {
	var out int
	err := g.rtOf().do(ctx, func() error {
		obj, _, err := g.rt.resolve(g)
		if err != nil {
			return err
		}
		out = libpari.Length(obj.ptr)
		return nil
	})
	return out, err
}

// Elem returns entry i (0-based) of a vector, column or matrix.
// The entry shares memory with g.
func (g *Gen) Elem(ctx context.Context, i int) (*Gen, error) {
	var out *Gen
	err := g.rtOf().do(ctx, func() error {
		obj, kind, err := g.rt.resolve(g)
		if err != nil {
			return err
		}
		if !libpari.IsVector(kind) {
			return errors.TypeMismatch(errors.PhaseCall, "Elem", "t_VEC, t_COL or t_MAT", kind)
		}
		if n := libpari.Lg(obj.ptr); i < 0 || i >= n {
			return errors.OutOfBounds(errors.PhaseCall, []string{"Elem"}, i, n)
		}
		out, err = g.rt.wrap(libpari.Elem(obj.ptr, i+1))
		return err
	})
	return out, err
}

// SetElem stores v as entry i (0-based) of g. g keeps a reference to v.
// Storing a v that an open scope will free into a g that outlives that
// scope is refused with an invalid_input error.
func (g *Gen) SetElem(ctx context.Context, i int, v *Gen) error {
	return g.rtOf().do(ctx, func() error {
		obj, kind, err := g.rt.resolve(g)
		if err != nil {
			return err
		}
		val, _, err := g.rt.resolve(v)
		if err != nil {
			return err
		}
		if !libpari.IsVector(kind) {
			return errors.TypeMismatch(errors.PhaseCall, "SetElem", "t_VEC, t_COL or t_MAT", kind)
		}
		if n := libpari.Lg(obj.ptr); i < 0 || i >= n {
			return errors.OutOfBounds(errors.PhaseCall, []string{"SetElem"}, i, n)
		}
		if s := g.rt.outlivedBy(obj.ptr, val.ptr); s != nil {
			return errors.New(errors.PhaseCall, errors.KindInvalidInput).
				Function("SetElem").
				Value(i).
				Detail("value would be freed by an open scope before the vector").
				Build()
		}
		libpari.SetElem(obj.ptr, i+1, val.ptr)
		return nil
	})
}

// SetLen sets the logical length of a vector-like g without reallocating.
// n may not exceed the length g had when the runtime first saw it; entries
// below n are untouched.
func (g *Gen) SetLen(ctx context.Context, n int) error {
	return g.rtOf().do(ctx, func() error {
		obj, kind, err := g.rt.resolve(g)
		if err != nil {
			return err
		}
		if !libpari.IsResizable(kind) {
			return errors.TypeMismatch(errors.PhaseCall, "SetLen", "vector type", kind)
		}
		if n < 0 || n > obj.capacity {
			return errors.New(errors.PhaseCall, errors.KindOutOfBounds).
				Path("SetLen").
				Value(n).
				Detail("length %d outside [0, %d]", n, obj.capacity).
				Build()
		}
		libpari.SetLen(obj.ptr, n)
		return nil
	})
}

// Int64 converts an integer g to int64.
func (g *Gen) Int64(ctx context.Context) (int64, error) {
	var out int64
	err := g.rtOf().do(ctx, func() error {
		obj, kind, err := g.rt.resolve(g)
		if err != nil {
			return err
		}
		if kind != libpari.TypeInt {
			return errors.TypeMismatch(errors.PhaseConvert, "Int64", libpari.TypeInt, kind)
		}
		out, err = libpari.Itos(obj.ptr)
		if e, ok := errors.From(err); ok && e.Code == "e_OVERFLOW" {
			return errors.Overflow(errors.PhaseConvert, libpari.String(obj.ptr), "int64")
		}
		return err
	})
	return out, err
}

// BigInt converts an integer g to a *big.Int.
func (g *Gen) BigInt(ctx context.Context) (*big.Int, error) {
	var s string
	err := g.rtOf().do(ctx, func() error {
		obj, kind, err := g.rt.resolve(g)
		if err != nil {
			return err
		}
		if kind != libpari.TypeInt {
			return errors.TypeMismatch(errors.PhaseConvert, "BigInt", libpari.TypeInt, kind)
		}
		s = libpari.String(obj.ptr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.InvalidData(errors.PhaseConvert, []string{"BigInt"}, "unparseable integer "+strconv.Quote(s))
	}
	return v, nil
}

// Float converts an integer, fraction or real g to a *big.Float with prec
// bits of mantissa. prec 0 selects 128 bits or the runtime precision,
// whichever is larger.
func (g *Gen) Float(ctx context.Context, prec uint) (*big.Float, error) {
	var s, kind string
	err := g.rtOf().do(ctx, func() error {
		obj, k, err := g.rt.resolve(g)
		if err != nil {
			return err
		}
		kind = k
		switch kind {
		case libpari.TypeInt, libpari.TypeFrac, libpari.TypeReal:
		default:
			return errors.TypeMismatch(errors.PhaseConvert, "Float", "t_INT, t_FRAC or t_REAL", kind)
		}
		s = libpari.String(obj.ptr)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if prec == 0 {
		prec = max(128, uint(g.rt.precBits))
	}
	f := new(big.Float).SetPrec(prec)
	switch kind {
	case libpari.TypeFrac:
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, errors.InvalidData(errors.PhaseConvert, []string{"Float"}, "unparseable fraction "+strconv.Quote(s))
		}
		return f.SetRat(r), nil
	default:
		// GP prints large exponents as "1.5 E100".
		s = strings.ReplaceAll(s, " E", "e")
		if _, ok := f.SetString(s); !ok {
			return nil, errors.InvalidData(errors.PhaseConvert, []string{"Float"}, "unparseable number "+strconv.Quote(s))
		}
		return f, nil
	}
}
