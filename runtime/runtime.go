package runtime

import (
	"context"
	"math/big"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/wippyai/pari-runtime/engine"
	"github.com/wippyai/pari-runtime/errors"
	"github.com/wippyai/pari-runtime/internal/libpari"
	"github.com/wippyai/pari-runtime/resource"
)

// Config configures the PARI engine behind a Runtime.
type Config = engine.Config

// DefaultConfig returns the configuration used by the example driver.
func DefaultConfig() Config {
	return engine.DefaultConfig()
}

// Runtime owns the PARI engine and the handles of every Gen it creates.
// Use New or With; calls on a zero Runtime fail with not_initialized.
type Runtime struct {
	eng      *engine.Engine
	table    *resource.Table
	log      *zap.Logger
	precBits int
	scopes   []*scope // only touched on the engine thread
	closed   atomic.Bool
}

// New starts PARI and returns a runtime owning it.
// Only one runtime may be open per process; see engine.Start.
func New(ctx context.Context, cfg Config) (*Runtime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}

	eng, err := engine.Start(cfg)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		eng:      eng,
		table:    resource.NewTable(),
		log:      cfg.Logger,
		precBits: cfg.PrecisionBits,
	}, nil
}

// With opens a runtime, runs fn and closes the runtime on every path.
// Gens created inside fn are invalid once With returns.
func With(ctx context.Context, cfg Config, fn func(*Runtime) error) (err error) {
	rt, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(ctx); err == nil {
			err = cerr
		}
	}()
	return fn(rt)
}

// Close invalidates every Gen and shuts PARI down. It is idempotent.
func (r *Runtime) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	if r.eng == nil {
		return nil
	}
	live := r.table.Len()
	if err := r.table.Close(); err != nil {
		return errors.Wrap(errors.PhaseClose, errors.KindInvalidData, err, "close handle table")
	}
	r.log.Debug("runtime closed", zap.Int("live_handles", live))
	return r.eng.Close()
}

// Closed reports whether Close has been called.
func (r *Runtime) Closed() bool {
	return r.closed.Load()
}

// Version returns the version of the linked PARI library.
func (r *Runtime) Version() *semver.Version {
	if r.eng == nil {
		return nil
	}
	return r.eng.Version()
}

// Live returns the number of Gens that still resolve.
func (r *Runtime) Live() int {
	if r.table == nil {
		return 0
	}
	return r.table.Len()
}

// LiveByType returns the number of live Gens per PARI type, e.g.
// {"t_INT": 2, "t_POL": 1}.
func (r *Runtime) LiveByType() map[string]int {
	if r.table == nil {
		return map[string]int{}
	}
	return r.table.Counts()
}

// Stack reports the bytes in use and the total size of the PARI stack.
func (r *Runtime) Stack(ctx context.Context) (used, size uint64, err error) {
	if r.closed.Load() {
		return 0, 0, errors.Closed(errors.PhaseCall, "runtime")
	}
	if r.eng == nil {
		return 0, 0, errors.NotInitialized(errors.PhaseCall, "runtime")
	}
	return r.eng.Stack(ctx)
}

func (r *Runtime) do(ctx context.Context, fn func() error) error {
	if r.closed.Load() {
		return errors.Closed(errors.PhaseCall, "runtime")
	}
	if r.eng == nil {
		return errors.NotInitialized(errors.PhaseCall, "runtime")
	}
	return r.eng.Do(ctx, fn)
}

// object is the table value behind a Gen.
type object struct {
	ptr libpari.GEN
	// capacity is the entry count at first sight, the upper bound for SetLen.
	capacity int
}

// wrap registers a PARI object and returns its Gen. Engine thread only.
func (r *Runtime) wrap(ptr libpari.GEN) (*Gen, error) {
	kind := libpari.TypeName(ptr)
	obj := &object{ptr: ptr}
	if libpari.IsResizable(kind) {
		obj.capacity = libpari.Lg(ptr)
	}
	h := r.table.Insert(kind, obj)
	if h == 0 {
		return nil, errors.Closed(errors.PhaseCall, "runtime")
	}
	return &Gen{rt: r, h: h}, nil
}

// resolve returns the live object behind g. Engine thread only.
func (r *Runtime) resolve(g *Gen) (*object, string, error) {
	if g == nil {
		return nil, "", errors.InvalidInput(errors.PhaseCall, "nil Gen")
	}
	if g.rt != r {
		return nil, "", errors.InvalidInput(errors.PhaseCall, "Gen belongs to another runtime")
	}
	v, ok := r.table.Get(g.h)
	if !ok {
		return nil, "", errors.Closed(errors.PhaseCall, "Gen")
	}
	kind, _ := r.table.Kind(g.h)
	return v.(*object), kind, nil
}

// apply runs op on the given operands and wraps the result.
func (r *Runtime) apply(ctx context.Context, op libpari.Op, args ...*Gen) (*Gen, error) {
	var out *Gen
	err := r.do(ctx, func() error {
		var ptrs [3]libpari.GEN
		for i, a := range args {
			if a == nil {
				continue
			}
			obj, _, err := r.resolve(a)
			if err != nil {
				return err
			}
			ptrs[i] = obj.ptr
		}
		res, err := libpari.Apply(op, ptrs[0], ptrs[1], ptrs[2], r.precBits)
		if err != nil {
			return err
		}
		out, err = r.wrap(res)
		return err
	})
	return out, err
}

// applyInt runs an op whose result is a machine integer and discards the
// intermediate PARI object.
func (r *Runtime) applyInt(ctx context.Context, op libpari.Op, args ...*Gen) (int64, error) {
	var out int64
	err := r.do(ctx, func() error {
		var ptrs [3]libpari.GEN
		for i, a := range args {
			if a == nil {
				continue
			}
			obj, _, err := r.resolve(a)
			if err != nil {
				return err
			}
			ptrs[i] = obj.ptr
		}
		mark := r.eng.Mark()
		defer r.eng.Release(mark)
		res, err := libpari.Apply(op, ptrs[0], ptrs[1], ptrs[2], r.precBits)
		if err != nil {
			return err
		}
		out, err = libpari.Itos(res)
		return err
	})
	return out, err
}

// Int returns v as a PARI integer.
func (r *Runtime) Int(ctx context.Context, v int64) (*Gen, error) {
	var out *Gen
	err := r.do(ctx, func() error {
		var err error
		out, err = r.wrap(libpari.Stoi(v))
		return err
	})
	return out, err
}

// BigInt returns v as a PARI integer.
func (r *Runtime) BigInt(ctx context.Context, v *big.Int) (*Gen, error) {
	if v == nil {
		return nil, errors.InvalidInput(errors.PhaseConvert, "nil big.Int")
	}
	digits := new(big.Int).Abs(v).String()
	var out *Gen
	err := r.do(ctx, func() error {
		x, err := libpari.Strtoi(digits)
		if err != nil {
			return err
		}
		if v.Sign() < 0 {
			if x, err = libpari.Apply(libpari.OpNeg, x, nil, nil, 0); err != nil {
				return err
			}
		}
		out, err = r.wrap(x)
		return err
	})
	return out, err
}

// Eval evaluates a GP expression, e.g. "x^2 + 1" or "factor(2^64+1)".
func (r *Runtime) Eval(ctx context.Context, expr string) (*Gen, error) {
	var out *Gen
	err := r.do(ctx, func() error {
		x, err := libpari.Read(expr)
		if err != nil {
			return err
		}
		out, err = r.wrap(x)
		return err
	})
	return out, err
}

// EvalString evaluates expr and returns the printed result. Evaluation,
// printing and the stack pop happen in one engine call; nothing is left
// on the PARI stack and no Gen is created.
func (r *Runtime) EvalString(ctx context.Context, expr string) (string, error) {
	var text string
	err := r.do(ctx, func() error {
		mark := r.eng.Mark()
		defer r.eng.Release(mark)
		x, err := libpari.Read(expr)
		if err != nil {
			return err
		}
		text = libpari.String(x)
		return nil
	})
	return text, err
}

// Var returns the polynomial variable called name. Variables created later
// have lower priority; x always exists and has the highest.
func (r *Runtime) Var(ctx context.Context, name string) (*Gen, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseCall, "empty variable name")
	}
	var out *Gen
	err := r.do(ctx, func() error {
		x, err := libpari.Var(name)
		if err != nil {
			return err
		}
		out, err = r.wrap(x)
		return err
	})
	return out, err
}

// NewVector returns a t_VEC of n zeros.
func (r *Runtime) NewVector(ctx context.Context, n int) (*Gen, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseCall, "negative vector length")
	}
	var out *Gen
	err := r.do(ctx, func() error {
		x, err := libpari.NewVector(n)
		if err != nil {
			return err
		}
		out, err = r.wrap(x)
		return err
	})
	return out, err
}

// Zeta returns the Riemann zeta function at the integer s. precBits 0 uses
// the runtime default.
func (r *Runtime) Zeta(ctx context.Context, s int64, precBits int) (*Gen, error) {
	if precBits <= 0 {
		precBits = r.precBits
	}
	var out *Gen
	err := r.do(ctx, func() error {
		x, err := libpari.Zeta(s, precBits)
		if err != nil {
			return err
		}
		out, err = r.wrap(x)
		return err
	})
	return out, err
}

// FactorFF factors the polynomial f over the finite field F_p[t]/(a),
// where a is irreducible mod p and its variable has lower priority than f's.
func (r *Runtime) FactorFF(ctx context.Context, f, p, a *Gen) (*Gen, error) {
	if f == nil || p == nil || a == nil {
		return nil, errors.InvalidInput(errors.PhaseCall, "factorff needs f, p and a")
	}
	return r.apply(ctx, libpari.OpFactorFF, f, p, a)
}

// Call invokes the GP function name. Trailing nil arguments are omitted so
// optional parameters take their defaults.
func (r *Runtime) Call(ctx context.Context, name string, args ...*Gen) (*Gen, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseCall, "empty function name")
	}
	for len(args) > 0 && args[len(args)-1] == nil {
		args = args[:len(args)-1]
	}

	var out *Gen
	err := r.do(ctx, func() error {
		ptrs := make([]libpari.GEN, len(args))
		for i, a := range args {
			if a == nil {
				return errors.New(errors.PhaseCall, errors.KindInvalidInput).
					Function(name).
					Detail("argument %d is nil before a non-nil argument", i+1).
					Build()
			}
			obj, _, err := r.resolve(a)
			if err != nil {
				return err
			}
			ptrs[i] = obj.ptr
		}
		x, err := libpari.CallByName(name, ptrs)
		if err != nil {
			return err
		}
		out, err = r.wrap(x)
		return err
	})
	if err != nil {
		r.log.Debug("call failed", zap.String("function", name), zap.Error(err))
	}
	return out, err
}

// SetRealPrecision sets the default real precision in decimal digits.
func (r *Runtime) SetRealPrecision(ctx context.Context, digits int) error {
	if digits <= 0 {
		return errors.InvalidInput(errors.PhaseCall, "real precision must be positive")
	}
	return r.do(ctx, func() error {
		return libpari.SetRealPrecision(digits)
	})
}

// RealPrecision returns the default real precision in decimal digits.
func (r *Runtime) RealPrecision(ctx context.Context) (int, error) {
	var out int
	err := r.do(ctx, func() error {
		out = libpari.RealPrecision()
		return nil
	})
	return out, err
}
