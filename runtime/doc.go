// Package runtime provides the high-level API for the PARI/GP library.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, runtime.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	p, err := rt.Eval(ctx, "x^4 + 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f, err := p.Factor(ctx)
//	fmt.Println(f) // [x^4 + 1, 1]
//
// With wraps New and Close for callers that want the runtime scoped to a
// function:
//
//	err := runtime.With(ctx, runtime.DefaultConfig(), func(rt *runtime.Runtime) error {
//	    _, err := runtime.RunExample(ctx, rt, os.Stdout)
//	    return err
//	})
//
// # Values
//
// PARI objects are exposed as *Gen handles. Arithmetic and conversion are
// methods on Gen; construction and named calls hang off Runtime:
//
//	Int, BigInt, Eval, Var, NewVector   - construction
//	Add, Sub, Mul, Div, Mod, Pow, Neg   - arithmetic
//	Cmp, Equal, IsZero                  - comparison
//	Zeta, FactorFF, Lift, CenterLift    - number theory
//	Call(ctx, "name", args...)          - any GP function
//	Text, BigInt, Int64, Float          - conversion back to Go
//
// # Errors
//
// PARI errors are recovered and returned as *errors.Error with Kind
// KindPari, the PARI error number in ErrNum and its name (e.g. "e_INV")
// in Code. The runtime stays usable afterwards.
//
// # Memory
//
// PARI allocates on a single stack. Objects created outside a Scope live
// until the runtime closes; long computations should run inside Scope,
// which pops the stack and invalidates the Gens created inside it:
//
//	var digits string
//	err := rt.Scope(ctx, func() error {
//	    z, err := rt.Zeta(ctx, 3, 256)
//	    if err != nil {
//	        return err
//	    }
//	    digits, err = z.Text(ctx)
//	    return err
//	})
//
// A stack overflow is reported as a PARI error of kind allocation; raise
// Config.StackSize if it happens.
//
// # Concurrency
//
// A Runtime may be used from many goroutines. Calls are serialized onto
// the PARI thread. Only one Runtime may be open per process.
package runtime
