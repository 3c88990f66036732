// Package testbed holds end-to-end tests that drive the runtime against a
// real libpari.
package testbed

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/lattigo/v5/utils/bignum"

	"github.com/wippyai/pari-runtime/internal/libpari"
	"github.com/wippyai/pari-runtime/runtime"
)

func openRuntime(t *testing.T) *runtime.Runtime {
	t.Helper()
	if !libpari.Available {
		t.Skip("libpari not linked into this build")
	}
	rt, err := runtime.New(context.Background(), runtime.DefaultConfig())
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	t.Cleanup(func() { rt.Close(context.Background()) })
	return rt
}

func TestZeta2_PiSquaredOverSix(t *testing.T) {
	ctx := context.Background()
	rt := openRuntime(t)

	// 100 printed digits carry about 332 bits.
	if err := rt.SetRealPrecision(ctx, 100); err != nil {
		t.Fatalf("set realprecision: %v", err)
	}

	z, err := rt.Zeta(ctx, 2, 384)
	if err != nil {
		t.Fatalf("zeta(2): %v", err)
	}
	got, err := z.Float(ctx, 320)
	if err != nil {
		t.Fatalf("convert zeta(2): %v", err)
	}

	pi := bignum.Pi(320)
	want := new(big.Float).SetPrec(320).Mul(pi, pi)
	want.Quo(want, big.NewFloat(6))

	diff := new(big.Float).SetPrec(320).Sub(got, want)
	diff.Abs(diff)
	tol, _ := new(big.Float).SetString("1e-95")
	if diff.Cmp(tol) > 0 {
		t.Errorf("zeta(2) = %s\npi^2/6  = %s\n|diff|  = %s", got.Text('g', 100), want.Text('g', 100), diff.Text('g', 5))
	}
}

func TestExample_Deterministic(t *testing.T) {
	ctx := context.Background()
	rt := openRuntime(t)

	first, err := runtime.RunExample(ctx, rt, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.P != "x^3 + x^2 + x - 1" {
		t.Errorf("p = %q", first.P)
	}

	for i := range 3 {
		again, err := runtime.RunExample(ctx, rt, nil)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Errorf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
	if n := rt.Live(); n != 0 {
		t.Errorf("%d objects leaked", n)
	}
}

func TestFactorFF_ProductIsPolynomial(t *testing.T) {
	ctx := context.Background()
	rt := openRuntime(t)

	err := rt.Scope(ctx, func() error {
		p, err := rt.Eval(ctx, "x^3 + x^2 + x - 1")
		if err != nil {
			return err
		}
		a, err := rt.Eval(ctx, "y^3 + y^2 + y - 1")
		if err != nil {
			return err
		}
		three, err := rt.Int(ctx, 3)
		if err != nil {
			return err
		}

		fq, err := rt.FactorFF(ctx, p, three, a)
		if err != nil {
			return err
		}
		back, err := fq.FactorBack(ctx)
		if err != nil {
			return err
		}
		diff, err := back.Sub(ctx, p)
		if err != nil {
			return err
		}
		zero, err := diff.IsZero(ctx)
		if err != nil {
			return err
		}
		if !zero {
			return fmt.Errorf("factorback(factorff(p)) - p = %s", diff)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// The lifted and centered factors multiply back to p once their
// coefficients are reduced into F_3[y]/(y^3+y^2+y-1).
func TestLiftCenterlift_ProductReducesToP(t *testing.T) {
	ctx := context.Background()
	rt := openRuntime(t)

	report, err := runtime.RunExample(ctx, rt, nil)
	if err != nil {
		t.Fatalf("run example: %v", err)
	}

	err = rt.Scope(ctx, func() error {
		p, err := rt.Eval(ctx, "x^3 + x^2 + x - 1")
		if err != nil {
			return err
		}
		a, err := rt.Eval(ctx, "y^3 + y^2 + y - 1")
		if err != nil {
			return err
		}
		three, err := rt.Int(ctx, 3)
		if err != nil {
			return err
		}

		fq, err := rt.FactorFF(ctx, p, three, a)
		if err != nil {
			return err
		}
		lifted, err := fq.Lift(ctx)
		if err != nil {
			return err
		}
		centered, err := lifted.CenterLift(ctx)
		if err != nil {
			return err
		}
		text, err := centered.Text(ctx)
		if err != nil {
			return err
		}
		if diff := cmp.Diff(report.Factorization, text); diff != "" {
			return fmt.Errorf("centered factorization differs from the example (-example +here):\n%s", diff)
		}

		back, err := centered.FactorBack(ctx)
		if err != nil {
			return err
		}
		modp, err := rt.Call(ctx, "Mod", back, three)
		if err != nil {
			return err
		}
		reduced, err := rt.Call(ctx, "Mod", modp, a)
		if err != nil {
			return err
		}
		diff, err := reduced.Sub(ctx, p)
		if err != nil {
			return err
		}
		zero, err := diff.IsZero(ctx)
		if err != nil {
			return err
		}
		if !zero {
			return fmt.Errorf("Mod(Mod(factorback(centered), 3), a) - p = %s", diff)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	ctx := context.Background()
	rt := openRuntime(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				n := int64(w*1000 + i)
				got, err := rt.EvalString(ctx, fmt.Sprintf("%d^2 - %d", n, n))
				if err != nil {
					errs <- err
					return
				}
				if want := fmt.Sprint(n*n - n); got != want {
					errs <- fmt.Errorf("%d^2 - %d = %s, want %s", n, n, got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if n := rt.Live(); n != 0 {
		t.Errorf("%d objects leaked", n)
	}
}

func TestRepeatedEvaluation_StackStable(t *testing.T) {
	ctx := context.Background()
	rt := openRuntime(t)

	before, _, err := rt.Stack(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for range 200 {
		if _, err := rt.EvalString(ctx, "factor(2^128 + 1)"); err != nil {
			t.Fatal(err)
		}
	}
	after, _, err := rt.Stack(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after != before {
		t.Errorf("stack in use grew from %d to %d bytes", before, after)
	}
}
