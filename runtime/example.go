package runtime

import (
	"context"
	"fmt"
	"io"
)

// ExampleReport holds the lines printed by RunExample.
type ExampleReport struct {
	Zeta2         string
	P             string
	Modulus       string
	Factorization string
}

// Lines returns the report in print order.
func (e *ExampleReport) Lines() []string {
	return []string{
		"zeta(2) = " + e.Zeta2,
		"p = " + e.P,
		"modulus = " + e.Modulus,
		"centerlift(lift(fq)) = " + e.Factorization,
	}
}

// RunExample evaluates zeta(2), builds p = x^3 + x^2 + x - 1 and the
// modulus y^3 + y^2 + y - 1, factors p over F_3[y]/(modulus) and writes
// centerlift(lift(factorization)). All PARI memory it uses is released
// before it returns. w may be nil.
func RunExample(ctx context.Context, r *Runtime, w io.Writer) (*ExampleReport, error) {
	report := &ExampleReport{}
	err := r.Scope(ctx, func() error {
		zeta2, err := r.Zeta(ctx, 2, 0)
		if err != nil {
			return fmt.Errorf("zeta(2): %w", err)
		}
		if report.Zeta2, err = zeta2.Text(ctx); err != nil {
			return err
		}

		p, err := cubic(ctx, r, "x")
		if err != nil {
			return fmt.Errorf("build p: %w", err)
		}
		if report.P, err = p.Text(ctx); err != nil {
			return err
		}

		modulus, err := cubic(ctx, r, "y")
		if err != nil {
			return fmt.Errorf("build modulus: %w", err)
		}
		if report.Modulus, err = modulus.Text(ctx); err != nil {
			return err
		}

		three, err := r.Int(ctx, 3)
		if err != nil {
			return err
		}
		fq, err := r.FactorFF(ctx, p, three, modulus)
		if err != nil {
			return fmt.Errorf("factorff: %w", err)
		}
		lifted, err := fq.Lift(ctx)
		if err != nil {
			return err
		}
		centered, err := lifted.CenterLift(ctx)
		if err != nil {
			return err
		}
		report.Factorization, err = centered.Text(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if w != nil {
		for _, line := range report.Lines() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

// cubic returns v^3 + v^2 + v - 1 built from pow and add.
func cubic(ctx context.Context, r *Runtime, name string) (*Gen, error) {
	v, err := r.Var(ctx, name)
	if err != nil {
		return nil, err
	}
	two, err := r.Int(ctx, 2)
	if err != nil {
		return nil, err
	}
	three, err := r.Int(ctx, 3)
	if err != nil {
		return nil, err
	}
	minusOne, err := r.Int(ctx, -1)
	if err != nil {
		return nil, err
	}

	v3, err := v.Pow(ctx, three)
	if err != nil {
		return nil, err
	}
	v2, err := v.Pow(ctx, two)
	if err != nil {
		return nil, err
	}
	sum, err := v3.Add(ctx, v2)
	if err != nil {
		return nil, err
	}
	if sum, err = sum.Add(ctx, v); err != nil {
		return nil, err
	}
	return sum.Add(ctx, minusOne)
}
