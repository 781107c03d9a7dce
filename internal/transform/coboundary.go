// Package transform defines the named matrix transforms carried on coboundary
// edges and the coboundary relation they are checked against.
package transform

import (
	"context"
	"fmt"

	"github.com/cfgraph/core/internal/symbolic"
)

// Coboundary relates two recurrence matrices F1 and F2 through
//
//	G1(n) · F1(n) · U(n+1) = G2(n) · U(n) · F2(n)
//
// which is U(n)^-1 F1(n) U(n+1) = (G2/G1) F2(n) with the denominators cleared.
// G1 and G2 are scalar polynomials. A zero G1 or G2 field means 1; the JSON
// codec rejects an explicit zero.
type Coboundary struct {
	U  symbolic.Matrix
	G1 symbolic.Poly
	G2 symbolic.Poly
}

func (c Coboundary) g1() symbolic.Poly {
	if c.G1.IsZero() {
		return symbolic.One()
	}
	return c.G1
}

func (c Coboundary) g2() symbolic.Poly {
	if c.G2.IsZero() {
		return symbolic.One()
	}
	return c.G2
}

// Apply maps F1 to the left-hand side G1(n) · F1(n) · U(n+1).
func (c Coboundary) Apply(f1 symbolic.Matrix) symbolic.Matrix {
	return f1.Mul(c.U.Shift(1)).Scale(c.g1())
}

// Target maps F2 to the right-hand side G2(n) · U(n) · F2(n).
func (c Coboundary) Target(f2 symbolic.Matrix) symbolic.Matrix {
	return c.U.Mul(f2).Scale(c.g2())
}

// Residual is Apply(f1) - Target(f2); the relation holds iff it is zero.
func (c Coboundary) Residual(f1, f2 symbolic.Matrix) symbolic.Matrix {
	return c.Apply(f1).Sub(c.Target(f2))
}

func (c Coboundary) Holds(f1, f2 symbolic.Matrix) bool {
	return c.Residual(f1, f2).IsZero()
}

func (c Coboundary) String() string {
	return fmt.Sprintf("coboundary(U=%s, g1=%s, g2=%s)", c.U, c.g1(), c.g2())
}

// Transformation is the verified triple stored on a proven edge: fold
// transforms for both endpoints and the coboundary relating the results.
type Transformation struct {
	Fold1      MatrixTransform
	Fold2      MatrixTransform
	Coboundary Coboundary
}

// Residual folds m1 and m2 and returns the coboundary residual. A nil fold
// transform acts as Identity.
func (t Transformation) Residual(m1, m2 symbolic.Matrix) symbolic.Matrix {
	residual, _ := t.ResidualContext(context.Background(), m1, symbolic.One(), m2, symbolic.One())
	return residual
}

// ResidualContext checks the relation between the rational recurrence
// matrices m1/d1 and m2/d2. Folding m/d gives fold(m)/fold(d·I), so with
// e1 and e2 the folded denominators the relation becomes
//
//	G1 · e2 · fold1(m1) · U(n+1) = G2 · e1 · U(n) · fold2(m2)
//
// which is a polynomial identity. The residual is zero iff it holds.
func (t Transformation) ResidualContext(ctx context.Context, m1 symbolic.Matrix, d1 symbolic.Poly, m2 symbolic.Matrix, d2 symbolic.Poly) (symbolic.Matrix, error) {
	fold1, fold2 := orIdentity(t.Fold1), orIdentity(t.Fold2)
	f1, err := ApplyContext(ctx, fold1, m1)
	if err != nil {
		return symbolic.Matrix{}, err
	}
	f2, err := ApplyContext(ctx, fold2, m2)
	if err != nil {
		return symbolic.Matrix{}, err
	}
	e1, e2 := symbolic.One(), symbolic.One()
	if !d1.Equal(symbolic.One()) {
		folded, err := ApplyContext(ctx, fold1, symbolic.Scalar(d1))
		if err != nil {
			return symbolic.Matrix{}, err
		}
		e1 = folded[0][0]
	}
	if !d2.Equal(symbolic.One()) {
		folded, err := ApplyContext(ctx, fold2, symbolic.Scalar(d2))
		if err != nil {
			return symbolic.Matrix{}, err
		}
		e2 = folded[0][0]
	}
	cleared := Coboundary{
		U:  t.Coboundary.U,
		G1: t.Coboundary.g1().Mul(e2),
		G2: t.Coboundary.g2().Mul(e1),
	}
	return cleared.Residual(f1, f2), nil
}

func (t Transformation) Holds(m1, m2 symbolic.Matrix) bool {
	return t.Residual(m1, m2).IsZero()
}

func (t Transformation) Validate() error {
	if err := Validate(orIdentity(t.Fold1)); err != nil {
		return fmt.Errorf("fold1: %w", err)
	}
	if err := Validate(orIdentity(t.Fold2)); err != nil {
		return fmt.Errorf("fold2: %w", err)
	}
	if t.Coboundary.U.IsZero() {
		return fmt.Errorf("%w: zero coboundary matrix", ErrMissingCoboundary)
	}
	return nil
}

func (t Transformation) String() string {
	return fmt.Sprintf("%s ; %s ; %s", orIdentity(t.Fold1), orIdentity(t.Fold2), t.Coboundary)
}
