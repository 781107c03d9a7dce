// Package pcf implements polynomial continued fractions
//
//	a(0) + b(1) / (a(1) + b(2) / (a(2) + ...))
//
// through their 2x2 recurrence (companion) matrices.
package pcf

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/cfgraph/core/internal/symbolic"
	"github.com/cfgraph/core/internal/transform"
)

var (
	ErrInvalidDepth    = errors.New("depth must be non-negative")
	ErrUndefinedLimit  = errors.New("convergent denominator is zero")
	ErrSingularFold    = errors.New("matrix has a zero lower-left entry")
	ErrNonIntegerEntry = errors.New("PCF does not have integer values")
)

// exactDigits is reported when two consecutive convergents coincide.
const exactDigits = 100

type PCF struct {
	A symbolic.Poly
	B symbolic.Poly
}

func New(a, b string) (PCF, error) {
	pa, err := symbolic.ParsePoly(a)
	if err != nil {
		return PCF{}, fmt.Errorf("partial denominator: %w", err)
	}
	pb, err := symbolic.ParsePoly(b)
	if err != nil {
		return PCF{}, fmt.Errorf("partial numerator: %w", err)
	}
	return PCF{A: pa, B: pb}, nil
}

func (p PCF) String() string { return fmt.Sprintf("PCF(%s, %s)", p.A, p.B) }

// Matrix is the companion matrix [[0, b(n)], [1, a(n)]].
func (p PCF) Matrix() symbolic.Matrix {
	return symbolic.NewMatrix(symbolic.Zero(), p.B, symbolic.One(), p.A)
}

// RationalMatrix is the companion matrix of a and b written as m/den with
// polynomial m. Unlike New it accepts rational expressions; for polynomial
// a and b, m is the companion matrix and den is 1.
func RationalMatrix(a, b string) (m symbolic.Matrix, den symbolic.Poly, err error) {
	ra, err := symbolic.ParseRational(a)
	if err != nil {
		return symbolic.Matrix{}, symbolic.Poly{}, fmt.Errorf("partial denominator: %w", err)
	}
	rb, err := symbolic.ParseRational(b)
	if err != nil {
		return symbolic.Matrix{}, symbolic.Poly{}, fmt.Errorf("partial numerator: %w", err)
	}
	zero, one := symbolic.PolyRational(symbolic.Zero()), symbolic.PolyRational(symbolic.One())
	m, den = symbolic.ClearDenominators([2][2]symbolic.Rational{{zero, rb}, {one, ra}})
	return m, den, nil
}

// IntMatrix is a 2x2 integer matrix [[p_{k-1}, p_k], [q_{k-1}, q_k]].
type IntMatrix [2][2]*big.Int

func (m IntMatrix) mul(o IntMatrix) IntMatrix {
	var out IntMatrix
	for i := range 2 {
		for j := range 2 {
			a := new(big.Int).Mul(m[i][0], o[0][j])
			b := new(big.Int).Mul(m[i][1], o[1][j])
			out[i][j] = a.Add(a, b)
		}
	}
	return out
}

func (m IntMatrix) String() string {
	return fmt.Sprintf("[[%s, %s], [%s, %s]]", m[0][0], m[0][1], m[1][0], m[1][1])
}

// Convergent returns A · M(1) ··· M(depth) where A = [[1, a(0)], [0, 1]] holds
// the standard initial conditions. The top-right over bottom-right entry is
// the depth-th approximant of the continued fraction.
func (p PCF) Convergent(depth int) (IntMatrix, error) {
	if depth < 0 {
		return IntMatrix{}, ErrInvalidDepth
	}
	a0, err := p.A.EvalInt(0)
	if err != nil {
		return IntMatrix{}, fmt.Errorf("%w: %v", ErrNonIntegerEntry, err)
	}
	acc := IntMatrix{{big.NewInt(1), a0}, {big.NewInt(0), big.NewInt(1)}}
	for k := 1; k <= depth; k++ {
		ak, err := p.A.EvalInt(int64(k))
		if err != nil {
			return IntMatrix{}, fmt.Errorf("%w: %v", ErrNonIntegerEntry, err)
		}
		bk, err := p.B.EvalInt(int64(k))
		if err != nil {
			return IntMatrix{}, fmt.Errorf("%w: %v", ErrNonIntegerEntry, err)
		}
		acc = acc.mul(IntMatrix{{big.NewInt(0), bk}, {big.NewInt(1), ak}})
	}
	return acc, nil
}

// Precision estimates the number of correct decimal digits of the approximant
// held by a convergent matrix from the distance between its two columns.
func Precision(m IntMatrix) int {
	p1, p2 := m[0][0], m[0][1]
	q1, q2 := m[1][0], m[1][1]
	num := new(big.Int).Sub(new(big.Int).Mul(p2, q1), new(big.Int).Mul(q2, p1))
	den := new(big.Int).Mul(q1, q2)
	if den.Sign() == 0 {
		return 0
	}
	if num.Sign() == 0 {
		return exactDigits
	}
	digits := log10Abs(den) - log10Abs(num)
	return int(math.Floor(digits))
}

func log10Abs(x *big.Int) float64 {
	s := new(big.Int).Abs(x).String()
	const lead = 15
	if len(s) <= lead {
		f, _ := new(big.Float).SetInt(new(big.Int).Abs(x)).Float64()
		return math.Log10(f)
	}
	head, _ := new(big.Float).SetString(s[:lead])
	f, _ := head.Float64()
	return math.Log10(f) + float64(len(s)-lead)
}

// Limit approximates the value of the continued fraction at the given depth.
// It returns the approximant and the estimated number of correct digits.
func (p PCF) Limit(depth int) (*big.Float, int, error) {
	m, err := p.Convergent(depth)
	if err != nil {
		return nil, 0, err
	}
	if m[1][1].Sign() == 0 {
		return nil, 0, ErrUndefinedLimit
	}
	digits := Precision(m)
	bits := uint(max(digits, 16)*4 + 64)
	num := new(big.Float).SetPrec(bits).SetInt(m[0][1])
	den := new(big.Float).SetPrec(bits).SetInt(m[1][1])
	return num.Quo(num, den), digits, nil
}

// AsPCF converts a polynomial recurrence matrix M = [[a, b], [c, d]] into the
// PCF with the same sequence of approximants, together with the coboundary
// that relates them:
//
//	c(n-1) · M(n) · U(n+1) = U(n) · PCF.Matrix()(n),  U = [[1, a c(n-1)], [0, c c(n-1)]]
//
// No deflation is performed, so the result may carry a common content.
func AsPCF(m symbolic.Matrix) (PCF, transform.Coboundary, error) {
	a, b, c, d := m[0][0], m[0][1], m[1][0], m[1][1]
	if c.IsZero() {
		return PCF{}, transform.Coboundary{}, ErrSingularFold
	}
	cPrev := c.Shift(-1)
	cNext := c.Shift(1)

	result := PCF{
		A: c.Mul(a.Shift(1)).Add(d.Mul(cNext)),
		B: b.Mul(c).Sub(a.Mul(d)).Mul(cPrev).Mul(cNext),
	}
	cob := transform.Coboundary{
		U:  symbolic.NewMatrix(symbolic.One(), a.Mul(cPrev), symbolic.Zero(), c.Mul(cPrev)),
		G1: cPrev,
		G2: symbolic.One(),
	}
	return result, cob, nil
}

// Fold folds p by factor and converts the folded recurrence back into a PCF.
// The returned transformation relates p (through the fold) to the new PCF.
func Fold(p PCF, factor int) (PCF, transform.Transformation, error) {
	fold := transform.Fold{Factor: factor}
	if err := transform.Validate(fold); err != nil {
		return PCF{}, transform.Transformation{}, err
	}
	folded, cob, err := AsPCF(fold.Apply(p.Matrix()))
	if err != nil {
		return PCF{}, transform.Transformation{}, err
	}
	return folded, transform.Transformation{Fold1: fold, Fold2: transform.Identity{}, Coboundary: cob}, nil
}
