// Package symbolic provides exact polynomial algebra in the recurrence variable n.
// It covers parsing, normalization, 2x2 polynomial matrices and exact evaluation.
package symbolic

import (
	"fmt"
	"math/big"
)

// Rational is a rational function Num/Den in n. Values built by this package
// are reduced: Den is monic and shares no factor with Num.
type Rational struct {
	Num Poly
	Den Poly
}

// NewRational reduces num/den.
func NewRational(num, den Poly) (Rational, error) {
	if den.IsZero() {
		return Rational{}, ErrDivisionByZero
	}
	return reduce(num, den), nil
}

func PolyRational(p Poly) Rational { return Rational{Num: p, Den: One()} }

func reduce(num, den Poly) Rational {
	if num.IsZero() {
		return Rational{Num: Zero(), Den: One()}
	}
	if g := GCD(num, den); g.Degree() > 0 {
		num, _ = num.DivExact(g)
		den, _ = den.DivExact(g)
	}
	inv := new(big.Rat).Inv(den.Lead())
	return Rational{Num: num.Scale(inv), Den: den.Scale(inv)}
}

func (r Rational) IsZero() bool { return r.Num.IsZero() }

// IsPoly reports whether r has a constant denominator.
func (r Rational) IsPoly() bool { return r.Den.IsConst() }

// Poly returns r as a polynomial, or ErrNotPolynomial when its denominator
// depends on n.
func (r Rational) Poly() (Poly, error) {
	if r.Den.IsZero() {
		return Poly{}, ErrDivisionByZero
	}
	if !r.IsPoly() {
		return Poly{}, fmt.Errorf("%w: %s", ErrNotPolynomial, r)
	}
	return r.Num.Scale(new(big.Rat).Inv(r.Den.ConstValue())), nil
}

func (r Rational) Add(o Rational) Rational {
	return reduce(r.Num.Mul(o.Den).Add(o.Num.Mul(r.Den)), r.Den.Mul(o.Den))
}

func (r Rational) Neg() Rational { return Rational{Num: r.Num.Neg(), Den: r.Den} }

func (r Rational) Sub(o Rational) Rational { return r.Add(o.Neg()) }

func (r Rational) Mul(o Rational) Rational {
	return reduce(r.Num.Mul(o.Num), r.Den.Mul(o.Den))
}

func (r Rational) Quo(o Rational) (Rational, error) {
	return NewRational(r.Num.Mul(o.Den), r.Den.Mul(o.Num))
}

// Pow raises r to a non-negative integer power.
func (r Rational) Pow(k int) Rational {
	return reduce(r.Num.Pow(k), r.Den.Pow(k))
}

func (r Rational) String() string {
	if r.IsPoly() {
		p, _ := r.Poly()
		return p.String()
	}
	return fmt.Sprintf("(%s)/(%s)", r.Num, r.Den)
}

// LCM returns the monic least common multiple of p and q.
func LCM(p, q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return Zero()
	}
	quo, _ := p.Mul(q).DivExact(GCD(p, q))
	return quo.Monic()
}

// ClearDenominators writes the entries of a rational matrix over their least
// common denominator: entries[i][j] = m[i][j] / den.
func ClearDenominators(entries [2][2]Rational) (m Matrix, den Poly) {
	den = One()
	for i := range 2 {
		for j := range 2 {
			den = LCM(den, entries[i][j].Den)
		}
	}
	for i := range 2 {
		for j := range 2 {
			scale, _ := den.DivExact(entries[i][j].Den)
			m[i][j] = entries[i][j].Num.Mul(scale)
		}
	}
	return m, den
}
