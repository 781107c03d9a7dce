// Package symbolic provides exact polynomial algebra in the recurrence variable n.
// It covers parsing, normalization, 2x2 polynomial matrices and exact evaluation.
package symbolic

import (
	"fmt"
	"math/big"
	"strings"
)

// Poly is a polynomial in n with rational coefficients. The zero value is the
// zero polynomial. Coefficients are never mutated after construction, so Poly
// values can be shared freely.
type Poly struct {
	coeffs []*big.Rat // coeffs[i] multiplies n**i; no trailing zeros
}

func newPoly(coeffs []*big.Rat) Poly {
	end := len(coeffs)
	for end > 0 && coeffs[end-1].Sign() == 0 {
		end--
	}
	if end == 0 {
		return Poly{}
	}
	return Poly{coeffs: coeffs[:end]}
}

func Zero() Poly { return Poly{} }

func One() Poly { return Int(1) }

// N is the variable n.
func N() Poly {
	return newPoly([]*big.Rat{new(big.Rat), big.NewRat(1, 1)})
}

func Int(v int64) Poly {
	return newPoly([]*big.Rat{big.NewRat(v, 1)})
}

func Const(r *big.Rat) Poly {
	return newPoly([]*big.Rat{new(big.Rat).Set(r)})
}

// Monomial returns coef * n**degree.
func Monomial(coef *big.Rat, degree int) Poly {
	coeffs := make([]*big.Rat, degree+1)
	for i := range coeffs {
		coeffs[i] = new(big.Rat)
	}
	coeffs[degree].Set(coef)
	return newPoly(coeffs)
}

// Degree returns -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p.coeffs) - 1 }

func (p Poly) IsZero() bool { return len(p.coeffs) == 0 }

func (p Poly) IsConst() bool { return len(p.coeffs) <= 1 }

// Coeff returns a copy of the coefficient of n**i.
func (p Poly) Coeff(i int) *big.Rat {
	if i < 0 || i >= len(p.coeffs) {
		return new(big.Rat)
	}
	return new(big.Rat).Set(p.coeffs[i])
}

// ConstValue returns the constant term. It is the value of p when p.IsConst().
func (p Poly) ConstValue() *big.Rat { return p.Coeff(0) }

// IsInteger reports whether every coefficient is an integer.
func (p Poly) IsInteger() bool {
	for _, c := range p.coeffs {
		if !c.IsInt() {
			return false
		}
	}
	return true
}

func (p Poly) Add(q Poly) Poly {
	size := max(len(p.coeffs), len(q.coeffs))
	out := make([]*big.Rat, size)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(p.coeffs) {
			out[i].Add(out[i], p.coeffs[i])
		}
		if i < len(q.coeffs) {
			out[i].Add(out[i], q.coeffs[i])
		}
	}
	return newPoly(out)
}

func (p Poly) Neg() Poly {
	out := make([]*big.Rat, len(p.coeffs))
	for i, c := range p.coeffs {
		out[i] = new(big.Rat).Neg(c)
	}
	return newPoly(out)
}

func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

func (p Poly) Mul(q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return Poly{}
	}
	out := make([]*big.Rat, len(p.coeffs)+len(q.coeffs)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	term := new(big.Rat)
	for i, a := range p.coeffs {
		for j, b := range q.coeffs {
			term.Mul(a, b)
			out[i+j].Add(out[i+j], term)
		}
	}
	return newPoly(out)
}

// Scale multiplies every coefficient by r.
func (p Poly) Scale(r *big.Rat) Poly {
	out := make([]*big.Rat, len(p.coeffs))
	for i, c := range p.coeffs {
		out[i] = new(big.Rat).Mul(c, r)
	}
	return newPoly(out)
}

// Pow raises p to a non-negative integer power.
func (p Poly) Pow(k int) Poly {
	if k < 0 {
		panic(fmt.Sprintf("symbolic: negative exponent %d", k))
	}
	result := One()
	base := p
	for k > 0 {
		if k&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		k >>= 1
	}
	return result
}

// Compose substitutes q for n, returning p(q(n)).
func (p Poly) Compose(q Poly) Poly {
	result := Poly{}
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		result = result.Mul(q).Add(Const(p.coeffs[i]))
	}
	return result
}

// Affine returns p(scale*n + offset).
func (p Poly) Affine(scale, offset int64) Poly {
	return p.Compose(N().Scale(big.NewRat(scale, 1)).Add(Int(offset)))
}

// Shift returns p(n + k).
func (p Poly) Shift(k int64) Poly { return p.Affine(1, k) }

// DivMod performs polynomial long division over Q.
func (p Poly) DivMod(d Poly) (quo, rem Poly, err error) {
	if d.IsZero() {
		return Poly{}, Poly{}, ErrDivisionByZero
	}
	if p.Degree() < d.Degree() {
		return Poly{}, p, nil
	}
	rem = p
	lead := d.coeffs[len(d.coeffs)-1]
	quoCoeffs := make([]*big.Rat, p.Degree()-d.Degree()+1)
	for i := range quoCoeffs {
		quoCoeffs[i] = new(big.Rat)
	}
	for !rem.IsZero() && rem.Degree() >= d.Degree() {
		shift := rem.Degree() - d.Degree()
		factor := new(big.Rat).Quo(rem.coeffs[len(rem.coeffs)-1], lead)
		quoCoeffs[shift].Set(factor)
		rem = rem.Sub(d.Mul(Monomial(factor, shift)))
	}
	return newPoly(quoCoeffs), rem, nil
}

// DivExact divides p by d and fails with ErrNotPolynomial when d does not
// divide p.
func (p Poly) DivExact(d Poly) (Poly, error) {
	quo, rem, err := p.DivMod(d)
	if err != nil {
		return Poly{}, err
	}
	if !rem.IsZero() {
		return Poly{}, fmt.Errorf("%w: (%s) / (%s)", ErrNotPolynomial, p, d)
	}
	return quo, nil
}

// Lead returns a copy of the leading coefficient, or 0 for the zero polynomial.
func (p Poly) Lead() *big.Rat { return p.Coeff(p.Degree()) }

// Monic scales p so that its leading coefficient is 1.
func (p Poly) Monic() Poly {
	if p.IsZero() {
		return p
	}
	return p.Scale(new(big.Rat).Inv(p.Lead()))
}

// GCD returns the monic greatest common divisor of p and q. GCD(0, 0) is 0.
func GCD(p, q Poly) Poly {
	for !q.IsZero() {
		_, rem, _ := p.DivMod(q)
		p, q = q, rem
	}
	return p.Monic()
}

// Eval evaluates p exactly at x.
func (p Poly) Eval(x *big.Rat) *big.Rat {
	result := new(big.Rat)
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, p.coeffs[i])
	}
	return result
}

// EvalInt evaluates p at an integer point and requires an integer result.
func (p Poly) EvalInt(x int64) (*big.Int, error) {
	v := p.Eval(big.NewRat(x, 1))
	if !v.IsInt() {
		return nil, fmt.Errorf("%w: %s at n=%d is %s", ErrNotInteger, p, x, v.RatString())
	}
	return new(big.Int).Set(v.Num()), nil
}

func (p Poly) Equal(q Poly) bool {
	if len(p.coeffs) != len(q.coeffs) {
		return false
	}
	for i := range p.coeffs {
		if p.coeffs[i].Cmp(q.coeffs[i]) != 0 {
			return false
		}
	}
	return true
}

// String renders p in descending powers, e.g. "n**2 + 2*n + 1" or "3*n/2 - 1".
func (p Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	first := true
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		c := p.coeffs[i]
		if c.Sign() == 0 {
			continue
		}
		switch {
		case first && c.Sign() < 0:
			sb.WriteString("-")
		case !first && c.Sign() < 0:
			sb.WriteString(" - ")
		case !first:
			sb.WriteString(" + ")
		}
		first = false
		sb.WriteString(formatTerm(new(big.Rat).Abs(c), i))
	}
	return sb.String()
}

func formatTerm(abs *big.Rat, degree int) string {
	num := abs.Num().String()
	den := abs.Denom().String()
	if degree == 0 {
		if abs.IsInt() {
			return num
		}
		return num + "/" + den
	}
	mono := "n"
	if degree > 1 {
		mono = fmt.Sprintf("n**%d", degree)
	}
	term := mono
	if num != "1" {
		term = num + "*" + mono
	}
	if !abs.IsInt() {
		term += "/" + den
	}
	return term
}
