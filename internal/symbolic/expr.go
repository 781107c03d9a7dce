// Package symbolic provides exact polynomial algebra in the recurrence variable n.
// It covers parsing, normalization, 2x2 polynomial matrices and exact evaluation.
package symbolic

import (
	"fmt"
	"math/big"
)

// Expr is a parsed rational expression in n.
type Expr interface {
	// Rational reduces the expression to a quotient of polynomials. Division
	// by an expression that is identically zero yields ErrDivisionByZero.
	Rational() (Rational, error)
	String() string
}

type constExpr struct{ v *big.Rat }

func (e constExpr) Rational() (Rational, error) { return PolyRational(Const(e.v)), nil }
func (e constExpr) String() string { return e.v.RatString() }

type varExpr struct{}

func (varExpr) Rational() (Rational, error) { return PolyRational(N()), nil }
func (varExpr) String() string { return Variable }

type negExpr struct{ x Expr }

func (e negExpr) Rational() (Rational, error) {
	r, err := e.x.Rational()
	if err != nil {
		return Rational{}, err
	}
	return r.Neg(), nil
}

func (e negExpr) String() string { return "-(" + e.x.String() + ")" }

type powExpr struct {
	base Expr
	exp  int
}

func (e powExpr) Rational() (Rational, error) {
	r, err := e.base.Rational()
	if err != nil {
		return Rational{}, err
	}
	return r.Pow(e.exp), nil
}

func (e powExpr) String() string { return fmt.Sprintf("(%s)**%d", e.base, e.exp) }

type binaryExpr struct {
	op   byte
	l, r Expr
}

func (e binaryExpr) Rational() (Rational, error) {
	l, err := e.l.Rational()
	if err != nil {
		return Rational{}, err
	}
	r, err := e.r.Rational()
	if err != nil {
		return Rational{}, err
	}
	switch e.op {
	case '+':
		return l.Add(r), nil
	case '-':
		return l.Sub(r), nil
	case '*':
		return l.Mul(r), nil
	case '/':
		return l.Quo(r)
	}
	return Rational{}, fmt.Errorf("%w: operator %q", ErrSyntax, e.op)
}

func (e binaryExpr) String() string {
	return "(" + e.l.String() + " " + string(e.op) + " " + e.r.String() + ")"
}
