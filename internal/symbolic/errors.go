// Package symbolic provides exact polynomial algebra in the recurrence variable n.
// It covers parsing, normalization, 2x2 polynomial matrices and exact evaluation.
package symbolic

import "errors"

var (
	// ErrDivisionByZero is returned when dividing by the zero polynomial or
	// when an expression is evaluated at one of its poles.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNotPolynomial is returned when an expression does not reduce to a
	// polynomial in n, e.g. "1/n".
	ErrNotPolynomial = errors.New("expression is not a polynomial")

	// ErrNotInteger is returned when an integer value was required.
	ErrNotInteger = errors.New("value is not an integer")

	ErrSyntax        = errors.New("syntax error")
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrBadExponent   = errors.New("exponent must be an integer constant")
)
