// Package symbolic provides exact polynomial algebra in the recurrence variable n.
// It covers parsing, normalization, 2x2 polynomial matrices and exact evaluation.
package symbolic

import "fmt"

// Matrix is a 2x2 matrix of polynomials in n.
type Matrix [2][2]Poly

func NewMatrix(a, b, c, d Poly) Matrix {
	return Matrix{{a, b}, {c, d}}
}

func Identity() Matrix {
	return NewMatrix(One(), Zero(), Zero(), One())
}

// Scalar is the diagonal matrix p·I.
func Scalar(p Poly) Matrix {
	return NewMatrix(p, Zero(), Zero(), p)
}

// ParseMatrix parses row-major rational entries and returns them over a
// common denominator: entry (i, j) is m[i][j] / den. Polynomial entries give
// den = 1.
func ParseMatrix(entries [2][2]string) (m Matrix, den Poly, err error) {
	var parsed [2][2]Rational
	for i := range 2 {
		for j := range 2 {
			r, err := ParseRational(entries[i][j])
			if err != nil {
				return Matrix{}, Poly{}, fmt.Errorf("entry (%d,%d): %w", i, j, err)
			}
			parsed[i][j] = r
		}
	}
	m, den = ClearDenominators(parsed)
	return m, den, nil
}

func (m Matrix) Mul(o Matrix) Matrix {
	var out Matrix
	for i := range 2 {
		for j := range 2 {
			out[i][j] = m[i][0].Mul(o[0][j]).Add(m[i][1].Mul(o[1][j]))
		}
	}
	return out
}

func (m Matrix) Sub(o Matrix) Matrix {
	var out Matrix
	for i := range 2 {
		for j := range 2 {
			out[i][j] = m[i][j].Sub(o[i][j])
		}
	}
	return out
}

// Scale multiplies every entry by the polynomial p.
func (m Matrix) Scale(p Poly) Matrix {
	var out Matrix
	for i := range 2 {
		for j := range 2 {
			out[i][j] = m[i][j].Mul(p)
		}
	}
	return out
}

// Affine substitutes scale*n + offset for n in every entry.
func (m Matrix) Affine(scale, offset int64) Matrix {
	var out Matrix
	for i := range 2 {
		for j := range 2 {
			out[i][j] = m[i][j].Affine(scale, offset)
		}
	}
	return out
}

// Shift returns M(n + k).
func (m Matrix) Shift(k int64) Matrix { return m.Affine(1, k) }

func (m Matrix) Det() Poly {
	return m[0][0].Mul(m[1][1]).Sub(m[0][1].Mul(m[1][0]))
}

func (m Matrix) IsZero() bool {
	for i := range 2 {
		for j := range 2 {
			if !m[i][j].IsZero() {
				return false
			}
		}
	}
	return true
}

func (m Matrix) Equal(o Matrix) bool { return m.Sub(o).IsZero() }

// Strings returns the row-major entries in canonical form.
func (m Matrix) Strings() [2][2]string {
	var out [2][2]string
	for i := range 2 {
		for j := range 2 {
			out[i][j] = m[i][j].String()
		}
	}
	return out
}

func (m Matrix) String() string {
	return fmt.Sprintf("[[%s, %s], [%s, %s]]", m[0][0], m[0][1], m[1][0], m[1][1])
}
