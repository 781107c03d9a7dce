// Package transform defines the named matrix transforms carried on coboundary
// edges and the coboundary relation they are checked against.
package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgraph/core/internal/symbolic"
)

func poly(src string) symbolic.Poly {
	p, err := symbolic.ParsePoly(src)
	if err != nil {
		panic(err)
	}
	return p
}

func companion(a, b string) symbolic.Matrix {
	return symbolic.NewMatrix(symbolic.Zero(), poly(b), symbolic.One(), poly(a))
}

func TestFold(t *testing.T) {
	m := companion("2*n + 1", "n**2")

	t.Run("factor one is identity", func(t *testing.T) {
		assert.True(t, Fold{Factor: 1}.Apply(m).Equal(m))
	})

	t.Run("factor two multiplies consecutive steps", func(t *testing.T) {
		want := m.Affine(2, -1).Mul(m.Affine(2, 0))

		assert.True(t, Fold{Factor: 2}.Apply(m).Equal(want))
	})

	t.Run("factor three", func(t *testing.T) {
		want := m.Affine(3, -2).Mul(m.Affine(3, -1)).Mul(m.Affine(3, 0))

		assert.True(t, Fold{Factor: 3}.Apply(m).Equal(want))
	})

	t.Run("scalar matrices fold to scalar matrices", func(t *testing.T) {
		d := poly("n + 1")

		got := Fold{Factor: 2}.Apply(symbolic.Scalar(d))

		assert.True(t, got.Equal(symbolic.Scalar(poly("(2*n)*(2*n + 1)"))))
	})
}

func TestShiftAndCompose(t *testing.T) {
	m := companion("n", "n**2 + 1")

	t.Run("shift", func(t *testing.T) {
		assert.True(t, Shift{By: 2}.Apply(m).Equal(m.Shift(2)))
	})

	t.Run("negative shift", func(t *testing.T) {
		assert.Equal(t, "[[0, n**2 - 2*n + 2], [1, n - 1]]", Shift{By: -1}.Apply(m).String())
	})

	t.Run("compose applies left to right", func(t *testing.T) {
		c := Compose{Steps: []MatrixTransform{Shift{By: 1}, Fold{Factor: 2}}}

		want := Fold{Factor: 2}.Apply(m.Shift(1))

		assert.True(t, c.Apply(m).Equal(want))
		assert.Equal(t, "compose(shift(1), fold(2))", c.String())
	})

	t.Run("empty compose is identity", func(t *testing.T) {
		assert.True(t, Compose{}.Apply(m).Equal(m))
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Identity{}))
	assert.NoError(t, Validate(Shift{By: -3}))
	assert.NoError(t, Validate(Fold{Factor: 2}))
	assert.NoError(t, Validate(Fold{Factor: MaxFoldFactor}))
	assert.ErrorIs(t, Validate(Fold{Factor: 0}), ErrInvalidFactor)
	assert.ErrorIs(t, Validate(nil), ErrMissingTransform)
	assert.ErrorIs(t, Validate(Compose{Steps: []MatrixTransform{Fold{Factor: -1}}}), ErrInvalidFactor)

	t.Run("bounds", func(t *testing.T) {
		assert.ErrorIs(t, Validate(Fold{Factor: 1_000_000_000}), ErrInvalidFactor)
		assert.ErrorIs(t, Validate(Shift{By: MaxShift + 1}), ErrInvalidShift)

		nested := Compose{Steps: []MatrixTransform{Fold{Factor: 8}, Compose{Steps: []MatrixTransform{Fold{Factor: 16}}}}}
		assert.ErrorIs(t, Validate(nested), ErrInvalidFactor)

		long := Compose{Steps: make([]MatrixTransform, MaxComposeSteps+1)}
		for i := range long.Steps {
			long.Steps[i] = Identity{}
		}
		assert.ErrorIs(t, Validate(long), ErrTooComplex)
	})
}

func TestApplyContext(t *testing.T) {
	m := companion("2*n + 1", "n**2")

	t.Run("matches apply", func(t *testing.T) {
		c := Compose{Steps: []MatrixTransform{Shift{By: 1}, Fold{Factor: 3}}}

		got, err := ApplyContext(context.Background(), c, m)

		require.NoError(t, err)
		assert.True(t, got.Equal(c.Apply(m)))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := ApplyContext(ctx, Fold{Factor: MaxFoldFactor}, m)
		assert.ErrorIs(t, err, context.Canceled)

		_, err = ApplyContext(ctx, Identity{}, m)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// PCF(2a, 4b) is PCF(a, b) inflated by the constant 2, related through
// U = diag(1, 2), G1 = 2.
func inflationByTwo() (symbolic.Matrix, symbolic.Matrix, Transformation) {
	m1 := companion("2*n + 1", "n**2")
	m2 := companion("4*n + 2", "4*n**2")
	tr := Transformation{
		Fold1: Identity{},
		Fold2: Identity{},
		Coboundary: Coboundary{
			U:  symbolic.NewMatrix(symbolic.One(), symbolic.Zero(), symbolic.Zero(), symbolic.Int(2)),
			G1: symbolic.Int(2),
		},
	}
	return m1, m2, tr
}

func TestCoboundary(t *testing.T) {
	t.Run("inflation identity holds", func(t *testing.T) {
		m1, m2, tr := inflationByTwo()

		assert.True(t, tr.Holds(m1, m2))
		assert.True(t, tr.Residual(m1, m2).IsZero())
	})

	t.Run("wrong scalar factor fails", func(t *testing.T) {
		m1, m2, tr := inflationByTwo()
		tr.Coboundary.G1 = symbolic.Int(3)

		assert.False(t, tr.Holds(m1, m2))
	})

	t.Run("zero factors default to one", func(t *testing.T) {
		m := companion("n", "1")
		c := Coboundary{U: symbolic.Identity()}

		assert.True(t, c.Holds(m, m))
	})

	t.Run("rational recurrences are compared with denominators cleared", func(t *testing.T) {
		// PCF(n, 1/n) and PCF(2n, 4/n) as n·M1 and n·M2 over the denominator n.
		n := symbolic.N()
		m1 := symbolic.NewMatrix(symbolic.Zero(), symbolic.One(), n, poly("n**2"))
		m2 := symbolic.NewMatrix(symbolic.Zero(), symbolic.Int(4), n, poly("2*n**2"))
		_, _, tr := inflationByTwo()

		r, err := tr.ResidualContext(context.Background(), m1, n, m2, n)
		require.NoError(t, err)
		assert.True(t, r.IsZero())

		m2[0][1] = symbolic.Int(5)
		r, err = tr.ResidualContext(context.Background(), m1, n, m2, n)
		require.NoError(t, err)
		assert.False(t, r.IsZero())
	})

	t.Run("folded denominators", func(t *testing.T) {
		// n·M over the denominator n is M itself, also after folding.
		m := companion("2*n + 1", "n**2")
		n := symbolic.N()
		tr := Transformation{Fold1: Fold{Factor: 2}, Fold2: Fold{Factor: 2}, Coboundary: Coboundary{U: symbolic.Identity()}}

		r, err := tr.ResidualContext(context.Background(), m.Scale(n), n, m, symbolic.One())
		require.NoError(t, err)
		assert.True(t, r.IsZero())

		r, err = tr.ResidualContext(context.Background(), m.Scale(n), n.Add(symbolic.One()), m, symbolic.One())
		require.NoError(t, err)
		assert.False(t, r.IsZero())
	})

	t.Run("validate rejects zero coboundary", func(t *testing.T) {
		tr := Transformation{Fold1: Identity{}, Fold2: Identity{}}

		assert.ErrorIs(t, tr.Validate(), ErrMissingCoboundary)
	})

	t.Run("nil folds act as identity", func(t *testing.T) {
		m1, m2, tr := inflationByTwo()
		tr.Fold1, tr.Fold2 = nil, nil

		require.NoError(t, tr.Validate())
		assert.True(t, tr.Holds(m1, m2))
	})
}
