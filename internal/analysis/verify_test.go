// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/cfgraph/core/internal/models"
	"github.com/cfgraph/core/internal/pcf"
	"github.com/cfgraph/core/internal/symbolic"
	"github.com/cfgraph/core/internal/transform"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// pairGraph holds a single edge from -> to.
func pairGraph(t *testing.T, from, to models.Key, tr *transform.Transformation) *models.Graph {
	t.Helper()
	g := models.NewGraph()
	require.NoError(t, g.AddNode(models.Node{ID: from}))
	if to != from {
		require.NoError(t, g.AddNode(models.Node{ID: to}))
	}
	require.NoError(t, g.AddEdge(models.Edge{Source: from, Target: to, Transformation: tr}))
	return g
}

func TestVerifyEdgeExact(t *testing.T) {
	v := NewVerifier(VerifierConfig{}, WithLogger(zaptest.NewLogger(t)))

	t.Run("identity holds", func(t *testing.T) {
		g := pairGraph(t, litA, inter, inflation())

		outcome, err := v.VerifyEdge(g, litA, inter)

		require.NoError(t, err)
		assert.True(t, outcome.Holds)
		assert.Equal(t, MethodExact, outcome.Method)
		assert.Empty(t, outcome.Residual)
		assert.Equal(t, litA, outcome.From)
		assert.Equal(t, inter, outcome.To)
	})

	t.Run("perturbed target fails with a residual", func(t *testing.T) {
		wrong := key("4*n + 2", "4*n**2 + 1")
		g := pairGraph(t, litA, wrong, inflation())

		outcome, err := v.VerifyEdge(g, litA, wrong)

		require.NoError(t, err)
		assert.False(t, outcome.Holds)
		assert.Equal(t, MethodExact, outcome.Method)
		assert.Equal(t, "[[0, -1], [0, 0]]", outcome.Residual)
	})

	t.Run("fold edge", func(t *testing.T) {
		p, err := pcf.New(litA.A, litA.B)
		require.NoError(t, err)
		folded, tr, err := pcf.Fold(p, 2)
		require.NoError(t, err)
		target := key(folded.A.String(), folded.B.String())
		g := pairGraph(t, litA, target, &tr)

		outcome, err := v.VerifyEdge(g, litA, target)

		require.NoError(t, err)
		assert.True(t, outcome.Holds)
	})
}

func TestVerifyEdgeCleared(t *testing.T) {
	v := NewVerifier(VerifierConfig{})

	t.Run("rational coefficients hold", func(t *testing.T) {
		from, to := key("n", "1/n"), key("2*n", "4/n")
		g := pairGraph(t, from, to, inflation())

		outcome, err := v.VerifyEdge(g, from, to)

		require.NoError(t, err)
		assert.True(t, outcome.Holds)
		assert.Equal(t, MethodCleared, outcome.Method)
		assert.Empty(t, outcome.Residual)
	})

	t.Run("mismatch", func(t *testing.T) {
		from, to := key("n", "1/n"), key("2*n", "5/n")
		g := pairGraph(t, from, to, inflation())

		outcome, err := v.VerifyEdge(g, from, to)

		require.NoError(t, err)
		assert.False(t, outcome.Holds)
		assert.NotEmpty(t, outcome.Residual)
	})

	t.Run("poles at integer points do not matter", func(t *testing.T) {
		from, to := key("n", "1/(n - 1)"), key("2*n", "4/(n - 1)")
		g := pairGraph(t, from, to, inflation())

		outcome, err := v.VerifyEdge(g, from, to)

		require.NoError(t, err)
		assert.True(t, outcome.Holds)
	})

	t.Run("difference vanishing at the first twelve integers is found", func(t *testing.T) {
		from := key("1/n + (n-1)*(n-2)*(n-3)*(n-4)*(n-5)*(n-6)*(n-7)*(n-8)*(n-9)*(n-10)*(n-11)*(n-12)", "1")
		to := key("1/n", "1")
		g := pairGraph(t, from, to, identity())

		outcome, err := v.VerifyEdge(g, from, to)

		require.NoError(t, err)
		assert.False(t, outcome.Holds)
		assert.Equal(t, MethodCleared, outcome.Method)
		assert.NotEmpty(t, outcome.Residual)
	})

	t.Run("folded rational recurrence", func(t *testing.T) {
		from := key("(2*n**2 + n)/n", "n**3/n")
		p, err := pcf.New(litA.A, litA.B)
		require.NoError(t, err)
		folded, tr, err := pcf.Fold(p, 2)
		require.NoError(t, err)
		to := key(folded.A.String(), folded.B.String())
		g := pairGraph(t, from, to, &tr)

		outcome, err := v.VerifyEdge(g, from, to)

		require.NoError(t, err)
		assert.True(t, outcome.Holds)
		assert.Equal(t, MethodExact, outcome.Method, "reducible fractions are polynomials")
	})
}

func TestVerifyEdgePreconditions(t *testing.T) {
	v := NewVerifier(VerifierConfig{})
	g := fixtureGraph(t)

	t.Run("missing node", func(t *testing.T) {
		_, err := v.VerifyEdge(g, key("9", "1"), litA)
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("missing edge", func(t *testing.T) {
		_, err := v.VerifyEdge(g, inter, litA)
		assert.ErrorIs(t, err, ErrEdgeNotFound)
	})

	t.Run("edge without transformation", func(t *testing.T) {
		_, err := v.VerifyEdge(g, loneLit, loneInter)
		assert.ErrorIs(t, err, ErrNoTransformation)
	})

	t.Run("transformation out of bounds", func(t *testing.T) {
		tr := identity()
		tr.Fold1 = transform.Fold{Factor: 1_000_000_000}
		h := pairGraph(t, litA, inter, tr)

		_, err := v.VerifyEdge(h, litA, inter)

		assert.ErrorIs(t, err, ErrInvalidTransformation)
		assert.ErrorIs(t, err, transform.ErrInvalidFactor)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		tr := identity()
		tr.Fold1, tr.Fold2 = transform.Fold{Factor: transform.MaxFoldFactor}, transform.Fold{Factor: transform.MaxFoldFactor}
		h := pairGraph(t, litA, litA, tr)

		_, err := v.VerifyEdgeContext(ctx, h, litA, litA)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unparseable node", func(t *testing.T) {
		from := key("gamma(n)", "1")
		h := pairGraph(t, from, litA, identity())

		_, err := v.VerifyEdge(h, from, litA)

		assert.ErrorIs(t, err, ErrInvalidExpression)
		assert.ErrorIs(t, err, symbolic.ErrUnknownSymbol)
	})
}

func TestVerifyAll(t *testing.T) {
	t.Run("every proven fixture edge holds", func(t *testing.T) {
		g := models.NewGraph()
		for _, k := range []models.Key{litA, inter, key("n", "1/n"), key("2*n", "4/n"), loneLit} {
			require.NoError(t, g.AddNode(models.Node{ID: k}))
		}
		require.NoError(t, g.AddEdge(models.Edge{Source: litA, Target: inter, Transformation: inflation()}))
		require.NoError(t, g.AddEdge(models.Edge{Source: key("n", "1/n"), Target: key("2*n", "4/n"), Transformation: inflation()}))
		require.NoError(t, g.AddEdge(models.Edge{Source: inter, Target: loneLit}))

		report, err := NewVerifier(VerifierConfig{Concurrency: 2}).VerifyAll(context.Background(), g)

		require.NoError(t, err)
		require.Len(t, report.Outcomes, 2)
		assert.True(t, report.AllHold())
		assert.Equal(t, 2, report.Holding)
		assert.Empty(t, report.Failures())
		assert.Equal(t, litA, report.Outcomes[0].From)
		assert.Equal(t, MethodCleared, report.Outcomes[1].Method)
	})

	t.Run("failures are counted", func(t *testing.T) {
		wrong := key("4*n + 2", "4*n**2 + 1")
		g := pairGraph(t, litA, wrong, inflation())

		report, err := NewVerifier(VerifierConfig{}).VerifyAll(context.Background(), g)

		require.NoError(t, err)
		assert.False(t, report.AllHold())
		assert.Equal(t, 1, report.Failing)
		assert.Len(t, report.Failures(), 1)
	})

	t.Run("precondition failure aborts", func(t *testing.T) {
		from := key("gamma(n)", "1")
		g := pairGraph(t, from, litA, identity())

		_, err := NewVerifier(VerifierConfig{}).VerifyAll(context.Background(), g)

		assert.ErrorIs(t, err, ErrInvalidExpression)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewVerifier(VerifierConfig{}).VerifyAll(ctx, pairGraph(t, litA, inter, inflation()))

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("graph without proven edges", func(t *testing.T) {
		report, err := NewVerifier(VerifierConfig{}).VerifyAll(context.Background(), models.NewGraph())

		require.NoError(t, err)
		assert.Empty(t, report.Outcomes)
		assert.True(t, report.AllHold())
	})
}

func TestNewVerifierDefaults(t *testing.T) {
	v := NewVerifier(VerifierConfig{Concurrency: -1})

	assert.Equal(t, DefaultVerifierConfig().Concurrency, v.cfg.Concurrency)
	assert.Positive(t, v.cfg.Concurrency)
}
