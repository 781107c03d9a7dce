// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgraph/core/internal/models"
)

func TestSourceNodes(t *testing.T) {
	got := SourceNodes(fixtureGraph(t))

	assert.Equal(t, []models.Key{litA, loneLit, selfUnify, litB, litC}, ids(got))
	assert.Equal(t, 8, CountReferences(got))
}

func TestEquivalent(t *testing.T) {
	t.Run("classifies the pruned graph", func(t *testing.T) {
		got := Equivalent(Prune(fixtureGraph(t)))

		assert.Equal(t, []models.Key{litA, selfUnify, litB, litC}, ids(got))
		assert.Equal(t, 6, CountReferences(got))
	})

	t.Run("lone literature node is excluded", func(t *testing.T) {
		got := Equivalent(Prune(fixtureGraph(t)))

		assert.NotContains(t, ids(got), loneLit)
	})

	t.Run("intermediate and cmf nodes are never counted", func(t *testing.T) {
		got := Equivalent(Prune(fixtureGraph(t)))

		for _, n := range got {
			assert.True(t, n.HasSources(), "node %s", n.ID)
		}
	})
}

func TestUnified(t *testing.T) {
	t.Run("classifies the pruned graph", func(t *testing.T) {
		got := Unified(Prune(fixtureGraph(t)))

		assert.Equal(t, []models.Key{litA, selfUnify}, ids(got))
		assert.Equal(t, 2, CountReferences(got))
	})

	t.Run("is a subset of the equivalence set", func(t *testing.T) {
		pruned := Prune(fixtureGraph(t))

		assert.Subset(t, ids(Equivalent(pruned)), ids(Unified(pruned)))
	})

	t.Run("lone literature node is excluded", func(t *testing.T) {
		assert.NotContains(t, ids(Unified(Prune(fixtureGraph(t)))), loneLit)
	})
}

func TestAnalyze(t *testing.T) {
	g := fixtureGraph(t)

	a := Analyze(g)

	assert.Same(t, g, a.Graph)
	assert.Equal(t, 3, a.Pruned.EdgeCount())
	assert.Len(t, a.Components, 5)
	assert.Len(t, a.Sources, 5)
	assert.Len(t, a.Equivalent, 4)
	assert.Len(t, a.Unified, 2)
}

func TestComputeStats(t *testing.T) {
	t.Run("without corrections", func(t *testing.T) {
		stats := ComputeStats(fixtureGraph(t), Corrections{})

		assert.Equal(t, fixtureLen, stats.TotalNodes)
		assert.Equal(t, 4, stats.TotalEdges)
		assert.Equal(t, 3, stats.ProvenEdges)
		assert.Equal(t, 5, stats.Components)
		assert.Equal(t, models.NewFraction(4, 5), stats.EquivalentForms)
		assert.Equal(t, models.NewFraction(2, 5), stats.UnifiedForms)
		assert.Equal(t, models.NewFraction(6, 8), stats.EquivalentFormulas)
		assert.Equal(t, models.NewFraction(2, 8), stats.UnifiedFormulas)
	})

	t.Run("breakdowns", func(t *testing.T) {
		stats := ComputeStats(fixtureGraph(t), Corrections{})

		assert.Equal(t, map[string]int{
			"literature": 4, "intermediate": 2, "cmf": 1, "unifying": 1,
		}, stats.NodesByKind)
		assert.Equal(t, map[string]int{
			"unified": 1, "isolated": 2, "self_unifying": 1, "equivalence": 1,
		}, stats.ComponentsByClass)
	})

	t.Run("with corrections", func(t *testing.T) {
		c := Corrections{
			CanonicalForms:     3,
			LiteratureFormulas: 10,
			EquivalentForms:    2,
			EquivalentFormulas: 4,
			UnifiedForms:       1,
		}
		require.NoError(t, c.Validate())

		stats := ComputeStats(fixtureGraph(t), c)

		assert.Equal(t, models.NewFraction(6, 8), stats.EquivalentForms)
		assert.Equal(t, models.NewFraction(3, 8), stats.UnifiedForms)
		assert.Equal(t, models.NewFraction(10, 18), stats.EquivalentFormulas)
		assert.Equal(t, models.NewFraction(2, 18), stats.UnifiedFormulas)
	})

	t.Run("ratios are bounded", func(t *testing.T) {
		stats := ComputeStats(fixtureGraph(t), Corrections{CanonicalForms: 2, LiteratureFormulas: 2})

		for _, f := range []models.Fraction{
			stats.EquivalentForms, stats.UnifiedForms, stats.EquivalentFormulas, stats.UnifiedFormulas,
		} {
			assert.GreaterOrEqual(t, f.Ratio, 0.0)
			assert.LessOrEqual(t, f.Ratio, 1.0)
		}
		assert.LessOrEqual(t, stats.UnifiedForms.Count, stats.EquivalentForms.Count)
		assert.LessOrEqual(t, stats.EquivalentForms.Count, stats.EquivalentForms.Total)
	})

	t.Run("empty graph", func(t *testing.T) {
		stats := ComputeStats(models.NewGraph(), Corrections{})

		assert.Zero(t, stats.EquivalentForms.Ratio)
		assert.Zero(t, stats.Components)
	})
}

func TestCorrectionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		c       Corrections
		wantErr string
	}{
		{"zero value", Corrections{}, ""},
		{"negative total", Corrections{CanonicalForms: -1}, "canonical_forms is negative"},
		{"negative count", Corrections{LiteratureFormulas: 2, UnifiedFormulas: -1}, "unified_formulas is negative"},
		{"form count exceeds total", Corrections{CanonicalForms: 1, EquivalentForms: 2}, "exceed canonical_forms"},
		{"formula count exceeds total", Corrections{UnifiedFormulas: 1}, "exceed literature_formulas"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.c.Validate()

			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidCorrection)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
