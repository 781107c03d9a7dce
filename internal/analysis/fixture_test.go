// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cfgraph/core/internal/models"
	"github.com/cfgraph/core/internal/symbolic"
	"github.com/cfgraph/core/internal/transform"
)

func key(a, b string) models.Key { return models.Key{A: a, B: b} }

func sources(n int) []models.Source { return make([]models.Source, n) }

func cmf() []models.CMFSource { return []models.CMFSource{{CMF: "pFq(2,1)"}} }

// inflation relates PCF(a, b) to PCF(2a, 4b) through U = diag(1, 2), g1 = 2.
func inflation() *transform.Transformation {
	return &transform.Transformation{
		Coboundary: transform.Coboundary{
			U:  symbolic.NewMatrix(symbolic.One(), symbolic.Zero(), symbolic.Zero(), symbolic.Int(2)),
			G1: symbolic.Int(2),
		},
	}
}

func identity() *transform.Transformation {
	return &transform.Transformation{Coboundary: transform.Coboundary{U: symbolic.Identity()}}
}

var (
	litA       = key("2*n + 1", "n**2")
	inter      = key("4*n + 2", "4*n**2")
	anchor     = key("n", "1")
	loneLit    = key("3", "1")
	selfUnify  = key("5", "1")
	litB       = key("6", "1")
	litC       = key("7", "1")
	loneInter  = key("8", "1")
	fixtureLen = 8
)

// fixtureGraph has the components
//
//	{litA, inter, anchor}  unified
//	{loneLit}              isolated, its only edge is unproven
//	{selfUnify}            self-unifying
//	{litB, litC}           equivalence
//	{loneInter}            isolated
func fixtureGraph(t *testing.T) *models.Graph {
	t.Helper()
	g := models.NewGraph()
	nodes := []models.Node{
		{ID: litA, Sources: sources(1)},
		{ID: inter},
		{ID: anchor, CMFSources: cmf()},
		{ID: loneLit, Sources: sources(2)},
		{ID: selfUnify, Sources: sources(1), CMFSources: cmf()},
		{ID: litB, Sources: sources(3)},
		{ID: litC, Sources: sources(1)},
		{ID: loneInter},
	}
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n))
	}
	edges := []models.Edge{
		{Source: litA, Target: inter, Transformation: inflation()},
		{Source: inter, Target: anchor, Transformation: identity()},
		{Source: litB, Target: litC, Transformation: identity()},
		{Source: loneLit, Target: loneInter},
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e))
	}
	return g
}

func ids(nodes []models.Node) []models.Key {
	out := make([]models.Key, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}
