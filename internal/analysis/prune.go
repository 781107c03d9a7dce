// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import "github.com/cfgraph/core/internal/models"

// Prune returns a graph with every node of g and only its proven edges.
// g is left untouched and pruning a pruned graph changes nothing.
func Prune(g *models.Graph) *models.Graph {
	return g.FilterEdges(models.Edge.Proven)
}
