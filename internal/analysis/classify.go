// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import "github.com/cfgraph/core/internal/models"

// SourceNodes returns the nodes carrying literature provenance in the
// graph's native order.
func SourceNodes(g *models.Graph) []models.Node {
	return sourceNodes(g.Nodes())
}

func sourceNodes(nodes []models.Node) []models.Node {
	var out []models.Node
	for _, n := range nodes {
		if n.HasSources() {
			out = append(out, n)
		}
	}
	return out
}

// Equivalent returns the equivalence set of an already pruned graph.
func Equivalent(pruned *models.Graph) []models.Node {
	return equivalent(WeakComponents(pruned))
}

// Unified returns the unified set of an already pruned graph.
func Unified(pruned *models.Graph) []models.Node {
	return unified(WeakComponents(pruned))
}

func equivalent(components []Component) []models.Node {
	var out []models.Node
	for _, c := range components {
		out = append(out, c.Equivalent()...)
	}
	return out
}

func unified(components []Component) []models.Node {
	var out []models.Node
	for _, c := range components {
		out = append(out, c.Unified()...)
	}
	return out
}

// CountReferences is the number of literature formulas behind nodes, each
// entry of a node's sources counting once.
func CountReferences(nodes []models.Node) int {
	total := 0
	for _, n := range nodes {
		total += len(n.Sources)
	}
	return total
}

// Analysis is the classified view of one graph.
type Analysis struct {
	Graph      *models.Graph
	Pruned     *models.Graph
	Components []Component
	Sources    []models.Node
	Equivalent []models.Node
	Unified    []models.Node
}

// Analyze prunes g and classifies the result. g itself is not modified.
func Analyze(g *models.Graph) *Analysis {
	pruned := Prune(g)
	components := WeakComponents(pruned)
	return &Analysis{
		Graph:      g,
		Pruned:     pruned,
		Components: components,
		Sources:    SourceNodes(pruned),
		Equivalent: equivalent(components),
		Unified:    unified(components),
	}
}
