// Package parser decodes the artifacts produced by the discovery engine.
// It handles key normalization, validation, and graph construction.
package parser

import (
	"fmt"

	"github.com/cfgraph/core/internal/models"
)

func BuildGraph(doc *models.GraphDocument) (*models.Graph, error) {
	graph := models.NewGraph()

	for _, node := range doc.Nodes {
		if err := graph.AddNode(node); err != nil {
			return nil, fmt.Errorf("invalid graph: %w", err)
		}
	}

	if len(doc.Edges) > 0 && len(doc.Links) > 0 {
		return nil, fmt.Errorf("invalid graph: %w", models.ErrAmbiguousEdges)
	}
	edges := doc.Edges
	if len(edges) == 0 {
		edges = doc.Links
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("invalid graph: %w", err)
		}
	}

	return graph, nil
}

// Reconcile lists the source-bearing graph nodes that have no row in table.
func Reconcile(graph *models.Graph, table *models.FormulaTable) []models.Key {
	var missing []models.Key
	for _, node := range graph.Nodes() {
		if !node.HasSources() {
			continue
		}
		if _, ok := table.Lookup(NormalizeKey(node.ID)); !ok {
			missing = append(missing, node.ID)
		}
	}
	return missing
}
