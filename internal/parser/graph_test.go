// Package parser decodes the artifacts produced by the discovery engine.
// It handles key normalization, validation, and graph construction.
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgraph/core/internal/models"
)

func key(a, b string) models.Key { return models.Key{A: a, B: b} }

func TestBuildGraph(t *testing.T) {
	t.Run("empty document returns empty graph", func(t *testing.T) {
		graph, err := BuildGraph(&models.GraphDocument{})

		require.NoError(t, err)
		assert.Zero(t, graph.NodeCount())
		assert.Zero(t, graph.EdgeCount())
	})

	t.Run("nodes keep document order", func(t *testing.T) {
		doc := &models.GraphDocument{
			Nodes: []models.Node{
				{ID: key("n", "1")},
				{ID: key("2*n + 1", "n**2")},
				{ID: key("3", "1")},
			},
		}

		graph, err := BuildGraph(doc)

		require.NoError(t, err)
		require.Equal(t, 3, graph.NodeCount())
		assert.Equal(t, key("n", "1"), graph.Nodes()[0].ID)
		assert.Equal(t, key("3", "1"), graph.Nodes()[2].ID)
	})

	t.Run("links are used when edges are absent", func(t *testing.T) {
		doc := &models.GraphDocument{
			Nodes: []models.Node{{ID: key("n", "1")}, {ID: key("3", "1")}},
			Links: []models.Edge{{Source: key("n", "1"), Target: key("3", "1")}},
		}

		graph, err := BuildGraph(doc)

		require.NoError(t, err)
		assert.Equal(t, 1, graph.EdgeCount())
	})

	t.Run("edges and links together are rejected", func(t *testing.T) {
		doc := &models.GraphDocument{
			Nodes: []models.Node{{ID: key("n", "1")}, {ID: key("3", "1")}},
			Edges: []models.Edge{{Source: key("n", "1"), Target: key("3", "1")}},
			Links: []models.Edge{{Source: key("3", "1"), Target: key("n", "1")}},
		}

		_, err := BuildGraph(doc)

		assert.ErrorIs(t, err, models.ErrAmbiguousEdges)
	})

	t.Run("edge to unknown node", func(t *testing.T) {
		doc := &models.GraphDocument{
			Nodes: []models.Node{{ID: key("n", "1")}},
			Edges: []models.Edge{{Source: key("n", "1"), Target: key("3", "1")}},
		}

		_, err := BuildGraph(doc)

		assert.ErrorIs(t, err, models.ErrNodeNotFound)
	})

	t.Run("duplicate node", func(t *testing.T) {
		doc := &models.GraphDocument{
			Nodes: []models.Node{{ID: key("n", "1")}, {ID: key("n", "1")}},
		}

		_, err := BuildGraph(doc)

		assert.ErrorIs(t, err, models.ErrDuplicateNode)
	})
}

func TestReconcile(t *testing.T) {
	graph, err := ParseGraph([]byte(sampleGraph))
	require.NoError(t, err)

	t.Run("all sourced nodes present", func(t *testing.T) {
		table, err := ParseTable("pcfs", []byte(`[
			{"a": "2*n+1", "b": "n^2"},
			{"a": "3", "b": "1"}
		]`))
		require.NoError(t, err)

		assert.Empty(t, Reconcile(graph, table))
	})

	t.Run("missing rows are reported", func(t *testing.T) {
		table, err := ParseTable("pcfs", []byte(`[{"a": "3", "b": "1"}]`))
		require.NoError(t, err)

		missing := Reconcile(graph, table)

		assert.Equal(t, []models.Key{key("2*n + 1", "n**2")}, missing)
	})
}
