// Package handlers provides HTTP request handlers for the API endpoints.
// It serves graph statistics, components and verification results as JSON.
package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cfgraph/core/internal/analysis"
	"github.com/cfgraph/core/internal/models"
	"github.com/cfgraph/core/internal/parser"
)

// testGraph has one unified component, a lone literature node whose only
// edge is unproven, and a self-unifying node.
const testGraph = `{
	"directed": true,
	"nodes": [
		{"id": ["2*n + 1", "n**2"], "sources": [{"source_type": "arxiv"}]},
		{"id": ["4*n + 2", "4*n**2"], "cmf_sources": [{"cmf": "pFq(2,1)"}]},
		{"id": ["3", "1"], "sources": [{}, {}]},
		{"id": ["5", "1"], "sources": [{}], "cmf_sources": [{}]}
	],
	"edges": [
		{
			"source": ["2*n + 1", "n**2"],
			"target": ["4*n + 2", "4*n**2"],
			"transformation": {"fold1": null, "fold2": null, "coboundary": {"u": [["1", "0"], ["0", "2"]], "g1": "2"}}
		},
		{"source": ["3", "1"], "target": ["5", "1"], "transformation": null}
	]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	g, err := parser.ParseGraph([]byte(testGraph))
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	verifier := analysis.NewVerifier(analysis.VerifierConfig{Concurrency: 2}, analysis.WithLogger(logger))
	return NewServer(&models.Dataset{Graph: g}, analysis.Corrections{}, verifier, logger)
}
