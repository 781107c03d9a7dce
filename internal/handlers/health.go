// Package handlers provides HTTP request handlers for the API endpoints.
// It serves graph statistics, components and verification results as JSON.
package handlers

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/cfgraph/core/internal/models"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Uptime    string            `json:"uptime,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	graph := s.dataset.Graph
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "cfgraph-api",
		Uptime:    time.Since(s.startTime).String(),
		Details: map[string]string{
			"go_version":   runtime.Version(),
			"num_cpu":      strconv.Itoa(runtime.NumCPU()),
			"nodes":        strconv.Itoa(graph.NodeCount()),
			"edges":        strconv.Itoa(graph.EdgeCount()),
			"proven_edges": strconv.Itoa(s.stats.ProvenEdges),
		},
	}
	for _, table := range []*models.FormulaTable{s.dataset.Formulas, s.dataset.Masters} {
		if table == nil {
			continue
		}
		response.Details[table.Name+"_rows"] = strconv.Itoa(table.Len())
		response.Details[table.Name+"_sources"] = strconv.Itoa(table.SourceCount())
	}

	s.writeJSON(w, r, http.StatusOK, response)
}
