// Package handlers provides HTTP request handlers for the API endpoints.
// It serves graph statistics, components and verification results as JSON.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/cfgraph/core/internal/analysis"
	"github.com/cfgraph/core/internal/models"
	"github.com/cfgraph/core/internal/parser"
)

type ComponentResponse struct {
	ID    int                     `json:"id"`
	Size  int                     `json:"size"`
	Class analysis.ComponentClass `json:"class"`
	Nodes []models.Key            `json:"nodes"`
}

type AnalyzeResponse struct {
	Stats        models.Stats     `json:"stats"`
	Verification *analysis.Report `json:"verification,omitempty"`
}

func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.stats)
}

// ComponentsHandler lists the weakly connected components of the pruned
// graph. ?class= restricts the list to one component class.
func (s *Server) ComponentsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	class := r.URL.Query().Get("class")
	response := []ComponentResponse{}
	for i, c := range s.analysis.Components {
		if class != "" && c.Class().String() != class {
			continue
		}
		nodes := make([]models.Key, 0, c.Size())
		for _, n := range c.Nodes {
			nodes = append(nodes, n.ID)
		}
		response = append(response, ComponentResponse{ID: i, Size: c.Size(), Class: c.Class(), Nodes: nodes})
	}

	s.writeJSON(w, r, http.StatusOK, response)
}

// AnalyzeHandler computes statistics for a graph posted in the request body.
// ?verify=true also checks every proven edge.
func (s *Server) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	defer r.Body.Close()

	graph, err := parser.ParseGraph(body)
	if err != nil {
		http.Error(w, "Invalid graph: "+err.Error(), http.StatusBadRequest)
		return
	}

	response := AnalyzeResponse{Stats: analysis.ComputeStats(graph, analysis.Corrections{})}
	if r.URL.Query().Get("verify") == "true" {
		report, err := s.verifier.VerifyAll(r.Context(), graph)
		if err != nil {
			s.logger.Warn("verification of posted graph failed", zap.Error(err))
			http.Error(w, "Verification failed: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		response.Verification = &report
	}

	s.writeJSON(w, r, http.StatusOK, response)
}
