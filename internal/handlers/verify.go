// Package handlers provides HTTP request handlers for the API endpoints.
// It serves graph statistics, components and verification results as JSON.
package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cfgraph/core/internal/analysis"
	"github.com/cfgraph/core/internal/models"
)

// VerifyHandler checks the edge named by from_a, from_b, to_a and to_b, or
// every proven edge when no endpoint is given.
func (s *Server) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	if q.Get("from_a") == "" && q.Get("to_a") == "" {
		report, err := s.verifier.VerifyAll(r.Context(), s.dataset.Graph)
		if err != nil {
			s.logger.Error("verification aborted", zap.Error(err))
			http.Error(w, "Verification failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, r, http.StatusOK, report)
		return
	}

	from := models.Key{A: q.Get("from_a"), B: q.Get("from_b")}
	to := models.Key{A: q.Get("to_a"), B: q.Get("to_b")}
	outcome, err := s.verifier.VerifyEdge(s.dataset.Graph, from, to)
	switch {
	case errors.Is(err, analysis.ErrNodeNotFound), errors.Is(err, analysis.ErrEdgeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.writeJSON(w, r, http.StatusOK, outcome)
}
