// Package handlers provides HTTP request handlers for the API endpoints.
// It serves graph statistics, components and verification results as JSON.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cfgraph/core/internal/analysis"
	"github.com/cfgraph/core/internal/models"
)

// DefaultMaxBodyBytes caps request bodies unless WithMaxBodyBytes says
// otherwise.
const DefaultMaxBodyBytes = 8 << 20

// Server answers queries about one loaded dataset. The dataset and its
// analysis are computed once and only read afterwards.
type Server struct {
	dataset      *models.Dataset
	analysis     *analysis.Analysis
	stats        models.Stats
	corrections  analysis.Corrections
	verifier     *analysis.Verifier
	logger       *zap.Logger
	maxBodyBytes int64
	startTime    time.Time
}

type ServerOption func(*Server)

// WithMaxBodyBytes limits the size of posted graphs. Non-positive values
// keep the default.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

func NewServer(ds *models.Dataset, corrections analysis.Corrections, verifier *analysis.Verifier, logger *zap.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := analysis.Analyze(ds.Graph)
	s := &Server{
		dataset:      ds,
		analysis:     a,
		stats:        a.Summarize(corrections),
		corrections:  corrections,
		verifier:     verifier,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Stats() models.Stats { return s.stats }

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
