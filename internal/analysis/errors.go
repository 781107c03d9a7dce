// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import (
	"errors"

	"github.com/cfgraph/core/internal/models"
)

// Precondition violations. A caller receiving one of these is looking at a
// malformed graph and should stop rather than recover.
var (
	ErrNodeNotFound          = models.ErrNodeNotFound
	ErrEdgeNotFound          = models.ErrEdgeNotFound
	ErrNoTransformation      = errors.New("edge has no transformation")
	ErrInvalidTransformation = errors.New("edge transformation is invalid")
	ErrInvalidExpression     = errors.New("node expression cannot be evaluated")
)

// ErrInvalidCorrection is returned by Corrections.Validate.
var ErrInvalidCorrection = errors.New("invalid statistic correction")
