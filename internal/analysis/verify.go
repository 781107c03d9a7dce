// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cfgraph/core/internal/metrics"
	"github.com/cfgraph/core/internal/models"
	"github.com/cfgraph/core/internal/pcf"
	"github.com/cfgraph/core/internal/transform"
)

// Method names how an identity was decided.
type Method string

// Both methods decide the identity exactly over Q.
const (
	// MethodExact compares the polynomial normal forms of both sides.
	MethodExact Method = "exact"
	// MethodCleared is used when a node's coefficients are rational
	// functions: both sides are multiplied by the folded denominators and
	// then compared as polynomials.
	MethodCleared Method = "cleared"
)

type VerifierConfig struct {
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{Concurrency: runtime.NumCPU()}
}

// Outcome is the finding for one edge. Holds=false is a data finding, not an
// error: the identity does not hold or could not be confirmed.
type Outcome struct {
	From     models.Key `json:"from"`
	To       models.Key `json:"to"`
	Holds    bool       `json:"holds"`
	Method   Method     `json:"method"`
	Residual string     `json:"residual,omitempty"`
}

type Report struct {
	Outcomes []Outcome `json:"outcomes"`
	Holding  int       `json:"holding"`
	Failing  int       `json:"failing"`
}

func (r Report) AllHold() bool { return r.Failing == 0 }

// Failures returns the outcomes whose identity did not hold.
func (r Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Holds {
			out = append(out, o)
		}
	}
	return out
}

type Verifier struct {
	cfg    VerifierConfig
	logger *zap.Logger
}

type VerifierOption func(*Verifier)

func WithLogger(logger *zap.Logger) VerifierOption {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// NewVerifier fills zero config fields with their defaults.
func NewVerifier(cfg VerifierConfig, opts ...VerifierOption) *Verifier {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultVerifierConfig().Concurrency
	}

	v := &Verifier{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyEdge rebuilds the recurrence matrices of both endpoints, folds them
// and checks the coboundary relation of the edge from -> to.
func (v *Verifier) VerifyEdge(g *models.Graph, from, to models.Key) (Outcome, error) {
	return v.VerifyEdgeContext(context.Background(), g, from, to)
}

// VerifyEdgeContext is VerifyEdge with cancellation checked while folding.
func (v *Verifier) VerifyEdgeContext(ctx context.Context, g *models.Graph, from, to models.Key) (Outcome, error) {
	if !g.HasNode(from) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	if !g.HasNode(to) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	edge, ok := g.Edge(from, to)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, from, to)
	}
	if !edge.Proven() {
		return Outcome{}, fmt.Errorf("%w: %s -> %s", ErrNoTransformation, from, to)
	}
	if err := edge.Transformation.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %s -> %s: %w", ErrInvalidTransformation, from, to, err)
	}

	start := time.Now()
	outcome, err := v.check(ctx, from, to, *edge.Transformation)
	if err != nil {
		return Outcome{}, err
	}
	metrics.ObserveVerification(outcome.Holds, string(outcome.Method), time.Since(start))

	if !outcome.Holds {
		v.logger.Debug("coboundary identity does not hold",
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.String("method", string(outcome.Method)),
			zap.String("residual", outcome.Residual),
		)
	}
	return outcome, nil
}

func (v *Verifier) check(ctx context.Context, from, to models.Key, tr transform.Transformation) (Outcome, error) {
	m1, d1, err := pcf.RationalMatrix(from.A, from.B)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s: %w", ErrInvalidExpression, from, err)
	}
	m2, d2, err := pcf.RationalMatrix(to.A, to.B)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s: %w", ErrInvalidExpression, to, err)
	}

	residual, err := tr.ResidualContext(ctx, m1, d1, m2, d2)
	if err != nil {
		return Outcome{}, err
	}
	outcome := Outcome{From: from, To: to, Method: MethodExact, Holds: residual.IsZero()}
	if d1.Degree() > 0 || d2.Degree() > 0 {
		outcome.Method = MethodCleared
	}
	if !outcome.Holds {
		outcome.Residual = residual.String()
	}
	return outcome, nil
}

// VerifyAll checks every proven edge of g concurrently. Unproven edges are
// skipped. The first precondition failure cancels the remaining work.
func (v *Verifier) VerifyAll(ctx context.Context, g *models.Graph) (Report, error) {
	edges := Prune(g).Edges()
	outcomes := make([]Outcome, len(edges))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(v.cfg.Concurrency)
	for i, e := range edges {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			outcome, err := v.VerifyEdgeContext(egCtx, g, e.Source, e.Target)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Holds {
			report.Holding++
		} else {
			report.Failing++
		}
	}
	v.logger.Info("verified coboundary edges",
		zap.Int("edges", len(outcomes)),
		zap.Int("holding", report.Holding),
		zap.Int("failing", report.Failing),
	)
	return report, nil
}
