// Package transform defines the named matrix transforms carried on coboundary
// edges and the coboundary relation they are checked against.
package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/cfgraph/core/internal/symbolic"
)

const (
	KindIdentity = "identity"
	KindShift    = "shift"
	KindFold     = "fold"
	KindCompose  = "compose"
)

const (
	// MaxFoldFactor bounds the product of all fold factors in a transform.
	MaxFoldFactor = 64
	// MaxShift bounds the absolute value of a shift.
	MaxShift = 1 << 12
	// MaxComposeSteps bounds the number of steps in a composition, nested
	// steps included.
	MaxComposeSteps = 64
)

// MatrixTransform maps a recurrence matrix M(n) to another recurrence matrix.
type MatrixTransform interface {
	Kind() string
	Apply(m symbolic.Matrix) symbolic.Matrix
	String() string
}

type Identity struct{}

func (Identity) Kind() string { return KindIdentity }
func (Identity) Apply(m symbolic.Matrix) symbolic.Matrix { return m }
func (Identity) String() string { return "identity" }

// Shift re-indexes the recurrence: M(n) -> M(n + By).
type Shift struct {
	By int
}

func (s Shift) Kind() string { return KindShift }

func (s Shift) Apply(m symbolic.Matrix) symbolic.Matrix { return m.Shift(int64(s.By)) }

func (s Shift) String() string { return fmt.Sprintf("shift(%d)", s.By) }

// Fold multiplies Factor consecutive steps of the recurrence:
// M(n) -> M(k n - (k-1)) · M(k n - (k-2)) ··· M(k n).
type Fold struct {
	Factor int
}

func (f Fold) Kind() string { return KindFold }

func (f Fold) Apply(m symbolic.Matrix) symbolic.Matrix {
	folded, _ := f.apply(context.Background(), m)
	return folded
}

func (f Fold) apply(ctx context.Context, m symbolic.Matrix) (symbolic.Matrix, error) {
	k := int64(f.Factor)
	folded := symbolic.Identity()
	for i := range k {
		if err := ctx.Err(); err != nil {
			return symbolic.Matrix{}, err
		}
		folded = folded.Mul(m.Affine(k, -(k - 1 - i)))
	}
	return folded, nil
}

func (f Fold) String() string { return fmt.Sprintf("fold(%d)", f.Factor) }

// Compose applies Steps left to right.
type Compose struct {
	Steps []MatrixTransform
}

func (c Compose) Kind() string { return KindCompose }

func (c Compose) Apply(m symbolic.Matrix) symbolic.Matrix {
	for _, step := range c.Steps {
		m = step.Apply(m)
	}
	return m
}

func (c Compose) String() string {
	parts := make([]string, len(c.Steps))
	for i, step := range c.Steps {
		parts[i] = step.String()
	}
	return "compose(" + strings.Join(parts, ", ") + ")"
}

// ApplyContext is t.Apply(m) with cancellation checked between the
// matrix products of folds and the steps of compositions.
func ApplyContext(ctx context.Context, t MatrixTransform, m symbolic.Matrix) (symbolic.Matrix, error) {
	switch v := t.(type) {
	case Fold:
		return v.apply(ctx, m)
	case Compose:
		for _, step := range v.Steps {
			var err error
			if m, err = ApplyContext(ctx, step, m); err != nil {
				return symbolic.Matrix{}, err
			}
		}
		return m, nil
	}
	if err := ctx.Err(); err != nil {
		return symbolic.Matrix{}, err
	}
	return t.Apply(m), nil
}

// Validate checks structural constraints that the type system cannot,
// including the bounds that keep a transform cheap to apply.
func Validate(t MatrixTransform) error {
	if err := validate(t); err != nil {
		return err
	}
	if factor := foldFactor(t); factor > MaxFoldFactor {
		return fmt.Errorf("%w: total fold factor %d exceeds %d", ErrInvalidFactor, factor, MaxFoldFactor)
	}
	if steps := composeSteps(t); steps > MaxComposeSteps {
		return fmt.Errorf("%w: %d compose steps exceed %d", ErrTooComplex, steps, MaxComposeSteps)
	}
	return nil
}

func validate(t MatrixTransform) error {
	switch v := t.(type) {
	case nil:
		return ErrMissingTransform
	case Identity:
		return nil
	case Shift:
		if v.By > MaxShift || v.By < -MaxShift {
			return fmt.Errorf("%w: shift %d exceeds %d", ErrInvalidShift, v.By, MaxShift)
		}
		return nil
	case Fold:
		if v.Factor < 1 || v.Factor > MaxFoldFactor {
			return fmt.Errorf("%w: fold factor %d", ErrInvalidFactor, v.Factor)
		}
		return nil
	case Compose:
		for i, step := range v.Steps {
			if err := validate(step); err != nil {
				return fmt.Errorf("compose step %d: %w", i, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnknownTransform, t)
}

// foldFactor is the factor by which t multiplies the degree of a recurrence.
// It saturates just above MaxFoldFactor.
func foldFactor(t MatrixTransform) int {
	switch v := t.(type) {
	case Fold:
		return v.Factor
	case Compose:
		total := 1
		for _, step := range v.Steps {
			total = min(total*foldFactor(step), MaxFoldFactor+1)
		}
		return total
	}
	return 1
}

func composeSteps(t MatrixTransform) int {
	c, ok := t.(Compose)
	if !ok {
		return 0
	}
	total := len(c.Steps)
	for _, step := range c.Steps {
		total += composeSteps(step)
		if total > MaxComposeSteps {
			break
		}
	}
	return total
}
