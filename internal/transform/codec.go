// Package transform defines the named matrix transforms carried on coboundary
// edges and the coboundary relation they are checked against.
package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cfgraph/core/internal/symbolic"
)

type transformJSON struct {
	Kind   string            `json:"kind"`
	Factor int               `json:"factor,omitempty"`
	By     int               `json:"by,omitempty"`
	Steps  []json.RawMessage `json:"steps,omitempty"`
}

type coboundaryJSON struct {
	U  [2][2]string `json:"u"`
	G1 string       `json:"g1,omitempty"`
	G2 string       `json:"g2,omitempty"`
}

type transformationJSON struct {
	Fold1      json.RawMessage `json:"fold1,omitempty"`
	Fold2      json.RawMessage `json:"fold2,omitempty"`
	Coboundary *coboundaryJSON `json:"coboundary"`
}

// MarshalTransform encodes a transform as {"kind": ...}.
func MarshalTransform(t MatrixTransform) ([]byte, error) {
	wire := transformJSON{Kind: t.Kind()}
	switch v := t.(type) {
	case Identity:
	case Shift:
		wire.By = v.By
	case Fold:
		wire.Factor = v.Factor
	case Compose:
		for _, step := range v.Steps {
			raw, err := MarshalTransform(step)
			if err != nil {
				return nil, err
			}
			wire.Steps = append(wire.Steps, raw)
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownTransform, t)
	}
	return json.Marshal(wire)
}

// UnmarshalTransform decodes a transform. A bare integer k is shorthand for
// {"kind":"fold","factor":k}; null or an absent value decodes to Identity.
func UnmarshalTransform(data []byte) (MatrixTransform, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Identity{}, nil
	}

	var factor int
	if err := json.Unmarshal(data, &factor); err == nil {
		t := Fold{Factor: factor}
		if err := Validate(t); err != nil {
			return nil, err
		}
		return t, nil
	}

	var wire transformJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transform: %w", err)
	}

	var t MatrixTransform
	switch wire.Kind {
	case KindIdentity:
		t = Identity{}
	case KindShift:
		t = Shift{By: wire.By}
	case KindFold:
		t = Fold{Factor: wire.Factor}
	case KindCompose:
		steps := make([]MatrixTransform, 0, len(wire.Steps))
		for i, raw := range wire.Steps {
			step, err := UnmarshalTransform(raw)
			if err != nil {
				return nil, fmt.Errorf("compose step %d: %w", i, err)
			}
			steps = append(steps, step)
		}
		t = Compose{Steps: steps}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, wire.Kind)
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (c Coboundary) MarshalJSON() ([]byte, error) {
	wire := coboundaryJSON{U: c.U.Strings()}
	if g1 := c.g1(); !g1.Equal(symbolic.One()) {
		wire.G1 = g1.String()
	}
	if g2 := c.g2(); !g2.Equal(symbolic.One()) {
		wire.G2 = g2.String()
	}
	return json.Marshal(wire)
}

func (c *Coboundary) UnmarshalJSON(data []byte) error {
	var wire coboundaryJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to unmarshal coboundary: %w", err)
	}
	return c.fromWire(wire)
}

// fromWire accepts rational entries in u, g1 and g2 and stores the relation
// with its denominators cleared. With U = Q/E, G1 = a/b and G2 = c/d,
//
//	G1 · F1 · U(n+1) = G2 · U(n) · F2
//
// is equivalent to a·d·E(n) · F1 · Q(n+1) = c·b·E(n+1) · Q(n) · F2.
func (c *Coboundary) fromWire(wire coboundaryJSON) error {
	q, e, err := symbolic.ParseMatrix(wire.U)
	if err != nil {
		return fmt.Errorf("coboundary u: %w", err)
	}
	g1, err := parseFactor(wire.G1)
	if err != nil {
		return fmt.Errorf("coboundary g1: %w", err)
	}
	g2, err := parseFactor(wire.G2)
	if err != nil {
		return fmt.Errorf("coboundary g2: %w", err)
	}
	*c = Coboundary{
		U:  q,
		G1: g1.Num.Mul(g2.Den).Mul(e),
		G2: g2.Num.Mul(g1.Den).Mul(e.Shift(1)),
	}
	return nil
}

// parseFactor parses a scalar factor; an absent factor is 1.
func parseFactor(src string) (symbolic.Rational, error) {
	if src == "" {
		return symbolic.PolyRational(symbolic.One()), nil
	}
	r, err := symbolic.ParseRational(src)
	if err != nil {
		return symbolic.Rational{}, err
	}
	if r.IsZero() {
		return symbolic.Rational{}, fmt.Errorf("%w: %q", ErrZeroFactor, src)
	}
	return r, nil
}

func (t Transformation) MarshalJSON() ([]byte, error) {
	fold1, err := MarshalTransform(orIdentity(t.Fold1))
	if err != nil {
		return nil, fmt.Errorf("fold1: %w", err)
	}
	fold2, err := MarshalTransform(orIdentity(t.Fold2))
	if err != nil {
		return nil, fmt.Errorf("fold2: %w", err)
	}
	cob, err := t.Coboundary.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Fold1      json.RawMessage `json:"fold1"`
		Fold2      json.RawMessage `json:"fold2"`
		Coboundary json.RawMessage `json:"coboundary"`
	}{fold1, fold2, cob})
}

func (t *Transformation) UnmarshalJSON(data []byte) error {
	var wire transformationJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to unmarshal transformation: %w", err)
	}
	if wire.Coboundary == nil {
		return ErrMissingCoboundary
	}

	fold1, err := UnmarshalTransform(wire.Fold1)
	if err != nil {
		return fmt.Errorf("fold1: %w", err)
	}
	fold2, err := UnmarshalTransform(wire.Fold2)
	if err != nil {
		return fmt.Errorf("fold2: %w", err)
	}
	var cob Coboundary
	if err := cob.fromWire(*wire.Coboundary); err != nil {
		return err
	}

	decoded := Transformation{Fold1: fold1, Fold2: fold2, Coboundary: cob}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*t = decoded
	return nil
}

func orIdentity(t MatrixTransform) MatrixTransform {
	if t == nil {
		return Identity{}
	}
	return t
}
