// Package transform defines the named matrix transforms carried on coboundary
// edges and the coboundary relation they are checked against.
package transform

import "errors"

var (
	ErrUnknownTransform  = errors.New("unknown transform kind")
	ErrInvalidFactor     = errors.New("invalid fold factor")
	ErrInvalidShift      = errors.New("invalid shift")
	ErrTooComplex        = errors.New("transform too complex")
	ErrZeroFactor        = errors.New("coboundary factor is zero")
	ErrMissingTransform  = errors.New("missing transform")
	ErrMissingCoboundary = errors.New("missing coboundary")
)
