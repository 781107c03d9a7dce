// Package models defines the core data structures of the coboundary graph.
// It includes formula nodes, coboundary edges, formula tables and statistics.
package models

import "errors"

var (
	// ErrNodeNotFound is returned when a node key is not part of the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned when no edge connects the requested nodes.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrDuplicateNode is returned when a node key appears twice.
	ErrDuplicateNode = errors.New("duplicate node")

	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrAmbiguousEdges is returned when a graph document carries both an
	// edges and a links list.
	ErrAmbiguousEdges = errors.New("both edges and links are present")
)
