// Package models defines the core data structures of the coboundary graph.
// It includes formula nodes, coboundary edges, formula tables and statistics.
package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/cfgraph/core/internal/transform"
)

// Key identifies a canonical formula by its partial denominator and
// numerator expressions. It is encoded as the JSON pair ["a", "b"].
type Key struct {
	A string
	B string
}

func (k Key) String() string { return fmt.Sprintf("(%s, %s)", k.A, k.B) }

func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{k.A, k.B})
}

func (k *Key) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("node id must be an [a, b] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("node id must be an [a, b] pair, got %d elements", len(pair))
	}
	k.A, k.B = pair[0], pair[1]
	return nil
}

// Source is a literature provenance record: the formula as it appeared in a
// paper and how it was represented before canonicalization.
type Source struct {
	OriginFormulaType string          `json:"origin_formula_type,omitempty"`
	SourceType        string          `json:"source_type,omitempty"`
	Source            json.RawMessage `json:"source,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
	Limit             string          `json:"limit,omitempty"`
}

// CMFSource links a node to a representative of a conservative matrix field.
type CMFSource struct {
	CMF       string          `json:"cmf,omitempty"`
	Point     json.RawMessage `json:"point,omitempty"`
	Direction json.RawMessage `json:"direction,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

type Node struct {
	ID              Key         `json:"id"`
	Sources         []Source    `json:"sources,omitempty"`
	CMFSources      []CMFSource `json:"cmf_sources,omitempty"`
	Delta           *float64    `json:"delta,omitempty"`
	ConvergenceRate *float64    `json:"convergence_rate,omitempty"`
}

func (n Node) HasSources() bool { return len(n.Sources) > 0 }

func (n Node) HasCMF() bool { return len(n.CMFSources) > 0 }

// Kind classifies the node by which provenance lists it carries.
func (n Node) Kind() NodeKind {
	switch {
	case n.HasSources() && n.HasCMF():
		return KindUnifying
	case n.HasSources():
		return KindLiterature
	case n.HasCMF():
		return KindCMF
	default:
		return KindIntermediate
	}
}

// NodeKind is the closed set of node classes.
type NodeKind int

const (
	// KindIntermediate nodes carry no provenance and only appear on paths
	// between other nodes.
	KindIntermediate NodeKind = iota
	KindLiterature
	KindCMF
	// KindUnifying nodes are both a literature formula and a CMF representative.
	KindUnifying
)

var nodeKindNames = [...]string{
	KindIntermediate: "intermediate",
	KindLiterature:   "literature",
	KindCMF:          "cmf",
	KindUnifying:     "unifying",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
	return nodeKindNames[k]
}

func (k NodeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Edge asserts Coboundary(Fold1(Source)) = Fold2(Target). A nil
// Transformation marks an attempted relation that was never proven.
type Edge struct {
	Source         Key                       `json:"source"`
	Target         Key                       `json:"target"`
	Transformation *transform.Transformation `json:"transformation"`
}

func (e Edge) Proven() bool { return e.Transformation != nil }

// GraphDocument is the serialized node-link form of a coboundary graph.
// "links" is accepted as an alias of "edges".
type GraphDocument struct {
	Directed bool   `json:"directed"`
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
	Links    []Edge `json:"links,omitempty"`
}

type edgeKey struct{ from, to Key }

// Graph is a directed graph of canonical formulas. Nodes and edges keep their
// insertion order, which is the native iteration order for every query.
// A Graph is not safe for concurrent mutation; once built it is read-only.
type Graph struct {
	nodes     []Node
	nodeIndex map[Key]int
	edges     []Edge
	edgeIndex map[edgeKey]int
}

func NewGraph() *Graph {
	return &Graph{
		nodeIndex: make(map[Key]int),
		edgeIndex: make(map[edgeKey]int),
	}
}

func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodeIndex[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	g.nodeIndex[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

func (g *Graph) AddEdge(e Edge) error {
	if !g.HasNode(e.Source) {
		return fmt.Errorf("%w: edge source %s", ErrNodeNotFound, e.Source)
	}
	if !g.HasNode(e.Target) {
		return fmt.Errorf("%w: edge target %s", ErrNodeNotFound, e.Target)
	}
	key := edgeKey{e.Source, e.Target}
	if _, exists := g.edgeIndex[key]; exists {
		return fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, e.Source, e.Target)
	}
	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, e)
	return nil
}

func (g *Graph) HasNode(k Key) bool {
	_, ok := g.nodeIndex[k]
	return ok
}

func (g *Graph) Node(k Key) (Node, bool) {
	i, ok := g.nodeIndex[k]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

func (g *Graph) Edge(from, to Key) (Edge, bool) {
	i, ok := g.edgeIndex[edgeKey{from, to}]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// FilterEdges returns a graph with the same nodes and only the edges for
// which keep returns true. The receiver is not modified.
func (g *Graph) FilterEdges(keep func(Edge) bool) *Graph {
	out := &Graph{
		nodes:     slices.Clone(g.nodes),
		nodeIndex: maps.Clone(g.nodeIndex),
		edgeIndex: make(map[edgeKey]int),
	}
	for _, e := range g.edges {
		if keep(e) {
			out.edgeIndex[edgeKey{e.Source, e.Target}] = len(out.edges)
			out.edges = append(out.edges, e)
		}
	}
	return out
}

func (g *Graph) Document() GraphDocument {
	return GraphDocument{Directed: true, Nodes: g.nodes, Edges: g.edges}
}

func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Document())
}
