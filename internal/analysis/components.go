// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import (
	"fmt"
	"slices"

	"github.com/cfgraph/core/internal/models"
)

// ComponentClass is the role a weakly connected component plays in the
// statistics.
type ComponentClass int

const (
	// ClassIsolated is a lone node that is not both a literature formula and
	// a CMF representative.
	ClassIsolated ComponentClass = iota
	// ClassSelfUnifying is a lone node carrying both provenance lists.
	ClassSelfUnifying
	// ClassUnsourced has several nodes but no literature formula.
	ClassUnsourced
	// ClassEquivalence has several nodes and a literature formula but no CMF anchor.
	ClassEquivalence
	// ClassUnified has several nodes, a literature formula and a CMF anchor.
	ClassUnified
)

var componentClassNames = [...]string{
	ClassIsolated:     "isolated",
	ClassSelfUnifying: "self_unifying",
	ClassUnsourced:    "unsourced",
	ClassEquivalence:  "equivalence",
	ClassUnified:      "unified",
}

func (c ComponentClass) String() string {
	if c < 0 || int(c) >= len(componentClassNames) {
		return fmt.Sprintf("ComponentClass(%d)", int(c))
	}
	return componentClassNames[c]
}

func (c ComponentClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Component is a weakly connected component. Nodes keep the graph's native
// order.
type Component struct {
	Nodes []models.Node
}

func (c Component) Size() int { return len(c.Nodes) }

func (c Component) HasSources() bool {
	return slices.ContainsFunc(c.Nodes, models.Node.HasSources)
}

// HasCMF reports whether the component is CMF-anchored.
func (c Component) HasCMF() bool {
	return slices.ContainsFunc(c.Nodes, models.Node.HasCMF)
}

func (c Component) Class() ComponentClass {
	if c.Size() == 1 {
		if c.Nodes[0].Kind() == models.KindUnifying {
			return ClassSelfUnifying
		}
		return ClassIsolated
	}
	switch {
	case !c.HasSources():
		return ClassUnsourced
	case c.HasCMF():
		return ClassUnified
	default:
		return ClassEquivalence
	}
}

// Equivalent returns the nodes of c that are shown equivalent to another
// formula. A lone node counts only when it carries both provenance lists.
func (c Component) Equivalent() []models.Node {
	if c.Size() == 1 {
		if c.Class() == ClassSelfUnifying {
			return c.Nodes
		}
		return nil
	}
	return sourceNodes(c.Nodes)
}

// Unified returns the source-bearing nodes of a CMF-anchored component.
func (c Component) Unified() []models.Node {
	if !c.HasCMF() {
		return nil
	}
	return sourceNodes(c.Nodes)
}

// WeakComponents partitions g into weakly connected components using a BFS
// over the undirected adjacency. Components are ordered by their first node.
func WeakComponents(g *models.Graph) []Component {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	index := make(map[models.Key]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	neighbors := make([][]int, len(nodes))
	for _, e := range g.Edges() {
		u, v := index[e.Source], index[e.Target]
		neighbors[u] = append(neighbors[u], v)
		neighbors[v] = append(neighbors[v], u)
	}

	componentOf := make([]int, len(nodes))
	for i := range componentOf {
		componentOf[i] = -1
	}
	count := 0
	for start := range nodes {
		if componentOf[start] >= 0 {
			continue
		}
		queue := []int{start}
		componentOf[start] = count
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, next := range neighbors[current] {
				if componentOf[next] >= 0 {
					continue
				}
				componentOf[next] = count
				queue = append(queue, next)
			}
		}
		count++
	}

	components := make([]Component, count)
	for i, n := range nodes {
		c := componentOf[i]
		components[c].Nodes = append(components[c].Nodes, n)
	}
	return components
}
