// Package analysis prunes the coboundary graph, groups it into components
// and derives the equivalence and unification statistics.
package analysis

import (
	"fmt"

	"github.com/cfgraph/core/internal/models"
)

// Corrections are fixed adjustments for higher-order recurrences that are
// tracked outside the graph. Each Canonical/Literature total correction
// bounds the matching count corrections.
type Corrections struct {
	CanonicalForms     int `yaml:"canonical_forms" json:"canonical_forms"`
	LiteratureFormulas int `yaml:"literature_formulas" json:"literature_formulas"`
	EquivalentForms    int `yaml:"equivalent_forms" json:"equivalent_forms"`
	EquivalentFormulas int `yaml:"equivalent_formulas" json:"equivalent_formulas"`
	UnifiedForms       int `yaml:"unified_forms" json:"unified_forms"`
	UnifiedFormulas    int `yaml:"unified_formulas" json:"unified_formulas"`
}

func (c Corrections) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"canonical_forms", c.CanonicalForms},
		{"literature_formulas", c.LiteratureFormulas},
		{"equivalent_forms", c.EquivalentForms},
		{"equivalent_formulas", c.EquivalentFormulas},
		{"unified_forms", c.UnifiedForms},
		{"unified_formulas", c.UnifiedFormulas},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidCorrection, f.name)
		}
	}
	if c.EquivalentForms > c.CanonicalForms || c.UnifiedForms > c.CanonicalForms {
		return fmt.Errorf("%w: form counts exceed canonical_forms", ErrInvalidCorrection)
	}
	if c.EquivalentFormulas > c.LiteratureFormulas || c.UnifiedFormulas > c.LiteratureFormulas {
		return fmt.Errorf("%w: formula counts exceed literature_formulas", ErrInvalidCorrection)
	}
	return nil
}

// Summarize aggregates the analysis into statistics.
func (a *Analysis) Summarize(c Corrections) models.Stats {
	stats := models.Stats{
		TotalNodes:        a.Pruned.NodeCount(),
		TotalEdges:        a.Graph.EdgeCount(),
		ProvenEdges:       a.Pruned.EdgeCount(),
		Components:        len(a.Components),
		NodesByKind:       make(map[string]int),
		ComponentsByClass: make(map[string]int),
	}
	for _, n := range a.Pruned.Nodes() {
		stats.NodesByKind[n.Kind().String()]++
	}
	for _, comp := range a.Components {
		stats.ComponentsByClass[comp.Class().String()]++
	}

	totalForms := len(a.Sources) + c.CanonicalForms
	totalFormulas := CountReferences(a.Sources) + c.LiteratureFormulas
	stats.EquivalentForms = models.NewFraction(len(a.Equivalent)+c.EquivalentForms, totalForms)
	stats.UnifiedForms = models.NewFraction(len(a.Unified)+c.UnifiedForms, totalForms)
	stats.EquivalentFormulas = models.NewFraction(CountReferences(a.Equivalent)+c.EquivalentFormulas, totalFormulas)
	stats.UnifiedFormulas = models.NewFraction(CountReferences(a.Unified)+c.UnifiedFormulas, totalFormulas)
	return stats
}

// ComputeStats prunes g, classifies it and aggregates the statistics.
func ComputeStats(g *models.Graph, c Corrections) models.Stats {
	return Analyze(g).Summarize(c)
}
