// Package models defines the core data structures of the coboundary graph.
// It includes formula nodes, coboundary edges, formula tables and statistics.
package models

// Fraction is a count over a total with its ratio precomputed.
type Fraction struct {
	Count int     `json:"count"`
	Total int     `json:"total"`
	Ratio float64 `json:"ratio"`
}

func NewFraction(count, total int) Fraction {
	f := Fraction{Count: count, Total: total}
	if total > 0 {
		f.Ratio = float64(count) / float64(total)
	}
	return f
}

// Percent is the ratio in percent.
func (f Fraction) Percent() float64 { return 100 * f.Ratio }

type Stats struct {
	TotalNodes        int            `json:"total_nodes"`
	TotalEdges        int            `json:"total_edges"`
	ProvenEdges       int            `json:"proven_edges"`
	Components        int            `json:"components"`
	NodesByKind       map[string]int `json:"nodes_by_kind,omitempty"`
	ComponentsByClass map[string]int `json:"components_by_class,omitempty"`

	// Canonical forms are counted once per node, literature formulas once
	// per entry of a node's sources.
	EquivalentForms    Fraction `json:"equivalent_forms"`
	UnifiedForms       Fraction `json:"unified_forms"`
	EquivalentFormulas Fraction `json:"equivalent_formulas"`
	UnifiedFormulas    Fraction `json:"unified_formulas"`
}
