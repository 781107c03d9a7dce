// Package models defines the core data structures of the coboundary graph.
// It includes formula nodes, coboundary edges, formula tables and statistics.
package models

import "slices"

// FormulaRecord is one row of a formula table: a canonical PCF, its
// identified limit and the literature formulas that reduce to it.
type FormulaRecord struct {
	A               string   `json:"a"`
	B               string   `json:"b"`
	Limit           string   `json:"limit,omitempty"`
	Sources         []Source `json:"sources,omitempty"`
	Delta           *float64 `json:"delta,omitempty"`
	ConvergenceRate *float64 `json:"convergence_rate,omitempty"`
}

func (r FormulaRecord) Key() Key { return Key{A: r.A, B: r.B} }

// FormulaTable is an immutable table of formula records indexed by the
// normalized (a, b) pair.
type FormulaTable struct {
	Name    string
	records []FormulaRecord
	index   map[Key]int
}

// NewFormulaTable builds a table. normalize maps a raw key to its lookup key.
// Rows sharing a lookup key are merged into the first of them: its a, b and
// limit are kept and the sources of the later rows are appended.
func NewFormulaTable(name string, records []FormulaRecord, normalize func(Key) Key) *FormulaTable {
	t := &FormulaTable{
		Name:    name,
		records: make([]FormulaRecord, 0, len(records)),
		index:   make(map[Key]int, len(records)),
	}
	if normalize == nil {
		normalize = func(k Key) Key { return k }
	}
	for _, r := range records {
		k := normalize(r.Key())
		if i, exists := t.index[k]; exists {
			first := &t.records[i]
			first.Sources = append(slices.Clip(first.Sources), r.Sources...)
			continue
		}
		t.index[k] = len(t.records)
		t.records = append(t.records, r)
	}
	return t
}

func (t *FormulaTable) Records() []FormulaRecord { return t.records }

// Len is the number of distinct lookup keys.
func (t *FormulaTable) Len() int { return len(t.records) }

// Lookup expects an already normalized key.
func (t *FormulaTable) Lookup(k Key) (FormulaRecord, bool) {
	i, ok := t.index[k]
	if !ok {
		return FormulaRecord{}, false
	}
	return t.records[i], true
}

// SourceCount is the number of literature formulas across all records.
func (t *FormulaTable) SourceCount() int {
	total := 0
	for _, r := range t.records {
		total += len(r.Sources)
	}
	return total
}

// Dataset bundles the three artifacts produced by the discovery engine.
// Formulas and Masters are optional.
type Dataset struct {
	Graph    *Graph
	Formulas *FormulaTable
	Masters  *FormulaTable
}
