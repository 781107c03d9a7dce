// Package parser decodes the artifacts produced by the discovery engine.
// It handles key normalization, validation, and graph construction.
package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cfgraph/core/internal/models"
	"github.com/cfgraph/core/internal/symbolic"
)

func ParseGraph(data []byte) (*models.Graph, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty graph data")
	}

	var doc models.GraphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
	}

	if doc.Nodes == nil {
		return nil, fmt.Errorf("invalid graph: missing nodes field")
	}

	return BuildGraph(&doc)
}

func ParseTable(name string, data []byte) (*models.FormulaTable, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty %s table data", name)
	}

	var records []models.FormulaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s table: %w", name, err)
	}

	for i, r := range records {
		if r.A == "" || r.B == "" {
			return nil, fmt.Errorf("invalid %s table: row %d is missing a or b", name, i)
		}
	}

	return models.NewFormulaTable(name, records, NormalizeKey), nil
}

// NormalizeKey expands both expressions into canonical polynomial form so
// that differently written copies of one formula share a key. Expressions
// that are not polynomials are kept verbatim.
func NormalizeKey(k models.Key) models.Key {
	return models.Key{A: normalizeExpr(k.A), B: normalizeExpr(k.B)}
}

func normalizeExpr(expr string) string {
	if normalized, err := symbolic.Normalize(expr); err == nil {
		return normalized
	}
	return expr
}

// LoadDataset reads the graph and, when their paths are non-empty, the
// formula and master tables.
func LoadDataset(graphPath, formulasPath, mastersPath string) (*models.Dataset, error) {
	data, err := os.ReadFile(graphPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}
	graph, err := ParseGraph(data)
	if err != nil {
		return nil, err
	}

	ds := &models.Dataset{Graph: graph}
	if ds.Formulas, err = loadTable("formulas", formulasPath); err != nil {
		return nil, err
	}
	if ds.Masters, err = loadTable("masters", mastersPath); err != nil {
		return nil, err
	}
	return ds, nil
}

func loadTable(name, path string) (*models.FormulaTable, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s table: %w", name, err)
	}
	return ParseTable(name, data)
}
