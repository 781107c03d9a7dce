// Package store exports an analyzed coboundary graph to a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cfgraph/core/internal/analysis"
	"github.com/cfgraph/core/internal/models"
)

// Store is a SQLite export target.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		a TEXT NOT NULL,
		b TEXT NOT NULL,
		kind TEXT NOT NULL,
		component INTEGER NOT NULL,
		sources INTEGER NOT NULL,
		cmf_sources INTEGER NOT NULL,
		equivalent INTEGER NOT NULL,
		unified INTEGER NOT NULL,
		delta REAL,
		convergence_rate REAL,
		PRIMARY KEY (a, b)
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_component ON nodes(component);

	CREATE TABLE IF NOT EXISTS edges (
		source_a TEXT NOT NULL,
		source_b TEXT NOT NULL,
		target_a TEXT NOT NULL,
		target_b TEXT NOT NULL,
		proven INTEGER NOT NULL,
		transformation TEXT,
		PRIMARY KEY (source_a, source_b, target_a, target_b)
	);

	CREATE TABLE IF NOT EXISTS components (
		id INTEGER PRIMARY KEY,
		size INTEGER NOT NULL,
		class TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stats (
		name TEXT PRIMARY KEY,
		count INTEGER NOT NULL,
		total INTEGER,
		ratio REAL
	);

	CREATE TABLE IF NOT EXISTS formulas (
		tbl TEXT NOT NULL,
		a TEXT NOT NULL,
		b TEXT NOT NULL,
		limit_expr TEXT,
		sources INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_formulas_key ON formulas(a, b);
	`
	_, err := s.db.Exec(schema)
	return err
}

// WriteAnalysis replaces the graph tables with the content of a. The whole
// export runs in one transaction.
func (s *Store) WriteAnalysis(ctx context.Context, a *analysis.Analysis, stats models.Stats) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"nodes", "edges", "components", "stats"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := writeComponents(ctx, tx, a); err != nil {
		return err
	}
	if err := writeNodes(ctx, tx, a); err != nil {
		return err
	}
	if err := writeEdges(ctx, tx, a.Graph); err != nil {
		return err
	}
	if err := writeStats(ctx, tx, stats); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	return nil
}

func writeComponents(ctx context.Context, tx *sql.Tx, a *analysis.Analysis) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO components (id, size, class) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare components insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range a.Components {
		if _, err := stmt.ExecContext(ctx, i, c.Size(), c.Class().String()); err != nil {
			return fmt.Errorf("failed to insert component %d: %w", i, err)
		}
	}
	return nil
}

func writeNodes(ctx context.Context, tx *sql.Tx, a *analysis.Analysis) error {
	componentOf := make(map[models.Key]int)
	for i, c := range a.Components {
		for _, n := range c.Nodes {
			componentOf[n.ID] = i
		}
	}
	equivalent := keySet(a.Equivalent)
	unified := keySet(a.Unified)

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes
		(a, b, kind, component, sources, cmf_sources, equivalent, unified, delta, convergence_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare nodes insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range a.Pruned.Nodes() {
		_, err := stmt.ExecContext(ctx,
			n.ID.A, n.ID.B, n.Kind().String(), componentOf[n.ID],
			len(n.Sources), len(n.CMFSources),
			equivalent[n.ID], unified[n.ID],
			nullFloat(n.Delta), nullFloat(n.ConvergenceRate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.ID, err)
		}
	}
	return nil
}

func writeEdges(ctx context.Context, tx *sql.Tx, g *models.Graph) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO edges
		(source_a, source_b, target_a, target_b, proven, transformation)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare edges insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range g.Edges() {
		var transformation any
		if e.Proven() {
			data, err := json.Marshal(e.Transformation)
			if err != nil {
				return fmt.Errorf("failed to encode transformation %s -> %s: %w", e.Source, e.Target, err)
			}
			transformation = string(data)
		}
		_, err := stmt.ExecContext(ctx,
			e.Source.A, e.Source.B, e.Target.A, e.Target.B,
			e.Proven(), transformation,
		)
		if err != nil {
			return fmt.Errorf("failed to insert edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}

func writeStats(ctx context.Context, tx *sql.Tx, stats models.Stats) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO stats (name, count, total, ratio) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare stats insert: %w", err)
	}
	defer stmt.Close()

	counts := []struct {
		name  string
		count int
	}{
		{"total_nodes", stats.TotalNodes},
		{"total_edges", stats.TotalEdges},
		{"proven_edges", stats.ProvenEdges},
		{"components", stats.Components},
	}
	for _, c := range counts {
		if _, err := stmt.ExecContext(ctx, c.name, c.count, nil, nil); err != nil {
			return fmt.Errorf("failed to insert stat %s: %w", c.name, err)
		}
	}

	fractions := []struct {
		name string
		f    models.Fraction
	}{
		{"equivalent_forms", stats.EquivalentForms},
		{"unified_forms", stats.UnifiedForms},
		{"equivalent_formulas", stats.EquivalentFormulas},
		{"unified_formulas", stats.UnifiedFormulas},
	}
	for _, fr := range fractions {
		if _, err := stmt.ExecContext(ctx, fr.name, fr.f.Count, fr.f.Total, fr.f.Ratio); err != nil {
			return fmt.Errorf("failed to insert stat %s: %w", fr.name, err)
		}
	}
	return nil
}

// WriteFormulas replaces the rows of one formula table.
func (s *Store) WriteFormulas(ctx context.Context, table *models.FormulaTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM formulas WHERE tbl = ?", table.Name); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO formulas (tbl, a, b, limit_expr, sources) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare formulas insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range table.Records() {
		if _, err := stmt.ExecContext(ctx, table.Name, r.A, r.B, r.Limit, len(r.Sources)); err != nil {
			return fmt.Errorf("failed to insert %s row %s: %w", table.Name, r.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table.Name, err)
	}
	return nil
}

// Counts returns the number of rows per exported table.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range []string{"nodes", "edges", "components", "stats", "formulas"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Export writes a dataset and its analysis to a fresh or existing database.
func Export(ctx context.Context, path string, ds *models.Dataset, a *analysis.Analysis, stats models.Stats) (map[string]int, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.WriteAnalysis(ctx, a, stats); err != nil {
		return nil, err
	}
	for _, table := range []*models.FormulaTable{ds.Formulas, ds.Masters} {
		if table == nil {
			continue
		}
		if err := s.WriteFormulas(ctx, table); err != nil {
			return nil, err
		}
	}
	return s.Counts(ctx)
}

func keySet(nodes []models.Node) map[models.Key]bool {
	set := make(map[models.Key]bool, len(nodes))
	for _, n := range nodes {
		set[n.ID] = true
	}
	return set
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
