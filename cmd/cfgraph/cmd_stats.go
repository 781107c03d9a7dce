package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cfgraph/core/internal/analysis"
	"github.com/cfgraph/core/internal/models"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print equivalence and unification statistics",
	Long: `Prunes unproven edges, partitions the graph into weakly connected components
and prints the share of canonical forms and literature formulas that are
equivalent to another formula or unified with a CMF representative.
The configured corrections are added to every total and count.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the statistics as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	stats := analysis.ComputeStats(ds.Graph, cfg.Corrections)

	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	printStats(out, stats)
	for _, table := range []*models.FormulaTable{ds.Formulas, ds.Masters} {
		if table != nil {
			fmt.Fprintf(out, "Table %s: %d rows, %d literature formulas\n", table.Name, table.Len(), table.SourceCount())
		}
	}
	return nil
}

func printStats(w io.Writer, s models.Stats) {
	fmt.Fprintf(w, "Nodes: %d\n", s.TotalNodes)
	fmt.Fprintf(w, "Edges: %d (%d proven)\n", s.TotalEdges, s.ProvenEdges)
	fmt.Fprintf(w, "Components: %d\n", s.Components)
	for _, class := range slices.Sorted(maps.Keys(s.ComponentsByClass)) {
		fmt.Fprintf(w, "  %s: %d\n", class, s.ComponentsByClass[class])
	}
	fmt.Fprintln(w)
	printFraction(w, "Equivalent canonical forms", s.EquivalentForms)
	printFraction(w, "Unified canonical forms", s.UnifiedForms)
	printFraction(w, "Equivalent literature formulas", s.EquivalentFormulas)
	printFraction(w, "Unified literature formulas", s.UnifiedFormulas)
}

func printFraction(w io.Writer, label string, f models.Fraction) {
	fmt.Fprintf(w, "%s: %d/%d (%.1f%%)\n", label, f.Count, f.Total, f.Percent())
}
