// Package main is the cfgraph command line. It loads the coboundary graph and
// the formula tables, prints the equivalence and unification statistics and
// re-verifies the stored identities.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cfgraph/core/internal/config"
	"github.com/cfgraph/core/internal/logging"
	"github.com/cfgraph/core/internal/models"
	"github.com/cfgraph/core/internal/parser"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	graphPath    string
	formulasPath string
	mastersPath  string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cfgraph",
	Short: "Consistency checks and statistics for a coboundary graph",
	Long: `cfgraph loads a coboundary graph of canonical continued fractions together
with its formula tables and reports how many literature formulas are shown
equivalent to another formula, and how many are unified with a conservative
matrix field representative.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if graphPath != "" {
			cfg.Data.Graph = graphPath
		}
		if formulasPath != "" {
			cfg.Data.Formulas = formulasPath
		}
		if mastersPath != "" {
			cfg.Data.Masters = mastersPath
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cfgraph.yaml", "Config file")
	rootCmd.PersistentFlags().StringVar(&graphPath, "graph", "", "Coboundary graph JSON (or set CFGRAPH_GRAPH)")
	rootCmd.PersistentFlags().StringVar(&formulasPath, "formulas", "", "Formula table JSON (or set CFGRAPH_FORMULAS)")
	rootCmd.PersistentFlags().StringVar(&mastersPath, "masters", "", "Master table JSON (or set CFGRAPH_MASTERS)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(componentsCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(limitCmd)
	rootCmd.AddCommand(foldCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDataset() (*models.Dataset, error) {
	ds, err := parser.LoadDataset(cfg.Data.Graph, cfg.Data.Formulas, cfg.Data.Masters)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded",
		zap.String("graph", cfg.Data.Graph),
		zap.Int("nodes", ds.Graph.NodeCount()),
		zap.Int("edges", ds.Graph.EdgeCount()),
	)

	if ds.Formulas != nil {
		if missing := parser.Reconcile(ds.Graph, ds.Formulas); len(missing) > 0 {
			logger.Warn("graph nodes missing from the formula table",
				zap.Int("count", len(missing)),
				zap.Stringer("first", missing[0]),
			)
		}
	}
	return ds, nil
}
