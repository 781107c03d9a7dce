package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfgraph/core/internal/models"
	"github.com/cfgraph/core/internal/parser"
	"github.com/cfgraph/core/internal/pcf"
)

var limitDepth int

var limitCmd = &cobra.Command{
	Use:   "limit a b",
	Short: "Approximate the limit of the continued fraction PCF(a, b)",
	Long: `Multiplies the companion matrices up to --depth and prints the last
convergent with the number of digits it agrees on with the one before.
If a formula table is configured, the identified limit is printed too.

Example:
  cfgraph limit "2*n + 1" "n**2" --depth 200`,
	Args: cobra.ExactArgs(2),
	RunE: runLimit,
}

func init() {
	limitCmd.Flags().IntVar(&limitDepth, "depth", 1000, "Number of matrices to multiply")
}

func runLimit(cmd *cobra.Command, args []string) error {
	p, err := pcf.New(args[0], args[1])
	if err != nil {
		return err
	}
	value, digits, err := p.Limit(limitDepth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	shown := max(digits, 1)
	fmt.Fprintf(out, "%s ~ %s (%d digits)\n", p, value.Text('g', shown), digits)

	if cfg.Data.Formulas == "" {
		return nil
	}
	ds, err := parser.LoadDataset(cfg.Data.Graph, cfg.Data.Formulas, "")
	if err != nil {
		return err
	}
	if r, ok := ds.Formulas.Lookup(parser.NormalizeKey(models.Key{A: args[0], B: args[1]})); ok && r.Limit != "" {
		fmt.Fprintf(out, "identified limit: %s\n", r.Limit)
	}
	return nil
}
