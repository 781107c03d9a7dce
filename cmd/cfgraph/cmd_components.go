package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfgraph/core/internal/analysis"
)

var componentClass string

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List the weakly connected components of the pruned graph",
	Args:  cobra.NoArgs,
	RunE:  runComponents,
}

func init() {
	componentsCmd.Flags().StringVar(&componentClass, "class", "", "Only list components of this class (isolated, self_unifying, unsourced, equivalence, unified)")
}

func runComponents(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, c := range analysis.WeakComponents(analysis.Prune(ds.Graph)) {
		if componentClass != "" && c.Class().String() != componentClass {
			continue
		}
		fmt.Fprintf(out, "#%d %s (%d nodes)\n", i, c.Class(), c.Size())
		for _, n := range c.Nodes {
			fmt.Fprintf(out, "  %s %s\n", n.ID, n.Kind())
		}
	}
	return nil
}
