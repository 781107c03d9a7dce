package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfgraph/core/internal/pcf"
)

var foldFactor int

var foldCmd = &cobra.Command{
	Use:   "fold a b",
	Short: "Fold the continued fraction PCF(a, b) into a single PCF",
	Long: `Multiplies --factor consecutive companion matrices of PCF(a, b), brings the
product back to PCF form and prints the folded PCF together with the
transformation relating the two, in the graph's JSON encoding.

Example:
  cfgraph fold "2*n + 1" "n**2" --factor 2`,
	Args: cobra.ExactArgs(2),
	RunE: runFold,
}

func init() {
	foldCmd.Flags().IntVar(&foldFactor, "factor", 2, "Number of consecutive matrices to multiply")
}

func runFold(cmd *cobra.Command, args []string) error {
	p, err := pcf.New(args[0], args[1])
	if err != nil {
		return err
	}
	folded, tr, err := pcf.Fold(p, foldFactor)
	if err != nil {
		return err
	}
	data, err := json.Marshal(tr)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, folded)
	fmt.Fprintf(out, "%s\n", data)
	return nil
}
