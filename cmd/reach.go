package cmd

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/spf13/cobra"
)

var (
	reachChain   chainFlags
	reachTargets []string
)

var reachCmd = &cobra.Command{
	Use:   "reach",
	Short: "Check whether targets are within the reach of a chain",
	Long: `Report the link lengths and total reach of a chain and check whether
each target lies within that reach.

A target is reachable when its distance from the origin does not exceed
the sum of the link lengths.

Examples:
  fabrik reach --joints "0,0;10,0;20,0" --target 12,16 --target 60,60
  fabrik reach -f arm.json`,
	RunE: runReach,
}

func init() {
	rootCmd.AddCommand(reachCmd)

	reachChain.register(reachCmd)
	reachCmd.Flags().StringArrayVarP(&reachTargets, "target", "T", nil, "Target point as x,y (repeatable, defaults to the targets of --file)")
}

func runReach(cmd *cobra.Command, args []string) error {
	def, chain, err := reachChain.chain()
	if err != nil {
		return err
	}

	var targets []r2.Point
	for _, s := range reachTargets {
		p, err := parseTarget(s)
		if err != nil {
			return err
		}
		targets = append(targets, p)
	}
	if len(reachTargets) == 0 {
		for _, t := range def.Targets {
			targets = append(targets, t.R2())
		}
	}

	out := cmd.OutOrStdout()
	printHeader(out, "FABRIK REACHABILITY")
	printChainData(out, def, chain)

	if len(targets) == 0 {
		return nil
	}

	printSection(out, "TARGETS")
	w := newTable(out)
	fmt.Fprintf(w, "  Target\tX\tY\tDistance\tReachable\n")
	fmt.Fprintf(w, "  ──────\t─\t─\t────────\t─────────\n")
	for i, t := range targets {
		mark := "no ⚠"
		if chain.Solvable(t) {
			mark = "yes ✓"
		}
		fmt.Fprintf(w, "  %d\t%.4f\t%.4f\t%.4f\t%s\n", i+1, t.X, t.Y, t.Norm(), mark)
	}
	w.Flush()
	fmt.Fprintln(out)
	return nil
}
