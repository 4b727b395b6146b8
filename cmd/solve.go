package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/fabrik/internal/diagram"
	"github.com/alexiusacademia/fabrik/internal/fabrik"
)

var (
	solveChain       chainFlags
	solveTarget      string
	solveTryToReach  bool
	solveDiagram     bool
	solveConvergence bool
	solveExportFile  string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Move the end effector of a chain to a target",
	Long: `Solve the joint positions of a chain so that its end effector reaches
the target, using Forward And Backward Reaching Inverse Kinematics.

Each iteration snaps the end effector onto the target and walks back to
the root keeping every link at its rest length, then pins the root and
walks forward again. Iteration stops once the end effector is within
tolerance of the target.

A target beyond the total reach of the chain is skipped unless
--try-to-reach is set, in which case the chain is stretched towards the
point at full reach in the direction of the target.

Examples:
  # Two-link arm, reachable target
  fabrik solve --joints "0,0;10,0;20,0" --target 5,12

  # Out of reach, stretch towards it and show the pose
  fabrik solve -j "0,0;10,0;20,0" -T 60,60 --diagram --convergence

  # Chain from a file, export the pose as an image
  fabrik solve -f arm.json -T 0,10 -o pose.png`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveChain.register(solveCmd)
	solveCmd.Flags().StringVarP(&solveTarget, "target", "T", "", "Target point as x,y [required]")
	solveCmd.Flags().BoolVarP(&solveTryToReach, "try-to-reach", "r", true, "Stretch towards targets beyond the reach of the chain")

	// Diagram options
	solveCmd.Flags().BoolVar(&solveDiagram, "diagram", false, "Show ASCII pose diagram")
	solveCmd.Flags().BoolVar(&solveConvergence, "convergence", false, "Show ASCII convergence graph")
	solveCmd.Flags().StringVarP(&solveExportFile, "output", "o", "", "Export pose diagram to file (png, svg, pdf)")

	solveCmd.MarkFlagRequired("target")
}

func runSolve(cmd *cobra.Command, args []string) error {
	target, err := parseTarget(solveTarget)
	if err != nil {
		return err
	}

	var residuals []float64
	def, chain, err := solveChain.chain(fabrik.WithIterationHook(func(_ int, residual float64) {
		residuals = append(residuals, residual)
	}))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "FABRIK SOLVE")
	printChainData(out, def, chain)

	goal, ok := chain.Goal(target, solveTryToReach)

	printSection(out, "TARGET")
	w := newTable(out)
	fmt.Fprintf(w, "  Target:\t(%.4f, %.4f)\n", target.X, target.Y)
	fmt.Fprintf(w, "  Distance from origin:\t%.4f\n", target.Norm())
	if chain.Solvable(target) {
		fmt.Fprintf(w, "  Reachable:\tyes ✓\n")
	} else {
		fmt.Fprintf(w, "  Reachable:\tno ⚠ (> reach %.4f)\n", chain.Reach())
	}
	if ok && goal != target {
		fmt.Fprintf(w, "  Solving for:\t(%.4f, %.4f)\n", goal.X, goal.Y)
	}
	w.Flush()
	fmt.Fprintln(out)

	if !ok {
		fmt.Fprintln(out, "  Target is out of reach and --try-to-reach is off, chain not moved.")
		fmt.Fprintln(out)
		return nil
	}

	iterations, solveErr := chain.MoveTo(target, solveTryToReach)
	if solveErr != nil && !errors.Is(solveErr, fabrik.ErrNotConverged) {
		return solveErr
	}

	printPose(out, chain)

	status := "Converged ✓"
	if solveErr != nil {
		status = "Not converged ⚠ (best effort pose)"
	}
	fmt.Fprint(out, diagram.DrawSummaryBox("RESULT", []string{
		fmt.Sprintf("Iterations:    %d", iterations),
		fmt.Sprintf("End effector:  (%.4f, %.4f)", chain.EndEffector().X, chain.EndEffector().Y),
		fmt.Sprintf("Residual:      %.6f", chain.EndEffector().Sub(goal).Norm()),
		fmt.Sprintf("Status:        %s", status),
	}))
	fmt.Fprintln(out)

	if solveDiagram {
		fmt.Fprint(out, diagram.DrawASCIIChain(diagramData(def.Name, chain, &target, &goal)))
	}
	if solveConvergence {
		fmt.Fprint(out, diagram.DrawConvergenceGraph(residuals, chain.Tolerance()))
	}
	if solveExportFile != "" {
		if err := diagram.ExportChainDiagram(diagramData(def.Name, chain, &target, &goal), solveExportFile); err != nil {
			return errors.Wrap(err, "exporting diagram")
		}
		fmt.Fprintf(out, "\n  Diagram exported to %s\n", solveExportFile)
	}

	return solveErr
}
