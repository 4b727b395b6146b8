package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/alexiusacademia/fabrik/internal/diagram"
	"github.com/alexiusacademia/fabrik/internal/fabrik"
)

var (
	runChain   chainFlags
	runDiagram bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive a chain through every target of a definition file",
	Long: `Move the chain of a definition file to each of its targets in turn,
starting every solve from the pose the previous one left behind.

Targets may set "try_to_reach" individually, otherwise the file level
"try_to_reach" applies. A target that fails to converge is reported and
the run carries on from its best effort pose.

Example JSON file structure:
{
  "name": "two-link arm",
  "tolerance": 0.01,
  "try_to_reach": true,
  "joints": [
    {"x": 0, "y": 0},
    {"x": 10, "y": 0},
    {"x": 20, "y": 0}
  ],
  "targets": [
    {"x": 20, "y": 0},
    {"x": 60, "y": 60},
    {"x": 0, "y": 20, "try_to_reach": false}
  ]
}

Examples:
  fabrik run --file arm.json
  fabrik run -f arm.json --diagram`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runChain.register(runCmd)
	runCmd.Flags().BoolVar(&runDiagram, "diagram", false, "Show ASCII pose diagram after every target")
}

func runRun(cmd *cobra.Command, args []string) error {
	def, chain, err := runChain.chain()
	if err != nil {
		return err
	}
	if len(def.Targets) == 0 {
		return errors.New("chain definition has no targets")
	}

	out := cmd.OutOrStdout()
	printHeader(out, "FABRIK TARGET SEQUENCE")
	printChainData(out, def, chain)

	printSection(out, "TARGETS")
	w := newTable(out)
	fmt.Fprintf(w, "  #\tTarget\tIterations\tAngles (deg)\tStatus\n")
	fmt.Fprintf(w, "  ─\t──────\t──────────\t────────────\t──────\n")

	var runErr error
	var total int
	for i, t := range def.Targets {
		target := t.R2()
		tryToReach := def.ShouldTryToReach(i)
		goal, ok := chain.Goal(target, tryToReach)

		iterations, err := chain.MoveTo(target, tryToReach)
		total += iterations

		status := "converged"
		switch {
		case err != nil:
			status = "failed"
			if errors.Is(err, fabrik.ErrNotConverged) {
				status = "not converged"
			}
			runErr = multierr.Append(runErr, errors.Wrapf(err, "target %d", i+1))
		case !ok:
			status = "out of reach, skipped"
		case goal != target:
			status = "stretched to reach"
		}

		angles := make([]string, 0, chain.Len()-1)
		for _, a := range chain.AnglesDeg() {
			angles = append(angles, fmt.Sprintf("%.2f", a))
		}
		fmt.Fprintf(w, "  %d\t(%.2f, %.2f)\t%d\t[%s]\t%s\n", i+1, t.X, t.Y, iterations, strings.Join(angles, ", "), status)

		if runDiagram {
			w.Flush()
			fmt.Fprint(out, diagram.DrawASCIIChain(diagramData(fmt.Sprintf("Target %d", i+1), chain, &target, &goal)))
			fmt.Fprintln(out)
			w = newTable(out)
		}
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprint(out, diagram.DrawSummaryBox("SEQUENCE", []string{
		fmt.Sprintf("Targets:           %d", len(def.Targets)),
		fmt.Sprintf("Total iterations:  %d", total),
		fmt.Sprintf("Failures:          %d", len(multierr.Errors(runErr))),
	}))
	fmt.Fprintln(out)

	printPose(out, chain)
	return runErr
}
