package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.viam.com/test"

	"github.com/alexiusacademia/fabrik/internal/fabrik"
)

// resetFlags puts every flag back to its default; cobra keeps flag state between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	// nil args make cobra fall back to os.Args
	rootCmd.SetArgs(append([]string{}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

const arm = "0,0;10,0;20,0"

func writeDefinition(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arm.json")
	test.That(t, os.WriteFile(path, []byte(body), 0o644), test.ShouldBeNil)
	return path
}

func TestRootAndVersion(t *testing.T) {
	out, err := execute(t)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Forward And Backward Reaching Inverse Kinematics")

	out, err = execute(t, "version")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "fabrik v")

	_, err = execute(t, "version", "--log-level", "chatty")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolveReachable(t *testing.T) {
	out, err := execute(t, "solve", "--joints", arm, "--target", "5,12")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "FABRIK SOLVE")
	test.That(t, out, test.ShouldContainSubstring, "Reachable:")
	test.That(t, out, test.ShouldContainSubstring, "yes ✓")
	test.That(t, out, test.ShouldContainSubstring, "Converged ✓")
	test.That(t, out, test.ShouldNotContainSubstring, "Solving for:")
}

func TestSolveOutOfReach(t *testing.T) {
	out, err := execute(t, "solve", "-j", arm, "-T", "60,60", "--try-to-reach=false")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "chain not moved")
	test.That(t, out, test.ShouldNotContainSubstring, "JOINT POSITIONS")

	out, err = execute(t, "solve", "-j", arm, "-T", "60,60", "--diagram", "--convergence")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Solving for:")
	test.That(t, out, test.ShouldContainSubstring, "(14.1421, 14.1421)")
	test.That(t, out, test.ShouldContainSubstring, "Converged ✓")
	test.That(t, out, test.ShouldContainSubstring, "Legend:")
	test.That(t, out, test.ShouldContainSubstring, "CONVERGENCE")
}

func TestSolveNotConverged(t *testing.T) {
	out, err := execute(t, "solve", "-j", arm, "-T", "60,60", "--max-iterations", "2")
	test.That(t, errors.Is(err, fabrik.ErrNotConverged), test.ShouldBeTrue)
	test.That(t, out, test.ShouldContainSubstring, "Not converged ⚠")
	test.That(t, out, test.ShouldContainSubstring, "Iterations:    2")
}

func TestSolveFromFileWithExport(t *testing.T) {
	path := writeDefinition(t, `{"name": "arm", "tolerance": 0.01, "joints": [{"x": 0, "y": 0}, {"x": 10, "y": 0}, {"x": 20, "y": 0}]}`)
	image := filepath.Join(t.TempDir(), "pose.png")

	out, err := execute(t, "solve", "--file", path, "--target", "0,10", "--output", image)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Name:")
	test.That(t, out, test.ShouldContainSubstring, "Diagram exported to")
	_, err = os.Stat(image)
	test.That(t, err, test.ShouldBeNil)
}

func TestSolveFlagErrors(t *testing.T) {
	_, err := execute(t, "solve", "--target", "1,1")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = execute(t, "solve", "-j", arm)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = execute(t, "solve", "-j", arm, "-T", "1")
	test.That(t, err, test.ShouldBeError, `point "1" must be x,y`)

	_, err = execute(t, "solve", "-j", "0,0;0,0", "-T", "1,1")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "coincide")

	_, err = execute(t, "solve", "-j", arm, "-t", "0", "-T", "1,1")
	test.That(t, err, test.ShouldBeError, "tolerance must be positive")
}

func TestReach(t *testing.T) {
	out, err := execute(t, "reach", "-j", arm, "-T", "12,16", "-T", "60,60")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Total reach:")
	test.That(t, out, test.ShouldContainSubstring, "20.0000")
	test.That(t, out, test.ShouldContainSubstring, "yes ✓")
	test.That(t, out, test.ShouldContainSubstring, "no ⚠")
}

func TestAngles(t *testing.T) {
	out, err := execute(t, "angles", "-j", "0,0;0,10;-10,10", "--diagram")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "JOINT ANGLES")
	test.That(t, out, test.ShouldContainSubstring, "90.0000")
	test.That(t, out, test.ShouldContainSubstring, "Legend:")
}

func TestRun(t *testing.T) {
	path := writeDefinition(t, `{
	  "name": "two-link arm",
	  "tolerance": 0.01,
	  "try_to_reach": true,
	  "joints": [{"x": 0, "y": 0}, {"x": 10, "y": 0}, {"x": 20, "y": 0}],
	  "targets": [
	    {"x": 20, "y": 0},
	    {"x": 60, "y": 60},
	    {"x": 0, "y": 30, "try_to_reach": false},
	    {"x": 0, "y": 10}
	  ]
	}`)

	out, err := execute(t, "run", "-f", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "FABRIK TARGET SEQUENCE")
	test.That(t, out, test.ShouldContainSubstring, "stretched to reach")
	test.That(t, out, test.ShouldContainSubstring, "out of reach, skipped")
	test.That(t, out, test.ShouldContainSubstring, "[0.00, 0.00]")
	test.That(t, out, test.ShouldContainSubstring, "Failures:          0")
}

func TestRunFailures(t *testing.T) {
	path := writeDefinition(t, `{
	  "tolerance": 0.01,
	  "joints": [{"x": 0, "y": 0}, {"x": 10, "y": 0}, {"x": 20, "y": 0}],
	  "targets": [{"x": 10, "y": 0}, {"x": 5, "y": 12}]
	}`)

	out, err := execute(t, "run", "-f", path)
	test.That(t, errors.Is(err, fabrik.ErrCoincidentJoints), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "target 1")
	test.That(t, out, test.ShouldContainSubstring, "failed")
	test.That(t, out, test.ShouldContainSubstring, "Failures:          1")

	path = writeDefinition(t, `{"tolerance": 0.01, "joints": [{"x": 0, "y": 0}, {"x": 1, "y": 0}]}`)
	_, err = execute(t, "run", "-f", path)
	test.That(t, err, test.ShouldBeError, "chain definition has no targets")
}
