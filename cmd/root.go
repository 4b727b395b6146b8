package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/fabrik/internal/logging"
	"github.com/alexiusacademia/fabrik/internal/version"
)

var (
	logLevel string

	// logger is shared by every subcommand and replaced in PersistentPreRunE.
	logger = logging.NewLogger("fabrik")
)

var rootCmd = &cobra.Command{
	Use:   "fabrik",
	Short: "2-D inverse kinematics for jointed chains",
	Long: `fabrik - Forward And Backward Reaching Inverse Kinematics

A CLI tool that poses a planar chain of rigid links so that its
end effector reaches, or gets as close as possible to, a target.

This tool helps animators and robotics engineers to:
  - Check whether a target is within the reach of a chain
  - Solve the joint positions for a target
  - Report the joint angles of a pose
  - Run a sequence of targets from a chain definition file
  - Plot poses and convergence as ASCII or image diagrams`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger = logging.NewLoggerAtLevel("fabrik", level)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   fabrik v%-48s║\n", version.Version)
		fmt.Fprintln(out, "  ║   Forward And Backward Reaching Inverse Kinematics        ║")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Features:")
		fmt.Fprintln(out, "    • Reachability check against the total reach of a chain")
		fmt.Fprintln(out, "    • Iterative FABRIK solve with bounded iterations")
		fmt.Fprintln(out, "    • Joint angle report in radians and degrees")
		fmt.Fprintln(out, "    • Chain definition files with target sequences")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Use 'fabrik --help' to see available commands.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ─────────────────────────────────────────────────────────────")
		fmt.Fprintf(out, "  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}
