package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/fabrik/internal/diagram"
)

var (
	anglesChain   chainFlags
	anglesDiagram bool
)

var anglesCmd = &cobra.Command{
	Use:   "angles",
	Short: "Report the joint angles of a chain pose",
	Long: `Report the joint positions and angles of a chain as defined.

The first angle is the orientation of the first link. Every following
angle is the turn from the previous link to the next one.

Examples:
  fabrik angles --joints "0,0;0,10;-10,10"
  fabrik angles -f arm.json --diagram`,
	RunE: runAngles,
}

func init() {
	rootCmd.AddCommand(anglesCmd)

	anglesChain.register(anglesCmd)
	anglesCmd.Flags().BoolVar(&anglesDiagram, "diagram", false, "Show ASCII pose diagram")
}

func runAngles(cmd *cobra.Command, args []string) error {
	def, chain, err := anglesChain.chain()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "FABRIK JOINT ANGLES")
	printChainData(out, def, chain)
	printPose(out, chain)

	if anglesDiagram {
		fmt.Fprint(out, diagram.DrawASCIIChain(diagramData(def.Name, chain, nil, nil)))
	}
	return nil
}
