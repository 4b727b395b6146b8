package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/golang/geo/r2"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/fabrik/internal/chaindef"
	"github.com/alexiusacademia/fabrik/internal/diagram"
	"github.com/alexiusacademia/fabrik/internal/fabrik"
)

const (
	rule    = "───────────────────────────────────────────────────────────────"
	heavy   = "═══════════════════════════════════════════════════════════════"
	jointsH = `Joints as "x,y;x,y;..." with the root first`
)

// chainFlags are the flags every command uses to describe a chain.
type chainFlags struct {
	file          string
	joints        string
	tolerance     float64
	maxIterations int
}

func (f *chainFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Path to chain definition JSON file")
	cmd.Flags().StringVarP(&f.joints, "joints", "j", "", jointsH)
	cmd.Flags().Float64VarP(&f.tolerance, "tolerance", "t", 0.01, "Convergence tolerance (ignored with --file)")
	cmd.Flags().IntVar(&f.maxIterations, "max-iterations", 0, "Iteration bound per solve, 0 uses the definition or solver default")
	cmd.MarkFlagsMutuallyExclusive("file", "joints")
	cmd.MarkFlagsOneRequired("file", "joints")
}

// definition loads the chain from --file or builds it from --joints.
func (f *chainFlags) definition() (*chaindef.Definition, error) {
	var def *chaindef.Definition
	if f.file != "" {
		loaded, err := chaindef.LoadFromFile(f.file)
		if err != nil {
			return nil, err
		}
		def = loaded
	} else {
		joints, err := chaindef.ParsePoints(f.joints)
		if err != nil {
			return nil, err
		}
		def = &chaindef.Definition{
			Name:      "command line chain",
			Tolerance: f.tolerance,
			Joints:    joints,
		}
		if err := def.Validate(); err != nil {
			return nil, err
		}
	}
	if f.maxIterations > 0 {
		def.MaxIterations = f.maxIterations
	}
	return def, nil
}

func (f *chainFlags) chain(opts ...fabrik.Option) (*chaindef.Definition, *fabrik.Chain, error) {
	def, err := f.definition()
	if err != nil {
		return nil, nil, err
	}
	chain, err := def.NewChain(append([]fabrik.Option{fabrik.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return def, chain, nil
}

func printHeader(out io.Writer, title string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, heavy)
	fmt.Fprintf(out, "     %s\n", title)
	fmt.Fprintln(out, heavy)
	fmt.Fprintln(out)
}

func printSection(out io.Writer, title string) {
	fmt.Fprintf(out, "%s:\n", title)
	fmt.Fprintln(out, rule)
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printChainData(out io.Writer, def *chaindef.Definition, chain *fabrik.Chain) {
	printSection(out, "CHAIN DATA")
	w := newTable(out)
	if def.Name != "" {
		fmt.Fprintf(w, "  Name:\t%s\n", def.Name)
	}
	if def.Description != "" {
		fmt.Fprintf(w, "  Description:\t%s\n", def.Description)
	}
	fmt.Fprintf(w, "  Joints:\t%d\n", chain.Len())
	fmt.Fprintf(w, "  Total reach:\t%.4f\n", chain.Reach())
	fmt.Fprintf(w, "  Tolerance:\t%g\n", chain.Tolerance())
	fmt.Fprintf(w, "  Max iterations:\t%d\n", chain.MaxIterations())
	w.Flush()
	fmt.Fprintln(out)

	w = newTable(out)
	fmt.Fprintf(w, "  Link\tLength\n")
	fmt.Fprintf(w, "  ────\t──────\n")
	for i, l := range chain.Lengths() {
		fmt.Fprintf(w, "  %d\t%.4f\n", i+1, l)
	}
	w.Flush()
	fmt.Fprintln(out)
}

func printPose(out io.Writer, chain *fabrik.Chain) {
	printSection(out, "JOINT POSITIONS")
	w := newTable(out)
	fmt.Fprintf(w, "  Joint\tX\tY\n")
	fmt.Fprintf(w, "  ─────\t─\t─\n")
	for i, j := range chain.Joints() {
		fmt.Fprintf(w, "  %d\t%.4f\t%.4f\n", i, j.X, j.Y)
	}
	w.Flush()
	fmt.Fprintln(out)

	printSection(out, "JOINT ANGLES")
	w = newTable(out)
	fmt.Fprintf(w, "  Link\tRadians\tDegrees\n")
	fmt.Fprintf(w, "  ────\t───────\t───────\n")
	rad, deg := chain.Angles(), chain.AnglesDeg()
	for i := range rad {
		fmt.Fprintf(w, "  %d\t%.6f\t%.4f\n", i+1, rad[i], deg[i])
	}
	w.Flush()
	fmt.Fprintln(out)
}

func diagramPoints(pts []r2.Point) []diagram.Point {
	out := make([]diagram.Point, len(pts))
	for i, p := range pts {
		out[i] = diagram.Point{X: p.X, Y: p.Y}
	}
	return out
}

func diagramData(title string, chain *fabrik.Chain, target, goal *r2.Point) diagram.ChainDiagramData {
	data := diagram.ChainDiagramData{
		Title:  title,
		Joints: diagramPoints(chain.Joints()),
		Reach:  chain.Reach(),
	}
	if target != nil {
		data.Target = &diagram.Point{X: target.X, Y: target.Y}
	}
	if goal != nil {
		data.SolvedTarget = &diagram.Point{X: goal.X, Y: goal.Y}
	}
	return data
}

func parseTarget(s string) (r2.Point, error) {
	p, err := chaindef.ParsePoint(s)
	if err != nil {
		return r2.Point{}, err
	}
	return p.R2(), nil
}
