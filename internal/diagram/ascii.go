package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Point represents a 2D coordinate for joints and targets
type Point struct {
	X float64
	Y float64
}

// ChainDiagramData holds data for drawing a chain pose
type ChainDiagramData struct {
	Title string

	// Joint positions, root first
	Joints []Point

	// Requested target and the point actually solved for (differs when out of reach)
	Target       *Point
	SolvedTarget *Point

	// Total reach, exported images draw it as a circle about the origin when > 0
	Reach float64
}

const (
	markRoot     = '◆'
	markJoint    = '●'
	markEffector = '◎'
	markTarget   = '✕'
	markLink     = '·'
)

// DrawASCIIChain creates an ASCII representation of the chain pose
func DrawASCIIChain(data ChainDiagramData) string {
	var sb strings.Builder

	// Scale factors for ASCII drawing, a cell is about twice as tall as it is wide
	widthChars := 60
	heightChars := 24

	minX, maxX, minY, maxY := data.bounds()
	spanX := math.Max(maxX-minX, 1e-9)
	spanY := math.Max(maxY-minY, 1e-9)
	scale := math.Min(float64(widthChars-1)/spanX, float64(heightChars-1)/spanY*2)

	toCell := func(p Point) (int, int) {
		col := int(math.Round((p.X - minX) * scale))
		row := heightChars - 1 - int(math.Round((p.Y-minY)*scale/2))
		return col, row
	}

	grid := make([][]rune, heightChars)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", widthChars))
	}
	set := func(col, row int, r rune) {
		if row >= 0 && row < heightChars && col >= 0 && col < widthChars {
			grid[row][col] = r
		}
	}

	// Links first so joints are drawn on top
	for i := 1; i < len(data.Joints); i++ {
		c0, r0 := toCell(data.Joints[i-1])
		c1, r1 := toCell(data.Joints[i])
		steps := max(abs(c1-c0), abs(r1-r0))
		for s := 1; s < steps; s++ {
			f := float64(s) / float64(steps)
			set(int(math.Round(float64(c0)+f*float64(c1-c0))), int(math.Round(float64(r0)+f*float64(r1-r0))), markLink)
		}
	}

	if data.Target != nil {
		col, row := toCell(*data.Target)
		set(col, row, markTarget)
	}
	for i, j := range data.Joints {
		col, row := toCell(j)
		switch i {
		case 0:
			set(col, row, markRoot)
		case len(data.Joints) - 1:
			set(col, row, markEffector)
		default:
			set(col, row, markJoint)
		}
	}

	sb.WriteString("\n")
	if data.Title != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", data.Title))
		sb.WriteString(fmt.Sprintf("  %s\n", strings.Repeat("─", len([]rune(data.Title)))))
	}
	sb.WriteString(fmt.Sprintf("  ┌%s┐\n", strings.Repeat("─", widthChars)))
	for _, row := range grid {
		sb.WriteString(fmt.Sprintf("  │%s│\n", string(row)))
	}
	sb.WriteString(fmt.Sprintf("  └%s┘\n", strings.Repeat("─", widthChars)))

	// Legend
	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString(fmt.Sprintf("  %c = Root   %c = Joint   %c = End effector   %c = Target\n",
		markRoot, markJoint, markEffector, markTarget))
	sb.WriteString(fmt.Sprintf("  x: %.2f … %.2f   y: %.2f … %.2f\n", minX, maxX, minY, maxY))
	if data.SolvedTarget != nil && data.Target != nil && *data.SolvedTarget != *data.Target {
		sb.WriteString(fmt.Sprintf("  Target out of reach, solved for (%.3f, %.3f)\n", data.SolvedTarget.X, data.SolvedTarget.Y))
	}

	return sb.String()
}

func (data ChainDiagramData) bounds() (minX, maxX, minY, maxY float64) {
	pts := append([]Point(nil), data.Joints...)
	if data.Target != nil {
		pts = append(pts, *data.Target)
	}
	if len(pts) == 0 {
		return 0, 1, 0, 1
	}
	minX, maxX = pts[0].X, pts[0].X
	minY, maxY = pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}

// DrawConvergenceGraph plots the end effector residual per iteration on a log scale
func DrawConvergenceGraph(residuals []float64, tolerance float64) string {
	if len(residuals) == 0 {
		return "\n  Already within tolerance, no iterations needed.\n"
	}

	series := make([]float64, len(residuals))
	for i, r := range residuals {
		series[i] = math.Log10(math.Max(r, 1e-12))
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(60),
		asciigraph.Precision(2),
		asciigraph.Offset(4),
		asciigraph.Caption(fmt.Sprintf("log10(residual) over %d iterations, tolerance %g", len(residuals), tolerance)),
	)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  CONVERGENCE\n")
	sb.WriteString("  ───────────\n\n")
	sb.WriteString(graph)
	sb.WriteString("\n")
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
