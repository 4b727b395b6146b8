package diagram

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const reachCircleSegments = 120

// ExportChainDiagram exports the chain pose to an image file
func ExportChainDiagram(data ChainDiagramData, filename string) error {
	if len(data.Joints) < 2 {
		return errors.New("chain diagram needs at least 2 joints")
	}

	p := plot.New()
	p.Title.Text = "Chain Pose"
	if data.Title != "" {
		p.Title.Text = data.Title
	}
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	// Draw reach circle
	if data.Reach > 0 {
		circle := make(plotter.XYs, reachCircleSegments+1)
		for i := range circle {
			theta := 2 * math.Pi * float64(i) / reachCircleSegments
			circle[i] = plotter.XY{X: data.Reach * math.Cos(theta), Y: data.Reach * math.Sin(theta)}
		}
		reachLine, err := plotter.NewLine(circle)
		if err != nil {
			return err
		}
		reachLine.LineStyle.Width = vg.Points(1)
		reachLine.LineStyle.Color = color.Gray{Y: 160}
		reachLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(reachLine)
		p.Legend.Add("reach", reachLine)
	}

	// Draw links
	links := make(plotter.XYs, len(data.Joints))
	for i, j := range data.Joints {
		links[i] = plotter.XY{X: j.X, Y: j.Y}
	}
	linkLine, err := plotter.NewLine(links)
	if err != nil {
		return err
	}
	linkLine.LineStyle.Width = vg.Points(3)
	linkLine.LineStyle.Color = color.RGBA{R: 70, G: 70, B: 70, A: 255}
	p.Add(linkLine)

	// Draw joints
	if len(links) > 2 {
		joints, err := plotter.NewScatter(links[1 : len(links)-1])
		if err != nil {
			return err
		}
		joints.GlyphStyle.Color = color.RGBA{R: 100, G: 149, B: 237, A: 255}
		joints.GlyphStyle.Radius = vg.Points(5)
		joints.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(joints)
	}

	root, err := plotter.NewScatter(links[:1])
	if err != nil {
		return err
	}
	root.GlyphStyle.Color = color.Black
	root.GlyphStyle.Radius = vg.Points(6)
	root.GlyphStyle.Shape = draw.BoxGlyph{}
	p.Add(root)
	p.Legend.Add("root", root)

	effector, err := plotter.NewScatter(links[len(links)-1:])
	if err != nil {
		return err
	}
	effector.GlyphStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	effector.GlyphStyle.Radius = vg.Points(6)
	effector.GlyphStyle.Shape = draw.RingGlyph{}
	p.Add(effector)
	p.Legend.Add("end effector", effector)

	// Draw targets
	if data.Target != nil {
		target, err := plotter.NewScatter(plotter.XYs{{X: data.Target.X, Y: data.Target.Y}})
		if err != nil {
			return err
		}
		target.GlyphStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
		target.GlyphStyle.Radius = vg.Points(6)
		target.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(target)
		p.Legend.Add("target", target)
	}
	if data.SolvedTarget != nil && (data.Target == nil || *data.SolvedTarget != *data.Target) {
		solved, err := plotter.NewScatter(plotter.XYs{{X: data.SolvedTarget.X, Y: data.SolvedTarget.Y}})
		if err != nil {
			return err
		}
		solved.GlyphStyle.Color = color.RGBA{R: 255, G: 165, B: 0, A: 255}
		solved.GlyphStyle.Radius = vg.Points(5)
		solved.GlyphStyle.Shape = draw.PlusGlyph{}
		p.Add(solved)
		p.Legend.Add("solved target", solved)
	}

	// Keep the aspect ratio square so link lengths read true
	minX, maxX, minY, maxY := data.bounds()
	if data.Reach > 0 {
		minX, maxX = math.Min(minX, -data.Reach), math.Max(maxX, data.Reach)
		minY, maxY = math.Min(minY, -data.Reach), math.Max(maxY, data.Reach)
	}
	half := math.Max(maxX-minX, maxY-minY)/2 + 1
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half
	p.Legend.Top = true

	size := 8 * vg.Inch

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg", ".tif", ".tiff", ".eps":
		return p.Save(size, size, filename)
	default:
		return p.Save(size, size, filename+".png")
	}
}
