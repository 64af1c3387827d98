package render

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fisheyetools/defish/internal/fisheye"
)

// profileSamples is the number of radii sampled per curve.
const profileSamples = 256

// ProfilePlot charts the radial response of the given projection
// models under cfg's field-of-view parameters: source radius against
// output radius over a working frame of side dim. The chart is written
// to path; the extension picks the format (.png, .svg, .pdf, ...).
func ProfilePlot(cfg fisheye.Config, models []fisheye.Projection, dim float64, path string) error {
	if len(models) == 0 {
		return fmt.Errorf("no models to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Radial response (fov=%g, pfov=%g)", cfg.FOV, cfg.PFOV)
	p.X.Label.Text = "output radius (px)"
	p.Y.Label.Text = "source radius (px)"

	for i, model := range models {
		mcfg := cfg
		mcfg.Model = model

		rd, rr, err := fisheye.RadialProfile(mcfg, dim, profileSamples)
		if err != nil {
			return fmt.Errorf("profile for %s: %w", model, err)
		}

		pts := make(plotter.XYs, len(rd))
		for k := range rd {
			pts[k] = plotter.XY{X: rd[k], Y: rr[k]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("line for %s: %w", model, err)
		}
		line.Color = curveColor(i, len(models))
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(string(model), line)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// curveColor spreads n curves evenly over the hue wheel.
func curveColor(i, n int) color.Color {
	hue := 360 * float64(i) / float64(n)
	r, g, b := colorful.Hsv(hue, 0.9, 0.8).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
