package render

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/fisheyetools/defish/internal/fisheye"
)

// DisplacementHeatmap visualizes how far each output pixel of a
// correction reaches into the source frame: blue where the mapping
// barely moves a pixel, red at the maximum displacement.
//
// side is the square working-frame side length the map is computed
// for. The returned float64 is the maximum displacement in pixels.
func DisplacementHeatmap(cfg fisheye.Config, side int) (*image.NRGBA, float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	if side <= 0 {
		return nil, 0, fmt.Errorf("heatmap side must be positive, got %d", side)
	}

	c := float64((side - 1) / 2)
	m, err := fisheye.ComputeMap(side, side, c, c, cfg)
	if err != nil {
		return nil, 0, err
	}

	dist := make([]float64, side*side)
	maxDist := 0.0
	for j := 0; j < side; j++ {
		for i := 0; i < side; i++ {
			xs, ys := m.At(i, j)
			d := math.Hypot(xs-float64(i), ys-float64(j))
			dist[j*side+i] = d
			if d > maxDist {
				maxDist = d
			}
		}
	}

	// Hue ramp 240 (blue) down to 0 (red). A zero-displacement map
	// renders solid blue.
	scale := 0.0
	if maxDist > 0 {
		scale = 1 / maxDist
	}

	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	parallel.Line(side, func(start, end int) {
		for j := start; j < end; j++ {
			o := img.PixOffset(0, j)
			for i := 0; i < side; i++ {
				t := dist[j*side+i] * scale
				r, g, b := colorful.Hsv(240*(1-t), 1, 1).RGB255()
				img.Pix[o] = r
				img.Pix[o+1] = g
				img.Pix[o+2] = b
				img.Pix[o+3] = 0xff
				o += 4
			}
		}
	})
	return img, maxDist, nil
}
