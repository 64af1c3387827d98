package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// gridColor is translucent so the scene stays visible through the
// reference lines.
var gridColor = color.NRGBA{R: 255, A: 128}

// Grid returns a copy of img with straight reference lines drawn every
// spacing pixels. Scene edges that should be straight after a
// correction can be read directly against the grid.
func Grid(img image.Image, spacing int) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("no image to grid")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image")
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}

	dst := imaging.Clone(img)
	w, h := b.Dx(), b.Dy()
	line := image.NewUniform(gridColor)

	for x := spacing; x < w; x += spacing {
		draw.Draw(dst, image.Rect(x, 0, x+1, h), line, image.Point{}, draw.Over)
	}
	for y := spacing; y < h; y += spacing {
		draw.Draw(dst, image.Rect(0, y, w, y+1), line, image.Point{}, draw.Over)
	}
	return dst, nil
}
