package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Pane is one labeled image in a comparison sheet.
type Pane struct {
	Label string
	Image image.Image
}

// labelColor is the annotation green used for pane captions.
var labelColor = color.NRGBA{G: 255, A: 255}

// SideBySide composes panes horizontally into one sheet. Every pane is
// scaled to the given height preserving its aspect ratio; height <= 0
// uses the tallest pane. Labels are drawn in the top-left corner of
// their pane.
func SideBySide(panes []Pane, height int) (*image.NRGBA, error) {
	if len(panes) == 0 {
		return nil, fmt.Errorf("no panes to compose")
	}
	for i, p := range panes {
		if p.Image == nil || p.Image.Bounds().Empty() {
			return nil, fmt.Errorf("pane %d (%q) has no image", i, p.Label)
		}
	}

	if height <= 0 {
		for _, p := range panes {
			if h := p.Image.Bounds().Dy(); h > height {
				height = h
			}
		}
	}

	scaled := make([]*image.NRGBA, len(panes))
	total := 0
	for i, p := range panes {
		scaled[i] = imaging.Resize(p.Image, 0, height, imaging.Lanczos)
		total += scaled[i].Bounds().Dx()
	}

	sheet := imaging.New(total, height, color.NRGBA{A: 255})
	x := 0
	for i, img := range scaled {
		sheet = imaging.Paste(sheet, img, image.Pt(x, 0))
		if panes[i].Label != "" {
			drawLabel(sheet, x+10, 21, panes[i].Label)
		}
		x += img.Bounds().Dx()
	}
	return sheet, nil
}

// drawLabel draws text with the fixed 7x13 bitmap face; y is the text
// baseline.
func drawLabel(dst *image.NRGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
