// Package remap provides coordinate-map resampling: given a per-pixel
// grid of fractional source coordinates, it rebuilds an image by
// bilinear interpolation of the source at those coordinates.
//
// Out-of-bounds reads are not errors. Any interpolation tap that falls
// outside the source rectangle contributes opaque black, matching a
// constant-border resampling policy. Coordinates are in source pixel
// space with (0,0) at the top-left corner, X rightward, Y downward.
package remap

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Map holds one fractional source coordinate per output pixel.
//
// XS and YS are flat row-major planes of size Width*Height: the output
// pixel (x, y) samples the source at (XS[y*Width+x], YS[y*Width+x]).
type Map struct {
	Width  int
	Height int
	XS     []float64
	YS     []float64
}

// NewMap allocates a zero-valued map for a Width x Height output.
func NewMap(width, height int) *Map {
	return &Map{
		Width:  width,
		Height: height,
		XS:     make([]float64, width*height),
		YS:     make([]float64, width*height),
	}
}

// At returns the source coordinate for output pixel (x, y).
func (m *Map) At(x, y int) (xs, ys float64) {
	i := y*m.Width + x
	return m.XS[i], m.YS[i]
}

// Set records the source coordinate for output pixel (x, y).
func (m *Map) Set(x, y int, xs, ys float64) {
	i := y*m.Width + x
	m.XS[i] = xs
	m.YS[i] = ys
}

// Apply resamples src through the map and returns the result.
//
// Each output pixel is the bilinear blend of the four source pixels
// surrounding its mapped coordinate. Taps outside the source bounds
// read as opaque black, so coordinates far off the image (including
// NaN and infinities) produce black pixels rather than failing.
//
// The output has the map's dimensions, which need not match the
// source. Rows are processed in parallel; src is only read, so the
// same source may be shared by concurrent calls.
func Apply(src *image.NRGBA, m *Map) *image.NRGBA {
	srcW := src.Rect.Dx()
	srcH := src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))

	parallel.Line(m.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < m.Width; x++ {
				idx := y*m.Width + x
				xs := m.XS[idx]
				ys := m.YS[idx]

				o := out.PixOffset(x, y)

				// All four taps miss the source once the coordinate
				// leaves [-1, dim). NaN fails both comparisons and
				// lands here too.
				if !(xs >= -1 && xs < float64(srcW)) || !(ys >= -1 && ys < float64(srcH)) {
					out.Pix[o+3] = 0xff
					continue
				}

				x0 := int(math.Floor(xs))
				y0 := int(math.Floor(ys))
				fx := xs - float64(x0)
				fy := ys - float64(y0)

				// Bilinear weights for the 2x2 neighborhood.
				w00 := (1 - fx) * (1 - fy)
				w10 := fx * (1 - fy)
				w01 := (1 - fx) * fy
				w11 := fx * fy

				var r, g, b, a float64
				accumulate := func(px, py int, w float64) {
					if px < 0 || px >= srcW || py < 0 || py >= srcH {
						// Constant border: black, full alpha.
						a += 255 * w
						return
					}
					s := src.PixOffset(px+src.Rect.Min.X, py+src.Rect.Min.Y)
					r += float64(src.Pix[s]) * w
					g += float64(src.Pix[s+1]) * w
					b += float64(src.Pix[s+2]) * w
					a += float64(src.Pix[s+3]) * w
				}
				accumulate(x0, y0, w00)
				accumulate(x0+1, y0, w10)
				accumulate(x0, y0+1, w01)
				accumulate(x0+1, y0+1, w11)

				out.Pix[o] = uint8(r + 0.5)
				out.Pix[o+1] = uint8(g + 0.5)
				out.Pix[o+2] = uint8(b + 0.5)
				out.Pix[o+3] = uint8(a + 0.5)
			}
		}
	})

	return out
}
