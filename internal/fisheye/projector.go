package fisheye

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	"github.com/fisheyetools/defish/internal/remap"
)

// Working is the padded, square-cropped frame the radial mapping
// samples from, together with the resolved optical center.
type Working struct {
	Image *image.NRGBA

	// XCenter and YCenter are the optical center in Image coordinates:
	// either the config override or the geometric center (dim-1)/2.
	XCenter float64
	YCenter float64
}

// Dim returns the working frame's side length in pixels.
func (w *Working) Dim() int {
	return w.Image.Bounds().Dx()
}

// Prepare derives the working image from a source image: it adds
// cfg.Pad pixels of black border on every edge, crops the largest
// centered square of the padded frame, and resolves the optical
// center.
//
// The crop has side dim = min(width, height) and origin
// (width/2 - dim/2, height/2 - dim/2) in integer arithmetic, so a
// non-square source loses its longer-axis margins symmetrically. When
// the config does not override the center, both axes default to
// (dim-1)/2.
//
// Returns ErrInvalidImage for a nil or empty source.
func Prepare(src image.Image, cfg Config) (*Working, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrInvalidImage, b.Dx(), b.Dy())
	}

	frame := imaging.Clone(src)
	if cfg.Pad > 0 {
		canvas := imaging.New(b.Dx()+2*cfg.Pad, b.Dy()+2*cfg.Pad, color.NRGBA{A: 255})
		frame = imaging.Paste(canvas, frame, image.Pt(cfg.Pad, cfg.Pad))
	}

	w := frame.Bounds().Dx()
	h := frame.Bounds().Dy()
	dim := w
	if h < dim {
		dim = h
	}
	if w != h {
		x0 := w/2 - dim/2
		y0 := h/2 - dim/2
		frame = imaging.Crop(frame, image.Rect(x0, y0, x0+dim, y0+dim))
	}

	wk := &Working{
		Image:   frame,
		XCenter: float64((dim - 1) / 2),
		YCenter: float64((dim - 1) / 2),
	}
	if cfg.XCenter != nil {
		wk.XCenter = float64(*cfg.XCenter)
	}
	if cfg.YCenter != nil {
		wk.YCenter = float64(*cfg.YCenter)
	}
	return wk, nil
}

// normDiameter resolves the normalization diameter: the radius
// override when present, otherwise the frame diagonal (full-frame) or
// the shorter side (circular).
func normDiameter(width, height int, cfg Config) float64 {
	if cfg.Radius != nil {
		return 2 * *cfg.Radius
	}
	if cfg.Format == Circular {
		if width < height {
			return float64(width)
		}
		return float64(height)
	}
	return math.Hypot(float64(width), float64(height))
}

// ComputeMap builds the per-pixel source coordinate grid for a
// width x height output whose optical center sits at (xcenter,
// ycenter).
//
// For each output pixel the offset from the center is (optionally)
// rotated by cfg.Angle, its radius rd is read as a perspective
// projection at the output focal length ofoc = dim/(2*tan(pfov*pi/360))
// to recover the ray angle phi = atan(rd/ofoc), and the model maps phi
// to the source radius rr; the offset is then scaled by rr/rd,
// preserving direction. The center pixel (rd = 0) maps to the center
// itself.
//
// The config must already be validated; an unknown model is the only
// error path. Rows are computed in parallel.
func ComputeMap(width, height int, xcenter, ycenter float64, cfg Config) (*remap.Map, error) {
	dim := normDiameter(width, height, cfg)
	ifoc, err := cfg.Model.focal(dim, cfg.FOV)
	if err != nil {
		return nil, err
	}

	ofoc := dim / (2 * math.Tan(cfg.PFOV*math.Pi/360))
	ofocinv := 1 / ofoc

	rad := cfg.Angle * math.Pi / 180
	sinA := math.Sin(rad)
	cosA := math.Cos(rad)

	m := remap.NewMap(width, height)
	parallel.Line(height, func(start, end int) {
		for j := start; j < end; j++ {
			yd0 := float64(j) - ycenter
			for i := 0; i < width; i++ {
				xd := float64(i) - xcenter
				yd := yd0
				xd, yd = xd*cosA+yd*sinA, yd*cosA-xd*sinA

				rd := math.Hypot(xd, yd)
				if rd == 0 {
					m.Set(i, j, xcenter, ycenter)
					continue
				}

				phi := math.Atan(ofocinv * rd)
				scale := cfg.Model.radius(ifoc, phi) / rd
				m.Set(i, j, scale*xd+xcenter, scale*yd+ycenter)
			}
		}
	})
	return m, nil
}

// Convert corrects a fisheye-distorted image into the projection
// described by cfg. It validates the config, prepares the square
// working frame, computes the coordinate grid and resamples.
//
// The output always has the working frame's (square) dimensions.
// Convert is a pure function and safe to call concurrently for
// independent images and configs.
func Convert(src image.Image, cfg Config) (*image.NRGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	wk, err := Prepare(src, cfg)
	if err != nil {
		return nil, err
	}
	b := wk.Image.Bounds()
	m, err := ComputeMap(b.Dx(), b.Dy(), wk.XCenter, wk.YCenter, cfg)
	if err != nil {
		return nil, err
	}
	return remap.Apply(wk.Image, m), nil
}
