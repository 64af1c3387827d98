package intrinsics

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fisheyetools/defish/internal/remap"
)

// minMeanBrightness is the validity floor for a corrected frame. A
// mismatched calibration warps almost every pixel out of frame, so the
// result collapses toward black.
const minMeanBrightness = 5.0

// BuildMap computes the resampling grid that cancels the lens
// distortion described by p, at the calibration dimensions.
//
// Each output pixel is back-projected through the inverse camera
// matrix to an ideal normalized point, pushed through the forward
// distortion model, and reprojected through K to find where the
// distorted source holds its value.
func (p *Params) BuildMap() (*remap.Map, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var ik mat.Dense
	if err := ik.Inverse(p.K); err != nil {
		return nil, errors.Wrap(err, "camera matrix is not invertible")
	}

	ik00, ik01, ik02 := ik.At(0, 0), ik.At(0, 1), ik.At(0, 2)
	ik10, ik11, ik12 := ik.At(1, 0), ik.At(1, 1), ik.At(1, 2)
	ik20, ik21, ik22 := ik.At(2, 0), ik.At(2, 1), ik.At(2, 2)
	fx, fy := p.focal()
	cx, cy := p.center()

	m := remap.NewMap(p.Width, p.Height)
	parallel.Line(p.Height, func(start, end int) {
		for v := start; v < end; v++ {
			fv := float64(v)
			for u := 0; u < p.Width; u++ {
				fu := float64(u)
				w := ik20*fu + ik21*fv + ik22
				x := (ik00*fu + ik01*fv + ik02) / w
				y := (ik10*fu + ik11*fv + ik12) / w
				xd, yd := p.Distort(x, y)
				m.Set(u, v, fx*xd+cx, fy*yd+cy)
			}
		}
	})
	return m, nil
}

// Undistort corrects lens distortion on src using the calibration in
// p. The frame is resized to the calibration dimensions, remapped, and
// resized back to the source dimensions.
//
// Returns an error for a nil or empty source, or when the corrected
// frame comes out near black, which indicates the calibration does not
// match the source camera.
func (p *Params) Undistort(src image.Image) (*image.NRGBA, error) {
	if src == nil {
		return nil, errors.New("nil source image")
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.Errorf("empty source image %dx%d", b.Dx(), b.Dy())
	}

	m, err := p.BuildMap()
	if err != nil {
		return nil, err
	}

	frame := imaging.Resize(src, p.Width, p.Height, imaging.Lanczos)
	out := remap.Apply(frame, m)

	if mean := meanBrightness(out); mean <= minMeanBrightness {
		return nil, errors.Errorf("correction produced a near-black frame (mean brightness %.2f)", mean)
	}
	return imaging.Resize(out, b.Dx(), b.Dy(), imaging.Lanczos), nil
}

// meanBrightness averages the R, G and B channels over the frame.
func meanBrightness(img *image.NRGBA) float64 {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 0
	}
	var sum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += uint64(img.Pix[i]) + uint64(img.Pix[i+1]) + uint64(img.Pix[i+2])
			i += 4
		}
	}
	return float64(sum) / float64(b.Dx()*b.Dy()*3)
}
