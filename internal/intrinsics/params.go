package intrinsics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Params holds a fisheye camera's intrinsic calibration: the camera
// matrix, the Kannala-Brandt distortion coefficients and the frame
// dimensions the calibration was computed at.
type Params struct {
	// K is the 3x3 camera matrix
	//
	//	| fx  0  cx |
	//	|  0  fy cy |
	//	|  0  0  1  |
	//
	// in pixel units at the calibration dimensions.
	K *mat.Dense

	// D holds the distortion coefficients k1 through k4.
	D [4]float64

	// Width and Height are the frame dimensions the calibration run
	// used. Undistort works at these dimensions and scales back.
	Width  int
	Height int
}

// DefaultParams returns the calibration of the reference capture rig,
// for use when no calibration archive is supplied.
func DefaultParams() *Params {
	return &Params{
		K: mat.NewDense(3, 3, []float64{
			138.13556794, 0, 228.67979535,
			0, 142.46798892, 210.19526817,
			0, 0, 1,
		}),
		D:      [4]float64{0.15522498, -0.1554219, 0.10805718, -0.04531632},
		Width:  464,
		Height: 400,
	}
}

// Validate reports whether the parameters describe a usable camera.
func (p *Params) Validate() error {
	if p.K == nil {
		return errors.New("camera matrix K is nil")
	}
	if r, c := p.K.Dims(); r != 3 || c != 3 {
		return errors.Errorf("camera matrix must be 3x3, got %dx%d", r, c)
	}
	if fx, fy := p.focal(); fx <= 0 || fy <= 0 {
		return errors.Errorf("focal lengths must be positive: fx=%g fy=%g", fx, fy)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return errors.Errorf("calibration dimensions must be positive: %dx%d", p.Width, p.Height)
	}
	return nil
}

func (p *Params) focal() (fx, fy float64) {
	return p.K.At(0, 0), p.K.At(1, 1)
}

func (p *Params) center() (cx, cy float64) {
	return p.K.At(0, 2), p.K.At(1, 2)
}
