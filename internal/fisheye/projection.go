package fisheye

import (
	"fmt"
	"math"
)

// focal derives the lens constant ifoc for this model: the scale that
// makes the model's forward radius formula reach dim/2 at the lens's
// half field of view. dim is the normalization diameter in pixels and
// fov the lens field of view in degrees.
//
// The per-model forms are the inversions of the four classic fisheye
// radius equations:
//
//	linear:        rr = ifoc * phi         ifoc = dim * 180 / (fov * pi)
//	equalarea:     rr = ifoc * sin(phi/2)  ifoc = dim / (2 * sin(fov*pi/720))
//	orthographic:  rr = ifoc * sin(phi)    ifoc = dim / (2 * sin(fov*pi/360))
//	stereographic: rr = ifoc * tan(phi/2)  ifoc = dim / (2 * tan(fov*pi/720))
func (p Projection) focal(dim, fov float64) (float64, error) {
	switch p {
	case Linear:
		return dim * 180 / (fov * math.Pi), nil
	case EqualArea:
		return dim / (2 * math.Sin(fov*math.Pi/720)), nil
	case Orthographic:
		return dim / (2 * math.Sin(fov*math.Pi/360)), nil
	case Stereographic:
		return dim / (2 * math.Tan(fov*math.Pi/720)), nil
	default:
		return 0, fmt.Errorf("%w: unknown projection model %q", ErrInvalidConfig, p)
	}
}

// radius maps the incident ray angle phi (radians) to the source image
// radius at which this model's lens recorded the ray. The model must
// be one of the four known constants; focal is the gate for unknown
// values.
func (p Projection) radius(ifoc, phi float64) float64 {
	switch p {
	case Linear:
		return ifoc * phi
	case EqualArea:
		return ifoc * math.Sin(phi/2)
	case Orthographic:
		return ifoc * math.Sin(phi)
	case Stereographic:
		return ifoc * math.Tan(phi/2)
	default:
		return 0
	}
}

// RadialProfile samples the radial mapping rd -> rr of cfg's model
// over output radii [0, dim/2]. It returns parallel slices of the
// sampled output radius and the mapped source radius, useful for
// plotting and comparing how aggressively each model pulls pixels
// toward the center.
func RadialProfile(cfg Config, dim float64, samples int) (rd, rr []float64, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if dim <= 0 || samples < 2 {
		return nil, nil, fmt.Errorf("%w: profile needs dim > 0 and at least 2 samples", ErrInvalidConfig)
	}

	ifoc, err := cfg.Model.focal(dim, cfg.FOV)
	if err != nil {
		return nil, nil, err
	}
	ofoc := dim / (2 * math.Tan(cfg.PFOV*math.Pi/360))

	rd = make([]float64, samples)
	rr = make([]float64, samples)
	step := dim / 2 / float64(samples-1)
	for i := 0; i < samples; i++ {
		r := float64(i) * step
		phi := math.Atan(r / ofoc)
		rd[i] = r
		rr[i] = cfg.Model.radius(ifoc, phi)
	}
	return rd, rr, nil
}
