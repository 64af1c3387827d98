package fisheye

import (
	"errors"
	"fmt"
)

// Projection selects the angular-to-radial mapping formula of the
// fisheye lens that captured the source image.
type Projection string

// Supported projection models. Each inverts a different closed-form
// relation between incident ray angle and image radius.
const (
	// Linear (equidistant): radius proportional to angle.
	Linear Projection = "linear"

	// EqualArea: radius proportional to sin(angle/2); preserves solid
	// angle per pixel area.
	EqualArea Projection = "equalarea"

	// Orthographic: radius proportional to sin(angle).
	Orthographic Projection = "orthographic"

	// Stereographic: radius proportional to tan(angle/2); preserves
	// local shape.
	Stereographic Projection = "stereographic"
)

// Format determines the normalization diameter used when deriving the
// output focal length.
type Format string

const (
	// FullFrame normalizes over the working frame's diagonal, covering
	// the whole rectangle.
	FullFrame Format = "fullframe"

	// Circular normalizes over the inscribed circle's diameter.
	Circular Format = "circular"
)

// Sentinel errors for the two failure classes. Wrapped errors carry
// the offending value; match with errors.Is.
var (
	ErrInvalidImage  = errors.New("fisheye: invalid source image")
	ErrInvalidConfig = errors.New("fisheye: invalid config")
)

// maxPad bounds border padding; beyond this the working frame is
// dominated by synthetic border rather than image content.
const maxPad = 1000

// Config holds the lens and output parameters for one conversion.
//
// The zero value is not usable; start from DefaultConfig or a preset.
// Optional fields are pointers so that an explicit zero (a legal
// center coordinate) is distinguishable from "not set".
type Config struct {
	// FOV is the field of view of the physical fisheye lens in
	// degrees, in (0, 180].
	FOV float64 `json:"fov" yaml:"fov"`

	// PFOV is the desired field of view of the output perspective
	// image in degrees, in (0, 180). 180 itself is a tan singularity.
	PFOV float64 `json:"pfov" yaml:"pfov"`

	// Model is the projection model of the source lens.
	Model Projection `json:"model" yaml:"model"`

	// Format selects the normalization diameter policy.
	Format Format `json:"format" yaml:"format"`

	// XCenter and YCenter override the optical center in working-image
	// coordinates. Nil means the geometric center.
	XCenter *int `json:"xcenter,omitempty" yaml:"xcenter,omitempty"`
	YCenter *int `json:"ycenter,omitempty" yaml:"ycenter,omitempty"`

	// Radius overrides the normalization diameter as 2*Radius pixels.
	Radius *float64 `json:"radius,omitempty" yaml:"radius,omitempty"`

	// Pad is uniform black border padding in pixels added before the
	// square crop, giving a shifted optical center room to stay inside
	// the frame.
	Pad int `json:"pad" yaml:"pad"`

	// Angle rotates the mapping about the optical center, in degrees
	// [0, 360].
	Angle float64 `json:"angle" yaml:"angle"`
}

// DefaultConfig returns the conversion defaults: a 180-degree
// stereographic lens rendered to a 120-degree full-frame perspective.
func DefaultConfig() Config {
	return Config{
		FOV:    180,
		PFOV:   120,
		Model:  Stereographic,
		Format: FullFrame,
	}
}

// Validate checks every field against the algorithm's valid domain.
// It runs once per conversion, before any per-pixel work, so a bad
// config never produces a partially correct image.
func (c Config) Validate() error {
	if c.FOV <= 0 || c.FOV > 180 {
		return fmt.Errorf("%w: fov %g outside (0, 180]", ErrInvalidConfig, c.FOV)
	}
	if c.PFOV <= 0 || c.PFOV >= 180 {
		return fmt.Errorf("%w: pfov %g outside (0, 180)", ErrInvalidConfig, c.PFOV)
	}
	switch c.Model {
	case Linear, EqualArea, Orthographic, Stereographic:
	default:
		return fmt.Errorf("%w: unknown projection model %q (valid: %s, %s, %s, %s)",
			ErrInvalidConfig, c.Model, Linear, EqualArea, Orthographic, Stereographic)
	}
	switch c.Format {
	case FullFrame, Circular:
	default:
		return fmt.Errorf("%w: unknown output format %q (valid: %s, %s)",
			ErrInvalidConfig, c.Format, FullFrame, Circular)
	}
	if c.Pad < 0 || c.Pad > maxPad {
		return fmt.Errorf("%w: pad %d outside [0, %d]", ErrInvalidConfig, c.Pad, maxPad)
	}
	if c.Radius != nil && *c.Radius <= 0 {
		return fmt.Errorf("%w: radius %g must be positive", ErrInvalidConfig, *c.Radius)
	}
	if c.Angle < 0 || c.Angle > 360 {
		return fmt.Errorf("%w: angle %g outside [0, 360]", ErrInvalidConfig, c.Angle)
	}
	return nil
}
