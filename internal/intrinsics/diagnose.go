package intrinsics

import (
	"fmt"
	"math"
)

// Diagnose inspects the calibration for values that usually indicate a
// bad calibration run. It returns one human-readable finding per
// problem; an empty result means the parameters look plausible.
//
// Checks: focal length asymmetry above 15%, an optical center outside
// the middle 60% of the frame on either axis, and distortion
// coefficients that are implausibly small or large for a fisheye lens.
func (p *Params) Diagnose() []string {
	var findings []string

	fx, fy := p.focal()
	cx, cy := p.center()
	w := float64(p.Width)
	h := float64(p.Height)

	if math.Abs(fx-fy) > math.Min(fx, fy)*0.15 {
		findings = append(findings, fmt.Sprintf("focal lengths differ by more than 15%%: fx=%.1f fy=%.1f", fx, fy))
	}
	if cx <= 0.2*w || cx >= 0.8*w {
		findings = append(findings, fmt.Sprintf("optical center x far from frame center: cx=%.1f for width %d", cx, p.Width))
	}
	if cy <= 0.2*h || cy >= 0.8*h {
		findings = append(findings, fmt.Sprintf("optical center y far from frame center: cy=%.1f for height %d", cy, p.Height))
	}
	if math.Abs(p.D[0]) < 0.01 {
		findings = append(findings, fmt.Sprintf("k1=%.4f is near zero; the source may not need fisheye correction", p.D[0]))
	}
	if math.Abs(p.D[0]) > 2 || math.Abs(p.D[1]) > 2 {
		findings = append(findings, fmt.Sprintf("distortion coefficients outside the usual range: k1=%.3f k2=%.3f", p.D[0], p.D[1]))
	}
	return findings
}
