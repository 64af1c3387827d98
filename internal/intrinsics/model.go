package intrinsics

import "math"

// Distort maps an ideal normalized image point to its distorted
// position under the Kannala-Brandt fisheye model.
//
// The input (x, y) is a pinhole projection at unit focal length. The
// incidence angle is theta = atan(r) with r = sqrt(x^2+y^2), and the
// distorted radius follows the polynomial
//
//	theta_d = theta * (1 + k1*theta^2 + k2*theta^4 + k3*theta^6 + k4*theta^8)
//
// evaluated by Horner's method. The point keeps its direction, scaled
// by theta_d/r. The origin maps to itself.
func (p *Params) Distort(x, y float64) (float64, float64) {
	r := math.Hypot(x, y)
	if r == 0 {
		return 0, 0
	}
	theta := math.Atan(r)
	t2 := theta * theta
	thetaD := theta * (1 + t2*(p.D[0]+t2*(p.D[1]+t2*(p.D[2]+t2*p.D[3]))))
	scale := thetaD / r
	return x * scale, y * scale
}
