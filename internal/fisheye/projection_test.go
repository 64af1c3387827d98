package fisheye

import (
	"errors"
	"math"
	"testing"
)

func TestFocal_KnownValues(t *testing.T) {
	// Hand-derived constants for dim=400, fov=180.
	tests := []struct {
		model Projection
		want  float64
	}{
		{Linear, 400 / math.Pi},
		{EqualArea, 400 / (2 * math.Sin(math.Pi/4))},
		{Orthographic, 200},
		{Stereographic, 200},
	}

	for _, tt := range tests {
		t.Run(string(tt.model), func(t *testing.T) {
			got, err := tt.model.focal(400, 180)
			if err != nil {
				t.Fatalf("focal failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("focal: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFocal_UnknownModel(t *testing.T) {
	_, err := Projection("fisheye2").focal(400, 180)
	if err == nil {
		t.Fatal("focal should fail for an unknown model")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
	}
}

func TestRadius_ZeroAngle(t *testing.T) {
	// All models collapse to rr = 0 at phi = 0.
	for _, model := range []Projection{Linear, EqualArea, Orthographic, Stereographic} {
		ifoc, err := model.focal(400, 180)
		if err != nil {
			t.Fatalf("%s: focal failed: %v", model, err)
		}
		if rr := model.radius(ifoc, 0); rr != 0 {
			t.Errorf("%s: radius at phi=0: got %v, want 0", model, rr)
		}
	}
}

func TestRadius_ModelsDistinct(t *testing.T) {
	// At a fixed nonzero angle the four models must map to four
	// different radii: they are different closed-form functions.
	const (
		dim = 400.0
		fov = 180.0
		phi = 0.5
	)

	models := []Projection{Linear, EqualArea, Orthographic, Stereographic}
	radii := make(map[Projection]float64, len(models))
	for _, model := range models {
		ifoc, err := model.focal(dim, fov)
		if err != nil {
			t.Fatalf("%s: focal failed: %v", model, err)
		}
		radii[model] = model.radius(ifoc, phi)
	}

	for i, a := range models {
		for _, b := range models[i+1:] {
			if math.Abs(radii[a]-radii[b]) < 1e-6 {
				t.Errorf("models %s and %s map phi=%v to the same radius %v", a, b, phi, radii[a])
			}
		}
	}
}

func TestRadialProfile(t *testing.T) {
	cfg := DefaultConfig()

	rd, rr, err := RadialProfile(cfg, 400, 101)
	if err != nil {
		t.Fatalf("RadialProfile failed: %v", err)
	}
	if len(rd) != 101 || len(rr) != 101 {
		t.Fatalf("lengths: got %d/%d, want 101/101", len(rd), len(rr))
	}
	if rd[0] != 0 || rr[0] != 0 {
		t.Errorf("profile must start at the origin, got rd=%v rr=%v", rd[0], rr[0])
	}
	if got, want := rd[100], 200.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("last sample: got rd=%v, want %v", got, want)
	}
	for i := 1; i < len(rr); i++ {
		if rr[i] <= rr[i-1] {
			t.Fatalf("rr must increase monotonically, rr[%d]=%v rr[%d]=%v", i-1, rr[i-1], i, rr[i])
		}
	}
}

func TestRadialProfile_OrthographicNearHemisphere(t *testing.T) {
	// pfov close to 180 pushes phi toward pi/2; every radius must stay
	// finite for the orthographic model.
	cfg := DefaultConfig()
	cfg.Model = Orthographic
	cfg.PFOV = 170

	_, rr, err := RadialProfile(cfg, 400, 401)
	if err != nil {
		t.Fatalf("RadialProfile failed: %v", err)
	}
	for i, v := range rr {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("rr[%d] = %v, want finite", i, v)
		}
	}
}

func TestRadialProfile_Invalid(t *testing.T) {
	cfg := DefaultConfig()

	if _, _, err := RadialProfile(cfg, 0, 10); err == nil {
		t.Error("zero dim should fail")
	}
	if _, _, err := RadialProfile(cfg, 400, 1); err == nil {
		t.Error("single sample should fail")
	}

	cfg.Model = "bogus"
	if _, _, err := RadialProfile(cfg, 400, 10); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown model: got %v, want ErrInvalidConfig", err)
	}
}

// TestRadialRoundTrip feeds each model's output through its analytic
// inverse and checks the original radius comes back. The inverse is
// derived per model from the forward formulas; agreement over the
// central region guards against formula drift.
func TestRadialRoundTrip(t *testing.T) {
	const (
		dim  = 400.0
		fov  = 180.0
		pfov = 120.0
	)
	ofoc := dim / (2 * math.Tan(pfov*math.Pi/360))

	inverses := map[Projection]func(ifoc, rr float64) float64{
		Linear:        func(ifoc, rr float64) float64 { return rr / ifoc },
		EqualArea:     func(ifoc, rr float64) float64 { return 2 * math.Asin(rr/ifoc) },
		Orthographic:  func(ifoc, rr float64) float64 { return math.Asin(rr / ifoc) },
		Stereographic: func(ifoc, rr float64) float64 { return 2 * math.Atan(rr/ifoc) },
	}

	for model, inverse := range inverses {
		t.Run(string(model), func(t *testing.T) {
			ifoc, err := model.focal(dim, fov)
			if err != nil {
				t.Fatalf("focal failed: %v", err)
			}
			for rd := 1.0; rd <= 100; rd += 7 {
				phi := math.Atan(rd / ofoc)
				rr := model.radius(ifoc, phi)
				back := ofoc * math.Tan(inverse(ifoc, rr))
				if math.Abs(back-rd) > 1e-6 {
					t.Fatalf("round trip at rd=%v: got %v", rd, back)
				}
			}
		})
	}
}
