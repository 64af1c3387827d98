package render

import (
	"image/color"
	"testing"

	"github.com/fisheyetools/defish/internal/fisheye"
)

func TestDisplacementHeatmap(t *testing.T) {
	img, maxDist, err := DisplacementHeatmap(fisheye.DefaultConfig(), 64)
	if err != nil {
		t.Fatalf("DisplacementHeatmap failed: %v", err)
	}

	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("dimensions: got %dx%d, want 64x64", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if maxDist <= 0 {
		t.Fatalf("max displacement: got %v, want > 0", maxDist)
	}

	// The optical center does not move: pure blue.
	if got := img.NRGBAAt(31, 31); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("center pixel: got %v, want pure blue", got)
	}
	// Displacement grows with radius, so the pixel farthest from the
	// center (31, 31) carries the maximum: pure red.
	if got := img.NRGBAAt(63, 63); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("far corner pixel: got %v, want pure red", got)
	}
	// The near corner is close behind, still at the hot end.
	if got := img.NRGBAAt(0, 0); got.R != 255 || got.B != 0 {
		t.Errorf("near corner pixel: got %v, want a red-side color", got)
	}
}

func TestDisplacementHeatmap_ModelsDiffer(t *testing.T) {
	linear := fisheye.DefaultConfig()
	linear.Model = fisheye.Linear
	ortho := fisheye.DefaultConfig()
	ortho.Model = fisheye.Orthographic

	_, maxLinear, err := DisplacementHeatmap(linear, 64)
	if err != nil {
		t.Fatalf("DisplacementHeatmap failed: %v", err)
	}
	_, maxOrtho, err := DisplacementHeatmap(ortho, 64)
	if err != nil {
		t.Fatalf("DisplacementHeatmap failed: %v", err)
	}

	if maxLinear == maxOrtho {
		t.Errorf("models produced identical max displacement %v", maxLinear)
	}
}

func TestDisplacementHeatmap_Invalid(t *testing.T) {
	if _, _, err := DisplacementHeatmap(fisheye.DefaultConfig(), 0); err == nil {
		t.Error("accepted a zero side")
	}

	bad := fisheye.DefaultConfig()
	bad.FOV = -1
	if _, _, err := DisplacementHeatmap(bad, 64); err == nil {
		t.Error("accepted an invalid config")
	}
}
