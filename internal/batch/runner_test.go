package batch

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/fisheyetools/defish/internal/fisheye"
)

// writeFrame saves a small gradient frame as PNG.
func writeFrame(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 8), uint8(y * 8), 128, 255})
		}
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		t.Fatal(err)
	}
}

// testJob builds a job over a fresh input directory with two valid
// frames, one unreadable frame and one non-image file.
func testJob(t *testing.T) *Job {
	t.Helper()
	in := t.TempDir()

	writeFrame(t, filepath.Join(in, "frame_a.png"), 32, 24)
	writeFrame(t, filepath.Join(in, "frame_b.png"), 40, 40)
	if err := os.WriteFile(filepath.Join(in, "broken.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	return &Job{
		InputDir:   in,
		OutputDir:  t.TempDir(),
		Patterns:   defaultPatterns(),
		Correction: fisheye.DefaultConfig(),
		Suffix:     "_corrected",
		Quality:    95,
		Report:     "report.json",
	}
}

func TestRun(t *testing.T) {
	job := testJob(t)

	report, err := Run(job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Processed != 2 || report.Failed != 1 {
		t.Fatalf("counts: processed=%d failed=%d, want 2 and 1", report.Processed, report.Failed)
	}
	if report.RunID == "" {
		t.Error("report has no run id")
	}
	if len(report.Results) != 3 {
		t.Fatalf("results: got %d, want 3", len(report.Results))
	}

	// Directory entries come back sorted, so the broken frame is first.
	if report.Results[0].Input != "broken.png" || report.Results[0].Error == "" {
		t.Errorf("broken frame not recorded: %+v", report.Results[0])
	}

	out, err := imgio.Open(filepath.Join(job.OutputDir, "frame_a_corrected.png"))
	if err != nil {
		t.Fatalf("corrected frame missing: %v", err)
	}
	// The 32x24 frame crops to its short side.
	if out.Bounds().Dx() != 24 || out.Bounds().Dy() != 24 {
		t.Errorf("corrected dimensions: got %dx%d, want 24x24",
			out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestRun_WritesReport(t *testing.T) {
	job := testJob(t)

	if _, err := Run(job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(job.OutputDir, "report.json"))
	if err != nil {
		t.Fatalf("report missing: %v", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report does not parse: %v", err)
	}
	if report.Processed != 2 || report.Failed != 1 {
		t.Errorf("persisted counts: processed=%d failed=%d", report.Processed, report.Failed)
	}
	if report.Correction.Model != fisheye.Stereographic {
		t.Errorf("persisted correction: %+v", report.Correction)
	}
}

func TestRun_NoReportWhenDisabled(t *testing.T) {
	job := testJob(t)
	job.Report = ""

	if _, err := Run(job); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(job.OutputDir, "report.json")); !os.IsNotExist(err) {
		t.Errorf("report written despite being disabled: %v", err)
	}
}

func TestRun_CompareSheets(t *testing.T) {
	job := testJob(t)
	job.CompareSheets = true

	report, err := Run(job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, res := range report.Results {
		if res.Error != "" {
			continue
		}
		if res.Sheet == "" {
			t.Errorf("no sheet recorded for %s", res.Input)
			continue
		}
		if _, err := os.Stat(filepath.Join(job.OutputDir, res.Sheet)); err != nil {
			t.Errorf("sheet missing for %s: %v", res.Input, err)
		}
	}
}

func TestRun_BadInputDir(t *testing.T) {
	job := testJob(t)
	job.InputDir = filepath.Join(job.InputDir, "absent")

	if _, err := Run(job); err == nil {
		t.Fatal("Run accepted a missing input dir")
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		want   string
	}{
		{"a.png", "_corrected", "a_corrected.png"},
		{"shot.final.jpg", "_x", "shot.final_x.jpg"},
		{"noext", "_x", "noext_x"},
	}

	for _, tt := range tests {
		if got := outputName(tt.name, tt.suffix); got != tt.want {
			t.Errorf("outputName(%q, %q): got %q, want %q", tt.name, tt.suffix, got, tt.want)
		}
	}
}
