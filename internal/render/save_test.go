package render

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
)

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(20 * x), 100, 50, 255})
		}
	}

	for _, name := range []string{"out.png", "out.jpg", "out.JPEG"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, img, 0); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := imgio.Open(path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			if b := got.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
				t.Errorf("bounds: got %dx%d, want 12x8", b.Dx(), b.Dy())
			}
		})
	}
}

func TestSave_UnsupportedExtension(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if err := Save(filepath.Join(t.TempDir(), "out.bmp"), img, 0); err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
	if err := Save(filepath.Join(t.TempDir(), "out"), img, 0); err == nil {
		t.Fatal("Expected error for missing extension")
	}
}
