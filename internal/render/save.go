package render

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// Save writes img to path, choosing the encoder by file extension:
// .png, or .jpg/.jpeg with the given quality. A quality of 0 means 95.
func Save(path string, img image.Image, quality int) error {
	if quality == 0 {
		quality = 95
	}
	var enc imgio.Encoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		enc = imgio.PNGEncoder()
	case ".jpg", ".jpeg":
		enc = imgio.JPEGEncoder(quality)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	return imgio.Save(path, img, enc)
}
