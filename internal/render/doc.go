// Package render produces the visual artifacts around a correction:
// labeled side-by-side comparison sheets, reference grid overlays,
// displacement heatmaps and radial response charts. It renders
// diagnostics and never alters the corrected images themselves.
package render
