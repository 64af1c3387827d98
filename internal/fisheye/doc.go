// Package fisheye converts fisheye-distorted images into a chosen
// angular projection.
//
// The conversion is a per-pixel radial remapping. For every output
// pixel the distance rd from the optical center is reinterpreted as a
// perspective-projected radius at the output focal length, giving the
// incident ray angle phi = atan(rd/ofoc); the selected projection
// model then maps phi back to the radius at which the fisheye lens
// recorded that ray, and the pixel is sampled there. Four closed-form
// models are supported (linear, equal-area, orthographic,
// stereographic), each inverting its own forward radius formula at the
// lens field of view.
//
// # Pipeline
//
// Conversion is a three-stage pipeline with each stage usable on its
// own:
//
//  1. Prepare: pad the source, crop the largest centered square, and
//     resolve the optical center. The radial math requires a square
//     coordinate space.
//  2. ComputeMap: build the per-pixel source coordinate grid for a
//     validated Config.
//  3. remap.Apply: bilinear resampling through the grid.
//
// Convert runs all three. Config validation happens once, before any
// per-pixel work.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// rightward, Y downward. The default optical center of a working image
// of side dim is ((dim-1)/2, (dim-1)/2) in integer arithmetic.
//
// # Concurrency
//
// Convert, Prepare and ComputeMap are pure functions of their
// arguments: they share no state and may be called concurrently for
// independent images and configs. Coordinate grids are rebuilt on
// every call; parameters typically change between calls (interactive
// tuning), so nothing is cached.
//
// # Errors
//
// ErrInvalidImage reports unusable source images and ErrInvalidConfig
// reports parameters outside the algorithm's valid domain; both are
// matched with errors.Is. Out-of-bounds sampling is not an error: the
// resampler fills those pixels with black.
package fisheye
