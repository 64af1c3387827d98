// Package intrinsics corrects lens distortion using a camera's
// measured calibration instead of a generic projection model.
//
// Calibration parameters come from a NumPy .npz archive produced by a
// checkerboard calibration run (entries K.npy, D.npy and dim.npy) or
// from the built-in parameters of the reference capture rig. The lens
// model is the four-coefficient Kannala-Brandt fisheye polynomial.
//
// # Pipeline
//
// Undistort resizes the frame to the calibration dimensions, projects
// every output pixel through the inverse camera matrix and the forward
// distortion model to build a resampling grid, remaps, and resizes the
// result back to the source dimensions. A corrected frame whose mean
// brightness collapses is rejected; that happens when the calibration
// does not match the source camera.
//
// # Concurrency
//
// Params is immutable after construction, so one instance can serve
// concurrent corrections. Grid rows are computed in parallel.
package intrinsics
