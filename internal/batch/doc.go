// Package batch runs fisheye corrections over whole directories of
// frames. A YAML job file names the input and output directories and
// the correction parameters; the runner corrects every matching frame,
// optionally writes comparison sheets, and records a JSON report with
// per-frame outcomes. A frame that fails to load or convert is
// recorded and skipped; it does not stop the run.
package batch
