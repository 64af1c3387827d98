// Package server implements the MCP (Model Context Protocol) server
// exposing the fisheye correction toolbox.
//
// The server gives programmatic callers (agents, editors, pipeline
// glue) the same operations the CLI offers, addressed by file path and
// answered with JSON.
//
// # Protocol
//
// Communication uses JSON-RPC 2.0 over stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - defish_correct: Correct a fisheye image into a perspective view
//   - defish_presets: List built-in correction presets
//   - defish_compare: Write a labeled original-vs-corrected sheet
//   - defish_heatmap: Render per-pixel sampling displacement
//   - defish_undistort: Correct via calibrated camera intrinsics
//   - defish_profile: Plot radial response curves per model
//
// The correction-family tools (correct, compare, heatmap, profile)
// share one parameter block: an optional preset name plus individual
// projection parameters that override it. See fisheye.Config for the
// parameter semantics.
//
// # Image Caching
//
// Source images are decoded once and cached by path, so a session that
// corrects, compares, and heat-maps one frame pays the decode cost a
// single time. The cache persists for the lifetime of the server
// process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
