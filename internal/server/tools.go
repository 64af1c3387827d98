package server

// Tool represents an MCP tool definition exposed via tools/list.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// correctionProperties returns the schema fragment for the projection
// parameters shared by the correction-family tools. Each call returns
// a fresh map so callers can extend it with tool-specific entries.
//
// Unset parameters fall back to the preset when one is named, else to
// the package defaults (180-degree stereographic lens rendered at a
// 120-degree full-frame perspective).
func correctionProperties() map[string]interface{} {
	return map[string]interface{}{
		"preset": map[string]interface{}{
			"type":        "string",
			"description": "Built-in preset supplying base parameters; the fields below override it",
			"enum":        []string{"circular", "equalarea", "linear", "orthographic", "stereographic", "ultra_wide"},
		},
		"fov": map[string]interface{}{
			"type":        "number",
			"description": "Field of view of the fisheye lens in degrees, in (0, 180]",
			"default":     180,
		},
		"pfov": map[string]interface{}{
			"type":        "number",
			"description": "Field of view of the output perspective in degrees, in (0, 180)",
			"default":     120,
		},
		"model": map[string]interface{}{
			"type":        "string",
			"description": "Projection model of the source lens",
			"enum":        []string{"linear", "equalarea", "orthographic", "stereographic"},
			"default":     "stereographic",
		},
		"format": map[string]interface{}{
			"type":        "string",
			"description": "Normalization policy: frame diagonal or inscribed circle",
			"enum":        []string{"fullframe", "circular"},
			"default":     "fullframe",
		},
		"xcenter": map[string]interface{}{
			"type":        "integer",
			"description": "Optical center x override in working-image pixels; omit for the geometric center",
		},
		"ycenter": map[string]interface{}{
			"type":        "integer",
			"description": "Optical center y override in working-image pixels; omit for the geometric center",
		},
		"radius": map[string]interface{}{
			"type":        "number",
			"description": "Normalization radius override in pixels (the diameter used is twice this value)",
		},
		"pad": map[string]interface{}{
			"type":        "integer",
			"description": "Black border padding in pixels applied before the square crop",
			"default":     0,
		},
		"angle": map[string]interface{}{
			"type":        "number",
			"description": "Rotation about the optical center in degrees [0, 360]",
			"default":     0,
		},
	}
}

// GetToolDefinitions returns the MCP tool definitions for all
// correction operations the server exposes.
func GetToolDefinitions() []Tool {
	correct := correctionProperties()
	correct["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Path to the source fisheye image (PNG or JPEG)",
	}
	correct["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Path for the corrected image; the extension selects the encoder",
	}
	correct["quality"] = map[string]interface{}{
		"type":        "integer",
		"description": "JPEG quality for .jpg outputs, 1-100",
		"default":     95,
	}

	compare := correctionProperties()
	compare["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Path to the source fisheye image",
	}
	compare["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Path for the labeled side-by-side sheet",
	}
	compare["height"] = map[string]interface{}{
		"type":        "integer",
		"description": "Sheet height in pixels; 0 keeps the corrected frame's height",
		"default":     0,
	}
	compare["grid_spacing"] = map[string]interface{}{
		"type":        "integer",
		"description": "Overlay a straight reference grid with this spacing in pixels on both panes; 0 disables",
		"default":     0,
	}

	heatmap := correctionProperties()
	heatmap["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Path for the rendered heat map image",
	}
	heatmap["side"] = map[string]interface{}{
		"type":        "integer",
		"description": "Side length of the square working frame to evaluate, in pixels",
		"default":     512,
	}

	profile := correctionProperties()
	profile["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Path for the chart; .png and .svg are supported",
	}
	profile["dim"] = map[string]interface{}{
		"type":        "number",
		"description": "Normalization diameter in pixels the curves are computed for",
		"default":     1024,
	}
	profile["models"] = map[string]interface{}{
		"type":        "array",
		"description": "Projection models to plot; omit for all four",
		"items": map[string]interface{}{
			"type": "string",
			"enum": []string{"linear", "equalarea", "orthographic", "stereographic"},
		},
	}

	return []Tool{
		{
			Name: "defish_correct",
			Description: "Correct a fisheye image into a perspective view and write the result. " +
				"Parameters default to a 180-degree stereographic lens rendered at a 120-degree perspective; " +
				"pass a preset name to start from a built-in profile.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": correct,
				"required":   []string{"path", "output"},
			},
		},
		{
			Name:        "defish_presets",
			Description: "List the built-in correction presets with their parameter sets and descriptions.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name: "defish_compare",
			Description: "Write a labeled side-by-side sheet of a source image and its corrected " +
				"version for visual review of a parameter set.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": compare,
				"required":   []string{"path", "output"},
			},
		},
		{
			Name: "defish_heatmap",
			Description: "Render a heat map of per-pixel sampling displacement for a parameter set. " +
				"Blue marks pixels that barely move, red the strongest pull toward the source. " +
				"Also reports the maximum displacement in pixels.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": heatmap,
				"required":   []string{"output"},
			},
		},
		{
			Name: "defish_undistort",
			Description: "Correct a frame using calibrated camera intrinsics (equidistant model with " +
				"polynomial distortion) instead of an ideal lens projection. Reads coefficients from " +
				"an .npz archive or falls back to the built-in calibration, and reports plausibility " +
				"findings for the parameters used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the source image",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Path for the corrected image; the extension selects the encoder",
					},
					"params": map[string]interface{}{
						"type":        "string",
						"description": "Path to an .npz calibration archive (K, D, dim); omit for the built-in calibration",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality for .jpg outputs, 1-100",
						"default":     95,
					},
				},
				"required": []string{"path", "output"},
			},
		},
		{
			Name: "defish_profile",
			Description: "Plot output radius against source radius for one or more projection models " +
				"and save the chart. Useful for choosing a model before correcting a batch.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": profile,
				"required":   []string{"output"},
			},
		},
	}
}

// handleToolsList responds to tools/list with all tool definitions.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
