package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/fisheyetools/defish/internal/fisheye"
	"github.com/fisheyetools/defish/internal/intrinsics"
	"github.com/fisheyetools/defish/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "defish_correct").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Resolves the projection config (preset base, then field overrides)
//  3. Loads the source image from cache where one is needed
//  4. Runs the correction or rendering operation
//  5. Writes any file output and returns a JSON-friendly result
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "defish_correct":
		return s.handleCorrect(args)
	case "defish_presets":
		return s.handlePresets(args)
	case "defish_compare":
		return s.handleCompare(args)
	case "defish_heatmap":
		return s.handleHeatmap(args)
	case "defish_undistort":
		return s.handleUndistort(args)
	case "defish_profile":
		return s.handleProfile(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// correctionArgs holds the projection parameters shared by the
// correction-family tools. Unset fields keep the base values; the
// optional center and radius overrides are pointers because zero is a
// legal coordinate.
type correctionArgs struct {
	Preset  string   `json:"preset"`
	FOV     float64  `json:"fov"`
	PFOV    float64  `json:"pfov"`
	Model   string   `json:"model"`
	Format  string   `json:"format"`
	XCenter *int     `json:"xcenter"`
	YCenter *int     `json:"ycenter"`
	Radius  *float64 `json:"radius"`
	Pad     int      `json:"pad"`
	Angle   float64  `json:"angle"`
}

// config resolves the effective projection config: the named preset
// (or the package defaults) overlaid with every argument the caller
// set. The result is validated before use.
func (a *correctionArgs) config() (fisheye.Config, error) {
	cfg := fisheye.DefaultConfig()
	if a.Preset != "" {
		p, err := fisheye.PresetByName(a.Preset)
		if err != nil {
			return fisheye.Config{}, err
		}
		cfg = p.Config
	}
	if a.FOV != 0 {
		cfg.FOV = a.FOV
	}
	if a.PFOV != 0 {
		cfg.PFOV = a.PFOV
	}
	if a.Model != "" {
		cfg.Model = fisheye.Projection(a.Model)
	}
	if a.Format != "" {
		cfg.Format = fisheye.Format(a.Format)
	}
	if a.XCenter != nil {
		cfg.XCenter = a.XCenter
	}
	if a.YCenter != nil {
		cfg.YCenter = a.YCenter
	}
	if a.Radius != nil {
		cfg.Radius = a.Radius
	}
	if a.Pad != 0 {
		cfg.Pad = a.Pad
	}
	if a.Angle != 0 {
		cfg.Angle = a.Angle
	}
	if err := cfg.Validate(); err != nil {
		return fisheye.Config{}, err
	}
	return cfg, nil
}

// === Correction Handlers ===

type correctArgs struct {
	correctionArgs
	Path    string `json:"path"`
	Output  string `json:"output"`
	Quality int    `json:"quality"`
}

type correctResult struct {
	Output string         `json:"output"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Config fisheye.Config `json:"config"`
}

func (s *Server) handleCorrect(args json.RawMessage) (interface{}, error) {
	var a correctArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := fisheye.Convert(src, cfg)
	if err != nil {
		return nil, err
	}
	if err := render.Save(a.Output, out, a.Quality); err != nil {
		return nil, err
	}
	b := out.Bounds()
	return &correctResult{
		Output: a.Output,
		Width:  b.Dx(),
		Height: b.Dy(),
		Config: cfg,
	}, nil
}

func (s *Server) handlePresets(json.RawMessage) (interface{}, error) {
	return map[string]interface{}{"presets": fisheye.Presets()}, nil
}

type compareArgs struct {
	correctionArgs
	Path        string `json:"path"`
	Output      string `json:"output"`
	Height      int    `json:"height"`
	GridSpacing int    `json:"grid_spacing"`
	Quality     int    `json:"quality"`
}

type compareResult struct {
	Output string `json:"output"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := fisheye.Convert(src, cfg)
	if err != nil {
		return nil, err
	}
	left, right := src, image.Image(out)
	if a.GridSpacing > 0 {
		if left, err = render.Grid(src, a.GridSpacing); err != nil {
			return nil, err
		}
		if right, err = render.Grid(out, a.GridSpacing); err != nil {
			return nil, err
		}
	}
	height := a.Height
	if height == 0 {
		height = out.Bounds().Dy()
	}
	sheet, err := render.SideBySide([]render.Pane{
		{Label: "original", Image: left},
		{Label: "corrected", Image: right},
	}, height)
	if err != nil {
		return nil, err
	}
	if err := render.Save(a.Output, sheet, a.Quality); err != nil {
		return nil, err
	}
	b := sheet.Bounds()
	return &compareResult{Output: a.Output, Width: b.Dx(), Height: b.Dy()}, nil
}

type heatmapArgs struct {
	correctionArgs
	Output string `json:"output"`
	Side   int    `json:"side"`
}

type heatmapResult struct {
	Output          string  `json:"output"`
	Side            int     `json:"side"`
	MaxDisplacement float64 `json:"max_displacement"`
}

func (s *Server) handleHeatmap(args json.RawMessage) (interface{}, error) {
	var a heatmapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Side == 0 {
		a.Side = 512
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	img, maxDist, err := render.DisplacementHeatmap(cfg, a.Side)
	if err != nil {
		return nil, err
	}
	if err := render.Save(a.Output, img, 0); err != nil {
		return nil, err
	}
	return &heatmapResult{Output: a.Output, Side: a.Side, MaxDisplacement: maxDist}, nil
}

type undistortArgs struct {
	Path    string `json:"path"`
	Output  string `json:"output"`
	Params  string `json:"params"`
	Quality int    `json:"quality"`
}

type undistortResult struct {
	Output   string   `json:"output"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Findings []string `json:"findings,omitempty"`
}

func (s *Server) handleUndistort(args json.RawMessage) (interface{}, error) {
	var a undistortArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	params := intrinsics.DefaultParams()
	if a.Params != "" {
		var err error
		params, err = intrinsics.LoadNPZ(a.Params)
		if err != nil {
			return nil, err
		}
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := params.Undistort(src)
	if err != nil {
		return nil, err
	}
	if err := render.Save(a.Output, out, a.Quality); err != nil {
		return nil, err
	}
	b := out.Bounds()
	return &undistortResult{
		Output:   a.Output,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Findings: params.Diagnose(),
	}, nil
}

type profileArgs struct {
	correctionArgs
	Output string   `json:"output"`
	Dim    float64  `json:"dim"`
	Models []string `json:"models"`
}

type profileResult struct {
	Output string               `json:"output"`
	Dim    float64              `json:"dim"`
	Models []fisheye.Projection `json:"models"`
}

func (s *Server) handleProfile(args json.RawMessage) (interface{}, error) {
	var a profileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Dim == 0 {
		a.Dim = 1024
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	models := make([]fisheye.Projection, 0, len(a.Models))
	for _, m := range a.Models {
		models = append(models, fisheye.Projection(m))
	}
	if len(models) == 0 {
		models = []fisheye.Projection{fisheye.Linear, fisheye.EqualArea, fisheye.Orthographic, fisheye.Stereographic}
	}
	if err := render.ProfilePlot(cfg, models, a.Dim, a.Output); err != nil {
		return nil, err
	}
	return &profileResult{Output: a.Output, Dim: a.Dim, Models: models}, nil
}
