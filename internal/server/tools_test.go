package server

import (
	"testing"

	"github.com/fisheyetools/defish/internal/fisheye"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"defish_correct",
		"defish_presets",
		"defish_compare",
		"defish_heatmap",
		"defish_undistort",
		"defish_profile",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Error("Tool InputSchema is nil")
			}

			schemaType, ok := tool.InputSchema["type"]
			if !ok {
				t.Error("InputSchema missing 'type' field")
			}
			if schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"]
			if !ok {
				t.Error("InputSchema missing 'properties' field")
			}
			if props == nil {
				t.Error("InputSchema properties is nil")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	wantRequired := map[string][]string{
		"defish_correct":   {"path", "output"},
		"defish_compare":   {"path", "output"},
		"defish_undistort": {"path", "output"},
		"defish_heatmap":   {"output"},
		"defish_profile":   {"output"},
	}

	tools := GetToolDefinitions()
	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for name, want := range wantRequired {
		tool, ok := toolMap[name]
		if !ok {
			t.Errorf("Tool %s not found", name)
			continue
		}

		t.Run(name, func(t *testing.T) {
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}

			have := make(map[string]bool)
			for _, r := range required {
				have[r] = true
			}
			for _, w := range want {
				if !have[w] {
					t.Errorf("Tool should require %q", w)
				}
			}
		})
	}
}

func TestToolDefinitions_CorrectionParameters(t *testing.T) {
	// Every correction-family tool carries the shared parameter block.
	correctionTools := []string{"defish_correct", "defish_compare", "defish_heatmap", "defish_profile"}
	sharedParams := []string{
		"preset", "fov", "pfov", "model", "format",
		"xcenter", "ycenter", "radius", "pad", "angle",
	}

	tools := GetToolDefinitions()
	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range correctionTools {
		tool, ok := toolMap[name]
		if !ok {
			t.Errorf("Tool %s not found", name)
			continue
		}

		t.Run(name, func(t *testing.T) {
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("properties should be a map")
			}

			for _, param := range sharedParams {
				if _, ok := props[param]; !ok {
					t.Errorf("Missing shared parameter %q", param)
				}
			}

			model, ok := props["model"].(map[string]interface{})
			if !ok {
				t.Fatal("model property should be a map")
			}
			enum, ok := model["enum"].([]string)
			if !ok {
				t.Fatal("model should have a string enum")
			}
			if len(enum) != 4 {
				t.Errorf("model enum: got %d entries, want 4", len(enum))
			}

			fov, ok := props["fov"].(map[string]interface{})
			if !ok {
				t.Fatal("fov property should be a map")
			}
			if fov["default"] != 180 {
				t.Errorf("fov default: got %v, want 180", fov["default"])
			}
		})
	}
}

func TestToolDefinitions_PresetEnumMatchesRegistry(t *testing.T) {
	tools := GetToolDefinitions()

	var correct Tool
	for _, tool := range tools {
		if tool.Name == "defish_correct" {
			correct = tool
			break
		}
	}
	if correct.Name == "" {
		t.Fatal("defish_correct tool not found")
	}

	props := correct.InputSchema["properties"].(map[string]interface{})
	preset := props["preset"].(map[string]interface{})
	enum, ok := preset["enum"].([]string)
	if !ok {
		t.Fatal("preset should have a string enum")
	}

	registry := make(map[string]bool)
	for _, p := range fisheye.Presets() {
		registry[p.Name] = true
	}

	if len(enum) != len(registry) {
		t.Errorf("preset enum has %d entries, registry has %d", len(enum), len(registry))
	}
	for _, name := range enum {
		if !registry[name] {
			t.Errorf("preset enum entry %q is not a registered preset", name)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	tools, ok := result["tools"]
	if !ok {
		t.Fatal("Result should contain 'tools' key")
	}

	toolsList, ok := tools.([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
