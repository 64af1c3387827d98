package fisheye

import (
	"fmt"
	"sort"
)

// Preset pairs a named parameter set with a short description of the
// look it produces.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Config      Config `json:"config"`
}

// presets holds the built-in parameter sets, keyed by name. One per
// projection model plus two special-purpose entries for common lens
// geometries.
var presets = map[string]Preset{
	"stereographic": {
		Name:        "stereographic",
		Description: "Natural-looking correction that keeps local shapes; good general-purpose default.",
		Config:      Config{FOV: 180, PFOV: 140, Model: Stereographic, Format: FullFrame},
	},
	"linear": {
		Name:        "linear",
		Description: "Equidistant correction with straightened lines; strongest stretch near the edges.",
		Config:      Config{FOV: 180, PFOV: 120, Model: Linear, Format: FullFrame},
	},
	"equalarea": {
		Name:        "equalarea",
		Description: "Preserves relative areas across the frame; suited to coverage measurements.",
		Config:      Config{FOV: 180, PFOV: 130, Model: EqualArea, Format: Circular},
	},
	"orthographic": {
		Name:        "orthographic",
		Description: "Strong center emphasis with compressed periphery.",
		Config:      Config{FOV: 180, PFOV: 110, Model: Orthographic, Format: FullFrame},
	},
	"ultra_wide": {
		Name:        "ultra_wide",
		Description: "Moderate correction for ultra-wide (non-hemispherical) action-camera lenses.",
		Config:      Config{FOV: 140, PFOV: 90, Model: Stereographic, Format: FullFrame},
	},
	"circular": {
		Name:        "circular",
		Description: "Correction for circular fisheye frames where the image circle sits inside the sensor.",
		Config:      Config{FOV: 180, PFOV: 140, Model: Stereographic, Format: Circular},
	},
}

// Presets returns the built-in presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PresetByName looks up a built-in preset. The returned Preset is a
// copy; modifying its Config does not affect the registry.
func PresetByName(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		names := make([]string, 0, len(presets))
		for n := range presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return Preset{}, fmt.Errorf("%w: unknown preset %q (valid: %v)", ErrInvalidConfig, name, names)
	}
	return p, nil
}
