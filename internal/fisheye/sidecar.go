package fisheye

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// SaveSidecar writes cfg as an indented JSON sidecar file, the format
// the interactive tools use to remember the last-applied parameters
// between sessions.
func SaveSidecar(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode sidecar: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sidecar %s: %w", path, err)
	}
	return nil
}

// LoadSidecar reads a parameter sidecar written by SaveSidecar.
//
// A missing file is not an error: it returns DefaultConfig, so callers
// start from defaults on first run. Fields absent from the file keep
// their default values; unknown keys are rejected, and the loaded
// config is validated before being returned.
func LoadSidecar(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read sidecar %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: sidecar %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("sidecar %s: %w", path, err)
	}
	return cfg, nil
}
