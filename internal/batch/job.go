package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fisheyetools/defish/internal/fisheye"
)

// Job describes one batch correction run.
type Job struct {
	// InputDir is scanned (non-recursively) for frames matching
	// Patterns.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives corrected frames and the report. Created if
	// missing.
	OutputDir string `yaml:"output_dir"`

	// Patterns are filename globs selecting the frames to process.
	Patterns []string `yaml:"patterns,omitempty"`

	// Preset names a built-in parameter set used as the base
	// correction; correction keys in the job file override it field by
	// field.
	Preset string `yaml:"preset,omitempty"`

	// Correction holds the resolved parameters for the run.
	Correction fisheye.Config `yaml:"correction,omitempty"`

	// Suffix is appended to each output filename stem.
	Suffix string `yaml:"suffix,omitempty"`

	// Quality is the JPEG encoding quality, 1 to 100.
	Quality int `yaml:"quality,omitempty"`

	// CompareSheets also writes a labeled original-vs-corrected sheet
	// per frame.
	CompareSheets bool `yaml:"compare_sheets,omitempty"`

	// Report is the report filename inside OutputDir. Set it to an
	// empty string in the job file to skip the report.
	Report string `yaml:"report"`
}

func defaultPatterns() []string {
	return []string{"*.jpg", "*.jpeg", "*.png"}
}

// LoadJob reads a YAML job file. Absent keys keep their defaults:
// common image patterns, the "_corrected" suffix, JPEG quality 95 and
// a report.json report. The base correction comes from the named
// preset when one is given, otherwise from the standard defaults, and
// correction keys override it individually.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	// The preset decides the base correction, so it has to be known
	// before the full decode.
	var probe struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse job yaml: %w", err)
	}

	base := fisheye.DefaultConfig()
	if probe.Preset != "" {
		p, err := fisheye.PresetByName(probe.Preset)
		if err != nil {
			return nil, err
		}
		base = p.Config
	}

	job := &Job{
		Patterns:   defaultPatterns(),
		Correction: base,
		Suffix:     "_corrected",
		Quality:    95,
		Report:     "report.json",
	}
	if err := yaml.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("parse job yaml: %w", err)
	}

	if err := job.validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func (j *Job) validate() error {
	if j.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	if j.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if j.Quality < 1 || j.Quality > 100 {
		return fmt.Errorf("quality must be in 1..100, got %d", j.Quality)
	}
	if len(j.Patterns) == 0 {
		return fmt.Errorf("patterns must not be empty")
	}
	for _, pat := range j.Patterns {
		if _, err := filepath.Match(pat, "probe.jpg"); err != nil {
			return fmt.Errorf("bad pattern %q: %w", pat, err)
		}
	}
	return j.Correction.Validate()
}

// matches reports whether a filename is selected by the job patterns.
func (j *Job) matches(name string) bool {
	for _, pat := range j.Patterns {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}
