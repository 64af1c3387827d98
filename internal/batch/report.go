package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fisheyetools/defish/internal/fisheye"
)

// Report summarizes one batch run.
type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Correction fisheye.Config `json:"correction"`
	Processed  int            `json:"processed"`
	Failed     int            `json:"failed"`
	Results    []Result       `json:"results"`
}

// Result records the outcome for one frame.
type Result struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Sheet  string `json:"sheet,omitempty"`
	Error  string `json:"error,omitempty"`
	Millis int64  `json:"millis"`
}

// Save writes the report as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
