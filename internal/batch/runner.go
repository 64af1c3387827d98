package batch

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/google/uuid"

	"github.com/fisheyetools/defish/internal/fisheye"
	"github.com/fisheyetools/defish/internal/render"
)

// Run executes a job: every frame in the input directory matching the
// patterns is corrected and written to the output directory, and the
// report is saved there when the job asks for one.
//
// Per-frame failures are recorded in the report and do not stop the
// run; Run itself fails only when the directories or the job are
// unusable.
func Run(job *Job) (*Report, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(job.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan input dir: %w", err)
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	report := &Report{
		RunID:      uuid.New().String(),
		StartedAt:  time.Now().UTC(),
		Correction: job.Correction,
	}

	for _, e := range entries {
		if e.IsDir() || !job.matches(e.Name()) {
			continue
		}
		res := processFrame(job, e.Name())
		if res.Error != "" {
			report.Failed++
		} else {
			report.Processed++
		}
		report.Results = append(report.Results, res)
	}
	report.FinishedAt = time.Now().UTC()

	if job.Report != "" {
		if err := report.Save(filepath.Join(job.OutputDir, job.Report)); err != nil {
			return report, err
		}
	}
	return report, nil
}

func processFrame(job *Job, name string) (res Result) {
	start := time.Now()
	res = Result{Input: name}
	defer func() { res.Millis = time.Since(start).Milliseconds() }()

	src, err := imgio.Open(filepath.Join(job.InputDir, name))
	if err != nil {
		res.Error = fmt.Sprintf("load: %v", err)
		return res
	}

	out, err := fisheye.Convert(src, job.Correction)
	if err != nil {
		res.Error = fmt.Sprintf("convert: %v", err)
		return res
	}

	outName := outputName(name, job.Suffix)
	if err := render.Save(filepath.Join(job.OutputDir, outName), out, job.Quality); err != nil {
		res.Error = fmt.Sprintf("save: %v", err)
		return res
	}
	res.Output = outName

	if job.CompareSheets {
		res.Sheet = writeSheet(job, name, src, out)
	}
	return res
}

// writeSheet saves an original-vs-corrected sheet next to the output
// frame. Sheet failures are logged, not fatal: the corrected frame is
// already on disk.
func writeSheet(job *Job, name string, src image.Image, out *image.NRGBA) string {
	sheet, err := render.SideBySide([]render.Pane{
		{Label: "original", Image: src},
		{Label: "corrected", Image: out},
	}, out.Bounds().Dy())
	if err != nil {
		log.Printf("batch: comparison sheet for %s: %v", name, err)
		return ""
	}

	sheetName := outputName(name, job.Suffix+"_compare")
	if err := render.Save(filepath.Join(job.OutputDir, sheetName), sheet, job.Quality); err != nil {
		log.Printf("batch: comparison sheet for %s: %v", name, err)
		return ""
	}
	return sheetName
}

// outputName inserts the suffix between the filename stem and its
// extension.
func outputName(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + suffix + ext
}
