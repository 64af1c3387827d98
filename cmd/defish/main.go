package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/fisheyetools/defish/internal/batch"
	"github.com/fisheyetools/defish/internal/fisheye"
	"github.com/fisheyetools/defish/internal/intrinsics"
	"github.com/fisheyetools/defish/internal/render"
	"github.com/fisheyetools/defish/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Logs go to stderr; stdout carries results (and the MCP protocol
	// when serving).
	log.SetOutput(os.Stderr)
	log.SetFlags(0)
	log.SetPrefix("defish: ")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "correct":
		runCorrect(args)
	case "batch":
		runBatch(args)
	case "compare":
		runCompare(args)
	case "heatmap":
		runHeatmap(args)
	case "profile":
		runProfile(args)
	case "undistort":
		runUndistort(args)
	case "presets":
		runPresets()
	case "serve":
		runServe()
	case "version", "--version", "-v":
		fmt.Printf("defish %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`defish - fisheye image correction toolbox

Usage: defish <command> [options]

Commands:
  correct    Correct a fisheye image into a perspective view
  batch      Correct a directory of frames from a YAML job file
  compare    Write a labeled original-vs-corrected sheet
  heatmap    Render per-pixel sampling displacement for a parameter set
  profile    Plot radial response curves for projection models
  undistort  Correct a frame using calibrated camera intrinsics
  presets    List the built-in correction presets
  serve      Run the MCP tool server on stdin/stdout
  version    Show version information
  help       Show this help message

Projection options (correct, compare, heatmap, profile):
  -preset <name>      Start from a built-in preset (see 'defish presets')
  -sidecar <file>     Start from a saved JSON parameter sidecar
  -fov <deg>          Lens field of view in (0, 180], default 180
  -pfov <deg>         Output field of view in (0, 180), default 120
  -model <name>       linear, equalarea, orthographic or stereographic
  -format <name>      fullframe or circular
  -xcenter, -ycenter  Optical center override in pixels
  -radius <px>        Normalization radius override
  -pad <px>           Black border padding before the square crop
  -angle <deg>        Rotation about the optical center

Explicit flags override the preset or sidecar they are combined with.

Environment variables:
  DEFISH_LOG_LEVEL=debug    Verbose logging on stderr (serve)

Examples:
  # Correct one frame with the defaults
  defish correct -in hall.jpg -out hall_flat.jpg

  # Strong stereographic preset, nudged center
  defish correct -in cam.png -out cam_flat.png -preset stereographic -xcenter 204

  # Whole directory with a job file
  defish batch -job nightly.yaml

  # Review a parameter set before committing to it
  defish compare -in cam.png -out review.png -pfov 100 -grid 50
  defish heatmap -out heat.png -model equalarea
  defish profile -out curves.svg

  # Calibrated correction from an OpenCV-style .npz archive
  defish undistort -in frame.png -out flat.png -params calib.npz`)
}

// lensFlags registers the shared projection parameters on a command's
// flag set. Explicit flags override the preset or sidecar base, and
// only flags the user actually set count as explicit, so a zero center
// is still an override.
type lensFlags struct {
	fs      *flag.FlagSet
	preset  *string
	sidecar *string
	fov     *float64
	pfov    *float64
	model   *string
	format  *string
	xcenter *int
	ycenter *int
	radius  *float64
	pad     *int
	angle   *float64
}

func newLensFlags(fs *flag.FlagSet) *lensFlags {
	def := fisheye.DefaultConfig()
	return &lensFlags{
		fs:      fs,
		preset:  fs.String("preset", "", "built-in preset to start from"),
		sidecar: fs.String("sidecar", "", "JSON parameter sidecar to start from"),
		fov:     fs.Float64("fov", def.FOV, "lens field of view in degrees, in (0, 180]"),
		pfov:    fs.Float64("pfov", def.PFOV, "output field of view in degrees, in (0, 180)"),
		model:   fs.String("model", string(def.Model), "projection model"),
		format:  fs.String("format", string(def.Format), "normalization format"),
		xcenter: fs.Int("xcenter", 0, "optical center x override in pixels"),
		ycenter: fs.Int("ycenter", 0, "optical center y override in pixels"),
		radius:  fs.Float64("radius", 0, "normalization radius override in pixels"),
		pad:     fs.Int("pad", 0, "black border padding in pixels"),
		angle:   fs.Float64("angle", 0, "rotation about the optical center in degrees"),
	}
}

func (l *lensFlags) config() (fisheye.Config, error) {
	cfg := fisheye.DefaultConfig()
	switch {
	case *l.preset != "" && *l.sidecar != "":
		return fisheye.Config{}, fmt.Errorf("-preset and -sidecar are mutually exclusive")
	case *l.preset != "":
		p, err := fisheye.PresetByName(*l.preset)
		if err != nil {
			return fisheye.Config{}, err
		}
		cfg = p.Config
	case *l.sidecar != "":
		var err error
		if cfg, err = fisheye.LoadSidecar(*l.sidecar); err != nil {
			return fisheye.Config{}, err
		}
	}

	l.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fov":
			cfg.FOV = *l.fov
		case "pfov":
			cfg.PFOV = *l.pfov
		case "model":
			cfg.Model = fisheye.Projection(*l.model)
		case "format":
			cfg.Format = fisheye.Format(*l.format)
		case "xcenter":
			cfg.XCenter = l.xcenter
		case "ycenter":
			cfg.YCenter = l.ycenter
		case "radius":
			cfg.Radius = l.radius
		case "pad":
			cfg.Pad = *l.pad
		case "angle":
			cfg.Angle = *l.angle
		}
	})

	if err := cfg.Validate(); err != nil {
		return fisheye.Config{}, err
	}
	return cfg, nil
}

func requireFlags(fs *flag.FlagSet, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			fmt.Fprintf(os.Stderr, "Error: -%s is required\n", pairs[i])
			fs.Usage()
			os.Exit(1)
		}
	}
}

func runCorrect(args []string) {
	fs := flag.NewFlagSet("correct", flag.ExitOnError)
	in := fs.String("in", "", "source fisheye image (required)")
	out := fs.String("out", "", "output path, .png or .jpg (required)")
	quality := fs.Int("quality", 95, "JPEG quality 1-100")
	saveSidecar := fs.String("save-sidecar", "", "write the effective parameters to this JSON sidecar")
	lens := newLensFlags(fs)
	fs.Parse(args)
	requireFlags(fs, "in", *in, "out", *out)

	cfg, err := lens.config()
	if err != nil {
		log.Fatalf("correct: %v", err)
	}
	src, err := imgio.Open(*in)
	if err != nil {
		log.Fatalf("correct: %v", err)
	}
	img, err := fisheye.Convert(src, cfg)
	if err != nil {
		log.Fatalf("correct: %v", err)
	}
	if err := render.Save(*out, img, *quality); err != nil {
		log.Fatalf("correct: %v", err)
	}
	if *saveSidecar != "" {
		if err := fisheye.SaveSidecar(*saveSidecar, cfg); err != nil {
			log.Fatalf("correct: %v", err)
		}
	}
	b := img.Bounds()
	fmt.Printf("wrote %s (%dx%d)\n", *out, b.Dx(), b.Dy())
}

func runBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	jobPath := fs.String("job", "", "YAML job file (required)")
	fs.Parse(args)
	requireFlags(fs, "job", *jobPath)

	job, err := batch.LoadJob(*jobPath)
	if err != nil {
		log.Fatalf("batch: %v", err)
	}
	report, err := batch.Run(job)
	if err != nil {
		log.Fatalf("batch: %v", err)
	}

	fmt.Printf("run %s: %d corrected, %d failed\n", report.RunID, report.Processed, report.Failed)
	for _, r := range report.Results {
		if r.Error != "" {
			log.Printf("batch: %s: %s", r.Input, r.Error)
		}
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}

func runCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	in := fs.String("in", "", "source fisheye image (required)")
	out := fs.String("out", "", "output sheet path (required)")
	height := fs.Int("height", 0, "sheet height in pixels, 0 keeps the corrected height")
	grid := fs.Int("grid", 0, "overlay a straight reference grid with this spacing, 0 disables")
	quality := fs.Int("quality", 95, "JPEG quality 1-100")
	lens := newLensFlags(fs)
	fs.Parse(args)
	requireFlags(fs, "in", *in, "out", *out)

	cfg, err := lens.config()
	if err != nil {
		log.Fatalf("compare: %v", err)
	}
	src, err := imgio.Open(*in)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}
	corrected, err := fisheye.Convert(src, cfg)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}

	left, right := src, image.Image(corrected)
	if *grid > 0 {
		if left, err = render.Grid(src, *grid); err != nil {
			log.Fatalf("compare: %v", err)
		}
		if right, err = render.Grid(corrected, *grid); err != nil {
			log.Fatalf("compare: %v", err)
		}
	}

	h := *height
	if h == 0 {
		h = corrected.Bounds().Dy()
	}
	sheet, err := render.SideBySide([]render.Pane{
		{Label: "original", Image: left},
		{Label: "corrected", Image: right},
	}, h)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}
	if err := render.Save(*out, sheet, *quality); err != nil {
		log.Fatalf("compare: %v", err)
	}
	b := sheet.Bounds()
	fmt.Printf("wrote %s (%dx%d)\n", *out, b.Dx(), b.Dy())
}

func runHeatmap(args []string) {
	fs := flag.NewFlagSet("heatmap", flag.ExitOnError)
	out := fs.String("out", "", "output image path (required)")
	side := fs.Int("side", 512, "side length of the evaluated square frame")
	lens := newLensFlags(fs)
	fs.Parse(args)
	requireFlags(fs, "out", *out)

	cfg, err := lens.config()
	if err != nil {
		log.Fatalf("heatmap: %v", err)
	}
	img, maxDist, err := render.DisplacementHeatmap(cfg, *side)
	if err != nil {
		log.Fatalf("heatmap: %v", err)
	}
	if err := render.Save(*out, img, 0); err != nil {
		log.Fatalf("heatmap: %v", err)
	}
	fmt.Printf("wrote %s (max displacement %.1f px)\n", *out, maxDist)
}

func runProfile(args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	out := fs.String("out", "", "output chart path, .png or .svg (required)")
	dim := fs.Float64("dim", 1024, "normalization diameter the curves are computed for")
	modelList := fs.String("models", "", "comma-separated projection models, empty for all four")
	lens := newLensFlags(fs)
	fs.Parse(args)
	requireFlags(fs, "out", *out)

	cfg, err := lens.config()
	if err != nil {
		log.Fatalf("profile: %v", err)
	}

	var models []fisheye.Projection
	if *modelList == "" {
		models = []fisheye.Projection{fisheye.Linear, fisheye.EqualArea, fisheye.Orthographic, fisheye.Stereographic}
	} else {
		for _, m := range strings.Split(*modelList, ",") {
			models = append(models, fisheye.Projection(strings.TrimSpace(m)))
		}
	}

	if err := render.ProfilePlot(cfg, models, *dim, *out); err != nil {
		log.Fatalf("profile: %v", err)
	}
	fmt.Printf("wrote %s\n", *out)
}

func runUndistort(args []string) {
	fs := flag.NewFlagSet("undistort", flag.ExitOnError)
	in := fs.String("in", "", "source image (required)")
	out := fs.String("out", "", "output path, .png or .jpg (required)")
	paramsPath := fs.String("params", "", ".npz calibration archive, empty for the built-in calibration")
	quality := fs.Int("quality", 95, "JPEG quality 1-100")
	fs.Parse(args)
	requireFlags(fs, "in", *in, "out", *out)

	params := intrinsics.DefaultParams()
	if *paramsPath != "" {
		var err error
		if params, err = intrinsics.LoadNPZ(*paramsPath); err != nil {
			log.Fatalf("undistort: %v", err)
		}
	}
	for _, finding := range params.Diagnose() {
		log.Printf("undistort: %s", finding)
	}

	src, err := imgio.Open(*in)
	if err != nil {
		log.Fatalf("undistort: %v", err)
	}
	img, err := params.Undistort(src)
	if err != nil {
		log.Fatalf("undistort: %v", err)
	}
	if err := render.Save(*out, img, *quality); err != nil {
		log.Fatalf("undistort: %v", err)
	}
	b := img.Bounds()
	fmt.Printf("wrote %s (%dx%d)\n", *out, b.Dx(), b.Dy())
}

func runPresets() {
	for _, p := range fisheye.Presets() {
		c := p.Config
		fmt.Printf("%-15s %-13s %-10s fov=%-4g pfov=%-4g %s\n",
			p.Name, c.Model, c.Format, c.FOV, c.PFOV, p.Description)
	}
}

func runServe() {
	if os.Getenv("DEFISH_LOG_LEVEL") == "debug" {
		log.Printf("MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
