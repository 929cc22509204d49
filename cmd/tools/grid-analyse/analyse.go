package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/pointgrid/internal/config"
	"github.com/banshee-data/pointgrid/internal/db"
	"github.com/banshee-data/pointgrid/internal/fsutil"
	"github.com/banshee-data/pointgrid/internal/geom"
	"github.com/banshee-data/pointgrid/internal/monitoring"
	"github.com/banshee-data/pointgrid/internal/radius"
	"github.com/banshee-data/pointgrid/internal/report"
	"github.com/banshee-data/pointgrid/internal/security"
	"github.com/banshee-data/pointgrid/internal/subsample"
	"github.com/banshee-data/pointgrid/internal/synth"
	"github.com/banshee-data/pointgrid/internal/timeutil"
)

// Options holds the command-line settings.
type Options struct {
	ConfigPath  string
	Cloud       string
	Points      int
	Radii       []float64
	Decimate    float64
	DBPath      string
	OutputDir   string
	Seed        uint64
	Verbose     bool
	ShowVersion bool
}

// Result is what one invocation measured.
type Result struct {
	Cloud           string    `json:"cloud"`
	Points          int       `json:"points"`
	DecimatedPoints int       `json:"decimated_points,omitempty"`
	Runs            []*db.Run `json:"runs"`
	Files           []string  `json:"files,omitempty"`
}

// analyser runs searches and writes what they produce. store may be nil.
type analyser struct {
	fs    fsutil.FileSystem
	clock timeutil.Clock
	store *db.RunStore
}

func parseRadii(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var radii []float64
	for _, field := range strings.Split(s, ",") {
		r, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid radius %q: %w", field, err)
		}
		radii = append(radii, r)
	}
	return radii, nil
}

func generate(cloud string, n int, seed uint64) ([]geom.Point, error) {
	switch cloud {
	case "gaussian":
		return synth.GaussianDisk(n, 5, 10, seed), nil
	case "uniform":
		return synth.Uniform(n, geom.Point{X: 10, Y: 10, Z: 10}, seed), nil
	}
	return nil, fmt.Errorf("unknown cloud %q (want gaussian or uniform)", cloud)
}

// analyse generates the cloud, optionally decimates it, and runs one search
// per radius. Runs are recorded when a store is set and plots are written
// when opts.OutputDir is set.
func (a *analyser) analyse(opts Options, sc *config.SearchConfig) (*Result, error) {
	points, err := generate(opts.Cloud, opts.Points, opts.Seed)
	if err != nil {
		return nil, err
	}
	result := &Result{Cloud: opts.Cloud, Points: len(points)}

	decimate := sc.GetDecimateResolution()
	if opts.Decimate > 0 {
		decimate = opts.Decimate
	}
	if decimate > 0 {
		points, err = subsample.Decimate(points, decimate, sc.GetRandomSeed())
		if err != nil {
			return nil, fmt.Errorf("decimate: %w", err)
		}
		result.DecimatedPoints = len(points)
		monitoring.Logf("decimated %d points to %d at %g m", result.Points, len(points), decimate)
	}

	radii := opts.Radii
	if len(radii) == 0 {
		radii = []float64{sc.GetRadius()}
	}

	var series []report.Series
	for _, r := range radii {
		params := sc.Params()
		params.Radius = r

		start := a.clock.Now()
		lists, err := radius.Neighbors(points, params)
		if err != nil {
			return nil, fmt.Errorf("radius %g: %w", r, err)
		}
		elapsed := a.clock.Since(start)

		s := report.NewSeries(r, lists, params.MaxNeighbors)
		series = append(series, s)

		run := &db.Run{
			Cloud:              opts.Cloud,
			Points:             result.Points,
			Radius:             r,
			MaxNeighbors:       params.MaxNeighbors,
			Cylindrical:        params.Cylindrical,
			Workers:            params.Workers,
			Seed:               opts.Seed,
			Summary:            s.Summary,
			Duration:           elapsed,
			DecimateResolution: decimate,
			DecimatedPoints:    result.DecimatedPoints,
			CreatedAt:          start.UnixNano(),
		}
		if a.store != nil {
			if err := a.store.Insert(run); err != nil {
				return nil, err
			}
		}
		result.Runs = append(result.Runs, run)
	}

	if opts.OutputDir != "" && len(points) > 0 {
		if err := a.writeOutputs(opts, series, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// writeOutputs writes one histogram per radius, the spread plot, the HTML
// report and result.json into opts.OutputDir. File names start with the
// sanitised cloud name.
func (a *analyser) writeOutputs(opts Options, series []report.Series, result *Result) error {
	if err := a.fs.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	prefix := security.SanitizeFilename(opts.Cloud)

	for _, s := range series {
		name := fmt.Sprintf("%s_neighbors_r%g.png", prefix, s.Radius)
		if err := a.writeFile(opts.OutputDir, name, result, func(w io.Writer) error {
			return report.WriteHistogram(w, "png", s)
		}); err != nil {
			return err
		}
	}
	if err := a.writeFile(opts.OutputDir, prefix+"_spread.png", result, func(w io.Writer) error {
		return report.WriteSpread(w, "png", series)
	}); err != nil {
		return err
	}
	title := fmt.Sprintf("Neighbor counts: %s cloud", opts.Cloud)
	if err := a.writeFile(opts.OutputDir, prefix+"_report.html", result, func(w io.Writer) error {
		return report.RenderHTML(w, title, series)
	}); err != nil {
		return err
	}

	path, err := security.JoinWithin(opts.OutputDir, prefix+"_result.json")
	if err != nil {
		return err
	}
	result.Files = append(result.Files, path)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := a.fs.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (a *analyser) writeFile(dir, name string, result *Result, render func(io.Writer) error) error {
	path, err := security.JoinWithin(dir, name)
	if err != nil {
		return err
	}
	f, err := a.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	result.Files = append(result.Files, path)
	return nil
}
