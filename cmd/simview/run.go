package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/simview/internal/config"
	"github.com/banshee-data/simview/internal/fsutil"
	"github.com/banshee-data/simview/internal/monitoring"
	"github.com/banshee-data/simview/internal/simdb"
	"github.com/banshee-data/simview/internal/simfile"
	"github.com/banshee-data/simview/internal/simplot"
	"github.com/banshee-data/simview/internal/timeutil"
)

// Series names; they also name the plot files (sim_input.png, sim_output.png).
const (
	inputSeriesName  = "Sim input"
	outputSeriesName = "Sim output"
)

type source struct {
	name string
	path string
}

type decoded struct {
	source
	rows    []simfile.LineResult
	samples []int
}

type runResult struct {
	OutputDir string
	Plots     []string
	HTML      string
	RunIDs    []string
}

// run decodes both sources, in order, then renders and optionally stores them.
// A source that cannot be opened stops the run before anything is written.
func run(ctx context.Context, cfg *config.SimviewConfig, fsys fsutil.FileSystem, clock timeutil.Clock, verbose bool) (*runResult, error) {
	start := clock.Now()

	sources := []source{
		{name: inputSeriesName, path: cfg.GetInputPath()},
		{name: outputSeriesName, path: cfg.GetOutputPath()},
	}

	results := make([]decoded, 0, len(sources))
	for _, src := range sources {
		rows, err := simfile.DecodeFileRows(fsys, src.path)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", src.name, err)
		}
		d := decoded{source: src, rows: rows, samples: simfile.Flatten(rows)}
		results = append(results, d)

		s := simfile.Summarize(d.samples)
		monitoring.Logf("%s: %s lines=%d samples=%d min=%.0f max=%.0f mean=%.2f std=%.2f",
			src.name, src.path, len(rows), s.Count, s.Min, s.Max, s.Mean, s.StdDev)
		if verbose {
			monitoring.Logf("%s: fallback rows=%d", src.name, simfile.FallbackCount(rows))
		}
	}

	series := make([]simplot.Series, len(results))
	for i, d := range results {
		series[i] = simplot.Series{Name: d.name, Samples: d.samples}
	}

	res := &runResult{OutputDir: simplot.MakeOutputDir(fsys, cfg.GetPlotDir(), start)}
	opts := simplot.Options{
		Format: cfg.GetFormat(),
		Width:  vg.Length(cfg.GetWidthInches()) * vg.Inch,
		Height: vg.Length(cfg.GetHeightInches()) * vg.Inch,
	}
	plots, err := simplot.SavePlots(fsys, res.OutputDir, series, opts)
	if err != nil {
		return nil, fmt.Errorf("save plots: %w", err)
	}
	res.Plots = plots

	if cfg.GetHTML() {
		res.HTML = filepath.Join(res.OutputDir, "index.html")
		title := fmt.Sprintf("simview %s", timeutil.FormatStamp(start))
		if err := simplot.SaveHTML(fsys, res.HTML, series, simplot.HTMLOptions{PageTitle: title}); err != nil {
			return nil, fmt.Errorf("save html: %w", err)
		}
	}

	if path := cfg.GetDBPath(); path != "" {
		ids, err := recordRuns(ctx, path, results, start)
		if err != nil {
			return nil, err
		}
		res.RunIDs = ids
	}

	monitoring.Logf("wrote %d plots to %s in %v", len(res.Plots), res.OutputDir, clock.Since(start))
	return res, nil
}

func recordRuns(ctx context.Context, path string, results []decoded, created time.Time) ([]string, error) {
	db, err := simdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}
	defer db.Close()

	ids := make([]string, 0, len(results))
	for _, d := range results {
		id, err := db.RecordRun(ctx, simdb.Run{
			Label:        d.name,
			SourcePath:   d.path,
			CreatedAt:    created,
			LineCount:    len(d.rows),
			FallbackRows: simfile.FallbackCount(d.rows),
			Samples:      d.samples,
		})
		if err != nil {
			return ids, fmt.Errorf("record %s: %w", d.name, err)
		}
		monitoring.Logf("recorded %s as run %s", d.name, id)
		ids = append(ids, id)
	}
	return ids, nil
}
