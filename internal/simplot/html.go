package simplot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/simview/internal/fsutil"
)

// HTMLOptions controls the interactive page.
type HTMLOptions struct {
	PageTitle string
	// AssetsHost overrides where echarts.min.js is loaded from; empty uses
	// the go-echarts default CDN.
	AssetsHost string
}

// NewLineChart builds an echarts line chart for s.
func NewLineChart(s Series, assetsHost string) *charts.Line {
	x := make([]int, len(s.Samples))
	data := make([]opts.LineData, len(s.Samples))
	for i, v := range s.Samples {
		x[i] = i
		data[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px", AssetsHost: assetsHost}),
		charts.WithTitleOpts(opts.Title{Title: s.Name, Subtitle: fmt.Sprintf("samples=%d", len(s.Samples))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sample index", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Value", Min: 0, Max: 255}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x).
		AddSeries(s.Name, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	return line
}

// RenderHTML writes a page with one independent line chart per series.
func RenderHTML(w io.Writer, series []Series, o HTMLOptions) error {
	page := components.NewPage()
	if o.PageTitle != "" {
		page.PageTitle = o.PageTitle
	}
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}

	for _, s := range series {
		page.AddCharts(NewLineChart(s, o.AssetsHost))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// SaveHTML writes the interactive page to path.
func SaveHTML(fsys fsutil.FileSystem, path string, series []Series, o HTMLOptions) (err error) {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return RenderHTML(f, series, o)
}
