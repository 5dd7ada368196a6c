// Package simplot renders decoded sample sequences as line plots.
//
// Each Series is drawn on its own plot with the sample index on the x axis.
// Image output uses gonum/plot; RenderHTML writes an interactive page with
// go-echarts. Neither is needed to decode records.
package simplot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/simview/internal/fsutil"
)

// Series is a named sample sequence.
type Series struct {
	Name    string
	Samples []int
}

// Options controls image rendering.
type Options struct {
	// Format is any format accepted by gonum/plot (png, svg, pdf, jpg, tiff).
	Format string
	Width  vg.Length
	Height vg.Length
	// Color of the line; zero value picks from the series palette.
	Color color.Color
}

// DefaultOptions returns 14x6 inch PNG output.
func DefaultOptions() Options {
	return Options{
		Format: "png",
		Width:  14 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Format == "" {
		o.Format = d.Format
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// XYs converts samples to plot points indexed by position.
func XYs(samples []int) plotter.XYs {
	pts := make(plotter.XYs, len(samples))
	for i, v := range samples {
		pts[i].X = float64(i)
		pts[i].Y = float64(v)
	}
	return pts
}

// NewPlot builds a line plot for s. An empty series yields a plot with axes only.
func NewPlot(s Series, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Name
	p.X.Label.Text = "Sample index"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())

	if len(s.Samples) == 0 {
		return p, nil
	}

	line, err := plotter.NewLine(XYs(s.Samples))
	if err != nil {
		return nil, fmt.Errorf("build line for %s: %w", s.Name, err)
	}
	if c != nil {
		line.Color = c
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("%s (%d samples)", s.Name, len(s.Samples)), line)
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// RenderLine writes a single line plot of s to w.
func RenderLine(w io.Writer, s Series, opts Options) error {
	opts = opts.withDefaults()

	p, err := NewPlot(s, opts.Color)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("create %s writer: %w", opts.Format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s plot: %w", s.Name, err)
	}
	return nil
}

// SavePlots writes one plot file per series into dir, named <name>.<format>.
// It returns the written paths in series order.
func SavePlots(fsys fsutil.FileSystem, dir string, series []Series, opts Options) ([]string, error) {
	opts = opts.withDefaults()

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	colors := generateColors(len(series))
	paths := make([]string, 0, len(series))
	for i, s := range series {
		o := opts
		if o.Color == nil {
			o.Color = colors[i]
		}

		path := filepath.Join(dir, FileName(s.Name, o.Format))
		if err := savePlot(fsys, path, s, o); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func savePlot(fsys fsutil.FileSystem, path string, s Series, opts Options) (err error) {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return RenderLine(f, s, opts)
}

// generateColors creates a palette of distinct colors, one per series.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := 0.6 + float64(i)/float64(n)
		if hue >= 1 {
			hue--
		}
		r, g, b := hslToRGB(hue, 0.7, 0.45)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB maps hue, saturation and lightness in [0,1] to 8-bit RGB.
// Each channel n (red 0, green 8, blue 4) is sampled from the same
// piecewise-linear profile shifted around the 12-step hue circle.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	a := s * math.Min(l, 1-l)
	channel := func(n float64) uint8 {
		k := math.Mod(n+h*12, 12)
		v := l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
		return uint8(math.Round(v * 255))
	}
	return channel(0), channel(8), channel(4)
}
