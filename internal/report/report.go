// Package report renders neighbor-count distributions from radius searches
// as PNG plots and an HTML chart page.
package report

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/banshee-data/pointgrid/internal/stats"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series is the outcome of one radius search over a cloud.
type Series struct {
	Radius  float64
	Counts  []float64
	Summary stats.Summary
}

// NewSeries summarises the neighbor lists of one search.
func NewSeries(radius float64, lists [][]int, maxNeighbors int) Series {
	counts := stats.NeighborCounts(lists)
	return Series{
		Radius:  radius,
		Counts:  counts,
		Summary: stats.Summarize(counts, maxNeighbors),
	}
}

func (s Series) label() string {
	return strconv.FormatFloat(s.Radius, 'g', -1, 64) + " m"
}

// HistogramPlot builds a histogram of s.Counts with one bar per count;
// bar k sits at x = k.
func HistogramPlot(s Series) (*plot.Plot, error) {
	if len(s.Counts) == 0 {
		return nil, fmt.Errorf("radius %g: no counts to plot", s.Radius)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Neighbors per point, radius %s (mean %.2f, sd %.2f)",
		s.label(), s.Summary.Mean, s.Summary.StdDev)
	p.X.Label.Text = "Neighbors"
	p.Y.Label.Text = "Points"

	bins := stats.Histogram(s.Counts)
	heights := make(plotter.Values, len(bins))
	for k, n := range bins {
		heights[k] = float64(n)
	}
	width := vg.Points(max(2, 480/float64(len(bins))))
	bars, err := plotter.NewBarChart(heights, width)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	bars.Color = color.RGBA{R: 49, G: 104, B: 142, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	return p, nil
}

// WriteHistogram renders HistogramPlot(s) to w in the given image format
// ("png", "svg", "pdf", ...).
func WriteHistogram(w io.Writer, format string, s Series) error {
	p, err := HistogramPlot(s)
	if err != nil {
		return err
	}
	return writePlot(w, p, 10*vg.Inch, 5*vg.Inch, format)
}

func writePlot(w io.Writer, p *plot.Plot, width, height vg.Length, format string) error {
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// SpreadPlot plots mean and standard deviation of the neighbor count
// against radius.
func SpreadPlot(series []Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to plot")
	}

	p := plot.New()
	p.Title.Text = "Neighbor count vs radius"
	p.X.Label.Text = "Radius (m)"
	p.Y.Label.Text = "Neighbors"

	mean := make(plotter.XYs, len(series))
	sd := make(plotter.XYs, len(series))
	for i, s := range series {
		mean[i] = plotter.XY{X: s.Radius, Y: s.Summary.Mean}
		sd[i] = plotter.XY{X: s.Radius, Y: s.Summary.StdDev}
	}

	meanLine, err := plotter.NewLine(mean)
	if err != nil {
		return nil, fmt.Errorf("mean line: %w", err)
	}
	meanLine.Width = vg.Points(1.5)
	meanLine.Color = color.RGBA{R: 31, G: 158, B: 137, A: 255}

	sdLine, err := plotter.NewLine(sd)
	if err != nil {
		return nil, fmt.Errorf("std dev line: %w", err)
	}
	sdLine.Width = vg.Points(1.5)
	sdLine.Color = color.RGBA{R: 72, G: 39, B: 119, A: 255}
	sdLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(meanLine, sdLine)
	p.Legend.Add("mean", meanLine)
	p.Legend.Add("std dev", sdLine)
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// WriteSpread renders SpreadPlot(series) to w in the given image format.
func WriteSpread(w io.Writer, format string, series []Series) error {
	p, err := SpreadPlot(series)
	if err != nil {
		return err
	}
	return writePlot(w, p, 8*vg.Inch, 5*vg.Inch, format)
}

func summaryBar(title string, series []Series) *charts.Bar {
	x := make([]string, len(series))
	mean := make([]opts.BarData, len(series))
	sd := make([]opts.BarData, len(series))
	p95 := make([]opts.BarData, len(series))
	for i, s := range series {
		x[i] = s.label()
		mean[i] = opts.BarData{Value: s.Summary.Mean}
		sd[i] = opts.BarData{Value: s.Summary.StdDev}
		p95[i] = opts.BarData{Value: s.Summary.P95}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("radii=%d", len(series))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("mean", mean).
		AddSeries("std dev", sd).
		AddSeries("p95", p95)
	return bar
}

func histogramBar(s Series) *charts.Bar {
	bins := stats.Histogram(s.Counts)
	x := make([]string, len(bins))
	y := make([]opts.BarData, len(bins))
	for k, n := range bins {
		x[k] = strconv.Itoa(k)
		y[k] = opts.BarData{Value: n}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Radius " + s.label(),
			Subtitle: fmt.Sprintf("points=%d mean=%.2f sd=%.2f capped=%.1f%%", s.Summary.N, s.Summary.Mean, s.Summary.StdDev, 100*s.Summary.Capped),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Neighbors", NameLocation: "middle", NameGap: 25}),
	)
	bar.SetXAxis(x).AddSeries("points", y)
	return bar
}

// RenderHTML writes a page with a summary chart across radii followed by
// one histogram per radius.
func RenderHTML(w io.Writer, title string, series []Series) error {
	page := components.NewPage()
	page.AddCharts(summaryBar(title, series))
	for _, s := range series {
		page.AddCharts(histogramBar(s))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
