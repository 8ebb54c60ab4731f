package app

import (
	"image/color"
	"log/slog"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mweagle/goscore/density"
	"github.com/mweagle/goscore/engine"
	"github.com/mweagle/goscore/histogram"
)

var (
	histogramFill    = color.RGBA{R: 120, G: 160, B: 220, A: 255}
	belowCutoffColor = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	aboveCutoffColor = color.RGBA{R: 40, G: 150, B: 80, A: 255}
	cutoffLineColor  = color.RGBA{R: 255, G: 144, A: 255}
)

// histogramBins converts the engine bins into plotter bins.
func histogramBins(bins []histogram.Bin) []plotter.HistogramBin {
	plotBins := make([]plotter.HistogramBin, len(bins))
	for i, eachBin := range bins {
		plotBins[i] = plotter.HistogramBin{
			Min:    eachBin.Start,
			Max:    eachBin.End(),
			Weight: float64(eachBin.Count),
		}
	}
	return plotBins
}

// densitySegments splits the curve at the cutoff. The first point above the
// cutoff is shared by both segments so the overlay stays continuous.
func densitySegments(points []density.Point) (below plotter.XYs, above plotter.XYs) {
	below = make(plotter.XYs, 0, len(points))
	above = make(plotter.XYs, 0, len(points))
	for _, eachPoint := range points {
		xy := plotter.XY{X: eachPoint.X, Y: eachPoint.Y}
		if eachPoint.BelowCutoff {
			below = append(below, xy)
			continue
		}
		if len(above) == 0 && len(below) != 0 {
			below = append(below, xy)
		}
		above = append(above, xy)
	}
	return below, above
}

// PlotChart renders the histogram with the density overlay and the cutoff
// marker to chartPath. The image format follows the file extension.
func PlotChart(snapshot *engine.Snapshot, title string, chartPath string, log *slog.Logger) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Score"
	p.Y.Label.Text = "Count"

	hist := &plotter.Histogram{
		Bins:      histogramBins(snapshot.Histogram),
		Width:     histogram.BinWidth,
		FillColor: histogramFill,
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(hist)

	below, above := densitySegments(snapshot.Density)
	for _, eachSegment := range []struct {
		name  string
		xys   plotter.XYs
		color color.Color
	}{
		{"below cutoff", below, belowCutoffColor},
		{"at or above cutoff", above, aboveCutoffColor},
	} {
		if len(eachSegment.xys) == 0 {
			continue
		}
		line, lineErr := plotter.NewLine(eachSegment.xys)
		if lineErr != nil {
			return lineErr
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = eachSegment.color
		p.Add(line)
		p.Legend.Add(eachSegment.name, line)
	}

	peak := density.Peak(snapshot.Density)
	for _, eachBin := range snapshot.Histogram {
		if float64(eachBin.Count) > peak {
			peak = float64(eachBin.Count)
		}
	}
	cutoffLine, cutoffLineErr := plotter.NewLine(plotter.XYs{
		{X: snapshot.Cutoff, Y: 0},
		{X: snapshot.Cutoff, Y: peak},
	})
	if cutoffLineErr != nil {
		return cutoffLineErr
	}
	cutoffLine.LineStyle.Width = vg.Points(2)
	cutoffLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	cutoffLine.LineStyle.Color = cutoffLineColor
	p.Add(cutoffLine)
	p.Legend.Add("cutoff", cutoffLine)
	p.Legend.Top = true

	log.Debug("Saving chart", "path", chartPath, "bins", len(snapshot.Histogram), "points", len(snapshot.Density))
	return p.Save(10*vg.Inch, 6*vg.Inch, chartPath)
}
