package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/polarmet/climval/internal/domain"
)

// series converts a year-indexed series to plot points, dropping missing
// values so the line breaks rather than dipping to zero.
func series(years []int, values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(years))
	for i, y := range years {
		if domain.IsMissing(values[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(y), Y: values[i]})
	}
	return pts
}

// trendLine evaluates a fitted trend at the series endpoints.
func trendLine(years []int, tr domain.TrendResult) plotter.XYs {
	if len(years) < 2 || domain.IsMissing(tr.SlopePerDecade) || domain.IsMissing(tr.Intercept) {
		return nil
	}
	slope := tr.SlopePerDecade / 10
	x0, x1 := float64(years[0]), float64(years[len(years)-1])
	return plotter.XYs{
		{X: x0, Y: tr.Intercept + slope*x0},
		{X: x1, Y: tr.Intercept + slope*x1},
	}
}

// PlotAnnualSeries renders the annual model and observation series, with
// their fitted trend lines when defined, to <dir>/<name>_timeseries.png.
func PlotAnnualSeries(dir, name, title, ylabel string, rep domain.StatisticsReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "year"
	p.Y.Label.Text = ylabel
	p.Legend.Top = true

	args := []interface{}{
		"model", series(rep.YearsList, rep.Model),
		"obs", series(rep.YearsList, rep.Obs),
	}
	if tl := trendLine(rep.YearsList, rep.TrendMod); tl != nil {
		args = append(args, "model trend", tl)
	}
	if tl := trendLine(rep.YearsList, rep.TrendObs); tl != nil {
		args = append(args, "obs trend", tl)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return "", fmt.Errorf("assemble plot: %w", err)
	}

	path := filepath.Join(dir, name+"_timeseries.png")
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save plot: %w", err)
	}
	return path, nil
}
