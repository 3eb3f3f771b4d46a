// Package report renders validation results as text reports and PNG plots.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/polarmet/climval/internal/domain"
)

// num formats a value, rendering missing results as "n/a" so reports never
// show a misleading zero for absent data.
func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

// WriteStats writes the flat statistics record.
func WriteStats(w io.Writer, rep domain.StatisticsReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "variable\t%s\n", rep.Variable)
	fmt.Fprintf(tw, "unit\t%s\n", rep.Unit)
	fmt.Fprintf(tw, "period\t%s\n", rep.Period)
	fmt.Fprintf(tw, "mean (model)\t%s\n", num(rep.Scores.MeanModel))
	fmt.Fprintf(tw, "mean (obs)\t%s\n", num(rep.Scores.MeanObs))
	fmt.Fprintf(tw, "bias\t%s\n", num(rep.Scores.Bias))
	fmt.Fprintf(tw, "rmse\t%s\n", num(rep.Scores.RMSE))
	fmt.Fprintf(tw, "correlation (temporal)\t%s\n", num(rep.Scores.Corr))
	fmt.Fprintf(tw, "correlation (spatial)\t%s\n", num(rep.SpatCorr))
	fmt.Fprintf(tw, "trend model (per decade)\t%s\tp=%s\tn=%d\n",
		num(rep.TrendMod.SlopePerDecade), num(rep.TrendMod.PValue), rep.TrendMod.N)
	fmt.Fprintf(tw, "trend obs (per decade)\t%s\tp=%s\tn=%d\n",
		num(rep.TrendObs.SlopePerDecade), num(rep.TrendObs.PValue), rep.TrendObs.N)
	fmt.Fprintf(tw, "samples\t%d\n", rep.Scores.N)
	return tw.Flush()
}

// WriteAnnualTable writes the year-by-year model/obs/difference table.
func WriteAnnualTable(w io.Writer, years []int, model, obs []float64) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "year\tmodel\tobs\tdiff")
	for i, y := range years {
		diff := domain.Missing()
		if !domain.IsMissing(model[i]) && !domain.IsMissing(obs[i]) {
			diff = model[i] - obs[i]
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", y, num(model[i]), num(obs[i]), num(diff))
	}
	return tw.Flush()
}

// Save writes the statistics record and annual table to
// <dir>/<name>_report.txt, creating the directory as needed.
func Save(dir, name string, rep domain.StatisticsReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name+"_report.txt")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := WriteStats(f, rep); err != nil {
		return "", err
	}
	fmt.Fprintln(f)
	if len(rep.YearsList) > 0 {
		if err := WriteAnnualTable(f, rep.YearsList, rep.Model, rep.Obs); err != nil {
			return "", err
		}
	}
	return path, nil
}
