package usecase

import (
	"math"
	"testing"

	"github.com/polarmet/climval/internal/adapter/interp"
	"github.com/polarmet/climval/internal/domain"
)

func TestAlignMonthly(t *testing.T) {
	tiA := domain.TimeIndex{
		{Year: 2000, Month: 1}, {Year: 2000, Month: 2}, {Year: 2000, Month: 3},
	}
	tiB := domain.TimeIndex{
		{Year: 2000, Month: 2}, {Year: 2000, Month: 3}, {Year: 2000, Month: 4},
	}
	a := []float64{1, 2, 3}
	b := []float64{20, 30, 40}
	ti, outA, outB := alignMonthly(tiA, a, tiB, b)
	if len(ti) != 2 {
		t.Fatalf("expected 2 common months, got %d", len(ti))
	}
	if outA[0] != 2 || outB[0] != 20 {
		t.Errorf("first common month: expected (2, 20), got (%v, %v)", outA[0], outB[0])
	}
	if outA[1] != 3 || outB[1] != 30 {
		t.Errorf("second common month: expected (3, 30), got (%v, %v)", outA[1], outB[1])
	}
}

func TestHemisphereOnly(t *testing.T) {
	slice := [][]float64{
		{1, 1},
		{2, 2},
	}
	lat := []float64{-45, 45}

	north := hemisphereOnly(slice, lat, "north")
	if !domain.IsMissing(north[0][0]) || north[1][0] != 2 {
		t.Errorf("north: southern row should be missing, northern kept: %v", north)
	}
	south := hemisphereOnly(slice, lat, "south")
	if south[0][0] != 1 || !domain.IsMissing(south[1][0]) {
		t.Errorf("south: northern row should be missing, southern kept: %v", south)
	}
	global := hemisphereOnly(slice, lat, "global")
	if global[0][0] != 1 || global[1][0] != 2 {
		t.Errorf("global: nothing should be masked: %v", global)
	}
}

func TestSubsetYears(t *testing.T) {
	grid, err := domain.NewGrid([]float64{0, 10}, []float64{0, 10}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ti := domain.MonthlyIndex(1999, 2001)
	data := make([][][]float64, len(ti))
	for i := range data {
		data[i] = [][]float64{{1, 1}, {1, 1}}
	}
	f, err := domain.NewField(grid, ti, data, "unit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sub, err := subsetYears(f, YearRange{Start: 2000, End: 2000})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sub.Data) != 12 {
		t.Errorf("expected 12 slices, got %d", len(sub.Data))
	}
	if sub.Time[0].Year != 2000 {
		t.Errorf("first slice year: expected 2000, got %d", sub.Time[0].Year)
	}

	if _, err := subsetYears(f, YearRange{Start: 2050, End: 2060}); err == nil {
		t.Error("expected error for range outside the series")
	}
}

func TestTimeMeanMap(t *testing.T) {
	grid, err := domain.NewGrid([]float64{0, 10}, []float64{0, 10}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	nan := math.NaN()
	ti := domain.TimeIndex{{Year: 2000, Month: 1}, {Year: 2000, Month: 2}}
	data := [][][]float64{
		{{2, nan}, {4, nan}},
		{{4, 6}, {8, nan}},
	}
	f, err := domain.NewField(grid, ti, data, "unit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	mean := timeMeanMap(f)
	if math.Abs(mean[0][0]-3) > 1e-9 {
		t.Errorf("cell (0,0): expected 3, got %v", mean[0][0])
	}
	if math.Abs(mean[0][1]-6) > 1e-9 {
		t.Errorf("cell (0,1): expected mean over the single valid sample, got %v", mean[0][1])
	}
	if !domain.IsMissing(mean[1][1]) {
		t.Errorf("cell (1,1): expected missing, got %v", mean[1][1])
	}
}

// TestConstantFieldEndToEnd exercises the reduction chain of the
// precipitation pipeline on synthetic data: a constant 3.0 mm/day field
// regridded onto an identical grid keeps a global weighted mean of 3.0 and
// zero bias against an identical observation series.
func TestConstantFieldEndToEnd(t *testing.T) {
	lat := []float64{-30, -10, 10, 30}
	lon := []float64{0, 90, 180, 270}
	grid, err := domain.NewGrid(lat, lon, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ti := domain.MonthlyIndex(2000, 2000)
	data := make([][][]float64, len(ti))
	for i := range data {
		data[i] = make([][]float64, len(lat))
		for r := range data[i] {
			data[i][r] = []float64{3, 3, 3, 3}
		}
	}
	model, err := domain.NewField(grid, ti, data, "mm/day")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	regridded, err := interp.RegridField(model, grid)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	weights := grid.CellWeights()
	series := monthlySeries(regridded, func(slice [][]float64) float64 {
		return domain.WeightedMean(slice, weights)
	})
	for i, v := range series {
		if math.Abs(v-3.0) > 1e-9 {
			t.Errorf("month %d: expected global mean 3.0, got %v", i, v)
		}
	}

	rep := annualReport("precipitation_global", "mm/day", YearRange{2000, 2000}, regridded.Time, series, series, true)
	if math.Abs(rep.Scores.Bias) > 1e-9 {
		t.Errorf("bias against identical obs: expected 0, got %v", rep.Scores.Bias)
	}
	if math.Abs(rep.Scores.RMSE) > 1e-9 {
		t.Errorf("rmse against identical obs: expected 0, got %v", rep.Scores.RMSE)
	}
	if len(rep.YearsList) != 1 || rep.YearsList[0] != 2000 {
		t.Errorf("unexpected years: %v", rep.YearsList)
	}
	if math.Abs(rep.Model[0]-3.0) > 1e-9 {
		t.Errorf("annual mean: expected 3.0, got %v", rep.Model[0])
	}
}

func TestAnnualReportTrends(t *testing.T) {
	// Five years of perfectly linear annual values: slope 1/yr = 10/decade.
	ti := domain.MonthlyIndex(2000, 2004)
	model := make([]float64, len(ti))
	obs := make([]float64, len(ti))
	for i, ym := range ti {
		model[i] = float64(ym.Year - 1999)
		obs[i] = float64(ym.Year - 1999)
	}
	rep := annualReport("test", "unit", YearRange{2000, 2004}, ti, model, obs, true)
	if math.Abs(rep.TrendMod.SlopePerDecade-10.0) > 1e-9 {
		t.Errorf("model trend: expected 10.0 per decade, got %v", rep.TrendMod.SlopePerDecade)
	}
	if math.Abs(rep.Scores.Corr-1.0) > 1e-9 {
		t.Errorf("correlation: expected 1.0, got %v", rep.Scores.Corr)
	}
}
