package domain

import (
	"math"
	"testing"
)

func TestWeightedMean_UniformWeightsIsArithmeticMean(t *testing.T) {
	values := [][]float64{{2, 4}, {6, 8}}
	weights := [][]float64{{1, 1}, {1, 1}}
	got := WeightedMean(values, weights)
	if math.Abs(got-5.0) > 1e-9 {
		t.Errorf("expected 5.0, got %v", got)
	}
}

func TestWeightedMean_AllMissingIsMissing(t *testing.T) {
	nan := math.NaN()
	values := [][]float64{{nan, nan}, {nan, nan}}
	weights := [][]float64{{1, 1}, {1, 1}}
	if got := WeightedMean(values, weights); !IsMissing(got) {
		t.Errorf("expected missing result, got %v", got)
	}
}

func TestWeightedMean_ZeroWeightIsMissing(t *testing.T) {
	values := [][]float64{{1, 2}}
	weights := [][]float64{{0, 0}}
	if got := WeightedMean(values, weights); !IsMissing(got) {
		t.Errorf("expected missing result for zero weight sum, got %v", got)
	}
}

func TestWeightedMean_SkipsMissingCells(t *testing.T) {
	nan := math.NaN()
	values := [][]float64{{10, nan}, {30, nan}}
	weights := [][]float64{{1, 1}, {1, 1}}
	got := WeightedMean(values, weights)
	if math.Abs(got-20) > 1e-9 {
		t.Errorf("expected 20 over valid cells, got %v", got)
	}
}

func TestVolumeWeightedMean_ThicknessWeighting(t *testing.T) {
	// Two layers: 0-10 m and 10-40 m. The thick layer carries 3x the weight.
	levels, err := NewLevelSet([]float64{5, 25}, []float64{0, 10, 40})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	values := [][][]float64{
		{{4}}, // Thin layer.
		{{8}}, // Thick layer.
	}
	area := [][]float64{{1}}
	got := VolumeWeightedMean(values, area, levels)
	want := (4.0*10 + 8.0*30) / 40
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestVolumeWeightedMean_MissingLayerCellExcluded(t *testing.T) {
	levels, err := NewLevelSet([]float64{5, 15}, []float64{0, 10, 20})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	nan := math.NaN()
	values := [][][]float64{
		{{2}},
		{{nan}}, // Missing at depth contributes zero weight there.
	}
	area := [][]float64{{1}}
	got := VolumeWeightedMean(values, area, levels)
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("expected 2 from the valid layer only, got %v", got)
	}
}

func TestIceAreaAndExtent(t *testing.T) {
	conc := [][]float64{
		{100, 50},
		{10, 0}, // Below the 15% threshold: excluded from both.
	}
	area := [][]float64{
		{1, 1},
		{1, 1},
	}
	gotArea := IceArea(conc, area, 15)
	if math.Abs(gotArea-1.5) > 1e-9 {
		t.Errorf("SIA: expected 1.5, got %v", gotArea)
	}
	gotExtent := IceExtent(conc, area, 15)
	if math.Abs(gotExtent-2.0) > 1e-9 {
		t.Errorf("SIE: expected 2.0, got %v", gotExtent)
	}
}

func TestIceArea_UniformFullCover(t *testing.T) {
	n := 4
	conc := make([][]float64, n)
	area := make([][]float64, n)
	for i := range conc {
		conc[i] = []float64{100, 100, 100, 100}
		area[i] = []float64{1, 1, 1, 1}
	}
	if got := IceArea(conc, area, 15); math.Abs(got-16) > 1e-9 {
		t.Errorf("SIA: expected 16, got %v", got)
	}
	if got := IceExtent(conc, area, 15); math.Abs(got-16) > 1e-9 {
		t.Errorf("SIE: expected 16, got %v", got)
	}
}

func TestAnnualMeans(t *testing.T) {
	ti := MonthlyIndex(2000, 2000)
	series := make([]float64, 12)
	for i := range series {
		series[i] = 7.5
	}
	years, means := AnnualMeans(ti, series, true)
	if len(years) != 1 || years[0] != 2000 {
		t.Fatalf("unexpected years: %v", years)
	}
	if math.Abs(means[0]-7.5) > 1e-9 {
		t.Errorf("expected 7.5, got %v", means[0])
	}

	// Strict policy: a missing month voids the year.
	series[3] = Missing()
	_, means = AnnualMeans(ti, series, true)
	if !IsMissing(means[0]) {
		t.Errorf("expected missing year under strict policy, got %v", means[0])
	}
	// Lenient policy: mean over available months.
	_, means = AnnualMeans(ti, series, false)
	if math.Abs(means[0]-7.5) > 1e-9 {
		t.Errorf("expected 7.5 over available months, got %v", means[0])
	}
}

func TestCosLatWeights(t *testing.T) {
	w := CosLatWeights([]float64{0, 60, 90}, 2)
	if math.Abs(w[0][0]-1) > 1e-9 {
		t.Errorf("equator weight: expected 1, got %v", w[0][0])
	}
	if math.Abs(w[1][1]-0.5) > 1e-9 {
		t.Errorf("60 deg weight: expected 0.5, got %v", w[1][1])
	}
	if math.Abs(w[2][0]) > 1e-9 {
		t.Errorf("pole weight: expected 0, got %v", w[2][0])
	}
}
