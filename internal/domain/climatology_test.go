package domain

import (
	"math"
	"testing"
)

// twoYearField builds a 24-month 1x2-cell field over 2000-2001 whose
// January values are 10 and 12 and every other month is 5.
func twoYearField(t *testing.T) *Field {
	t.Helper()
	grid, err := NewGrid([]float64{0, 10}, []float64{0, 10}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ti := MonthlyIndex(2000, 2001)
	data := make([][][]float64, len(ti))
	for i, ym := range ti {
		v := 5.0
		if ym.Month == 1 {
			v = 10
			if ym.Year == 2001 {
				v = 12
			}
		}
		data[i] = [][]float64{{v, v}, {v, v}}
	}
	f, err := NewField(grid, ti, data, "unit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return f
}

func TestMonthlyClimatology_JanuaryMean(t *testing.T) {
	f := twoYearField(t)
	ct, err := MonthlyClimatology(f, 2000, 2001)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ct.Counts[0] != 2 {
		t.Fatalf("January count: expected 2, got %d", ct.Counts[0])
	}
	if math.Abs(ct.Maps[0][0][0]-11.0) > 1e-9 {
		t.Errorf("January climatology: expected 11.0, got %v", ct.Maps[0][0][0])
	}
}

func TestAnomalies_January(t *testing.T) {
	f := twoYearField(t)
	ct, err := MonthlyClimatology(f, 2000, 2001)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	anom := Anomalies(f, ct)
	// First January (index 0) is 10 - 11 = -1; second (index 12) is +1.
	if math.Abs(anom.Data[0][0][0]-(-1.0)) > 1e-9 {
		t.Errorf("first January anomaly: expected -1.0, got %v", anom.Data[0][0][0])
	}
	if math.Abs(anom.Data[12][0][0]-1.0) > 1e-9 {
		t.Errorf("second January anomaly: expected +1.0, got %v", anom.Data[12][0][0])
	}
}

func TestMonthlyClimatology_EmptyBaselineMonth(t *testing.T) {
	grid, err := NewGrid([]float64{0, 10}, []float64{0, 10}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Only two Januaries; every other calendar month has no slices at all.
	ti := TimeIndex{{Year: 2000, Month: 1}, {Year: 2001, Month: 1}}
	data := [][][]float64{
		{{10, 10}, {10, 10}},
		{{12, 12}, {12, 12}},
	}
	f, err := NewField(grid, ti, data, "unit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ct, err := MonthlyClimatology(f, 2000, 2001)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	empty := ct.EmptyMonths()
	if len(empty) != 11 {
		t.Fatalf("expected 11 empty months, got %v", empty)
	}
	// An empty month's map is all-missing, never zero.
	if !IsMissing(ct.Maps[1][0][0]) {
		t.Errorf("February climatology: expected missing, got %v", ct.Maps[1][0][0])
	}
}

func TestAnomalies_UndefinedWithoutBaseline(t *testing.T) {
	grid, err := NewGrid([]float64{0, 10}, []float64{0, 10}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ti := TimeIndex{{Year: 2000, Month: 1}, {Year: 2000, Month: 2}}
	data := [][][]float64{
		{{10, 10}, {10, 10}},
		{{20, 20}, {20, 20}},
	}
	f, err := NewField(grid, ti, data, "unit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Baseline restricted to 1990-1995: no month has support.
	ct, err := MonthlyClimatology(f, 1990, 1995)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	anom := Anomalies(f, ct)
	for ts := range anom.Data {
		if !IsMissing(anom.Data[ts][0][0]) {
			t.Errorf("slice %d: anomaly without baseline support should be missing, got %v", ts, anom.Data[ts][0][0])
		}
	}
}

func TestMonthlyClimatology_SkipsMissingCells(t *testing.T) {
	grid, err := NewGrid([]float64{0, 10}, []float64{0, 10}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	nan := math.NaN()
	ti := TimeIndex{{Year: 2000, Month: 1}, {Year: 2001, Month: 1}}
	data := [][][]float64{
		{{10, nan}, {10, 10}},
		{{12, 8}, {12, 12}},
	}
	f, err := NewField(grid, ti, data, "unit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	ct, err := MonthlyClimatology(f, 2000, 2001)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Cell (0,1) has one valid January sample; its mean is that sample.
	if math.Abs(ct.Maps[0][0][1]-8.0) > 1e-9 {
		t.Errorf("cell with one valid sample: expected 8.0, got %v", ct.Maps[0][0][1])
	}
}
