package domain

import "fmt"

// ClimatologyTable holds one mean map per calendar month. Maps[0] is
// January. Counts records how many baseline slices contributed to each
// month; a zero count leaves the map all-missing and must be surfaced to
// the user rather than treated as zero.
type ClimatologyTable struct {
	Maps   [12][][]float64
	Counts [12]int
}

// MonthlyClimatology computes per-calendar-month mean maps over the
// inclusive baseline year range, skipping missing cells. Months with no
// baseline slices stay all-missing with a zero count.
func MonthlyClimatology(f *Field, baselineStart, baselineEnd int) (*ClimatologyTable, error) {
	if baselineEnd < baselineStart {
		return nil, fmt.Errorf("baseline range %d-%d is inverted", baselineStart, baselineEnd)
	}
	nLat, nLon := f.Grid.NLat(), f.Grid.NLon()

	var sums, counts [12][][]float64
	for m := 0; m < 12; m++ {
		sums[m] = make([][]float64, nLat)
		counts[m] = make([][]float64, nLat)
		for i := 0; i < nLat; i++ {
			sums[m][i] = make([]float64, nLon)
			counts[m][i] = make([]float64, nLon)
		}
	}

	table := &ClimatologyTable{}
	for t, ym := range f.Time {
		if ym.Year < baselineStart || ym.Year > baselineEnd {
			continue
		}
		m := ym.Month - 1
		table.Counts[m]++
		slice := f.Data[t]
		for i := 0; i < nLat; i++ {
			for j := 0; j < nLon; j++ {
				if v := slice[i][j]; !IsMissing(v) {
					sums[m][i][j] += v
					counts[m][i][j]++
				}
			}
		}
	}

	for m := 0; m < 12; m++ {
		table.Maps[m] = NewSlice(nLat, nLon)
		if table.Counts[m] == 0 {
			continue
		}
		for i := 0; i < nLat; i++ {
			for j := 0; j < nLon; j++ {
				if counts[m][i][j] > 0 {
					table.Maps[m][i][j] = sums[m][i][j] / counts[m][i][j]
				}
			}
		}
	}
	return table, nil
}

// EmptyMonths lists calendar months (1-12) with no baseline support.
func (ct *ClimatologyTable) EmptyMonths() []int {
	var empty []int
	for m := 0; m < 12; m++ {
		if ct.Counts[m] == 0 {
			empty = append(empty, m+1)
		}
	}
	return empty
}

// Anomalies subtracts the climatological map of each slice's calendar month
// from the full series. Where the month has no baseline support, or the
// climatology cell is missing, the anomaly is missing.
func Anomalies(f *Field, ct *ClimatologyTable) *Field {
	nLat, nLon := f.Grid.NLat(), f.Grid.NLon()
	data := make([][][]float64, len(f.Data))
	for t, ym := range f.Time {
		m := ym.Month - 1
		out := NewSlice(nLat, nLon)
		if ct.Counts[m] > 0 {
			clim := ct.Maps[m]
			slice := f.Data[t]
			for i := 0; i < nLat; i++ {
				for j := 0; j < nLon; j++ {
					v, c := slice[i][j], clim[i][j]
					if !IsMissing(v) && !IsMissing(c) {
						out[i][j] = v - c
					}
				}
			}
		}
		data[t] = out
	}
	return &Field{Grid: f.Grid, Time: f.Time, Data: data, Unit: f.Unit}
}
