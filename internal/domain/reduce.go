package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CosLatWeights builds the cosine-latitude weight array used when no cell
// area field is available, broadcast across nLon columns.
func CosLatWeights(lat []float64, nLon int) [][]float64 {
	w := make([][]float64, len(lat))
	for i, la := range lat {
		c := math.Cos(la * math.Pi / 180)
		if c < 0 {
			c = 0
		}
		row := make([]float64, nLon)
		for j := range row {
			row[j] = c
		}
		w[i] = row
	}
	return w
}

// WeightedMean computes the weighted spatial mean over non-missing cells.
// Sums accumulate in float64 regardless of the inputs' storage precision.
// A zero valid-weight sum yields a missing result, never a fault.
func WeightedMean(values, weights [][]float64) float64 {
	num := make([]float64, len(values))
	den := make([]float64, len(values))
	for i := range values {
		var n, d float64
		for j, v := range values[i] {
			w := weights[i][j]
			if IsMissing(v) || IsMissing(w) || w <= 0 {
				continue
			}
			n += v * w
			d += w
		}
		num[i], den[i] = n, d
	}
	d := floats.Sum(den)
	if d == 0 {
		return Missing()
	}
	return floats.Sum(num) / d
}

// VolumeWeightedMean computes the volume-weighted mean of a 3-D slice
// indexed [level][lat][lon]. Cell weight is horizontal area times layer
// thickness; cells missing at a layer contribute zero weight at that layer.
// The reduction runs over the whole (level, lat, lon) extent in one pass so
// thin and thick layers are weighted consistently.
func VolumeWeightedMean(values [][][]float64, area [][]float64, levels *LevelSet) float64 {
	num := make([]float64, levels.NLevels())
	den := make([]float64, levels.NLevels())
	for k := 0; k < levels.NLevels(); k++ {
		dz := levels.Thickness(k)
		var n, d float64
		for i := range values[k] {
			for j, v := range values[k][i] {
				a := area[i][j]
				if IsMissing(v) || IsMissing(a) || a <= 0 {
					continue
				}
				w := a * dz
				n += v * w
				d += w
			}
		}
		num[k], den[k] = n, d
	}
	d := floats.Sum(den)
	if d == 0 {
		return Missing()
	}
	return floats.Sum(num) / d
}

// IceArea computes sea-ice area: the concentration-weighted sum of cell
// areas over cells whose concentration (0-100) exceeds the threshold.
func IceArea(conc, area [][]float64, threshold float64) float64 {
	var sum float64
	for i := range conc {
		for j, c := range conc[i] {
			a := area[i][j]
			if IsMissing(c) || IsMissing(a) || c <= threshold {
				continue
			}
			sum += a * c / 100
		}
	}
	return sum
}

// IceExtent computes sea-ice extent: the summed area of cells whose
// concentration exceeds the threshold.
func IceExtent(conc, area [][]float64, threshold float64) float64 {
	var sum float64
	for i := range conc {
		for j, c := range conc[i] {
			a := area[i][j]
			if IsMissing(c) || IsMissing(a) || c <= threshold {
				continue
			}
			sum += a
		}
	}
	return sum
}

// AnnualMeans collapses a monthly series to per-year means. When
// requireComplete is true a year with any missing month is reported
// missing; otherwise the mean is taken over the months available.
func AnnualMeans(ti TimeIndex, series []float64, requireComplete bool) (years []int, means []float64) {
	years = ti.Years()
	means = make([]float64, len(years))
	pos := 0
	for yi, y := range years {
		var sum float64
		n, total := 0, 0
		for pos < len(ti) && ti[pos].Year == y {
			total++
			if v := series[pos]; !IsMissing(v) {
				sum += v
				n++
			}
			pos++
		}
		switch {
		case n == 0, requireComplete && (n < total || total < 12):
			means[yi] = Missing()
		default:
			means[yi] = sum / float64(n)
		}
	}
	return years, means
}
