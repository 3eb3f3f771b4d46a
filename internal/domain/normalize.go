package domain

import (
	"fmt"
	"math"
	"sort"
)

// GridRepairError marks an unrecoverable gap in a coordinate array. Inputs
// producing it are considered corrupt and abort the run.
type GridRepairError struct {
	Row, Col int
}

func (e *GridRepairError) Error() string {
	return fmt.Sprintf("coordinate cell (%d,%d) has no valid neighbor to fill from", e.Row, e.Col)
}

// RepairCoords fills missing entries of a (possibly curvilinear) coordinate
// array. Interior gaps are closed by 1-D linear interpolation along the
// first axis; cells that interpolation cannot bracket are filled by
// nearest-neighbor propagation, scanning forward then backward so edge gaps
// on either side find a donor. Originally valid values are never altered.
func RepairCoords(coords [][]float64) ([][]float64, error) {
	out := CopySlice(coords)
	if countMissing(out) == 0 {
		return out, nil
	}

	nRows := len(out)
	if nRows == 0 {
		return out, nil
	}
	nCols := len(out[0])

	// Linear interpolation down each column.
	for j := 0; j < nCols; j++ {
		interpColumn(out, j)
	}

	if countMissing(out) == 0 {
		return out, nil
	}

	// Forward pass: copy from the previous row, else the previous column.
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			if !IsMissing(out[i][j]) {
				continue
			}
			if i > 0 && !IsMissing(out[i-1][j]) {
				out[i][j] = out[i-1][j]
			} else if j > 0 && !IsMissing(out[i][j-1]) {
				out[i][j] = out[i][j-1]
			}
		}
	}
	// Backward pass for gaps with donors only on the high side.
	for i := nRows - 1; i >= 0; i-- {
		for j := nCols - 1; j >= 0; j-- {
			if !IsMissing(out[i][j]) {
				continue
			}
			if i < nRows-1 && !IsMissing(out[i+1][j]) {
				out[i][j] = out[i+1][j]
			} else if j < nCols-1 && !IsMissing(out[i][j+1]) {
				out[i][j] = out[i][j+1]
			}
		}
	}

	for i := range out {
		for j := range out[i] {
			if IsMissing(out[i][j]) {
				return nil, &GridRepairError{Row: i, Col: j}
			}
		}
	}
	return out, nil
}

// interpColumn linearly fills interior gaps of column j using the nearest
// valid values above and below.
func interpColumn(a [][]float64, j int) {
	n := len(a)
	i := 0
	for i < n {
		if !IsMissing(a[i][j]) {
			i++
			continue
		}
		// Find the gap [lo+1, hi-1] bracketed by valid rows lo and hi.
		lo := i - 1
		hi := i
		for hi < n && IsMissing(a[hi][j]) {
			hi++
		}
		if lo >= 0 && hi < n {
			v0 := a[lo][j]
			v1 := a[hi][j]
			span := float64(hi - lo)
			for k := lo + 1; k < hi; k++ {
				a[k][j] = v0 + (v1-v0)*float64(k-lo)/span
			}
		}
		i = hi
	}
}

func countMissing(a [][]float64) int {
	n := 0
	for i := range a {
		for j := range a[i] {
			if IsMissing(a[i][j]) {
				n++
			}
		}
	}
	return n
}

// LonTo360 maps longitudes into [0, 360) and returns the converted axis in
// ascending order together with the stable permutation that produced it.
// The same permutation must be applied to every data array sharing the
// longitude axis so coordinates and data stay aligned.
func LonTo360(lon []float64) ([]float64, []int) {
	conv := make([]float64, len(lon))
	for i, v := range lon {
		if v < 0 {
			v += 360
		}
		conv[i] = v
	}
	perm := make([]int, len(conv))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return conv[perm[a]] < conv[perm[b]] })
	out := make([]float64, len(conv))
	for i, p := range perm {
		out[i] = conv[p]
	}
	return out, perm
}

// ReorderLon applies a longitude permutation to the last axis of a map.
func ReorderLon(data [][]float64, perm []int) [][]float64 {
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = make([]float64, len(row))
		for j, p := range perm {
			out[i][j] = row[p]
		}
	}
	return out
}

// ReverseLat reverses the latitude axis of a map in lock-step with a
// reversed coordinate array.
func ReverseLat(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	for i := range data {
		out[i] = data[len(data)-1-i]
	}
	return out
}

// reverseFloats returns a reversed copy of a coordinate axis.
func reverseFloats(a []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[len(a)-1-i]
	}
	return out
}

// NormalizeAxes brings raw coordinate axes and their data slices into the
// canonical orientation: longitudes in [0, 360) ascending, latitudes
// ascending. Data slices are re-ordered with the exact permutation applied
// to the axes. The operation is idempotent: already-canonical input passes
// through unchanged.
func NormalizeAxes(lat, lon []float64, slices [][][]float64) ([]float64, []float64, [][][]float64) {
	outLon, perm := LonTo360(lon)
	identity := true
	for i, p := range perm {
		if p != i {
			identity = false
			break
		}
	}
	outSlices := slices
	if !identity {
		outSlices = make([][][]float64, len(slices))
		for t, s := range slices {
			outSlices[t] = ReorderLon(s, perm)
		}
	}

	outLat := lat
	if len(lat) > 1 && lat[0] > lat[len(lat)-1] {
		outLat = reverseFloats(lat)
		rev := make([][][]float64, len(outSlices))
		for t, s := range outSlices {
			rev[t] = ReverseLat(s)
		}
		outSlices = rev
	}
	return outLat, outLon, outSlices
}

// AxesFromCurvilinear reduces repaired 2-D coordinate arrays to rectilinear
// axes by taking the latitude of the first column and the longitude of the
// first row. This matches the displaced-pole model grids handled here, whose
// latitude varies only along rows and longitude only along columns away
// from the pole; callers with truly irregular grids must regrid upstream.
func AxesFromCurvilinear(lat2, lon2 [][]float64) (lat, lon []float64, err error) {
	if len(lat2) == 0 || len(lat2[0]) == 0 {
		return nil, nil, fmt.Errorf("empty coordinate array")
	}
	if len(lon2) != len(lat2) || len(lon2[0]) != len(lat2[0]) {
		return nil, nil, fmt.Errorf("latitude and longitude arrays differ in shape")
	}
	lat = make([]float64, len(lat2))
	for i := range lat2 {
		lat[i] = lat2[i][0]
	}
	lon = make([]float64, len(lon2[0]))
	copy(lon, lon2[0])
	for _, v := range lat {
		if IsMissing(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("latitude axis still contains invalid values after repair")
		}
	}
	return lat, lon, nil
}
