// Package interp provides missing-value-aware bilinear regridding between
// rectilinear latitude/longitude grids.
package interp

import (
	"fmt"
	"math"
	"sort"

	"github.com/polarmet/climval/internal/domain"
)

// GridCell represents a cell in a regular grid with four corner values.
type GridCell struct {
	// Corner coordinates (forming a rectangle).
	X0, X1 float64 // X boundaries (longitude).
	Y0, Y1 float64 // Y boundaries (latitude).

	// Values at the four corners:
	// V00: value at (X0, Y0).
	// V10: value at (X1, Y0).
	// V01: value at (X0, Y1).
	// V11: value at (X1, Y1).
	V00, V10, V01, V11 float64
}

// BilinearInterpolate performs bilinear interpolation within a grid cell.
// Formula:
//
//	f(x,y) ≈ (1-t)(1-u)f(x0,y0) + t(1-u)f(x1,y0) + (1-t)u*f(x0,y1) + tu*f(x1,y1)
//
// where:
//
//	t = (x - x0) / (x1 - x0)
//	u = (y - y0) / (y1 - y0)
//
// If any bracketing corner is missing, the result is missing: interpolation
// must not smear valid data across a masked region.
func BilinearInterpolate(cell GridCell, x, y float64) (float64, error) {
	if cell.X1 <= cell.X0 {
		return 0, fmt.Errorf("invalid grid cell: X1 must be > X0")
	}
	if cell.Y1 <= cell.Y0 {
		return 0, fmt.Errorf("invalid grid cell: Y1 must be > Y0")
	}

	// Check if point is within cell (with small tolerance for floating point).
	const epsilon = 1e-9
	if x < cell.X0-epsilon || x > cell.X1+epsilon {
		return 0, fmt.Errorf("x coordinate %.6f is outside grid cell [%.6f, %.6f]", x, cell.X0, cell.X1)
	}
	if y < cell.Y0-epsilon || y > cell.Y1+epsilon {
		return 0, fmt.Errorf("y coordinate %.6f is outside grid cell [%.6f, %.6f]", y, cell.Y0, cell.Y1)
	}

	if domain.IsMissing(cell.V00) || domain.IsMissing(cell.V10) ||
		domain.IsMissing(cell.V01) || domain.IsMissing(cell.V11) {
		return domain.Missing(), nil
	}

	// Normalized coordinates, clamped to [0, 1] for floating point edges.
	t := (x - cell.X0) / (cell.X1 - cell.X0)
	u := (y - cell.Y0) / (cell.Y1 - cell.Y0)
	t = math.Max(0, math.Min(1, t))
	u = math.Max(0, math.Min(1, u))

	result := (1-t)*(1-u)*cell.V00 +
		t*(1-u)*cell.V10 +
		(1-t)*u*cell.V01 +
		t*u*cell.V11

	return result, nil
}

// Grid2D represents a regular 2D grid for interpolation.
type Grid2D struct {
	X      []float64   // X coordinates (longitudes).
	Y      []float64   // Y coordinates (latitudes).
	Values [][]float64 // Values[i][j] corresponds to (X[j], Y[i]).
}

// Validate checks if the grid is valid.
func (g *Grid2D) Validate() error {
	if len(g.X) < 2 {
		return fmt.Errorf("grid must have at least 2 X coordinates")
	}
	if len(g.Y) < 2 {
		return fmt.Errorf("grid must have at least 2 Y coordinates")
	}
	if len(g.Values) != len(g.Y) {
		return fmt.Errorf("number of value rows (%d) must match Y coordinates (%d)", len(g.Values), len(g.Y))
	}
	for i, row := range g.Values {
		if len(row) != len(g.X) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.X))
		}
	}

	// Coordinates must be sorted and unique.
	for i := 1; i < len(g.X); i++ {
		if g.X[i] <= g.X[i-1] {
			return fmt.Errorf("X coordinates must be strictly increasing")
		}
	}
	for i := 1; i < len(g.Y); i++ {
		if g.Y[i] <= g.Y[i-1] {
			return fmt.Errorf("Y coordinates must be strictly increasing")
		}
	}
	return nil
}

// cellIndex locates the interval of axis containing v, or -1 when v lies
// outside the axis range.
func cellIndex(axis []float64, v float64) int {
	if v < axis[0] || v > axis[len(axis)-1] {
		return -1
	}
	// sort.SearchFloat64s returns the first index with axis[i] >= v.
	i := sort.SearchFloat64s(axis, v)
	if i > 0 {
		i--
	}
	if i >= len(axis)-1 {
		i = len(axis) - 2
	}
	return i
}

// InterpolateAt performs bilinear interpolation at a given point. Points
// outside the grid range return missing rather than an error: out-of-range
// target cells are an expected, non-fatal condition when aligning grids of
// different coverage.
func (g *Grid2D) InterpolateAt(x, y float64) float64 {
	xIdx := cellIndex(g.X, x)
	yIdx := cellIndex(g.Y, y)
	if xIdx < 0 || yIdx < 0 {
		return domain.Missing()
	}
	cell := GridCell{
		X0:  g.X[xIdx],
		X1:  g.X[xIdx+1],
		Y0:  g.Y[yIdx],
		Y1:  g.Y[yIdx+1],
		V00: g.Values[yIdx][xIdx],
		V10: g.Values[yIdx][xIdx+1],
		V01: g.Values[yIdx+1][xIdx],
		V11: g.Values[yIdx+1][xIdx+1],
	}
	v, err := BilinearInterpolate(cell, x, y)
	if err != nil {
		return domain.Missing()
	}
	return v
}

// RegridSlice interpolates one source map onto the target axes.
func RegridSlice(srcLat, srcLon []float64, values [][]float64, dstLat, dstLon []float64) ([][]float64, error) {
	src := &Grid2D{X: srcLon, Y: srcLat, Values: values}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source grid: %w", err)
	}
	out := make([][]float64, len(dstLat))
	for i, la := range dstLat {
		row := make([]float64, len(dstLon))
		for j, lo := range dstLon {
			row[j] = src.InterpolateAt(lo, la)
		}
		out[i] = row
	}
	return out, nil
}

// RegridField interpolates every time slice of a field onto the target
// grid. The result keeps the source field's time index and unit.
func RegridField(f *domain.Field, target *domain.Grid) (*domain.Field, error) {
	data := make([][][]float64, len(f.Data))
	for t, slice := range f.Data {
		out, err := RegridSlice(f.Grid.Lat, f.Grid.Lon, slice, target.Lat, target.Lon)
		if err != nil {
			return nil, fmt.Errorf("regrid time step %d: %w", t, err)
		}
		data[t] = out
	}
	return domain.NewField(target, f.Time, data, f.Unit)
}
