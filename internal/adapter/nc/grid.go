package nc

import (
	"fmt"

	"github.com/fhs/go-netcdf/netcdf"

	"github.com/polarmet/climval/internal/domain"
)

// RawGrid holds grid geometry as read from disk, before axis normalization.
type RawGrid struct {
	Lat  []float64
	Lon  []float64
	Area [][]float64 // Nil when the dataset carries no cell-area variable.
}

// readCoordAxis reads a coordinate variable that may be 1-D (rectilinear)
// or 2-D (curvilinear). 2-D arrays are returned as-is for repair.
func readCoordAxis(v netcdf.Var) (oneD []float64, twoD [][]float64, err error) {
	shape, err := varShape(v)
	if err != nil {
		return nil, nil, err
	}
	switch len(shape) {
	case 1:
		a, err := readFlat(v, shape[0])
		return a, nil, err
	case 2:
		flat, err := readFlat(v, shape[0]*shape[1])
		if err != nil {
			return nil, nil, err
		}
		return nil, unflatten(flat, shape[0], shape[1]), nil
	default:
		return nil, nil, fmt.Errorf("coordinate variable has %d dimensions, expected 1 or 2", len(shape))
	}
}

// readGrid reads the grid geometry from an open dataset. Curvilinear
// coordinate arrays are repaired (gaps filled) and reduced to rectilinear
// axes.
func readGrid(ds netcdf.Dataset, path string, gs GridSpec) (*RawGrid, error) {
	latNames := gs.LatNames
	if len(latNames) == 0 {
		latNames = DefaultLatNames
	}
	lonNames := gs.LonNames
	if len(lonNames) == 0 {
		lonNames = DefaultLonNames
	}

	latVar, err := findVar(ds, path, latNames)
	if err != nil {
		return nil, err
	}
	lonVar, err := findVar(ds, path, lonNames)
	if err != nil {
		return nil, err
	}

	lat1, lat2, err := readCoordAxis(latVar)
	if err != nil {
		return nil, fmt.Errorf("read latitude from %s: %w", path, err)
	}
	lon1, lon2, err := readCoordAxis(lonVar)
	if err != nil {
		return nil, fmt.Errorf("read longitude from %s: %w", path, err)
	}

	g := &RawGrid{Lat: lat1, Lon: lon1}
	if lat2 != nil || lon2 != nil {
		if lat2 == nil || lon2 == nil {
			return nil, fmt.Errorf("%s mixes 1-D and 2-D coordinate arrays", path)
		}
		lat2, err = domain.RepairCoords(lat2)
		if err != nil {
			return nil, fmt.Errorf("repair latitude in %s: %w", path, err)
		}
		lon2, err = domain.RepairCoords(lon2)
		if err != nil {
			return nil, fmt.Errorf("repair longitude in %s: %w", path, err)
		}
		g.Lat, g.Lon, err = domain.AxesFromCurvilinear(lat2, lon2)
		if err != nil {
			return nil, fmt.Errorf("reduce curvilinear grid in %s: %w", path, err)
		}
	}

	if len(gs.AreaNames) > 0 {
		areaVar, err := findVar(ds, path, gs.AreaNames)
		if err != nil {
			return nil, err
		}
		area, err := read2D(areaVar, len(g.Lat), len(g.Lon))
		if err != nil {
			return nil, fmt.Errorf("read cell area from %s: %w", path, err)
		}
		if gs.AreaScale != 0 && gs.AreaScale != 1 {
			for i := range area {
				for j := range area[i] {
					area[i][j] *= gs.AreaScale
				}
			}
		}
		g.Area = area
	}
	return g, nil
}

// ReadGrid reads grid geometry from a standalone file (e.g. an ocean grid
// geometry file separate from the data files).
func ReadGrid(path string, gs GridSpec) (*RawGrid, error) {
	ds, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()
	return readGrid(ds, path, gs)
}

// Normalize converts a raw grid and its data slices into a validated
// domain.Grid in canonical orientation. The permutation applied to the axes
// is applied to the area array and every data slice in lock-step.
func (g *RawGrid) Normalize(slices [][][]float64) (*domain.Grid, [][][]float64, error) {
	withArea := slices
	if g.Area != nil {
		withArea = append([][][]float64{g.Area}, slices...)
	}
	lat, lon, out := domain.NormalizeAxes(g.Lat, g.Lon, withArea)
	var area [][]float64
	if g.Area != nil {
		area = out[0]
		out = out[1:]
	}
	grid, err := domain.NewGrid(lat, lon, area)
	if err != nil {
		return nil, nil, fmt.Errorf("grid validation: %w", err)
	}
	return grid, out, nil
}
