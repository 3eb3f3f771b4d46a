package nc

import (
	"fmt"
	"path/filepath"

	"github.com/polarmet/climval/internal/domain"
)

// FileLayout resolves the monthly output files of a model run. Pattern is a
// fmt pattern taking the file year (%04d) and month (%02d), e.g.
// "run.h.%04d-%02d.nc". Models running on their own calendar store files
// under model years; YearOffset is calendar year minus model year, so a run
// whose model year 1 corresponds to calendar year 2000 has YearOffset 1999.
type FileLayout struct {
	Dir        string
	Pattern    string
	YearOffset int
}

// Path returns the file path holding the given calendar year and month.
func (l FileLayout) Path(year, month int) string {
	return filepath.Join(l.Dir, fmt.Sprintf(l.Pattern, year-l.YearOffset, month))
}

// readVar reads one 2-D data slice according to the var spec: first
// matching name, optional second variable added cell-wise, then scaling.
func readVar(path string, spec VarSpec, nLat, nLon int) ([][]float64, error) {
	ds, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	v, err := findVar(ds, path, spec.Names)
	if err != nil {
		return nil, err
	}
	data, err := read2D(v, nLat, nLon)
	if err != nil {
		return nil, fmt.Errorf("read %v from %s: %w", spec.Names, path, err)
	}
	if len(spec.Plus) > 0 {
		v2, err := findVar(ds, path, spec.Plus)
		if err != nil {
			return nil, err
		}
		extra, err := read2D(v2, nLat, nLon)
		if err != nil {
			return nil, fmt.Errorf("read %v from %s: %w", spec.Plus, path, err)
		}
		for i := range data {
			for j := range data[i] {
				data[i][j] += extra[i][j]
			}
		}
	}
	spec.convert(data)
	return data, nil
}

// LoadMonthlyField reads one month file per (year, month) over the
// inclusive year range and assembles the normalized field. The grid
// geometry is taken from the first file unless gridPath names a separate
// geometry file.
func LoadMonthlyField(layout FileLayout, spec VarSpec, gs GridSpec, gridPath string, startYear, endYear int) (*domain.Field, error) {
	ti := domain.MonthlyIndex(startYear, endYear)

	if gridPath == "" {
		gridPath = layout.Path(startYear, 1)
	}
	raw, err := ReadGrid(gridPath, gs)
	if err != nil {
		return nil, err
	}
	nLat, nLon := len(raw.Lat), len(raw.Lon)

	slices := make([][][]float64, 0, len(ti))
	for _, ym := range ti {
		slice, err := readVar(layout.Path(ym.Year, ym.Month), spec, nLat, nLon)
		if err != nil {
			return nil, err
		}
		slices = append(slices, slice)
	}

	grid, slices, err := raw.Normalize(slices)
	if err != nil {
		return nil, err
	}
	return domain.NewField(grid, ti, slices, spec.Unit)
}

// EachMonth3D streams one 3-D [level][lat][lon] slice per month to the
// callback without retaining the series, for full-depth ocean fields whose
// complete time series would not fit comfortably in memory. The grid must
// already be normalized by the caller; slices are reordered to match it.
func EachMonth3D(layout FileLayout, spec VarSpec, raw *RawGrid, startYear, endYear int,
	fn func(ym domain.YearMonth, slice [][][]float64) error) error {
	nLat, nLon := len(raw.Lat), len(raw.Lon)
	for _, ym := range domain.MonthlyIndex(startYear, endYear) {
		path := layout.Path(ym.Year, ym.Month)
		slice, err := readVar3D(path, spec, nLat, nLon)
		if err != nil {
			return err
		}
		_, _, slice = domain.NormalizeAxes(raw.Lat, raw.Lon, slice)
		if err := fn(ym, slice); err != nil {
			return err
		}
	}
	return nil
}

// readVar3D reads one full-depth slice from a monthly ocean file.
func readVar3D(path string, spec VarSpec, nLat, nLon int) ([][][]float64, error) {
	ds, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	v, err := findVar(ds, path, spec.Names)
	if err != nil {
		return nil, err
	}
	data, err := read3D(v, nLat, nLon)
	if err != nil {
		return nil, fmt.Errorf("read %v from %s: %w", spec.Names, path, err)
	}
	for k := range data {
		spec.convert(data[k])
	}
	return data, nil
}
