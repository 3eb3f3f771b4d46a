package nc

import (
	"fmt"
	"math"

	"github.com/polarmet/climval/internal/domain"
)

// TimeSpec describes the time axis of an observational dataset. Units, when
// set, is the CF units string ("days since 1850-01-01"). When empty, the
// loader recognizes integer YYYYMM encodings on its own; a calendar axis
// without a configured units string is an error.
type TimeSpec struct {
	Names []string
	Units string
}

var defaultTimeNames = []string{"time", "date", "T"}

// looksLikeYYYYMM reports whether every value decodes as a plausible
// year-month integer.
func looksLikeYYYYMM(vals []float64) bool {
	for _, v := range vals {
		if v != math.Trunc(v) {
			return false
		}
		code := int(v)
		y, m := code/100, code%100
		if y < 1000 || y > 9999 || m < 1 || m > 12 {
			return false
		}
	}
	return len(vals) > 0
}

// decodeTimeAxis turns raw time values into a TimeIndex.
func decodeTimeAxis(vals []float64, ts TimeSpec) (domain.TimeIndex, error) {
	if ts.Units != "" {
		return domain.TimeIndexFromCF(ts.Units, vals)
	}
	if looksLikeYYYYMM(vals) {
		codes := make([]int32, len(vals))
		for i, v := range vals {
			codes[i] = int32(v)
		}
		return domain.TimeIndexFromYYYYMM(codes)
	}
	return nil, fmt.Errorf("time axis is not YYYYMM-encoded and no units string was configured")
}

// LoadObsSeries reads a complete multi-time observation file: grid, time
// axis and the [time][lat][lon] data variable, returned as a normalized
// field.
func LoadObsSeries(path string, spec VarSpec, gs GridSpec, ts TimeSpec) (*domain.Field, error) {
	ds, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	raw, err := readGrid(ds, path, gs)
	if err != nil {
		return nil, err
	}

	timeNames := ts.Names
	if len(timeNames) == 0 {
		timeNames = defaultTimeNames
	}
	timeVar, err := findVar(ds, path, timeNames)
	if err != nil {
		return nil, err
	}
	timeVals, err := read1D(timeVar)
	if err != nil {
		return nil, fmt.Errorf("read time axis from %s: %w", path, err)
	}
	ti, err := decodeTimeAxis(timeVals, ts)
	if err != nil {
		return nil, fmt.Errorf("decode time axis of %s: %w", path, err)
	}

	v, err := findVar(ds, path, spec.Names)
	if err != nil {
		return nil, err
	}
	slices, err := read3D(v, len(raw.Lat), len(raw.Lon))
	if err != nil {
		return nil, fmt.Errorf("read %v from %s: %w", spec.Names, path, err)
	}
	if len(slices) != len(ti) {
		return nil, fmt.Errorf("%s: %d time slices but %d time axis entries", path, len(slices), len(ti))
	}
	for t := range slices {
		spec.convert(slices[t])
	}

	grid, slices, err := raw.Normalize(slices)
	if err != nil {
		return nil, err
	}
	return domain.NewField(grid, ti, slices, spec.Unit)
}

// LoadObsScalarSeries reads a time axis plus a 1-D series variable, for
// observation products distributed as pre-reduced scalar series (e.g.
// volume-mean ocean temperature).
func LoadObsScalarSeries(path string, spec VarSpec, ts TimeSpec) (domain.TimeIndex, []float64, error) {
	ds, err := openFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = ds.Close() }()

	timeNames := ts.Names
	if len(timeNames) == 0 {
		timeNames = defaultTimeNames
	}
	timeVar, err := findVar(ds, path, timeNames)
	if err != nil {
		return nil, nil, err
	}
	timeVals, err := read1D(timeVar)
	if err != nil {
		return nil, nil, fmt.Errorf("read time axis from %s: %w", path, err)
	}
	ti, err := decodeTimeAxis(timeVals, ts)
	if err != nil {
		return nil, nil, fmt.Errorf("decode time axis of %s: %w", path, err)
	}

	v, err := findVar(ds, path, spec.Names)
	if err != nil {
		return nil, nil, err
	}
	vals, err := read1D(v)
	if err != nil {
		return nil, nil, fmt.Errorf("read %v from %s: %w", spec.Names, path, err)
	}
	if len(vals) != len(ti) {
		return nil, nil, fmt.Errorf("%s: %d values but %d time axis entries", path, len(vals), len(ti))
	}
	spec.convert([][]float64{vals})
	return ti, vals, nil
}
